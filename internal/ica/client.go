package ica

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"recipecart/internal/assert"
	"recipecart/internal/components/telemetry"
	"recipecart/lib/restyutil"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("internal/ica")

const DefaultBaseUrl = "https://handla.api.ica.se"

const ticketHeader = "AuthenticationTicket"

var (
	ErrLoginFailed      = errors.New("login failed")
	ErrMissingTicket    = errors.New("login response did not carry an authentication ticket")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrListNotCreated   = errors.New("shopping list not found after creating it")
)

const (
	report_client_authenticate        = "client.authenticate"
	report_client_list_shopping_lists = "client.list-shopping-lists"
	report_client_create_list         = "client.create-list"
	report_client_post_items          = "client.post-items"
	report_client_resolve_list        = "client.resolve-list"
)

// StatusError is returned whenever the vendor answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
	// Err is an optional sentinel describing the failed operation.
	Err error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: unexpected status %d", e.Op, e.Err.Error(), e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

type Options struct {
	BaseUrl string
	Timeout time.Duration
	// Output receives full http dumps when non-nil.
	Output restyutil.InstrumentOutput
	// Random is the source of offline ids, crypto/rand when nil.
	Random io.Reader
}

// Client is a session against the vendor's shopping list api. It holds the
// authentication ticket once Authenticate succeeds and is not safe for
// concurrent use.
type Client struct {
	http   *resty.Client
	random io.Reader
	ticket string
	tel    telemetry.API
}

func NewClient(opts Options, tel telemetry.API) *Client {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("ica_client", tel)

	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(baseUrl)
	httpClient.SetHeader("Content-Type", "application/json")
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}
	restyutil.InstrumentClient(httpClient, "vendor", tracer, opts.Output)

	random := opts.Random
	if random == nil {
		random = rand.Reader
	}

	return &Client{
		http:   httpClient,
		random: random,
		tel:    tel,
	}
}

// Authenticated reports whether Authenticate has succeeded.
func (c *Client) Authenticated() bool {
	return c.ticket != ""
}

// Authenticate logs in with basic auth and keeps the returned ticket for
// every later request.
func (c *Client) Authenticate(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:Authenticate")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(username, password).
		Get("/api/login")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_authenticate, fmt.Errorf("request: %w", err))
		return fmt.Errorf("login: %w", err)
	}
	if !res.IsSuccess() {
		err := &StatusError{Op: "login", StatusCode: res.StatusCode(), Err: ErrLoginFailed}
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_authenticate, err)
		return err
	}

	ticket := res.Header().Get(ticketHeader)
	if ticket == "" {
		span.SetStatus(codes.Error, ErrMissingTicket.Error())
		c.tel.ReportBroken(report_client_authenticate, ErrMissingTicket)
		return ErrMissingTicket
	}

	c.ticket = ticket
	c.http.SetHeader(ticketHeader, ticket)
	c.tel.ReportDebug("authenticated")
	return nil
}

func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	if !c.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	return c.http.R().SetContext(ctx), nil
}
