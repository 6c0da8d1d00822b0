package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"recipecart/internal/assert"
	"recipecart/internal/components/telemetry"
	"recipecart/lib/restyutil"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("internal/translate")

var ErrEmptyTranslation = errors.New("empty translation")

const (
	report_google_translate = "google.translate"
)

// StatusError is returned when the translation endpoint responds with a
// non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("translation request: unexpected status %d", e.StatusCode)
}

type GoogleOptions struct {
	Endpoint string
	Source   string
	Target   string
	// requests per second, zero disables throttling
	Rate    float64
	Timeout time.Duration
	Output  restyutil.InstrumentOutput
}

// GoogleClient translates through the public translate_a/single endpoint.
type GoogleClient struct {
	http   *resty.Client
	source string
	target string
	tel    telemetry.API
}

func NewGoogleClient(opts GoogleOptions, tel telemetry.API) GoogleClient {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.Endpoint)
	tel = telemetry.NewScopedAPI("translate", tel)

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.Endpoint)
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	if opts.Rate > 0 {
		rateLimiter := rate.NewLimiter(rate.Limit(opts.Rate), 1)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}
	restyutil.InstrumentClient(httpClient, "translate", tracer, opts.Output)

	return GoogleClient{
		http:   httpClient,
		source: opts.Source,
		target: opts.Target,
		tel:    tel,
	}
}

func (c GoogleClient) Translate(ctx context.Context, text string) (string, error) {
	ctx, span := tracer.Start(ctx, "google:Translate")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client": "gtx",
			"sl":     c.source,
			"tl":     c.target,
			"dt":     "t",
			"q":      text,
		}).
		Get("/translate_a/single")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_google_translate, fmt.Errorf("request: %w", err))
		return "", err
	}
	if !res.IsSuccess() {
		err := &StatusError{StatusCode: res.StatusCode()}
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_google_translate, err)
		return "", err
	}

	translated, err := decodeGoogleResponse(res.Body())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_google_translate, err, res.String())
		return "", err
	}
	c.tel.ReportDebug("translated", text, translated)
	return translated, nil
}

// the response is a nested array where the first element holds
// [translated, original, ...] segments.
func decodeGoogleResponse(body []byte) (string, error) {
	var response []json.RawMessage
	err := json.Unmarshal(body, &response)
	if err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(response) == 0 {
		return "", ErrEmptyTranslation
	}

	var segments [][]any
	err = json.Unmarshal(response[0], &segments)
	if err != nil {
		return "", fmt.Errorf("decode segments: %w", err)
	}

	var out strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		text, ok := segment[0].(string)
		if !ok {
			continue
		}
		out.WriteString(text)
	}
	if out.Len() == 0 {
		return "", ErrEmptyTranslation
	}
	return out.String(), nil
}
