package recipepage

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"recipecart/internal/assert"
	"recipecart/internal/components/telemetry"
	"recipecart/internal/recipe"
	"recipecart/lib/restyutil"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("internal/scrapers/recipepage")

const (
	report_client_scrape = "client.scrape"
)

// StatusError is returned when the recipe page responds with a non-2xx status.
type StatusError struct {
	Url        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch recipe page %s: unexpected status %d", e.Url, e.StatusCode)
}

type Options struct {
	UserAgent string
	Timeout   time.Duration
	// Wild enables the microdata and class name fallbacks for pages
	// without recipe JSON-LD.
	Wild bool
	// Output receives full http dumps when non-nil.
	Output restyutil.InstrumentOutput
}

// Client scrapes recipe pages, it implements recipe.Scraper.
type Client struct {
	http *resty.Client
	wild bool
	tel  telemetry.API
}

func NewClient(opts Options, tel telemetry.API) (Client, error) {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("recipe_scraper", tel)

	httpClient := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return Client{}, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	if opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}
	restyutil.InstrumentClient(httpClient, "scraper", tracer, opts.Output)

	return Client{
		http: httpClient,
		wild: opts.Wild,
		tel:  tel,
	}, nil
}

func (c Client) Scrape(ctx context.Context, url string) (recipe.Page, error) {
	ctx, span := tracer.Start(ctx, "client:Scrape")
	defer span.End()
	span.SetAttributes(attribute.String("recipe.url", url))

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_scrape, fmt.Errorf("fetch: %w", err), url)
		return recipe.Page{}, err
	}
	if !res.IsSuccess() {
		err := &StatusError{Url: url, StatusCode: res.StatusCode()}
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_scrape, err)
		return recipe.Page{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_scrape, fmt.Errorf("parse html: %w", err), url)
		return recipe.Page{}, err
	}

	page := c.ParseDocument(doc)
	span.SetAttributes(attribute.Int("recipe.ingredients", len(page.Ingredients)))
	if len(page.Ingredients) == 0 {
		span.SetStatus(codes.Error, recipe.ErrNoIngredients.Error())
		return page, recipe.ErrNoIngredients
	}
	return page, nil
}

// ParseDocument reads the title and ingredients out of a recipe page.
func (c Client) ParseDocument(doc *goquery.Document) recipe.Page {
	page := c.parseJsonLd(doc)
	if len(page.Ingredients) > 0 {
		c.tel.ReportDebug("found ingredients in json-ld", len(page.Ingredients))
	}

	if len(page.Ingredients) == 0 && c.wild {
		page.Ingredients = wildIngredients(doc)
		if len(page.Ingredients) > 0 {
			c.tel.ReportDebug("found ingredients in markup", len(page.Ingredients))
		}
	}
	if page.Title == "" {
		page.Title = fallbackTitle(doc)
	}
	return page
}
