package recipe

import (
	"context"
	"errors"
	"fmt"
	"recipecart/internal/assert"
	"recipecart/internal/components/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("internal/recipe")

var ErrNoIngredients = errors.New("no ingredients found")

const (
	report_extractor_extract = "extractor.extract"
	report_extractor_log     = "extractor.log"
)

// Page is what a scraper pulls out of a recipe web page.
type Page struct {
	Title       string
	Ingredients []string
}

// Recipe is a scraped page together with the url it came from.
type Recipe struct {
	Title       string
	Url         string
	Ingredients []string
}

type Scraper interface {
	Scrape(ctx context.Context, url string) (Page, error)
}

// Extractor scrapes recipes and keeps a record of every recipe it has
// scraped in an append-only log.
type Extractor struct {
	scraper Scraper
	log     Log
	tel     telemetry.API
}

func NewExtractor(scraper Scraper, log Log, tel telemetry.API) Extractor {
	assert.NotNil(scraper)
	assert.NotNil(tel)
	return Extractor{
		scraper: scraper,
		log:     log,
		tel:     telemetry.NewScopedAPI("recipe", tel),
	}
}

// Extract scrapes the recipe at `url` and appends one record of it to the
// log. A page without ingredients fails with ErrNoIngredients and is not
// logged.
func (e Extractor) Extract(ctx context.Context, url string) (Recipe, error) {
	ctx, span := tracer.Start(ctx, "extractor:Extract")
	defer span.End()

	page, err := e.scraper.Scrape(ctx, url)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		e.tel.ReportBroken(report_extractor_extract, err, url)
		return Recipe{}, fmt.Errorf("scrape %s: %w", url, err)
	}
	if len(page.Ingredients) == 0 {
		span.SetStatus(codes.Error, ErrNoIngredients.Error())
		e.tel.ReportWarning(report_extractor_extract, ErrNoIngredients, url)
		return Recipe{}, fmt.Errorf("scrape %s: %w", url, ErrNoIngredients)
	}

	r := Recipe{
		Title:       page.Title,
		Url:         url,
		Ingredients: page.Ingredients,
	}
	err = e.log.Append(r)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		e.tel.ReportBroken(report_extractor_log, err, e.log.Path)
		return Recipe{}, err
	}
	e.tel.ReportDebug("extracted recipe", r.Title, len(r.Ingredients))

	return r, nil
}
