package app

import (
	"context"
	"fmt"
	"log/slog"
	"recipecart/internal/assert"
	"recipecart/internal/config"
	"recipecart/internal/recipe"
	"recipecart/internal/translate"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("internal/app")
	meter  = otel.Meter("internal/app")
)

const (
	StepExtract      = "extract"
	StepTranslate    = "translate"
	StepAuthenticate = "authenticate"
	StepResolveList  = "resolve list"
	StepPostItems    = "post items"
)

// StepError tells which step of a run failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Err.Error())
}

func (e *StepError) Unwrap() error {
	return e.Err
}

type Extractor interface {
	Extract(ctx context.Context, url string) (recipe.Recipe, error)
}

// Vendor is the subset of the shopping list client a run needs.
type Vendor interface {
	Authenticate(ctx context.Context, username, password string) error
	ResolveList(ctx context.Context, title string) (id string, created bool, err error)
	PostItems(ctx context.Context, listId string, names []string) error
}

type Options struct {
	Credentials config.Credentials
	Extractor   Extractor
	// Translator is optional, ingredients are posted as scraped when nil.
	Translator translate.Translator
	Vendor     Vendor
}

type App struct {
	creds      config.Credentials
	extractor  Extractor
	translator translate.Translator
	vendor     Vendor

	itemsPosted metric.Int64Counter
}

// Result describes what a successful run posted.
type Result struct {
	Recipe      recipe.Recipe
	ListId      string
	ListCreated bool
	Items       []string
}

func New(opts Options) (*App, error) {
	assert.NotNil(opts.Extractor)
	assert.NotNil(opts.Vendor)

	itemsPosted, err := meter.Int64Counter(
		"recipecart.items_posted",
		metric.WithDescription("Number of ingredients added to shopping lists."),
	)
	if err != nil {
		return nil, err
	}

	return &App{
		creds:       opts.Credentials,
		extractor:   opts.Extractor,
		translator:  opts.Translator,
		vendor:      opts.Vendor,
		itemsPosted: itemsPosted,
	}, nil
}

// Run adds the ingredients of the recipe at `url` to the configured
// shopping list. Side effects of steps before a failure are kept.
func (a *App) Run(ctx context.Context, url string) (Result, error) {
	ctx, span := tracer.Start(ctx, "app:Run")
	defer span.End()

	fail := func(step string, err error) (Result, error) {
		span.SetStatus(codes.Error, err.Error())
		return Result{}, &StepError{Step: step, Err: err}
	}

	slog.InfoContext(ctx, "scraping recipe", "url", url)
	r, err := a.extractor.Extract(ctx, url)
	if err != nil {
		return fail(StepExtract, err)
	}
	slog.InfoContext(ctx, "found recipe", "title", r.Title, "ingredients", len(r.Ingredients))

	items := r.Ingredients
	if a.translator != nil {
		slog.InfoContext(ctx, "translating ingredients")
		items, err = translate.All(ctx, a.translator, r.Ingredients)
		if err != nil {
			return fail(StepTranslate, err)
		}
	}

	slog.InfoContext(ctx, "logging in")
	err = a.vendor.Authenticate(ctx, a.creds.Username, a.creds.Password)
	if err != nil {
		return fail(StepAuthenticate, err)
	}

	listId, created, err := a.vendor.ResolveList(ctx, a.creds.ListName)
	if err != nil {
		return fail(StepResolveList, err)
	}

	slog.InfoContext(ctx, "adding ingredients", "list", a.creds.ListName, "items", len(items))
	err = a.vendor.PostItems(ctx, listId, items)
	if err != nil {
		return fail(StepPostItems, err)
	}
	a.itemsPosted.Add(ctx, int64(len(items)))

	return Result{
		Recipe:      r,
		ListId:      listId,
		ListCreated: created,
		Items:       items,
	}, nil
}
