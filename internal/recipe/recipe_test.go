package recipe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"recipecart/internal/components/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type fakeScraper struct {
	page Page
	err  error
}

func (s fakeScraper) Scrape(ctx context.Context, url string) (Page, error) {
	return s.page, s.err
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(contents)
}

func TestExtractAppendsLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ingredients")
	extractor := NewExtractor(fakeScraper{
		page: Page{
			Title:       "Pancakes",
			Ingredients: []string{"2 eggs", "1 cup flour"},
		},
	}, Log{Path: logPath}, &telemetry.Recorder{})

	r, err := extractor.Extract(context.Background(), "https://example.com/pancakes")
	if err != nil {
		t.Fatal(err)
	}

	diff := cmp.Diff(Recipe{
		Title:       "Pancakes",
		Url:         "https://example.com/pancakes",
		Ingredients: []string{"2 eggs", "1 cup flour"},
	}, r)
	if diff != "" {
		t.Fatal(diff)
	}
	require.Equal(t, "Pancakes:\nhttps://example.com/pancakes\n\n", readLog(t, logPath))

	_, err = extractor.Extract(context.Background(), "https://example.com/pancakes")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(
		t,
		"Pancakes:\nhttps://example.com/pancakes\n\nPancakes:\nhttps://example.com/pancakes\n\n",
		readLog(t, logPath),
	)
}

func TestExtractNoIngredients(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ingredients")
	rec := &telemetry.Recorder{}
	extractor := NewExtractor(fakeScraper{
		page: Page{Title: "Empty"},
	}, Log{Path: logPath}, rec)

	_, err := extractor.Extract(context.Background(), "https://example.com/empty")
	require.True(t, errors.Is(err, ErrNoIngredients))
	require.Len(t, rec.Reports("warning"), 1)

	_, err = os.Stat(logPath)
	require.True(t, os.IsNotExist(err))
}

func TestExtractScrapeError(t *testing.T) {
	scrapeErr := errors.New("connection refused")
	rec := &telemetry.Recorder{}
	extractor := NewExtractor(
		fakeScraper{err: scrapeErr},
		Log{Path: filepath.Join(t.TempDir(), "ingredients")},
		rec,
	)

	_, err := extractor.Extract(context.Background(), "https://example.com")
	require.True(t, errors.Is(err, scrapeErr))

	broken := rec.Reports("broken")
	require.Len(t, broken, 1)
	require.Equal(t, "recipe: extractor.extract", broken[0].Id)
}

func TestLogAppendUnwritable(t *testing.T) {
	log := Log{Path: filepath.Join(t.TempDir(), "missing", "ingredients")}
	err := log.Append(Recipe{Title: "x", Url: "y"})
	require.Error(t, err)
}
