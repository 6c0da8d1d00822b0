package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"recipecart/lib/configutil"
)

const (
	ScraperModeWild   = "wild"
	ScraperModeStrict = "strict"
)

var ErrInvalidValue = errors.New("invalid configuration value")

type VendorSettings struct {
	BaseUrl string `json:"base_url"`
	// seconds
	Timeout int `json:"timeout"`
}

type ScraperSettings struct {
	UserAgent string `json:"user_agent"`
	// seconds
	Timeout int `json:"timeout"`
	// "wild" also tries microdata and class name heuristics when a page
	// carries no recipe JSON-LD, "strict" only reads JSON-LD.
	Mode string `json:"mode"`
}

type TranslationSettings struct {
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	// requests per second
	Rate float64 `json:"rate"`
	// seconds
	Timeout int `json:"timeout"`
}

type Settings struct {
	Vendor      VendorSettings      `json:"vendor"`
	Scraper     ScraperSettings     `json:"scraper"`
	Translation TranslationSettings `json:"translation"`
	LogFile     string              `json:"log_file"`
	// directory verbose http dumps are written to
	DumpDir string `json:"dump_dir"`
}

func (s ScraperSettings) Wild() bool {
	return s.Mode == ScraperModeWild
}

func (s Settings) validate() error {
	switch s.Scraper.Mode {
	case ScraperModeWild, ScraperModeStrict:
	default:
		return fmt.Errorf(
			"scraper.mode must be %q or %q, got %q: %w",
			ScraperModeWild, ScraperModeStrict, s.Scraper.Mode, ErrInvalidValue,
		)
	}
	return nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func (s VendorSettings) TimeoutDuration() time.Duration {
	return seconds(s.Timeout)
}

func (s ScraperSettings) TimeoutDuration() time.Duration {
	return seconds(s.Timeout)
}

func (s TranslationSettings) TimeoutDuration() time.Duration {
	return seconds(s.Timeout)
}

func DefaultSettings() Settings {
	return Settings{
		Vendor: VendorSettings{
			BaseUrl: "https://handla.api.ica.se",
			Timeout: 30,
		},
		Scraper: ScraperSettings{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
			Timeout:   30,
			Mode:      ScraperModeWild,
		},
		Translation: TranslationSettings{
			Enabled:  false,
			Endpoint: "https://translate.googleapis.com",
			Source:   "en",
			Target:   "sv",
			Rate:     5,
			Timeout:  30,
		},
		LogFile: "ingredients",
		DumpDir: ".dev/resty",
	}
}

// LoadSettings reads `path` and its .local override on top of
// DefaultSettings, missing files leave the defaults untouched.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	err := configutil.ReadConfigInto(path, &settings)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return Settings{}, err
	}
	err = settings.validate()
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}
