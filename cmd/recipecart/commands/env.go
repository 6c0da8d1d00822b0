package commands

import (
	"fmt"
	"path/filepath"
	"recipecart/internal/components/telemetry"
	"recipecart/internal/config"
	"recipecart/internal/ica"
	"recipecart/internal/recipe"
	"recipecart/internal/scrapers/recipepage"
	"recipecart/internal/translate"
	"recipecart/lib/restyutil"
)

type env struct {
	creds      config.Credentials
	settings   config.Settings
	extractor  recipe.Extractor
	translator translate.Translator
	vendor     *ica.Client
}

// dumpOutput returns nil unless verbose output is on.
func dumpOutput(settings config.Settings, component string) (restyutil.InstrumentOutput, error) {
	if !verbose {
		return nil, nil
	}
	out, err := restyutil.NewFilesystemOutput(filepath.Join(settings.DumpDir, component))
	if err != nil {
		return nil, fmt.Errorf("create http dump dir: %w", err)
	}
	return out, nil
}

func loadVendor(settings config.Settings, tel telemetry.API) (*ica.Client, error) {
	vendorOut, err := dumpOutput(settings, "vendor")
	if err != nil {
		return nil, err
	}
	return ica.NewClient(ica.Options{
		BaseUrl: settings.Vendor.BaseUrl,
		Timeout: settings.Vendor.TimeoutDuration(),
		Output:  vendorOut,
	}, tel), nil
}

func loadEnv(forceTranslate bool) (env, error) {
	tel := telemetry.SlogAPI{}

	creds, err := config.LoadCredentials(envFile)
	if err != nil {
		return env{}, err
	}
	settings, err := config.LoadSettings(configFile)
	if err != nil {
		return env{}, err
	}

	scraperOut, err := dumpOutput(settings, "scraper")
	if err != nil {
		return env{}, err
	}
	scraper, err := recipepage.NewClient(recipepage.Options{
		UserAgent: settings.Scraper.UserAgent,
		Timeout:   settings.Scraper.TimeoutDuration(),
		Wild:      settings.Scraper.Wild(),
		Output:    scraperOut,
	}, tel)
	if err != nil {
		return env{}, err
	}

	var translator translate.Translator
	if forceTranslate || settings.Translation.Enabled {
		translateOut, err := dumpOutput(settings, "translate")
		if err != nil {
			return env{}, err
		}
		translator = translate.NewGoogleClient(translate.GoogleOptions{
			Endpoint: settings.Translation.Endpoint,
			Source:   settings.Translation.Source,
			Target:   settings.Translation.Target,
			Rate:     settings.Translation.Rate,
			Timeout:  settings.Translation.TimeoutDuration(),
			Output:   translateOut,
		}, tel)
	}

	vendor, err := loadVendor(settings, tel)
	if err != nil {
		return env{}, err
	}

	return env{
		creds:      creds,
		settings:   settings,
		extractor:  recipe.NewExtractor(scraper, recipe.Log{Path: settings.LogFile}, tel),
		translator: translator,
		vendor:     vendor,
	}, nil
}
