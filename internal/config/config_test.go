package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0644)
	if err != nil {
		t.Fatal(err)
	}
}

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvUsername, EnvPassword, EnvListName} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadCredentialsFromFile(t *testing.T) {
	clearCredentialEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	writeFile(t, envFile, "USR=user@example.com\nPASS=hunter2\nLIST=Groceries\n")

	creds, err := LoadCredentials(envFile)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, Credentials{
		Username: "user@example.com",
		Password: "hunter2",
		ListName: "Groceries",
	}, creds)
}

func TestLoadCredentialsEnvironmentWins(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv(EnvListName, "Weekend")

	envFile := filepath.Join(t.TempDir(), ".env")
	writeFile(t, envFile, "USR=user\nPASS=pass\nLIST=Groceries\n")

	creds, err := LoadCredentials(envFile)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "Weekend", creds.ListName)
}

func TestLoadCredentialsMissingFile(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv(EnvUsername, "user")
	t.Setenv(EnvPassword, "pass")
	t.Setenv(EnvListName, "Groceries")

	creds, err := LoadCredentials(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "user", creds.Username)
}

func TestLoadCredentialsMissingValue(t *testing.T) {
	testCases := []struct {
		contents string
		key      string
	}{
		{contents: "PASS=pass\nLIST=Groceries\n", key: EnvUsername},
		{contents: "USR=user\nLIST=Groceries\n", key: EnvPassword},
		{contents: "USR=user\nPASS=pass\n", key: EnvListName},
		{contents: "USR=user\nPASS=pass\nLIST=\n", key: EnvListName},
	}

	for _, test := range testCases {
		t.Run(test.key, func(t *testing.T) {
			clearCredentialEnv(t)
			envFile := filepath.Join(t.TempDir(), ".env")
			writeFile(t, envFile, test.contents)

			_, err := LoadCredentials(envFile)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrMissingValue))
			require.Contains(t, err.Error(), test.key+" environment variable not set")
		})
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "recipecart.json5"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, DefaultSettings(), settings)
	require.Equal(t, "https://handla.api.ica.se", settings.Vendor.BaseUrl)
	require.Equal(t, "ingredients", settings.LogFile)
	require.True(t, settings.Scraper.Wild())
	require.False(t, settings.Translation.Enabled)
}

func TestLoadSettingsLocalOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "recipecart.json5"), `{
		// shared settings
		log_file: "recipes.log",
		vendor: { timeout: 10 },
		translation: { enabled: true },
	}`)
	writeFile(t, filepath.Join(dir, "recipecart.local.json5"), `{
		vendor: { base_url: "http://localhost:8080" },
		scraper: { mode: "strict" },
	}`)

	settings, err := LoadSettings(filepath.Join(dir, "recipecart.json5"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "recipes.log", settings.LogFile)
	require.Equal(t, 10, settings.Vendor.Timeout)
	require.Equal(t, "http://localhost:8080", settings.Vendor.BaseUrl)
	require.True(t, settings.Translation.Enabled)
	require.Equal(t, "sv", settings.Translation.Target)
	require.False(t, settings.Scraper.Wild())
}

func TestLoadSettingsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipecart.json5")
	writeFile(t, path, `{ log_file: `)

	_, err := LoadSettings(path)
	require.Error(t, err)
}

func TestLoadSettingsUnknownScraperMode(t *testing.T) {
	for _, mode := range []string{"Strict", "wlid", "loose"} {
		t.Run(mode, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "recipecart.json5")
			writeFile(t, path, `{ scraper: { mode: "`+mode+`" } }`)

			_, err := LoadSettings(path)
			require.True(t, errors.Is(err, ErrInvalidValue))
			require.Contains(t, err.Error(), mode)
		})
	}
}
