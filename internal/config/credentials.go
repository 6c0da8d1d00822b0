package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

var ErrMissingValue = errors.New("missing configuration value")

const (
	EnvUsername = "USR"
	EnvPassword = "PASS"
	EnvListName = "LIST"
)

// Credentials are the vendor account and the title of the shopping list
// ingredients are added to.
type Credentials struct {
	Username string
	Password string
	ListName string
}

// LoadCredentials loads `envFile` into the process environment without
// overriding variables that are already set, then reads USR, PASS and LIST.
//
// a missing env file is not an error, the values may come from the
// environment itself.
func LoadCredentials(envFile string) (Credentials, error) {
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Credentials{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var creds Credentials
	for _, field := range []struct {
		key string
		out *string
	}{
		{key: EnvUsername, out: &creds.Username},
		{key: EnvPassword, out: &creds.Password},
		{key: EnvListName, out: &creds.ListName},
	} {
		value := os.Getenv(field.key)
		if value == "" {
			return Credentials{}, fmt.Errorf("%s environment variable not set: %w", field.key, ErrMissingValue)
		}
		*field.out = value
	}

	return creds, nil
}
