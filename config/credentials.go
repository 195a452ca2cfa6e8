package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const baseCredPath = "newsflash/creds.toml"

// Environment variables holding the posting API credentials.
const (
	EnvAPIKey       = "TWITTER_API_KEY"
	EnvAPISecret    = "TWITTER_API_SECRET"
	EnvAccessToken  = "TWITTER_ACCESS_TOKEN"
	EnvAccessSecret = "TWITTER_ACCESS_SECRET"
)

// Credentials holds all application credentials
type Credentials struct {
	Twitter TwitterCredentials `toml:"twitter"`
}

// TwitterCredentials holds the OAuth 1.0a user-context keys for the posting API
type TwitterCredentials struct {
	APIKey       string `toml:"api_key"`
	APISecret    string `toml:"api_secret"`
	AccessToken  string `toml:"access_token"`
	AccessSecret string `toml:"access_secret"`
}

// IsValid checks if twitter credentials are fully populated
func (tc TwitterCredentials) IsValid() bool {
	return tc.APIKey != "" && tc.APISecret != "" && tc.AccessToken != "" && tc.AccessSecret != ""
}

// FromEnv overlays any credential present in the environment. Values from the
// environment win over the ones read from creds.toml.
func (tc TwitterCredentials) FromEnv(getenv func(string) string) TwitterCredentials {
	for _, f := range []struct {
		env string
		dst *string
	}{
		{EnvAPIKey, &tc.APIKey},
		{EnvAPISecret, &tc.APISecret},
		{EnvAccessToken, &tc.AccessToken},
		{EnvAccessSecret, &tc.AccessSecret},
	} {
		if v := getenv(f.env); v != "" {
			*f.dst = v
		}
	}
	return tc
}

// ReadCredentials reads credentials from the specified path
func ReadCredentials(path string) (Credentials, error) {
	var creds Credentials

	data, err := os.ReadFile(path)
	if err != nil {
		return creds, err
	}

	if _, err := toml.Decode(string(data), &creds); err != nil {
		return creds, fmt.Errorf("failed to decode credentials at %s: %w", path, err)
	}

	return creds, nil
}

// DefaultCredentialsPath returns the default path for credentials file
func DefaultCredentialsPath() string {
	var xdgHome = os.Getenv("XDG_CONFIG_HOME")
	if xdgHome != "" {
		return filepath.Join(xdgHome, baseCredPath)
	}

	var home = os.Getenv("HOME")
	if home != "" {
		return filepath.Join(home, ".config", baseCredPath)
	}

	panic("unable to determine credentials file path")
}
