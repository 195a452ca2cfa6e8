package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	conf := Default()

	if len(conf.Feeds) != len(DefaultFeeds) {
		t.Errorf("expected %d default feeds, got %d", len(DefaultFeeds), len(conf.Feeds))
	}
	if conf.PollInterval.Std() != 300*time.Second {
		t.Errorf("poll interval = %v, want 5m", conf.PollInterval)
	}
	if conf.ItemsPerFeed != 3 {
		t.Errorf("items per feed = %d, want 3", conf.ItemsPerFeed)
	}
	if conf.PostSpacing.Std() != 30*time.Second {
		t.Errorf("post spacing = %v, want 30s", conf.PostSpacing)
	}
	if conf.RateLimitCooldown.Std() != 15*time.Minute {
		t.Errorf("cooldown = %v, want 15m", conf.RateLimitCooldown)
	}
	if conf.FetchTimeout.Std() != 10*time.Second {
		t.Errorf("fetch timeout = %v, want 10s", conf.FetchTimeout)
	}
	if conf.SeenStore != MemoryStore {
		t.Errorf("seen store = %q, want memory", conf.SeenStore)
	}
	if err := conf.Validate(); err != nil {
		t.Errorf("default config should be valid, got %v", err)
	}

	// Mutating the returned feeds must not leak into the package default
	conf.Feeds[0] = "https://changed.example.com"
	if DefaultFeeds[0] == "https://changed.example.com" {
		t.Error("Default() shares its feed slice with DefaultFeeds")
	}
}

func TestRead_OverridesDefaults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
feeds = ["https://example.com/a.xml", "https://example.com/b.xml"]
poll_interval = "1m"
post_spacing = "45s"
seen_store = "sqlite"
database_path = "/tmp/seen.db"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	conf, err := Read(cfgPath)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(conf.Feeds) != 2 || conf.Feeds[1] != "https://example.com/b.xml" {
		t.Errorf("unexpected feeds: %v", conf.Feeds)
	}
	if conf.PollInterval.Std() != time.Minute {
		t.Errorf("poll interval = %v, want 1m", conf.PollInterval)
	}
	if conf.PostSpacing.Std() != 45*time.Second {
		t.Errorf("post spacing = %v, want 45s", conf.PostSpacing)
	}
	// Untouched keys keep their defaults
	if conf.RateLimitCooldown.Std() != 15*time.Minute {
		t.Errorf("cooldown = %v, want default 15m", conf.RateLimitCooldown)
	}
	if conf.SeenStore != SQLiteStore {
		t.Errorf("seen store = %q, want sqlite", conf.SeenStore)
	}
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestRead_InvalidDuration(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte(`poll_interval = "soon"`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Read(cfgPath); err == nil {
		t.Fatal("expected decode error for invalid duration")
	}
}

func TestWriteThenRead(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.toml")
	conf := Default()
	conf.PostSpacing = Duration(time.Minute)

	if err := Write(cfgPath, conf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(cfgPath)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.PostSpacing != conf.PostSpacing {
		t.Errorf("post spacing = %v, want %v", got.PostSpacing, conf.PostSpacing)
	}
	if len(got.Feeds) != len(conf.Feeds) {
		t.Errorf("feeds count = %d, want %d", len(got.Feeds), len(conf.Feeds))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "no feeds",
			mutate:  func(c *Config) { c.Feeds = nil },
			wantErr: "feeds",
		},
		{
			name:    "zero items per feed",
			mutate:  func(c *Config) { c.ItemsPerFeed = 0 },
			wantErr: "items_per_feed",
		},
		{
			name:    "zero poll interval",
			mutate:  func(c *Config) { c.PollInterval = 0 },
			wantErr: "poll_interval",
		},
		{
			name:    "negative spacing",
			mutate:  func(c *Config) { c.PostSpacing = Duration(-time.Second) },
			wantErr: "post_spacing",
		},
		{
			name:    "unknown store",
			mutate:  func(c *Config) { c.SeenStore = "redis" },
			wantErr: "seen_store",
		},
		{
			name: "sqlite without path",
			mutate: func(c *Config) {
				c.SeenStore = SQLiteStore
				c.DatabasePath = ""
			},
			wantErr: "database_path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Default()
			tt.mutate(&conf)
			err := conf.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCredentials_FromEnv(t *testing.T) {
	fileCreds := TwitterCredentials{
		APIKey:       "file-key",
		APISecret:    "file-secret",
		AccessToken:  "file-token",
		AccessSecret: "file-access-secret",
	}
	env := map[string]string{
		EnvAPIKey:      "env-key",
		EnvAccessToken: "env-token",
	}

	got := fileCreds.FromEnv(func(k string) string { return env[k] })

	if got.APIKey != "env-key" || got.AccessToken != "env-token" {
		t.Errorf("env values should win, got %+v", got)
	}
	if got.APISecret != "file-secret" || got.AccessSecret != "file-access-secret" {
		t.Errorf("file values should remain when env is empty, got %+v", got)
	}
	if !got.IsValid() {
		t.Error("expected merged credentials to be valid")
	}
}

func TestReadCredentials(t *testing.T) {
	credPath := filepath.Join(t.TempDir(), "creds.toml")
	content := `
[twitter]
api_key = "k"
api_secret = "s"
access_token = "t"
access_secret = "as"
`
	if err := os.WriteFile(credPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write creds: %v", err)
	}

	creds, err := ReadCredentials(credPath)
	if err != nil {
		t.Fatalf("ReadCredentials failed: %v", err)
	}
	if !creds.Twitter.IsValid() {
		t.Errorf("expected valid credentials, got %+v", creds.Twitter)
	}

	empty := TwitterCredentials{APIKey: "k"}
	if empty.IsValid() {
		t.Error("partially populated credentials must be invalid")
	}
}
