package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/BurntSushi/toml"
)

type StoreKind = string

var (
	MemoryStore = StoreKind("memory")
	SQLiteStore = StoreKind("sqlite")
)

const baseCfgPath = "newsflash/config.toml"

// DefaultFeeds is the built-in list of news sources polled when the config
// file does not provide its own.
var DefaultFeeds = []string{
	// Major networks
	"https://feeds.nbcnews.com/nbcnews/public/news",
	"https://www.cbsnews.com/latest/rss/main",
	"https://abcnews.go.com/abcnews/topstories",
	"https://rss.cnn.com/rss/cnn_topstories.rss",
	"https://moxie.foxnews.com/google-publisher/latest.xml",

	// Agencies
	"https://www.reuters.com/rssFeed/topNews",
	"https://feeds.a.dj.com/rss/RSSWorldNews.xml",

	// Newspapers
	"https://rss.nytimes.com/services/xml/rss/nyt/HomePage.xml",
	"https://www.washingtonpost.com/arcio/rss/politics/",
	"https://www.usatoday.com/rss/",

	// Business
	"https://www.cnbc.com/id/100003114/device/rss/rss.html",
	"https://feeds.bloomberg.com/markets/news.rss",

	// Regional (NJ)
	"https://www.nj.com/arc/outboundfeeds/rss/?outputType=xml",
	"https://www.app.com/arc/outboundfeeds/rss/?outputType=xml",

	// Other
	"https://www.npr.org/rss/rss.php?id=1001",
	"https://www.politico.com/rss/politics08.xml",
	"https://www.theguardian.com/us/rss",
	"https://www.latimes.com/world-nation/rss2.0.xml",
	"https://nypost.com/feed/",
	"https://www.chicagotribune.com/arcio/rss/category/news/",
}

type Config struct {
	Feeds             []string  `toml:"feeds"`
	PollInterval      Duration  `toml:"poll_interval"`
	ItemsPerFeed      int       `toml:"items_per_feed"` // Newest N items considered per feed, in source order
	FetchTimeout      Duration  `toml:"fetch_timeout"`
	PostSpacing       Duration  `toml:"post_spacing"`        // Minimum gap between successful posts
	RateLimitCooldown Duration  `toml:"rate_limit_cooldown"` // Sleep after the posting API answers 429
	PublishTimeout    Duration  `toml:"publish_timeout"`
	SeenStore         StoreKind `toml:"seen_store"`    // "memory" or "sqlite"
	DatabasePath      string    `toml:"database_path"` // Used only by the sqlite store
	MetricsAddr       string    `toml:"metrics_addr"`  // Empty disables the /metrics listener
}

func Read(path string) (Config, error) {
	conf := Default()
	dat, err := os.ReadFile(path)
	if err != nil {
		return conf, err
	}
	_, err = toml.Decode(string(dat), &conf)
	if err != nil {
		return conf, fmt.Errorf("failed to decode config at %s with %w", path, err)
	}
	return conf, nil
}

func Write(cfgPath string, cfg Config) error {
	blob, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config with %w", err)
	}
	basePath := path.Dir(cfgPath)
	err = os.MkdirAll(basePath, os.ModePerm)
	if err != nil {
		return fmt.Errorf("failed to create base config directory at '%s' with %w", basePath, err)
	}
	err = os.WriteFile(cfgPath, blob, 0644)
	if err != nil {
		return fmt.Errorf("failed to write into config file at '%s' with %w", cfgPath, err)
	}
	slog.Info("config written", "at", cfgPath)
	return nil
}

func Default() Config {
	var dbBase = path.Join(os.Getenv("HOME"), ".local/share/newsflash")
	feeds := make([]string, len(DefaultFeeds))
	copy(feeds, DefaultFeeds)
	return Config{
		Feeds:             feeds,
		PollInterval:      Duration(300 * time.Second),
		ItemsPerFeed:      3,
		FetchTimeout:      Duration(10 * time.Second),
		PostSpacing:       Duration(30 * time.Second),
		RateLimitCooldown: Duration(15 * time.Minute),
		PublishTimeout:    Duration(30 * time.Second),
		SeenStore:         MemoryStore,
		DatabasePath:      path.Join(dbBase, "seen.db"),
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if len(c.Feeds) == 0 {
		errs = append(errs, errors.New("feeds: at least one feed URL is required"))
	}
	if c.ItemsPerFeed <= 0 {
		errs = append(errs, fmt.Errorf("items_per_feed: must be positive, got %d", c.ItemsPerFeed))
	}
	for name, d := range map[string]Duration{
		"poll_interval":       c.PollInterval,
		"fetch_timeout":       c.FetchTimeout,
		"rate_limit_cooldown": c.RateLimitCooldown,
		"publish_timeout":     c.PublishTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s: duration must be positive, got %v", name, d))
		}
	}
	if c.PostSpacing < 0 {
		errs = append(errs, fmt.Errorf("post_spacing: duration must not be negative, got %v", c.PostSpacing))
	}
	switch c.SeenStore {
	case MemoryStore:
	case SQLiteStore:
		if c.DatabasePath == "" {
			errs = append(errs, errors.New("database_path: required for the sqlite seen store"))
		}
	default:
		errs = append(errs, fmt.Errorf("seen_store: unknown kind %q", c.SeenStore))
	}
	return errors.Join(errs...)
}

func DefaultPath() string {
	var xdgHome = os.Getenv("XDG_CONFIG_HOME")
	if xdgHome != "" {
		return path.Join(xdgHome, baseCfgPath)
	}

	var home = os.Getenv("HOME")
	if home != "" {
		return path.Join(home, ".config", baseCfgPath)
	}

	panic("unable to determine config file path: neither XDG_CONFIG_HOME nor HOME is set")
}
