package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scipunch/newsflash/bot"
	"github.com/scipunch/newsflash/config"
	"github.com/scipunch/newsflash/fetcher"
	"github.com/scipunch/newsflash/publisher"
	"github.com/scipunch/newsflash/publisher/twitter"
	"github.com/scipunch/newsflash/seen"
)

func main() {
	if os.Getenv("DEBUG") != "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var cfgPath string
	var cleanLedger bool
	flag.StringVar(&cfgPath, "config", config.DefaultPath(), "path to a TOML config")
	flag.BoolVar(&cleanLedger, "clean", false, "remove all entries from the sqlite seen ledger and exit")
	flag.Parse()

	// Read config and create if default is missing
	conf, err := config.Read(cfgPath)
	if errors.Is(err, os.ErrNotExist) && cfgPath == config.DefaultPath() {
		if err := config.Write(cfgPath, conf); err != nil {
			log.Fatalf("failed to write default config with %s", err)
		}
	} else if err != nil {
		log.Fatalf("failed to read config with %s", err)
	}
	if err := conf.Validate(); err != nil {
		log.Fatalf("invalid config at %s: %s", cfgPath, err)
	}

	// Credentials: creds.toml first, environment on top
	creds, err := config.ReadCredentials(config.DefaultCredentialsPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("failed to read credentials: %s", err)
	}
	twitterCreds := creds.Twitter.FromEnv(os.Getenv)
	if !twitterCreds.IsValid() {
		slog.Warn("posting API credentials incomplete, posts will be rejected",
			"env", []string{config.EnvAPIKey, config.EnvAPISecret, config.EnvAccessToken, config.EnvAccessSecret})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, conf, cleanLedger)
	if err != nil {
		log.Fatalf("failed to open seen ledger: %s", err)
	}
	defer closeStore()
	if cleanLedger {
		return
	}

	client := twitter.New(twitterCreds)
	poster := publisher.NewThrottled(client, publisher.ThrottleConfig{
		Spacing: conf.PostSpacing.Std(),
		Backoff: publisher.FixedBackoff{Duration: conf.RateLimitCooldown.Std()},
		Clock:   publisher.SystemClock{},
		Timeout: conf.PublishTimeout.Std(),
	})

	b := bot.New(conf.Feeds, conf.ItemsPerFeed, fetcher.NewRSSFetcher(conf.FetchTimeout.Std()), store, poster)

	if conf.MetricsAddr != "" {
		startMetricsServer(ctx, conf.MetricsAddr)
	}

	sched := bot.NewScheduler(ctx, b, conf.PollInterval.Std())
	sched.Start()
	slog.Info("breaking news bot started",
		"feeds", len(conf.Feeds),
		"interval", conf.PollInterval,
		"store", conf.SeenStore)

	<-ctx.Done()
	slog.Info("shutting down")
	<-sched.Stop().Done()
}

// openStore returns the configured seen ledger and its cleanup function.
func openStore(ctx context.Context, conf config.Config, clean bool) (seen.Store, func(), error) {
	if conf.SeenStore != config.SQLiteStore {
		if clean {
			slog.Info("memory ledger has nothing to clean")
		}
		return seen.NewMemoryStore(), func() {}, nil
	}

	db, err := seen.NewSQLiteStore(conf.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := db.Close(); err != nil {
			slog.Warn("failed to close seen ledger", "error", err)
		}
	}

	if clean {
		if err := db.Clear(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		slog.Info("seen ledger cleared", "path", conf.DatabasePath)
		return db, closeFn, nil
	}

	stats, err := db.Stats(ctx)
	if err != nil {
		slog.Warn("failed to get ledger stats", "error", err)
	} else {
		slog.Info("seen ledger opened",
			"path", conf.DatabasePath,
			"entries", stats.Entries,
			"oldest", stats.OldestEntry)
	}
	return db, closeFn, nil
}

func startMetricsServer(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	slog.Info("metrics server started", "addr", addr)
}
