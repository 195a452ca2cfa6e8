// Package bot runs the polling cycle: fetch every feed, pick the unseen
// breaking-news items and hand them to the publisher.
package bot

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/scipunch/newsflash/fetcher/types"
	"github.com/scipunch/newsflash/filter"
	"github.com/scipunch/newsflash/publisher"
	"github.com/scipunch/newsflash/seen"
)

// Poster is the part of the publisher the cycle depends on.
type Poster interface {
	Post(ctx context.Context, title, link string) publisher.Outcome
}

// State is the phase of the bot's lifecycle.
type State string

const (
	Startup State = "startup"
	Priming State = "priming"
	Steady  State = "steady"
)

// Bot owns everything a cycle reads or mutates.
type Bot struct {
	feeds        []string
	itemsPerFeed int
	fetcher      types.FeedFetcher
	store        seen.Store
	poster       Poster

	mu    sync.Mutex
	state State
}

// New creates a bot in the Startup state. Nothing is posted until a first
// full cycle has primed the seen store.
func New(feeds []string, itemsPerFeed int, f types.FeedFetcher, store seen.Store, poster Poster) *Bot {
	return &Bot{
		feeds:        feeds,
		itemsPerFeed: itemsPerFeed,
		fetcher:      f,
		store:        store,
		poster:       poster,
		state:        Startup,
	}
}

// State returns the current lifecycle phase.
func (b *Bot) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// CycleStats summarises one pass over the feeds.
type CycleStats struct {
	Feeds       int
	FailedFeeds int
	Considered  int
	Duplicates  int
	Filtered    int
	Primed      int
	Published   int
	Failed      int
}

// RunCycle makes one pass over every feed in list order. The first call only
// records links; later calls publish qualifying unseen items. Fetch errors
// skip the feed and are never returned.
func (b *Bot) RunCycle(ctx context.Context) CycleStats {
	b.mu.Lock()
	priming := b.state != Steady
	if b.state == Startup {
		b.state = Priming
	}
	b.mu.Unlock()

	log := slog.With("cycle", uuid.NewString())
	log.Debug("cycle started", "priming", priming, "feeds", len(b.feeds))

	var stats CycleStats
	for _, url := range b.feeds {
		if ctx.Err() != nil {
			log.Info("cycle interrupted")
			return stats
		}
		stats.Feeds++

		feed, err := b.fetcher.Fetch(ctx, url)
		if err != nil {
			stats.FailedFeeds++
			log.Debug("feed skipped", "url", url, "error", err)
			continue
		}

		for _, item := range feed.Newest(b.itemsPerFeed) {
			if ctx.Err() != nil {
				log.Info("cycle interrupted")
				return stats
			}
			b.consider(ctx, log, item, priming, &stats)
		}
	}

	n, err := b.store.Len(ctx)
	if err == nil {
		seenLinks.Set(float64(n))
	}
	cyclesTotal.Inc()

	if priming {
		b.mu.Lock()
		b.state = Steady
		b.mu.Unlock()
		log.Info("bot ready, monitoring for breaking news", "seen", n)
	}

	log.Debug("cycle finished",
		"feeds", stats.Feeds,
		"failed_feeds", stats.FailedFeeds,
		"considered", stats.Considered,
		"published", stats.Published)
	return stats
}

func (b *Bot) consider(ctx context.Context, log *slog.Logger, item types.FeedItem, priming bool, stats *CycleStats) {
	if item.Link == "" {
		return
	}
	stats.Considered++

	if priming {
		if err := b.store.Add(ctx, item.Link); err != nil {
			log.Warn("failed to record link", "url", item.Link, "error", err)
			return
		}
		stats.Primed++
		itemsConsidered.WithLabelValues("primed").Inc()
		return
	}

	has, err := b.store.Has(ctx, item.Link)
	if err != nil {
		log.Warn("failed to check link, skipping item", "url", item.Link, "error", err)
		return
	}
	if has {
		stats.Duplicates++
		itemsConsidered.WithLabelValues("duplicate").Inc()
		return
	}

	// Recorded before posting: a failed post is never retried.
	if err := b.store.Add(ctx, item.Link); err != nil {
		log.Warn("failed to record link, skipping item", "url", item.Link, "error", err)
		return
	}

	if ok, reason := filter.Classify(item.Title); !ok {
		stats.Filtered++
		itemsConsidered.WithLabelValues("filtered").Inc()
		log.Debug("item filtered out", "title", item.Title, "reason", reason, "url", item.Link)
		return
	}

	outcome := b.poster.Post(ctx, item.Title, item.Link)
	postsTotal.WithLabelValues(string(outcome)).Inc()
	if outcome == publisher.Posted {
		stats.Published++
		itemsConsidered.WithLabelValues("published").Inc()
	} else {
		stats.Failed++
		itemsConsidered.WithLabelValues("dropped").Inc()
	}
}
