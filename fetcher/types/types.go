package types

import (
	"context"
	"time"
)

// Feed represents a collection of items from a feed source
type Feed struct {
	Title       string
	Description string
	Items       []FeedItem // In the order the source lists them
}

// FeedItem represents a single item in a feed
type FeedItem struct {
	Title       string
	Link        string // Article identity for deduplication
	Description string
	Published   time.Time
	GUID        string
}

// FeedFetcher is an interface for fetching feeds from different sources
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (Feed, error)
}

// Newest returns at most n items from the head of the feed. The source order
// is kept as is, items are never re-sorted by date.
func (f Feed) Newest(n int) []FeedItem {
	if n < 0 {
		n = 0
	}
	if len(f.Items) <= n {
		return f.Items
	}
	return f.Items[:n]
}
