package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/scipunch/newsflash/fetcher/types"
)

const userAgent = "newsflash/1.0 (+https://github.com/scipunch/newsflash)"

// RSSFetcher fetches RSS and Atom feeds using gofeed
type RSSFetcher struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

// NewRSSFetcher creates a fetcher that gives up on a single feed after timeout
func NewRSSFetcher(timeout time.Duration) *RSSFetcher {
	p := gofeed.NewParser()
	p.UserAgent = userAgent
	p.Client = &http.Client{Timeout: timeout}
	return &RSSFetcher{
		parser:  p,
		timeout: timeout,
	}
}

// Fetch retrieves and parses a feed from the given URL
func (f *RSSFetcher) Fetch(ctx context.Context, url string) (types.Feed, error) {
	var feed types.Feed

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	gofeedFeed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return feed, fmt.Errorf("failed to parse feed: %w", err)
	}

	feed.Title = gofeedFeed.Title
	feed.Description = gofeedFeed.Description
	feed.Items = make([]types.FeedItem, 0, len(gofeedFeed.Items))

	for _, item := range gofeedFeed.Items {
		feedItem := types.FeedItem{
			Title:       strings.TrimSpace(item.Title),
			Link:        strings.TrimSpace(item.Link),
			Description: item.Description,
			GUID:        item.GUID,
		}

		if item.PublishedParsed != nil {
			feedItem.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			feedItem.Published = *item.UpdatedParsed
		}

		feed.Items = append(feed.Items, feedItem)
	}

	return feed, nil
}
