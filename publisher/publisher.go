// Package publisher turns qualifying feed items into posts and submits them
// to the posting API while honouring spacing and rate-limit cooldowns.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Publisher submits a ready-made post body to a posting API.
type Publisher interface {
	// Publish sends text as a new post.
	Publish(ctx context.Context, text string) error

	// Name returns the publisher identifier (e.g., "twitter")
	Name() string
}

// RateLimitError is returned when the posting API rejects a call with 429.
type RateLimitError struct {
	Reset   time.Time // When the API says the window resets, zero if unknown
	Message string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "rate limit exceeded"
	}
	if e.Reset.IsZero() {
		return msg
	}
	return fmt.Sprintf("%s (resets at %s)", msg, e.Reset.UTC().Format(time.RFC3339))
}

// APIError is any other non-2xx answer from the posting API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("posting API returned %d: %s", e.StatusCode, e.Message)
}

// IsRateLimit checks if err is a rate-limit rejection and returns it.
func IsRateLimit(err error) (*RateLimitError, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl, true
	}
	return nil, false
}
