package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Outcome describes what happened to a single post attempt.
type Outcome string

const (
	Posted      Outcome = "posted"
	RateLimited Outcome = "rate_limited"
	Failed      Outcome = "failed"
	Cancelled   Outcome = "cancelled"
)

// Clock abstracts time so spacing and cooldowns can be tested without
// sleeping for real.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, whichever comes first.
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock is a Clock backed by the real time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BackoffPolicy decides how long to stay quiet after a rate-limit rejection.
type BackoffPolicy interface {
	Cooldown(err *RateLimitError) time.Duration
}

// FixedBackoff always waits the same duration, ignoring any reset hint.
type FixedBackoff struct {
	Duration time.Duration
}

func (f FixedBackoff) Cooldown(*RateLimitError) time.Duration {
	return f.Duration
}

// ThrottleConfig tunes a Throttled publisher.
type ThrottleConfig struct {
	Spacing time.Duration // Minimum gap between successful posts
	Backoff BackoffPolicy
	Clock   Clock
	Timeout time.Duration // Per-call deadline for the underlying publisher, zero for none
}

// DefaultThrottleConfig returns 30s spacing and a fixed 15 minute cooldown.
func DefaultThrottleConfig() ThrottleConfig {
	return ThrottleConfig{
		Spacing: 30 * time.Second,
		Backoff: FixedBackoff{Duration: 15 * time.Minute},
		Clock:   SystemClock{},
	}
}

// Throttled serialises posts through a Publisher. Only one attempt is in
// flight at a time, including the spacing wait and any cooldown.
type Throttled struct {
	pub Publisher
	cfg ThrottleConfig

	mu       sync.Mutex
	lastPost time.Time // Zero until the first successful post
}

// NewThrottled wraps pub. Missing config fields fall back to
// DefaultThrottleConfig.
func NewThrottled(pub Publisher, cfg ThrottleConfig) *Throttled {
	def := DefaultThrottleConfig()
	if cfg.Backoff == nil {
		cfg.Backoff = def.Backoff
	}
	if cfg.Clock == nil {
		cfg.Clock = def.Clock
	}
	if cfg.Spacing < 0 {
		cfg.Spacing = 0
	}
	return &Throttled{pub: pub, cfg: cfg}
}

// Post formats and submits a single item. Failures are logged, never
// returned, and the item is not re-sent: a rate-limited call sleeps through
// the cooldown and then gives up on the item.
func (t *Throttled) Post(ctx context.Context, title, link string) Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.lastPost.IsZero() {
		since := t.cfg.Clock.Now().Sub(t.lastPost)
		if wait := t.cfg.Spacing - since; wait > 0 {
			slog.Debug("waiting before next post", "wait", wait)
			if err := t.cfg.Clock.Sleep(ctx, wait); err != nil {
				return Cancelled
			}
		}
	}

	text := FormatPost(title, link)

	callCtx := ctx
	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	err := t.pub.Publish(callCtx, text)
	if err == nil {
		t.lastPost = t.cfg.Clock.Now()
		slog.Info("posted", "title", title, "publisher", t.pub.Name())
		return Posted
	}

	if rl, ok := IsRateLimit(err); ok {
		cooldown := t.cfg.Backoff.Cooldown(rl)
		slog.Warn("rate limited, waiting", "cooldown", cooldown, "error", rl)
		if err := t.cfg.Clock.Sleep(ctx, cooldown); err != nil {
			return Cancelled
		}
		return RateLimited
	}

	if ctx.Err() != nil {
		return Cancelled
	}
	slog.Warn("post failed", "title", title, "url", link, "error", err)
	return Failed
}

// LastPost returns the time of the last successful post, zero if none.
func (t *Throttled) LastPost() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastPost
}
