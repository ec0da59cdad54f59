package crawler

import (
	"context"
	"time"
)

// Limiter paces detail fetches so the crawl never hammers a fragile board
// server. It is injected rather than called via global timers so tests run
// without waiting.
type Limiter interface {
	Wait(ctx context.Context) error
}

// FixedDelay sleeps a constant duration between fetches.
type FixedDelay struct {
	Delay time.Duration
}

func (l FixedDelay) Wait(ctx context.Context) error {
	if l.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(l.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoDelay is the test limiter.
type NoDelay struct{}

func (NoDelay) Wait(context.Context) error { return nil }
