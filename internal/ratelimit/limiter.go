// Package ratelimit bounds request volume per identity key using a fixed
// window. The counting abstraction is an interface so the in-process sharded
// store and the Postgres-backed store are interchangeable behind the same
// limiter.
package ratelimit

import (
	"context"
	"time"
)

const (
	DefaultLimit  = 100
	DefaultWindow = 15 * time.Minute
)

type Decision struct {
	Allowed   bool
	Remaining int
	// RetryAfter is set on rejection: how long until the window rolls over.
	// Always positive.
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Window is one identity's counter state.
type Window struct {
	Start time.Time
	Count int
}

// Store is the counting abstraction behind FixedWindow. Incr must be atomic
// per key: it increments the window for key, first resetting it to a fresh
// window starting at now when the stored window began before cutoff. The
// reset-or-increment decision and the write must not race with concurrent
// calls for the same key.
type Store interface {
	Incr(ctx context.Context, key string, now, cutoff time.Time) (Window, error)
}

// FixedWindow admits at most limit requests per identity within each window.
type FixedWindow struct {
	store  Store
	limit  int
	window time.Duration
}

func NewFixedWindow(store Store, limit int, window time.Duration) *FixedWindow {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &FixedWindow{store: store, limit: limit, window: window}
}

func (l *FixedWindow) Allow(ctx context.Context, key string) (Decision, error) {
	now := time.Now()
	w, err := l.store.Incr(ctx, key, now, now.Add(-l.window))
	if err != nil {
		return Decision{}, err
	}

	if w.Count > l.limit {
		retry := w.Start.Add(l.window).Sub(now)
		if retry <= 0 {
			retry = time.Second
		}
		return Decision{Allowed: false, RetryAfter: retry}, nil
	}

	return Decision{Allowed: true, Remaining: l.limit - w.Count}, nil
}
