// Package ratelimit provides a fixed-window, in-memory limiter keyed by client.
package ratelimit

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Limiter allows at most limit hits per key within each window. The window
// starts on the first hit for a key.
type Limiter struct {
	backend *gocache.Cache
	limit   int64
	window  time.Duration
}

// New creates a Limiter. Expired windows are swept every window.
func New(limit int, window time.Duration) *Limiter {
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		backend: gocache.New(window, window),
		limit:   int64(limit),
		window:  window,
	}
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(_ context.Context, key string) bool {
	if l.limit <= 0 {
		return true
	}
	if err := l.backend.Add(key, int64(1), l.window); err == nil {
		return true
	}
	n, err := l.backend.IncrementInt64(key, 1)
	if err != nil {
		// Window expired between Add and IncrementInt64.
		l.backend.Set(key, int64(1), l.window)
		return true
	}
	return n <= l.limit
}
