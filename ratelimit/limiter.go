// Package ratelimit enforces minimum spacing between outbound requests,
// scoped by bucket so unrelated upstream hosts never delay each other.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter hands out one grant per interval for each bucket. Acquire blocks
// the caller until the spacing requirement is met; it cannot fail, only
// delay, except when the context expires first.
type Limiter struct {
	defaultInterval time.Duration

	mu        sync.Mutex
	intervals map[string]time.Duration
	buckets   map[string]*rate.Limiter
}

// NewLimiter creates a limiter with the given default spacing between grants.
func NewLimiter(defaultInterval time.Duration) *Limiter {
	return &Limiter{
		defaultInterval: defaultInterval,
		intervals:       make(map[string]time.Duration),
		buckets:         make(map[string]*rate.Limiter),
	}
}

// Configure overrides the spacing for one bucket. Must be called before the
// bucket's first Acquire; later calls are ignored for already-active buckets.
func (l *Limiter) Configure(bucket string, interval time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, active := l.buckets[bucket]; active {
		return
	}
	l.intervals[bucket] = interval
}

// Acquire blocks until at least the configured interval has elapsed since the
// previous grant for bucket. Buckets are created lazily on first use and are
// fully independent of each other.
func (l *Limiter) Acquire(ctx context.Context, bucket string) error {
	return l.bucketLimiter(bucket).Wait(ctx)
}

func (l *Limiter) bucketLimiter(bucket string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.buckets[bucket]
	if !ok {
		interval := l.defaultInterval
		if override, exists := l.intervals[bucket]; exists {
			interval = override
		}
		limiter = rate.NewLimiter(rate.Every(interval), 1)
		l.buckets[bucket] = limiter
	}
	return limiter
}
