// Package ratelimit throttles write endpoints per caller.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// MemoryLimiter keeps one token bucket per key in process memory.
type MemoryLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	limit       rate.Limit
	burst       int
	lastCleanup time.Time
	cleanup     time.Duration
}

func NewMemoryLimiter(rps float64, burst int) *MemoryLimiter {
	return &MemoryLimiter{
		limiters:    make(map[string]*rate.Limiter),
		limit:       rate.Limit(rps),
		burst:       burst,
		lastCleanup: time.Now(),
		cleanup:     time.Hour,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) bool {
	return l.get(key).Allow()
}

func (l *MemoryLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	// drop idle buckets so the map does not grow without bound
	if time.Since(l.lastCleanup) > l.cleanup {
		l.limiters = make(map[string]*rate.Limiter)
		l.lastCleanup = time.Now()
	}

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}
