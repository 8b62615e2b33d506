// Package ratelimit throttles outbound calls per upstream searcher.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Config holds the token bucket settings applied to each key.
type Config struct {
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns the limits used when none are configured.
func DefaultConfig() Config {
	return Config{RequestsPerSecond: 5, Burst: 10}
}

// Limiter hands out one token bucket per key, created lazily.
// A non-positive rate disables limiting.
type Limiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	cfg      Config
}

// New creates a Limiter with the given defaults.
func New(cfg Config) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		cfg:      cfg,
	}
}

// For returns the bucket for key, creating it on first use.
func (l *Limiter) For(key string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.limiters[key]
	l.mu.RUnlock()
	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, ok = l.limiters[key]; ok {
		return limiter
	}

	limiter = newBucket(l.cfg.RequestsPerSecond, l.cfg.Burst)
	l.limiters[key] = limiter
	return limiter
}

// SetLimit replaces the bucket for key.
func (l *Limiter) SetLimit(key string, rps float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters[key] = newBucket(rps, burst)
}

// Wait blocks until key may issue a request or ctx is done.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.For(key).Wait(ctx)
}

// Allow reports whether key may issue a request now, consuming a token if so.
func (l *Limiter) Allow(key string) bool {
	return l.For(key).Allow()
}

func newBucket(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
