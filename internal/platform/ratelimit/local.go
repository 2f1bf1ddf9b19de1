package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const cleanupInterval = time.Hour

// localLimiter keeps one token bucket per key: Limit tokens refilled evenly
// over Window.
type localLimiter struct {
	mu          sync.Mutex
	limit       int
	every       rate.Limit
	limiters    map[string]*rate.Limiter
	lastCleanup time.Time
	now         func() time.Time
}

func NewLocal(limit int, window time.Duration) Limiter {
	if window <= 0 {
		window = time.Minute
	}
	every := rate.Inf
	if limit > 0 {
		every = rate.Every(window / time.Duration(limit))
	}
	return &localLimiter{
		limit:       limit,
		every:       every,
		limiters:    make(map[string]*rate.Limiter),
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

func (l *localLimiter) Allow(_ context.Context, key string) Decision {
	if l.limit <= 0 {
		return Decision{Allowed: true}
	}
	now := l.now()
	lim := l.get(key, now)
	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return Decision{Allowed: false}
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return Decision{Allowed: false, RetryAfter: delay}
	}
	return Decision{Allowed: true}
}

func (l *localLimiter) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastCleanup) > cleanupInterval {
		l.sweep(now)
	}
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.every, l.limit)
		l.limiters[key] = lim
	}
	return lim
}

// sweep drops buckets that have refilled completely. A fresh bucket behaves the
// same, so only keys still being throttled survive. Callers hold l.mu.
func (l *localLimiter) sweep(now time.Time) {
	for key, lim := range l.limiters {
		if lim.TokensAt(now) >= float64(l.limit) {
			delete(l.limiters, key)
		}
	}
	l.lastCleanup = now
}

func (l *localLimiter) Close() error { return nil }
