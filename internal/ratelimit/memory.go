package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps a token bucket per key in process memory. Buckets refill at
// limit tokens per window and idle ones are dropped after a few windows.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	interval time.Duration
	window   time.Duration
	lastGC   time.Time
	now      func() time.Time
}

// NewMemoryLimiter allows a burst of limit requests per key, refilled over window
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		interval: window / time.Duration(limit),
		window:   window,
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.gc(now)

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(l.interval), l.limit)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	d := Decision{Limit: l.limit}
	if v.limiter.AllowN(now, 1) {
		d.Allowed = true
		d.Remaining = int(v.limiter.TokensAt(now))
		return d, nil
	}
	d.RetryAfter = l.interval
	return d, nil
}

func (l *MemoryLimiter) gc(now time.Time) {
	if now.Sub(l.lastGC) < l.window {
		return
	}
	l.lastGC = now
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > 3*l.window {
			delete(l.visitors, k)
		}
	}
}
