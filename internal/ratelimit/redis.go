package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindow increments the counter for the current window and starts the window on the
// first hit. It returns the new count and the milliseconds left in the window.
var fixedWindow = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
    ttl = tonumber(ARGV[1])
end
return { current, ttl }
`)

// RedisLimiter is a fixed window counter shared by every instance pointing at the same
// Redis.
type RedisLimiter struct {
	rdb    redis.Scripter
	prefix string
	limit  int
	window time.Duration
}

// NewRedisLimiter allows limit requests per key in each window
func NewRedisLimiter(rdb redis.Scripter, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := fixedWindow.Run(ctx, l.rdb, []string{l.prefix + ":" + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("rate limit script: unexpected result %v", res)
	}

	count, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond
	d := Decision{Limit: l.limit, Remaining: max(l.limit-count, 0)}
	if count > l.limit {
		d.RetryAfter = ttl
		return d, nil
	}
	d.Allowed = true
	return d, nil
}
