// Package ratelimit throttles unauthenticated endpoints per client key.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the result of one Allow call
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts requests for a key and decides whether one more is allowed
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
