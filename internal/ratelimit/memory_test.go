package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_Burst(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	l := NewMemoryLimiter(2, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	d, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)

	d, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	d, _ = l.Allow(ctx, "1.2.3.4")
	assert.False(t, d.Allowed)
	assert.Equal(t, 2, d.Limit)
	assert.Equal(t, 30*time.Second, d.RetryAfter)

	d, _ = l.Allow(ctx, "5.6.7.8")
	assert.True(t, d.Allowed, "keys are independent")

	now = start.Add(31 * time.Second)
	d, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, d.Allowed, "one token refills per half window")
}

func TestMemoryLimiter_DropsIdleKeys(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	l := NewMemoryLimiter(1, time.Second)
	l.now = func() time.Time { return now }

	_, _ = l.Allow(context.Background(), "a")
	_, _ = l.Allow(context.Background(), "b")
	assert.Len(t, l.visitors, 2)

	now = start.Add(10 * time.Second)
	_, _ = l.Allow(context.Background(), "c")
	assert.Len(t, l.visitors, 1)
	assert.Contains(t, l.visitors, "c")
}
