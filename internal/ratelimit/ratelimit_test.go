package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/cache"
)

func TestLoginLimiterBlocksAfterMaxFailures(t *testing.T) {
	ctx := context.Background()
	limiter := NewLoginLimiter(NewMemoryStore(100, time.Hour), 5)

	for i := 0; i < 5; i++ {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		require.True(t, ok, "attempt %d", i+1)
		_, err = limiter.Fail(ctx, "10.0.0.1")
		require.NoError(t, err)
	}

	ok, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok, "other sources are unaffected")
}

func TestLoginLimiterResetsOnSuccess(t *testing.T) {
	ctx := context.Background()
	limiter := NewLoginLimiter(NewMemoryStore(100, time.Hour), 5)

	for i := 0; i < 4; i++ {
		_, _ = limiter.Fail(ctx, "ip")
	}
	require.NoError(t, limiter.Succeed(ctx, "ip"))

	remaining, err := limiter.Fail(ctx, "ip")
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)
}

func TestMemoryStoreWindowIsFixed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(100, 15*time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }

	_, _ = store.RecordFailure(ctx, "ip")
	now = now.Add(10 * time.Minute)
	n, _ := store.RecordFailure(ctx, "ip")
	assert.Equal(t, 2, n)

	// 16 minutes after the first failure the window has closed even though
	// the last failure was recent.
	now = now.Add(6 * time.Minute)
	n, err := store.Failures(ctx, "ip")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemoryStoreIsBounded(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(10, time.Hour)
	for i := 0; i < 50; i++ {
		_, _ = store.RecordFailure(ctx, fmt.Sprintf("10.0.0.%d", i))
	}
	assert.Equal(t, 10, store.Len())
}

func TestRedisStoreFailsOpen(t *testing.T) {
	ctx := context.Background()
	var client *cache.Client
	limiter := NewLoginLimiter(NewRedisStore(client, time.Minute), 1)

	_, err := limiter.Fail(ctx, "ip")
	require.NoError(t, err)
	ok, err := limiter.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIPLimiter(t *testing.T) {
	limiter := NewIPLimiter(0.001, 2, 100)

	assert.True(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("b"))
}
