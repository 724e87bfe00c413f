package ratelimit

import (
	"context"
	"time"

	"newsdesk/internal/cache"
)

const loginAttemptKeyPrefix = "login_attempts:"

// RedisStore is an AttemptStore shared by every API instance. When redis
// is unreachable it counts nothing, so logins are never blocked by an outage.
type RedisStore struct {
	cache  *cache.Client
	window time.Duration
}

var _ AttemptStore = (*RedisStore)(nil)

// NewRedisStore creates a redis backed attempt store.
func NewRedisStore(cache *cache.Client, window time.Duration) *RedisStore {
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisStore{cache: cache, window: window}
}

// Failures returns the failures of key in the current window.
func (s *RedisStore) Failures(ctx context.Context, key string) (int, error) {
	n, err := s.cache.Count(ctx, loginAttemptKeyPrefix+key)
	return int(n), err
}

// RecordFailure increments the failures of key.
func (s *RedisStore) RecordFailure(ctx context.Context, key string) (int, error) {
	n, err := s.cache.Incr(ctx, loginAttemptKeyPrefix+key, s.window)
	return int(n), err
}

// Reset forgets key.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, loginAttemptKeyPrefix+key)
}
