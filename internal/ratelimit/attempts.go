// Package ratelimit limits login attempts and API request rates per source address.
package ratelimit

import (
	"context"
	"time"
)

// Login limiter defaults: 5 failures within 15 minutes.
const (
	DefaultMaxAttempts = 5
	DefaultWindow      = 15 * time.Minute
)

// AttemptStore counts failed logins per key. The window is fixed from the
// first recorded failure.
type AttemptStore interface {
	Failures(ctx context.Context, key string) (int, error)
	RecordFailure(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}

// LoginLimiter rejects login attempts from a source after too many failures.
type LoginLimiter struct {
	store       AttemptStore
	maxAttempts int
}

// NewLoginLimiter creates a login limiter over store.
func NewLoginLimiter(store AttemptStore, maxAttempts int) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &LoginLimiter{store: store, maxAttempts: maxAttempts}
}

// Allow reports whether another attempt from key may proceed.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := l.store.Failures(ctx, key)
	if err != nil {
		return false, err
	}
	return n < l.maxAttempts, nil
}

// Fail records a failed attempt and returns how many remain in the window.
func (l *LoginLimiter) Fail(ctx context.Context, key string) (int, error) {
	n, err := l.store.RecordFailure(ctx, key)
	if err != nil {
		return 0, err
	}
	remaining := l.maxAttempts - n
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Succeed clears the failure count of key.
func (l *LoginLimiter) Succeed(ctx context.Context, key string) error {
	return l.store.Reset(ctx, key)
}
