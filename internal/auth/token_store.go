package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/cache"
)

const (
	revokedTokenKeyPrefix = "revoked:session:"
	revokedUserKeyPrefix  = "revoked:user:"
)

// TokenStoreInterface defines the interface for session revocation.
type TokenStoreInterface interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// RevokeUser invalidates every session of the user issued up to now.
	RevokeUser(ctx context.Context, userID uuid.UUID, ttl time.Duration) error
	// UserRevokedAt returns the last RevokeUser time, or the zero time.
	UserRevokedAt(ctx context.Context, userID uuid.UUID) (time.Time, error)
}

// TokenStore keeps revoked session ids in Redis until they would have expired.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// Revoke marks a session token id as logged out.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsRevoked checks if a session token id was logged out.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	data, err := s.cache.Get(ctx, revokedTokenKeyPrefix+tokenID)
	if err != nil {
		return false, nil // Not revoked if error (fail safe)
	}
	return data != nil, nil
}

// RevokeUser records the current time as the user's revocation point. ttl
// should be the session lifetime, after which no older token is valid anyway.
func (s *TokenStore) RevokeUser(ctx context.Context, userID uuid.UUID, ttl time.Duration) error {
	if userID == uuid.Nil || ttl <= 0 {
		return nil
	}
	at := strconv.FormatInt(time.Now().Unix(), 10)
	return s.cache.Set(ctx, revokedUserKeyPrefix+userID.String(), []byte(at), ttl)
}

// UserRevokedAt returns when the user's sessions were last revoked.
func (s *TokenStore) UserRevokedAt(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	data, err := s.cache.Get(ctx, revokedUserKeyPrefix+userID.String())
	if err != nil || data == nil {
		return time.Time{}, nil
	}
	sec, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return time.Time{}, nil
	}
	return time.Unix(sec, 0), nil
}
