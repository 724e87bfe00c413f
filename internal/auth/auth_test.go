package auth

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/model"
)

func testUser() *model.User {
	return &model.User{ID: uuid.New(), Email: "a@example.com", Name: "Asha", Role: model.RoleAuthor}
}

func TestIssueAndValidate(t *testing.T) {
	svc := NewJWTService("secret", 0)
	user := testUser()

	token, issued, err := svc.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, ok := svc.Validate(token)
	require.True(t, ok)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, model.RoleAuthor, claims.Role)
	assert.Equal(t, "Asha", claims.Name)
	assert.Equal(t, issued.ID, claims.ID)
	assert.WithinDuration(t, time.Now().Add(SessionExpiry), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateRejectsBadTokens(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	token, _, err := svc.Issue(testUser())
	require.NoError(t, err)

	expired := NewJWTService("secret", time.Hour)
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredSigned, err := expiredToken.SignedString(expired.Secret())
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: uuid.New()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"tampered", token[:len(token)-2] + "xx"},
		{"wrong secret", mustIssue(t, NewJWTService("other", time.Hour))},
		{"expired", expiredSigned},
		{"alg none", noneToken},
		{"truncated", strings.Join(strings.Split(token, ".")[:2], ".")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, ok := svc.Validate(tt.token)
			assert.False(t, ok)
			assert.Nil(t, claims)
		})
	}
}

func mustIssue(t *testing.T, svc *JWTService) string {
	t.Helper()
	token, _, err := svc.Issue(testUser())
	require.NoError(t, err)
	return token
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	assert.True(t, CheckPassword("s3cret!", hash))
	assert.False(t, CheckPassword("wrong", hash))
	assert.False(t, CheckPassword("s3cret!", "not-a-hash"))
}

func TestSessionCookie(t *testing.T) {
	c := SessionCookie(DefaultCookieName, "tok", time.Hour, true)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 3600, c.MaxAge)

	gone := ExpiredCookie(DefaultCookieName, false)
	assert.Equal(t, -1, gone.MaxAge)
	assert.Empty(t, gone.Value)
}

func TestTokenStoreWithoutRedis(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti", time.Hour))
	revoked, err := store.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestClaimsIssuedBy(t *testing.T) {
	issued := time.Now().Truncate(time.Second)
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(issued)}}

	assert.False(t, claims.IssuedBy(time.Time{}))
	assert.False(t, claims.IssuedBy(issued.Add(-time.Minute)))
	assert.True(t, claims.IssuedBy(issued))
	assert.True(t, claims.IssuedBy(issued.Add(time.Minute)))
}

func TestUserRevocationWithoutRedis(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, store.RevokeUser(ctx, id, time.Hour))
	at, err := store.UserRevokedAt(ctx, id)
	require.NoError(t, err)
	assert.True(t, at.IsZero())
}
