package middleware

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/auth"
	"newsdesk/internal/errors"
	"newsdesk/internal/model"
	"newsdesk/internal/policy"
	"newsdesk/internal/ratelimit"
)

type revokedSet map[string]bool

func (r revokedSet) Revoke(_ context.Context, id string, _ time.Duration) error {
	r[id] = true
	return nil
}

func (r revokedSet) IsRevoked(_ context.Context, id string) (bool, error) {
	return r[id], nil
}

func (r revokedSet) RevokeUser(_ context.Context, id uuid.UUID, _ time.Duration) error {
	r["user:"+id.String()] = true
	return nil
}

func (r revokedSet) UserRevokedAt(_ context.Context, id uuid.UUID) (time.Time, error) {
	if r["user:"+id.String()] {
		return time.Now(), nil
	}
	return time.Time{}, nil
}

const cookieName = "news-auth-token"

func serve(t *testing.T, mw []echo.MiddlewareFunc, cookie *http.Cookie) (*httptest.ResponseRecorder, policy.Actor) {
	t.Helper()
	e := echo.New()
	var seen policy.Actor
	e.GET("/", func(c echo.Context) error {
		seen = ActorFrom(c)
		return c.NoContent(http.StatusNoContent)
	}, mw...)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		httpErr := errors.MapErrorToHTTP(err)
		_ = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen
}

func TestSession(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	user := &model.User{ID: uuid.New(), Email: "a@example.com", Role: model.RoleEditor}
	token, claims, err := jwtService.Issue(user)
	require.NoError(t, err)

	other := auth.NewJWTService("other-secret", time.Hour)
	forged, _, err := other.Issue(user)
	require.NoError(t, err)

	tests := []struct {
		name      string
		cookie    *http.Cookie
		revoked   revokedSet
		wantActor policy.Actor
	}{
		{"no cookie", nil, revokedSet{}, policy.Actor{}},
		{"valid session", &http.Cookie{Name: cookieName, Value: token}, revokedSet{}, policy.Actor{UserID: user.ID, Role: model.RoleEditor}},
		{"garbage", &http.Cookie{Name: cookieName, Value: "not-a-jwt"}, revokedSet{}, policy.Actor{}},
		{"wrong key", &http.Cookie{Name: cookieName, Value: forged}, revokedSet{}, policy.Actor{}},
		{"revoked", &http.Cookie{Name: cookieName, Value: token}, revokedSet{claims.ID: true}, policy.Actor{}},
		{"user revoked", &http.Cookie{Name: cookieName, Value: token}, revokedSet{"user:" + user.ID.String(): true}, policy.Actor{}},
		{"other user revoked", &http.Cookie{Name: cookieName, Value: token}, revokedSet{"user:" + uuid.NewString(): true}, policy.Actor{UserID: user.ID, Role: model.RoleEditor}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := []echo.MiddlewareFunc{Session(jwtService, tt.revoked, cookieName, zerolog.Nop())}
			rec, actor := serve(t, mw, tt.cookie)
			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, tt.wantActor, actor)
		})
	}
}

func TestRequireRole(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	readerToken, _, err := jwtService.Issue(&model.User{ID: uuid.New(), Role: model.RoleReader})
	require.NoError(t, err)
	adminToken, _, err := jwtService.Issue(&model.User{ID: uuid.New(), Role: model.RoleAdmin})
	require.NoError(t, err)

	mw := []echo.MiddlewareFunc{
		Session(jwtService, revokedSet{}, cookieName, zerolog.Nop()),
		RequireRole(model.RoleAdmin),
	}

	rec, _ := serve(t, mw, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = serve(t, mw, &http.Cookie{Name: cookieName, Value: readerToken})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = serve(t, mw, &http.Cookie{Name: cookieName, Value: adminToken})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	mw := []echo.MiddlewareFunc{Session(jwtService, revokedSet{}, cookieName, zerolog.Nop()), RequireAuth}

	rec, _ := serve(t, mw, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_AUTHENTICATED")
}

func TestRateLimit(t *testing.T) {
	mw := []echo.MiddlewareFunc{RateLimit(ratelimit.NewIPLimiter(1, 2, 10))}

	for i := 0; i < 2; i++ {
		rec, _ := serve(t, mw, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
	rec, _ := serve(t, mw, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec, _ = serve(t, []echo.MiddlewareFunc{RateLimit(nil)}, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestIPExtractor(t *testing.T) {
	_, proxies, err := net.ParseCIDR("10.0.0.0/8")
	require.NoError(t, err)

	tests := []struct {
		name    string
		trusted []*net.IPNet
		remote  string
		xff     string
		want    string
	}{
		{name: "header ignored without proxies", remote: "203.0.113.7:5000", xff: "198.51.100.1", want: "203.0.113.7"},
		{name: "private peer not trusted by default", remote: "192.168.1.2:5000", xff: "198.51.100.1", want: "192.168.1.2"},
		{name: "trusted proxy forwards client", trusted: []*net.IPNet{proxies}, remote: "10.1.2.3:5000", xff: "198.51.100.1", want: "198.51.100.1"},
		{name: "spoofed hop before proxy", trusted: []*net.IPNet{proxies}, remote: "10.1.2.3:5000", xff: "1.1.1.1, 198.51.100.1", want: "198.51.100.1"},
		{name: "untrusted peer", trusted: []*net.IPNet{proxies}, remote: "203.0.113.7:5000", xff: "198.51.100.1", want: "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			req.Header.Set(echo.HeaderXForwardedFor, tt.xff)
			assert.Equal(t, tt.want, IPExtractor(tt.trusted)(req))
		})
	}
}
