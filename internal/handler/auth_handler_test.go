package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/auth"
	"newsdesk/internal/errors"
	"newsdesk/internal/model"
	"newsdesk/internal/service"
)

func newAuthTestServer() (*echo.Echo, *MockAuthService) {
	svc := new(MockAuthService)
	h := NewAuthHandler(svc, testCookieName, false)
	e := newTestEcho()
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)
	e.POST("/auth/logout", h.Logout)
	e.GET("/auth/me", h.Me)
	return e, svc
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockAuthService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "success",
			body: `{"name":"Ann","email":"ann@example.com","password":"secret1"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, service.RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"}).
					Return(&model.User{ID: uuid.New(), Email: "ann@example.com", Role: model.RoleReader}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "author self-registration",
			body: `{"name":"Ann","email":"ann@example.com","password":"secret1","role":"author"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, service.RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1", Role: model.RoleAuthor}).
					Return(&model.User{ID: uuid.New(), Role: model.RoleAuthor}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "admin role refused",
			body:       `{"name":"Ann","email":"ann@example.com","password":"secret1","role":"admin"}`,
			setupMock:  func(m *MockAuthService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "invalid email",
			body:       `{"name":"Ann","email":"not-an-email","password":"secret1"}`,
			setupMock:  func(m *MockAuthService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "malformed body",
			body:       `{"name":`,
			setupMock:  func(m *MockAuthService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name: "duplicate email",
			body: `{"name":"Ann","email":"ann@example.com","password":"secret1"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, mock.Anything).Return(nil, errors.ErrUserAlreadyExists)
			},
			wantStatus: http.StatusConflict,
			wantCode:   "USER_ALREADY_EXISTS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, svc := newAuthTestServer()
			tt.setupMock(svc)

			rec := doRequest(e, http.MethodPost, "/auth/register", tt.body, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_LoginSetsCookie(t *testing.T) {
	e, svc := newAuthTestServer()
	user := &model.User{ID: uuid.New(), Email: "ann@example.com", Role: model.RoleReader}
	token, claims, err := testJWT.Issue(user)
	require.NoError(t, err)

	svc.On("Login", mock.Anything, "ann@example.com", "secret1", "192.0.2.1").
		Return(&service.Session{Token: token, Claims: claims, User: user}, nil)

	rec := doRequest(e, http.MethodPost, "/auth/login", `{"email":"ann@example.com","password":"secret1"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, testCookieName, cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Greater(t, cookies[0].MaxAge, 0)
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"bad credentials", errors.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"limited", errors.ErrTooManyAttempts, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, svc := newAuthTestServer()
			svc.On("Login", mock.Anything, "ann@example.com", "wrong", mock.Anything).Return(nil, tt.err)

			rec := doRequest(e, http.MethodPost, "/auth/login", `{"email":"ann@example.com","password":"wrong"}`, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e, svc := newAuthTestServer()
	cookie, actor := signIn(t, model.RoleReader)
	svc.On("Logout", mock.Anything, mock.MatchedBy(func(c *auth.Claims) bool {
		return c != nil && c.UserID == actor.UserID
	})).Return(nil)

	rec := doRequest(e, http.MethodPost, "/auth/logout", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
	svc.AssertExpectations(t)
}

func TestAuthHandler_LogoutAnonymous(t *testing.T) {
	e, svc := newAuthTestServer()
	svc.On("Logout", mock.Anything, (*auth.Claims)(nil)).Return(nil)

	rec := doRequest(e, http.MethodPost, "/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_Me(t *testing.T) {
	e, svc := newAuthTestServer()

	rec := doRequest(e, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookie, actor := signIn(t, model.RoleEditor)
	svc.On("Me", mock.Anything, actor.UserID).Return(&model.User{ID: actor.UserID, Role: model.RoleEditor}, nil)
	rec = doRequest(e, http.MethodGet, "/auth/me", "", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), actor.UserID.String())
}
