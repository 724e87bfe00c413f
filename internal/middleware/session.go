// Package middleware holds the echo middleware of the API.
package middleware

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"newsdesk/internal/auth"
	"newsdesk/internal/errors"
	"newsdesk/internal/model"
	"newsdesk/internal/policy"
)

// contextKey is where the parsed session token is stored.
const contextKey = "session"

// Session reads the session cookie when present. Requests without a valid,
// unrevoked session continue as anonymous; use RequireAuth or RequireRole
// to reject them. A session is revoked by logout or, for all of a user's
// sessions, by a role change or account deletion.
func Session(jwtService *auth.JWTService, tokens auth.TokenStoreInterface, cookieName string, log zerolog.Logger) echo.MiddlewareFunc {
	parse := echojwt.WithConfig(echojwt.Config{
		SigningKey:    jwtService.Secret(),
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		TokenLookup:   "cookie:" + cookieName,
		ContextKey:    contextKey,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
		ContinueOnIgnoredError: true,
	})

	revoked := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return next(c)
			}
			ctx := c.Request().Context()
			isRevoked, err := tokens.IsRevoked(ctx, claims.ID)
			if err != nil {
				log.Warn().Err(err).Msg("session revocation check failed")
			}
			if !isRevoked {
				since, err := tokens.UserRevokedAt(ctx, claims.UserID)
				if err != nil {
					log.Warn().Err(err).Msg("user revocation check failed")
				}
				isRevoked = claims.IssuedBy(since)
			}
			if isRevoked {
				c.Set(contextKey, nil)
			}
			return next(c)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return parse(revoked(next))
	}
}

// ClaimsFrom returns the session claims of the request, or nil when the
// caller is anonymous.
func ClaimsFrom(c echo.Context) *auth.Claims {
	token, ok := c.Get(contextKey).(*jwt.Token)
	if !ok || token == nil || !token.Valid {
		return nil
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok || claims.UserID == uuid.Nil {
		return nil
	}
	return claims
}

// ActorFrom returns the caller as a policy.Actor; the zero Actor when anonymous.
func ActorFrom(c echo.Context) policy.Actor {
	claims := ClaimsFrom(c)
	if claims == nil {
		return policy.Actor{}
	}
	return policy.Actor{UserID: claims.UserID, Role: claims.Role}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if ClaimsFrom(c) == nil {
			return errors.ErrNotAuthenticated
		}
		return next(c)
	}
}

// RequireRole rejects requests whose session role is not one of roles.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return errors.ErrNotAuthenticated
			}
			if !policy.HasRole(claims.Role, roles...) {
				return errors.ErrUnauthorized
			}
			return next(c)
		}
	}
}
