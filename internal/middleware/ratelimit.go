package middleware

import (
	"github.com/labstack/echo/v4"

	"newsdesk/internal/errors"
	"newsdesk/internal/ratelimit"
)

// ErrTooManyRequests is returned when the per-address API limit is hit.
var ErrTooManyRequests = errors.New(errors.ErrRateLimited, "RATE_LIMITED", "too many requests")

// RateLimit applies a token bucket per client address. A nil limiter
// disables it.
func RateLimit(limiter *ratelimit.IPLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if limiter == nil {
			return next
		}
		return func(c echo.Context) error {
			if !limiter.Allow(c.RealIP()) {
				return ErrTooManyRequests
			}
			return next(c)
		}
	}
}
