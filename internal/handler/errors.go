package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"newsdesk/internal/errors"
)

// HTTPErrorHandler renders every error as an errors.ErrorResponse. Domain
// errors keep their status and code; echo errors (unknown route, bad method)
// keep their status; anything else is a logged 500.
func HTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var status int
		var body errors.ErrorResponse

		var echoErr *echo.HTTPError
		var domainErr *errors.Error
		switch {
		case errors.As(err, &domainErr):
			httpErr := errors.MapErrorToHTTP(domainErr)
			status, body = httpErr.StatusCode, httpErr.ToErrorResponse()
		case errors.As(err, &echoErr):
			status = echoErr.Code
			body = errors.ErrorResponse{Error: http.StatusText(echoErr.Code), Code: codeForStatus(echoErr.Code)}
			if msg, ok := echoErr.Message.(string); ok && msg != "" {
				body.Error = msg
			}
		default:
			httpErr := errors.MapErrorToHTTP(err)
			status, body = httpErr.StatusCode, httpErr.ToErrorResponse()
		}

		if status >= http.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_INPUT"
	case http.StatusUnauthorized:
		return "NOT_AUTHENTICATED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		return "INTERNAL_ERROR"
	}
}
