package errors

import (
	"errors"
	"net/http"
)

// Error kinds. Every domain error unwraps to exactly one of these.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrConflict          = errors.New("conflict")
	ErrRateLimited       = errors.New("rate limited")
	ErrUpstream          = errors.New("upstream failure")
)

var (
	// ErrNotAuthenticated is returned when a request carries no valid session.
	ErrNotAuthenticated = New(ErrUnauthenticated, "NOT_AUTHENTICATED", "not authenticated")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = New(ErrUnauthenticated, "INVALID_CREDENTIALS", "invalid email or password")
	// ErrUnauthorized is the generic role/ownership refusal.
	ErrUnauthorized = New(ErrForbidden, "FORBIDDEN", "unauthorized")
	// ErrArticleNotFound is returned when an article does not exist or is not visible to the caller.
	ErrArticleNotFound = New(ErrNotFound, "ARTICLE_NOT_FOUND", "article not found")
	// ErrCommentNotFound is returned when a comment does not exist or is hidden.
	ErrCommentNotFound = New(ErrNotFound, "COMMENT_NOT_FOUND", "comment not found")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = New(ErrNotFound, "USER_NOT_FOUND", "user not found")
	// ErrUserAlreadyExists is returned when registering an email that is taken.
	ErrUserAlreadyExists = New(ErrConflict, "USER_ALREADY_EXISTS", "user with this email already exists")
	// ErrTooManyAttempts is returned when the login limiter rejects a source address.
	ErrTooManyAttempts = New(ErrRateLimited, "TOO_MANY_ATTEMPTS", "too many login attempts, please try again later")
	// ErrNotPublished is returned when interacting with an article that is not published.
	ErrNotPublished = New(ErrInvalidInput, "ARTICLE_NOT_PUBLISHED", "article is not published")
)

// Error is a domain error carrying its kind, a stable code and a client-safe message.
type Error struct {
	Kind    error
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the kind so errors.Is(err, ErrNotFound) works on wrapped values.
func (e *Error) Unwrap() error {
	return e.Kind
}

// New creates a domain error of the given kind.
func New(kind error, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Invalid creates an InvalidInput error with the given message.
func Invalid(message string) *Error {
	return New(ErrInvalidInput, "INVALID_INPUT", message)
}

// Forbidden creates a Forbidden error with the given message.
func Forbidden(message string) *Error {
	return New(ErrForbidden, "FORBIDDEN", message)
}

// Transition creates an InvalidTransition error with the given message.
func Transition(message string) *Error {
	return New(ErrInvalidTransition, "INVALID_TRANSITION", message)
}

// Upstream wraps a third-party failure.
func Upstream(message string) *Error {
	return New(ErrUpstream, "UPSTREAM_ERROR", message)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// StatusFor returns the HTTP status used for an error kind.
func StatusFor(kind error) int {
	switch kind {
	case ErrUnauthenticated:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrNotFound:
		return http.StatusNotFound
	case ErrInvalidInput:
		return http.StatusBadRequest
	case ErrInvalidTransition, ErrConflict:
		return http.StatusConflict
	case ErrRateLimited:
		return http.StatusTooManyRequests
	case ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything that is not a
// domain error is reported as an opaque internal error.
func MapErrorToHTTP(err error) *HTTPError {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return NewHTTPError(StatusFor(domainErr.Kind), domainErr.Message, domainErr.Code)
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
