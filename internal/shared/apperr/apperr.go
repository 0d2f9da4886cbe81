// Package apperr defines the error kinds shared by every feature and their HTTP status mapping.
// Feature packages declare their own sentinels that wrap one of these kinds with %w.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation error")

	// ErrConflict indicates a duplicate value for a unique field.
	ErrConflict = errors.New("conflict")

	// ErrAuth indicates that the supplied credentials did not verify.
	ErrAuth = errors.New("authentication failed")

	// ErrUnauthenticated indicates a missing, unknown or expired session.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates an authenticated identity without the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates that the target record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock indicates that a product does not have enough units left.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrRateLimited indicates that the caller exceeded the allowed request rate.
	ErrRateLimited = errors.New("too many requests")
)

// Status returns the HTTP status code for err.
// Errors that do not wrap a known kind map to 500.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInsufficientStock):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrAuth), errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError reports whether err wraps one of the known kinds.
func IsClientError(err error) bool {
	return Status(err) < http.StatusInternalServerError
}

// Error carries a client-facing message for one of the kinds above.
// errors.Is matches both the *Error value itself and its Kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// New returns an *Error of the given kind.
func New(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Message returns the text shown to clients for err.
// Wrapping context added with fmt.Errorf is dropped when err carries an *Error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
