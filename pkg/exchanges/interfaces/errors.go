package interfaces

import (
	"errors"
	"fmt"
)

// Common error variables that exchange clients may return
var (
	// ErrNotConnected is returned when an operation is attempted on a session
	// that hasn't been connected yet or has already terminated
	ErrNotConnected = errors.New("exchange connection not established")

	// ErrSessionClosed is returned when a command is issued on a stream
	// session whose read loop has already stopped
	ErrSessionClosed = errors.New("stream session closed")

	// ErrRateLimitExceeded is returned when the exchange rate limit is exceeded
	ErrRateLimitExceeded = errors.New("exchange rate limit exceeded")

	// ErrAuthenticationRequired is returned when attempting an operation that
	// requires authentication without providing credentials
	ErrAuthenticationRequired = errors.New("authentication required for this operation")

	// ErrInvalidCredentials is returned when the provided API credentials are
	// malformed or rejected by the exchange
	ErrInvalidCredentials = errors.New("invalid API credentials")

	// ErrSubscriptionFailed is returned when a WebSocket subscription cannot
	// be established
	ErrSubscriptionFailed = errors.New("failed to establish subscription")

	// ErrExchangeUnavailable is returned when the exchange API is unavailable
	ErrExchangeUnavailable = errors.New("exchange API unavailable")
)

// RequestError represents a failure of a single exchange request, carrying
// the endpoint path for context.
type RequestError struct {
	Path    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *RequestError) Error() string {
	return fmt.Sprintf("request error for %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error
func (e *RequestError) Unwrap() error {
	return e.Err
}

// NewRequestError creates a new request-scoped error
func NewRequestError(path, message string, err error) error {
	return &RequestError{
		Path:    path,
		Message: message,
		Err:     err,
	}
}
