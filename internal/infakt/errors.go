package infakt

import (
	"errors"
	"fmt"
)

// Common client errors
var (
	// ErrUnexpectedStatus is returned when the remote API answers a request
	// with a non-success HTTP status.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrInvalidResponse is returned when a response body cannot be decoded
	// into an invoice.
	ErrInvalidResponse = errors.New("invalid response body")
)

// APIError wraps a failed remote call with the operation and the response
// the server sent back.
type APIError struct {
	// Op is the operation that failed (e.g., "CreateInvoice").
	Op string

	// StatusCode is the HTTP status the server answered with, 0 when the
	// request never got a response.
	StatusCode int

	// Body is the raw response body, useful for the API's error messages.
	Body string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("infakt: %s failed: status %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("infakt: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *APIError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func newStatusError(op string, statusCode int, body string) *APIError {
	return &APIError{
		Op:         op,
		StatusCode: statusCode,
		Body:       body,
		Err:        ErrUnexpectedStatus,
	}
}
