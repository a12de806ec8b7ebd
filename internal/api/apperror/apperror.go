// Package apperror defines the error kinds handlers raise and the HTTP status
// each one maps to. The router's error middleware does the translation.
package apperror

import (
	"errors"
	"net/http"
)

// Error is a classified failure safe to show to the client
type Error struct {
	Status  int
	Message string
	Err     error // optional cause, never rendered
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound signals a missing record or one owned by another user
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// BadRequest signals invalid client input
func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Unauthenticated signals a missing or invalid identity
func Unauthenticated(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// Wrap attaches a cause to a classified error
func (e *Error) Wrap(err error) *Error {
	return &Error{Status: e.Status, Message: e.Message, Err: err}
}

// As extracts an *Error from err's chain
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
