package domain

import "errors"

var (
	// ErrInvalidMessage is returned when a delivery is not a valid job event
	ErrInvalidMessage = errors.New("invalid job event message")

	// ErrPermanent marks store failures that will not succeed on retry
	ErrPermanent = errors.New("permanent store failure")

	// ErrDeliveriesClosed is returned when the broker closes the delivery channel
	ErrDeliveriesClosed = errors.New("delivery channel closed")
)

// RetryableError wraps transient errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
