package llm

import (
	"errors"
)

// The client classifies completion failures into two buckets so its
// retry loop knows which requests are worth repeating. Network errors,
// rate limits, and 5xx responses come back transient; bad credentials
// and malformed requests come back fatal and fail the call
// immediately.

// TransientError marks a failure that may clear on retry.
type TransientError struct {
	err error
}

func (e *TransientError) Error() string {
	return e.err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.err
}

// NewTransientError wraps err so IsTransient reports it retryable.
func NewTransientError(err error) error {
	return &TransientError{err: err}
}

// FatalError marks a failure that retrying cannot fix.
type FatalError struct {
	err error
}

func (e *FatalError) Error() string {
	return e.err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.err
}

// NewFatalError wraps err so retries stop at the first attempt.
func NewFatalError(err error) error {
	return &FatalError{err: err}
}

// IsTransient reports whether err is worth retrying. It sees through
// wrapping, so callers may add context around a classified error.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

// IsFatal reports whether err is permanent.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}
