package poller

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTimedOut        = errors.New("timed out waiting for condition")
	ErrCancelled       = errors.New("poll cancelled")
	// ErrNotFound is returned by state checks when the resource does not exist (yet).
	ErrNotFound = errors.New("resource not found")
)

// Error describes why a poll did not end Satisfied.
type Error struct {
	ResourceID string
	Outcome    Outcome
	Attempts   int
	Elapsed    time.Duration
	// Cause is the check error for Failed, the context error for Cancelled and
	// the last transient error (if any) for TimedOut.
	Cause error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s after %d attempt(s) in %s", e.ResourceID, e.Outcome, e.Attempts, e.Elapsed)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrTimedOut:
		return e.Outcome == TimedOut
	case ErrCancelled:
		return e.Outcome == Cancelled
	}
	return false
}

type nonRetryableError struct {
	err error
}

func (e *nonRetryableError) Error() string { return e.err.Error() }
func (e *nonRetryableError) Unwrap() error { return e.err }

// NonRetryable marks err so the default classifier aborts the poll on it.
func NonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &nonRetryableError{err: err}
}

func IsNonRetryable(err error) bool {
	var nr *nonRetryableError
	return errors.As(err, &nr)
}

// NotFound wraps err so that errors.Is(err, ErrNotFound) holds.
func NotFound(err error) error {
	if err == nil {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %w", ErrNotFound, err)
}
