package poller

import "errors"

// Class is the retry classification of an error raised by a state check.
type Class int

const (
	// ClassTransient errors (conflict, throttling, operation in progress) count as "not yet".
	ClassTransient Class = iota
	// ClassNonRetryable errors cannot resolve by waiting and fail the poll.
	ClassNonRetryable
	// ClassNotFound means the resource does not exist; see MissingPolicy.
	ClassNotFound
)

func (c Class) String() string {
	switch c {
	case ClassTransient:
		return "transient"
	case ClassNonRetryable:
		return "non-retryable"
	case ClassNotFound:
		return "not-found"
	}
	return "unknown"
}

// Classifier maps a check error to a Class. Provider packages supply their own.
type Classifier func(err error) Class

// DefaultClassifier honours the NonRetryable and ErrNotFound markers and treats
// everything else as transient.
func DefaultClassifier(err error) Class {
	switch {
	case IsNonRetryable(err):
		return ClassNonRetryable
	case errors.Is(err, ErrNotFound):
		return ClassNotFound
	default:
		return ClassTransient
	}
}

// MissingPolicy decides what a ClassNotFound error means for a poll.
type MissingPolicy int

const (
	// MissingIsPending treats a missing resource as "not satisfied yet".
	MissingIsPending MissingPolicy = iota
	// MissingIsFailure fails the poll when the resource disappears.
	MissingIsFailure
)
