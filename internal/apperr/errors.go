// Package apperr defines the error values every recruiter entry point returns.
//
// Messages are already human readable; transports render them as-is.
package apperr

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrUnauthorized is returned when the caller lacks the operations-dashboard
// capability. It is checked before any other work.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotFound is returned when a record addressed by id does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Validation is shorthand for &ValidationError{Msg: fmt.Sprintf(...)}.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// StorageError carries a record store failure. Error returns the store
// message unchanged.
type StorageError struct{ Err error }

func (e *StorageError) Error() string { return e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError; nil stays nil and ErrNotFound passes
// through untouched.
func Storage(err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Err: err}
}

// CombinedStorageError reports several failed reads of one fan-out. Its
// message joins every underlying message with "; ".
type CombinedStorageError struct{ err error }

// Combine folds the non-nil errors into a single error. It returns nil when
// nothing failed, a StorageError for one failure and a CombinedStorageError
// otherwise.
func Combine(errs ...error) error {
	var combined error
	for _, err := range errs {
		if err != nil {
			combined = multierr.Append(combined, Storage(err))
		}
	}
	switch n := len(multierr.Errors(combined)); {
	case n == 0:
		return nil
	case n == 1:
		return combined
	default:
		return &CombinedStorageError{err: combined}
	}
}

func (e *CombinedStorageError) Error() string { return e.err.Error() }

// Unwrap exposes each underlying failure to errors.Is and errors.As.
func (e *CombinedStorageError) Unwrap() []error { return multierr.Errors(e.err) }

// IllegalTransitionError is returned under the strict lifecycle policy when
// a status change is not in the transition table.
type IllegalTransitionError struct {
	From string
	To   string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("transition %s → %s is not allowed", e.From, e.To)
}
