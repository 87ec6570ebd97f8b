package timer

import (
	"errors"
	"fmt"
)

// Timer errors.
var (
	// ErrNotFound is returned when no timer exists for an ID.
	ErrNotFound = errors.New("timer not found")

	// ErrStorage is matched by every *StorageError.
	ErrStorage = errors.New("timer storage failure")

	// ErrInvalidState is matched by every *InvalidStateError.
	ErrInvalidState = errors.New("invalid timer state")

	// ErrNoChange is returned by an UpdateFunc to leave the record untouched.
	// Stores treat it as success and commit nothing.
	ErrNoChange = errors.New("no change")
)

// StorageError reports a failed store read or write.
type StorageError struct {
	// Op is the store operation that failed (get, insert, update, ...).
	Op string

	// ID is the timer ID involved, if any.
	ID string

	// Err is the underlying driver error.
	Err error
}

func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("timer storage %s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("timer storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorage) true for any StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// InvalidStateError reports a stored record that violates the timer
// invariants. It indicates data corruption.
type InvalidStateError struct {
	ID     string
	Status Status
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid timer state for %s (status %s): %s", e.ID, e.Status, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidState) true for any InvalidStateError.
func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// NotFoundError wraps ErrNotFound with the missing ID.
func NotFoundError(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
