package timer

import "context"

// UpdateFunc mutates a timer inside an atomic read-modify-write.
// Returning ErrNoChange leaves the record untouched. Any other error aborts
// the update and is returned to the caller unchanged.
//
// An UpdateFunc may be called more than once if the store retries.
type UpdateFunc func(t *Timer) error

// ListOptions narrows a List call.
type ListOptions struct {
	// Status filters by status when non-nil.
	Status *Status

	// Limit caps the number of results. Zero means the store default.
	Limit int

	// Offset skips this many results.
	Offset int
}

// Store persists timers keyed by ID.
//
// Implementations must make Update atomic per ID: the record read, the
// call to fn and the write happen as one unit, so two concurrent updates of
// the same timer never interleave.
//
// Missing records are reported with an error matching ErrNotFound. Driver
// failures are reported as *StorageError.
type Store interface {
	// Get returns the timer with the given ID.
	Get(ctx context.Context, id string) (*Timer, error)

	// Insert stores a new timer.
	Insert(ctx context.Context, t *Timer) error

	// Update atomically applies fn to the stored timer and persists the
	// result. It returns the record as committed, or the unchanged record
	// if fn returned ErrNoChange.
	Update(ctx context.Context, id string, fn UpdateFunc) (*Timer, error)

	// Delete removes the timer with the given ID.
	Delete(ctx context.Context, id string) error

	// List returns timers, newest first.
	List(ctx context.Context, opts ListOptions) ([]*Timer, error)

	// Count returns the number of timers per status.
	Count(ctx context.Context) (map[Status]int, error)
}
