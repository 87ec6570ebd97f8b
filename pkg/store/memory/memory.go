// Package memory provides an in-process timer.Store.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/chrono-timers/chrono-go/pkg/timer"
)

// Store keeps timers in a map guarded by a mutex.
// Records are copied on the way in and out.
type Store struct {
	mu     sync.Mutex
	timers map[string]*timer.Timer
}

// New creates an empty store.
func New() *Store {
	return &Store{timers: make(map[string]*timer.Timer)}
}

// Get returns a copy of the stored timer.
func (s *Store) Get(ctx context.Context, id string) (*timer.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[id]
	if !ok {
		return nil, timer.NotFoundError(id)
	}
	return t.Clone(), nil
}

// Insert stores a copy of t. Inserting an existing ID fails.
func (s *Store) Insert(ctx context.Context, t *timer.Timer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.timers[t.ID]; exists {
		return &timer.StorageError{Op: "insert", ID: t.ID, Err: errors.New("duplicate id")}
	}

	c := t.Clone()
	c.Version = 1
	t.Version = 1
	s.timers[t.ID] = c
	return nil
}

// Update applies fn under the store lock.
func (s *Store) Update(ctx context.Context, id string, fn timer.UpdateFunc) (*timer.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.timers[id]
	if !ok {
		return nil, timer.NotFoundError(id)
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		if errors.Is(err, timer.ErrNoChange) {
			return current.Clone(), nil
		}
		return nil, err
	}

	working.ID = id
	working.Version = current.Version + 1
	s.timers[id] = working
	return working.Clone(), nil
}

// Delete removes the timer.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.timers[id]; !ok {
		return timer.NotFoundError(id)
	}
	delete(s.timers, id)
	return nil
}

// List returns timers ordered by creation time, newest first.
func (s *Store) List(ctx context.Context, opts timer.ListOptions) ([]*timer.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []*timer.Timer
	for _, t := range s.timers {
		if opts.Status != nil && t.Status != *opts.Status {
			continue
		}
		all = append(all, t.Clone())
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(all) {
			return nil, nil
		}
		all = all[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(all) {
		all = all[:opts.Limit]
	}
	return all, nil
}

// Count returns the number of timers per status.
func (s *Store) Count(ctx context.Context) (map[timer.Status]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := map[timer.Status]int{
		timer.StatusStopped: 0,
		timer.StatusRunning: 0,
	}
	for _, t := range s.timers {
		counts[t.Status]++
	}
	return counts, nil
}

// Put stores t as-is, bypassing validation. Tests use it to plant records.
func (s *Store) Put(t *timer.Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers[t.ID] = t.Clone()
}

// Compile-time interface satisfaction check.
var _ timer.Store = (*Store)(nil)
