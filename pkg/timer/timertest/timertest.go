// Package timertest provides deterministic collaborators for testing code
// built on package timer.
package timertest

import (
	"fmt"
	"sync"
	"time"
)

// Epoch is the default start instant of a Clock.
var Epoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

// Clock is a manually driven clock. The zero value starts at Epoch.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a Clock reading start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now.IsZero() {
		c.now = Epoch
	}
	return c.now
}

// Advance moves the clock forward (or backward, for negative d).
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now.IsZero() {
		c.now = Epoch
	}
	c.now = c.now.Add(d)
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// SequentialIDs yields predictable IDs: "<prefix>-1", "<prefix>-2", ...
type SequentialIDs struct {
	Prefix string

	mu sync.Mutex
	n  int
}

// NewID returns the next ID in the sequence.
func (s *SequentialIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	prefix := s.Prefix
	if prefix == "" {
		prefix = "timer"
	}
	return fmt.Sprintf("%s-%d", prefix, s.n)
}
