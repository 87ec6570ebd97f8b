package timer

import (
	"fmt"
	"time"
)

// Status is the run state of a timer.
type Status uint8

const (
	// StatusStopped indicates the timer is not accumulating time.
	StatusStopped Status = iota

	// StatusRunning indicates the timer is accumulating time since StartTime.
	StatusRunning
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusRunning:
		return "running"
	default:
		return "unknown"
	}
}

// ParseStatus parses a wire status name.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "stopped":
		return StatusStopped, nil
	case "running":
		return StatusRunning, nil
	default:
		return 0, fmt.Errorf("unknown timer status %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if s != StatusStopped && s != StatusRunning {
		return nil, fmt.Errorf("unknown timer status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Timer is a stored stopwatch record.
type Timer struct {
	// ID is the opaque, immutable identifier assigned at creation.
	ID string

	// Status is the current run state.
	Status Status

	// StartTime is when the current running interval began.
	// Non-nil if and only if Status is StatusRunning.
	StartTime *time.Time

	// ElapsedSeconds is the total of all completed running intervals.
	// It never includes the interval that is currently open.
	ElapsedSeconds int64

	// CreatedAt is when the timer was created.
	CreatedAt time.Time

	// UpdatedAt is when the timer last changed state.
	UpdatedAt time.Time

	// Version is incremented by the store on every committed update.
	Version uint64
}

// IsRunning reports whether the timer is running.
func (t *Timer) IsRunning() bool {
	return t.Status == StatusRunning
}

// Clone returns a deep copy of the timer.
func (t *Timer) Clone() *Timer {
	c := *t
	if t.StartTime != nil {
		st := *t.StartTime
		c.StartTime = &st
	}
	return &c
}

// Validate checks the record invariants.
func (t *Timer) Validate() error {
	switch t.Status {
	case StatusRunning:
		if t.StartTime == nil {
			return &InvalidStateError{ID: t.ID, Status: t.Status, Reason: "running without start time"}
		}
	case StatusStopped:
		if t.StartTime != nil {
			return &InvalidStateError{ID: t.ID, Status: t.Status, Reason: "stopped with start time"}
		}
	default:
		return &InvalidStateError{ID: t.ID, Status: t.Status, Reason: "unknown status"}
	}
	if t.ElapsedSeconds < 0 {
		return &InvalidStateError{ID: t.ID, Status: t.Status, Reason: "negative elapsed seconds"}
	}
	return nil
}

// ElapsedAt returns the elapsed seconds as observed at now. For a stopped
// timer this is the stored value. For a running timer the whole seconds
// since StartTime are added.
func (t *Timer) ElapsedAt(now time.Time) int64 {
	if t.Status != StatusRunning || t.StartTime == nil {
		return t.ElapsedSeconds
	}
	return t.ElapsedSeconds + wholeSeconds(*t.StartTime, now)
}

// wholeSeconds returns floor((to - from) / 1s), clamped at zero.
func wholeSeconds(from, to time.Time) int64 {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}

// Snapshot is the externally visible form of a timer.
type Snapshot struct {
	ID             string     `json:"id"`
	Status         Status     `json:"status"`
	ElapsedSeconds int64      `json:"elapsed_seconds"`
	StartTime      *time.Time `json:"start_time"`
}

// Snapshot returns the externally visible form of t.
func (t *Timer) Snapshot() Snapshot {
	s := Snapshot{
		ID:             t.ID,
		Status:         t.Status,
		ElapsedSeconds: t.ElapsedSeconds,
	}
	if t.StartTime != nil {
		st := t.StartTime.UTC()
		s.StartTime = &st
	}
	return s
}
