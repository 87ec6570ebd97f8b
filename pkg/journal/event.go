package journal

import (
	"fmt"
	"strings"
	"time"
)

// Event is a single journal entry.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp is when the transition was committed.
	Timestamp time.Time `cbor:"1,keyasint"`

	// TimerID identifies the timer.
	TimerID string `cbor:"2,keyasint"`

	// Kind classifies the event.
	Kind Kind `cbor:"3,keyasint"`

	// OldStatus is the status before the transition (empty on create).
	OldStatus string `cbor:"4,keyasint,omitempty"`

	// NewStatus is the status after the transition (empty on delete).
	NewStatus string `cbor:"5,keyasint,omitempty"`

	// ElapsedSeconds is the stored elapsed total after the transition.
	ElapsedSeconds int64 `cbor:"6,keyasint"`

	// DeltaSeconds is the interval folded in by a stop.
	DeltaSeconds int64 `cbor:"7,keyasint,omitempty"`

	// Source names the process that recorded the event.
	Source string `cbor:"8,keyasint,omitempty"`

	// Error is set for KindError events.
	Error *ErrorData `cbor:"9,keyasint,omitempty"`
}

// Kind classifies journal events.
type Kind uint8

const (
	// KindCreated records a new timer.
	KindCreated Kind = 0
	// KindStarted records a Stopped -> Running transition.
	KindStarted Kind = 1
	// KindStopped records a Running -> Stopped transition.
	KindStopped Kind = 2
	// KindDeleted records a timer removal.
	KindDeleted Kind = 3
	// KindError records a failed operation.
	KindError Kind = 4
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindCreated:
		return "CREATED"
	case KindStarted:
		return "STARTED"
	case KindStopped:
		return "STOPPED"
	case KindDeleted:
		return "DELETED"
	case KindError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseKind parses a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "created", "create":
		return KindCreated, nil
	case "started", "start":
		return KindStarted, nil
	case "stopped", "stop":
		return KindStopped, nil
	case "deleted", "delete":
		return KindDeleted, nil
	case "error":
		return KindError, nil
	default:
		return 0, fmt.Errorf("invalid kind %q: must be created, started, stopped, deleted, or error", s)
	}
}

// ErrorData describes a failed operation.
type ErrorData struct {
	// Op is the engine operation (create, get, start, stop, delete).
	Op string `cbor:"1,keyasint"`

	// Message is the error text.
	Message string `cbor:"2,keyasint"`

	// Class is the error class (not_found, storage, invalid_state).
	Class string `cbor:"3,keyasint,omitempty"`
}
