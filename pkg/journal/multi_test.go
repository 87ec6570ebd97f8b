package journal

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

// recordingJournal records events for testing.
type recordingJournal struct {
	events []Event
}

func (r *recordingJournal) Record(event Event) {
	r.events = append(r.events, event)
}

func TestMultiJournalCallsAll(t *testing.T) {
	j1 := &recordingJournal{}
	j2 := &recordingJournal{}

	multi := NewMultiJournal(j1, nil, j2)
	multi.Record(Event{Timestamp: time.Now(), TimerID: "t-1", Kind: KindCreated})

	for i, j := range []*recordingJournal{j1, j2} {
		if len(j.events) != 1 {
			t.Errorf("journal %d: got %d events, want 1", i, len(j.events))
			continue
		}
		if j.events[0].TimerID != "t-1" {
			t.Errorf("journal %d: TimerID = %q, want %q", i, j.events[0].TimerID, "t-1")
		}
	}
}

func TestMultiJournalEmpty(t *testing.T) {
	// Should not panic with no journals.
	NewMultiJournal().Record(Event{TimerID: "t-1"})
}

func TestSlogAdapterRecordsStopEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	NewSlogAdapter(logger).Record(Event{
		Timestamp:      time.Now(),
		TimerID:        "t-1",
		Kind:           KindStopped,
		OldStatus:      "running",
		NewStatus:      "stopped",
		ElapsedSeconds: 12,
		DeltaSeconds:   5,
	})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if entry["msg"] != "journal" {
		t.Errorf("msg: got %v, want journal", entry["msg"])
	}
	if entry["timer_id"] != "t-1" {
		t.Errorf("timer_id: got %v, want t-1", entry["timer_id"])
	}
	if entry["kind"] != "STOPPED" {
		t.Errorf("kind: got %v, want STOPPED", entry["kind"])
	}
	if entry["delta_seconds"] != float64(5) {
		t.Errorf("delta_seconds: got %v, want 5", entry["delta_seconds"])
	}
	if entry["old_status"] != "running" {
		t.Errorf("old_status: got %v, want running", entry["old_status"])
	}
}

func TestSlogAdapterRecordsErrorEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	NewSlogAdapter(logger).Record(Event{
		TimerID: "t-1",
		Kind:    KindError,
		Error:   &ErrorData{Op: "get", Message: "boom", Class: "storage"},
	})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["op"] != "get" || entry["error"] != "boom" || entry["error_class"] != "storage" {
		t.Errorf("unexpected error attrs: %v", entry)
	}
}

func TestSlogAdapterSuppressedAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	NewSlogAdapter(logger).Record(Event{TimerID: "t-1"})

	if buf.Len() != 0 {
		t.Errorf("expected no output at info level, got %q", buf.String())
	}
}
