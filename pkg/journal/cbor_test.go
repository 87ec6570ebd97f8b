package journal

import (
	"testing"
	"time"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	event := Event{
		Timestamp:      ts,
		TimerID:        "5f0c3c57-6f8e-4c5b-9a53-3f1f0d2b8a11",
		Kind:           KindStopped,
		OldStatus:      "running",
		NewStatus:      "stopped",
		ElapsedSeconds: 42,
		DeltaSeconds:   7,
		Source:         "chrono-server",
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(ts) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, ts)
	}
	if decoded.TimerID != event.TimerID {
		t.Errorf("TimerID: got %q, want %q", decoded.TimerID, event.TimerID)
	}
	if decoded.Kind != KindStopped {
		t.Errorf("Kind: got %v, want %v", decoded.Kind, KindStopped)
	}
	if decoded.OldStatus != "running" || decoded.NewStatus != "stopped" {
		t.Errorf("status: got %q -> %q, want running -> stopped", decoded.OldStatus, decoded.NewStatus)
	}
	if decoded.ElapsedSeconds != 42 {
		t.Errorf("ElapsedSeconds: got %d, want 42", decoded.ElapsedSeconds)
	}
	if decoded.DeltaSeconds != 7 {
		t.Errorf("DeltaSeconds: got %d, want 7", decoded.DeltaSeconds)
	}
	if decoded.Error != nil {
		t.Errorf("Error: got %+v, want nil", decoded.Error)
	}
}

func TestErrorEventCBORRoundTrip(t *testing.T) {
	event := Event{
		Timestamp: time.Now(),
		TimerID:   "t-1",
		Kind:      KindError,
		Error: &ErrorData{
			Op:      "stop",
			Message: "database is locked",
			Class:   "storage",
		},
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Error == nil {
		t.Fatal("Error is nil")
	}
	if decoded.Error.Op != "stop" {
		t.Errorf("Error.Op: got %q, want %q", decoded.Error.Op, "stop")
	}
	if decoded.Error.Class != "storage" {
		t.Errorf("Error.Class: got %q, want %q", decoded.Error.Class, "storage")
	}
}

func TestEventCBORUsesIntegerKeys(t *testing.T) {
	event := Event{
		Timestamp: time.Now(),
		TimerID:   "t-1",
		Kind:      KindCreated,
		NewStatus: "stopped",
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	var rawMap map[uint64]any
	if err := decMode.Unmarshal(data, &rawMap); err != nil {
		t.Fatalf("failed to decode as map: %v", err)
	}

	for _, key := range []uint64{1, 2, 3, 5, 6} {
		if _, ok := rawMap[key]; !ok {
			t.Errorf("expected integer key %d not found in encoded data", key)
		}
	}
	if _, ok := rawMap[4]; ok {
		t.Error("empty OldStatus should be omitted")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindCreated, "CREATED"},
		{KindStarted, "STARTED"},
		{KindStopped, "STOPPED"},
		{KindDeleted, "DELETED"},
		{KindError, "ERROR"},
		{Kind(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"created", "START", "Stopped", "delete", "error"} {
		if _, err := ParseKind(s); err != nil {
			t.Errorf("ParseKind(%q) error = %v", s, err)
		}
	}

	if _, err := ParseKind("paused"); err == nil {
		t.Error("ParseKind(paused) should fail")
	}
}
