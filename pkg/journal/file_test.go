package journal

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileJournalCreatesFileAndDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "timers.cjl")

	j, err := NewFileJournal(path)
	if err != nil {
		t.Fatalf("NewFileJournal failed: %v", err)
	}
	defer j.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("journal file was not created")
	}
}

func TestFileJournalWritesCBOR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timers.cjl")

	j, err := NewFileJournal(path)
	if err != nil {
		t.Fatalf("NewFileJournal failed: %v", err)
	}

	j.Record(Event{Timestamp: time.Now(), TimerID: "t-1", Kind: KindStarted, OldStatus: "stopped", NewStatus: "running"})
	j.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read journal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("journal file is empty")
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if decoded.TimerID != "t-1" || decoded.Kind != KindStarted {
		t.Errorf("decoded = %+v, want t-1 STARTED", decoded)
	}
}

func TestFileJournalAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timers.cjl")

	for i := 0; i < 2; i++ {
		j, err := NewFileJournal(path)
		if err != nil {
			t.Fatalf("NewFileJournal #%d failed: %v", i, err)
		}
		j.Record(Event{Timestamp: time.Now(), TimerID: "t-1", Kind: KindCreated})
		j.Close()
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	n := 0
	for {
		if _, err := r.Next(); err != nil {
			break
		}
		n++
	}
	if n != 2 {
		t.Errorf("got %d events after reopening, want 2", n)
	}
}

func TestFileJournalRecordAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timers.cjl")

	j, err := NewFileJournal(path)
	if err != nil {
		t.Fatalf("NewFileJournal failed: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Must not panic.
	j.Record(Event{TimerID: "t-1"})

	if err := j.Close(); err != nil {
		t.Errorf("second Close returned %v, want nil", err)
	}
}

func TestFileJournalConcurrentRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timers.cjl")

	j, err := NewFileJournal(path)
	if err != nil {
		t.Fatalf("NewFileJournal failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.Record(Event{Timestamp: time.Now(), TimerID: "t-1", Kind: KindStarted})
		}()
	}
	wg.Wait()
	j.Close()

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	n := 0
	for {
		if _, err := r.Next(); err != nil {
			break
		}
		n++
	}
	if n != 20 {
		t.Errorf("got %d events, want 20", n)
	}
}
