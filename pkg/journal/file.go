package journal

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileJournal appends events to a file in CBOR format.
// It is safe for concurrent use from multiple goroutines.
type FileJournal struct {
	file    *os.File
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

// NewFileJournal creates a FileJournal that writes to the specified path.
// If the file exists, new events are appended. Missing parent directories
// are created.
func NewFileJournal(path string) (*FileJournal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileJournal{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// Record appends an event to the file.
func (j *FileJournal) Record(event Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return
	}

	// Journal write failures must not fail timer operations.
	_ = j.encoder.Encode(event)
}

// Close closes the file. It is safe to call Close multiple times.
// After Close, Record calls are silently ignored.
func (j *FileJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}

	j.closed = true
	return j.file.Close()
}

// Compile-time interface satisfaction check.
var _ Journal = (*FileJournal)(nil)
