package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrono-timers/chrono-go/pkg/store/storetest"
	"github.com/chrono-timers/chrono-go/pkg/timer"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(MemoryPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreConformanceMemory(t *testing.T) {
	storetest.Run(t, func(t *testing.T) timer.Store {
		return newTestStore(t)
	})
}

func TestStoreConformanceFile(t *testing.T) {
	storetest.Run(t, func(t *testing.T) timer.Store {
		s, err := New(filepath.Join(t.TempDir(), "data", "timers.db"))
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timers.db")
	ctx := context.Background()
	created := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Insert(ctx, &timer.Timer{
		ID:             "a",
		Status:         timer.StatusStopped,
		ElapsedSeconds: 12,
		CreatedAt:      created,
		UpdatedAt:      created,
	}))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.ElapsedSeconds)
}

func TestStoreStartTimeMillisecondPrecision(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.Insert(ctx, &timer.Timer{ID: "a", CreatedAt: created, UpdatedAt: created}))

	start := time.Date(2026, 2, 1, 8, 0, 1, 123_000_000, time.UTC)
	_, err := s.Update(ctx, "a", func(tm *timer.Timer) error {
		tm.Status = timer.StatusRunning
		tm.StartTime = &start
		return nil
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got.StartTime)
	assert.True(t, got.StartTime.Equal(start), "got %v, want %v", got.StartTime, start)
}

func TestStoreLoadsCorruptRowWithoutRepair(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.DB().Exec(`
		INSERT INTO timers (id, status, start_time, elapsed_seconds, created_at, updated_at)
		VALUES ('bad', 'running', NULL, 0, 0, 0)
	`)
	require.NoError(t, err)

	got, err := s.Get(ctx, "bad")
	require.NoError(t, err)
	assert.Equal(t, timer.StatusRunning, got.Status)
	assert.Nil(t, got.StartTime)
	assert.ErrorIs(t, got.Validate(), timer.ErrInvalidState)
}

func TestStoreSchemaRejectsUnknownStatus(t *testing.T) {
	s := newTestStore(t)

	_, err := s.DB().Exec(`
		INSERT INTO timers (id, status, created_at, updated_at) VALUES ('x', 'paused', 0, 0)
	`)
	assert.Error(t, err)
}

func TestStoreSchemaRejectsNegativeElapsed(t *testing.T) {
	s := newTestStore(t)

	_, err := s.DB().Exec(`
		INSERT INTO timers (id, status, elapsed_seconds, created_at, updated_at) VALUES ('x', 'stopped', -1, 0, 0)
	`)
	assert.Error(t, err)
}

func TestStoreClosedReportsStorageError(t *testing.T) {
	s, err := New(MemoryPath)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Get(context.Background(), "a")
	assert.ErrorIs(t, err, timer.ErrStorage)
}

func TestNewRequiresPath(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestBuildDSN(t *testing.T) {
	dsn, memory, err := buildDSN(MemoryPath)
	require.NoError(t, err)
	assert.True(t, memory)
	assert.Contains(t, dsn, "_txlock=immediate")

	dir := t.TempDir()
	dsn, memory, err = buildDSN(filepath.Join(dir, "timers.db"))
	require.NoError(t, err)
	assert.False(t, memory)
	assert.Contains(t, dsn, "_journal_mode=WAL")
	assert.Contains(t, dsn, "_busy_timeout=5000")
}
