// Package sqlite provides a durable timer.Store backed by SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/chrono-timers/chrono-go/pkg/timer"
)

// MemoryPath selects a private in-memory database.
const MemoryPath = ":memory:"

// maxUpdateAttempts bounds compare-and-set retries in Update.
const maxUpdateAttempts = 3

// DefaultListLimit is used when ListOptions.Limit is zero.
const DefaultListLimit = 100

// ErrConflict is reported when a timer changed between read and write.
var ErrConflict = errors.New("concurrent update conflict")

// Store provides SQLite persistence for timers.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database at path and migrates the
// schema. Use MemoryPath for an in-memory database.
func New(path string) (*Store, error) {
	dsn, memory, err := buildDSN(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if memory {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// buildDSN returns the driver DSN for path. Writes take the database lock
// when the transaction begins (_txlock=immediate) so read-modify-write
// cycles never interleave.
func buildDSN(path string) (string, bool, error) {
	if path == "" {
		return "", false, errors.New("database path is required")
	}

	if path == MemoryPath {
		return "file::memory:?_txlock=immediate&_foreign_keys=on", true, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", false, fmt.Errorf("failed to create database directory: %w", err)
	}

	params := "_txlock=immediate&_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL"
	if strings.Contains(path, "?") {
		return "file:" + path + "&" + params, false, nil
	}
	return "file:" + path + "?" + params, false, nil
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS timers (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'stopped' CHECK(status IN ('stopped', 'running')),
		start_time INTEGER,
		elapsed_seconds INTEGER NOT NULL DEFAULT 0 CHECK(elapsed_seconds >= 0),
		version INTEGER NOT NULL DEFAULT 1,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_timers_status ON timers(status);
	CREATE INDEX IF NOT EXISTS idx_timers_created_at ON timers(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for maintenance and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const selectColumns = `id, status, start_time, elapsed_seconds, version, created_at, updated_at`

// scanTimer reads one timer row. Status and start time are loaded as
// stored; invariant checks are left to the caller.
func scanTimer(row rowScanner) (*timer.Timer, error) {
	var (
		t                    timer.Timer
		status               string
		startTime            sql.NullInt64
		createdAt, updatedAt int64
		version              int64
	)

	if err := row.Scan(&t.ID, &status, &startTime, &t.ElapsedSeconds, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	parsed, err := timer.ParseStatus(status)
	if err != nil {
		return nil, &timer.InvalidStateError{ID: t.ID, Status: timer.Status(255), Reason: err.Error()}
	}
	t.Status = parsed

	if startTime.Valid {
		st := time.UnixMilli(startTime.Int64).UTC()
		t.StartTime = &st
	}
	t.Version = uint64(version)
	t.CreatedAt = time.UnixMilli(createdAt).UTC()
	t.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	return &t, nil
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

// Get retrieves a timer by ID.
func (s *Store) Get(ctx context.Context, id string) (*timer.Timer, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM timers WHERE id = ?`, id)

	t, err := scanTimer(row)
	if err == sql.ErrNoRows {
		return nil, timer.NotFoundError(id)
	}
	if err != nil {
		return nil, storageError("get", id, err)
	}
	return t, nil
}

// Insert creates a new timer row.
func (s *Store) Insert(ctx context.Context, t *timer.Timer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO timers (id, status, start_time, elapsed_seconds, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)
	`, t.ID, t.Status.String(), nullMillis(t.StartTime), t.ElapsedSeconds,
		t.CreatedAt.UnixMilli(), t.UpdatedAt.UnixMilli())
	if err != nil {
		return &timer.StorageError{Op: "insert", ID: t.ID, Err: err}
	}

	t.Version = 1
	return nil
}

// Update applies fn inside a write transaction and commits the result with
// a version compare-and-set.
func (s *Store) Update(ctx context.Context, id string, fn timer.UpdateFunc) (*timer.Timer, error) {
	var lastErr error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		t, err := s.updateOnce(ctx, id, fn)
		if !errors.Is(err, ErrConflict) {
			return t, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *Store) updateOnce(ctx context.Context, id string, fn timer.UpdateFunc) (*timer.Timer, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageError("update", id, err)
	}
	defer tx.Rollback()

	current, err := scanTimer(tx.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM timers WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, timer.NotFoundError(id)
	}
	if err != nil {
		return nil, storageError("update", id, err)
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		if errors.Is(err, timer.ErrNoChange) {
			return current, nil
		}
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE timers
		SET status = ?, start_time = ?, elapsed_seconds = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`, working.Status.String(), nullMillis(working.StartTime), working.ElapsedSeconds,
		working.UpdatedAt.UnixMilli(), id, int64(current.Version))
	if err != nil {
		return nil, storageError("update", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, storageError("update", id, err)
	}
	if n == 0 {
		return nil, &timer.StorageError{Op: "update", ID: id, Err: ErrConflict}
	}

	if err := tx.Commit(); err != nil {
		return nil, storageError("update", id, err)
	}

	working.ID = id
	working.Version = current.Version + 1
	return working, nil
}

// Delete removes a timer.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM timers WHERE id = ?`, id)
	if err != nil {
		return storageError("delete", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return storageError("delete", id, err)
	}
	if n == 0 {
		return timer.NotFoundError(id)
	}
	return nil
}

// List retrieves timers ordered by most recent first.
func (s *Store) List(ctx context.Context, opts timer.ListOptions) ([]*timer.Timer, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT ` + selectColumns + ` FROM timers`
	var args []any
	if opts.Status != nil {
		query += ` WHERE status = ?`
		args = append(args, opts.Status.String())
	}
	query += ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("list", "", err)
	}
	defer rows.Close()

	var timers []*timer.Timer
	for rows.Next() {
		t, err := scanTimer(rows)
		if err != nil {
			return nil, storageError("list", "", err)
		}
		timers = append(timers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list", "", err)
	}

	return timers, nil
}

// Count returns the number of timers per status.
func (s *Store) Count(ctx context.Context) (map[timer.Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM timers GROUP BY status`)
	if err != nil {
		return nil, storageError("count", "", err)
	}
	defer rows.Close()

	counts := map[timer.Status]int{
		timer.StatusStopped: 0,
		timer.StatusRunning: 0,
	}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, storageError("count", "", err)
		}
		parsed, err := timer.ParseStatus(status)
		if err != nil {
			return nil, storageError("count", "", err)
		}
		counts[parsed] = n
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("count", "", err)
	}

	return counts, nil
}

// storageError wraps driver errors. Typed timer errors pass through.
func storageError(op, id string, err error) error {
	if errors.Is(err, timer.ErrInvalidState) || errors.Is(err, timer.ErrStorage) {
		return err
	}
	return &timer.StorageError{Op: op, ID: id, Err: err}
}

// Compile-time interface satisfaction check.
var _ timer.Store = (*Store)(nil)
