package timer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/chrono-timers/chrono-go/pkg/journal"
)

// EngineConfig holds the collaborators of an Engine.
type EngineConfig struct {
	// Store persists timers. Required.
	Store Store

	// Clock supplies the current instant. Default: SystemClock.
	Clock Clock

	// IDs generates timer identifiers. Default: UUIDGenerator.
	IDs IDGenerator

	// Journal receives committed transitions. Default: journal.NoopJournal.
	Journal journal.Journal

	// Logger is used for operational logging. Default: slog.Default().
	Logger *slog.Logger

	// Source is recorded in journal events to identify this process.
	Source string
}

// Engine enforces the timer state machine and computes elapsed time.
// It is safe for concurrent use; per-timer atomicity is provided by the Store.
type Engine struct {
	store   Store
	clock   Clock
	ids     IDGenerator
	journal journal.Journal
	logger  *slog.Logger
	source  string
}

// NewEngine creates an Engine. It panics if cfg.Store is nil.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Store == nil {
		panic("timer: EngineConfig.Store is required")
	}

	e := &Engine{
		store:   cfg.Store,
		clock:   cfg.Clock,
		ids:     cfg.IDs,
		journal: cfg.Journal,
		logger:  cfg.Logger,
		source:  cfg.Source,
	}
	if e.clock == nil {
		e.clock = SystemClock
	}
	if e.ids == nil {
		e.ids = UUIDGenerator{}
	}
	if e.journal == nil {
		e.journal = journal.NoopJournal{}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// now returns the clock reading at the precision the stores keep.
func (e *Engine) now() time.Time {
	return e.clock.Now().UTC().Truncate(time.Millisecond)
}

// Create makes a new stopped timer with zero elapsed time.
func (e *Engine) Create(ctx context.Context) (*Timer, error) {
	now := e.now()
	t := &Timer{
		ID:        e.ids.NewID(),
		Status:    StatusStopped,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := e.store.Insert(ctx, t); err != nil {
		return nil, e.fail("create", t.ID, err)
	}

	e.logger.Info("Created timer", "timer_id", t.ID)
	e.record(journal.Event{
		Timestamp: now,
		TimerID:   t.ID,
		Kind:      journal.KindCreated,
		NewStatus: t.Status.String(),
	})
	return t.Clone(), nil
}

// Get returns the timer with the given ID. For a running timer the returned
// view carries the live elapsed seconds. Get never writes.
func (e *Engine) Get(ctx context.Context, id string) (*Timer, error) {
	t, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, e.fail("get", id, err)
	}
	if err := t.Validate(); err != nil {
		return nil, e.fail("get", id, err)
	}
	return e.view(t), nil
}

// Start transitions a stopped timer to running. Starting a running timer is
// a no-op that returns the live view without touching StartTime.
func (e *Engine) Start(ctx context.Context, id string) (*Timer, error) {
	var alreadyRunning bool

	t, err := e.store.Update(ctx, id, func(t *Timer) error {
		alreadyRunning = false
		if err := t.Validate(); err != nil {
			return err
		}
		if t.Status == StatusRunning {
			alreadyRunning = true
			return ErrNoChange
		}

		now := e.now()
		t.Status = StatusRunning
		t.StartTime = &now
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, e.fail("start", id, err)
	}

	if alreadyRunning {
		e.logger.Debug("Timer already running", "timer_id", id)
		return e.view(t), nil
	}

	e.logger.Info("Started timer", "timer_id", id)
	e.record(journal.Event{
		Timestamp:      *t.StartTime,
		TimerID:        id,
		Kind:           journal.KindStarted,
		OldStatus:      StatusStopped.String(),
		NewStatus:      StatusRunning.String(),
		ElapsedSeconds: t.ElapsedSeconds,
	})
	return t, nil
}

// Stop transitions a running timer to stopped, folding the whole seconds of
// the running interval into ElapsedSeconds. Stopping a stopped timer is a
// no-op that returns the stored record.
func (e *Engine) Stop(ctx context.Context, id string) (*Timer, error) {
	var (
		alreadyStopped bool
		delta          int64
		stoppedAt      time.Time
	)

	t, err := e.store.Update(ctx, id, func(t *Timer) error {
		alreadyStopped = false
		if err := t.Validate(); err != nil {
			return err
		}
		if t.Status == StatusStopped {
			alreadyStopped = true
			return ErrNoChange
		}

		stoppedAt = e.now()
		delta = wholeSeconds(*t.StartTime, stoppedAt)
		t.ElapsedSeconds += delta
		t.Status = StatusStopped
		t.StartTime = nil
		t.UpdatedAt = stoppedAt
		return nil
	})
	if err != nil {
		return nil, e.fail("stop", id, err)
	}

	if alreadyStopped {
		e.logger.Debug("Timer already stopped", "timer_id", id)
		return t, nil
	}

	e.logger.Info("Stopped timer", "timer_id", id, "elapsed_seconds", t.ElapsedSeconds, "delta_seconds", delta)
	e.record(journal.Event{
		Timestamp:      stoppedAt,
		TimerID:        id,
		Kind:           journal.KindStopped,
		OldStatus:      StatusRunning.String(),
		NewStatus:      StatusStopped.String(),
		ElapsedSeconds: t.ElapsedSeconds,
		DeltaSeconds:   delta,
	})
	return t, nil
}

// Delete removes the timer with the given ID.
func (e *Engine) Delete(ctx context.Context, id string) error {
	if err := e.store.Delete(ctx, id); err != nil {
		return e.fail("delete", id, err)
	}

	e.logger.Info("Deleted timer", "timer_id", id)
	e.record(journal.Event{
		Timestamp: e.now(),
		TimerID:   id,
		Kind:      journal.KindDeleted,
	})
	return nil
}

// List returns timers, newest first, with live elapsed seconds for running
// timers. A corrupt record fails the whole call.
func (e *Engine) List(ctx context.Context, opts ListOptions) ([]*Timer, error) {
	timers, err := e.store.List(ctx, opts)
	if err != nil {
		return nil, e.fail("list", "", err)
	}

	out := make([]*Timer, 0, len(timers))
	for _, t := range timers {
		if err := t.Validate(); err != nil {
			return nil, e.fail("list", t.ID, err)
		}
		out = append(out, e.view(t))
	}
	return out, nil
}

// Count returns the number of timers per status.
func (e *Engine) Count(ctx context.Context) (map[Status]int, error) {
	counts, err := e.store.Count(ctx)
	if err != nil {
		return nil, e.fail("count", "", err)
	}
	return counts, nil
}

// view returns a copy of t with the live elapsed seconds filled in.
func (e *Engine) view(t *Timer) *Timer {
	v := t.Clone()
	if v.Status == StatusRunning {
		v.ElapsedSeconds = v.ElapsedAt(e.clock.Now())
	}
	return v
}

// fail classifies err and returns it. Anything that is not already a typed
// timer error is wrapped as a StorageError. Storage and state failures are
// journaled; unknown IDs are not.
func (e *Engine) fail(op, id string, err error) error {
	var class string
	switch {
	case errors.Is(err, ErrNotFound):
		return err
	case errors.Is(err, ErrInvalidState):
		class = "invalid_state"
		e.logger.Error("Corrupt timer record", "op", op, "timer_id", id, "error", err)
	default:
		class = "storage"
		if !errors.Is(err, ErrStorage) {
			err = &StorageError{Op: op, ID: id, Err: err}
		}
		e.logger.Warn("Timer storage failure", "op", op, "timer_id", id, "error", err)
	}

	e.record(journal.Event{
		Timestamp: e.clock.Now().UTC(),
		TimerID:   id,
		Kind:      journal.KindError,
		Error: &journal.ErrorData{
			Op:      op,
			Message: err.Error(),
			Class:   class,
		},
	})
	return err
}

func (e *Engine) record(event journal.Event) {
	event.Source = e.source
	e.journal.Record(event)
}
