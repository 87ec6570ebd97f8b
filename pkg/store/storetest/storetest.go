// Package storetest is a conformance suite for timer.Store implementations.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrono-timers/chrono-go/pkg/timer"
)

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) timer.Store

var base = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

func newTimer(id string, created time.Time) *timer.Timer {
	return &timer.Timer{
		ID:        id,
		Status:    timer.StatusStopped,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// Run exercises the timer.Store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("InsertAndGet", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Insert(ctx, newTimer("a", base)))

		got, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "a", got.ID)
		assert.Equal(t, timer.StatusStopped, got.Status)
		assert.Nil(t, got.StartTime)
		assert.Equal(t, int64(0), got.ElapsedSeconds)
		assert.Equal(t, uint64(1), got.Version)
		assert.True(t, got.CreatedAt.Equal(base))
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, timer.ErrNotFound)
	})

	t.Run("InsertDuplicate", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Insert(ctx, newTimer("a", base)))

		err := s.Insert(ctx, newTimer("a", base))
		assert.ErrorIs(t, err, timer.ErrStorage)
	})

	t.Run("UpdateCommits", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Insert(ctx, newTimer("a", base)))

		start := base.Add(time.Minute)
		updated, err := s.Update(ctx, "a", func(tm *timer.Timer) error {
			tm.Status = timer.StatusRunning
			tm.StartTime = &start
			tm.UpdatedAt = start
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, timer.StatusRunning, updated.Status)
		assert.Equal(t, uint64(2), updated.Version)

		got, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, timer.StatusRunning, got.Status)
		require.NotNil(t, got.StartTime)
		assert.True(t, got.StartTime.Equal(start))
		assert.Equal(t, uint64(2), got.Version)
	})

	t.Run("UpdateNoChange", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Insert(ctx, newTimer("a", base)))

		got, err := s.Update(ctx, "a", func(tm *timer.Timer) error {
			tm.ElapsedSeconds = 99
			return timer.ErrNoChange
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.ElapsedSeconds)
		assert.Equal(t, uint64(1), got.Version)

		stored, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, int64(0), stored.ElapsedSeconds)
	})

	t.Run("UpdateAbort", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Insert(ctx, newTimer("a", base)))

		boom := errors.New("boom")
		_, err := s.Update(ctx, "a", func(tm *timer.Timer) error {
			tm.ElapsedSeconds = 99
			return boom
		})
		assert.ErrorIs(t, err, boom)

		stored, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, int64(0), stored.ElapsedSeconds)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		s := newStore(t)
		called := false
		_, err := s.Update(context.Background(), "missing", func(*timer.Timer) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, timer.ErrNotFound)
		assert.False(t, called, "fn must not run for a missing timer")
	})

	t.Run("UpdateIsAtomic", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Insert(ctx, newTimer("a", base)))

		const workers = 10
		const perWorker = 10

		var wg sync.WaitGroup
		errs := make(chan error, workers*perWorker)
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					_, err := s.Update(ctx, "a", func(tm *timer.Timer) error {
						tm.ElapsedSeconds++
						return nil
					})
					if err != nil {
						errs <- err
					}
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Errorf("Update failed: %v", err)
		}

		got, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, int64(workers*perWorker), got.ElapsedSeconds, "lost or doubled updates")
	})

	t.Run("ReturnedRecordsAreCopies", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Insert(ctx, newTimer("a", base)))

		got, err := s.Get(ctx, "a")
		require.NoError(t, err)
		got.ElapsedSeconds = 1000

		again, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, int64(0), again.ElapsedSeconds)
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Insert(ctx, newTimer("a", base)))

		require.NoError(t, s.Delete(ctx, "a"))

		_, err := s.Get(ctx, "a")
		assert.ErrorIs(t, err, timer.ErrNotFound)

		assert.ErrorIs(t, s.Delete(ctx, "a"), timer.ErrNotFound)
	})

	t.Run("ListAndCount", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			require.NoError(t, s.Insert(ctx, newTimer(fmt.Sprintf("t%d", i), base.Add(time.Duration(i)*time.Minute))))
		}
		start := base.Add(time.Hour)
		_, err := s.Update(ctx, "t1", func(tm *timer.Timer) error {
			tm.Status = timer.StatusRunning
			tm.StartTime = &start
			return nil
		})
		require.NoError(t, err)

		all, err := s.List(ctx, timer.ListOptions{})
		require.NoError(t, err)
		require.Len(t, all, 5)
		assert.Equal(t, "t4", all[0].ID, "newest first")
		assert.Equal(t, "t0", all[4].ID)

		page, err := s.List(ctx, timer.ListOptions{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "t3", page[0].ID)
		assert.Equal(t, "t2", page[1].ID)

		running := timer.StatusRunning
		onlyRunning, err := s.List(ctx, timer.ListOptions{Status: &running})
		require.NoError(t, err)
		require.Len(t, onlyRunning, 1)
		assert.Equal(t, "t1", onlyRunning[0].ID)

		counts, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, counts[timer.StatusStopped])
		assert.Equal(t, 1, counts[timer.StatusRunning])
	})
}
