package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/chrono-timers/chrono-go/pkg/journal"
)

// Stats holds aggregate statistics about a journal.
type Stats struct {
	TotalEvents  int
	EventsByKind map[journal.Kind]int
	ErrorsByOp   map[string]int
	Timers       map[string]*TimerStats
	TimeRange    struct {
		Start time.Time
		End   time.Time
	}
}

// TimerStats holds statistics for a single timer.
type TimerStats struct {
	FirstSeen      time.Time
	LastSeen       time.Time
	Starts         int
	Stops          int
	ElapsedSeconds int64
	Deleted        bool
}

// RunStats analyzes the journal and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := collectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func collectStats(path string) (*Stats, error) {
	reader, err := journal.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByKind: make(map[journal.Kind]int),
		ErrorsByOp:   make(map[string]int),
		Timers:       make(map[string]*TimerStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByKind[event.Kind]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		if event.Kind == journal.KindError {
			if event.Error != nil {
				stats.ErrorsByOp[event.Error.Op]++
			}
			continue
		}

		ts, ok := stats.Timers[event.TimerID]
		if !ok {
			ts = &TimerStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
			stats.Timers[event.TimerID] = ts
		}
		if event.Timestamp.After(ts.LastSeen) {
			ts.LastSeen = event.Timestamp
		}

		switch event.Kind {
		case journal.KindStarted:
			ts.Starts++
		case journal.KindStopped:
			ts.Stops++
			ts.ElapsedSeconds = event.ElapsedSeconds
		case journal.KindDeleted:
			ts.Deleted = true
		}
	}

	return stats, nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Timer Journal Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Kind:")
	for _, kind := range []journal.Kind{journal.KindCreated, journal.KindStarted, journal.KindStopped, journal.KindDeleted, journal.KindError} {
		if count := stats.EventsByKind[kind]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", kind.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Timers: %d\n", len(stats.Timers))
	if len(stats.Timers) > 0 {
		type timerInfo struct {
			id    string
			stats *TimerStats
		}
		timers := make([]timerInfo, 0, len(stats.Timers))
		for id, ts := range stats.Timers {
			timers = append(timers, timerInfo{id, ts})
		}
		sort.Slice(timers, func(i, j int) bool {
			if timers[i].stats.FirstSeen.Equal(timers[j].stats.FirstSeen) {
				return timers[i].id < timers[j].id
			}
			return timers[i].stats.FirstSeen.Before(timers[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, t := range timers {
			fmt.Fprintf(w, "  [%s] %d starts, %d stops, %ds elapsed", shortenID(t.id), t.stats.Starts, t.stats.Stops, t.stats.ElapsedSeconds)
			if t.stats.Deleted {
				fmt.Fprint(w, " (deleted)")
			}
			fmt.Fprintln(w)
		}
	}

	if len(stats.ErrorsByOp) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.EventsByKind[journal.KindError])

		ops := make([]string, 0, len(stats.ErrorsByOp))
		for op := range stats.ErrorsByOp {
			ops = append(ops, op)
		}
		sort.Strings(ops)
		for _, op := range ops {
			fmt.Fprintf(w, "  %-12s %d\n", op+":", stats.ErrorsByOp[op])
		}
	}
}
