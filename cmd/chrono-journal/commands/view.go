// Package commands implements the chrono-journal CLI commands.
package commands

import (
	"fmt"
	"io"

	"github.com/chrono-timers/chrono-go/pkg/journal"
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event journal.Event) {
	ts := event.Timestamp.UTC().Format(timestampLayout)
	fmt.Fprintf(w, "%s [timer:%s] %s\n", ts, shortenID(event.TimerID), event.Kind)

	switch event.Kind {
	case journal.KindStarted:
		fmt.Fprintf(w, "  %s -> %s\n", event.OldStatus, event.NewStatus)
		fmt.Fprintf(w, "  Elapsed: %ds\n", event.ElapsedSeconds)
	case journal.KindStopped:
		fmt.Fprintf(w, "  %s -> %s\n", event.OldStatus, event.NewStatus)
		fmt.Fprintf(w, "  Elapsed: %ds (+%ds)\n", event.ElapsedSeconds, event.DeltaSeconds)
	case journal.KindCreated:
		fmt.Fprintf(w, "  -> %s\n", event.NewStatus)
	case journal.KindError:
		formatErrorDetails(w, event.Error)
	}
	if event.Source != "" {
		fmt.Fprintf(w, "  Source: %s\n", event.Source)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of a timer ID.
func shortenID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, err *journal.ErrorData) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "  Op: %s\n", err.Op)
	if err.Class != "" {
		fmt.Fprintf(w, "  Class: %s\n", err.Class)
	}
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
}

// RunView executes the view command.
func RunView(path string, filter journal.Filter, output io.Writer) error {
	reader, err := journal.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		formatEvent(output, event)
	}

	return nil
}
