package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/chrono-timers/chrono-go/pkg/journal"
)

// FilterOptions holds the string-valued filter flags shared by view and
// filter.
type FilterOptions struct {
	Output    string
	TimerID   string
	Kind      string
	TimeStart string
	TimeEnd   string
}

// BuildFilter parses opts into a journal.Filter.
func BuildFilter(opts FilterOptions) (journal.Filter, error) {
	filter := journal.Filter{TimerID: opts.TimerID}

	if opts.Kind != "" {
		k, err := journal.ParseKind(opts.Kind)
		if err != nil {
			return filter, err
		}
		filter.Kind = &k
	}

	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start: %w", err)
		}
		filter.TimeStart = &t
	}

	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end: %w", err)
		}
		filter.TimeEnd = &t
	}

	return filter, nil
}

// RunFilter copies the events of path matching opts to opts.Output.
func RunFilter(path string, opts FilterOptions) error {
	filter, err := BuildFilter(opts)
	if err != nil {
		return err
	}

	reader, err := journal.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer reader.Close()

	out, err := journal.NewFileJournal(opts.Output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		out.Record(event)
	}

	return nil
}
