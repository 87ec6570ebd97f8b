package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/chrono-timers/chrono-go/pkg/journal"
)

// exportRecord is the JSON form of a journal event.
type exportRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	TimerID        string    `json:"timer_id,omitempty"`
	Kind           string    `json:"kind"`
	OldStatus      string    `json:"old_status,omitempty"`
	NewStatus      string    `json:"new_status,omitempty"`
	ElapsedSeconds int64     `json:"elapsed_seconds"`
	DeltaSeconds   int64     `json:"delta_seconds,omitempty"`
	Source         string    `json:"source,omitempty"`
	ErrorOp        string    `json:"error_op,omitempty"`
	ErrorClass     string    `json:"error_class,omitempty"`
	ErrorMessage   string    `json:"error_message,omitempty"`
}

func toExportRecord(event journal.Event) exportRecord {
	rec := exportRecord{
		Timestamp:      event.Timestamp.UTC(),
		TimerID:        event.TimerID,
		Kind:           event.Kind.String(),
		OldStatus:      event.OldStatus,
		NewStatus:      event.NewStatus,
		ElapsedSeconds: event.ElapsedSeconds,
		DeltaSeconds:   event.DeltaSeconds,
		Source:         event.Source,
	}
	if event.Error != nil {
		rec.ErrorOp = event.Error.Op
		rec.ErrorClass = event.Error.Class
		rec.ErrorMessage = event.Error.Message
	}
	return rec
}

// RunExport exports the journal to the specified format.
func RunExport(path, format, output string) error {
	reader, err := journal.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *journal.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(toExportRecord(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *journal.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "timer_id", "kind", "old_status", "new_status", "elapsed_seconds", "delta_seconds", "source", "error"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		rec := toExportRecord(event)
		row := []string{
			rec.Timestamp.Format(timestampLayout),
			rec.TimerID,
			rec.Kind,
			rec.OldStatus,
			rec.NewStatus,
			strconv.FormatInt(rec.ElapsedSeconds, 10),
			strconv.FormatInt(rec.DeltaSeconds, 10),
			rec.Source,
			rec.ErrorMessage,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
