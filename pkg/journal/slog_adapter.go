package journal

import (
	"context"
	"log/slog"
)

// SlogAdapter writes journal events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Record writes the event to the logger.
func (a *SlogAdapter) Record(event Event) {
	attrs := []slog.Attr{
		slog.String("timer_id", event.TimerID),
		slog.String("kind", event.Kind.String()),
		slog.Int64("elapsed_seconds", event.ElapsedSeconds),
	}

	if event.OldStatus != "" {
		attrs = append(attrs, slog.String("old_status", event.OldStatus))
	}
	if event.NewStatus != "" {
		attrs = append(attrs, slog.String("new_status", event.NewStatus))
	}
	if event.DeltaSeconds != 0 {
		attrs = append(attrs, slog.Int64("delta_seconds", event.DeltaSeconds))
	}
	if event.Error != nil {
		attrs = append(attrs,
			slog.String("op", event.Error.Op),
			slog.String("error", event.Error.Message),
		)
		if event.Error.Class != "" {
			attrs = append(attrs, slog.String("error_class", event.Error.Class))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "journal", attrs...)
}

// Compile-time interface satisfaction check.
var _ Journal = (*SlogAdapter)(nil)
