package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// DefaultWatchInterval is the polling interval of the watch command.
const DefaultWatchInterval = time.Second

// RunWatch polls a timer and redraws its elapsed time on one line until ctx
// is done. A failed poll ends the watch with the error.
func RunWatch(ctx context.Context, c TimerClient, id string, interval time.Duration, w io.Writer) error {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		t, err := c.Get(ctx, id)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				fmt.Fprintln(w)
				return nil
			}
			return fmt.Errorf("watch %s: %w", id, err)
		}
		fmt.Fprintf(w, "\r%s  %s  %s", shortID(t.ID), FormatElapsed(t.ElapsedSeconds), statusLabel(t.Status))

		select {
		case <-ctx.Done():
			fmt.Fprintln(w)
			return nil
		case <-ticker.C:
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
