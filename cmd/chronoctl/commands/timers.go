package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/chrono-timers/chrono-go/pkg/client"
	"github.com/chrono-timers/chrono-go/pkg/timer"
)

// RunCreate creates a timer and prints it.
func RunCreate(ctx context.Context, c TimerClient, w io.Writer) error {
	t, err := c.Create(ctx)
	if err != nil {
		return fmt.Errorf("create failed: %w", err)
	}
	printTimer(w, t)
	return nil
}

// RunGet prints one timer.
func RunGet(ctx context.Context, c TimerClient, id string, w io.Writer) error {
	t, err := c.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get %s: %w", id, err)
	}
	printTimer(w, t)
	return nil
}

// RunStart starts a timer and prints the result.
func RunStart(ctx context.Context, c TimerClient, id string, w io.Writer) error {
	t, err := c.Start(ctx, id)
	if err != nil {
		return fmt.Errorf("start %s: %w", id, err)
	}
	printTimer(w, t)
	return nil
}

// RunStop stops a timer and prints the result.
func RunStop(ctx context.Context, c TimerClient, id string, w io.Writer) error {
	t, err := c.Stop(ctx, id)
	if err != nil {
		return fmt.Errorf("stop %s: %w", id, err)
	}
	printTimer(w, t)
	return nil
}

// RunDelete deletes a timer.
func RunDelete(ctx context.Context, c TimerClient, id string, w io.Writer) error {
	if err := c.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	fmt.Fprintf(w, "Deleted %s\n", id)
	return nil
}

// ListFlags holds the list command's string-valued flags.
type ListFlags struct {
	Status string
	Limit  int
	Offset int
}

// RunList prints timers as a table, newest first.
func RunList(ctx context.Context, c TimerClient, flags ListFlags, w io.Writer) error {
	opts := client.ListOptions{Limit: flags.Limit, Offset: flags.Offset}
	if flags.Status != "" {
		s, err := timer.ParseStatus(flags.Status)
		if err != nil {
			return err
		}
		opts.Status = &s
	}

	timers, err := c.List(ctx, opts)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}
	if len(timers) == 0 {
		fmt.Fprintln(w, "No timers.")
		return nil
	}
	printTimerTable(w, timers)
	return nil
}
