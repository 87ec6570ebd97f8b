// Package commands implements the chronoctl CLI commands.
package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/chrono-timers/chrono-go/pkg/client"
	"github.com/chrono-timers/chrono-go/pkg/timer"
)

// TimerClient is the subset of client.Client the commands use.
type TimerClient interface {
	Create(ctx context.Context) (*timer.Snapshot, error)
	Get(ctx context.Context, id string) (*timer.Snapshot, error)
	Start(ctx context.Context, id string) (*timer.Snapshot, error)
	Stop(ctx context.Context, id string) (*timer.Snapshot, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts client.ListOptions) ([]timer.Snapshot, error)
}

var _ TimerClient = (*client.Client)(nil)

var (
	headerFmt  = color.New(color.FgGreen, color.Underline).SprintfFunc()
	idFmt      = color.New(color.FgYellow).SprintfFunc()
	runningFmt = color.New(color.FgGreen, color.Bold).SprintFunc()
	stoppedFmt = color.New(color.FgRed).SprintFunc()
)

// FormatElapsed renders whole seconds as HH:MM:SS. Hours grow past 99.
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func statusLabel(s timer.Status) string {
	if s == timer.StatusRunning {
		return runningFmt(s.String())
	}
	return stoppedFmt(s.String())
}

func startLabel(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

// printTimer writes a detailed view of one timer.
func printTimer(w io.Writer, t *timer.Snapshot) {
	fmt.Fprintf(w, "ID:       %s\n", t.ID)
	fmt.Fprintf(w, "Status:   %s\n", statusLabel(t.Status))
	fmt.Fprintf(w, "Elapsed:  %s (%ds)\n", FormatElapsed(t.ElapsedSeconds), t.ElapsedSeconds)
	fmt.Fprintf(w, "Started:  %s\n", startLabel(t.StartTime))
}

// printTimerTable writes timers as a table.
func printTimerTable(w io.Writer, timers []timer.Snapshot) {
	tbl := table.New("ID", "Status", "Elapsed", "Started")
	tbl.WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(idFmt).WithWriter(w)

	for _, t := range timers {
		tbl.AddRow(t.ID, t.Status.String(), FormatElapsed(t.ElapsedSeconds), startLabel(t.StartTime))
	}
	tbl.Print()
}
