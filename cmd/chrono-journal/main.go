// Command chrono-journal views and analyzes timer transition journals.
//
// Journal files are written by chrono-server when started with -journal
// (or journal.path in the configuration file).
//
// Usage:
//
//	chrono-journal <command> [flags] <file.cjl>
//
// Commands:
//
//	view     View journal in human-readable format
//	export   Export journal to JSONL or CSV format
//	filter   Filter journal and write to new file
//	stats    Show statistics about the journal
//
// Examples:
//
//	# View all events
//	chrono-journal view timers.cjl
//
//	# View the history of one timer
//	chrono-journal view -timer 7b0a4f9e-3c55-4a8e-9d0b-2f1c6e5a9b11 timers.cjl
//
//	# View only failures
//	chrono-journal view -kind error timers.cjl
//
//	# Export to CSV
//	chrono-journal export -format csv -o timers.csv timers.cjl
//
//	# Show statistics
//	chrono-journal stats timers.cjl
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chrono-timers/chrono-go/cmd/chrono-journal/commands"
)

const usage = `chrono-journal - Timer Transition Journal Analyzer

Usage:
  chrono-journal <command> [flags] <file.cjl>

Commands:
  view     View journal in human-readable format
  export   Export journal to JSONL or CSV format
  filter   Filter journal and write to new file
  stats    Show statistics about the journal

Use "chrono-journal <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `chrono-journal view - View journal in human-readable format

Usage:
  chrono-journal view [flags] <file.cjl>

Flags:
`)
		fs.PrintDefaults()
	}

	timerID := fs.String("timer", "", "Filter by timer ID")
	kind := fs.String("kind", "", "Filter by kind (created, started, stopped, deleted, error)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: journal file path required")
		fs.Usage()
		os.Exit(1)
	}

	filter, err := commands.BuildFilter(commands.FilterOptions{TimerID: *timerID, Kind: *kind})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := commands.RunView(fs.Arg(0), filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `chrono-journal export - Export journal to JSONL or CSV format

Usage:
  chrono-journal export [flags] <file.cjl>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: journal file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunExport(fs.Arg(0), *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `chrono-journal filter - Filter journal and write to new file

Usage:
  chrono-journal filter [flags] <file.cjl>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	timerID := fs.String("timer", "", "Filter by timer ID")
	kind := fs.String("kind", "", "Filter by kind (created, started, stopped, deleted, error)")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: journal file path required")
		fs.Usage()
		os.Exit(1)
	}

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	opts := commands.FilterOptions{
		Output:    *output,
		TimerID:   *timerID,
		Kind:      *kind,
		TimeStart: *timeStart,
		TimeEnd:   *timeEnd,
	}

	if err := commands.RunFilter(fs.Arg(0), opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `chrono-journal stats - Show statistics about the journal

Usage:
  chrono-journal stats <file.cjl>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: journal file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunStats(fs.Arg(0), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
