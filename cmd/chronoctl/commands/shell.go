package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Shell is an interactive timer console.
type Shell struct {
	client  TimerClient
	rl      *readline.Instance
	current string
}

// NewShell creates a shell bound to the terminal.
func NewShell(c TimerClient) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "chrono> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("create"),
			readline.PcItem("get"),
			readline.PcItem("start"),
			readline.PcItem("stop"),
			readline.PcItem("delete"),
			readline.PcItem("list"),
			readline.PcItem("use"),
			readline.PcItem("help"),
			readline.PcItem("exit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{client: c, rl: rl}, nil
}

// newShell creates a shell without a terminal, for Execute.
func newShell(c TimerClient) *Shell {
	return &Shell{client: c}
}

// Run reads commands until exit, EOF or ctx is done.
func (s *Shell) Run(ctx context.Context) {
	defer s.rl.Close()

	out := s.rl.Stdout()
	s.printHelp(out)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(out, "Exiting...")
			return
		}

		if !s.Execute(ctx, line, out) {
			return
		}
		s.updatePrompt()
	}
}

func (s *Shell) updatePrompt() {
	if s.current == "" {
		s.rl.SetPrompt("chrono> ")
		return
	}
	s.rl.SetPrompt(fmt.Sprintf("chrono[%s]> ", shortID(s.current)))
}

// Execute runs one command line. It returns false when the shell should
// exit.
func (s *Shell) Execute(ctx context.Context, line string, w io.Writer) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		s.printHelp(w)

	case "exit", "quit", "q":
		return false

	case "create", "new", "c":
		t, cerr := s.client.Create(ctx)
		if cerr != nil {
			err = fmt.Errorf("create failed: %w", cerr)
			break
		}
		s.current = t.ID
		printTimer(w, t)

	case "use":
		if len(args) < 1 {
			fmt.Fprintln(w, "Usage: use <timer-id>")
			break
		}
		s.current = args[0]
		fmt.Fprintf(w, "Using %s\n", s.current)

	case "get", "g":
		if id, ok := s.target(args, w); ok {
			err = RunGet(ctx, s.client, id, w)
		}

	case "start", "s":
		if id, ok := s.target(args, w); ok {
			err = RunStart(ctx, s.client, id, w)
		}

	case "stop", "x":
		if id, ok := s.target(args, w); ok {
			err = RunStop(ctx, s.client, id, w)
		}

	case "delete", "rm":
		if id, ok := s.target(args, w); ok {
			err = RunDelete(ctx, s.client, id, w)
			if err == nil && id == s.current {
				s.current = ""
			}
		}

	case "list", "ls":
		flags := ListFlags{}
		if len(args) > 0 {
			flags.Status = args[0]
		}
		err = RunList(ctx, s.client, flags, w)

	default:
		fmt.Fprintf(w, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	return true
}

// target returns the explicit id argument or the current timer.
func (s *Shell) target(args []string, w io.Writer) (string, bool) {
	if len(args) > 0 {
		return args[0], true
	}
	if s.current != "" {
		return s.current, true
	}
	fmt.Fprintln(w, "No timer selected: pass an id or run 'create' or 'use <id>' first")
	return "", false
}

func (s *Shell) printHelp(w io.Writer) {
	fmt.Fprint(w, `Commands:
  create             Create a timer and select it
  use <id>           Select an existing timer
  get [id]           Show a timer
  start [id]         Start a timer
  stop [id]          Stop a timer
  delete [id]        Delete a timer
  list [status]      List timers (status: running, stopped)
  help               Show this help
  exit               Leave the shell
`)
}
