// Command chronoctl is a command-line client for chrono-server.
//
// Usage:
//
//	chronoctl [global flags] <command> [args]
//
// Commands:
//
//	create            Create a timer
//	get <id>          Show a timer
//	start <id>        Start a timer
//	stop <id>         Stop a timer
//	delete <id>       Delete a timer
//	list              List timers
//	watch <id>        Follow a timer's elapsed time
//	shell             Interactive console
//	discover          Find chrono servers on the local network
//
// The server URL comes from -server, then CHRONO_URL, then
// http://localhost:3000/api. With -mdns the first server found via
// DNS-SD is used instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrono-timers/chrono-go/cmd/chronoctl/commands"
	"github.com/chrono-timers/chrono-go/pkg/client"
	"github.com/chrono-timers/chrono-go/pkg/discovery"
)

const defaultServer = "http://localhost:3000/api"

const usage = `chronoctl - Chrono Timer Client

Usage:
  chronoctl [global flags] <command> [args]

Commands:
  create            Create a timer
  get <id>          Show a timer
  start <id>        Start a timer
  stop <id>         Stop a timer
  delete <id>       Delete a timer
  list              List timers
  watch <id>        Follow a timer's elapsed time
  shell             Interactive console
  discover          Find chrono servers on the local network

Global flags:
`

var (
	serverURL = flag.String("server", "", "API base URL (default $CHRONO_URL or "+defaultServer+")")
	timeout   = flag.Duration("timeout", client.DefaultTimeout, "Request timeout")
	useMDNS   = flag.Bool("mdns", false, "Use the first server found via mDNS")
	iface     = flag.String("interface", "", "Network interface for mDNS")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string) error {
	browser := discovery.NewMDNSBrowser(discovery.BrowserConfig{Interface: *iface})

	switch cmd {
	case "discover":
		fs := flag.NewFlagSet("discover", flag.ExitOnError)
		wait := fs.Duration("wait", discovery.BrowseTimeout, "How long to browse")
		fs.Parse(args)
		return commands.RunDiscover(ctx, browser, *wait, os.Stdout)
	case "-h", "-help", "--help", "help":
		flag.Usage()
		return nil
	}

	c, err := newClient(ctx, browser)
	if err != nil {
		return err
	}

	switch cmd {
	case "create", "new":
		return commands.RunCreate(ctx, c, os.Stdout)
	case "get":
		id, err := requireID(cmd, args)
		if err != nil {
			return err
		}
		return commands.RunGet(ctx, c, id, os.Stdout)
	case "start":
		id, err := requireID(cmd, args)
		if err != nil {
			return err
		}
		return commands.RunStart(ctx, c, id, os.Stdout)
	case "stop":
		id, err := requireID(cmd, args)
		if err != nil {
			return err
		}
		return commands.RunStop(ctx, c, id, os.Stdout)
	case "delete", "rm":
		id, err := requireID(cmd, args)
		if err != nil {
			return err
		}
		return commands.RunDelete(ctx, c, id, os.Stdout)
	case "list", "ls":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		var lf commands.ListFlags
		fs.StringVar(&lf.Status, "status", "", "Only timers with this status (running, stopped)")
		fs.IntVar(&lf.Limit, "limit", 0, "Maximum number of timers")
		fs.IntVar(&lf.Offset, "offset", 0, "Number of timers to skip")
		fs.Parse(args)
		return commands.RunList(ctx, c, lf, os.Stdout)
	case "watch":
		fs := flag.NewFlagSet("watch", flag.ExitOnError)
		interval := fs.Duration("interval", commands.DefaultWatchInterval, "Polling interval")
		fs.Parse(args)
		id, err := requireID(cmd, fs.Args())
		if err != nil {
			return err
		}
		return commands.RunWatch(ctx, c, id, *interval, os.Stdout)
	case "shell":
		sh, err := commands.NewShell(c)
		if err != nil {
			return err
		}
		fmt.Printf("Connected to %s\n", c.BaseURL())
		sh.Run(ctx)
		return nil
	default:
		flag.Usage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func newClient(ctx context.Context, browser discovery.Browser) (*client.Client, error) {
	base, err := resolveServer(ctx, browser)
	if err != nil {
		return nil, err
	}
	return client.New(client.Config{
		BaseURL:    base,
		HTTPClient: &http.Client{Timeout: *timeout},
	})
}

func resolveServer(ctx context.Context, browser discovery.Browser) (string, error) {
	if *serverURL != "" {
		return *serverURL, nil
	}
	if *useMDNS {
		return commands.DiscoverFirst(ctx, browser, discovery.BrowseTimeout)
	}
	if env := os.Getenv("CHRONO_URL"); env != "" {
		return env, nil
	}
	return defaultServer, nil
}

func requireID(cmd string, args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("usage: chronoctl %s <timer-id>", cmd)
	}
	return args[0], nil
}
