// Command chrono-server serves the stopwatch timer API over HTTP.
//
// It offers:
//   - REST API to create, read, start, stop, list and delete timers
//   - SQLite persistence so timers survive restarts
//   - An optional CBOR transition journal
//   - Optional mDNS advertisement (_chrono._tcp) for LAN clients
//
// Usage:
//
//	chrono-server [flags]
//
// Flags:
//
//	-config string       YAML configuration file
//	-port int            HTTP server port (default 3000)
//	-db string           SQLite database path (default "./data/timer.db")
//	-journal string      Transition journal file (disabled when empty)
//	-cors-origin string  Allowed CORS origin (default "http://localhost:5173")
//	-log-level string    Log level: debug, info, warn, error (default "info")
//	-log-format string   Log format: text, json (default "text")
//	-mdns                Advertise the server with mDNS
//
// Environment variables (CHRONO_PORT, CHRONO_DB_PATH, ...) override the
// configuration file; flags override both.
//
// Examples:
//
//	# Start with defaults
//	chrono-server
//
//	# Use an in-memory database (for testing)
//	chrono-server -db :memory:
//
//	# Journal transitions and advertise on the LAN
//	chrono-server -journal ./data/timers.cjl -mdns
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/chrono-timers/chrono-go/pkg/config"
	"github.com/chrono-timers/chrono-go/pkg/discovery"
	"github.com/chrono-timers/chrono-go/pkg/journal"
	"github.com/chrono-timers/chrono-go/pkg/store/sqlite"
	"github.com/chrono-timers/chrono-go/pkg/timer"
	"github.com/chrono-timers/chrono-go/pkg/version"
)

// Version information - set at build time via ldflags
var (
	Version   = "0.1.0"
	BuildDate = "dev"
	GitCommit = "unknown"
)

var (
	configPath  = flag.String("config", "", "YAML configuration file")
	port        = flag.Int("port", 3000, "HTTP server port")
	dbPath      = flag.String("db", "./data/timer.db", "SQLite database path")
	journalPath = flag.String("journal", "", "Transition journal file")
	corsOrigin  = flag.String("cors-origin", "http://localhost:5173", "Allowed CORS origin")
	logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat   = flag.String("log-format", "text", "Log format: text, json")
	mdns        = flag.Bool("mdns", false, "Advertise the server with mDNS")
	showVersion = flag.Bool("version", false, "Show version information")
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if *showVersion {
		fmt.Printf("chrono-server %s (built %s, commit %s)\n", Version, BuildDate, GitCommit)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	applyFlags(&cfg, set)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	slog.SetDefault(logger)

	if err := serve(cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		return 1
	}
	return 0
}

// applyFlags copies explicitly set command-line flags over cfg.
func applyFlags(cfg *config.Config, set map[string]bool) {
	if set["port"] {
		cfg.Server.Port = *port
	}
	if set["db"] {
		cfg.Database.Path = *dbPath
	}
	if set["journal"] {
		cfg.Journal.Path = *journalPath
	}
	if set["cors-origin"] {
		cfg.Server.CORSOrigin = *corsOrigin
	}
	if set["log-level"] {
		cfg.Log.Level = *logLevel
	}
	if set["log-format"] {
		cfg.Log.Format = *logFormat
	}
	if set["mdns"] {
		cfg.Discovery.Enabled = *mdns
	}
}

// newLogger builds the process logger from the log configuration.
func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// serve runs the server until SIGINT or SIGTERM.
func serve(cfg config.Config, logger *slog.Logger) error {
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer store.Close()

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "chrono"
	}

	journals := []journal.Journal{journal.NewSlogAdapter(logger)}
	if cfg.Journal.Path != "" {
		fj, err := journal.NewFileJournal(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer fj.Close()
		journals = append(journals, fj)
	}

	engine := timer.NewEngine(timer.EngineConfig{
		Store:   store,
		Journal: journal.NewMultiJournal(journals...),
		Logger:  logger,
		Source:  hostname,
	})

	srv := NewServer(ServerConfig{
		Addr:       cfg.Server.Addr(),
		CORSOrigin: cfg.Server.CORSOrigin,
		Version:    Version,
		Logger:     logger,
	}, engine)

	ln, err := net.Listen("tcp", cfg.Server.Addr())
	if err != nil {
		return err
	}
	listenPort := ln.Addr().(*net.TCPAddr).Port

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Discovery.Enabled {
		adv := discovery.NewMDNSAdvertiser(discovery.AdvertiserConfig{
			Interface: cfg.Discovery.Interface,
			TTL:       cfg.Discovery.TTL,
		})
		info := serviceInfo(cfg.Discovery, hostname, listenPort)
		if err := adv.Advertise(ctx, info); err != nil {
			logger.Warn("mDNS advertisement failed", "error", err)
		} else {
			logger.Info("Advertising via mDNS", "instance", info.Instance, "service", discovery.ServiceType)
			defer adv.Stop()
		}
	}

	logger.Info("Starting chrono-server",
		"addr", ln.Addr().String(),
		"database", cfg.Database.Path,
		"journal", cfg.Journal.Path,
		"version", Version)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down", "timeout", cfg.Server.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// serviceInfo builds the mDNS advertisement. The server ID is derived from
// the host name so it is stable across restarts.
func serviceInfo(cfg config.DiscoveryConfig, hostname string, port int) *discovery.ServiceInfo {
	instance := cfg.Instance
	if instance == "" {
		instance = hostname
	}
	if len(instance) > discovery.MaxInstanceNameLen {
		instance = instance[:discovery.MaxInstanceNameLen]
	}

	return &discovery.ServiceInfo{
		Instance: instance,
		Port:     uint16(port),
		Version:  version.Current,
		APIPath:  discovery.DefaultAPIPath,
		ServerID: uuid.NewSHA1(uuid.NameSpaceDNS, []byte(hostname)).String(),
	}
}
