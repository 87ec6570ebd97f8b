// Package config loads chrono server configuration from a YAML file and the
// environment.
//
// Precedence, lowest to highest: built-in defaults, the YAML file,
// environment variables, command-line flags. Flags are applied by the
// caller after Load.
//
// Environment variables use the CHRONO_ prefix. The unprefixed names PORT,
// DB_PATH, LOG_LEVEL and CORS_ORIGIN are honored as fallbacks so existing
// deployments keep working.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is matched by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Journal   JournalConfig   `yaml:"journal"`
	Discovery DiscoveryConfig `yaml:"discovery"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Host is the listen host. Empty listens on all interfaces.
	Host string `yaml:"host"`

	// Port is the TCP listen port.
	Port int `yaml:"port"`

	// CORSOrigin is sent as Access-Control-Allow-Origin. Empty disables CORS.
	CORSOrigin string `yaml:"cors_origin"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig configures the timer store.
type DatabaseConfig struct {
	// Path is the SQLite database file, or ":memory:".
	Path string `yaml:"path"`
}

// LogConfig configures operational logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// JournalConfig configures the transition journal.
type JournalConfig struct {
	// Path is the journal file. Empty disables the file journal.
	Path string `yaml:"path"`
}

// DiscoveryConfig configures mDNS advertisement.
type DiscoveryConfig struct {
	Enabled bool `yaml:"enabled"`

	// Instance is the advertised instance name. Default: the hostname.
	Instance string `yaml:"instance"`

	// Interface restricts advertisement to one network interface.
	Interface string `yaml:"interface"`

	// TTL is the record time-to-live.
	TTL time.Duration `yaml:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            3000,
			CORSOrigin:      "http://localhost:5173",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "./data/timer.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Discovery: DiscoveryConfig{
			TTL: 120 * time.Second,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path (if path is
// non-empty) and then the process environment. The result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := Parse(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg. Keys absent from data keep their current
// values. Unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// An empty document is not an error.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays environment variables read through lookup.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	get := func(keys ...string) (string, bool) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				return v, true
			}
		}
		return "", false
	}

	if v, ok := get("CHRONO_PORT", "PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: port %q", ErrInvalidConfig, v)
		}
		c.Server.Port = port
	}
	if v, ok := get("CHRONO_HOST"); ok {
		c.Server.Host = v
	}
	if v, ok := get("CHRONO_CORS_ORIGIN", "CORS_ORIGIN"); ok {
		c.Server.CORSOrigin = v
	}
	if v, ok := get("CHRONO_DB_PATH", "DB_PATH"); ok {
		c.Database.Path = v
	}
	if v, ok := get("CHRONO_LOG_LEVEL", "LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := get("CHRONO_LOG_FORMAT"); ok {
		c.Log.Format = strings.ToLower(v)
	}
	if v, ok := get("CHRONO_JOURNAL_PATH"); ok {
		c.Journal.Path = v
	}
	if v, ok := get("CHRONO_DISCOVERY"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: discovery %q", ErrInvalidConfig, v)
		}
		c.Discovery.Enabled = enabled
	}
	return nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: negative shutdown timeout", ErrInvalidConfig)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database path is required", ErrInvalidConfig)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.Log.Format)
	}
	if c.Discovery.Enabled && c.Discovery.TTL < time.Second {
		return fmt.Errorf("%w: discovery ttl %s", ErrInvalidConfig, c.Discovery.TTL)
	}
	return nil
}

// SlogLevel maps Level to a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, l.Level)
	}
}
