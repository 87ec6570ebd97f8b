// Package journal records timer lifecycle transitions.
//
// The journal is separate from operational logging (slog). It captures a
// machine-readable trail of every committed transition (create, start,
// stop, delete) and of failed operations, for auditing and offline
// analysis with the chrono-journal tool.
//
// # Basic Usage
//
//	// For development: journal to console via slog
//	cfg.Journal = journal.NewSlogAdapter(slog.Default())
//
//	// For production: append to a binary file
//	cfg.Journal, _ = journal.NewFileJournal("/var/lib/chrono/timers.cjl")
//
//	// Both
//	cfg.Journal = journal.NewMultiJournal(slogJournal, fileJournal)
//
// # File Format
//
// Journal files are a stream of CBOR-encoded events with integer keys,
// conventionally using the .cjl extension.
package journal
