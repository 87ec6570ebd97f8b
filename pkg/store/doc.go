// Package store holds the timer.Store implementations.
//
//   - memory: process-local map, for tests and ephemeral servers
//   - sqlite: durable SQLite database
//
// Both apply timer.Store.Update atomically per timer ID.
package store
