// Package timer implements the stopwatch timer lifecycle engine.
//
// A timer is a persistent stopwatch. It is created stopped with zero elapsed
// time, and may then be started and stopped any number of times. Each
// completed running interval is folded into the stored elapsed seconds.
//
// # State Machine
//
//	Stopped --Start--> Running --Stop--> Stopped
//	Running --Start--> Running  (no-op, start time kept)
//	Stopped --Stop---> Stopped  (no-op)
//
// There is no terminal state. A timer lives until it is deleted.
//
// # Elapsed Time
//
// The stored ElapsedSeconds only ever contains completed intervals. While a
// timer is running, reads report a live value:
//
//	ElapsedSeconds + floor((now - StartTime) / 1s)
//
// computed from the injected Clock. The live value is never written back;
// only Stop commits it. A clock reading earlier than StartTime contributes
// zero seconds rather than a negative amount.
//
// # Persistence
//
// The Engine does not lock. It relies on the Store to apply each
// read-modify-write (Store.Update) atomically per timer ID, so concurrent
// Start or Stop calls on the same timer are applied exactly once.
//
// # Errors
//
// Operations fail with ErrNotFound for unknown IDs, with a *StorageError
// (matching ErrStorage) when the store fails, and with an *InvalidStateError
// (matching ErrInvalidState) when a stored record breaks the
// status/start-time invariant. Corrupt records are reported, never repaired.
package timer
