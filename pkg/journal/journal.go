package journal

// Journal receives timer lifecycle events.
// Pass nil or NoopJournal to disable journaling.
type Journal interface {
	// Record stores an event. Implementations must be thread-safe and must
	// not block for long; the caller is on the request path.
	Record(event Event)
}

// NoopJournal discards all events.
// NoopJournal is safe for concurrent use and usable as a zero value.
type NoopJournal struct{}

// Record discards the event.
func (NoopJournal) Record(Event) {}

// Compile-time interface satisfaction check.
var _ Journal = NoopJournal{}
