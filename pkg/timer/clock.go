package timer

import "time"

// Clock provides the current instant.
// This interface allows elapsed-time arithmetic to be tested with a fake clock.
type Clock interface {
	Now() time.Time
}

// SystemClock is the Clock backed by the standard library.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}
