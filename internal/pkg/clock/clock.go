package clock

import "time"

// Clock supplies the reference instant for time-dependent queries.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// System returns a Clock backed by time.Now, in UTC.
func System() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a Clock that always returns the same instant. Used by tests.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
