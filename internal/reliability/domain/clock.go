package reliability

import "time"

// Clock provides time for window resolution.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// Now returns current time.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return time.Time(c) }
