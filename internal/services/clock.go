package services

import "time"

// Clock returns the current instant. Services take one so tests can pin time.
type Clock func() time.Time

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

func locationOrDefault(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
