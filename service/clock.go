package service

import "time"

// Clock supplies "now" for date matching and TTL computation.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At.UTC()
}
