// Package gofat32 holds the small set of types shared across every
// subsystem: the clock collaborator directory entries are stamped with, and
// the attribute bits stored in a directory entry's attribs byte.
package gofat32

import "time"

// Clock yields the local broken-down time used to stamp directory entries.
// It's the one collaborator the core depends on for wall-clock time; real
// callers use SystemClock, tests use a fixed value so timestamp assertions
// are deterministic.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock backed by the host's local time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock is a Clock that always returns the same instant. Useful for
// tests that assert on create/modify/access timestamps.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Instant
}
