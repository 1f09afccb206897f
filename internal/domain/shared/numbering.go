package shared

import "time"

// NumberGenerator produces document numbers (PR numbers, lot numbers).
// Implementations must be safe for concurrent use.
type NumberGenerator interface {
	Next() string
}

// NumberGeneratorFunc adapts a plain function to NumberGenerator
type NumberGeneratorFunc func() string

// Next implements NumberGenerator
func (f NumberGeneratorFunc) Next() string {
	return f()
}

// Clock returns the current time. Injected wherever "today" matters.
type Clock func() time.Time

// SystemClock is the wall clock
func SystemClock() time.Time {
	return time.Now()
}

// DateOnly truncates t to midnight UTC of its calendar day
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
