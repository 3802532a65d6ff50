// Package period resolves (month, year) pairs into calendar month boundaries.
package period

import "time"

// Period is a calendar month with resolved start and end days.
// Start is the first day at 00:00:00 UTC; End is the last day at
// 23:59:59.999999999 UTC so BETWEEN-style range queries include it.
type Period struct {
	Month int
	Year  int
	Start time.Time
	End   time.Time
}

// Resolve returns the canonical boundaries for the given month and year.
// Month must be 1-12; anything else is a caller bug and panics.
func Resolve(month, year int) Period {
	if month < 1 || month > 12 {
		panic("period: month out of range")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the next month is the last day of this one.
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	end := time.Date(year, time.Month(month), lastDay, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)

	return Period{Month: month, Year: year, Start: start, End: end}
}

// Current returns the period containing now.
func Current(now time.Time) Period {
	return Resolve(int(now.Month()), now.Year())
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Valid reports whether a (month, year) pair can be resolved without panicking.
func Valid(month int) bool {
	return month >= 1 && month <= 12
}
