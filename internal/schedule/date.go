// Package schedule decides when a plan block is active, when it fires, and
// how many of its own periods have elapsed on a given calendar day.
//
// Dates are {year, month, day} triples, never timestamps. Comparing triples
// component-wise is what keeps the math timezone-stable: a block that starts
// "2025-01-15" starts on that calendar day everywhere, with no midnight
// drift. time.Time appears only as an internal tool for day arithmetic,
// always pinned to UTC.
package schedule

import (
	"fmt"
	"time"
)

// Date is a timezone-free calendar day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date, normalizing out-of-range components the way
// time.Date does (e.g. Feb 30 becomes Mar 1 or 2).
func NewDate(year int, month time.Month, day int) Date {
	return fromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// ParseDate parses the "YYYY-MM-DD" form used by plan documents.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return fromTime(t), nil
}

func fromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) toTime() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String renders the canonical "YYYY-MM-DD" form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Compare returns -1, 0 or +1 ordering d against other at day granularity.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }
func (d Date) After(other Date) bool  { return d.Compare(other) > 0 }

// AddDays returns the calendar day n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return fromTime(d.toTime().AddDate(0, 0, n))
}

// AddYears returns the same month/day n years later, normalized by the
// calendar (Feb 29 + 1y lands on Mar 1).
func (d Date) AddYears(n int) Date {
	return fromTime(d.toTime().AddDate(n, 0, 0))
}

// DaysBetween returns the whole number of days from a to b; negative when b
// precedes a. Both endpoints are treated as midnight UTC so the division is
// exact.
func DaysBetween(a, b Date) int {
	return int(b.toTime().Sub(a.toTime()) / (24 * time.Hour))
}

// monthsBetween is the calendar-component month difference, ignoring days.
func monthsBetween(a, b Date) int {
	return (b.Year-a.Year)*12 + int(b.Month) - int(a.Month)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
