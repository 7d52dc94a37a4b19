package schedule

import "fmt"

// Frequency is the cadence at which a block's execution program fires.
type Frequency string

const (
	Daily   Frequency = "daily"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// ParseFrequency validates the string form used by plan documents.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case Daily, Monthly, Yearly:
		return Frequency(s), nil
	default:
		return "", fmt.Errorf("invalid frequency %q: want daily, monthly or yearly", s)
	}
}

// Schedule is one block's date range and cadence. Both endpoints are
// inclusive.
type Schedule struct {
	Start Date
	End   Date
	Freq  Frequency
}

// Active reports whether day falls inside [Start, End].
func (s Schedule) Active(day Date) bool {
	return !day.Before(s.Start) && !day.After(s.End)
}

// Fires reports whether the execution program runs on day. Daily schedules
// fire every active day. Monthly schedules fire on the start date's
// day-of-month; a schedule anchored on the 31st simply never fires in
// shorter months, which is the documented behavior rather than a case to
// paper over. Yearly schedules additionally match the start month.
func (s Schedule) Fires(day Date) bool {
	if !s.Active(day) {
		return false
	}
	switch s.Freq {
	case Daily:
		return true
	case Monthly:
		return day.Day == s.Start.Day
	case Yearly:
		return day.Day == s.Start.Day && day.Month == s.Start.Month
	default:
		return false
	}
}

// PeriodsFromStart counts elapsed periods from Start to day in the
// schedule's own unit. It is recomputed from the calendar difference on
// every call; nothing here accumulates between calls, so a missed or
// repeated invocation can never skew the count.
func (s Schedule) PeriodsFromStart(day Date) int {
	switch s.Freq {
	case Daily:
		return DaysBetween(s.Start, day)
	case Monthly:
		return monthsBetween(s.Start, day)
	case Yearly:
		return day.Year - s.Start.Year
	default:
		return 0
	}
}

// TotalPeriods is the inclusive period count over [Start, End]: a monthly
// schedule spanning exactly two firing dates has two periods.
func (s Schedule) TotalPeriods() int {
	return s.PeriodsFromStart(s.End) + 1
}
