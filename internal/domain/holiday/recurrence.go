package holiday

import (
	"fmt"
	"time"
)

// NthWeekdayOfMonth returns the date of the nth occurrence of weekday in the
// given month, e.g. the 3rd Monday of March. It errors when the month has no
// such occurrence (a 5th Friday in a four-Friday month).
func NthWeekdayOfMonth(year int, month time.Month, nth int, weekday time.Weekday) (time.Time, error) {
	if nth < 1 {
		return time.Time{}, fmt.Errorf("nth occurrence must be at least 1, got %d", nth)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	candidate := first.AddDate(0, 0, offset+(nth-1)*7)

	if candidate.Month() != month {
		return time.Time{}, fmt.Errorf("no %s #%d in %s %d", weekday, nth, month, year)
	}
	return candidate, nil
}

// DateForYear materializes the pattern into a concrete date for the target
// year.
func (p RecurringPattern) DateForYear(year int) (time.Time, error) {
	if p.Day != nil {
		return time.Date(year, p.Month, *p.Day, 0, 0, 0, 0, time.UTC), nil
	}
	if p.Nth != nil && p.DayOfWeek != nil {
		return NthWeekdayOfMonth(year, p.Month, *p.Nth, *p.DayOfWeek)
	}
	return time.Time{}, ErrInvalidPattern
}
