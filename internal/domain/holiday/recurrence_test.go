package holiday

import (
	"testing"
	"time"
)

func TestNthWeekdayOfMonth(t *testing.T) {
	cases := []struct {
		year    int
		month   time.Month
		nth     int
		weekday time.Weekday
		want    string
	}{
		{2027, time.March, 3, time.Monday, "2027-03-15"},
		{2025, time.November, 4, time.Thursday, "2025-11-27"},
		{2026, time.January, 1, time.Thursday, "2026-01-01"},
		{2025, time.May, 5, time.Saturday, "2025-05-31"},
	}
	for _, c := range cases {
		got, err := NthWeekdayOfMonth(c.year, c.month, c.nth, c.weekday)
		if err != nil {
			t.Errorf("NthWeekdayOfMonth(%d, %v, %d, %v) returned error: %v", c.year, c.month, c.nth, c.weekday, err)
			continue
		}
		if got.Format("2006-01-02") != c.want {
			t.Errorf("NthWeekdayOfMonth(%d, %v, %d, %v) = %s, want %s",
				c.year, c.month, c.nth, c.weekday, got.Format("2006-01-02"), c.want)
		}
	}
}

func TestNthWeekdayOfMonth_NoSuchOccurrence(t *testing.T) {
	// February 2025 has only four Fridays.
	if _, err := NthWeekdayOfMonth(2025, time.February, 5, time.Friday); err == nil {
		t.Error("expected error for a 5th Friday in February 2025")
	}
	if _, err := NthWeekdayOfMonth(2025, time.March, 0, time.Monday); err == nil {
		t.Error("expected error for nth = 0")
	}
}

func TestDateForYear_FixedDay(t *testing.T) {
	day := 17
	p := RecurringPattern{Month: time.August, Day: &day}

	got, err := p.DateForYear(2026)
	if err != nil {
		t.Fatalf("DateForYear returned error: %v", err)
	}
	if got.Format("2006-01-02") != "2026-08-17" {
		t.Errorf("DateForYear(2026) = %s, want 2026-08-17", got.Format("2006-01-02"))
	}
}

func TestDateForYear_NthWeekday(t *testing.T) {
	nth := 3
	dow := time.Monday
	p := RecurringPattern{Month: time.March, Nth: &nth, DayOfWeek: &dow}

	got, err := p.DateForYear(2027)
	if err != nil {
		t.Fatalf("DateForYear returned error: %v", err)
	}
	if got.Format("2006-01-02") != "2027-03-15" {
		t.Errorf("DateForYear(2027) = %s, want 2027-03-15", got.Format("2006-01-02"))
	}
}

func TestDateForYear_InvalidPattern(t *testing.T) {
	p := RecurringPattern{Month: time.March}
	if _, err := p.DateForYear(2027); err == nil {
		t.Error("pattern without day or nth/weekday should error")
	}
}

func TestHolidayCovers(t *testing.T) {
	start := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC)
	h := Holiday{Date: start, EndDate: &end}

	if !h.Covers(time.Date(2026, 3, 21, 15, 30, 0, 0, time.UTC)) {
		t.Error("mid-span date with a time component should be covered")
	}
	if h.Covers(time.Date(2026, 3, 23, 0, 0, 0, 0, time.UTC)) {
		t.Error("date past the span should not be covered")
	}

	single := Holiday{Date: start}
	if !single.Covers(start) {
		t.Error("single-day holiday should cover its own date")
	}
	if single.Covers(start.AddDate(0, 0, 1)) {
		t.Error("single-day holiday should not cover the next day")
	}
}

func TestAppliesToBranch(t *testing.T) {
	global := Holiday{}
	if !global.AppliesToBranch("any-branch") {
		t.Error("holiday without branch scoping should apply everywhere")
	}

	scoped := Holiday{BranchIDs: []string{"branch-1", "branch-2"}}
	if !scoped.AppliesToBranch("branch-2") {
		t.Error("scoped holiday should apply to a listed branch")
	}
	if scoped.AppliesToBranch("branch-3") {
		t.Error("scoped holiday should not apply to an unlisted branch")
	}
}
