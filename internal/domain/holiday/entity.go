package holiday

import "time"

type Holiday struct {
	ID          string
	CompanyID   string
	Name        string
	Date        time.Time
	EndDate     *time.Time // multi-day holidays; nil = single day
	Type        HolidayType
	Description *string
	IsRecurring bool
	Pattern     *RecurringPattern // required iff IsRecurring
	BranchIDs   []string          // empty = applies to every branch
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type HolidayType string

const (
	TypeNational  HolidayType = "national"
	TypeReligious HolidayType = "religious"
	TypeCompany   HolidayType = "company"
)

var HolidayTypeValues = []string{
	string(TypeNational),
	string(TypeReligious),
	string(TypeCompany),
}

// RecurringPattern describes a yearly-repeating rule: either a fixed
// month/day, or the Nth occurrence of a weekday within a month
// (e.g. 3rd Monday of March).
type RecurringPattern struct {
	Month     time.Month
	Day       *int // fixed-date form
	Nth       *int // Nth-weekday form
	DayOfWeek *time.Weekday
}

// AppliesToBranch reports whether the holiday covers the given branch.
// Holidays without branch scoping are global.
func (h Holiday) AppliesToBranch(branchID string) bool {
	if len(h.BranchIDs) == 0 {
		return true
	}
	for _, id := range h.BranchIDs {
		if id == branchID {
			return true
		}
	}
	return false
}

// Covers reports whether date falls inside the holiday's [Date, EndDate] span.
func (h Holiday) Covers(date time.Time) bool {
	day := truncateToDay(date)
	start := truncateToDay(h.Date)
	end := start
	if h.EndDate != nil {
		end = truncateToDay(*h.EndDate)
	}
	return !day.Before(start) && !day.After(end)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
