package schedule

import "time"

type WorkSchedule struct {
	ID        string
	CompanyID string
	Name      string
	Kind      ScheduleKind
	WorkDays  []int // 0=Sunday, ..., 6=Saturday

	// fixed
	StartTime    *time.Time
	EndTime      *time.Time
	BreakMinutes *int

	// flexible
	CoreStartTime *time.Time
	CoreEndTime   *time.Time
	MinWorkHours  *float64

	// shift
	Shifts []Shift

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ScheduleKind string

const (
	KindFixed    ScheduleKind = "fixed"
	KindShift    ScheduleKind = "shift"
	KindFlexible ScheduleKind = "flexible"
)

var ScheduleKindValues = []string{
	string(KindFixed),
	string(KindShift),
	string(KindFlexible),
}

type Shift struct {
	ID             string
	WorkScheduleID string
	Position       int // order within the schedule, 0 = first
	Name           string
	StartTime      time.Time
	EndTime        time.Time
	BreakMinutes   int
}

// ScheduleAssignment binds an employee to a schedule over a
// [EffectiveDate, ExpiryDate] interval. A nil ExpiryDate means open-ended.
// ShiftName selects a shift for shift-kind schedules; nil falls back to the
// schedule's first shift.
type ScheduleAssignment struct {
	ID             string
	EmployeeID     string
	CompanyID      string
	WorkScheduleID string
	ShiftName      *string
	EffectiveDate  time.Time
	ExpiryDate     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ScheduleOverride shadows the interval-based assignment for a single date.
// At most one override exists per employee per date.
type ScheduleOverride struct {
	ID             string
	EmployeeID     string
	CompanyID      string
	Date           time.Time
	WorkScheduleID string
	Reason         string
	CreatedBy      string
	CreatedAt      time.Time
}

// ResolvedSchedule is the outcome of effective-date resolution for an
// employee on a date.
type ResolvedSchedule struct {
	Schedule  WorkSchedule
	ShiftName *string
	// Source is "override" when a single-date override won, otherwise "assignment".
	Source string
}

type DayHours struct {
	IsWorkDay    bool
	WorkHours    float64
	StartTime    *time.Time
	EndTime      *time.Time
	BreakMinutes int
}
