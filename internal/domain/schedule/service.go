package schedule

import (
	"context"
	"time"
)

// ScheduleService defines business logic for work schedules, effective-dated
// assignments, and single-date overrides.
type ScheduleService interface {
	CreateWorkSchedule(ctx context.Context, req CreateWorkScheduleRequest) (WorkScheduleResponse, error)
	GetWorkSchedule(ctx context.Context, id string) (WorkScheduleResponse, error)
	ListWorkSchedules(ctx context.Context, filter WorkScheduleFilter) (ListWorkScheduleResponse, error)
	DeleteWorkSchedule(ctx context.Context, id string) error

	// Assign inserts an effective-dated assignment, truncating any existing
	// assignment whose interval overlaps the new one.
	Assign(ctx context.Context, req AssignScheduleRequest) (ScheduleAssignmentResponse, error)
	ListAssignments(ctx context.Context, employeeID string) ([]ScheduleAssignmentResponse, error)

	AddOverride(ctx context.Context, req AddOverrideRequest) (ScheduleOverrideResponse, error)
	RemoveOverride(ctx context.Context, req RemoveOverrideRequest) error
	ListOverrides(ctx context.Context, employeeID string) ([]ScheduleOverrideResponse, error)

	// Resolve returns the schedule in force for the employee on the date:
	// an exact-date override wins, otherwise the most recent unexpired
	// assignment. ErrNoActiveSchedule when neither exists.
	Resolve(ctx context.Context, employeeID string, date time.Time) (ResolvedSchedule, error)

	// GetDayHours resolves the schedule and computes the expected hours for
	// the date.
	GetDayHours(ctx context.Context, employeeID string, date time.Time) (DayHours, error)
}
