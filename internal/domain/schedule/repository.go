package schedule

import (
	"context"
	"time"
)

type WorkScheduleRepository interface {
	Create(ctx context.Context, ws WorkSchedule) (WorkSchedule, error)
	GetByID(ctx context.Context, id string, companyID string) (WorkSchedule, error)
	GetByName(ctx context.Context, name string, companyID string) (WorkSchedule, error)
	List(ctx context.Context, companyID string, filter WorkScheduleFilter) ([]WorkSchedule, int64, error)
	Delete(ctx context.Context, id string, companyID string) error
}

type ScheduleAssignmentRepository interface {
	Create(ctx context.Context, assignment ScheduleAssignment) (ScheduleAssignment, error)
	GetByID(ctx context.Context, id string, companyID string) (ScheduleAssignment, error)
	GetByEmployeeID(ctx context.Context, employeeID string, companyID string) ([]ScheduleAssignment, error)

	// ListCovering returns assignments whose [effective, expiry] interval
	// contains date (nil expiry treated as open-ended).
	ListCovering(ctx context.Context, employeeID string, date time.Time, companyID string) ([]ScheduleAssignment, error)

	// UpdateExpiry sets the assignment's expiry date. Used by the overlap
	// truncation step of Assign.
	UpdateExpiry(ctx context.Context, id string, expiryDate time.Time) error

	Delete(ctx context.Context, id string, companyID string) error
}

type ScheduleOverrideRepository interface {
	// GetByEmployeeAndDate returns nil when no override exists for the date.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*ScheduleOverride, error)

	// Upsert inserts the override or replaces the existing one for the same
	// (employee, date) key.
	Upsert(ctx context.Context, override ScheduleOverride) (ScheduleOverride, error)

	DeleteByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) error
	ListByEmployee(ctx context.Context, employeeID string, companyID string) ([]ScheduleOverride, error)
}
