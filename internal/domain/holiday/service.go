package holiday

import (
	"context"
	"time"
)

// HolidayService defines business logic for holiday definitions and the
// yearly recurrence generator.
type HolidayService interface {
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	Get(ctx context.Context, id string) (HolidayResponse, error)
	List(ctx context.Context, filter HolidayFilter) (ListHolidayResponse, error)
	Delete(ctx context.Context, id string) error

	// Generate materializes every recurring template into a concrete
	// holiday instance for the target year. Idempotent: templates whose
	// instance already exists report already_exists.
	Generate(ctx context.Context, year int) (GenerateResponse, error)

	// GenerateForCompany is Generate for an explicit company, for callers
	// without an authenticated context (cron).
	GenerateForCompany(ctx context.Context, companyID string, year int) (GenerateResponse, error)

	// DayStatusFor reports whether date is a holiday for the employee's
	// branch (branch-scoped holidays) or globally. branchID may be empty.
	DayStatusFor(ctx context.Context, companyID, branchID string, date time.Time) (DayStatus, error)
}
