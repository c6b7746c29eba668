package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, holiday Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string, companyID string) (Holiday, error)
	List(ctx context.Context, companyID string, filter HolidayFilter) ([]Holiday, int64, error)
	Update(ctx context.Context, holiday Holiday) error
	Delete(ctx context.Context, id string, companyID string) error

	// ListRecurring returns every recurring template for the company.
	ListRecurring(ctx context.Context, companyID string) ([]Holiday, error)

	// ExistsByNameInRange reports whether a non-recurring holiday with the
	// given name has a date inside [from, to]. Used for idempotent
	// generation.
	ExistsByNameInRange(ctx context.Context, companyID, name string, from, to time.Time) (bool, error)

	// ListCovering returns non-recurring holidays whose [date, end_date]
	// span contains the given date.
	ListCovering(ctx context.Context, companyID string, date time.Time) ([]Holiday, error)
}
