package correction

import "context"

type CorrectionRepository interface {
	Create(ctx context.Context, req CorrectionRequest) (CorrectionRequest, error)
	GetByID(ctx context.Context, id string, companyID string) (CorrectionRequest, error)
	List(ctx context.Context, filter CorrectionFilter, companyID string) ([]CorrectionRequest, int64, error)

	// Update persists the request's status and approval history.
	Update(ctx context.Context, req CorrectionRequest) error
}
