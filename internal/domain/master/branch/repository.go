package branch

import "context"

type BranchRepository interface {
	Create(ctx context.Context, branch Branch) (Branch, error)
	GetByID(ctx context.Context, id string, companyID string) (Branch, error)
	GetByCompanyID(ctx context.Context, companyID string) ([]Branch, error)

	// GetTimezoneByEmployeeID returns the IANA timezone of the branch the
	// employee belongs to. Attendance uses it to compute the local work day.
	GetTimezoneByEmployeeID(ctx context.Context, employeeID string, companyID string) (string, error)
}
