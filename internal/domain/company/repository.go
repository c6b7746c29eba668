package company

import "context"

type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (Company, error)
	GetByUsername(ctx context.Context, username string) (Company, error)
	Create(ctx context.Context, newCompany Company) (Company, error)

	// List returns every company. Used by the cron holiday generator.
	List(ctx context.Context) ([]Company, error)
}
