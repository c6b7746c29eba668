package company

import "time"

// Company is a tenant. Every branch, employee and schedule hangs off one,
// and every repository query is scoped by its id.
type Company struct {
	ID        string
	Name      string
	Username  string // unique slug used in login URLs
	Address   *string
	LogoURL   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
