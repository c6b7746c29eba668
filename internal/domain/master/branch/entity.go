package branch

import "time"

type Branch struct {
	ID        string
	CompanyID string
	Name      string
	Address   *string
	Timezone  string // IANA name, e.g. "Asia/Jakarta"
	CreatedAt time.Time
	UpdatedAt time.Time
}
