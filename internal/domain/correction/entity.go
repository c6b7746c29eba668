package correction

import "time"

// CorrectionRequest is a proposed retroactive edit to an attendance record.
// It snapshots the record's current values at submission and holds the
// proposed ones until an approver decides.
type CorrectionRequest struct {
	ID           string
	AttendanceID string
	EmployeeID   string
	CompanyID    string
	RequestType  RequestType

	OldCheckIn  *time.Time
	OldCheckOut *time.Time
	OldStatus   *string

	NewCheckIn  *time.Time
	NewCheckOut *time.Time
	NewStatus   *string

	Reason  string
	Status  Status
	History []ApprovalEntry // append-only

	CreatedAt time.Time
	UpdatedAt time.Time
}

type RequestType string

const (
	TypeCheckIn  RequestType = "check_in"
	TypeCheckOut RequestType = "check_out"
	TypeBoth     RequestType = "both"
	TypeStatus   RequestType = "status"
)

var RequestTypeValues = []string{
	string(TypeCheckIn),
	string(TypeCheckOut),
	string(TypeBoth),
	string(TypeStatus),
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsTerminal reports whether the request can no longer transition.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type ApprovalEntry struct {
	Status    Status    `json:"status"`
	ActorID   string    `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
	Comments  string    `json:"comments,omitempty"`
}
