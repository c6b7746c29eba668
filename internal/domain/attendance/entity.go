package attendance

import "time"

type Attendance struct {
	ID         string
	EmployeeID string
	CompanyID  string
	Date       time.Time // the work day, truncated to midnight
	CheckIn    *time.Time
	CheckOut   *time.Time

	// Location/device snapshots captured at check-in and check-out.
	CheckInLatitude   *float64
	CheckInLongitude  *float64
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	DeviceInfo        *string

	Status    Status
	WorkHours *float64 // elapsed hours, set at check-out
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
	StatusHoliday Status = "holiday"
)

var StatusValues = []string{
	string(StatusPresent),
	string(StatusLate),
	string(StatusHalfDay),
	string(StatusAbsent),
	string(StatusLeave),
	string(StatusHoliday),
}

func IsValidStatus(s string) bool {
	for _, v := range StatusValues {
		if s == v {
			return true
		}
	}
	return false
}
