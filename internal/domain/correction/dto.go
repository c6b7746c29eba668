package correction

import (
	"github.com/kargo-erp/hr-backend-go/internal/domain/attendance"
	"github.com/kargo-erp/hr-backend-go/internal/pkg/validator"
)

// ========================================
// CORRECTION DTOs
// ========================================

type SubmitRequest struct {
	AttendanceID string  `json:"attendance_id"`
	RequestType  string  `json:"request_type"`
	NewCheckIn   *string `json:"new_check_in,omitempty"`  // "2006-01-02 15:04:05"
	NewCheckOut  *string `json:"new_check_out,omitempty"` // "2006-01-02 15:04:05"
	NewStatus    *string `json:"new_status,omitempty"`
	Reason       string  `json:"reason"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AttendanceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id is required",
		})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	typeValid := false
	for _, t := range RequestTypeValues {
		if r.RequestType == t {
			typeValid = true
			break
		}
	}
	if !typeValid {
		errs = append(errs, validator.ValidationError{
			Field:   "request_type",
			Message: "request_type must be one of check_in, check_out, both, status",
		})
	}

	// The required new* fields depend on the request type.
	needCheckIn := r.RequestType == string(TypeCheckIn) || r.RequestType == string(TypeBoth)
	needCheckOut := r.RequestType == string(TypeCheckOut) || r.RequestType == string(TypeBoth)
	if needCheckIn {
		if r.NewCheckIn == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "new_check_in",
				Message: "new_check_in is required in YYYY-MM-DD HH:MM:SS format",
			})
		} else if _, ok := validator.IsValidDateTime(*r.NewCheckIn); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "new_check_in",
				Message: "new_check_in is required in YYYY-MM-DD HH:MM:SS format",
			})
		}
	}
	if needCheckOut {
		if r.NewCheckOut == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "new_check_out",
				Message: "new_check_out is required in YYYY-MM-DD HH:MM:SS format",
			})
		} else if _, ok := validator.IsValidDateTime(*r.NewCheckOut); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "new_check_out",
				Message: "new_check_out is required in YYYY-MM-DD HH:MM:SS format",
			})
		}
	}
	if r.RequestType == string(TypeStatus) {
		if r.NewStatus == nil || !attendance.IsValidStatus(*r.NewStatus) {
			errs = append(errs, validator.ValidationError{
				Field:   "new_status",
				Message: "new_status is required and must be a valid attendance status",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecisionRequest struct {
	ID       string `json:"id"`
	Comments string `json:"comments,omitempty"`
}

func (r *DecisionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CorrectionFilter struct {
	EmployeeID string
	Status     string
	Page       int
	Limit      int
}

type ApprovalEntryResponse struct {
	Status    string `json:"status"`
	ActorID   string `json:"actor_id"`
	Timestamp string `json:"timestamp"`
	Comments  string `json:"comments,omitempty"`
}

type CorrectionResponse struct {
	ID           string                  `json:"id"`
	AttendanceID string                  `json:"attendance_id"`
	EmployeeID   string                  `json:"employee_id"`
	RequestType  string                  `json:"request_type"`
	OldCheckIn   *string                 `json:"old_check_in,omitempty"`
	OldCheckOut  *string                 `json:"old_check_out,omitempty"`
	OldStatus    *string                 `json:"old_status,omitempty"`
	NewCheckIn   *string                 `json:"new_check_in,omitempty"`
	NewCheckOut  *string                 `json:"new_check_out,omitempty"`
	NewStatus    *string                 `json:"new_status,omitempty"`
	Reason       string                  `json:"reason"`
	Status       string                  `json:"status"`
	History      []ApprovalEntryResponse `json:"approval_history"`
	CreatedAt    string                  `json:"created_at"`
}

type ListCorrectionResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	Corrections []CorrectionResponse `json:"corrections"`
}
