package response

import (
	"errors"
	"net/http"

	"github.com/kargo-erp/hr-backend-go/internal/domain/attendance"
	"github.com/kargo-erp/hr-backend-go/internal/domain/auth"
	"github.com/kargo-erp/hr-backend-go/internal/domain/company"
	"github.com/kargo-erp/hr-backend-go/internal/domain/correction"
	"github.com/kargo-erp/hr-backend-go/internal/domain/employee"
	"github.com/kargo-erp/hr-backend-go/internal/domain/holiday"
	"github.com/kargo-erp/hr-backend-go/internal/domain/master/branch"
	"github.com/kargo-erp/hr-backend-go/internal/domain/schedule"
	"github.com/kargo-erp/hr-backend-go/internal/domain/user"
	"github.com/kargo-erp/hr-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrCompanyNotFound), errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, company.ErrCompanyUsernameExists):
		Conflict(w, "Company username already exists")

	// Employee and branch errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is not active")
	case errors.Is(err, branch.ErrBranchNameExists):
		Conflict(w, err.Error())
	case errors.Is(err, branch.ErrBranchNotFound):
		NotFound(w, "Branch not found")

	// Schedule domain errors
	case errors.Is(err, schedule.ErrWorkScheduleNotFound):
		NotFound(w, "Work schedule not found")
	case errors.Is(err, schedule.ErrWorkScheduleNameExists):
		Conflict(w, "Work schedule with this name already exists")
	case errors.Is(err, schedule.ErrInvalidScheduleKind):
		BadRequest(w, "Invalid schedule kind", nil)
	case errors.Is(err, schedule.ErrShiftRequired):
		BadRequest(w, "Shift name does not exist in the schedule", nil)
	case errors.Is(err, schedule.ErrAssignmentNotFound):
		NotFound(w, "Schedule assignment not found")
	case errors.Is(err, schedule.ErrNoActiveSchedule):
		NotFound(w, "No active schedule for this date")
	case errors.Is(err, schedule.ErrOverrideNotFound):
		NotFound(w, "Schedule override not found")
	case errors.Is(err, schedule.ErrInvalidDateFormat):
		BadRequest(w, "Invalid date format, expected YYYY-MM-DD", nil)

	// Holiday domain errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrInvalidPattern):
		BadRequest(w, "Invalid recurring pattern", nil)
	case errors.Is(err, holiday.ErrNameExists):
		Conflict(w, "Holiday already exists for the date")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "No check-in recorded for today", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out today")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Correction domain errors
	case errors.Is(err, correction.ErrCorrectionNotFound):
		NotFound(w, "Correction request not found")
	case errors.Is(err, correction.ErrAlreadyProcessed):
		Conflict(w, "Correction request already processed")
	case errors.Is(err, correction.ErrInvalidRequestType):
		BadRequest(w, "Invalid correction request type", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
