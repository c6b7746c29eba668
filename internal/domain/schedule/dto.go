package schedule

import (
	"github.com/kargo-erp/hr-backend-go/internal/pkg/validator"
)

// ========================================
// WORK SCHEDULE DTOs
// ========================================

type CreateWorkScheduleRequest struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	WorkDays []int  `json:"work_days"`

	// fixed payload
	StartTime    *string `json:"start_time,omitempty"` // "15:04"
	EndTime      *string `json:"end_time,omitempty"`
	BreakMinutes *int    `json:"break_minutes,omitempty"`

	// flexible payload
	CoreStartTime *string  `json:"core_start_time,omitempty"`
	CoreEndTime   *string  `json:"core_end_time,omitempty"`
	MinWorkHours  *float64 `json:"min_work_hours,omitempty"`

	// shift payload
	Shifts []CreateShiftRequest `json:"shifts,omitempty"`
}

type CreateShiftRequest struct {
	Name         string `json:"name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	BreakMinutes int    `json:"break_minutes"`
}

func (r *CreateWorkScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	kindValid := false
	for _, k := range ScheduleKindValues {
		if r.Kind == k {
			kindValid = true
			break
		}
	}
	if !kindValid {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of fixed, shift, flexible",
		})
	}

	if len(r.WorkDays) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "work_days",
			Message: "at least one work day is required",
		})
	}
	for _, d := range r.WorkDays {
		if d < 0 || d > 6 {
			errs = append(errs, validator.ValidationError{
				Field:   "work_days",
				Message: "work days must be between 0 (Sunday) and 6 (Saturday)",
			})
			break
		}
	}

	// Exactly the payload required by the kind must be present.
	switch ScheduleKind(r.Kind) {
	case KindFixed:
		if r.StartTime == nil || !validator.IsValidTimeOfDay(*r.StartTime) {
			errs = append(errs, validator.ValidationError{
				Field:   "start_time",
				Message: "start_time is required in HH:MM format",
			})
		}
		if r.EndTime == nil || !validator.IsValidTimeOfDay(*r.EndTime) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_time",
				Message: "end_time is required in HH:MM format",
			})
		}
		if r.BreakMinutes != nil && *r.BreakMinutes < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "break_minutes",
				Message: "break_minutes must not be negative",
			})
		}
	case KindShift:
		if len(r.Shifts) == 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "shifts",
				Message: "shift schedule requires at least one shift",
			})
		}
		for _, s := range r.Shifts {
			if validator.IsEmpty(s.Name) || !validator.IsValidTimeOfDay(s.StartTime) || !validator.IsValidTimeOfDay(s.EndTime) {
				errs = append(errs, validator.ValidationError{
					Field:   "shifts",
					Message: "each shift requires name, start_time and end_time (HH:MM)",
				})
				break
			}
		}
	case KindFlexible:
		if r.CoreStartTime == nil || !validator.IsValidTimeOfDay(*r.CoreStartTime) {
			errs = append(errs, validator.ValidationError{
				Field:   "core_start_time",
				Message: "core_start_time is required in HH:MM format",
			})
		}
		if r.CoreEndTime == nil || !validator.IsValidTimeOfDay(*r.CoreEndTime) {
			errs = append(errs, validator.ValidationError{
				Field:   "core_end_time",
				Message: "core_end_time is required in HH:MM format",
			})
		}
		if r.MinWorkHours == nil || *r.MinWorkHours <= 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "min_work_hours",
				Message: "min_work_hours must be greater than zero",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type WorkScheduleFilter struct {
	Name  string
	Kind  string
	Page  int
	Limit int
}

type ShiftResponse struct {
	Name         string `json:"name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	BreakMinutes int    `json:"break_minutes"`
}

type WorkScheduleResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Kind         string          `json:"kind"`
	WorkDays     []int           `json:"work_days"`
	StartTime    *string         `json:"start_time,omitempty"`
	EndTime      *string         `json:"end_time,omitempty"`
	BreakMinutes *int            `json:"break_minutes,omitempty"`
	CoreStart    *string         `json:"core_start_time,omitempty"`
	CoreEnd      *string         `json:"core_end_time,omitempty"`
	MinWorkHours *float64        `json:"min_work_hours,omitempty"`
	Shifts       []ShiftResponse `json:"shifts,omitempty"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

type ListWorkScheduleResponse struct {
	TotalCount    int64                  `json:"total_count"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	WorkSchedules []WorkScheduleResponse `json:"work_schedules"`
}

// ========================================
// ASSIGNMENT DTOs
// ========================================

type AssignScheduleRequest struct {
	EmployeeID     string  `json:"employee_id"`
	WorkScheduleID string  `json:"work_schedule_id"`
	ShiftName      *string `json:"shift_name,omitempty"`
	EffectiveDate  string  `json:"effective_date"`        // "2006-01-02"
	ExpiryDate     *string `json:"expiry_date,omitempty"` // nil = open-ended
}

func (r *AssignScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if validator.IsEmpty(r.WorkScheduleID) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_schedule_id",
			Message: "work_schedule_id is required",
		})
	}

	effective, ok := validator.IsValidDate(r.EffectiveDate)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "effective_date",
			Message: "effective_date is required in YYYY-MM-DD format",
		})
	}
	if r.ExpiryDate != nil {
		expiry, ok := validator.IsValidDate(*r.ExpiryDate)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "expiry_date",
				Message: "expiry_date must be in YYYY-MM-DD format",
			})
		} else if expiry.Before(effective) {
			errs = append(errs, validator.ValidationError{
				Field:   "expiry_date",
				Message: "expiry_date must not be before effective_date",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ScheduleAssignmentResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	WorkScheduleID string  `json:"work_schedule_id"`
	ShiftName      *string `json:"shift_name,omitempty"`
	EffectiveDate  string  `json:"effective_date"`
	ExpiryDate     *string `json:"expiry_date,omitempty"`
}

// ========================================
// OVERRIDE DTOs
// ========================================

type AddOverrideRequest struct {
	EmployeeID     string `json:"employee_id"`
	Date           string `json:"date"`
	WorkScheduleID string `json:"work_schedule_id"`
	Reason         string `json:"reason"`
}

func (r *AddOverrideRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if validator.IsEmpty(r.WorkScheduleID) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_schedule_id",
			Message: "work_schedule_id is required",
		})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required in YYYY-MM-DD format",
		})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RemoveOverrideRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
}

func (r *RemoveOverrideRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ScheduleOverrideResponse struct {
	ID             string `json:"id"`
	EmployeeID     string `json:"employee_id"`
	Date           string `json:"date"`
	WorkScheduleID string `json:"work_schedule_id"`
	Reason         string `json:"reason"`
	CreatedBy      string `json:"created_by"`
	CreatedAt      string `json:"created_at"`
}

// ========================================
// RESOLUTION DTOs
// ========================================

type ResolvedScheduleResponse struct {
	Schedule  WorkScheduleResponse `json:"schedule"`
	ShiftName *string              `json:"shift_name,omitempty"`
	Source    string               `json:"source"`
}

type DayHoursResponse struct {
	Date         string   `json:"date"`
	IsWorkDay    bool     `json:"is_work_day"`
	WorkHours    float64  `json:"work_hours"`
	StartTime    *string  `json:"start_time,omitempty"`
	EndTime      *string  `json:"end_time,omitempty"`
	BreakMinutes int      `json:"break_minutes"`
}
