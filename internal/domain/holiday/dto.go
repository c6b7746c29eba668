package holiday

import (
	"github.com/kargo-erp/hr-backend-go/internal/pkg/validator"
)

type RecurringPatternRequest struct {
	Month     int  `json:"month"`
	Day       *int `json:"day,omitempty"`
	Nth       *int `json:"nth_occurrence,omitempty"`
	DayOfWeek *int `json:"day_of_week,omitempty"` // 0=Sunday, ..., 6=Saturday
}

type CreateHolidayRequest struct {
	Name        string                   `json:"name"`
	Date        string                   `json:"date"`
	EndDate     *string                  `json:"end_date,omitempty"`
	Type        string                   `json:"type"`
	Description *string                  `json:"description,omitempty"`
	IsRecurring bool                     `json:"is_recurring"`
	Pattern     *RecurringPatternRequest `json:"recurring_pattern,omitempty"`
	BranchIDs   []string                 `json:"branch_ids,omitempty"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	date, ok := validator.IsValidDate(r.Date)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required in YYYY-MM-DD format",
		})
	}
	if r.EndDate != nil {
		endDate, ok := validator.IsValidDate(*r.EndDate)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		} else if endDate.Before(date) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before date",
			})
		}
	}

	typeValid := false
	for _, t := range HolidayTypeValues {
		if r.Type == t {
			typeValid = true
			break
		}
	}
	if !typeValid {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of national, religious, company",
		})
	}

	// recurring_pattern is required iff is_recurring.
	if r.IsRecurring {
		if r.Pattern == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "recurring_pattern",
				Message: "recurring_pattern is required for recurring holidays",
			})
		} else {
			if r.Pattern.Month < 1 || r.Pattern.Month > 12 {
				errs = append(errs, validator.ValidationError{
					Field:   "recurring_pattern.month",
					Message: "month must be between 1 and 12",
				})
			}
			hasDay := r.Pattern.Day != nil
			hasNth := r.Pattern.Nth != nil && r.Pattern.DayOfWeek != nil
			if hasDay == hasNth {
				errs = append(errs, validator.ValidationError{
					Field:   "recurring_pattern",
					Message: "pattern needs either a day, or an nth_occurrence with day_of_week",
				})
			}
			if hasDay && (*r.Pattern.Day < 1 || *r.Pattern.Day > 31) {
				errs = append(errs, validator.ValidationError{
					Field:   "recurring_pattern.day",
					Message: "day must be between 1 and 31",
				})
			}
			if hasNth {
				if *r.Pattern.Nth < 1 || *r.Pattern.Nth > 5 {
					errs = append(errs, validator.ValidationError{
						Field:   "recurring_pattern.nth_occurrence",
						Message: "nth_occurrence must be between 1 and 5",
					})
				}
				if *r.Pattern.DayOfWeek < 0 || *r.Pattern.DayOfWeek > 6 {
					errs = append(errs, validator.ValidationError{
						Field:   "recurring_pattern.day_of_week",
						Message: "day_of_week must be between 0 (Sunday) and 6 (Saturday)",
					})
				}
			}
		}
	} else if r.Pattern != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "recurring_pattern",
			Message: "recurring_pattern is only allowed for recurring holidays",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HolidayFilter struct {
	Year     int
	Type     string
	BranchID string
	Page     int
	Limit    int
}

type RecurringPatternResponse struct {
	Month     int  `json:"month"`
	Day       *int `json:"day,omitempty"`
	Nth       *int `json:"nth_occurrence,omitempty"`
	DayOfWeek *int `json:"day_of_week,omitempty"`
}

type HolidayResponse struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	Date        string                    `json:"date"`
	EndDate     *string                   `json:"end_date,omitempty"`
	Type        string                    `json:"type"`
	Description *string                   `json:"description,omitempty"`
	IsRecurring bool                      `json:"is_recurring"`
	Pattern     *RecurringPatternResponse `json:"recurring_pattern,omitempty"`
	BranchIDs   []string                  `json:"branch_ids,omitempty"`
}

type ListHolidayResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Holidays   []HolidayResponse `json:"holidays"`
}

// GenerationStatus is the per-template outcome of a generation run.
type GenerationStatus string

const (
	StatusGenerated     GenerationStatus = "generated"
	StatusAlreadyExists GenerationStatus = "already_exists"
	StatusError         GenerationStatus = "error"
)

type GenerationResult struct {
	Status  GenerationStatus `json:"status"`
	Name    string           `json:"name"`
	Date    *string          `json:"date,omitempty"`
	Message string           `json:"message,omitempty"`
}

type GenerateResponse struct {
	Year    int                `json:"year"`
	Results []GenerationResult `json:"results"`
}

// DayStatus is what the attendance engine asks about a date.
type DayStatus struct {
	IsHoliday bool
	Holiday   *Holiday
}
