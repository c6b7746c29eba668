package schedule

import "errors"

var (
	// Work Schedule Errors
	ErrWorkScheduleNotFound   = errors.New("work schedule not found")
	ErrWorkScheduleNameExists = errors.New("work schedule with this name already exists")
	ErrInvalidScheduleKind    = errors.New("invalid work schedule kind")
	ErrShiftRequired          = errors.New("shift schedule requires at least one shift entry")

	// Schedule Assignment Errors
	ErrAssignmentNotFound = errors.New("schedule assignment not found")
	ErrNoActiveSchedule   = errors.New("no active schedule for this date")

	// Schedule Override Errors
	ErrOverrideNotFound = errors.New("schedule override not found")

	// Validation Errors
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
)
