package holiday

import "errors"

var (
	ErrHolidayNotFound = errors.New("holiday not found")
	ErrInvalidPattern  = errors.New("recurring holiday requires a valid recurring pattern")
	ErrNameExists      = errors.New("holiday with this name already exists for the date")
)
