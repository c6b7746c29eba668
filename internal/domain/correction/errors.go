package correction

import "errors"

var (
	ErrCorrectionNotFound = errors.New("correction request not found")
	ErrAlreadyProcessed   = errors.New("correction request has already been approved or rejected")
	ErrInvalidRequestType = errors.New("invalid correction request type")
)
