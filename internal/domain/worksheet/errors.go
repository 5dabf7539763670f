package worksheet

import "errors"

var (
	ErrEmailRequired = errors.New("employee email is required")
	ErrDateRequired  = errors.New("work date is required")
	ErrHoursInvalid  = errors.New("hours must be non-negative")
	ErrEntryNotFound = errors.New("worksheet entry not found")
)
