package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Source errors
	ErrSourceUnavailable = fmt.Errorf("contact source unavailable")
	ErrFieldUnreadable   = fmt.Errorf("field unreadable")
	ErrOutOfRange        = fmt.Errorf("contact index out of range")
	ErrNoOwner           = fmt.Errorf("no owner card")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
