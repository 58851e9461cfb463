package domain

import "errors"

// Error taxonomy surfaced by the engine. Parse failures are deliberately
// absent: an unparseable description is a soft fallback, not an error.
var (
	ErrInvalidAmount          = errors.New("amount must be a non-negative number")
	ErrMissingName            = errors.New("customer name is required")
	ErrUnknownScope           = errors.New("unknown delete scope")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)
