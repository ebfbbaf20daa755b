package apperrors

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrCompanyNotFound = errors.New("company not found")
	ErrRevealFailed    = errors.New("contact reveal failed")
	ErrNoRecipient     = errors.New("recipient email missing")
	ErrNoTransport     = errors.New("email transport not configured")
)
