package services

import (
	"errors"

	"schedulepro/internal/repositories"
)

// ValidationError carries a user-facing message for a rejected request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(message string) error {
	return &ValidationError{Message: message}
}

// IsValidationError reports whether err is or wraps a *ValidationError and returns it.
func IsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

var (
	ErrNotFound  = repositories.ErrNotFound
	ErrDuplicate = repositories.ErrDuplicate
)
