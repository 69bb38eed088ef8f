package errors

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrPermission         = errors.New("permission denied")
	ErrPersistence        = errors.New("persistence failure")
	ErrTimeout            = errors.New("operation timed out")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUpstream           = errors.New("upstream failure")
)

// ErrDeleteWindowExpired is returned when an expense is older than the delete window.
var ErrDeleteWindowExpired = fmt.Errorf("%w: delete window expired", ErrPermission)

// Validationf builds a validation error carrying a field-level message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
