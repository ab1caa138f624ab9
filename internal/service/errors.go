package service

import "fmt"

// ValidationError signals a business rule violation caused by client input.
// Handlers map it to a 400 response; it is never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

var (
	ErrNonPositivePrice = NewValidationError("price must be positive")
	ErrFutureDate       = NewValidationError("purchase date cannot be in the future")
)
