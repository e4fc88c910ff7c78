package domain

import (
	"errors"
	"fmt"
)

// ErrValidation marks missing or malformed input. Wrap it with
// NewValidationError so the message reaches the client.
var ErrValidation = errors.New("validation failed")

// ValidationError carries a client-safe description of the invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
