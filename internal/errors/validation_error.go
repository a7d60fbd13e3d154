package errors

import (
	"errors"
	"strings"
)

// ValidationError is returned before any remote interaction when a candidate
// value is rejected locally.
type ValidationError struct {
	Reasons []string
}

func NewValidationError(reasons ...string) *ValidationError {
	return &ValidationError{Reasons: reasons}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Reasons, "; ")
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
