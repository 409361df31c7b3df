package services

import (
	"errors"
	"fmt"
)

// ValidationError marks a caller-correctable input problem. Surfaced to the
// UI before any write is attempted; the error middleware maps it to a 422.
type ValidationError struct {
	msg string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.msg }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")
