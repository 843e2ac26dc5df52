package valuation

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every input validation failure.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError identifies the field that violated its constraint.
type InvalidInputError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap allows errors.Is(err, ErrInvalidInput).
func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// NewInvalidInputError creates a new InvalidInputError.
func NewInvalidInputError(field string, value interface{}, message string) *InvalidInputError {
	return &InvalidInputError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// FieldOf returns the offending field name when err is an InvalidInputError.
func FieldOf(err error) (string, bool) {
	var inputErr *InvalidInputError
	if errors.As(err, &inputErr) {
		return inputErr.Field, true
	}
	return "", false
}
