package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("access denied")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("already exists")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("invalid credentials")
)

// FieldError describes one rejected input field
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationError carries field-level messages and matches ErrInvalidInput
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s %s", e.Message, e.Fields[0].Field, e.Fields[0].Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Invalid builds a ValidationError for a single field
func Invalid(field, message string) error {
	return &ValidationError{Message: "validation failed", Fields: []FieldError{{Field: field, Message: message}}}
}
