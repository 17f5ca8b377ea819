package service

import (
	"fmt"
	"strings"
)

// FieldViolation describes one rejected input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError reports malformed or out-of-range caller input.
type ValidationError struct {
	Message    string
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return e.Message
	}
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(fields, ", "))
}

// NotFoundError reports that a referenced resource does not exist.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ConflictError reports a submission that collides with existing state.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func invalidID(raw string) *ValidationError {
	return &ValidationError{
		Message: "invalid product id",
		Violations: []FieldViolation{{
			Field:   "id",
			Rule:    "positive_integer",
			Message: fmt.Sprintf("id must be a positive integer, got %q", raw),
		}},
	}
}

func productNotFound(id int64) *NotFoundError {
	return &NotFoundError{Resource: "product", ID: id}
}
