package validation

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-sirs/pkg/model"
)

// FieldError describes one failed rule for one field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Result is the itemized outcome of validating a parameter set. The zero
// value is a successful result.
type Result struct {
	Errors []FieldError `json:"errors,omitempty"`
}

// Valid reports whether no rule failed.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Add records a failed rule.
func (r *Result) Add(field, rule, format string, args ...any) {
	r.Errors = append(r.Errors, FieldError{Field: field, Rule: rule, Message: fmt.Sprintf(format, args...)})
}

// Merge appends the errors from o for fields that have not failed yet.
func (r *Result) Merge(o Result) {
	for _, e := range o.Errors {
		if !r.hasField(e.Field) {
			r.Errors = append(r.Errors, e)
		}
	}
}

// Fields returns the names of the failing fields in report order.
func (r Result) Fields() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Field)
	}
	return out
}

// Err returns nil for a valid result, otherwise an *Error carrying every
// failure. The error matches model.ErrInvalidParameter.
func (r Result) Err(name string) error {
	if r.Valid() {
		return nil
	}
	return &Error{Name: name, Fields: r.Errors}
}

func (r Result) hasField(field string) bool {
	for _, e := range r.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Error is returned when a parameter set fails validation.
type Error struct {
	Name   string
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("%s validation failed with %d errors: %s", e.Name, len(e.Fields), strings.Join(parts, "; "))
}

// Unwrap ties validation failures into the InvalidParameter taxonomy.
func (e *Error) Unwrap() error {
	return model.ErrInvalidParameter
}
