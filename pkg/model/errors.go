package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the simulation error taxonomy
var (
	// ErrInvalidParameter marks inputs outside their documented domain.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrStateInvariant marks compartment bookkeeping that no longer matches the contact graph.
	ErrStateInvariant = errors.New("state invariant violation")
	// ErrUnknownCommunity marks a community number outside the fixed topology.
	// It is a kind of ErrInvalidParameter.
	ErrUnknownCommunity = fmt.Errorf("%w: unknown community", ErrInvalidParameter)
)

// SimulationError provides structured error information for simulation operations.
type SimulationError struct {
	Op        string // Operation that failed (e.g., "Step", "Generate")
	Community int    // 1-based community number, 0 if not applicable
	Timestep  int    // Timestep the failure occurred in, -1 if not applicable
	Field     string // Parameter name, for parameter errors
	Cause     error
	Context   string
}

// Error implements the error interface.
func (e *SimulationError) Error() string {
	msg := e.Op
	if e.Community != 0 {
		msg += fmt.Sprintf(" community %d", e.Community)
	}
	if e.Timestep >= 0 {
		msg += fmt.Sprintf(" t=%d", e.Timestep)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %s)", e.Field)
	}
	if e.Context != "" {
		msg += fmt.Sprintf(" (%s)", e.Context)
	}
	return fmt.Sprintf("%s: %v", msg, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SimulationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches the cause.
func (e *SimulationError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building SimulationErrors.
type ErrorBuilder struct {
	err SimulationError
}

// NewError creates a new error builder for the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: SimulationError{Op: op, Timestep: -1}}
}

// Community sets the 1-based community number.
func (b *ErrorBuilder) Community(n int) *ErrorBuilder {
	b.err.Community = n
	return b
}

// Timestep sets the timestep.
func (b *ErrorBuilder) Timestep(t int) *ErrorBuilder {
	b.err.Timestep = t
	return b
}

// Field sets the offending parameter name.
func (b *ErrorBuilder) Field(name string) *ErrorBuilder {
	b.err.Field = name
	return b
}

// Context sets additional context information.
func (b *ErrorBuilder) Context(format string, args ...any) *ErrorBuilder {
	b.err.Context = fmt.Sprintf(format, args...)
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Build returns the constructed SimulationError.
func (b *ErrorBuilder) Build() *SimulationError {
	return &b.err
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// InvalidParameterError creates an invalid parameter error for the given field.
func InvalidParameterError(op, field string, format string, args ...any) error {
	return NewError(op).Field(field).Context(format, args...).Cause(ErrInvalidParameter).Err()
}

// InvariantError creates a state invariant error for a community.
func InvariantError(op string, community int, format string, args ...any) error {
	return NewError(op).Community(community).Context(format, args...).Cause(ErrStateInvariant).Err()
}

// IsInvalidParameter returns true if the error is a parameter error.
func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

// IsInvariantViolation returns true if the error signals desynchronized state.
func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrStateInvariant)
}
