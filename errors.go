package muxsup

import (
	"errors"
	"fmt"
)

// Common errors returned by supervisor and session-server operations
var (
	// ErrServerUnavailable indicates the session server could not be
	// started or reached. This is the supervisor's only fatal condition.
	ErrServerUnavailable = errors.New("muxsup: session server unavailable")

	// ErrSessionVanished indicates a session disappeared between creation
	// and dispatch
	ErrSessionVanished = errors.New("muxsup: session vanished before dispatch")

	// ErrEmptyTable indicates a run was attempted with no services
	ErrEmptyTable = errors.New("muxsup: empty service table")

	// ErrEmptyName indicates a descriptor with an empty name
	ErrEmptyName = errors.New("muxsup: empty service name")

	// ErrEmptyCommand indicates a descriptor with an empty command
	ErrEmptyCommand = errors.New("muxsup: empty service command")

	// ErrDuplicateName indicates two descriptors share a name
	ErrDuplicateName = errors.New("muxsup: duplicate service name")
)

// OpError represents an error from a session-server operation
type OpError struct {
	// Op is the operation that failed
	Op Operation
	// Target is the session name or server socket involved
	Target string
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *OpError) Error() string {
	return fmt.Sprintf("muxsup %s %q: %v", e.Op.String(), e.Target, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *OpError) Unwrap() error {
	return e.Err
}

// MultiError aggregates the recoverable per-service errors from a run
type MultiError struct {
	// Errors contains all accumulated errors
	Errors []error
}

// Error returns a summary of the accumulated errors
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred", len(m.Errors))
}

// Add appends an error to the collection if it's not nil
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Err returns nil if no errors occurred, otherwise returns the MultiError itself
func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}
