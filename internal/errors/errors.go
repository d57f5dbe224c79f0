// Package errors provides centralized error definitions and error handling
// utilities for triage. It defines sentinel errors, semantic error types with
// context builders, and classification helpers.
//
// # Error Types
//
// Input errors describe problems in user-supplied files:
//   - ScriptError: a command script line that could not be parsed or run
//   - PlanError: a plan file that could not be decoded or validated
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//
// The scheduler itself never returns errors for unknown identifiers or an
// empty ready queue; those are reported as plain results. [ErrEmptyQueue] is
// only used as the panic value when the heap is popped while empty.
//
// # Usage
//
//	err := errors.NewScriptError("unknown command", errors.ErrInvalidCommand).
//	    WithLocation("jobs.txt", 12)
//
//	if errors.Is(err, errors.ErrInvalidCommand) { ... }
//
//	var scriptErr *errors.ScriptError
//	if errors.As(err, &scriptErr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Scheduler sentinel errors
var (
	// ErrEmptyQueue is the panic value raised when the ready queue is popped
	// while it holds no tasks.
	ErrEmptyQueue = New("ready queue is empty")
	// ErrTaskNotFound indicates that a task could not be found.
	ErrTaskNotFound = New("task not found")
)

// Input sentinel errors
var (
	// ErrInvalidCommand indicates a malformed command script line.
	ErrInvalidCommand = New("invalid command")
	// ErrInvalidPlan indicates a plan file that failed validation.
	ErrInvalidPlan = New("invalid plan")
	// ErrUnsupportedFormat indicates a file extension no loader understands.
	ErrUnsupportedFormat = New("unsupported file format")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Input Errors
// -----------------------------------------------------------------------------

// ScriptError reports a failure while parsing or running a command script.
type ScriptError struct {
	Message string
	File    string
	Line    int
	Command string
	Cause   error
}

// NewScriptError creates a new ScriptError.
func NewScriptError(message string, cause error) *ScriptError {
	return &ScriptError{Message: message, Cause: cause}
}

// WithLocation sets the file and 1-based line number of the failing command.
func (e *ScriptError) WithLocation(file string, line int) *ScriptError {
	e.File = file
	e.Line = line
	return e
}

// WithCommand records the raw command text.
func (e *ScriptError) WithCommand(command string) *ScriptError {
	e.Command = command
	return e
}

func (e *ScriptError) Error() string {
	var sb strings.Builder
	switch {
	case e.File != "" && e.Line > 0:
		fmt.Fprintf(&sb, "%s:%d: ", e.File, e.Line)
	case e.Line > 0:
		fmt.Fprintf(&sb, "line %d: ", e.Line)
	}
	sb.WriteString(e.Message)
	if e.Command != "" {
		fmt.Fprintf(&sb, " (%q)", e.Command)
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

func (e *ScriptError) Unwrap() error { return e.Cause }

// PlanError reports a failure while loading or validating a plan file.
type PlanError struct {
	Message string
	File    string
	TaskID  string
	Cause   error
}

// NewPlanError creates a new PlanError.
func NewPlanError(message string, cause error) *PlanError {
	return &PlanError{Message: message, Cause: cause}
}

// WithFile sets the plan file path.
func (e *PlanError) WithFile(path string) *PlanError {
	e.File = path
	return e
}

// WithTask sets the task identifier the error refers to.
func (e *PlanError) WithTask(id string) *PlanError {
	e.TaskID = id
	return e
}

func (e *PlanError) Error() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if e.TaskID != "" {
		fmt.Fprintf(&sb, " [task=%s]", e.TaskID)
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

func (e *PlanError) Unwrap() error { return e.Cause }

// Is matches ErrInvalidPlan.
func (e *PlanError) Is(target error) bool {
	return target == ErrInvalidPlan
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError indicates that a requested resource was not found.
type NotFoundError struct {
	ResourceType string
	ResourceID   string
	Cause        error
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{ResourceType: resourceType, ResourceID: resourceID}
}

// WithCause sets the underlying cause.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.Cause = cause
	return e
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.ResourceType, e.ResourceID)
}

func (e *NotFoundError) Unwrap() error { return e.Cause }

// Is matches ErrTaskNotFound for task resources.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrTaskNotFound && e.ResourceType == "task"
}

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
	Field   string
	Value   any
	Cause   error
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// WithField sets the offending field name.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue sets the offending value.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause sets the underlying cause.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.Cause = cause
	return e
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation error")
	if e.Field != "" {
		fmt.Fprintf(&sb, " [field=%s]", e.Field)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Value != nil {
		fmt.Fprintf(&sb, " (got: %v)", e.Value)
	}
	return sb.String()
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// Is matches ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing reports whether err describes a problem in user-supplied input
// and can be shown without a stack of internal context.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var scriptErr *ScriptError
	var planErr *PlanError
	var validationErr *ValidationError
	var notFoundErr *NotFoundError
	return As(err, &scriptErr) || As(err, &planErr) ||
		As(err, &validationErr) || As(err, &notFoundErr) ||
		Is(err, ErrUnsupportedFormat)
}

// Wrap wraps err with an additional message. Returns nil if err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps err with a formatted message. Returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
