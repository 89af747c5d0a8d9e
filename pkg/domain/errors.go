package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSnapshotNotFound is returned when a tenant has no stored snapshot.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrInvalidInterval is returned when an interval ends before it starts.
var ErrInvalidInterval = errors.New("interval ends before it starts")

// Step configuration errors, collected into a ConfigError.
var (
	ErrEmptyStepID       = errors.New("step id is empty")
	ErrDuplicateStep     = errors.New("duplicate step id")
	ErrMissingGuard      = errors.New("step has no guard")
	ErrUnknownDependency = errors.New("unknown dependency")
	ErrSelfDependency    = errors.New("step depends on itself")
	ErrDependencyCycle   = errors.New("dependency cycle")
	ErrUnknownGuard      = errors.New("unknown guard")
)

// StepError attaches a step id to a configuration error.
type StepError struct {
	StepID StepID
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step '%s': %v", e.StepID, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ConfigError aggregates every problem found in a step list.
type ConfigError struct {
	Errors []error
}

func (e *ConfigError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d step configuration errors:", len(e.Errors))
	for _, err := range e.Errors {
		sb.WriteString("\n- ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *ConfigError) Unwrap() []error {
	return e.Errors
}

// GuardError reports a guard that could not be evaluated.
// The evaluation that hit it is discarded as a whole.
type GuardError struct {
	StepID StepID
	Cause  any
}

func (e *GuardError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("guard for step '%s' is nil", e.StepID)
	}
	return fmt.Sprintf("guard for step '%s' panicked: %v", e.StepID, e.Cause)
}

// Unwrap returns the cause when the guard panicked with an error value.
func (e *GuardError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}
