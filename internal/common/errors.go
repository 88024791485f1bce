package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput marks caller-supplied values the engine refuses.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks lookups of captures or targets that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidConfiguration marks configuration files and structs that fail validation.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// WrapError prefixes err with message. A nil err stays nil.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapErrorf is WrapError with a formatted prefix.
func WrapErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return WrapError(err, fmt.Sprintf(format, args...))
}

func NewError(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// ValidationError reports one rejected argument or option value.
// It matches ErrInvalidInput under errors.Is.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigProblem is a single field that failed a configuration rule.
type ConfigProblem struct {
	Field string // dotted path below the root config, e.g. DiffConfig.Algorithm
	Rule  string
	Param string
	Value any
}

func (p ConfigProblem) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: rule '%s'", p.Field, p.Rule)
	if p.Param != "" {
		fmt.Fprintf(&b, " (expected: %s)", p.Param)
	}
	if p.Value != nil && p.Value != "" {
		fmt.Fprintf(&b, ", got '%v'", p.Value)
	}
	return b.String()
}

// ConfigurationError carries every problem found while validating a
// configuration, or a single reason when validation could not start.
type ConfigurationError struct {
	Reason   string
	Problems []ConfigProblem
}

func (e *ConfigurationError) Error() string {
	switch len(e.Problems) {
	case 0:
		return "invalid configuration: " + e.Reason
	case 1:
		return "invalid configuration: " + e.Problems[0].String()
	}
	lines := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		lines[i] = p.String()
	}
	return fmt.Sprintf("invalid configuration (%d problems):\n  %s", len(e.Problems), strings.Join(lines, "\n  "))
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// NewConfigurationError reports a configuration that could not be validated at all.
func NewConfigurationError(reason string) *ConfigurationError {
	return &ConfigurationError{Reason: reason}
}

// NewConfigProblemsError bundles field problems into one error. It returns
// nil when problems is empty.
func NewConfigProblemsError(problems []ConfigProblem) error {
	if len(problems) == 0 {
		return nil
	}
	return &ConfigurationError{Problems: problems}
}
