package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent error conditions in the packship domain.
// Typed errors below match these sentinels with errors.Is.
var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("packship: invalid configuration")

	// ErrSourceNotFound is returned when the source directory is missing.
	ErrSourceNotFound = errors.New("packship: source not found")

	// ErrWrite is returned when generated files or manifests cannot be written.
	ErrWrite = errors.New("packship: write failed")

	// ErrInternalDefect is returned when a finished partition breaks an invariant.
	ErrInternalDefect = errors.New("packship: internal defect")
)

// InvalidConfigError reports a configuration value that cannot be used.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidConfigError) Is(target error) bool { return target == ErrInvalidConfig }

// InvalidRangeError reports a min/max pair where min > max or a bound is negative.
type InvalidRangeError struct {
	Field string
	Min   int64
	Max   int64
}

func (e *InvalidRangeError) Error() string {
	if e.Min < 0 || e.Max < 0 {
		return fmt.Sprintf("invalid %s range [%d, %d]: bounds must not be negative", e.Field, e.Min, e.Max)
	}
	return fmt.Sprintf("invalid %s range [%d, %d]: min must be <= max", e.Field, e.Min, e.Max)
}

func (e *InvalidRangeError) Is(target error) bool { return target == ErrInvalidConfig }

// SourceNotFoundError reports a source path that does not exist or is not a directory.
type SourceNotFoundError struct {
	Path string
	Err  error
}

func (e *SourceNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source directory %q not found: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("source %q is not a directory", e.Path)
}

func (e *SourceNotFoundError) Unwrap() error { return e.Err }

func (e *SourceNotFoundError) Is(target error) bool { return target == ErrSourceNotFound }

// WriteError reports an I/O failure while writing a file.
type WriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (e *WriteError) Is(target error) bool { return target == ErrWrite }

// InvariantError reports partition invariant violations found by the validator.
// It always indicates a bug in a grouping strategy, never bad user input.
type InvariantError struct {
	Violations []string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("partition violates %d invariant(s): %s", len(e.Violations), strings.Join(e.Violations, "; "))
}

func (e *InvariantError) Is(target error) bool { return target == ErrInternalDefect }
