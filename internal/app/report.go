package app

import (
	"errors"
	"time"

	"github.com/bft-labs/packship/internal/domain"
	"github.com/bft-labs/packship/internal/testgen"
	"github.com/bft-labs/packship/internal/validate"
)

// Status classifies the outcome of a run.
type Status int

const (
	StatusOK Status = iota
	StatusWarnings
	StatusFailed
	StatusDefect
)

// Process exit codes per status.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitWarnings = 3
	ExitDefect   = 70
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusWarnings:
		return "ok with warnings"
	case StatusFailed:
		return "failed"
	case StatusDefect:
		return "internal defect"
	default:
		return "unknown"
	}
}

// ExitCode maps the status to a process exit code.
func (s Status) ExitCode() int {
	switch s {
	case StatusOK:
		return ExitOK
	case StatusWarnings:
		return ExitWarnings
	case StatusDefect:
		return ExitDefect
	default:
		return ExitFailure
	}
}

// StatusOf classifies a run error. A nil error with warnings is StatusWarnings.
func StatusOf(err error, warnings int) Status {
	switch {
	case err == nil && warnings > 0:
		return StatusWarnings
	case err == nil:
		return StatusOK
	case errors.Is(err, domain.ErrInternalDefect):
		return StatusDefect
	default:
		return StatusFailed
	}
}

// Report describes one run. On failure it carries whatever was computed
// before the failing step.
type Report struct {
	RunID     string
	SourceDir string

	// Generated is set when test files were synthesized.
	Generated *testgen.Result

	Partition *domain.Partition

	// Warnings holds scan skips followed by grouping warnings.
	Warnings []domain.Warning

	// Validation is set when validation was requested.
	Validation *validate.Result

	Manifest domain.ManifestHandle
	Status   Status
	Duration time.Duration
}
