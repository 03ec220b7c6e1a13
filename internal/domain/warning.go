package domain

import "fmt"

// WarningKind classifies a Warning.
type WarningKind string

const (
	// WarnOversize is recorded when a file alone exceeds the group ceiling.
	WarnOversize WarningKind = "oversize"

	// WarnSkipped is recorded when a directory entry could not be read.
	WarnSkipped WarningKind = "skipped"
)

// Warning is a non-fatal condition surfaced to the caller.
type Warning struct {
	Kind      WarningKind
	Path      string
	SizeBytes int64
	Message   string
}

func (w Warning) String() string {
	if w.Kind == WarnOversize {
		return fmt.Sprintf("%s: %s (%d bytes) %s", w.Kind, w.Path, w.SizeBytes, w.Message)
	}
	return fmt.Sprintf("%s: %s %s", w.Kind, w.Path, w.Message)
}
