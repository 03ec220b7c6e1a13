package ports

import (
	"context"

	"github.com/bft-labs/packship/internal/domain"
)

// FileSource provides a single pass over file records.
// Implementations must not be iterated by more than one consumer.
type FileSource interface {
	// Next returns the next record.
	// Returns io.EOF once the source is exhausted; every later call also returns io.EOF.
	// Returns other errors for unrecoverable issues.
	Next(ctx context.Context) (domain.FileRecord, error)

	// Warnings returns the entries skipped so far.
	Warnings() []domain.Warning

	// Close releases all resources held by the source.
	Close() error
}
