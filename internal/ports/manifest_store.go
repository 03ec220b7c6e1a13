package ports

import (
	"context"

	"github.com/bft-labs/packship/internal/domain"
)

// ManifestStore persists a finished partition for downstream consumption.
type ManifestStore interface {
	// Save writes the partition and describes what was written.
	// The implementation should use atomic writes so readers never observe
	// a partial manifest, and must never modify the source files.
	Save(ctx context.Context, p *domain.Partition) (domain.ManifestHandle, error)
}
