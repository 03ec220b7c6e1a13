package group

import (
	"cmp"
	"context"
	"slices"

	"github.com/bft-labs/packship/internal/domain"
	"github.com/bft-labs/packship/pkg/log"
)

// Compact packs files first-fit-decreasing: files are sorted by descending
// size (ties keep discovery order) and each goes into the earliest open group
// that still has room for it. It uses at most 11/9·OPT + 1 groups.
type Compact struct {
	logger log.Logger
}

// NewCompact creates the compact strategy.
func NewCompact(logger log.Logger) *Compact {
	return &Compact{logger: logger}
}

// Method returns domain.MethodCompact.
func (c *Compact) Method() domain.Method { return domain.MethodCompact }

// Group reads all of src before placing anything, since placement order
// depends on every size.
func (c *Compact) Group(ctx context.Context, src Source, maxBytes int64) (*domain.Partition, error) {
	var files []domain.FileRecord
	if err := each(ctx, src, func(f domain.FileRecord) { files = append(files, f) }); err != nil {
		return nil, err
	}

	slices.SortStableFunc(files, func(a, b domain.FileRecord) int {
		return cmp.Compare(b.SizeBytes, a.SizeBytes)
	})

	p := domain.NewPartition(domain.MethodCompact, maxBytes)

	// open holds groups with capacity left, in creation order. A group
	// leaves it once filled exactly to the ceiling.
	var open []*domain.Group

	for _, f := range files {
		c.logger.Debug("processing file", log.String("path", f.Path), log.Int64("size_bytes", f.SizeBytes))

		if f.SizeBytes > maxBytes {
			addOversize(p, f, c.logger)
			continue
		}

		i := slices.IndexFunc(open, func(g *domain.Group) bool { return g.Fits(f, maxBytes) })
		if i < 0 {
			g := domain.NewGroup()
			p.Groups = append(p.Groups, g)
			open = append(open, g)
			i = len(open) - 1
		}

		g := open[i]
		g.Add(f)
		if g.Remaining(maxBytes) == 0 {
			open = slices.Delete(open, i, i+1)
		}
	}

	return p, nil
}
