package group

import (
	"context"

	"github.com/bft-labs/packship/internal/domain"
	"github.com/bft-labs/packship/pkg/log"
)

// Sequential fills groups in input order. It never reorders files and may
// leave unused capacity in a group before closing it.
type Sequential struct {
	logger log.Logger
}

// NewSequential creates the default strategy.
func NewSequential(logger log.Logger) *Sequential {
	return &Sequential{logger: logger}
}

// Method returns domain.MethodDefault.
func (s *Sequential) Method() domain.Method { return domain.MethodDefault }

// Group streams src: only the group being filled is kept open.
func (s *Sequential) Group(ctx context.Context, src Source, maxBytes int64) (*domain.Partition, error) {
	p := domain.NewPartition(domain.MethodDefault, maxBytes)
	current := domain.NewGroup()

	closeCurrent := func() {
		if current.Empty() {
			return
		}
		p.Groups = append(p.Groups, current)
		current = domain.NewGroup()
	}

	err := each(ctx, src, func(f domain.FileRecord) {
		s.logger.Debug("processing file", log.String("path", f.Path), log.Int64("size_bytes", f.SizeBytes))

		// Large file: goes alone, after whatever was being filled
		if f.SizeBytes > maxBytes {
			closeCurrent()
			addOversize(p, f, s.logger)
			return
		}

		// Adding this file would exceed the ceiling: close the group first
		if !current.Fits(f, maxBytes) {
			closeCurrent()
		}
		current.Add(f)
	})
	if err != nil {
		return nil, err
	}

	closeCurrent()
	return p, nil
}
