package group

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bft-labs/packship/internal/domain"
	"github.com/bft-labs/packship/pkg/log"
)

// Source yields file records in discovery order.
// Next returns io.EOF when the source is exhausted.
type Source interface {
	Next(ctx context.Context) (domain.FileRecord, error)
}

// Strategy builds a partition from a source.
type Strategy interface {
	// Method returns the method the strategy implements.
	Method() domain.Method

	// Group consumes src exactly once and returns a fresh partition.
	Group(ctx context.Context, src Source, maxBytes int64) (*domain.Partition, error)
}

// Config selects the strategy and the group ceiling.
type Config struct {
	MaxGroupSizeBytes int64
	Method            domain.Method
	Logger            log.Logger
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.MaxGroupSizeBytes <= 0 {
		return &domain.InvalidConfigError{
			Field:  "max group size",
			Reason: fmt.Sprintf("must be positive, got %d", c.MaxGroupSizeBytes),
		}
	}
	if _, err := domain.ParseMethod(string(c.Method)); err != nil {
		return err
	}
	return nil
}

// ForMethod returns the strategy implementing m.
func ForMethod(m domain.Method, logger log.Logger) (Strategy, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	switch m {
	case domain.MethodDefault:
		return NewSequential(logger), nil
	case domain.MethodCompact:
		return NewCompact(logger), nil
	}
	_, err := domain.ParseMethod(string(m))
	return nil, err
}

// Group validates cfg and partitions src with the configured strategy.
// Empty input yields an empty partition.
func Group(ctx context.Context, src Source, cfg Config) (*domain.Partition, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := ForMethod(cfg.Method, cfg.Logger)
	if err != nil {
		return nil, err
	}
	return s.Group(ctx, src, cfg.MaxGroupSizeBytes)
}

// FromSlice adapts a slice of records to a Source.
func FromSlice(records []domain.FileRecord) Source {
	return &sliceSource{records: records}
}

type sliceSource struct {
	records []domain.FileRecord
	next    int
}

func (s *sliceSource) Next(ctx context.Context) (domain.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.FileRecord{}, err
	}
	if s.next >= len(s.records) {
		return domain.FileRecord{}, io.EOF
	}
	r := s.records[s.next]
	s.next++
	return r, nil
}

// each calls fn for every record of src until io.EOF.
func each(ctx context.Context, src Source, fn func(domain.FileRecord)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rec, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read source: %w", err)
		}
		fn(rec)
	}
}

// addOversize appends f as a singleton oversize group and records the warning.
func addOversize(p *domain.Partition, f domain.FileRecord, logger log.Logger) {
	g := domain.NewGroup()
	g.Add(f)
	g.Oversize = true
	p.Groups = append(p.Groups, g)
	p.Warnings = append(p.Warnings, domain.Warning{
		Kind:      domain.WarnOversize,
		Path:      f.Path,
		SizeBytes: f.SizeBytes,
		Message:   fmt.Sprintf("exceeds the maximum group size of %d bytes and was placed alone", p.MaxGroupSizeBytes),
	})
	logger.Warn("file exceeds the maximum group size and will be placed alone",
		log.String("path", f.Path),
		log.Int64("size_bytes", f.SizeBytes),
		log.Int64("max_group_size_bytes", p.MaxGroupSizeBytes),
	)
}
