package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/packship/internal/domain"
	"github.com/bft-labs/packship/internal/group"
	"github.com/bft-labs/packship/internal/manifest"
	"github.com/bft-labs/packship/internal/ports"
	"github.com/bft-labs/packship/internal/scan"
	"github.com/bft-labs/packship/internal/testgen"
	"github.com/bft-labs/packship/internal/validate"
	"github.com/bft-labs/packship/pkg/log"
)

// Config contains everything a run needs. It is built once from validated
// CLI configuration and passed by value.
type Config struct {
	// Exactly one of SourceDir and CreateTestFiles selects the input.
	SourceDir       string
	CreateTestFiles bool
	Generate        testgen.Options

	Scan     scan.Options
	Group    group.Config
	Validate bool

	OutputDir string
	Manifest  manifest.Options
}

// Option configures optional behavior of a Runner.
type Option func(*Runner)

// WithStore replaces the manifest store built from Config.
func WithStore(store ports.ManifestStore) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithStrategy replaces the strategy selected by Config.Group.Method.
func WithStrategy(s group.Strategy) Option {
	return func(r *Runner) {
		r.strategy = s
	}
}

// WithRunID fixes the run id instead of drawing a random one per run.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = func() string { return id }
	}
}

// Runner executes grouping runs. A Runner can be used for several runs but
// not concurrently.
type Runner struct {
	cfg      Config
	logger   log.Logger
	store    ports.ManifestStore
	strategy group.Strategy
	runID    func() string
}

// NewRunner creates a runner. Configuration errors are reported here so that
// nothing is written for an invalid configuration.
func NewRunner(cfg Config, logger log.Logger, opts ...Option) (*Runner, error) {
	if cfg.SourceDir == "" && !cfg.CreateTestFiles {
		return nil, &domain.InvalidConfigError{Field: "source", Reason: "no source dir and no test file generation"}
	}
	if err := cfg.Group.Validate(); err != nil {
		return nil, err
	}
	if cfg.CreateTestFiles {
		if err := cfg.Generate.Validate(); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	r := &Runner{
		cfg:    cfg,
		logger: logger,
		runID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.store == nil {
		store, err := manifest.NewStore(cfg.OutputDir, cfg.Manifest)
		if err != nil {
			return nil, err
		}
		r.store = store
	}
	return r, nil
}

// Run performs one run. The returned report is always populated with the
// run id, status and whatever was computed before an error.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	rep := Report{RunID: r.runID()}
	logger := log.With(r.logger, log.String("run_id", rep.RunID))

	err := r.run(ctx, logger, &rep)

	rep.Duration = time.Since(start)
	rep.Status = StatusOf(err, len(rep.Warnings))
	if err != nil {
		logger.Error("run failed", log.Err(err), log.String("status", rep.Status.String()))
		return rep, err
	}
	logger.Info("run finished",
		log.String("status", rep.Status.String()),
		log.Int("groups", len(rep.Partition.Groups)),
		log.Int("files", rep.Partition.FileCount()),
		log.Int("warnings", len(rep.Warnings)),
		log.Duration("duration", rep.Duration),
	)
	return rep, nil
}

func (r *Runner) run(ctx context.Context, logger log.Logger, rep *Report) error {
	rep.SourceDir = r.cfg.SourceDir

	if r.cfg.CreateTestFiles {
		opts := r.cfg.Generate
		opts.Logger = logger
		res, err := log.Timed(logger, "generate test files", func() (testgen.Result, error) {
			return testgen.Generate(ctx, opts)
		})
		if err != nil {
			return fmt.Errorf("generate test files: %w", err)
		}
		rep.Generated = &res
		rep.SourceDir = res.Dir
	}

	scanOpts := r.cfg.Scan
	scanOpts.Logger = logger
	source, err := r.open(rep.SourceDir, scanOpts)
	if err != nil {
		return err
	}
	defer source.Close()

	var src group.Source = source
	var rec *recordingSource
	if r.cfg.Validate {
		rec = &recordingSource{src: source}
		src = rec
	}

	groupCfg := r.cfg.Group
	groupCfg.Logger = logger
	p, err := log.Timed(logger, "group files", func() (*domain.Partition, error) {
		if r.strategy != nil {
			return r.strategy.Group(ctx, src, groupCfg.MaxGroupSizeBytes)
		}
		return group.Group(ctx, src, groupCfg)
	})
	rep.Warnings = append(rep.Warnings, source.Warnings()...)
	if err != nil {
		return fmt.Errorf("group files: %w", err)
	}
	rep.Partition = p
	rep.Warnings = append(rep.Warnings, p.Warnings...)

	logger.Info("grouped files",
		log.String("method", p.Method.String()),
		log.Int("groups", len(p.Groups)),
		log.Int("files", p.FileCount()),
		log.Int64("total_bytes", p.TotalSizeBytes()),
	)

	if r.cfg.Validate {
		res := validate.Validate(p, rec.records, groupCfg.MaxGroupSizeBytes)
		rep.Validation = &res
		logger.Info(fmt.Sprintf("%d valid groups out of %d", res.ValidGroups, res.GroupCount),
			log.String("status", res.Status.String()),
		)
		for _, v := range res.Violations {
			logger.Error("invariant violated", log.String("violation", v))
		}
		if err := res.Err(); err != nil {
			return err
		}
	}

	handle, err := log.Timed(logger, "save manifest", func() (domain.ManifestHandle, error) {
		return r.store.Save(ctx, p)
	})
	if err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	rep.Manifest = handle
	return nil
}

func (r *Runner) open(dir string, opts scan.Options) (ports.FileSource, error) {
	s, err := scan.Open(dir, opts)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// recordingSource keeps every record it yields for later validation.
type recordingSource struct {
	src     group.Source
	records []domain.FileRecord
}

func (s *recordingSource) Next(ctx context.Context) (domain.FileRecord, error) {
	f, err := s.src.Next(ctx)
	if err == nil {
		s.records = append(s.records, f)
	}
	return f, err
}
