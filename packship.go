// Package packship partitions files into size-bounded groups.
//
// Example usage:
//
//	cfg := packship.DefaultConfig()
//	cfg.SourceDir = "/data/outbox"
//	cfg.MaxGroupSizeMegabytes = 100
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	report, err := packship.Run(context.Background(), cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.Manifest.Path)
//
// Group and Validate expose the engine directly for callers that already
// hold their file records.
package packship

import (
	"context"

	"github.com/bft-labs/packship/internal/app"
	"github.com/bft-labs/packship/internal/cliconfig"
	"github.com/bft-labs/packship/internal/domain"
	"github.com/bft-labs/packship/internal/group"
	"github.com/bft-labs/packship/internal/validate"
	"github.com/bft-labs/packship/pkg/log"
)

// Config holds the configuration of a run.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = cliconfig.Config

type (
	// FileRecord describes one input file.
	FileRecord = domain.FileRecord

	// Group is an ordered set of files within the size ceiling.
	Group = domain.Group

	// Partition is the ordered list of groups produced by one grouping.
	Partition = domain.Partition

	// Method selects the grouping strategy.
	Method = domain.Method

	// Warning is a non-fatal condition met while scanning or grouping.
	Warning = domain.Warning

	// Report describes one run.
	Report = app.Report

	// ValidationResult is the outcome of Validate.
	ValidationResult = validate.Result
)

// Grouping strategies.
const (
	MethodDefault = domain.MethodDefault
	MethodCompact = domain.MethodCompact
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Group partitions records with method under a ceiling of maxBytes.
func Group(ctx context.Context, records []FileRecord, method Method, maxBytes int64) (*Partition, error) {
	return group.Group(ctx, group.FromSlice(records), group.Config{
		MaxGroupSizeBytes: maxBytes,
		Method:            method,
	})
}

// Validate checks p against the records it was built from.
func Validate(p *Partition, original []FileRecord, maxBytes int64) ValidationResult {
	return validate.Validate(p, original, maxBytes)
}

// Run validates cfg and performs one run. A nil logger discards log output.
func Run(ctx context.Context, cfg Config, logger log.Logger) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{Status: app.StatusFailed}, err
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	r, err := app.NewRunner(cfg.RunConfig(logger), logger)
	if err != nil {
		return Report{Status: app.StatusFailed}, err
	}
	return r.Run(ctx)
}
