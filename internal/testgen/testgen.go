// Package testgen synthesizes files of random sizes for exercising the
// grouping engine without real data.
package testgen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/bft-labs/packship/internal/domain"
	"github.com/bft-labs/packship/pkg/log"
)

// BytesInMB is the number of bytes in one megabyte.
const BytesInMB = 1024 * 1024

const (
	// DefaultMinFiles and DefaultMaxFiles bound the generated file count.
	DefaultMinFiles = 5
	DefaultMaxFiles = 15

	// DefaultMinFileSizeBytes and DefaultMaxFileSizeBytes bound each file size.
	DefaultMinFileSizeBytes = 5 * BytesInMB
	DefaultMaxFileSizeBytes = 15 * BytesInMB
)

const (
	chunkSize   = BytesInMB
	filePattern = "ABC"
	namePattern = "file%03d.txt"
)

// Options configures a generation run.
type Options struct {
	// Dir is the destination directory. A temporary directory is created when empty.
	Dir string

	MinFiles int
	MaxFiles int

	MinFileSizeBytes int64
	MaxFileSizeBytes int64

	// Seed makes the drawn counts and sizes reproducible when non-zero.
	Seed uint64

	Logger log.Logger
}

// DefaultOptions returns Options with the default ranges.
func DefaultOptions() Options {
	return Options{
		MinFiles:         DefaultMinFiles,
		MaxFiles:         DefaultMaxFiles,
		MinFileSizeBytes: DefaultMinFileSizeBytes,
		MaxFileSizeBytes: DefaultMaxFileSizeBytes,
	}
}

// Validate checks the ranges.
func (o Options) Validate() error {
	if o.MinFiles < 0 || o.MaxFiles < 0 || o.MinFiles > o.MaxFiles {
		return &domain.InvalidRangeError{Field: "file count", Min: int64(o.MinFiles), Max: int64(o.MaxFiles)}
	}
	if o.MinFileSizeBytes < 0 || o.MaxFileSizeBytes < 0 || o.MinFileSizeBytes > o.MaxFileSizeBytes {
		return &domain.InvalidRangeError{Field: "file size", Min: o.MinFileSizeBytes, Max: o.MaxFileSizeBytes}
	}
	return nil
}

// Result describes the generated files.
type Result struct {
	Dir        string
	Paths      []string
	TotalBytes int64
}

// Generate creates between MinFiles and MaxFiles files, each between
// MinFileSizeBytes and MaxFileSizeBytes long, in opts.Dir.
//
// Range errors are reported before anything is written. On an I/O failure
// the files written so far are left in place and a *domain.WriteError is
// returned together with the partial result.
func Generate(ctx context.Context, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	dir := opts.Dir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "packship-testfiles-")
		if err != nil {
			return Result{}, &domain.WriteError{Path: os.TempDir(), Op: "create temp dir", Err: err}
		}
		dir = tmp
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, &domain.WriteError{Path: dir, Op: "create dir", Err: err}
	}

	rng := newRand(opts.Seed)
	count := int(between(rng, int64(opts.MinFiles), int64(opts.MaxFiles)))

	logger.Debug("generating test files",
		log.String("dir", dir),
		log.Int("count", count),
		log.Int64("min_file_size_bytes", opts.MinFileSizeBytes),
		log.Int64("max_file_size_bytes", opts.MaxFileSizeBytes),
	)

	res := Result{Dir: dir, Paths: make([]string, 0, count)}
	data := pattern(chunkSize)

	for i := 0; i < count; i++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		path := filepath.Join(dir, fmt.Sprintf(namePattern, i))
		size := between(rng, opts.MinFileSizeBytes, opts.MaxFileSizeBytes)
		if err := writeFile(path, size, data); err != nil {
			return res, err
		}
		res.Paths = append(res.Paths, path)
		res.TotalBytes += size
	}

	return res, nil
}

// writeFile fills path with exactly size bytes of the repeating pattern.
func writeFile(path string, size int64, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return &domain.WriteError{Path: path, Op: "create", Err: err}
	}

	remaining := size
	for remaining > 0 {
		n := int64(len(data))
		if remaining < n {
			n = remaining
		}
		if _, err := f.Write(data[:n]); err != nil {
			f.Close()
			return &domain.WriteError{Path: path, Op: "write", Err: err}
		}
		remaining -= n
	}

	if err := f.Close(); err != nil {
		return &domain.WriteError{Path: path, Op: "close", Err: err}
	}
	return nil
}

// pattern returns n bytes of the repeating fill pattern.
func pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = filePattern[i%len(filePattern)]
	}
	return b
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// between draws uniformly from [lo, hi].
func between(rng *rand.Rand, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	span := hi - lo + 1
	if span <= 0 {
		// [0, MaxInt64] has no representable width
		return lo + rng.Int64N(hi-lo)
	}
	return lo + rng.Int64N(span)
}
