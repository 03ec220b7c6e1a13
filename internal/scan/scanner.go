package scan

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/bft-labs/packship/internal/domain"
	"github.com/bft-labs/packship/internal/ports"
	"github.com/bft-labs/packship/pkg/log"
)

const defaultChunkSize = 256

// ErrScannerClosed is returned by Next after Close has been called.
var ErrScannerClosed = errors.New("scan: scanner closed")

// Options configures a Scanner.
type Options struct {
	// Checksum computes a BLAKE3 digest of every file's contents.
	Checksum bool

	// SortNames captures all entries up front and yields them in name order
	// instead of directory order.
	SortNames bool

	// ChunkSize is the number of directory entries read per batch. Default 256.
	ChunkSize int

	// Logger receives skip warnings and per-file debug messages.
	Logger log.Logger
}

// Scanner yields one FileRecord per regular file in a directory.
type Scanner struct {
	dir      string
	dirFile  *os.File
	opts     Options
	logger   log.Logger
	pending  []os.DirEntry
	done     bool
	closed   bool
	warnings []domain.Warning
}

var _ ports.FileSource = (*Scanner)(nil)

// Open prepares a scan of dir. It fails with *domain.SourceNotFoundError if
// dir does not exist, is not a directory or cannot be opened.
func Open(dir string, opts Options) (*Scanner, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &domain.SourceNotFoundError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &domain.SourceNotFoundError{Path: dir}
	}

	f, err := os.Open(dir)
	if err != nil {
		return nil, &domain.SourceNotFoundError{Path: dir, Err: err}
	}

	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaultChunkSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	s := &Scanner{
		dir:     dir,
		dirFile: f,
		opts:    opts,
		logger:  logger,
	}

	if opts.SortNames {
		entries, err := f.ReadDir(-1)
		f.Close()
		s.dirFile = nil
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", dir, err)
		}
		slices.SortFunc(entries, func(a, b os.DirEntry) int {
			return strings.Compare(a.Name(), b.Name())
		})
		s.pending = entries
		s.done = true
	}

	return s, nil
}

// Next returns the next file record.
// It returns io.EOF once every entry has been visited and on every call after that.
func (s *Scanner) Next(ctx context.Context) (domain.FileRecord, error) {
	for {
		select {
		case <-ctx.Done():
			return domain.FileRecord{}, ctx.Err()
		default:
		}

		if s.closed {
			return domain.FileRecord{}, ErrScannerClosed
		}

		if len(s.pending) == 0 {
			if s.done {
				s.release()
				return domain.FileRecord{}, io.EOF
			}
			if err := s.fill(); err != nil {
				return domain.FileRecord{}, err
			}
			continue
		}

		entry := s.pending[0]
		s.pending = s.pending[1:]

		rec, ok := s.record(entry)
		if !ok {
			continue
		}
		s.logger.Debug("file discovered", log.String("path", rec.Path), log.Int64("size_bytes", rec.SizeBytes))
		return rec, nil
	}
}

// Collect drains the remaining records into a slice.
func (s *Scanner) Collect(ctx context.Context) ([]domain.FileRecord, error) {
	var records []domain.FileRecord
	for {
		rec, err := s.Next(ctx)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// Warnings returns the entries skipped so far.
func (s *Scanner) Warnings() []domain.Warning {
	return slices.Clone(s.warnings)
}

// Dir returns the scanned directory.
func (s *Scanner) Dir() string {
	return s.dir
}

// Close releases the directory handle. Further calls to Next return ErrScannerClosed.
func (s *Scanner) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.pending = nil
	return s.release()
}

// fill reads the next chunk of directory entries.
func (s *Scanner) fill() error {
	entries, err := s.dirFile.ReadDir(s.opts.ChunkSize)
	s.pending = entries
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.done = true
			return nil
		}
		return fmt.Errorf("read dir %s: %w", s.dir, err)
	}
	return nil
}

func (s *Scanner) release() error {
	if s.dirFile == nil {
		return nil
	}
	err := s.dirFile.Close()
	s.dirFile = nil
	return err
}

// record builds a FileRecord for entry. It returns false for entries that are
// not regular files and for entries that could not be read.
func (s *Scanner) record(entry os.DirEntry) (domain.FileRecord, bool) {
	if entry.IsDir() {
		return domain.FileRecord{}, false
	}

	path := filepath.Join(s.dir, entry.Name())

	var (
		info os.FileInfo
		err  error
	)
	if entry.Type()&os.ModeSymlink != 0 {
		info, err = os.Stat(path)
	} else {
		info, err = entry.Info()
	}
	if err != nil {
		s.skip(path, err)
		return domain.FileRecord{}, false
	}
	if !info.Mode().IsRegular() {
		return domain.FileRecord{}, false
	}

	rec := domain.FileRecord{
		Path:      path,
		Name:      entry.Name(),
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}

	if s.opts.Checksum {
		sum, err := checksum(path)
		if err != nil {
			s.skip(path, err)
			return domain.FileRecord{}, false
		}
		rec.Checksum = sum
	}

	return rec, true
}

func (s *Scanner) skip(path string, err error) {
	s.warnings = append(s.warnings, domain.Warning{
		Kind:    domain.WarnSkipped,
		Path:    path,
		Message: err.Error(),
	})
	s.logger.Warn("skipping unreadable entry", log.String("path", path), log.Err(err))
}

// checksum returns the hex BLAKE3 digest of the file at path.
func checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
