package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/gofrs/flock"

	"github.com/bft-labs/packship/internal/domain"
	"github.com/bft-labs/packship/internal/ports"
	"github.com/bft-labs/packship/pkg/log"
)

const (
	manifestBaseName = "manifest"
	lockFileName     = ".manifest.lock"
	groupNamePattern = "group_%03d.%s"
)

var groupFileRe = regexp.MustCompile(`^group_\d{3,}\.(json|yaml|toml)$`)

// Options configures a Store.
type Options struct {
	// Format is "json" (default), "yaml" or "toml".
	Format string

	// SplitGroups also writes one group_NNN file per group.
	SplitGroups bool

	Logger log.Logger
}

// Store implements ports.ManifestStore on a directory.
type Store struct {
	dir    string
	format string
	split  bool
	logger log.Logger
}

var _ ports.ManifestStore = (*Store)(nil)

// NewStore creates a store writing into dir.
func NewStore(dir string, opts Options) (*Store, error) {
	if dir == "" {
		return nil, &domain.InvalidConfigError{Field: "output dir", Reason: "must not be empty"}
	}
	format, err := ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Store{dir: dir, format: format, split: opts.SplitGroups, logger: logger}, nil
}

// Path returns the full path of the main manifest file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, manifestBaseName+"."+s.format)
}

// Save writes the manifest for p. Failures are returned as *domain.WriteError;
// p itself is never modified.
func (s *Store) Save(ctx context.Context, p *domain.Partition) (domain.ManifestHandle, error) {
	handle := domain.ManifestHandle{Path: s.Path(), Format: s.format}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return handle, &domain.WriteError{Path: s.dir, Op: "create dir", Err: err}
	}

	lock := flock.New(filepath.Join(s.dir, lockFileName))
	if err := lock.Lock(); err != nil {
		return handle, &domain.WriteError{Path: lock.Path(), Op: "lock", Err: err}
	}
	defer lock.Unlock()

	if err := s.removeStaleGroups(); err != nil {
		return handle, err
	}

	doc := FromPartition(p)
	data, err := encode(s.format, doc)
	if err != nil {
		return handle, &domain.WriteError{Path: handle.Path, Op: "encode", Err: err}
	}
	if err := atomicWrite(handle.Path, data); err != nil {
		return handle, err
	}
	handle.Bytes = len(data)
	s.logger.Info("saved manifest", log.String("path", handle.Path), log.Int("groups", doc.GroupCount))

	if !s.split {
		return handle, nil
	}

	for _, gd := range doc.Groups {
		select {
		case <-ctx.Done():
			return handle, ctx.Err()
		default:
		}

		path := filepath.Join(s.dir, fmt.Sprintf(groupNamePattern, gd.Index, s.format))
		b, err := encode(s.format, gd)
		if err != nil {
			return handle, &domain.WriteError{Path: path, Op: "encode", Err: err}
		}
		if err := atomicWrite(path, b); err != nil {
			return handle, err
		}
		handle.GroupPaths = append(handle.GroupPaths, path)
		s.logger.Debug("saved group", log.String("path", path))
	}

	return handle, nil
}

// removeStaleGroups deletes group files left by an earlier save.
func (s *Store) removeStaleGroups() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return &domain.WriteError{Path: s.dir, Op: "read dir", Err: err}
	}
	for _, e := range entries {
		if e.IsDir() || !groupFileRe.MatchString(e.Name()) {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		if err := os.Remove(path); err != nil {
			return &domain.WriteError{Path: path, Op: "remove", Err: err}
		}
		s.logger.Debug("removed stale group file", log.String("path", path))
	}
	return nil
}

// atomicWrite writes data to path through a temp file in the same directory
// followed by a rename, so readers never see a partial file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return &domain.WriteError{Path: path, Op: "create temp file", Err: err}
	}
	tmpPath := tmp.Name()

	fail := func(op string, err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return &domain.WriteError{Path: path, Op: op, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &domain.WriteError{Path: path, Op: "close", Err: err}
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return &domain.WriteError{Path: path, Op: "chmod", Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &domain.WriteError{Path: path, Op: "rename", Err: err}
	}
	return nil
}
