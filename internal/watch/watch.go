// Package watch re-runs grouping whenever the source directory changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/packship/internal/domain"
	"github.com/bft-labs/packship/pkg/log"
)

// DefaultDebounce is the quiet period after the last event before a run starts.
const DefaultDebounce = 500 * time.Millisecond

// RunFunc performs one run.
type RunFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	// Ignore lists paths whose own events never trigger a run, typically the
	// output directory when it lives inside the source directory.
	Ignore []string

	Logger log.Logger
}

// Watcher monitors one directory (non-recursively) and invokes its run
// function serially: once at start, then once per burst of changes.
type Watcher struct {
	dir      string
	run      RunFunc
	debounce time.Duration
	ignore   []string
	logger   log.Logger
}

// New creates a watcher for dir.
func New(dir string, run RunFunc, opts Options) (*Watcher, error) {
	if dir == "" {
		return nil, &domain.InvalidConfigError{Field: "source", Reason: "watch mode requires a source dir"}
	}
	if run == nil {
		return nil, &domain.InvalidConfigError{Field: "run", Reason: "must not be nil"}
	}

	w := &Watcher{
		dir:      dir,
		run:      run,
		debounce: opts.Debounce,
		logger:   opts.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = log.NewNoopLogger()
	}
	for _, p := range opts.Ignore {
		if abs, err := filepath.Abs(p); err == nil {
			w.ignore = append(w.ignore, abs)
		}
	}
	return w, nil
}

// Run watches until ctx is done, which is a normal stop and returns nil.
// Failed runs are logged and watching continues, except for internal
// defects, which stop the watcher and are returned.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return &domain.SourceNotFoundError{Path: w.dir, Err: err}
	}
	if !info.IsDir() {
		return &domain.SourceNotFoundError{Path: w.dir, Err: fmt.Errorf("not a directory")}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching source dir", log.String("dir", w.dir), log.Duration("debounce", w.debounce))

	if err := w.runOnce(ctx, "initial"); err != nil {
		return err
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("source changed", log.String("path", event.Name), log.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.runOnce(ctx, "change"); err != nil {
				return err
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context, trigger string) error {
	w.logger.Debug("starting run", log.String("trigger", trigger))
	err := w.run(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrInternalDefect):
		return err
	case ctx.Err() != nil:
		return nil
	}
	w.logger.Error("run failed, still watching", log.Err(err))
	return nil
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return true
	}
	for _, p := range w.ignore {
		if abs == p || strings.HasPrefix(abs, p+string(filepath.Separator)) {
			return false
		}
	}
	return true
}
