package cliconfig

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bft-labs/packship/pkg/log"
)

// NewLogger builds the process logger from cfg: console output on stderr
// unless Quiet is set, plus JSON lines appended to LogFilepath when set.
// The returned close function releases the log file.
func NewLogger(cfg Config) (*log.ZerologAdapter, func() error, error) {
	level := zerolog.InfoLevel
	if cfg.LogLevel != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
		if err != nil {
			return nil, nil, invalid("log level", "%v", err)
		}
		level = l
	}

	var writers []io.Writer
	closeFn := func() error { return nil }

	if !cfg.Quiet {
		writers = append(writers, log.NewConsoleWriter(os.Stderr))
	}
	if cfg.LogFilepath != "" {
		f, err := os.OpenFile(cfg.LogFilepath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
		closeFn = f.Close
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return log.NewZerologAdapterWithLogger(logger), closeFn, nil
}
