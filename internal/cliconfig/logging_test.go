package cliconfig

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bft-labs/packship/internal/domain"
	"github.com/bft-labs/packship/pkg/log"
)

func TestNewLogger_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packship.log")
	cfg := Config{Quiet: true, LogFilepath: path, LogLevel: "debug"}

	logger, closeFn, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Debug("hello", log.String("k", "v"))
	logger.Info("world")
	if err := closeFn(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	var lines []map[string]interface{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]interface{}
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("log line is not JSON: %q", sc.Text())
		}
		lines = append(lines, m)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2", len(lines))
	}
	if lines[0]["message"] != "hello" || lines[0]["k"] != "v" || lines[0]["level"] != "debug" {
		t.Errorf("first line = %v", lines[0])
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packship.log")
	logger, closeFn, err := NewLogger(Config{Quiet: true, LogFilepath: path, LogLevel: "warn"})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Info("dropped")
	closeFn()

	b, _ := os.ReadFile(path)
	if len(b) != 0 {
		t.Errorf("info message written at warn level: %s", b)
	}
}

func TestNewLogger_Errors(t *testing.T) {
	if _, _, err := NewLogger(Config{LogLevel: "loud"}); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("NewLogger(bad level) error = %v, want ErrInvalidConfig", err)
	}

	bad := filepath.Join(t.TempDir(), "missing", "packship.log")
	if _, _, err := NewLogger(Config{Quiet: true, LogFilepath: bad}); err == nil {
		t.Error("NewLogger() expected error for unwritable log path")
	}
}

func TestNewLogger_Quiet(t *testing.T) {
	logger, closeFn, err := NewLogger(Config{Quiet: true})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	defer closeFn()
	logger.Error("discarded")
}
