package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/bft-labs/packship/internal/app"
	"github.com/bft-labs/packship/internal/domain"
	"github.com/bft-labs/packship/internal/validate"
)

func sourceDir(t *testing.T, sizes ...int) string {
	t.Helper()
	dir := t.TempDir()
	for i, size := range sizes {
		name := filepath.Join(dir, string(rune('a'+i))+".bin")
		if err := os.WriteFile(name, bytes.Repeat([]byte("x"), size), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestExecute_ExitCodes(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name string
		args func(t *testing.T) []string
		want int
	}{
		{
			name: "success",
			args: func(t *testing.T) []string {
				return []string{"--source-dir", sourceDir(t, 4, 4, 4), "--max-group-size-bytes", "10",
					"--output-dir", t.TempDir(), "--validate", "--quiet"}
			},
			want: app.ExitOK,
		},
		{
			name: "oversize file is a warning",
			args: func(t *testing.T) []string {
				return []string{"--source-dir", sourceDir(t, 20), "--max-group-size-bytes", "10",
					"--output-dir", t.TempDir(), "--quiet"}
			},
			want: app.ExitWarnings,
		},
		{
			name: "missing ceiling",
			args: func(t *testing.T) []string {
				return []string{"--source-dir", sourceDir(t, 1), "--output-dir", t.TempDir(), "--quiet"}
			},
			want: app.ExitFailure,
		},
		{
			name: "both sources",
			args: func(t *testing.T) []string {
				return []string{"--source-dir", sourceDir(t, 1), "--create-test-files",
					"--max-group-size-bytes", "10", "--quiet"}
			},
			want: app.ExitFailure,
		},
		{
			name: "both ceilings",
			args: func(t *testing.T) []string {
				return []string{"--source-dir", sourceDir(t, 1), "--max-group-size-bytes", "10",
					"--max-group-size-megabytes", "1", "--quiet"}
			},
			want: app.ExitFailure,
		},
		{
			name: "missing source dir",
			args: func(t *testing.T) []string {
				return []string{"--source-dir", filepath.Join(t.TempDir(), "nope"),
					"--max-group-size-bytes", "10", "--output-dir", t.TempDir(), "--quiet"}
			},
			want: app.ExitFailure,
		},
		{
			name: "generated test files",
			args: func(t *testing.T) []string {
				return []string{"--create-test-files", "--test-files-dir", t.TempDir(),
					"--min-files", "3", "--max-files", "3", "--min-file-size-bytes", "10",
					"--max-file-size-bytes", "10", "--max-group-size-bytes", "25",
					"--output-dir", t.TempDir(), "--quiet"}
			},
			want: app.ExitOK,
		},
		{
			name: "watch requires source dir",
			args: func(t *testing.T) []string {
				return []string{"watch", "--create-test-files", "--max-group-size-bytes", "10", "--quiet"}
			},
			want: app.ExitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := execute(tt.args(t)); got != tt.want {
				t.Errorf("execute() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExecute_ConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	content := "source_dir = \"" + filepath.ToSlash(sourceDir(t, 3, 3)) + "\"\n" +
		"max_group_size_bytes = 10\n" +
		"output_dir = \"" + filepath.ToSlash(out) + "\"\n" +
		"format = \"yaml\"\n" +
		"quiet = true\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := execute([]string{"--config", cfgPath}); got != app.ExitOK {
		t.Fatalf("execute() = %d, want %d", got, app.ExitOK)
	}
	if _, err := os.Stat(filepath.Join(out, "manifest.yaml")); err != nil {
		t.Errorf("manifest.yaml not written: %v", err)
	}

	if got := execute([]string{"--config", filepath.Join(t.TempDir(), "missing.toml")}); got != app.ExitFailure {
		t.Errorf("execute(missing config) = %d, want %d", got, app.ExitFailure)
	}
}

func TestPrintSummary(t *testing.T) {
	color.NoColor = true

	p := domain.NewPartition(domain.MethodCompact, 10)
	g := domain.NewGroup()
	g.Add(domain.FileRecord{Path: "/in/big", Name: "big", SizeBytes: 2048})
	g.Oversize = true
	p.Groups = append(p.Groups, g)

	rep := app.Report{
		RunID:      "r1",
		SourceDir:  "/in",
		Partition:  p,
		Warnings:   []domain.Warning{{Kind: domain.WarnOversize, Path: "/in/big", SizeBytes: 2048}},
		Validation: &validate.Result{Status: validate.ValidWithWarnings, GroupCount: 1, FileCount: 1, ValidGroups: 1},
		Manifest:   domain.ManifestHandle{Path: "/out/manifest.json", Bytes: 300},
		Status:     app.StatusWarnings,
	}

	var buf bytes.Buffer
	printSummary(&buf, rep, nil)
	got := buf.String()

	for _, want := range []string{
		"packship: ok with warnings",
		"compact, ceiling 10 B",
		"1 valid groups out of 1",
		"2.0 KiB",
		"oversize",
		"/out/manifest.json",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}

	buf.Reset()
	printSummary(&buf, app.Report{Status: app.StatusFailed}, errors.New("boom"))
	if !strings.Contains(buf.String(), "boom") || strings.Contains(buf.String(), "manifest") {
		t.Errorf("failure summary = %q", buf.String())
	}
}
