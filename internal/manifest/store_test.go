package manifest

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bft-labs/packship/internal/domain"
)

func samplePartition() *domain.Partition {
	mod := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p := domain.NewPartition(domain.MethodCompact, 10)

	g1 := domain.NewGroup()
	g1.Add(domain.FileRecord{Path: "/src/a.txt", Name: "a.txt", SizeBytes: 9, ModTime: mod})
	g1.Add(domain.FileRecord{Path: "/src/b.txt", Name: "b.txt", SizeBytes: 1, ModTime: mod, Checksum: "abc123"})

	g2 := domain.NewGroup()
	g2.Add(domain.FileRecord{Path: "/src/big.bin", Name: "big.bin", SizeBytes: 20, ModTime: mod})
	g2.Oversize = true

	p.Groups = append(p.Groups, g1, g2)
	return p
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"toml", FormatTOML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, domain.ErrInvalidConfig) {
			t.Errorf("ParseFormat(%q) error = %v, want ErrInvalidConfig", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewStore_Invalid(t *testing.T) {
	if _, err := NewStore("", Options{}); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("NewStore(\"\") error = %v, want ErrInvalidConfig", err)
	}
	if _, err := NewStore(t.TempDir(), Options{Format: "xml"}); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("NewStore(xml) error = %v, want ErrInvalidConfig", err)
	}
}

func TestSave_JSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "groups")
	s, err := NewStore(dir, Options{})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	h, err := s.Save(context.Background(), samplePartition())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if h.Path != filepath.Join(dir, "manifest.json") {
		t.Errorf("Path = %q, want manifest.json in %s", h.Path, dir)
	}
	if h.Format != FormatJSON {
		t.Errorf("Format = %q, want %q", h.Format, FormatJSON)
	}
	if len(h.GroupPaths) != 0 {
		t.Errorf("GroupPaths = %v, want none", h.GroupPaths)
	}

	b, err := os.ReadFile(h.Path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if h.Bytes != len(b) {
		t.Errorf("Bytes = %d, want %d", h.Bytes, len(b))
	}
	if !strings.Contains(string(b), "\n    \"method\": \"compact\"") {
		t.Errorf("manifest is not indented with 4 spaces:\n%s", b)
	}
	if !strings.Contains(string(b), `"last_modified": "2024-03-01T12:00:00Z"`) {
		t.Errorf("manifest lacks RFC 3339 last_modified:\n%s", b)
	}
	if strings.Count(string(b), `"blake3"`) != 1 {
		t.Errorf("checksum should only appear for the file that has one:\n%s", b)
	}

	doc, err := Load(h.Path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.GroupCount != 2 || doc.FileCount != 3 || doc.TotalSizeBytes != 30 {
		t.Errorf("counts = %d/%d/%d, want 2/3/30", doc.GroupCount, doc.FileCount, doc.TotalSizeBytes)
	}
	if doc.Groups[0].Index != 1 || doc.Groups[1].Index != 2 {
		t.Errorf("indices = %d,%d, want 1,2", doc.Groups[0].Index, doc.Groups[1].Index)
	}
	if !doc.Groups[1].Oversize {
		t.Error("group 2 should be flagged oversize")
	}
	if got := doc.Groups[0].Files[1].Name; got != "b.txt" {
		t.Errorf("placement order not kept, second file = %q", got)
	}
}

func TestSave_Formats(t *testing.T) {
	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			s, err := NewStore(dir, Options{Format: format, SplitGroups: true})
			if err != nil {
				t.Fatalf("NewStore() error = %v", err)
			}
			h, err := s.Save(context.Background(), samplePartition())
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if filepath.Ext(h.Path) != "."+format {
				t.Errorf("Path = %q, want .%s extension", h.Path, format)
			}

			doc, err := Load(h.Path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if doc.Method != "compact" || doc.MaxGroupSizeBytes != 10 {
				t.Errorf("doc header = %q/%d, want compact/10", doc.Method, doc.MaxGroupSizeBytes)
			}
			if len(doc.Groups) != 2 || len(doc.Groups[0].Files) != 2 {
				t.Fatalf("doc groups = %+v", doc.Groups)
			}
			if doc.Groups[0].Files[1].Checksum != "abc123" {
				t.Errorf("checksum = %q, want abc123", doc.Groups[0].Files[1].Checksum)
			}
			if len(h.GroupPaths) != 2 {
				t.Fatalf("GroupPaths = %v, want 2 entries", h.GroupPaths)
			}
			if want := filepath.Join(dir, "group_001."+format); h.GroupPaths[0] != want {
				t.Errorf("GroupPaths[0] = %q, want %q", h.GroupPaths[0], want)
			}
		})
	}
}

func TestSave_Deterministic(t *testing.T) {
	read := func() []byte {
		dir := t.TempDir()
		s, err := NewStore(dir, Options{SplitGroups: true})
		if err != nil {
			t.Fatalf("NewStore() error = %v", err)
		}
		h, err := s.Save(context.Background(), samplePartition())
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		b, err := os.ReadFile(h.Path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		return b
	}

	if a, b := read(), read(); !bytes.Equal(a, b) {
		t.Errorf("manifests differ:\n%s\n---\n%s", a, b)
	}
}

func TestSave_EmptyPartition(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewStore(dir, Options{SplitGroups: true})

	h, err := s.Save(context.Background(), domain.NewPartition(domain.MethodDefault, 10))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	doc, err := Load(h.Path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.GroupCount != 0 || len(doc.Groups) != 0 {
		t.Errorf("empty partition wrote %d groups", doc.GroupCount)
	}
	if len(h.GroupPaths) != 0 {
		t.Errorf("GroupPaths = %v, want none", h.GroupPaths)
	}
}

func TestSave_RemovesStaleGroupsOnly(t *testing.T) {
	dir := t.TempDir()
	keep := []string{"notes.txt", "group_backup", "group_01.json"}
	stale := []string{"group_001.json", "group_002.yaml", "group_1000.toml"}
	for _, name := range append(append([]string{}, keep...), stale...) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	s, _ := NewStore(dir, Options{})
	if _, err := s.Save(context.Background(), samplePartition()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	for _, name := range keep {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s should be kept: %v", name, err)
		}
	}
	for _, name := range stale {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s should be removed, stat error = %v", name, err)
		}
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

func TestSave_WriteError(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, _ := NewStore(filepath.Join(blocker, "groups"), Options{})
	p := samplePartition()
	_, err := s.Save(context.Background(), p)

	var we *domain.WriteError
	if !errors.As(err, &we) {
		t.Fatalf("Save() error = %v, want *domain.WriteError", err)
	}
	if !errors.Is(err, domain.ErrWrite) {
		t.Errorf("errors.Is(err, ErrWrite) = false")
	}
	if len(p.Groups) != 2 {
		t.Errorf("partition modified on failure: %d groups", len(p.Groups))
	}
}

func TestSave_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, _ := NewStore(t.TempDir(), Options{SplitGroups: true})
	if _, err := s.Save(ctx, samplePartition()); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() error = %v, want context.Canceled", err)
	}
}
