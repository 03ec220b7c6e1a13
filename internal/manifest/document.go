package manifest

import (
	"time"

	"github.com/bft-labs/packship/internal/domain"
)

// Document is the serialized form of a partition.
type Document struct {
	Method            string          `json:"method" yaml:"method" toml:"method"`
	MaxGroupSizeBytes int64           `json:"max_group_size_bytes" yaml:"max_group_size_bytes" toml:"max_group_size_bytes"`
	GroupCount        int             `json:"group_count" yaml:"group_count" toml:"group_count"`
	FileCount         int             `json:"file_count" yaml:"file_count" toml:"file_count"`
	TotalSizeBytes    int64           `json:"total_size_bytes" yaml:"total_size_bytes" toml:"total_size_bytes"`
	Groups            []GroupDocument `json:"groups" yaml:"groups" toml:"groups"`
}

// GroupDocument is the serialized form of one group.
type GroupDocument struct {
	Index          int         `json:"index" yaml:"index" toml:"index"`
	TotalSizeBytes int64       `json:"total_size_bytes" yaml:"total_size_bytes" toml:"total_size_bytes"`
	Oversize       bool        `json:"oversize" yaml:"oversize" toml:"oversize"`
	Files          []FileEntry `json:"files" yaml:"files" toml:"files"`
}

// FileEntry is the serialized form of one file record.
type FileEntry struct {
	Name         string `json:"name" yaml:"name" toml:"name"`
	Path         string `json:"path" yaml:"path" toml:"path"`
	SizeBytes    int64  `json:"size_bytes" yaml:"size_bytes" toml:"size_bytes"`
	LastModified string `json:"last_modified,omitempty" yaml:"last_modified,omitempty" toml:"last_modified,omitempty"`
	Checksum     string `json:"blake3,omitempty" yaml:"blake3,omitempty" toml:"blake3,omitempty"`
}

// FromPartition converts a partition to its document.
func FromPartition(p *domain.Partition) Document {
	doc := Document{
		Method:            p.Method.String(),
		MaxGroupSizeBytes: p.MaxGroupSizeBytes,
		GroupCount:        len(p.Groups),
		FileCount:         p.FileCount(),
		TotalSizeBytes:    p.TotalSizeBytes(),
		Groups:            make([]GroupDocument, 0, len(p.Groups)),
	}
	for i, g := range p.Groups {
		doc.Groups = append(doc.Groups, fromGroup(i+1, g))
	}
	return doc
}

func fromGroup(index int, g *domain.Group) GroupDocument {
	gd := GroupDocument{
		Index:          index,
		TotalSizeBytes: g.TotalSizeBytes,
		Oversize:       g.Oversize,
		Files:          make([]FileEntry, 0, len(g.Files)),
	}
	for _, f := range g.Files {
		gd.Files = append(gd.Files, FileEntry{
			Name:         f.Name,
			Path:         f.Path,
			SizeBytes:    f.SizeBytes,
			LastModified: formatTime(f.ModTime),
			Checksum:     f.Checksum,
		})
	}
	return gd
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
