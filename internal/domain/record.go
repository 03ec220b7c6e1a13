package domain

import "time"

// FileRecord describes a single file discovered by the scanner or the
// test file generator. Records are read-only once produced.
type FileRecord struct {
	// Path identifies the file (the full path for scanned files)
	Path string

	// Name is the base name of the file
	Name string

	// SizeBytes is the file size in bytes
	SizeBytes int64

	// ModTime is the last modification time
	ModTime time.Time

	// Checksum is the hex BLAKE3 digest of the contents, empty if not computed
	Checksum string
}

// Key identifies a record for multiset comparisons.
type Key struct {
	Path      string
	SizeBytes int64
}

// Key returns the identity of the record.
func (r FileRecord) Key() Key {
	return Key{Path: r.Path, SizeBytes: r.SizeBytes}
}
