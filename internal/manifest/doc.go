// Package manifest persists a partition for downstream consumption.
//
// A manifest lists the groups of a partition in creation order. Each group
// carries its total size, an oversize flag and its member files in placement
// order. The store writes one manifest file and, optionally, one file per
// group:
//
//	<dir>/manifest.json
//	<dir>/group_001.json
//	<dir>/group_002.json
//
// # Formats
//
// JSON is the default. YAML and TOML are available for consumers that prefer
// them. All formats carry the same document and identical partitions always
// produce byte-identical files.
//
// # Safety
//
// Files are written atomically (temp file, then rename) while holding an
// advisory lock on <dir>/.manifest.lock. Saving never touches anything in
// the directory except the manifest, the lock file and group_NNN files.
package manifest
