package domain

// ManifestHandle describes a manifest written by a store.
type ManifestHandle struct {
	// Path is the main manifest file
	Path string

	// GroupPaths lists per-group files, in group order, when they were written
	GroupPaths []string

	// Format is the serialization used ("json", "yaml" or "toml")
	Format string

	// Bytes is the size of the main manifest file
	Bytes int
}
