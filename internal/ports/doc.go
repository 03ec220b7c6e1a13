// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// Ports are the boundaries between the run orchestration and the outside
// world. They define what a run needs from file sources and manifest storage
// without specifying how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [FileSource]: Yields file records one at a time from a directory
//   - [ManifestStore]: Persists a finished partition
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure packages (internal/scan, internal/manifest) implement them
// with concrete file system code.
package ports
