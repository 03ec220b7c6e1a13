// Package domain contains the core domain entities and value objects for packship.
//
// This package represents the innermost layer of the application. It has
// no dependencies on infrastructure concerns (file system, logging, CLI) and
// contains only the data model shared by the scanner, the grouping engine,
// the validator and the manifest store.
//
// # Entities
//
//   - [FileRecord]: A single file with its size and metadata
//   - [Group]: An ordered set of files whose total stays within a ceiling
//   - [Partition]: The ordered groups produced by one grouping run
//   - [Warning]: A non-fatal condition (oversize file, skipped entry)
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Testable without mocks or external systems
package domain
