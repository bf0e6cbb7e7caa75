// Package domain defines the core entities for empire-ledger.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Node: A generic save tree element (Scalar, List or Mapping)
//   - SaveDocument: An immutable parsed save identified by content hash
//   - Category views: Typed read-only projections produced by extractors
//   - Briefing: The aggregate of every category view for one document
//   - Snapshot: A persisted briefing, append-only
//   - Diff: Changes between two snapshots
//   - Request/Response: The envelope used at process boundaries
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
