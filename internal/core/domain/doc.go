// Package domain defines the core business entities for finrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: One ingested annual-report PDF
//   - Page: Per-page content with layout hints
//   - Table: A reconstructed grid with inferred headers
//   - Chunk: The atomic retrievable, metadata-tagged unit
//   - Record: The JSON boundary contract for persisted chunks
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
