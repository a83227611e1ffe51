// Package domain defines the core business entities for bizassist.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: A retrievable text fragment with metadata
//   - RetrievalResult: A Record paired with its distance to a query
//   - Answer: A generated, cited and confidence-scored response
//   - IngestResult / HealthReport: Results returned by the host
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
