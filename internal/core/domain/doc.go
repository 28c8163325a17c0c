// Package domain defines the core business entities for askdocs.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded document and its ingestion status
//   - Chunk: A retrieval unit within a document
//   - Interaction: One logged question/answer exchange
//   - Conversation: A thread of interactions
//   - AnalyticsReport: Aggregated usage statistics
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
