// Package domain defines the core business entities for pdfren.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A PDF file queued for renaming
//   - Candidate: A proposed title with provenance and score
//   - RenamePlan: The resolved target name for one document
//   - RunReport: The ordered per-document outcomes of one run
//   - RenameSettings: The immutable configuration passed into a run
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
