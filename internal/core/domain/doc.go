// Package domain defines the core business entities for ReqSnake.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Requirement: An immutable record parsed from one quoted block
//   - ParsedRequirement: A Requirement plus the token of the document it came from
//   - SourceDocument: Raw markdown text handed in by a document source
//   - Diff: Added, removed and changed requirement IDs between two collections
//   - Error: The tagged error type raised by parsing and validation
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
