// Package domain defines the core business entities for Facet.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentID: Handle to a host-managed text document
//   - Value: Parsed key/value tree form of a document's text
//   - Message: Tagged envelope exchanged with a surface
//   - ChangeEvent: Notification that a document's text changed
//   - AppSettings: Surface and server configuration
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
