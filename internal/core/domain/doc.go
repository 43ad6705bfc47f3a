// Package domain defines the core types of the PDF panel host.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Status: A snapshot of a panel's current view parameters
//   - ViewState: The persisted subset of Status shared by all documents
//   - DocumentState: Per-document state (last page number)
//   - FindState: The last find query and its options
//   - Message: The envelope exchanged with a rendering panel
//   - ViewerSettings: Configured defaults applied when a panel opens
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
