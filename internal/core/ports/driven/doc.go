// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Panel: An isolated rendering context reachable only by posting messages
//   - FileSystem: Reads and writes document bytes
//   - FileWatcher: Reports external changes to a document's file
//   - StateStore: Workspace state persistence (view, page and find state)
//   - ConfigStore: Viewer settings
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
