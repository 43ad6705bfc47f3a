// Package services implements the driving port interfaces.
//
// The services own the panel protocol: Channel correlates requests with
// responses, Document tracks one PDF resource and its watcher, Presenter
// drives one rendering panel, PresenterCollection tracks the focused panel,
// and Provider ties them to the host editor's document lifecycle.
// WorkspaceState and SettingsService wrap the driven stores with typed
// accessors and defaults.
//
// Services depend only on domain and the port interfaces.
package services
