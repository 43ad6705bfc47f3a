package driven

import "context"

// FileSystem reads and writes document bytes.
type FileSystem interface {
	// ReadFile returns the contents of path.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFile replaces the contents of path.
	// Implementations must not leave partially written content behind.
	WriteFile(ctx context.Context, path string, data []byte) error

	// Remove deletes path.
	Remove(ctx context.Context, path string) error
}

// FileWatcher reports changes to individual files.
type FileWatcher interface {
	// Watch calls onChange every time path changes on disk.
	// The returned stop function releases the watch; it is safe to call twice.
	Watch(path string, onChange func()) (stop func(), err error)
}
