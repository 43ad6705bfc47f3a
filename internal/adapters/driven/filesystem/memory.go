package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/custodia-labs/pdfpanel/internal/core/ports/driven"
)

// Ensure Memory implements both interfaces.
var (
	_ driven.FileSystem  = (*Memory)(nil)
	_ driven.FileWatcher = (*Memory)(nil)
)

// Memory is an in-memory file system whose watchers fire synchronously
// after every write. Suitable for testing.
type Memory struct {
	mu       sync.Mutex
	files    map[string][]byte
	nextID   int
	watchers map[string]map[int]func()
}

// NewMemory creates an empty in-memory file system.
func NewMemory() *Memory {
	return &Memory{
		files:    make(map[string][]byte),
		watchers: make(map[string]map[int]func()),
	}
}

// ReadFile returns a copy of the contents of path.
func (m *Memory) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

// WriteFile stores a copy of data and notifies watchers of path.
func (m *Memory) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path = filepath.Clean(path)

	m.mu.Lock()
	m.files[path] = append([]byte(nil), data...)
	m.mu.Unlock()

	m.Touch(path)
	return nil
}

// Remove deletes path.
func (m *Memory) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if _, ok := m.files[path]; !ok {
		return fmt.Errorf("remove %s: %w", path, os.ErrNotExist)
	}
	delete(m.files, path)
	return nil
}

// Exists reports whether path holds a file.
func (m *Memory) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[filepath.Clean(path)]
	return ok
}

// Paths returns every stored path in lexical order.
func (m *Memory) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Watch registers onChange for writes to path.
func (m *Memory) Watch(path string, onChange func()) (func(), error) {
	path = filepath.Clean(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	if m.watchers[path] == nil {
		m.watchers[path] = make(map[int]func())
	}
	m.watchers[path][id] = onChange

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.watchers[path], id)
	}, nil
}

// Touch simulates an external change to path without altering its bytes.
func (m *Memory) Touch(path string) {
	path = filepath.Clean(path)

	m.mu.Lock()
	fns := make([]func(), 0, len(m.watchers[path]))
	for _, fn := range m.watchers[path] {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
