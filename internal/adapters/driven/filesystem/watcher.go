package filesystem

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/pdfpanel/internal/core/ports/driven"
	"github.com/custodia-labs/pdfpanel/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// DefaultDebounce collapses the burst of events a single save produces.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changes to individual files using fsnotify.
// The parent directory is watched rather than the file itself so that
// atomic replace-by-rename writes are still observed.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu       sync.Mutex
	nextID   int
	handlers map[string]map[int]func()
	dirs     map[string]int
	timers   map[string]*time.Timer
	closed   bool
	done     chan struct{}
}

// NewWatcher starts an fsnotify watcher. A debounce of zero uses
// DefaultDebounce.
func NewWatcher(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		watcher:  fw,
		debounce: debounce,
		handlers: make(map[string]map[int]func()),
		dirs:     make(map[string]int),
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Watch calls onChange after path is written or replaced.
func (w *Watcher) Watch(path string, onChange func()) (func(), error) {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, fmt.Errorf("watch %s: watcher closed", path)
	}

	if w.dirs[dir] == 0 {
		if err := w.watcher.Add(dir); err != nil {
			return nil, fmt.Errorf("unable to watch %s: %w", dir, err)
		}
	}
	w.dirs[dir]++

	w.nextID++
	id := w.nextID
	if w.handlers[path] == nil {
		w.handlers[path] = make(map[int]func())
	}
	w.handlers[path][id] = onChange

	var once sync.Once
	return func() {
		once.Do(func() { w.unwatch(path, dir, id) })
	}, nil
}

func (w *Watcher) unwatch(path, dir string, id int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.handlers[path], id)
	if len(w.handlers[path]) == 0 {
		delete(w.handlers, path)
		if t, ok := w.timers[path]; ok {
			t.Stop()
			delete(w.timers, path)
		}
	}

	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if !w.closed {
			_ = w.watcher.Remove(dir)
		}
	}
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if path := w.handleFsEvent(event); path != "" {
				w.schedule(path)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("file watcher: %v", err)
		}
	}
}

// handleFsEvent returns the watched path an event refers to, or "" when
// the event is irrelevant.
func (w *Watcher) handleFsEvent(event fsnotify.Event) string {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return ""
	}
	path := filepath.Clean(event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.handlers[path]) == 0 {
		return ""
	}
	return path
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() { w.notify(path) })
}

func (w *Watcher) notify(path string) {
	w.mu.Lock()
	delete(w.timers, path)
	fns := make([]func(), 0, len(w.handlers[path]))
	for _, fn := range w.handlers[path] {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	logger.Debug("file watcher: %s changed", path)
	for _, fn := range fns {
		fn()
	}
}

// Close stops the watcher. Pending notifications are discarded.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	<-w.done
	return err
}
