package panel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driven"
	"github.com/custodia-labs/pdfpanel/internal/logger"
)

// Ensure Local implements the interface.
var _ driven.Panel = (*Local)(nil)

// Guest is the code running inside a panel page.
type Guest interface {
	// Start runs once the page has loaded.
	Start()

	// Receive handles a message posted by the host.
	Receive(ctx context.Context, msg domain.Message)
}

// Local is an in-process panel. Messages cross the boundary as JSON and are
// delivered asynchronously, in order, in each direction.
type Local struct {
	id string
	fs driven.FileSystem

	ctx    context.Context
	cancel context.CancelFunc

	toGuest *mailbox
	toHost  *mailbox

	mu     sync.Mutex
	guest  Guest
	active bool
	html   string
	roots  []string
	closed bool

	messages handlers[[]byte]
	views    handlers[bool]
	disposes handlers[struct{}]
}

// NewLocal creates an in-process panel reading resources from fs.
func NewLocal(id string, fs driven.FileSystem) *Local {
	ctx, cancel := context.WithCancel(context.Background())
	return &Local{
		id:      id,
		fs:      fs,
		ctx:     ctx,
		cancel:  cancel,
		toGuest: newMailbox(),
		toHost:  newMailbox(),
	}
}

// NewHeadlessPanel creates a Local panel hosting a Headless viewer.
func NewHeadlessPanel(id string, fs driven.FileSystem) (*Local, *Headless) {
	local := NewLocal(id, fs)
	viewer := NewHeadless(local.Fetch)
	local.Attach(NewWrapper(viewer, local.PostToHost))
	return local, viewer
}

// Attach installs the guest started by SetHTML.
func (l *Local) Attach(guest Guest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.guest = guest
}

// ID returns the panel identifier.
func (l *Local) ID() string {
	return l.id
}

// PostMessage queues msg for the guest.
func (l *Local) PostMessage(msg domain.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Type, err)
	}
	ok := l.toGuest.put(func() {
		var decoded domain.Message
		if err := json.Unmarshal(data, &decoded); err != nil {
			logger.Warn("panel %s: %v: %v", l.id, domain.ErrMalformedMessage, err)
			return
		}
		if guest := l.currentGuest(); guest != nil {
			guest.Receive(l.ctx, decoded)
		}
	})
	if !ok {
		return fmt.Errorf("panel %s: %w", l.id, domain.ErrDisposed)
	}
	return nil
}

// PostToHost queues msg for the host.
func (l *Local) PostToHost(msg domain.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Type, err)
	}
	if !l.toHost.put(func() { l.messages.fire(data) }) {
		return fmt.Errorf("panel %s: %w", l.id, domain.ErrDisposed)
	}
	return nil
}

// SetHTML loads the page, which starts the guest.
func (l *Local) SetHTML(html string) error {
	l.mu.Lock()
	l.html = html
	l.mu.Unlock()

	if !l.toGuest.put(func() {
		if guest := l.currentGuest(); guest != nil {
			guest.Start()
		}
	}) {
		return fmt.Errorf("panel %s: %w", l.id, domain.ErrDisposed)
	}
	return nil
}

// HTML returns the loaded page.
func (l *Local) HTML() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.html
}

func (l *Local) currentGuest() Guest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.guest
}

// SetResourceRoots restricts the paths Fetch may read.
func (l *Local) SetResourceRoots(roots []string) {
	cleaned := make([]string, 0, len(roots))
	for _, root := range roots {
		cleaned = append(cleaned, filepath.Clean(root))
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.roots = cleaned
}

// AsResourceURL converts path to a file URL.
func (l *Local) AsResourceURL(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

// Fetch reads a resource URL on behalf of the guest.
func (l *Local) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "file" {
		return nil, fmt.Errorf("resource %q: %w", rawURL, domain.ErrInvalidInput)
	}
	path := filepath.Clean(filepath.FromSlash(u.Path))
	if !l.allowed(path) {
		return nil, fmt.Errorf("resource %s: %w", path, domain.ErrPathNotAllowed)
	}
	return l.fs.ReadFile(ctx, path)
}

func (l *Local) allowed(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, root := range l.roots {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Active reports whether the panel has focus.
func (l *Local) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active && !l.closed
}

// SetActive gives or takes focus and notifies the host when it changed.
func (l *Local) SetActive(active bool) {
	l.mu.Lock()
	if l.closed || l.active == active {
		l.mu.Unlock()
		return
	}
	l.active = active
	l.mu.Unlock()

	l.toHost.put(func() { l.views.fire(active) })
}

// OnDidReceiveMessage registers fn for messages posted by the guest.
func (l *Local) OnDidReceiveMessage(fn func(raw []byte)) func() {
	return l.messages.add(fn)
}

// OnDidChangeViewState registers fn for focus changes.
func (l *Local) OnDidChangeViewState(fn func(active bool)) func() {
	return l.views.add(fn)
}

// OnDidDispose registers fn for the panel closing.
func (l *Local) OnDidDispose(fn func()) func() {
	return l.disposes.add(func(struct{}) { fn() })
}

// Close closes the panel. Queued host notifications are delivered before
// the dispose notification.
func (l *Local) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.active = false
	l.mu.Unlock()

	l.toGuest.close()
	l.toHost.put(func() {
		l.disposes.fire(struct{}{})
		l.cancel()
	})
	l.toHost.close()
}

// Done is closed once every queued host notification has been delivered
// after Close.
func (l *Local) Done() <-chan struct{} {
	return l.toHost.done
}

// mailbox runs queued functions one at a time in order.
type mailbox struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

func newMailbox() *mailbox {
	m := &mailbox{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *mailbox) put(fn func()) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	m.queue = append(m.queue, fn)
	m.mu.Unlock()

	m.signal()
	return true
}

func (m *mailbox) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// close stops accepting work; queued functions still run.
func (m *mailbox) close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.signal()
}

func (m *mailbox) run() {
	defer close(m.done)
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			closed := m.closed
			m.mu.Unlock()
			if closed {
				return
			}
			<-m.wake
			continue
		}
		fn := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		fn()
	}
}
