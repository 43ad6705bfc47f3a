package panelhost

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/net/websocket"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driven"
	"github.com/custodia-labs/pdfpanel/internal/logger"
)

//go:embed bridge.js
var bridgeScript string

// controllerScript runs after the viewer modules and drives the viewer
// through the bridge.
//
//go:embed controller.js
var controllerScript string

// MessageViewState is posted by the page when it gains or loses focus. The
// host consumes it; it never reaches the presenter.
const MessageViewState = "viewstate"

type viewState struct {
	Active bool `json:"active"`
}

// Ensure Panel implements the interface.
var _ driven.Panel = (*Panel)(nil)

// Panel is one browser page. Messages posted before the page connects are
// queued and flushed in order once it does. The panel is disposed when the
// page disconnects.
type Panel struct {
	id   string
	host *Host
	log  logger.Scope

	// writeMu orders writes, including the flush of queued messages.
	writeMu sync.Mutex

	mu      sync.Mutex
	conn    *websocket.Conn
	pending []domain.Message
	html    string
	roots   []string
	active  bool
	closed  bool

	messages callbacks[[]byte]
	views    callbacks[bool]
	disposes callbacks[struct{}]
	once     sync.Once
}

func newPanel(id string, host *Host) *Panel {
	return &Panel{id: id, host: host, log: logger.With("panel", id)}
}

// ID returns the panel identifier.
func (p *Panel) ID() string {
	return p.id
}

// PostMessage sends msg to the page, or queues it until the page connects.
func (p *Panel) PostMessage(msg domain.Message) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("panel %s: %w", p.id, domain.ErrDisposed)
	}
	conn := p.conn
	if conn == nil {
		p.pending = append(p.pending, msg)
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	if err := websocket.JSON.Send(conn, msg); err != nil {
		return fmt.Errorf("panel %s: send %s: %w", p.id, msg.Type, err)
	}
	return nil
}

// SetHTML sets the page served for this panel. The websocket bridge and
// the page controller are injected at the end of its head.
func (p *Panel) SetHTML(html string) error {
	bridge := "<script>" + bridgeScript + "</script>\n" +
		`<script type="module">` + controllerScript + "</script>\n"
	if i := strings.Index(html, "</head>"); i >= 0 {
		html = html[:i] + bridge + html[i:]
	} else {
		html = bridge + html
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("panel %s: %w", p.id, domain.ErrDisposed)
	}
	p.html = html
	return nil
}

// HTML returns the page served for this panel.
func (p *Panel) HTML() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.html
}

// SetResourceRoots restricts the paths served below the resource route.
func (p *Panel) SetResourceRoots(roots []string) {
	cleaned := make([]string, 0, len(roots))
	for _, root := range roots {
		cleaned = append(cleaned, filepath.Clean(root))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.roots = cleaned
}

// AsResourceURL converts path to a URL relative to the panel host.
func (p *Panel) AsResourceURL(path string) string {
	path = filepath.ToSlash(filepath.Clean(path))
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return pagePath(p.id) + "/resource/" + strings.Join(segments, "/")
}

func (p *Panel) allowed(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, root := range p.roots {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Active reports whether the page has focus.
func (p *Panel) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active && !p.closed
}

func (p *Panel) setActive(active bool) {
	p.mu.Lock()
	if p.closed || p.active == active {
		p.mu.Unlock()
		return
	}
	p.active = active
	p.mu.Unlock()

	p.views.fire(active)
}

// Connected reports whether a page is attached.
func (p *Panel) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil
}

// OnDidReceiveMessage registers fn for messages posted by the page.
func (p *Panel) OnDidReceiveMessage(fn func(raw []byte)) func() {
	return p.messages.add(fn)
}

// OnDidChangeViewState registers fn for focus changes.
func (p *Panel) OnDidChangeViewState(fn func(active bool)) func() {
	return p.views.add(fn)
}

// OnDidDispose registers fn for the panel closing.
func (p *Panel) OnDidDispose(fn func()) func() {
	return p.disposes.add(func(struct{}) { fn() })
}

// serve runs the connection of the page until it disconnects. Only one page
// may be attached at a time.
func (p *Panel) serve(conn *websocket.Conn) {
	if !p.attach(conn) {
		p.log.Warn("rejecting second connection")
		_ = conn.Close()
		return
	}
	defer p.Close()

	for {
		var raw []byte
		if err := websocket.Message.Receive(conn, &raw); err != nil {
			p.log.Debug("disconnected: %v", err)
			return
		}
		p.receive(raw)
	}
}

// attach installs conn and flushes the queued messages.
func (p *Panel) attach(conn *websocket.Conn) bool {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	if p.closed || p.conn != nil {
		p.mu.Unlock()
		return false
	}
	p.conn = conn
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()

	for _, msg := range pending {
		if err := websocket.JSON.Send(conn, msg); err != nil {
			p.log.Warn("flush %s: %v", msg.Type, err)
		}
	}
	p.log.Debug("connected, flushed %d messages", len(pending))
	return true
}

func (p *Panel) receive(raw []byte) {
	var msg domain.Message
	if err := json.Unmarshal(raw, &msg); err == nil && msg.Type == MessageViewState {
		var state viewState
		if err := msg.DecodeBody(&state); err != nil {
			p.log.Warn("%v: viewstate: %v", domain.ErrMalformedMessage, err)
			return
		}
		p.host.focus(p, state.Active)
		return
	}
	p.messages.fire(raw)
}

// Close disconnects the page and fires the dispose handlers once.
func (p *Panel) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.active = false
		conn := p.conn
		p.pending = nil
		p.mu.Unlock()

		if conn != nil {
			_ = conn.Close()
		}
		p.host.remove(p)
		p.disposes.fire(struct{}{})
		p.log.Debug("closed")
	})
}

// callbacks calls its handlers in registration order.
type callbacks[T any] struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(T)
	order  []int
}

func (c *callbacks[T]) add(fn func(T)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fns == nil {
		c.fns = make(map[int]func(T))
	}
	c.nextID++
	id := c.nextID
	c.fns[id] = fn
	c.order = append(c.order, id)

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.fns, id)
	}
}

func (c *callbacks[T]) fire(arg T) {
	c.mu.Lock()
	fns := make([]func(T), 0, len(c.fns))
	live := c.order[:0]
	for _, id := range c.order {
		if fn, ok := c.fns[id]; ok {
			fns = append(fns, fn)
			live = append(live, id)
		}
	}
	c.order = live
	c.mu.Unlock()

	for _, fn := range fns {
		fn(arg)
	}
}
