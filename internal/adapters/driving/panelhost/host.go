// Package panelhost serves rendering panels to a browser. Each panel is a
// page at /panels/{id} whose messages travel over a websocket.
package panelhost

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driven"
	"github.com/custodia-labs/pdfpanel/internal/logger"
)

// Host owns the browser panels and the HTTP server they are loaded from.
type Host struct {
	fs driven.FileSystem

	mu     sync.Mutex
	panels map[string]*Panel
	active *Panel

	server   *http.Server
	listener net.Listener
	port     int
}

// NewHost creates a panel host serving resources from fs.
func NewHost(fs driven.FileSystem) *Host {
	return &Host{
		fs:     fs,
		panels: make(map[string]*Panel),
	}
}

// NewPanel creates a panel with a fresh identifier. The panel is reachable
// at URL(panel.ID()) until it is closed.
func (h *Host) NewPanel() *Panel {
	p := newPanel(uuid.NewString(), h)

	h.mu.Lock()
	h.panels[p.id] = p
	h.mu.Unlock()

	logger.Debug("panelhost: created panel %s", p.id)
	return p
}

// Panel returns the open panel with id.
func (h *Host) Panel(id string) (*Panel, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.panels[id]
	return p, ok
}

// Panels returns every open panel.
func (h *Host) Panels() []*Panel {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Panel, 0, len(h.panels))
	for _, p := range h.panels {
		out = append(out, p)
	}
	return out
}

func (h *Host) remove(p *Panel) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.panels[p.id] == p {
		delete(h.panels, p.id)
	}
	if h.active == p {
		h.active = nil
	}
}

// focus records which panel has focus. Focusing a panel blurs the one that
// had focus before.
func (h *Host) focus(p *Panel, active bool) {
	h.mu.Lock()
	var blurred *Panel
	if active {
		if h.active != nil && h.active != p {
			blurred = h.active
		}
		h.active = p
	} else if h.active == p {
		h.active = nil
	}
	h.mu.Unlock()

	if blurred != nil {
		blurred.setActive(false)
	}
	p.setActive(active)
}

// Handler returns the HTTP handler serving panel pages, their resources and
// their websockets.
func (h *Host) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /panels/{id}", h.handlePage)
	mux.HandleFunc("GET /panels/{id}/resource/{path...}", h.handleResource)
	mux.HandleFunc("GET /panels/{id}/ws", h.handleSocket)
	return mux
}

func (h *Host) handlePage(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Panel(r.PathValue("id"))
	if !ok || p.HTML() == "" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = fmt.Fprint(w, p.HTML())
}

func (h *Host) handleResource(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Panel(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	path := filepath.Clean(filepath.FromSlash("/" + r.PathValue("path")))
	if !p.allowed(path) {
		p.log.Warn("resource %s: %v", path, domain.ErrPathNotAllowed)
		http.Error(w, domain.ErrPathNotAllowed.Error(), http.StatusForbidden)
		return
	}

	data, err := h.fs.ReadFile(r.Context(), path)
	if errors.Is(err, os.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		p.log.Warn("read %s: %v", path, err)
		http.Error(w, "read failed", http.StatusInternalServerError)
		return
	}

	// Modules must be served with a script type.
	if filepath.Ext(path) == ".mjs" {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	}
	http.ServeContent(w, r, filepath.Base(path), time.Time{}, bytes.NewReader(data))
}

func (h *Host) handleSocket(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Panel(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	server := websocket.Server{
		Handshake: func(config *websocket.Config, req *http.Request) error {
			return checkOrigin(config, req)
		},
		Handler: p.serve,
	}
	server.ServeHTTP(w, r)
}

// checkOrigin accepts connections from pages served by this host and from
// clients that send no origin.
func checkOrigin(config *websocket.Config, req *http.Request) error {
	origin := req.Header.Get("Origin")
	if origin == "" {
		return nil
	}
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("origin %q: %w", origin, domain.ErrInvalidInput)
	}
	if u.Host != req.Host {
		return fmt.Errorf("origin %s: %w", origin, domain.ErrPathNotAllowed)
	}
	config.Origin = u
	return nil
}

// Start starts serving on 127.0.0.1 at port.
// If port is 0, a random available port will be chosen.
func (h *Host) Start(port int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	h.listener = listener
	h.port = port
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		h.port = tcpAddr.Port
	}

	h.server = &http.Server{
		Handler:           h.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := h.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("panelhost: serve: %v", err)
		}
	}()

	logger.Info("panelhost: listening on %s", h.baseURL())
	return nil
}

// Stop closes every panel and shuts the server down.
func (h *Host) Stop() error {
	for _, p := range h.Panels() {
		p.Close()
	}

	h.mu.Lock()
	server := h.server
	h.server = nil
	h.mu.Unlock()

	if server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

// Port returns the port the server is listening on.
func (h *Host) Port() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.port
}

func (h *Host) baseURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", h.port)
}

// URL returns the address of the page of panel id.
func (h *Host) URL(id string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.baseURL() + pagePath(id)
}

func pagePath(id string) string {
	return "/panels/" + url.PathEscape(id)
}
