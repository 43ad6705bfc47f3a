package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driven"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driving"
	"github.com/custodia-labs/pdfpanel/internal/logger"
)

// Ensure Presenter implements the interface.
var _ driving.PanelController = (*Presenter)(nil)

// PresenterState is the lifecycle state of one panel session.
type PresenterState int

// Presenter states, in lifecycle order.
const (
	// PresenterInitializing means the panel page is being prepared.
	PresenterInitializing PresenterState = iota
	// PresenterAwaitingReady means the page is loaded and the panel has not
	// announced itself yet.
	PresenterAwaitingReady
	// PresenterOpen means the open call has been issued.
	PresenterOpen
	// PresenterActive means at least one status has been received.
	PresenterActive
	// PresenterDisposed is terminal.
	PresenterDisposed
)

// String returns the state name.
func (s PresenterState) String() string {
	switch s {
	case PresenterInitializing:
		return "initializing"
	case PresenterAwaitingReady:
		return "awaiting-ready"
	case PresenterOpen:
		return "open"
	case PresenterActive:
		return "active"
	case PresenterDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// PresenterConfig holds the collaborators shared by every presenter.
type PresenterConfig struct {
	// Workspace persists view, page and find state.
	Workspace *WorkspaceState

	// Settings supplies the configured open defaults. Optional.
	Settings driving.SettingsService

	// LibDir is the directory holding the viewer library resources.
	LibDir string
}

// Presenter bridges one Document and one rendering panel.
type Presenter struct {
	doc       *Document
	panel     driven.Panel
	workspace *WorkspaceState
	settings  driving.SettingsService
	libDir    string
	channel   *Channel
	log       logger.Scope

	// ctx bounds background work and ends on dispose.
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	state  PresenterState
	status *domain.Status

	changed  emitter[*Presenter]
	disposes emitter[struct{}]
	owned    subscriptions
	once     sync.Once
}

// NewPresenter binds doc to panel and loads the panel page.
func NewPresenter(doc *Document, panel driven.Panel, cfg PresenterConfig) (*Presenter, error) {
	if cfg.Workspace == nil {
		return nil, fmt.Errorf("presenter workspace state: %w", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Presenter{
		doc:       doc,
		panel:     panel,
		workspace: cfg.Workspace,
		settings:  cfg.Settings,
		libDir:    cfg.LibDir,
		log:       logger.With("presenter", panel.ID()),
		ctx:       ctx,
		cancel:    cancel,
		state:     PresenterInitializing,
	}
	p.channel = NewChannel(panel.PostMessage, p.handle)

	p.owned.add(panel.OnDidReceiveMessage(p.channel.Dispatch))
	p.owned.add(panel.OnDidChangeViewState(p.onViewStateChanged))
	p.owned.add(panel.OnDidDispose(p.Dispose))

	html, err := renderPanelHTML(panel, p.libDir, filepath.Base(doc.URI()), p.viewerSettings().HighlightColors)
	if err != nil {
		p.Dispose()
		return nil, err
	}

	p.setState(PresenterAwaitingReady)
	if err := panel.SetHTML(html); err != nil {
		p.Dispose()
		return nil, fmt.Errorf("set panel html: %w", err)
	}

	p.log.Debug("awaiting ready for %s", doc.URI())
	return p, nil
}

// Document returns the presented document.
func (p *Presenter) Document() *Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc
}

// rebind moves the presenter to doc, which replaces the document it was
// showing, and reloads the panel from doc's data file.
func (p *Presenter) rebind(doc *Document) error {
	p.mu.Lock()
	if p.state == PresenterDisposed {
		p.mu.Unlock()
		return domain.ErrDisposed
	}
	p.doc = doc
	p.mu.Unlock()
	return p.Reload(doc.DataFile())
}

// PanelID returns the identifier of the bound panel.
func (p *Presenter) PanelID() string {
	return p.panel.ID()
}

// Active reports whether the panel has input focus.
func (p *Presenter) Active() bool {
	return p.State() != PresenterDisposed && p.panel.Active()
}

// State returns the current lifecycle state.
func (p *Presenter) State() PresenterState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Presenter) setState(state PresenterState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != PresenterDisposed {
		p.state = state
	}
}

// Status returns a copy of the last known status, nil while the panel is
// unfocused or before it reported one.
func (p *Presenter) Status() *domain.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == nil {
		return nil
	}
	s := p.status.Clone()
	return &s
}

// OnDidChange registers fn for status and focus changes.
func (p *Presenter) OnDidChange(fn func(*Presenter)) func() {
	return p.changed.subscribe(fn)
}

// OnDidDispose registers fn to run once when the panel session ends.
func (p *Presenter) OnDidDispose(fn func()) func() {
	return p.disposes.subscribe(func(struct{}) { fn() })
}

func (p *Presenter) viewerSettings() domain.ViewerSettings {
	if p.settings == nil {
		return domain.DefaultViewerSettings()
	}
	settings, err := p.settings.Get()
	if err != nil {
		p.log.Warn("read settings: %v", err)
		return domain.DefaultViewerSettings()
	}
	return settings
}

// handle receives every non-response message from the panel.
func (p *Presenter) handle(msg domain.Message) {
	switch msg.Type {
	case domain.MessageReady:
		p.onReady()
	case domain.MessageStatus:
		var status domain.Status
		if err := msg.DecodeBody(&status); err != nil {
			p.log.Warn("%v: status: %v", domain.ErrMalformedMessage, err)
			return
		}
		p.applyStatus(status)
	case domain.MessageFind:
		var state domain.FindState
		if err := msg.DecodeBody(&state); err != nil {
			p.log.Warn("%v: find: %v", domain.ErrMalformedMessage, err)
			return
		}
		if err := p.workspace.SetFindState(p.ctx, state); err != nil {
			p.log.Warn("persist find state: %v", err)
		}
	default:
		p.log.Debug("ignoring %q message", msg.Type)
	}
}

// onReady opens the document. A panel that announces itself again has
// reloaded its page and is opened again.
func (p *Presenter) onReady() {
	p.mu.Lock()
	if p.state == PresenterDisposed {
		p.mu.Unlock()
		return
	}
	p.state = PresenterOpen
	p.mu.Unlock()

	req := domain.OpenRequest{
		Document:            domain.DocumentRef{URL: p.panel.AsResourceURL(p.Document().DataFile())},
		CMapURL:             libURL(p.panel, p.libDir, libCMaps),
		StandardFontDataURL: libURL(p.panel, p.libDir, libFonts),
		Defaults:            p.openDefaults(),
	}

	// Post here so open precedes every later message to the panel. The
	// response arrives on the dispatch path that delivered ready, so only
	// the wait moves off it.
	call, err := p.channel.Request(domain.MessageOpen, req)
	if err != nil {
		p.log.Debug("open: %v", err)
		return
	}
	go func() {
		body, err := call.Wait(p.ctx)
		if err != nil {
			p.log.Debug("open: %v", err)
			return
		}
		var status domain.Status
		if err := json.Unmarshal(body, &status); err != nil || len(body) == 0 {
			return
		}
		if status != (domain.Status{}) {
			p.applyStatus(status)
		}
	}()
}

// openDefaults merges configured settings, the persisted view state and
// the remembered page of this document, in increasing precedence.
func (p *Presenter) openDefaults() domain.Defaults {
	settings := p.viewerSettings()
	defaults := domain.Defaults{
		PageNumber:  1,
		ZoomMode:    settings.Zoom,
		ScrollMode:  settings.ScrollMode,
		SpreadMode:  settings.SpreadMode,
		OutlineSize: domain.DefaultViewState().OutlineSize,
		Cursor:      string(settings.Cursor),
		SidebarView: string(settings.SidebarView),
	}

	if view, ok := p.workspace.StoredViewState(p.ctx); ok {
		if view.ZoomMode != "" {
			defaults.ZoomMode = view.ZoomMode
		}
		if view.ScrollMode != "" {
			defaults.ScrollMode = view.ScrollMode
		}
		if view.SpreadMode != "" {
			defaults.SpreadMode = view.SpreadMode
		}
		if view.OutlineSize != "" {
			defaults.OutlineSize = view.OutlineSize
		}
	}

	if page := p.workspace.PageNumber(p.ctx, p.Document().URI()); page > 0 {
		defaults.PageNumber = page
	}
	return defaults
}

// applyStatus merges a status report into the cached status, notifies
// listeners and persists what changed.
func (p *Presenter) applyStatus(update domain.Status) {
	p.mu.Lock()
	if p.state == PresenterDisposed {
		p.mu.Unlock()
		return
	}
	var merged domain.Status
	if p.status != nil {
		merged = p.status.Merge(update)
	} else {
		merged = update.Clone()
	}
	p.status = &merged
	p.state = PresenterActive
	p.mu.Unlock()

	p.changed.fire(p)

	if update.Pages != nil && update.Pages.Current > 0 {
		if err := p.workspace.SetPageNumber(p.ctx, p.Document().URI(), update.Pages.Current); err != nil {
			p.log.Warn("persist page: %v", err)
		}
	}
	if _, err := p.workspace.ApplyStatus(p.ctx, update); err != nil {
		p.log.Warn("persist view state: %v", err)
	}
}

func (p *Presenter) onViewStateChanged(active bool) {
	if p.State() == PresenterDisposed {
		return
	}

	if active {
		if err := p.channel.Send(domain.MessageStatus, struct{}{}); err != nil {
			p.log.Debug("request status: %v", err)
		}
	} else {
		p.mu.Lock()
		p.status = nil
		p.mu.Unlock()
	}
	p.changed.fire(p)
}

// Dispose ends the session: the dispose and change notifications fire
// exactly once, pending calls fail and every subscription is released.
func (p *Presenter) Dispose() {
	p.once.Do(func() {
		p.mu.Lock()
		p.state = PresenterDisposed
		p.status = nil
		p.mu.Unlock()

		p.disposes.fire(struct{}{})
		p.changed.fire(p)

		p.owned.release()
		p.channel.Close()
		p.cancel()
		p.changed.clear()
		p.disposes.clear()

		p.log.Debug("disposed")
	})
}

// Save asks the panel to serialize the document.
func (p *Presenter) Save(ctx context.Context) ([]byte, error) {
	body, err := p.channel.Call(ctx, domain.MessageSave, struct{}{})
	if err != nil {
		return nil, err
	}
	return decodeBytes(body)
}

// decodeBytes reads a save response, which carries the document as an
// array of byte values.
func decodeBytes(body json.RawMessage) ([]byte, error) {
	var data domain.ByteArray
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode save response: %w", err)
	}
	return data, nil
}

// Reload asks the panel to re-read the document from dataFile.
func (p *Presenter) Reload(dataFile string) error {
	return p.channel.Send(domain.MessageReload, domain.ReloadRequest{
		Document: domain.DocumentRef{URL: p.panel.AsResourceURL(dataFile)},
	})
}

// Navigate moves to a page or runs a navigation action.
func (p *Presenter) Navigate(req domain.NavigateRequest) error {
	if req.Page < 0 || (req.Page == 0 && req.Action == "") {
		return fmt.Errorf("navigate %+v: %w", req, domain.ErrInvalidInput)
	}
	return p.channel.Send(domain.MessageNavigate, req)
}

// View changes spread, scroll, zoom or rotation.
func (p *Presenter) View(req domain.ViewRequest) error {
	if req.SpreadMode != "" && !req.SpreadMode.IsValid() {
		return fmt.Errorf("spread mode %q: %w", req.SpreadMode, domain.ErrInvalidInput)
	}
	if req.ScrollMode != "" && !req.ScrollMode.IsValid() {
		return fmt.Errorf("scroll mode %q: %w", req.ScrollMode, domain.ErrInvalidInput)
	}
	if req.ZoomMode != nil && req.ZoomMode.Scale != "" && !req.ZoomMode.Scale.IsValid() {
		return fmt.Errorf("zoom %q: %w", req.ZoomMode.Scale, domain.ErrInvalidInput)
	}
	return p.channel.Send(domain.MessageView, req)
}

// Find opens the find affordance pre-filled with the last find state.
func (p *Presenter) Find() error {
	return p.channel.Send(domain.MessageFind, p.workspace.FindState(p.ctx))
}

// Highlight starts a highlight session with color, or removes highlights
// in the current selection when color is nil.
func (p *Presenter) Highlight(color *string) error {
	return p.channel.Send(domain.MessageHighlight, domain.HighlightRequest{Color: color})
}

// ToggleOutline shows or hides the outline sidebar.
func (p *Presenter) ToggleOutline() error {
	return p.channel.Send(domain.MessageToggle, domain.ToggleRequest{Sidebar: domain.SidebarOutline})
}
