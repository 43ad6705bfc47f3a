package panel

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/logger"
)

// PostFunc posts a message to the host.
type PostFunc func(msg domain.Message) error

// Wrapper runs inside a panel. It applies host messages to a Viewer and
// reports the viewer's state back to the host.
type Wrapper struct {
	viewer Viewer
	post   PostFunc

	mu   sync.Mutex
	offs []func()
}

// NewWrapper creates a wrapper driving viewer and posting through post.
func NewWrapper(viewer Viewer, post PostFunc) *Wrapper {
	return &Wrapper{viewer: viewer, post: post}
}

// Start subscribes to viewer events and announces the panel to the host.
// Calling it again after the page reloaded announces the panel again.
func (w *Wrapper) Start() {
	w.mu.Lock()
	if w.offs == nil {
		v := w.viewer
		w.offs = []func(){
			v.On(EventScrollModeChanged, func() { w.postStatus(domain.Status{ScrollMode: v.ScrollMode()}) }),
			v.On(EventSpreadModeChanged, func() { w.postStatus(domain.Status{SpreadMode: v.SpreadMode()}) }),
			v.On(EventScaleChanging, func() { w.postStatus(domain.Status{ZoomMode: v.ZoomMode()}) }),
			v.On(EventRotationChanging, func() {
				r := v.Rotation()
				w.postStatus(domain.Status{PagesRotation: &r})
			}),
			v.On(EventPageChanging, func() {
				w.postStatus(domain.Status{Pages: &domain.Pages{Current: v.CurrentPage(), Total: v.TotalPages()}})
			}),
			v.On(EventOutlineLayoutChanged, func() { w.postStatus(domain.Status{OutlineSize: v.OutlineSize()}) }),
			v.On(EventFind, func() { w.send(domain.MessageFind, v.FindState()) }),
		}
	}
	w.mu.Unlock()

	w.send(domain.MessageReady, nil)
}

// Stop releases the viewer subscriptions.
func (w *Wrapper) Stop() {
	w.mu.Lock()
	offs := w.offs
	w.offs = nil
	w.mu.Unlock()

	for _, off := range offs {
		off()
	}
}

// Dispatch decodes a raw host message and handles it.
func (w *Wrapper) Dispatch(ctx context.Context, raw []byte) {
	var msg domain.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		logger.Warn("panel: %v: %v", domain.ErrMalformedMessage, err)
		return
	}
	w.Receive(ctx, msg)
}

// Receive handles one host message.
func (w *Wrapper) Receive(ctx context.Context, msg domain.Message) {
	var err error
	switch msg.Type {
	case domain.MessageOpen:
		err = w.onOpen(ctx, msg)
	case domain.MessageReload:
		err = w.onReload(ctx, msg)
	case domain.MessageSave:
		err = w.onSave(ctx, msg)
	case domain.MessageView:
		err = w.onView(msg)
	case domain.MessageNavigate:
		err = w.onNavigate(msg)
	case domain.MessageStatus:
		w.send(domain.MessageStatus, w.Status())
	case domain.MessageFind:
		var state domain.FindState
		if err = msg.DecodeBody(&state); err == nil {
			w.viewer.Find(state)
		}
	case domain.MessageHighlight:
		var req domain.HighlightRequest
		if err = msg.DecodeBody(&req); err == nil {
			w.viewer.Highlight(req.Color)
		}
	case domain.MessageToggle:
		var req domain.ToggleRequest
		if err = msg.DecodeBody(&req); err == nil && req.Sidebar == domain.SidebarOutline {
			w.viewer.SetOutlineSize(domain.ToggleOutlineSize(w.viewer.OutlineSize()))
		}
	default:
		logger.Debug("panel: ignoring %q message", msg.Type)
	}
	if err != nil {
		logger.Warn("panel: %s: %v", msg.Type, err)
	}
}

// Status returns a full snapshot of the viewer.
func (w *Wrapper) Status() domain.Status {
	v := w.viewer
	zoom := v.ZoomMode()
	if zoom == "" {
		zoom = domain.ZoomAuto
	}
	rotation := v.Rotation()
	return domain.Status{
		SpreadMode:    v.SpreadMode(),
		ScrollMode:    v.ScrollMode(),
		ZoomMode:      zoom,
		PagesRotation: &rotation,
		Pages:         &domain.Pages{Current: v.CurrentPage(), Total: v.TotalPages()},
		OutlineSize:   v.OutlineSize(),
	}
}

func (w *Wrapper) onOpen(ctx context.Context, msg domain.Message) error {
	var req domain.OpenRequest
	if err := msg.DecodeBody(&req); err != nil {
		return err
	}
	defaults := req.Defaults
	if err := w.viewer.Load(ctx, LoadConfig{Document: req.Document, Defaults: &defaults}); err != nil {
		return err
	}
	if msg.RequestID != 0 {
		w.respond(msg.RequestID, w.Status())
		return nil
	}
	w.send(domain.MessageStatus, w.Status())
	return nil
}

func (w *Wrapper) onReload(ctx context.Context, msg domain.Message) error {
	var req domain.ReloadRequest
	if err := msg.DecodeBody(&req); err != nil {
		return err
	}
	return w.viewer.Load(ctx, LoadConfig{Document: req.Document})
}

// onSave answers with the document bytes. A failed save is not answered
// and the host call ends with its own context.
func (w *Wrapper) onSave(ctx context.Context, msg domain.Message) error {
	data, err := w.viewer.Save(ctx)
	if err != nil {
		return err
	}
	w.respond(msg.RequestID, domain.ByteArray(data))
	return nil
}

func (w *Wrapper) onView(msg domain.Message) error {
	var req domain.ViewRequest
	if err := msg.DecodeBody(&req); err != nil {
		return err
	}
	v := w.viewer
	if req.SpreadMode != "" {
		v.SetSpreadMode(req.SpreadMode)
	}
	if req.ScrollMode != "" {
		v.SetScrollMode(req.ScrollMode)
	}
	if z := req.ZoomMode; z != nil {
		if z.Steps != 0 {
			v.UpdateZoom(z.Steps)
		} else if z.Scale != "" {
			v.SetZoomMode(z.Scale)
		}
	}
	if r := req.PagesRotation; r != nil && r.Delta != 0 {
		v.SetRotation(v.Rotation() + r.Delta)
	}
	return nil
}

// onNavigate moves to an explicit page, clamped to the document, or runs
// an action.
func (w *Wrapper) onNavigate(msg domain.Message) error {
	var req domain.NavigateRequest
	if err := msg.DecodeBody(&req); err != nil {
		return err
	}
	v := w.viewer
	total := v.TotalPages()
	switch {
	case req.Page > 0:
		v.SetCurrentPage(clamp(req.Page, 1, total))
	case req.Action == "":
		return nil
	case req.Action == domain.ActionFirst:
		v.SetCurrentPage(1)
	case req.Action == domain.ActionPrev:
		v.SetCurrentPage(max(v.CurrentPage()-1, 1))
	case req.Action == domain.ActionNext:
		v.SetCurrentPage(min(v.CurrentPage()+1, total))
	case req.Action == domain.ActionLast:
		v.SetCurrentPage(total)
	default:
		v.ExecuteNamedAction(req.Action)
	}
	return nil
}

func clamp(n, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(n, lo), hi)
}

func (w *Wrapper) postStatus(status domain.Status) {
	w.send(domain.MessageStatus, status)
}

func (w *Wrapper) send(msgType string, body any) {
	msg, err := domain.NewMessage(msgType, body)
	if err != nil {
		logger.Warn("panel: encode %s: %v", msgType, err)
		return
	}
	if err := w.post(msg); err != nil {
		logger.Debug("panel: post %s: %v", msgType, err)
	}
}

func (w *Wrapper) respond(requestID int64, body any) {
	msg, err := domain.NewMessage(domain.MessageResponse, body)
	if err != nil {
		logger.Warn("panel: encode response %d: %v", requestID, err)
		return
	}
	msg.RequestID = requestID
	if err := w.post(msg); err != nil {
		logger.Debug("panel: post response %d: %v", requestID, err)
	}
}
