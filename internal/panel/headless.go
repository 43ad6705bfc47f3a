package panel

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/wudi/pdfkit/ir"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/logger"
)

// Ensure Headless implements the interface.
var _ Viewer = (*Headless)(nil)

// Zoom limits and the factor applied per zoom step.
const (
	MinScale   = 0.1
	MaxScale   = 10.0
	ScaleDelta = 1.1
)

// Fetcher resolves a document URL to its bytes.
type Fetcher func(ctx context.Context, url string) ([]byte, error)

// headerWindow is how far into the file the %PDF- marker may start.
const headerWindow = 1024

var pdfHeader = []byte("%PDF-")

// CountPages parses a PDF byte stream and returns the number of pages
// reachable from its page tree. Object streams, xref streams and
// incremental updates are resolved, so superseded page objects are not
// counted.
func CountPages(ctx context.Context, data []byte) (int, error) {
	if !bytes.Contains(data[:min(len(data), headerWindow)], pdfHeader) {
		return 0, fmt.Errorf("missing pdf header: %w", domain.ErrInvalidInput)
	}
	doc, err := ir.NewDefault().Parse(ctx, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("parse pdf: %v: %w", err, domain.ErrInvalidInput)
	}
	if len(doc.Pages) == 0 {
		return 0, fmt.Errorf("no pages found: %w", domain.ErrInvalidInput)
	}
	return len(doc.Pages), nil
}

// Headless is a Viewer that keeps its view state in memory without
// rendering anything.
type Headless struct {
	fetch Fetcher
	bus   eventBus

	mu         sync.Mutex
	url        string
	data       []byte
	total      int
	page       int
	spread     domain.SpreadMode
	scroll     domain.ScrollMode
	zoom       domain.ZoomMode
	rotation   int
	outline    string
	cursor     string
	sidebar    string
	find       domain.FindState
	highlights []string
	back       []int
	forward    []int
}

// NewHeadless creates a headless viewer loading documents through fetch.
func NewHeadless(fetch Fetcher) *Headless {
	return &Headless{
		fetch:  fetch,
		page:   1,
		spread: domain.SpreadNone,
		scroll: domain.ScrollVertical,
	}
}

// Load fetches the document and applies cfg.Defaults when present.
func (h *Headless) Load(ctx context.Context, cfg LoadConfig) error {
	data, err := h.fetch(ctx, cfg.Document.URL)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", cfg.Document.URL, err)
	}
	total, err := CountPages(ctx, data)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.Document.URL, err)
	}

	h.mu.Lock()
	h.url = cfg.Document.URL
	h.data = data
	h.total = total
	h.back, h.forward = nil, nil
	if cfg.Defaults != nil {
		h.page = 1
		h.rotation = 0
		h.zoom = ""
	} else if h.page > total {
		h.page = total
	}
	h.mu.Unlock()

	logger.Debug("headless: loaded %s (%d pages)", cfg.Document.URL, total)

	if d := cfg.Defaults; d != nil {
		if d.PageNumber > 0 {
			h.SetCurrentPage(d.PageNumber)
		}
		if d.ZoomMode != "" {
			h.SetZoomMode(d.ZoomMode)
		}
		if d.ScrollMode != "" {
			h.SetScrollMode(d.ScrollMode)
		}
		if d.SpreadMode != "" {
			h.SetSpreadMode(d.SpreadMode)
		}
		outline := d.OutlineSize
		if outline == "" {
			outline = "100px"
		}
		h.SetOutlineSize(outline)

		h.mu.Lock()
		h.cursor = d.Cursor
		h.sidebar = d.SidebarView
		h.back = nil
		h.mu.Unlock()
	}
	return nil
}

// Save returns the loaded document bytes.
func (h *Headless) Save(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.data == nil {
		return nil, fmt.Errorf("save: no document loaded: %w", domain.ErrInvalidInput)
	}
	return bytes.Clone(h.data), nil
}

// update applies fn under the lock and dispatches event when fn reports a
// change.
func (h *Headless) update(event string, fn func() bool) {
	h.mu.Lock()
	changed := fn()
	h.mu.Unlock()
	if changed {
		h.bus.dispatch(event)
	}
}

// SpreadMode returns the spread mode.
func (h *Headless) SpreadMode() domain.SpreadMode {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.spread
}

// SetSpreadMode changes the spread mode. Unknown modes are ignored.
func (h *Headless) SetSpreadMode(mode domain.SpreadMode) {
	if domain.SpreadModes.Mode(string(mode)) < 0 {
		logger.Debug("headless: ignoring spread mode %q", mode)
		return
	}
	h.update(EventSpreadModeChanged, func() bool {
		if h.spread == mode {
			return false
		}
		h.spread = mode
		return true
	})
}

// ScrollMode returns the scroll mode.
func (h *Headless) ScrollMode() domain.ScrollMode {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scroll
}

// SetScrollMode changes the scroll mode. Unknown modes are ignored.
func (h *Headless) SetScrollMode(mode domain.ScrollMode) {
	if domain.ScrollModes.Mode(string(mode)) < 0 {
		logger.Debug("headless: ignoring scroll mode %q", mode)
		return
	}
	h.update(EventScrollModeChanged, func() bool {
		if h.scroll == mode {
			return false
		}
		h.scroll = mode
		return true
	})
}

// ZoomMode returns the current scale value.
func (h *Headless) ZoomMode() domain.ZoomMode {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.zoom
}

// SetZoomMode changes the scale value. Invalid values are ignored.
func (h *Headless) SetZoomMode(zoom domain.ZoomMode) {
	if !zoom.IsValid() {
		logger.Debug("headless: ignoring zoom %q", zoom)
		return
	}
	if f, ok := zoom.Scale(); ok {
		zoom = domain.ZoomScale(math.Min(math.Max(f, MinScale), MaxScale))
	}
	h.update(EventScaleChanging, func() bool {
		if h.zoom == zoom {
			return false
		}
		h.zoom = zoom
		return true
	})
}

// UpdateZoom zooms by steps. Presets count as a scale of 1.
func (h *Headless) UpdateZoom(steps int) {
	if steps == 0 {
		return
	}
	scale, ok := h.ZoomMode().Scale()
	if !ok {
		scale = 1
	}
	for ; steps > 0; steps-- {
		scale = math.Ceil(round2(scale*ScaleDelta)*10-scaleEpsilon) / 10
	}
	for ; steps < 0; steps++ {
		scale = math.Floor(round2(scale/ScaleDelta)*10+scaleEpsilon) / 10
	}
	h.SetZoomMode(domain.ZoomScale(math.Min(math.Max(scale, MinScale), MaxScale)))
}

// scaleEpsilon absorbs binary rounding when snapping to tenths.
const scaleEpsilon = 1e-9

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Rotation returns the page rotation in degrees.
func (h *Headless) Rotation() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rotation
}

// SetRotation rotates every page. Rotations that are not a multiple of 90
// are ignored.
func (h *Headless) SetRotation(rotation int) {
	if rotation%90 != 0 {
		logger.Debug("headless: ignoring rotation %d", rotation)
		return
	}
	rotation = ((rotation % 360) + 360) % 360
	h.update(EventRotationChanging, func() bool {
		if h.rotation == rotation {
			return false
		}
		h.rotation = rotation
		return true
	})
}

// CurrentPage returns the current page number.
func (h *Headless) CurrentPage() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.page
}

// SetCurrentPage moves to page, recording the previous page in history.
// Pages outside the document are ignored.
func (h *Headless) SetCurrentPage(page int) {
	h.update(EventPageChanging, func() bool {
		if page < 1 || page > h.total || page == h.page {
			return false
		}
		h.back = append(h.back, h.page)
		h.forward = nil
		h.page = page
		return true
	})
}

// TotalPages returns the page count.
func (h *Headless) TotalPages() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.total
}

// ExecuteNamedAction runs a PDF named action. Unsupported actions are
// ignored.
func (h *Headless) ExecuteNamedAction(action string) {
	switch action {
	case domain.ActionGoBack:
		h.step(&h.back, &h.forward)
	case domain.ActionGoForward:
		h.step(&h.forward, &h.back)
	case "NextPage":
		h.SetCurrentPage(h.CurrentPage() + 1)
	case "PrevPage":
		h.SetCurrentPage(h.CurrentPage() - 1)
	case "FirstPage":
		h.SetCurrentPage(1)
	case "LastPage":
		h.SetCurrentPage(h.TotalPages())
	default:
		logger.Debug("headless: unsupported named action %q", action)
	}
}

// step pops a page from one history stack and pushes the current page on
// the other.
func (h *Headless) step(from, to *[]int) {
	h.update(EventPageChanging, func() bool {
		n := len(*from)
		if n == 0 {
			return false
		}
		page := (*from)[n-1]
		*from = (*from)[:n-1]
		*to = append(*to, h.page)
		h.page = page
		return true
	})
}

// OutlineSize returns the outline width, negative when hidden.
func (h *Headless) OutlineSize() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.outline
}

// SetOutlineSize resizes the outline. The first size set after creation
// does not count as a layout change.
func (h *Headless) SetOutlineSize(size string) {
	h.update(EventOutlineLayoutChanged, func() bool {
		if h.outline == size {
			return false
		}
		initial := h.outline == ""
		h.outline = size
		return !initial
	})
}

// Find opens the find affordance with state.
func (h *Headless) Find(state domain.FindState) {
	h.update(EventFind, func() bool {
		h.find = state
		return true
	})
}

// FindState returns the last find query.
func (h *Headless) FindState() domain.FindState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.find
}

// Highlight records a highlight in color, or removes every highlight when
// color is nil.
func (h *Headless) Highlight(color *string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if color == nil {
		h.highlights = nil
		return
	}
	h.highlights = append(h.highlights, *color)
}

// Highlights returns the colors of the recorded highlights.
func (h *Headless) Highlights() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.highlights...)
}

// Cursor returns the cursor tool applied from the open defaults.
func (h *Headless) Cursor() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor
}

// SidebarView returns the sidebar view applied from the open defaults.
func (h *Headless) SidebarView() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sidebar
}

// URL returns the URL of the loaded document.
func (h *Headless) URL() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.url
}

// On registers fn for event.
func (h *Headless) On(event string, fn func()) func() {
	return h.bus.on(event, fn)
}
