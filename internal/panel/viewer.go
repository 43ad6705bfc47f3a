// Package panel implements the guest side of the panel protocol: a
// Wrapper that drives an embedded Viewer from host messages and reports the
// viewer's state back, plus an in-process Local panel transport.
package panel

import (
	"context"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
)

// Viewer events the wrapper reports to the host.
const (
	EventPageChanging         = "pagechanging"
	EventScaleChanging        = "scalechanging"
	EventRotationChanging     = "rotationchanging"
	EventScrollModeChanged    = "scrollmodechanged"
	EventSpreadModeChanged    = "spreadmodechanged"
	EventOutlineLayoutChanged = "outlinelayoutchanged"
	EventFind                 = "find"
)

// LoadConfig is what a viewer needs to display a document.
type LoadConfig struct {
	Document domain.DocumentRef

	// Defaults are applied once the document has loaded. Nil keeps the
	// current view, which is what a reload wants.
	Defaults *domain.Defaults
}

// Viewer is the embedded rendering library as seen by the wrapper.
type Viewer interface {
	// Load replaces the displayed document.
	Load(ctx context.Context, cfg LoadConfig) error

	// Save serializes the displayed document, annotations included.
	Save(ctx context.Context) ([]byte, error)

	SpreadMode() domain.SpreadMode
	SetSpreadMode(mode domain.SpreadMode)

	ScrollMode() domain.ScrollMode
	SetScrollMode(mode domain.ScrollMode)

	// ZoomMode returns the current scale value, "" before a document loads.
	ZoomMode() domain.ZoomMode
	SetZoomMode(zoom domain.ZoomMode)

	// UpdateZoom zooms in (positive) or out (negative) by steps.
	UpdateZoom(steps int)

	Rotation() int
	SetRotation(rotation int)

	CurrentPage() int
	SetCurrentPage(page int)

	// TotalPages returns the page count, 0 before a document loads.
	TotalPages() int

	// ExecuteNamedAction runs a PDF named action such as GoBack.
	ExecuteNamedAction(action string)

	OutlineSize() string
	SetOutlineSize(size string)

	// Find opens the find affordance.
	Find(state domain.FindState)

	// FindState returns the query shown in the find affordance.
	FindState() domain.FindState

	// Highlight starts a highlight session, or removes highlights in the
	// selection when color is nil.
	Highlight(color *string)

	// On registers fn for a viewer event.
	On(event string, fn func()) (off func())
}
