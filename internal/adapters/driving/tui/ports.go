// Package tui provides the interactive terminal remote of pdfpanel.
// It drives the focused panel through the status bar items and renders
// the bar as panels report their status.
package tui

import (
	"context"

	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/statusbar"
	"github.com/custodia-labs/pdfpanel/internal/core/domain"
)

// DocumentSaver writes the focused panel's document back to disk.
type DocumentSaver interface {
	SaveActive(ctx context.Context) (string, error)
}

// Ports aggregates the collaborators of the remote.
type Ports struct {
	// Bar resolves the focused panel and runs every intent. Required.
	Bar *statusbar.Bar

	// Saver enables the save key. Optional.
	Saver DocumentSaver

	// Colors fills the highlight picker. Without colours the remote asks
	// for a colour name instead.
	Colors []domain.HighlightColor
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Bar == nil {
		return ErrMissingStatusBar
	}
	return nil
}
