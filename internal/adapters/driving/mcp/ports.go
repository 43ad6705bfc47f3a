package mcp

import (
	"context"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driving"
)

// WorkspaceReader exposes the state remembered between sessions.
type WorkspaceReader interface {
	ViewState(ctx context.Context) domain.ViewState
	FindState(ctx context.Context) domain.FindState
	DocumentStates(ctx context.Context) map[string]domain.DocumentState
}

// DocumentSaver writes the focused panel's bytes back to its document.
type DocumentSaver interface {
	SaveActive(ctx context.Context) (string, error)
}

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Active resolves the focused panel.
	Active driving.ActiveLookup

	// Workspace exposes the remembered state. Optional.
	Workspace WorkspaceReader

	// Saver saves the focused document. Optional.
	Saver DocumentSaver
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Active == nil {
		return ErrMissingActiveLookup
	}
	return nil
}

// active returns the focused panel or ErrNoFocusedPanel.
func (p *Ports) active() (driving.PanelController, error) {
	c := p.Active()
	if c == nil {
		return nil, ErrNoFocusedPanel
	}
	return c, nil
}
