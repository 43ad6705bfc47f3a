package statusbar

import (
	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driving"
)

// CommandToggleOutline toggles the outline sidebar.
const CommandToggleOutline = "pdfjsReader.toggleOutline"

// Outline toggles the outline sidebar.
type Outline struct {
	base
	toggle *Affordance
}

// NewOutline creates the outline item.
func NewOutline(lookup driving.ActiveLookup) *Outline {
	o := &Outline{base: base{lookup: lookup}}
	o.toggle = o.affordance(CommandToggleOutline, "☰", 140)
	o.command(CommandToggleOutline, "Toggle Outline", func(string) error { return o.Toggle() })
	return o
}

// Show displays the toggle for any focused panel.
func (o *Outline) Show(status domain.Status) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if status.OutlineSize != "" {
		if domain.OutlineHidden(status.OutlineSize) {
			o.toggle.Text = "☰"
		} else {
			o.toggle.Text = "☰ Outline"
		}
	}
	o.setVisible(true)
}

// Toggle shows or hides the outline of the focused panel.
func (o *Outline) Toggle() error {
	p := o.active()
	if p == nil {
		return nil
	}
	return p.ToggleOutline()
}
