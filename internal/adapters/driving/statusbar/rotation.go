package statusbar

import (
	"fmt"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driving"
)

// Rotation command identifiers.
const (
	CommandRotateLeft  = "pdfjsReader.rotateLeft"
	CommandRotateRight = "pdfjsReader.rotateRight"
)

// Rotation shows the page rotation and rotates pages by quarter turns.
type Rotation struct {
	base
	left, angle, right *Affordance
}

// NewRotation creates the rotation item.
func NewRotation(lookup driving.ActiveLookup) *Rotation {
	r := &Rotation{base: base{lookup: lookup}}
	r.left = r.affordance(CommandRotateLeft, "⟲", 111)
	r.angle = r.affordance("", "Rotation", 110)
	r.right = r.affordance(CommandRotateRight, "⟳", 109)

	r.command(CommandRotateLeft, "Rotate Left", func(string) error { return r.RotateLeft() })
	r.command(CommandRotateRight, "Rotate Right", func(string) error { return r.RotateRight() })
	return r
}

// Show displays the rotation when the status carries one.
func (r *Rotation) Show(status domain.Status) {
	if status.PagesRotation == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.angle.Text = fmt.Sprintf("%d °", *status.PagesRotation)
	r.setVisible(true)
}

// RotateLeft rotates counter-clockwise by 90 degrees.
func (r *Rotation) RotateLeft() error {
	return r.view(domain.ViewRequest{PagesRotation: &domain.RotationChange{Delta: -90}})
}

// RotateRight rotates clockwise by 90 degrees.
func (r *Rotation) RotateRight() error {
	return r.view(domain.ViewRequest{PagesRotation: &domain.RotationChange{Delta: 90}})
}
