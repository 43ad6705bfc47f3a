package statusbar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driving"
)

// Zoom command identifiers.
const (
	CommandSelectZoomMode = "pdfjsReader.selectZoomMode"
	CommandZoomIn         = "pdfjsReader.zoomIn"
	CommandZoomOut        = "pdfjsReader.zoomOut"
)

// Zoom shows the zoom mode and changes it.
type Zoom struct {
	base
	out, mode, in *Affordance
}

// NewZoom creates the zoom item.
func NewZoom(lookup driving.ActiveLookup) *Zoom {
	z := &Zoom{base: base{lookup: lookup}}
	z.out = z.affordance(CommandZoomOut, "−", 121)
	z.mode = z.affordance(CommandSelectZoomMode, "Zoom Mode", 120)
	z.in = z.affordance(CommandZoomIn, "+", 119)

	z.command(CommandSelectZoomMode, "Select Zoom Mode", z.Select)
	z.command(CommandZoomIn, "Zoom In", func(string) error { return z.ZoomIn() })
	z.command(CommandZoomOut, "Zoom Out", func(string) error { return z.ZoomOut() })
	return z
}

// Show displays the zoom label when the status carries a zoom mode.
// Unrecognised modes keep the previous label.
func (z *Zoom) Show(status domain.Status) {
	if status.ZoomMode == "" {
		return
	}
	z.mu.Lock()
	defer z.mu.Unlock()
	if _, ok := status.ZoomMode.Scale(); ok || status.ZoomMode.IsPreset() {
		z.mode.Text = status.ZoomMode.Label()
	}
	z.setVisible(true)
}

// Choices lists the selectable zoom modes. The custom entry has an empty
// value.
func (z *Zoom) Choices() []Choice {
	choices := make([]Choice, 0, len(domain.ZoomPresets))
	for _, p := range domain.ZoomPresets {
		choices = append(choices, Choice{Value: string(p.Mode), Label: p.Label})
	}
	return choices
}

// ParseZoom accepts a preset name, a percentage such as "150%" or a ratio
// such as "1.5".
func ParseZoom(input string) (domain.ZoomMode, error) {
	input = strings.TrimSpace(input)
	if mode := domain.ZoomMode(input); mode.IsPreset() {
		return mode, nil
	}
	if pct, ok := strings.CutSuffix(input, "%"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil || f <= 0 {
			return "", fmt.Errorf("zoom %q: %w", input, domain.ErrInvalidInput)
		}
		return domain.ZoomScale(f / 100), nil
	}
	mode := domain.ZoomMode(input)
	if !mode.IsValid() {
		return "", fmt.Errorf("zoom %q: %w", input, domain.ErrInvalidInput)
	}
	if f, ok := mode.Scale(); ok {
		return domain.ZoomScale(f), nil
	}
	return mode, nil
}

// Select applies the zoom mode in input.
func (z *Zoom) Select(input string) error {
	mode, err := ParseZoom(input)
	if err != nil {
		return err
	}
	return z.view(domain.ViewRequest{ZoomMode: &domain.ZoomChange{Scale: mode}})
}

// ZoomIn zooms in one step.
func (z *Zoom) ZoomIn() error {
	return z.view(domain.ViewRequest{ZoomMode: &domain.ZoomChange{Steps: 1}})
}

// ZoomOut zooms out one step.
func (z *Zoom) ZoomOut() error {
	return z.view(domain.ViewRequest{ZoomMode: &domain.ZoomChange{Steps: -1}})
}
