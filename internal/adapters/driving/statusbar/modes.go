package statusbar

import (
	"fmt"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driving"
)

// Mode selection command identifiers.
const (
	CommandSelectSpreadMode = "pdfjsReader.selectSpreadMode"
	CommandSelectScrollMode = "pdfjsReader.selectScrollMode"
)

var spreadChoices = []Choice{
	{Value: string(domain.SpreadNone), Label: domain.SpreadNone.Label()},
	{Value: string(domain.SpreadOdd), Label: domain.SpreadOdd.Label()},
	{Value: string(domain.SpreadEven), Label: domain.SpreadEven.Label()},
}

var scrollChoices = []Choice{
	{Value: string(domain.ScrollPage), Label: domain.ScrollPage.Label()},
	{Value: string(domain.ScrollVertical), Label: domain.ScrollVertical.Label()},
	{Value: string(domain.ScrollHorizontal), Label: domain.ScrollHorizontal.Label()},
	{Value: string(domain.ScrollWrapped), Label: domain.ScrollWrapped.Label()},
}

// Spread shows the spread mode and selects another one.
type Spread struct {
	base
	mode *Affordance
}

// NewSpread creates the spread mode item.
func NewSpread(lookup driving.ActiveLookup) *Spread {
	s := &Spread{base: base{lookup: lookup}}
	s.mode = s.affordance(CommandSelectSpreadMode, "Spread Mode", 100)
	s.command(CommandSelectSpreadMode, "Spread Pages", s.Select)
	return s
}

// Show displays the spread mode. An unrecognised mode hides the item.
func (s *Spread) Show(status domain.Status) {
	if status.SpreadMode == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !status.SpreadMode.IsValid() {
		s.setVisible(false)
		return
	}
	s.mode.Text = "▥ " + status.SpreadMode.Label()
	s.setVisible(true)
}

// Choices lists the selectable spread modes.
func (s *Spread) Choices() []Choice {
	return spreadChoices
}

// Select applies the spread mode named by value.
func (s *Spread) Select(value string) error {
	mode := domain.SpreadMode(value)
	if !mode.IsValid() {
		return fmt.Errorf("spread mode %q: %w", value, domain.ErrInvalidInput)
	}
	return s.view(domain.ViewRequest{SpreadMode: mode})
}

// Scroll shows the scroll mode and selects another one.
type Scroll struct {
	base
	mode *Affordance
}

// NewScroll creates the scroll mode item.
func NewScroll(lookup driving.ActiveLookup) *Scroll {
	s := &Scroll{base: base{lookup: lookup}}
	s.mode = s.affordance(CommandSelectScrollMode, "Scroll Mode", 100)
	s.command(CommandSelectScrollMode, "Scroll Mode", s.Select)
	return s
}

// Show displays the scroll mode. An unrecognised mode hides the item.
func (s *Scroll) Show(status domain.Status) {
	if status.ScrollMode == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !status.ScrollMode.IsValid() {
		s.setVisible(false)
		return
	}
	s.mode.Text = "↕ " + status.ScrollMode.Label()
	s.setVisible(true)
}

// Choices lists the selectable scroll modes.
func (s *Scroll) Choices() []Choice {
	return scrollChoices
}

// Select applies the scroll mode named by value.
func (s *Scroll) Select(value string) error {
	mode := domain.ScrollMode(value)
	if !mode.IsValid() {
		return fmt.Errorf("scroll mode %q: %w", value, domain.ErrInvalidInput)
	}
	return s.view(domain.ViewRequest{ScrollMode: mode})
}
