package statusbar

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driving"
)

// Editor command identifiers not tied to an item.
const (
	CommandFind            = "pdfjsReader.find"
	CommandHighlight       = "pdfjsReader.highlight"
	CommandRemoveHighlight = "pdfjsReader.removeHighlight"
)

// Ensure Bar implements the interface.
var _ Item = (*Bar)(nil)

// Bar groups every item and keeps them in sync with the focused panel.
type Bar struct {
	lookup driving.ActiveLookup

	Navigation *Navigation
	Zoom       *Zoom
	Rotation   *Rotation
	Spread     *Spread
	Scroll     *Scroll
	Outline    *Outline

	items    []Item
	commands map[string]Command
	order    []string

	style     lipgloss.Style
	command   lipgloss.Style
	separator string

	mu        sync.Mutex
	listeners []func()
}

// NewBar creates a status bar resolving the focused panel through lookup.
func NewBar(lookup driving.ActiveLookup) *Bar {
	b := &Bar{
		lookup:     lookup,
		Navigation: NewNavigation(lookup),
		Zoom:       NewZoom(lookup),
		Rotation:   NewRotation(lookup),
		Spread:     NewSpread(lookup),
		Scroll:     NewScroll(lookup),
		Outline:    NewOutline(lookup),
		commands:   make(map[string]Command),
		style: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#181825")),
		command: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#06B6D4")),
		separator: "  ",
	}
	b.items = []Item{b.Outline, b.Navigation, b.Zoom, b.Rotation, b.Spread, b.Scroll}

	for _, group := range [][]Command{
		b.Outline.Commands(),
		b.Navigation.Commands(),
		b.Zoom.Commands(),
		b.Rotation.Commands(),
		b.Spread.Commands(),
		b.Scroll.Commands(),
		{
			{ID: CommandFind, Title: "Find", Run: func(string) error { return b.Find() }},
			{ID: CommandHighlight, Title: "Highlight Selection", Run: b.Highlight},
			{ID: CommandRemoveHighlight, Title: "Remove Highlight", Run: func(string) error { return b.RemoveHighlight() }},
		},
	} {
		for _, c := range group {
			b.commands[c.ID] = c
			b.order = append(b.order, c.ID)
		}
	}
	return b
}

// Show updates every item from status.
func (b *Bar) Show(status domain.Status) {
	for _, item := range b.items {
		item.Show(status)
	}
}

// Hide hides every item.
func (b *Bar) Hide() {
	for _, item := range b.items {
		item.Hide()
	}
}

// Refresh shows the focused panel's status, or hides the bar when no panel
// has focus. A focused panel that has not reported yet leaves the bar as is.
func (b *Bar) Refresh() {
	if p := b.active(); p == nil {
		b.Hide()
	} else if status := p.Status(); status != nil {
		b.Show(*status)
	}
	b.notify()
}

// OnDidRefresh registers fn to run after every Refresh.
func (b *Bar) OnDidRefresh(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

func (b *Bar) notify() {
	b.mu.Lock()
	listeners := append([]func(){}, b.listeners...)
	b.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Commands returns every command in registration order.
func (b *Bar) Commands() []Command {
	out := make([]Command, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.commands[id])
	}
	return out
}

// Execute runs the command id with arg.
func (b *Bar) Execute(id, arg string) error {
	c, ok := b.commands[id]
	if !ok {
		return fmt.Errorf("command %s: %w", id, domain.ErrNotFound)
	}
	return c.Run(arg)
}

// Find opens the find affordance of the focused panel.
func (b *Bar) Find() error {
	p := b.active()
	if p == nil {
		return nil
	}
	return p.Find()
}

// Highlight highlights the selection of the focused panel in color.
func (b *Bar) Highlight(color string) error {
	color = strings.TrimSpace(color)
	if color == "" {
		return fmt.Errorf("highlight color: %w", domain.ErrInvalidInput)
	}
	p := b.active()
	if p == nil {
		return nil
	}
	return p.Highlight(&color)
}

// RemoveHighlight removes highlights inside the selection of the focused
// panel.
func (b *Bar) RemoveHighlight() error {
	p := b.active()
	if p == nil {
		return nil
	}
	return p.Highlight(nil)
}

func (b *Bar) active() driving.PanelController {
	if b.lookup == nil {
		return nil
	}
	return b.lookup()
}

// Status returns the last status of the focused panel, nil when no panel
// has focus or it has not reported yet.
func (b *Bar) Status() *domain.Status {
	p := b.active()
	if p == nil {
		return nil
	}
	return p.Status()
}

// Visible returns the visible affordances, leftmost first.
func (b *Bar) Visible() []Affordance {
	var visible []Affordance
	for _, group := range [][]Affordance{
		b.Outline.Affordances(),
		b.Navigation.Affordances(),
		b.Zoom.Affordances(),
		b.Rotation.Affordances(),
		b.Spread.Affordances(),
		b.Scroll.Affordances(),
	} {
		for _, a := range group {
			if a.Visible {
				visible = append(visible, a)
			}
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Priority > visible[j].Priority
	})
	return visible
}

// String renders the visible affordances as plain text.
func (b *Bar) String() string {
	visible := b.Visible()
	parts := make([]string, 0, len(visible))
	for _, a := range visible {
		parts = append(parts, a.Text)
	}
	return strings.Join(parts, b.separator)
}

// Render draws the bar right-aligned within width.
func (b *Bar) Render(width int) string {
	visible := b.Visible()
	parts := make([]string, 0, len(visible))
	for _, a := range visible {
		if a.Command != "" {
			parts = append(parts, b.command.Render(a.Text))
		} else {
			parts = append(parts, a.Text)
		}
	}
	line := strings.Join(parts, b.separator)
	if width <= 0 {
		return b.style.Render(line)
	}
	return b.style.Width(width).Align(lipgloss.Right).Render(line)
}
