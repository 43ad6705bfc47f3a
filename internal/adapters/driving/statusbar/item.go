// Package statusbar provides the per-capability status bar items of the
// focused panel: navigation, zoom, rotation, spread, scroll and outline.
//
// Items are driven purely by domain.Status. Their commands resolve the
// focused panel through an injected lookup and do nothing when no panel
// has focus.
package statusbar

import (
	"sync"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driving"
)

// Item is one capability shown in the status bar.
type Item interface {
	// Show updates the item from status. Fields absent from status leave
	// the item's visibility unchanged.
	Show(status domain.Status)

	// Hide hides every affordance of the item.
	Hide()
}

// Affordance is a single clickable or informational status bar entry.
type Affordance struct {
	// Command is the identifier of the command the entry runs, empty for
	// informational entries.
	Command string

	// Text is the rendered label.
	Text string

	// Priority orders entries; higher is further left.
	Priority int

	// Visible reports whether the entry is shown.
	Visible bool
}

// Command is an action exposed by an item.
type Command struct {
	// ID identifies the command.
	ID string

	// Title is the human-readable name.
	Title string

	// Run executes the command. Commands that select a value take it as arg.
	Run func(arg string) error
}

// Choice is one entry of a selection list.
type Choice struct {
	Value string
	Label string
}

// base holds the affordances and lookup shared by every item.
type base struct {
	lookup driving.ActiveLookup

	mu          sync.Mutex
	affordances []*Affordance
	commands    []Command
}

func (b *base) affordance(command, text string, priority int) *Affordance {
	a := &Affordance{Command: command, Text: text, Priority: priority}
	b.affordances = append(b.affordances, a)
	return a
}

func (b *base) command(id, title string, run func(arg string) error) {
	b.commands = append(b.commands, Command{ID: id, Title: title, Run: run})
}

// setVisible changes the visibility of every affordance. The caller holds mu.
func (b *base) setVisible(visible bool) {
	for _, a := range b.affordances {
		a.Visible = visible
	}
}

// Hide hides every affordance.
func (b *base) Hide() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setVisible(false)
}

// Affordances returns a snapshot of the item's entries.
func (b *base) Affordances() []Affordance {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Affordance, len(b.affordances))
	for i, a := range b.affordances {
		out[i] = *a
	}
	return out
}

// Commands returns the item's commands.
func (b *base) Commands() []Command {
	return b.commands
}

// active returns the focused panel, nil if none.
func (b *base) active() driving.PanelController {
	if b.lookup == nil {
		return nil
	}
	return b.lookup()
}

func (b *base) navigate(req domain.NavigateRequest) error {
	p := b.active()
	if p == nil {
		return nil
	}
	return p.Navigate(req)
}

func (b *base) view(req domain.ViewRequest) error {
	p := b.active()
	if p == nil {
		return nil
	}
	return p.View(req)
}
