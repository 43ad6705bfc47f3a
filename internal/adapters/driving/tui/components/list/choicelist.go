// Package list provides the choice picker of the remote.
package list

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/statusbar"
	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/tui/styles"
)

// ChoiceList displays a titled list of choices with one selected entry.
type ChoiceList struct {
	title    string
	choices  []statusbar.Choice
	selected int
	styles   *styles.Styles
	height   int
}

// NewChoiceList creates an empty choice list.
func NewChoiceList(s *styles.Styles) *ChoiceList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ChoiceList{styles: s, height: 10}
}

// SetChoices replaces the list and selects the entry whose value is current,
// or the first entry.
func (c *ChoiceList) SetChoices(title string, choices []statusbar.Choice, current string) {
	c.title = title
	c.choices = choices
	c.selected = 0
	for i, choice := range choices {
		if choice.Value == current {
			c.selected = i
			break
		}
	}
}

// Update handles list navigation messages.
func (c *ChoiceList) Update(msg tea.Msg) (*ChoiceList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			c.MoveUp()
		case "down", "j":
			c.MoveDown()
		case "home":
			c.selected = 0
		case "end":
			if len(c.choices) > 0 {
				c.selected = len(c.choices) - 1
			}
		}
	}
	return c, nil
}

// View renders the list.
func (c *ChoiceList) View() string {
	lines := make([]string, 0, len(c.choices)+2)
	lines = append(lines, c.styles.Title.Render(c.title), "")

	if len(c.choices) == 0 {
		lines = append(lines, c.styles.Muted.Render("Nothing to choose"))
		return c.styles.Panel.Render(strings.Join(lines, "\n"))
	}

	visible := c.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if c.selected >= visible {
		start = c.selected - visible + 1
	}
	end := start + visible
	if end > len(c.choices) {
		end = len(c.choices)
	}

	for i := start; i < end; i++ {
		if i == c.selected {
			lines = append(lines, c.styles.Selected.Render("> "+c.choices[i].Label))
		} else {
			lines = append(lines, c.styles.Normal.Render("  "+c.choices[i].Label))
		}
	}
	return c.styles.Panel.Render(strings.Join(lines, "\n"))
}

// Title returns the list title.
func (c *ChoiceList) Title() string {
	return c.title
}

// Selected returns the index of the selected choice.
func (c *ChoiceList) Selected() int {
	return c.selected
}

// SelectedChoice returns the selected choice, false when the list is empty.
func (c *ChoiceList) SelectedChoice() (statusbar.Choice, bool) {
	if c.selected < 0 || c.selected >= len(c.choices) {
		return statusbar.Choice{}, false
	}
	return c.choices[c.selected], true
}

// MoveUp moves selection up.
func (c *ChoiceList) MoveUp() {
	if c.selected > 0 {
		c.selected--
	}
}

// MoveDown moves selection down.
func (c *ChoiceList) MoveDown() {
	if c.selected < len(c.choices)-1 {
		c.selected++
	}
}

// SetHeight sets the number of rendered rows, title included.
func (c *ChoiceList) SetHeight(height int) {
	c.height = height
}

// Count returns the number of choices.
func (c *ChoiceList) Count() int {
	return len(c.choices)
}
