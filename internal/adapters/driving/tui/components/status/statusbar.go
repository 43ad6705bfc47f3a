// Package status provides the message line of the remote.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/tui/styles"
)

// State represents what the message line reports.
type State string

const (
	StateReady   State = "ready"
	StateInfo    State = "info"
	StateSuccess State = "success"
	StateError   State = "error"
	StatePrompt  State = "prompt"
)

// Line displays the last outcome on the left and keybinding hints on the
// right.
type Line struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	width   int
}

// NewLine creates a new message line.
func NewLine(s *styles.Styles, km *keymap.KeyMap) *Line {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Line{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// View renders the message line.
func (l *Line) View() string {
	left := l.renderLeft()
	right := l.renderRight()

	padding := l.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return l.styles.StatusBar.Width(l.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (l *Line) renderLeft() string {
	switch l.state {
	case StateError:
		if l.message != "" {
			return l.styles.Error.Render("Error: " + l.message)
		}
		return l.styles.Error.Render("Error")
	case StateSuccess:
		return l.styles.Success.Render(l.message)
	case StateInfo, StatePrompt:
		return l.styles.Normal.Render(l.message)
	case StateReady:
	}
	if l.message != "" {
		return l.styles.Muted.Render(l.message)
	}
	return l.styles.Muted.Render("Ready")
}

func (l *Line) renderRight() string {
	var bindings []key.Binding
	if l.state == StatePrompt {
		bindings = l.keymap.PromptHelp()
	} else {
		bindings = l.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s %s", l.styles.Key.Render(h.Key), l.styles.Help.Render(h.Desc)))
	}
	return strings.Join(hints, l.styles.Help.Render(" | "))
}

// Set replaces the state and message.
func (l *Line) Set(state State, message string) {
	l.state = state
	l.message = message
}

// SetError shows err, or clears the line when err is nil.
func (l *Line) SetError(err error) {
	if err == nil {
		l.Clear()
		return
	}
	l.Set(StateError, err.Error())
}

// State returns the current state.
func (l *Line) State() State {
	return l.state
}

// Message returns the current message.
func (l *Line) Message() string {
	return l.message
}

// SetWidth sets the line width.
func (l *Line) SetWidth(width int) {
	l.width = width
}

// Width returns the current width.
func (l *Line) Width() int {
	return l.width
}

// Clear resets the line to the ready state.
func (l *Line) Clear() {
	l.state = StateReady
	l.message = ""
}
