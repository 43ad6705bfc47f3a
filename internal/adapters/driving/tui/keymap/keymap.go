// Package keymap defines keybindings for the remote.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings of the remote.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding

	// Page navigation.
	NextPage  key.Binding
	PrevPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding
	GoBack    key.Binding
	GoForward key.Binding
	GoToPage  key.Binding

	// View changes.
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	Zoom        key.Binding
	RotateLeft  key.Binding
	RotateRight key.Binding
	Spread      key.Binding
	Scroll      key.Binding
	Outline     key.Binding

	// Editor actions.
	Find            key.Binding
	Highlight       key.Binding
	RemoveHighlight key.Binding
	Save            key.Binding

	// Prompt and picker.
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l", "n", "pgdown"),
			key.WithHelp("→/n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h", "p", "pgup"),
			key.WithHelp("←/p", "previous page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last page"),
		),
		GoBack: key.NewBinding(
			key.WithKeys("b", "alt+left"),
			key.WithHelp("b", "back"),
		),
		GoForward: key.NewBinding(
			key.WithKeys("B", "alt+right"),
			key.WithHelp("B", "forward"),
		),
		GoToPage: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "go to page"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "zoom out"),
		),
		Zoom: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "zoom"),
		),
		RotateLeft: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "rotate left"),
		),
		RotateRight: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rotate right"),
		),
		Spread: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "spread"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "scroll mode"),
		),
		Outline: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "outline"),
		),
		Find: key.NewBinding(
			key.WithKeys("/", "ctrl+f"),
			key.WithHelp("/", "find"),
		),
		Highlight: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "highlight"),
		),
		RemoveHighlight: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "remove highlight"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp returns the hints shown in the message line.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPage, k.PrevPage, k.GoToPage, k.Help, k.Quit}
}

// PromptHelp returns the hints shown while a prompt or picker is open.
func (k *KeyMap) PromptHelp() []key.Binding {
	return []key.Binding{k.Select, k.Cancel}
}

// FullHelp returns every binding grouped for the help screen.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPage, k.PrevPage, k.FirstPage, k.LastPage, k.GoBack, k.GoForward, k.GoToPage},
		{k.ZoomIn, k.ZoomOut, k.Zoom, k.RotateRight, k.RotateLeft, k.Spread, k.Scroll, k.Outline},
		{k.Find, k.Highlight, k.RemoveHighlight, k.Save, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
