// Package messages defines Bubbletea message types for the remote.
// Messages carry panel events and intent outcomes into the Elm loop.
package messages

// StatusRefreshed is sent whenever the status bar re-read the focused panel.
type StatusRefreshed struct{}

// IntentSent reports the outcome of an intent sent to the focused panel.
// Err is nil when the panel accepted the intent.
type IntentSent struct {
	Action string
	Err    error
}

// Saved reports the outcome of saving the focused panel's document.
type Saved struct {
	URI string
	Err error
}

// Mode identifies what the remote shows below the status line.
type Mode int

const (
	// ModeRemote forwards keys to the focused panel.
	ModeRemote Mode = iota
	// ModePrompt reads a value such as a page number.
	ModePrompt
	// ModePicker selects one of a list of choices.
	ModePicker
	// ModeHelp lists every keybinding.
	ModeHelp
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeRemote:
		return "remote"
	case ModePrompt:
		return "prompt"
	case ModePicker:
		return "picker"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}
