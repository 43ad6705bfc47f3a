package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/tui/styles"
)

func TestNewPrompt(t *testing.T) {
	p := NewPrompt(styles.DefaultStyles())

	require.NotNil(t, p)
	assert.Empty(t, p.Value())
	assert.False(t, p.Focused())
}

func TestNewPrompt_NilStyles(t *testing.T) {
	p := NewPrompt(nil)

	require.NotNil(t, p)
	assert.NotNil(t, p.styles)
}

func TestPrompt_OpenClearsAndFocuses(t *testing.T) {
	p := NewPrompt(nil)
	p.SetValue("stale")

	p.Open("Page", "1-12")

	assert.True(t, p.Focused())
	assert.Empty(t, p.Value())
	assert.Equal(t, "Page", p.Label())
}

func TestPrompt_UpdateTypes(t *testing.T) {
	p := NewPrompt(nil)
	p.Open("Page", "")

	for _, r := range "42" {
		p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "42", p.Value())
}

func TestPrompt_Close(t *testing.T) {
	p := NewPrompt(nil)
	p.Open("Zoom", "")

	p.Close()

	assert.False(t, p.Focused())
}

func TestPrompt_View(t *testing.T) {
	p := NewPrompt(nil)
	p.Open("Zoom", "")
	p.SetValue("150%")

	view := p.View()

	assert.Contains(t, view, "Zoom")
	assert.Contains(t, view, "150%")
}

func TestPrompt_SetWidth(t *testing.T) {
	p := NewPrompt(nil)

	p.SetWidth(80)
	assert.Equal(t, 80, p.Width())

	p.SetWidth(5)
	assert.Equal(t, 10, p.textinput.Width)
}
