package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/statusbar"
	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/tui/styles"
)

// pending is the intent run with the value of an open prompt or picker.
type pending struct {
	action string
	run    func(value string) error

	// custom opens a prompt when a choice with an empty value is picked.
	custom *pendingPrompt
}

type pendingPrompt struct {
	label       string
	placeholder string
	action      string
	run         func(value string) error
}

// App is the remote following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	line   *status.Line
	prompt *input.Prompt
	picker *list.ChoiceList

	mode    messages.Mode
	pending *pending

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the remote with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	return &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: s,
		keymap: km,
		line:   status.NewLine(s, km),
		prompt: input.NewPrompt(s),
		picker: list.NewChoiceList(s),
		mode:   messages.ModeRemote,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("pdfpanel remote")
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case messages.StatusRefreshed:
		// View re-reads the bar.
		return a, nil

	case messages.IntentSent:
		if msg.Err != nil {
			a.line.SetError(fmt.Errorf("%s: %w", msg.Action, msg.Err))
		} else {
			a.line.Set(status.StateInfo, msg.Action)
		}
		return a, nil

	case messages.Saved:
		switch {
		case msg.Err != nil:
			a.line.SetError(fmt.Errorf("save: %w", msg.Err))
		default:
			a.line.Set(status.StateSuccess, "Saved "+msg.URI)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.mode {
		case messages.ModeHelp:
			if key.Matches(msg, a.keymap.Cancel, a.keymap.Help, a.keymap.Quit) {
				a.mode = messages.ModeRemote
			}
			return a, nil
		case messages.ModePrompt:
			return a.updatePrompt(msg)
		case messages.ModePicker:
			return a.updatePicker(msg)
		case messages.ModeRemote:
		}
		return a, a.handleRemoteKey(msg)
	}

	if a.mode == messages.ModePrompt {
		var cmd tea.Cmd
		a.prompt, cmd = a.prompt.Update(msg)
		return a, cmd
	}
	return a, nil
}

// handleRemoteKey maps a key to an intent on the focused panel.
//
//nolint:gocyclo // one case per binding
func (a *App) handleRemoteKey(msg tea.KeyMsg) tea.Cmd {
	bar := a.ports.Bar
	km := a.keymap

	switch {
	case key.Matches(msg, km.Quit):
		return tea.Quit
	case key.Matches(msg, km.Help):
		a.mode = messages.ModeHelp
		return nil

	case key.Matches(msg, km.NextPage):
		return a.intent("next page", bar.Navigation.NextPage)
	case key.Matches(msg, km.PrevPage):
		return a.intent("previous page", bar.Navigation.PrevPage)
	case key.Matches(msg, km.FirstPage):
		return a.intent("first page", bar.Navigation.FirstPage)
	case key.Matches(msg, km.LastPage):
		return a.intent("last page", bar.Navigation.LastPage)
	case key.Matches(msg, km.GoBack):
		return a.intent("back", bar.Navigation.GoBack)
	case key.Matches(msg, km.GoForward):
		return a.intent("forward", bar.Navigation.GoForward)
	case key.Matches(msg, km.GoToPage):
		return a.openPrompt(pendingPrompt{
			label:       "Go to page",
			placeholder: a.pagePlaceholder(),
			action:      "go to page",
			run:         bar.Navigation.GoToPage,
		})

	case key.Matches(msg, km.ZoomIn):
		return a.intent("zoom in", bar.Zoom.ZoomIn)
	case key.Matches(msg, km.ZoomOut):
		return a.intent("zoom out", bar.Zoom.ZoomOut)
	case key.Matches(msg, km.Zoom):
		current := ""
		if s := bar.Status(); s != nil {
			current = string(s.ZoomMode)
		}
		a.openPicker("Zoom", bar.Zoom.Choices(), current, &pending{
			action: "zoom",
			run:    bar.Zoom.Select,
			custom: &pendingPrompt{
				label:       "Zoom",
				placeholder: "150% or 1.5",
				action:      "zoom",
				run:         bar.Zoom.Select,
			},
		})
		return nil
	case key.Matches(msg, km.RotateRight):
		return a.intent("rotate right", bar.Rotation.RotateRight)
	case key.Matches(msg, km.RotateLeft):
		return a.intent("rotate left", bar.Rotation.RotateLeft)
	case key.Matches(msg, km.Spread):
		current := ""
		if s := bar.Status(); s != nil {
			current = string(s.SpreadMode)
		}
		a.openPicker("Spread", bar.Spread.Choices(), current, &pending{action: "spread", run: bar.Spread.Select})
		return nil
	case key.Matches(msg, km.Scroll):
		current := ""
		if s := bar.Status(); s != nil {
			current = string(s.ScrollMode)
		}
		a.openPicker("Scroll mode", bar.Scroll.Choices(), current, &pending{action: "scroll mode", run: bar.Scroll.Select})
		return nil
	case key.Matches(msg, km.Outline):
		return a.intent("toggle outline", bar.Outline.Toggle)

	case key.Matches(msg, km.Find):
		return a.intent("find", bar.Find)
	case key.Matches(msg, km.Highlight):
		return a.openHighlight()
	case key.Matches(msg, km.RemoveHighlight):
		return a.intent("remove highlight", bar.RemoveHighlight)
	case key.Matches(msg, km.Save):
		return a.save()
	}
	return nil
}

func (a *App) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keymap.Cancel):
		a.closeOverlay()
		return a, nil
	case key.Matches(msg, a.keymap.Select):
		p := a.pending
		value := a.prompt.Value()
		a.closeOverlay()
		if p == nil {
			return a, nil
		}
		return a, a.intent(p.action, func() error { return p.run(value) })
	}
	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.Update(msg)
	return a, cmd
}

func (a *App) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keymap.Cancel):
		a.closeOverlay()
		return a, nil
	case key.Matches(msg, a.keymap.Select):
		p := a.pending
		choice, ok := a.picker.SelectedChoice()
		a.closeOverlay()
		if p == nil || !ok {
			return a, nil
		}
		if choice.Value == "" && p.custom != nil {
			return a, a.openPrompt(*p.custom)
		}
		return a, a.intent(p.action+" "+strings.ToLower(choice.Label), func() error { return p.run(choice.Value) })
	}
	a.picker, _ = a.picker.Update(msg)
	return a, nil
}

// intent runs fn off the update loop and reports its outcome.
func (a *App) intent(action string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return messages.IntentSent{Action: action, Err: fn()}
	}
}

func (a *App) save() tea.Cmd {
	if a.ports.Saver == nil {
		a.line.SetError(ErrSaveUnavailable)
		return nil
	}
	saver := a.ports.Saver
	ctx := a.ctx
	a.line.Set(status.StateInfo, "Saving...")
	return func() tea.Msg {
		uri, err := saver.SaveActive(ctx)
		return messages.Saved{URI: uri, Err: err}
	}
}

func (a *App) openHighlight() tea.Cmd {
	bar := a.ports.Bar
	if len(a.ports.Colors) == 0 {
		return a.openPrompt(pendingPrompt{
			label:       "Highlight colour",
			placeholder: "yellow or #FFFF98",
			action:      "highlight",
			run:         bar.Highlight,
		})
	}
	choices := make([]statusbar.Choice, 0, len(a.ports.Colors))
	for _, c := range a.ports.Colors {
		choices = append(choices, statusbar.Choice{Value: c.Hex, Label: c.Name})
	}
	a.openPicker("Highlight", choices, "", &pending{action: "highlight", run: bar.Highlight})
	return nil
}

func (a *App) openPrompt(p pendingPrompt) tea.Cmd {
	a.pending = &pending{action: p.action, run: p.run}
	a.mode = messages.ModePrompt
	a.line.Set(status.StatePrompt, p.label)
	cmd := a.prompt.Open(p.label, p.placeholder)
	a.prompt.SetWidth(a.width)
	return cmd
}

func (a *App) openPicker(title string, choices []statusbar.Choice, current string, p *pending) {
	a.pending = p
	a.mode = messages.ModePicker
	a.line.Set(status.StatePrompt, title)
	a.picker.SetChoices(title, choices, current)
}

func (a *App) closeOverlay() {
	a.prompt.Close()
	a.pending = nil
	a.mode = messages.ModeRemote
	a.line.Clear()
}

func (a *App) pagePlaceholder() string {
	if s := a.ports.Bar.Status(); s != nil && s.Pages != nil {
		return fmt.Sprintf("1-%d", s.Pages.Total)
	}
	return "page number"
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := []string{a.styles.Title.Render("pdfpanel remote"), ""}
	if a.ports.Bar.String() == "" {
		sections = append(sections, a.styles.Muted.Render("No focused panel. Focus a panel in the browser to drive it."))
	} else {
		sections = append(sections, a.ports.Bar.Render(a.width))
	}
	sections = append(sections, "")

	switch a.mode {
	case messages.ModePrompt:
		sections = append(sections, a.prompt.View())
	case messages.ModePicker:
		sections = append(sections, a.picker.View())
	case messages.ModeHelp:
		sections = append(sections, a.viewHelp())
	case messages.ModeRemote:
	}

	body := strings.Join(sections, "\n")
	gap := a.height - lipgloss.Height(body) - 1
	if gap < 1 {
		gap = 1
	}
	return body + strings.Repeat("\n", gap) + a.line.View()
}

func (a *App) viewHelp() string {
	titles := []string{"Pages", "View", "Document"}
	columns := make([]string, 0, len(titles))
	for i, group := range a.keymap.FullHelp() {
		lines := []string{a.styles.Title.Render(titles[i])}
		for _, b := range group {
			h := b.Help()
			lines = append(lines, fmt.Sprintf("%s %s",
				a.styles.Key.Render(fmt.Sprintf("%-7s", h.Key)), a.styles.Normal.Render(h.Desc)))
		}
		columns = append(columns, lipgloss.NewStyle().MarginRight(4).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...) + "\n\n" +
		a.styles.Help.Render("[esc] back")
}

// Run starts the remote and returns when the user quits or the context
// is cancelled.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	a.ports.Bar.OnDidRefresh(func() { p.Send(messages.StatusRefreshed{}) })
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && a.ctx.Err() != nil {
		return nil
	}
	return err
}

// Mode returns what the remote currently shows.
func (a *App) Mode() messages.Mode {
	return a.mode
}

// Line returns the message line.
func (a *App) Line() *status.Line {
	return a.line
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.line.SetWidth(width)
	a.prompt.SetWidth(width)
	a.picker.SetHeight(height - 8)
}
