package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage viewer settings",
	Long: `View and configure the defaults applied when a panel opens a document.

Settings are stored in settings.toml inside the data directory. A view state
remembered from an earlier session takes precedence over these defaults.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting. The key is either the full key or its last segment.

Keys and values:
  cursor           select, hand, zoom
  zoom             auto, page-actual, page-width, page-height, page-fit or a ratio (1.25)
  scrollMode       vertical, horizontal, wrapped, page
  spreadMode       none, odd, even
  sidebarView      none, thumbs, outline
  highlightColors  name=#hex pairs separated by commas

Examples:
  pdfpanel settings set zoom page-width
  pdfpanel settings set pdfjs-reader.default.spreadMode odd`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset <key>",
	Short: "Restore the default of one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsReset,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to choose every viewer default step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	defaults := settingsService.GetDefaults()

	cmd.Println("Viewer Settings")
	cmd.Println("===============")
	cmd.Println()

	cmd.Println("[Open Defaults]")
	cmd.Printf("  Cursor:       %s%s\n", settings.Cursor, defaultMark(settings.Cursor == defaults.Cursor))
	cmd.Printf("  Zoom:         %s (%s)%s\n", settings.Zoom.Label(), settings.Zoom, defaultMark(settings.Zoom == defaults.Zoom))
	cmd.Printf("  Scroll mode:  %s%s\n", settings.ScrollMode, defaultMark(settings.ScrollMode == defaults.ScrollMode))
	cmd.Printf("  Spread mode:  %s (%s)%s\n", settings.SpreadMode.Label(), settings.SpreadMode, defaultMark(settings.SpreadMode == defaults.SpreadMode))
	cmd.Printf("  Sidebar:      %s%s\n", settings.SidebarView, defaultMark(settings.SidebarView == defaults.SidebarView))
	cmd.Println()

	cmd.Println("[Highlight Colors]")
	for _, c := range settings.HighlightColors {
		cmd.Printf("  %-10s %s\n", c.Name, c.Hex)
	}
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'pdfpanel settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func defaultMark(isDefault bool) string {
	if isDefault {
		return " (default)"
	}
	return ""
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, err := resolveSettingKey(args[0])
	if err != nil {
		return err
	}
	if err := settingsService.Set(key, args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("Set %s to %s\n", key, args[1])
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, err := resolveSettingKey(args[0])
	if err != nil {
		return err
	}
	if err := settingsService.Reset(key); err != nil {
		return fmt.Errorf("failed to reset %s: %w", key, err)
	}
	cmd.Printf("Reset %s to its default\n", key)
	return nil
}

// resolveSettingKey accepts a full setting key or its last segment.
func resolveSettingKey(name string) (string, error) {
	for _, key := range settingsService.Keys() {
		if key == name {
			return key, nil
		}
	}
	for _, key := range settingsService.Keys() {
		short := key[strings.LastIndex(key, ".")+1:]
		if strings.EqualFold(short, name) {
			return key, nil
		}
	}
	return "", fmt.Errorf("unknown setting %q (known: %s): %w",
		name, strings.Join(settingsService.Keys(), ", "), domain.ErrNotFound)
}

// wizardStep is one question of the settings wizard.
type wizardStep struct {
	title   string
	key     string
	values  []string
	labels  []string
	current string
}

func wizardSteps(settings domain.ViewerSettings) []wizardStep {
	zoomValues := make([]string, 0, len(domain.ZoomPresets))
	zoomLabels := make([]string, 0, len(domain.ZoomPresets))
	for _, preset := range domain.ZoomPresets {
		if preset.Mode == "" {
			continue
		}
		zoomValues = append(zoomValues, string(preset.Mode))
		zoomLabels = append(zoomLabels, preset.Label)
	}

	return []wizardStep{
		{
			title:   "Cursor Tool",
			key:     services.KeyDefaultCursor,
			values:  []string{string(domain.CursorSelect), string(domain.CursorHand), string(domain.CursorZoom)},
			labels:  []string{"Text selection", "Hand (drag to scroll)", "Zoom"},
			current: string(settings.Cursor),
		},
		{
			title:   "Zoom",
			key:     services.KeyDefaultZoom,
			values:  zoomValues,
			labels:  zoomLabels,
			current: string(settings.Zoom),
		},
		{
			title: "Scroll Mode",
			key:   services.KeyDefaultScrollMode,
			values: []string{
				string(domain.ScrollVertical), string(domain.ScrollHorizontal),
				string(domain.ScrollWrapped), string(domain.ScrollPage),
			},
			labels: []string{
				domain.ScrollVertical.Label(), domain.ScrollHorizontal.Label(),
				domain.ScrollWrapped.Label(), domain.ScrollPage.Label(),
			},
			current: string(settings.ScrollMode),
		},
		{
			title:   "Spread Mode",
			key:     services.KeyDefaultSpreadMode,
			values:  []string{string(domain.SpreadNone), string(domain.SpreadOdd), string(domain.SpreadEven)},
			labels:  []string{domain.SpreadNone.Label(), domain.SpreadOdd.Label(), domain.SpreadEven.Label()},
			current: string(settings.SpreadMode),
		},
		{
			title:   "Sidebar",
			key:     services.KeyDefaultSidebarView,
			values:  []string{string(domain.SidebarNone), string(domain.SidebarThumbs), string(domain.SidebarOutline)},
			labels:  []string{"Hidden", "Thumbnails", "Outline"},
			current: string(settings.SidebarView),
		},
	}
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("pdfpanel Settings Wizard")
	cmd.Println("========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())
	steps := wizardSteps(settings)
	for i, step := range steps {
		heading := fmt.Sprintf("Step %d: %s", i+1, step.title)
		cmd.Println(heading)
		cmd.Println(strings.Repeat("-", len(heading)))

		current := 1
		for j, v := range step.values {
			if v == step.current {
				current = j + 1
			}
		}
		printChoices(cmd.OutOrStdout(), step.labels, current)
		cmd.Printf("\nEnter choice [%d]: ", current)

		choice := parseChoice(readLine(reader), len(step.values), current)
		value := step.values[choice-1]
		if err := settingsService.Set(step.key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", step.key, err)
		}
		cmd.Printf("Set %s to: %s\n\n", strings.ToLower(step.title), step.labels[choice-1])
	}

	cmd.Println("Settings saved.")
	return nil
}
