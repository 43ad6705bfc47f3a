package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfpanel/internal/core/services"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect the remembered workspace state",
	Long: `Inspect the view, find and page state remembered between sessions.

Panels write this state as they report their status. It is a cache: clearing
it only resets the next panel to the configured defaults.`,
	RunE: runStateShow,
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the remembered state",
	RunE:  runStateShow,
}

var stateClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the remembered state",
	RunE:  runStateClear,
}

func init() {
	stateShowCmd.Flags().Bool("json", false, "Print the stored JSON values")
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateClearCmd)
	rootCmd.AddCommand(stateCmd)
}

func runStateShow(cmd *cobra.Command, _ []string) error {
	if workspaceState == nil {
		return errors.New("workspace state not configured")
	}
	ctx := cmd.Context()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printStateJSON(cmd)
	}

	view := workspaceState.ViewState(ctx)
	_, stored := workspaceState.StoredViewState(ctx)
	find := workspaceState.FindState(ctx)
	docs := workspaceState.DocumentStates(ctx)
	width := terminalWidth(cmd.OutOrStdout())

	cmd.Println("Workspace State")
	cmd.Println("===============")
	cmd.Println()

	if stored {
		cmd.Println("[View]")
	} else {
		cmd.Println("[View] (defaults, nothing stored)")
	}
	cmd.Printf("  Spread:   %s\n", view.SpreadMode)
	cmd.Printf("  Scroll:   %s\n", view.ScrollMode)
	cmd.Printf("  Zoom:     %s\n", view.ZoomMode.Label())
	cmd.Printf("  Outline:  %s\n", view.OutlineSize)
	cmd.Println()

	cmd.Println("[Find]")
	if find.Query == "" {
		cmd.Println("  (none)")
	} else {
		cmd.Printf("  Query:    %q\n", find.Query)
		cmd.Printf("  Options:  highlight all=%t, case sensitive=%t, entire word=%t, diacritics=%t\n",
			find.Options.HighlightAll, find.Options.CaseSensitive,
			find.Options.EntireWord, find.Options.MatchDiacritics)
	}
	cmd.Println()

	cmd.Println("[Documents]")
	if len(docs) == 0 {
		cmd.Println("  (none)")
		return nil
	}
	paths := make([]string, 0, len(docs))
	for path := range docs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		line := fmt.Sprintf("  page %-5d %s", docs[path].PageNumber, path)
		cmd.Println(truncate(line, width))
	}
	return nil
}

func printStateJSON(cmd *cobra.Command) error {
	out := make(map[string]json.RawMessage, len(services.WorkspaceKeys))
	for _, key := range services.WorkspaceKeys {
		raw, ok, err := workspaceState.Raw(cmd.Context(), key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if ok {
			out[key] = raw
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runStateClear(cmd *cobra.Command, _ []string) error {
	if workspaceState == nil {
		return errors.New("workspace state not configured")
	}
	if err := workspaceState.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	cmd.Println("Workspace state cleared.")
	return nil
}
