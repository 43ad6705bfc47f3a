package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/statusbar"
	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/tui"
	"github.com/custodia-labs/pdfpanel/internal/logger"
)

// remotePorts builds the remote's ports around bar.
func remotePorts(bar *statusbar.Bar) *tui.Ports {
	ports := &tui.Ports{Bar: bar}
	if documentHost != nil {
		ports.Saver = documentHost
	}
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			logger.Warn("highlight colours unavailable: %v", err)
		} else {
			ports.Colors = settings.HighlightColors
		}
	}
	return ports
}

// runRemote drives the focused panel from the interactive remote until the
// user quits or ctx is cancelled.
func runRemote(ctx context.Context, bar *statusbar.Bar) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in remote: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("remote panicked: %v", r)
		}
	}()

	app, err := tui.NewApp(remotePorts(bar))
	if err != nil {
		return fmt.Errorf("failed to create remote: %w", err)
	}
	if err := app.WithContext(ctx).Run(); err != nil {
		return fmt.Errorf("remote error: %w", err)
	}
	return nil
}
