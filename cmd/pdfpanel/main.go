// Command pdfpanel serves PDF viewer panels and drives them from the terminal.
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/pdfpanel/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pdfpanel/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/pdfpanel/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/cli"
	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/panelhost"
	"github.com/custodia-labs/pdfpanel/internal/core/services"
	"github.com/custodia-labs/pdfpanel/internal/logger"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 100 * time.Millisecond

func main() {
	cli.SetBootstrap(bootstrap)
	cli.Execute()
}

func bootstrap(opts cli.Options) (*cli.Services, error) {
	store, err := sqlite.NewStore(opts.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	logger.Debug("state store %s", store.Path())

	config, err := file.NewConfigStore(opts.DataDir)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("open settings: %w", err)
	}

	watcher, err := filesystem.NewWatcher(watchDebounce)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("start file watcher: %w", err)
	}

	fs := filesystem.NewOS()
	settings := services.NewSettingsService(config)
	workspace := services.NewWorkspaceState(store.StateStore())
	provider := services.NewProvider(services.ProviderConfig{
		FileSystem: fs,
		Watcher:    watcher,
		Workspace:  workspace,
		Settings:   settings,
		LibDir:     opts.LibDir,
	})

	return &cli.Services{
		Settings:   settings,
		Workspace:  workspace,
		Provider:   provider,
		Host:       panelhost.NewHost(fs),
		FileSystem: fs,
		Close: func() error {
			provider.Close()
			return errors.Join(watcher.Close(), store.Close())
		},
	}, nil
}
