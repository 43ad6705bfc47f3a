// Package cli provides the pdfpanel command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/panelhost"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driven"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driving"
	"github.com/custodia-labs/pdfpanel/internal/core/services"
	"github.com/custodia-labs/pdfpanel/internal/logger"
)

// version is overridden at build time with -ldflags "-X ...cli.version=".
var version = "dev"

// DefaultDataDir holds settings.toml and the workspace state database.
const DefaultDataDir = "~/.pdfpanel"

// annotationOffline marks commands that run without services.
const annotationOffline = "offline"

// Options are the resolved global flags handed to the bootstrap function.
type Options struct {
	// DataDir is the expanded data directory.
	DataDir string

	// LibDir is the directory holding the viewer library.
	LibDir string
}

// Services are the collaborators the commands operate on.
type Services struct {
	Settings   driving.SettingsService
	Workspace  *services.WorkspaceState
	Provider   *services.Provider
	Host       *panelhost.Host
	FileSystem driven.FileSystem

	// Close releases everything the bootstrap opened. Optional.
	Close func() error
}

// Bootstrap builds the services once the global flags are parsed.
type Bootstrap func(opts Options) (*Services, error)

var (
	bootstrap Bootstrap

	settingsService driving.SettingsService
	workspaceState  *services.WorkspaceState
	documentHost    *services.Provider
	panelHost       *panelhost.Host
	fileSystem      driven.FileSystem
	closeServices   func() error

	logFile io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "pdfpanel",
	Short: "Serve PDF viewer panels and drive them from the terminal",
	Long: `pdfpanel opens PDF files in browser panels and keeps every panel in sync
with the documents on disk.

Each panel reports its page, zoom, rotation and layout back to pdfpanel,
which remembers the view across sessions and exposes it to the terminal
status line, the interactive remote (serve --tui) and MCP clients.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Print debug logs")
	flags.String("data-dir", DefaultDataDir, "Directory holding settings and workspace state")
	flags.String("lib-dir", "", "Directory holding the viewer library")
	flags.String("log-file", "", "Write logs to a rotating file instead of stderr")
}

// SetBootstrap registers the function building the services.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// SetServices installs the services the commands operate on.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	settingsService = s.Settings
	workspaceState = s.Workspace
	documentHost = s.Provider
	panelHost = s.Host
	fileSystem = s.FileSystem
	closeServices = s.Close
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := rootCmd.Execute()
	shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	verbose, _ := flags.GetBool("verbose")
	logger.SetVerbose(verbose)

	if path, _ := flags.GetString("log-file"); path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		w := &lumberjack.Logger{
			Filename:   expanded,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		logger.SetOutput(w)
		logFile = w
	}

	if cmd.Annotations[annotationOffline] == "true" || bootstrap == nil || documentHost != nil {
		return nil
	}

	dataDir, _ := flags.GetString("data-dir")
	dataDir, err := homedir.Expand(dataDir)
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	libDir, _ := flags.GetString("lib-dir")
	if libDir != "" {
		if libDir, err = homedir.Expand(libDir); err != nil {
			return fmt.Errorf("lib dir: %w", err)
		}
	}

	logger.Section("Startup")
	logger.Debug("data dir %s, lib dir %q", dataDir, libDir)

	s, err := bootstrap(Options{DataDir: dataDir, LibDir: libDir})
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(s)
	return nil
}

// shutdown releases the services and the log file.
func shutdown() {
	var errs []error
	if closeServices != nil {
		errs = append(errs, closeServices())
		closeServices = nil
	}
	if logFile != nil {
		logger.SetOutput(os.Stderr)
		errs = append(errs, logFile.Close())
		logFile = nil
	}
	if err := errors.Join(errs...); err != nil {
		fmt.Fprintln(os.Stderr, "shutdown:", err)
	}
}
