package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfpanel/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfpanel/internal/core/services"
	"github.com/custodia-labs/pdfpanel/internal/logger"
)

// testServices installs in-memory settings and workspace state for one test.
func testServices(t *testing.T) *Services {
	t.Helper()
	s := &Services{
		Settings:  services.NewSettingsService(memory.NewConfigStore()),
		Workspace: services.NewWorkspaceState(memory.NewStateStore()),
	}
	SetServices(s)
	t.Cleanup(func() { SetServices(nil) })
	return s
}

// execute runs the root command with args and stdin, returning everything
// written to stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag of cmd and its children to its default so
// values do not leak between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"serve", "settings", "state", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestSetServices_NilClears(t *testing.T) {
	testServices(t)
	require.NotNil(t, settingsService)

	SetServices(nil)

	assert.Nil(t, settingsService)
	assert.Nil(t, workspaceState)
	assert.Nil(t, documentHost)
}

func TestSetup_RunsBootstrapWithExpandedDirs(t *testing.T) {
	dir := t.TempDir()
	var got Options
	SetBootstrap(func(opts Options) (*Services, error) {
		got = opts
		return &Services{
			Settings:  services.NewSettingsService(memory.NewConfigStore()),
			Workspace: services.NewWorkspaceState(memory.NewStateStore()),
		}, nil
	})
	t.Cleanup(func() {
		SetBootstrap(nil)
		SetServices(nil)
	})

	out, err := execute(t, "", "--data-dir", dir, "--lib-dir", "~/lib", "state")

	require.NoError(t, err)
	assert.Contains(t, out, "Workspace State")
	assert.Equal(t, dir, got.DataDir)
	assert.True(t, filepath.IsAbs(got.LibDir), "~ is expanded: %s", got.LibDir)
	assert.True(t, strings.HasSuffix(got.LibDir, "lib"))
}

func TestSetup_BootstrapError(t *testing.T) {
	SetBootstrap(func(Options) (*Services, error) {
		return nil, errors.New("database locked")
	})
	t.Cleanup(func() { SetBootstrap(nil) })

	_, err := execute(t, "", "state")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database locked")
}

func TestSetup_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfpanel.log")
	t.Cleanup(func() {
		shutdown()
		logger.SetVerbose(false)
	})

	_, err := execute(t, "", "--verbose", "--log-file", path, "version")
	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())

	logger.Info("written to the rotating file")
	shutdown()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to the rotating file")
}

func TestShutdown_ClosesServices(t *testing.T) {
	closed := 0
	SetServices(&Services{Close: func() error {
		closed++
		return nil
	}})
	t.Cleanup(func() { SetServices(nil) })

	shutdown()
	shutdown()

	assert.Equal(t, 1, closed)
}
