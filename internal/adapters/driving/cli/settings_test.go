package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/services"
)

func TestSettings_NotConfigured(t *testing.T) {
	SetServices(nil)

	for _, args := range [][]string{
		{"settings"},
		{"settings", "set", "zoom", "auto"},
		{"settings", "reset", "zoom"},
		{"settings", "wizard"},
	} {
		_, err := execute(t, "", args...)
		assert.EqualError(t, err, "settings service not configured", strings.Join(args, " "))
	}
}

func TestSettingsShow_Defaults(t *testing.T) {
	testServices(t)

	out, err := execute(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[Open Defaults]")
	assert.Contains(t, out, "Cursor:       select (default)")
	assert.Contains(t, out, "Zoom:         Automatic Zoom (auto) (default)")
	assert.Contains(t, out, "yellow")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsSet_ShortKey(t *testing.T) {
	s := testServices(t)

	out, err := execute(t, "", "settings", "set", "spreadmode", "odd")

	require.NoError(t, err)
	assert.Contains(t, out, "Set "+services.KeyDefaultSpreadMode+" to odd")
	settings, err := s.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.SpreadOdd, settings.SpreadMode)

	out, err = execute(t, "", "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "Spread mode:  Odd (odd)\n")
}

func TestSettingsSet_FullKey(t *testing.T) {
	s := testServices(t)

	_, err := execute(t, "", "settings", "set", services.KeyDefaultZoom, "page-width")

	require.NoError(t, err)
	settings, err := s.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.ZoomPageWidth, settings.Zoom)
}

func TestSettingsSet_InvalidValue(t *testing.T) {
	testServices(t)

	_, err := execute(t, "", "settings", "set", "cursor", "lasso")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsSet_UnknownKey(t *testing.T) {
	testServices(t)

	_, err := execute(t, "", "settings", "set", "theme", "dark")

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), services.KeyDefaultCursor)
}

func TestSettingsReset(t *testing.T) {
	s := testServices(t)
	require.NoError(t, s.Settings.Set(services.KeyDefaultSidebarView, "outline"))

	out, err := execute(t, "", "settings", "reset", "sidebarView")

	require.NoError(t, err)
	assert.Contains(t, out, "Reset "+services.KeyDefaultSidebarView)
	settings, err := s.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.SidebarNone, settings.SidebarView)
}

func TestSettingsWizard(t *testing.T) {
	s := testServices(t)

	// cursor: hand, zoom: keep, scroll: wrapped, spread: even, sidebar: out of range keeps
	out, err := execute(t, "2\n\n3\n3\n9\n", "settings", "wizard")

	require.NoError(t, err)
	assert.Contains(t, out, "Step 1: Cursor Tool")
	assert.Contains(t, out, "Settings saved.")

	settings, err := s.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.CursorHand, settings.Cursor)
	assert.Equal(t, domain.ZoomAuto, settings.Zoom)
	assert.Equal(t, domain.ScrollWrapped, settings.ScrollMode)
	assert.Equal(t, domain.SpreadEven, settings.SpreadMode)
	assert.Equal(t, domain.SidebarNone, settings.SidebarView)
}

func TestWizardSteps_SkipCustomZoom(t *testing.T) {
	steps := wizardSteps(domain.DefaultViewerSettings())

	require.Len(t, steps, 5)
	zoom := steps[1]
	assert.Equal(t, services.KeyDefaultZoom, zoom.key)
	assert.NotContains(t, zoom.values, "")
	assert.Len(t, zoom.labels, len(zoom.values))
}
