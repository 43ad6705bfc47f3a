package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/statusbar"
	"github.com/custodia-labs/pdfpanel/internal/core/services"
)

func TestRemotePorts_WithoutServices(t *testing.T) {
	SetServices(nil)
	bar := statusbar.NewBar(nil)

	ports := remotePorts(bar)

	assert.Same(t, bar, ports.Bar)
	assert.Nil(t, ports.Saver)
	assert.Empty(t, ports.Colors)
	assert.NoError(t, ports.Validate())
}

func TestRemotePorts_UsesSettingsPalette(t *testing.T) {
	s := providerServices(t)
	require.NoError(t, s.Settings.Set(services.KeyHighlightColors, "amber=#FFBF00"))

	ports := remotePorts(statusbar.NewBar(s.Provider.Presenters().Lookup()))

	assert.NotNil(t, ports.Saver)
	require.Len(t, ports.Colors, 1)
	assert.Equal(t, "amber", ports.Colors[0].Name)
	assert.Equal(t, "#FFBF00", ports.Colors[0].Hex)
}
