package driving

import "github.com/custodia-labs/pdfpanel/internal/core/domain"

// SettingsService manages the viewer settings applied when a panel opens.
type SettingsService interface {
	// Get retrieves current viewer settings, falling back to defaults for
	// missing or unrecognised values.
	Get() (domain.ViewerSettings, error)

	// Save validates and persists viewer settings.
	Save(settings domain.ViewerSettings) error

	// Set validates and persists one setting by key.
	Set(key, value string) error

	// Reset removes one stored setting so its default applies again.
	Reset(key string) error

	// Keys returns every recognised setting key.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.ViewerSettings
}
