package services

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driven"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyDefaultCursor      = "pdfjs-reader.default.cursor"
	KeyDefaultZoom        = "pdfjs-reader.default.zoom"
	KeyDefaultScrollMode  = "pdfjs-reader.default.scrollMode"
	KeyDefaultSpreadMode  = "pdfjs-reader.default.spreadMode"
	KeyDefaultSidebarView = "pdfjs-reader.default.sidebarView"
	KeyHighlightColors    = "pdfjs-reader.highlightColors"
)

var settingKeys = []string{
	KeyDefaultCursor,
	KeyDefaultZoom,
	KeyDefaultScrollMode,
	KeyDefaultSpreadMode,
	KeyDefaultSidebarView,
	KeyHighlightColors,
}

// SettingsService manages viewer settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current viewer settings.
func (s *SettingsService) Get() (domain.ViewerSettings, error) {
	defaults := domain.DefaultViewerSettings()

	settings := domain.ViewerSettings{
		Cursor:          s.getCursor(defaults.Cursor),
		Zoom:            s.getZoom(defaults.Zoom),
		ScrollMode:      s.getScrollMode(defaults.ScrollMode),
		SpreadMode:      s.getSpreadMode(defaults.SpreadMode),
		SidebarView:     s.getSidebarView(defaults.SidebarView),
		HighlightColors: s.getHighlightColors(defaults.HighlightColors),
	}

	return settings, nil
}

// Save persists viewer settings.
func (s *SettingsService) Save(settings domain.ViewerSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := map[string]string{
		KeyDefaultCursor:      string(settings.Cursor),
		KeyDefaultZoom:        string(settings.Zoom),
		KeyDefaultScrollMode:  string(settings.ScrollMode),
		KeyDefaultSpreadMode:  string(settings.SpreadMode),
		KeyDefaultSidebarView: string(settings.SidebarView),
		KeyHighlightColors:    domain.FormatHighlightColors(settings.HighlightColors),
	}
	for _, key := range settingKeys {
		if err := s.configStore.Set(key, values[key]); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// Set validates and persists a single setting.
func (s *SettingsService) Set(key, value string) error {
	switch key {
	case KeyDefaultCursor:
		if !domain.CursorTool(value).IsValid() {
			return fmt.Errorf("cursor %q: %w", value, domain.ErrInvalidInput)
		}
	case KeyDefaultZoom:
		if !domain.ZoomMode(value).IsValid() {
			return fmt.Errorf("zoom %q: %w", value, domain.ErrInvalidInput)
		}
	case KeyDefaultScrollMode:
		if !domain.ScrollMode(value).IsValid() {
			return fmt.Errorf("scroll mode %q: %w", value, domain.ErrInvalidInput)
		}
	case KeyDefaultSpreadMode:
		if !domain.SpreadMode(value).IsValid() {
			return fmt.Errorf("spread mode %q: %w", value, domain.ErrInvalidInput)
		}
	case KeyDefaultSidebarView:
		if !domain.SidebarView(value).IsValid() {
			return fmt.Errorf("sidebar view %q: %w", value, domain.ErrInvalidInput)
		}
	case KeyHighlightColors:
		colors, err := domain.ParseHighlightColors(value)
		if err != nil {
			return err
		}
		value = domain.FormatHighlightColors(colors)
	default:
		return fmt.Errorf("setting %q: %w", key, domain.ErrNotFound)
	}

	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Reset removes a stored setting so its default applies again.
func (s *SettingsService) Reset(key string) error {
	if !slices.Contains(settingKeys, key) {
		return fmt.Errorf("setting %q: %w", key, domain.ErrNotFound)
	}
	if err := s.configStore.Delete(key); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	return nil
}

// Keys returns every recognised setting key.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.ViewerSettings {
	return domain.DefaultViewerSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getCursor(defaultVal domain.CursorTool) domain.CursorTool {
	cursor := domain.CursorTool(s.configStore.GetString(KeyDefaultCursor))
	if !cursor.IsValid() {
		return defaultVal
	}
	return cursor
}

// getZoom accepts both a preset string and a bare number, since TOML
// decodes an unquoted ratio as a float.
func (s *SettingsService) getZoom(defaultVal domain.ZoomMode) domain.ZoomMode {
	val, ok := s.configStore.Get(KeyDefaultZoom)
	if !ok {
		return defaultVal
	}

	var zoom domain.ZoomMode
	switch v := val.(type) {
	case string:
		zoom = domain.ZoomMode(v)
	case float64:
		zoom = domain.ZoomScale(v)
	case int64:
		zoom = domain.ZoomMode(strconv.FormatInt(v, 10))
	case int:
		zoom = domain.ZoomMode(strconv.Itoa(v))
	}
	if !zoom.IsValid() {
		return defaultVal
	}
	return zoom
}

func (s *SettingsService) getScrollMode(defaultVal domain.ScrollMode) domain.ScrollMode {
	mode := domain.ScrollMode(s.configStore.GetString(KeyDefaultScrollMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getSpreadMode(defaultVal domain.SpreadMode) domain.SpreadMode {
	mode := domain.SpreadMode(s.configStore.GetString(KeyDefaultSpreadMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getSidebarView(defaultVal domain.SidebarView) domain.SidebarView {
	view := domain.SidebarView(s.configStore.GetString(KeyDefaultSidebarView))
	if !view.IsValid() {
		return defaultVal
	}
	return view
}

func (s *SettingsService) getHighlightColors(defaultVal []domain.HighlightColor) []domain.HighlightColor {
	colors, err := domain.ParseHighlightColors(s.configStore.GetString(KeyHighlightColors))
	if err != nil || len(colors) == 0 {
		return defaultVal
	}
	return colors
}
