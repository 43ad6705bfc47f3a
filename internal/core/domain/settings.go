package domain

import (
	"fmt"
	"strings"
)

const unknownDescription = "Unknown"

// CursorTool is the pointer tool active when a document opens.
type CursorTool string

// Available cursor tools.
const (
	CursorSelect CursorTool = "select"
	CursorHand   CursorTool = "hand"
	CursorZoom   CursorTool = "zoom"
)

// IsValid returns true if the cursor tool is recognised.
func (c CursorTool) IsValid() bool {
	switch c {
	case CursorSelect, CursorHand, CursorZoom:
		return true
	default:
		return false
	}
}

// CursorTools maps cursor tool names to the viewer's numeric constants.
var CursorTools = NewModeName(map[string]int{
	string(CursorSelect): 0,
	string(CursorHand):   1,
	string(CursorZoom):   2,
})

// SidebarView is the sidebar pane shown when a document opens.
type SidebarView string

// Available sidebar views.
const (
	SidebarNone    SidebarView = "none"
	SidebarThumbs  SidebarView = "thumbs"
	SidebarOutline SidebarView = "outline"
)

// IsValid returns true if the sidebar view is recognised.
func (v SidebarView) IsValid() bool {
	switch v {
	case SidebarNone, SidebarThumbs, SidebarOutline:
		return true
	default:
		return false
	}
}

// HighlightColor is one named entry of the highlight palette.
type HighlightColor struct {
	Name string
	Hex  string
}

// ViewerSettings holds the configured defaults applied when a panel opens.
type ViewerSettings struct {
	// Cursor is the initial cursor tool.
	Cursor CursorTool

	// Zoom is the initial zoom mode.
	Zoom ZoomMode

	// ScrollMode is the initial scroll mode.
	ScrollMode ScrollMode

	// SpreadMode is the initial spread mode.
	SpreadMode SpreadMode

	// SidebarView is the initial sidebar view.
	SidebarView SidebarView

	// HighlightColors is the annotation highlight palette.
	HighlightColors []HighlightColor
}

// DefaultViewerSettings returns the settings used when nothing is configured.
func DefaultViewerSettings() ViewerSettings {
	return ViewerSettings{
		Cursor:      CursorSelect,
		Zoom:        ZoomAuto,
		ScrollMode:  ScrollVertical,
		SpreadMode:  SpreadNone,
		SidebarView: SidebarNone,
		HighlightColors: []HighlightColor{
			{Name: "yellow", Hex: "#FFFF98"},
			{Name: "green", Hex: "#53FFBC"},
			{Name: "blue", Hex: "#80EBFF"},
			{Name: "pink", Hex: "#FFCBE6"},
			{Name: "red", Hex: "#FF4F5F"},
		},
	}
}

// Validate checks every configured value is recognised.
func (s ViewerSettings) Validate() error {
	if !s.Cursor.IsValid() {
		return fmt.Errorf("cursor %q: %w", s.Cursor, ErrInvalidInput)
	}
	if !s.Zoom.IsValid() {
		return fmt.Errorf("zoom %q: %w", s.Zoom, ErrInvalidInput)
	}
	if !s.ScrollMode.IsValid() {
		return fmt.Errorf("scroll mode %q: %w", s.ScrollMode, ErrInvalidInput)
	}
	if !s.SpreadMode.IsValid() {
		return fmt.Errorf("spread mode %q: %w", s.SpreadMode, ErrInvalidInput)
	}
	if !s.SidebarView.IsValid() {
		return fmt.Errorf("sidebar view %q: %w", s.SidebarView, ErrInvalidInput)
	}
	return nil
}

// FormatHighlightColors renders a palette as "name=#hex,name=#hex".
func FormatHighlightColors(colors []HighlightColor) string {
	parts := make([]string, 0, len(colors))
	for _, c := range colors {
		parts = append(parts, c.Name+"="+c.Hex)
	}
	return strings.Join(parts, ",")
}

// ParseHighlightColors parses a palette string produced by FormatHighlightColors.
func ParseHighlightColors(s string) ([]HighlightColor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var colors []HighlightColor
	for _, part := range strings.Split(s, ",") {
		name, hex, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || name == "" || !strings.HasPrefix(hex, "#") {
			return nil, fmt.Errorf("highlight color %q: %w", part, ErrInvalidInput)
		}
		colors = append(colors, HighlightColor{Name: name, Hex: strings.ToUpper(hex)})
	}
	return colors, nil
}
