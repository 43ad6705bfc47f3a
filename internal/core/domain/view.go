package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SpreadMode controls how pages are grouped side by side.
type SpreadMode string

// Available spread modes.
const (
	SpreadNone SpreadMode = "none"
	SpreadOdd  SpreadMode = "odd"
	SpreadEven SpreadMode = "even"
)

// IsValid returns true if the spread mode is recognised.
func (m SpreadMode) IsValid() bool {
	switch m {
	case SpreadNone, SpreadOdd, SpreadEven:
		return true
	default:
		return false
	}
}

// Label returns the human-readable label of the mode.
func (m SpreadMode) Label() string {
	switch m {
	case SpreadNone:
		return "Single"
	case SpreadOdd:
		return "Odd"
	case SpreadEven:
		return "Even"
	default:
		return unknownDescription
	}
}

// ScrollMode controls the page layout direction.
type ScrollMode string

// Available scroll modes.
const (
	ScrollPage       ScrollMode = "page"
	ScrollVertical   ScrollMode = "vertical"
	ScrollHorizontal ScrollMode = "horizontal"
	ScrollWrapped    ScrollMode = "wrapped"
)

// IsValid returns true if the scroll mode is recognised.
func (m ScrollMode) IsValid() bool {
	switch m {
	case ScrollPage, ScrollVertical, ScrollHorizontal, ScrollWrapped:
		return true
	default:
		return false
	}
}

// Label returns the human-readable label of the mode.
func (m ScrollMode) Label() string {
	switch m {
	case ScrollPage:
		return "Page"
	case ScrollVertical:
		return "Vertical"
	case ScrollHorizontal:
		return "Horizontal"
	case ScrollWrapped:
		return "Wrapped"
	default:
		return unknownDescription
	}
}

// ZoomMode is either a named preset or a numeric scale ratio.
// On the wire presets are strings and ratios are numbers.
type ZoomMode string

// Named zoom presets.
const (
	ZoomAuto       ZoomMode = "auto"
	ZoomPageActual ZoomMode = "page-actual"
	ZoomPageWidth  ZoomMode = "page-width"
	ZoomPageHeight ZoomMode = "page-height"
	ZoomPageFit    ZoomMode = "page-fit"
)

// ZoomScale returns the zoom mode for an absolute scale ratio (1.0 = 100%).
func ZoomScale(scale float64) ZoomMode {
	return ZoomMode(strconv.FormatFloat(scale, 'f', -1, 64))
}

// IsPreset returns true if the mode is one of the named presets.
func (z ZoomMode) IsPreset() bool {
	switch z {
	case ZoomAuto, ZoomPageActual, ZoomPageWidth, ZoomPageHeight, ZoomPageFit:
		return true
	default:
		return false
	}
}

// Scale returns the numeric ratio when the mode is not a preset.
func (z ZoomMode) Scale() (float64, bool) {
	if z == "" || z.IsPreset() {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(z), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsValid returns true if the mode is a preset or a positive ratio.
func (z ZoomMode) IsValid() bool {
	if z.IsPreset() {
		return true
	}
	f, ok := z.Scale()
	return ok && f > 0
}

// Label returns the human-readable label of the mode.
func (z ZoomMode) Label() string {
	switch z {
	case ZoomAuto:
		return "Automatic Zoom"
	case ZoomPageActual:
		return "Actual Size"
	case ZoomPageWidth:
		return "Page Width"
	case ZoomPageHeight:
		return "Page Height"
	case ZoomPageFit:
		return "Page Fit"
	}
	if f, ok := z.Scale(); ok {
		return fmt.Sprintf("%d%%", int(math.Round(f*100)))
	}
	return unknownDescription
}

// MarshalJSON encodes ratios as numbers and presets as strings.
func (z ZoomMode) MarshalJSON() ([]byte, error) {
	if f, ok := z.Scale(); ok {
		return json.Marshal(f)
	}
	return json.Marshal(string(z))
}

// UnmarshalJSON accepts either a string preset or a numeric ratio.
func (z *ZoomMode) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*z = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*z = ZoomMode(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("zoom mode %s: %w", trimmed, ErrInvalidInput)
	}
	*z = ZoomScale(f)
	return nil
}

// ZoomPreset is one entry of the zoom selection list.
type ZoomPreset struct {
	Mode  ZoomMode
	Label string
}

// ZoomPresets lists the zoom choices offered to the user, in display order.
// The final entry with an empty mode asks for a custom percentage.
var ZoomPresets = []ZoomPreset{
	{Mode: ZoomAuto, Label: "Automatic Zoom"},
	{Mode: ZoomPageActual, Label: "Actual Size"},
	{Mode: ZoomPageWidth, Label: "Page Width"},
	{Mode: ZoomPageHeight, Label: "Page Height"},
	{Mode: ZoomPageFit, Label: "Page Fit"},
	{Mode: ZoomScale(0.5), Label: "50%"},
	{Mode: ZoomScale(0.75), Label: "75%"},
	{Mode: ZoomScale(1.0), Label: "100%"},
	{Mode: ZoomScale(1.25), Label: "125%"},
	{Mode: ZoomScale(1.5), Label: "150%"},
	{Mode: "", Label: "Custom"},
}

// ModeName maps wire names of a viewer mode to the viewer's numeric
// constants and back.
type ModeName struct {
	nameToMode map[string]int
	modeToName map[int]string
}

// NewModeName builds a bidirectional table from name → mode pairs.
func NewModeName(nameToMode map[string]int) *ModeName {
	m := &ModeName{
		nameToMode: make(map[string]int, len(nameToMode)),
		modeToName: make(map[int]string, len(nameToMode)),
	}
	for name, mode := range nameToMode {
		m.nameToMode[name] = mode
		m.modeToName[mode] = name
	}
	return m
}

// Name returns the wire name of a numeric mode, or "" if unknown.
func (m *ModeName) Name(mode int) string {
	return m.modeToName[mode]
}

// Mode returns the numeric mode for a wire name, or -1 if unknown.
func (m *ModeName) Mode(name string) int {
	if mode, ok := m.nameToMode[name]; ok {
		return mode
	}
	return -1
}

// Viewer mode tables.
var (
	SpreadModes = NewModeName(map[string]int{
		string(SpreadNone): 0,
		string(SpreadOdd):  1,
		string(SpreadEven): 2,
	})

	ScrollModes = NewModeName(map[string]int{
		string(ScrollVertical):   0,
		string(ScrollHorizontal): 1,
		string(ScrollWrapped):    2,
		string(ScrollPage):       3,
	})
)

// Pages is the current position within a document.
type Pages struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Status is a snapshot of a panel's view as reported by the panel.
// Absent fields were not part of the report.
type Status struct {
	SpreadMode    SpreadMode `json:"spreadMode,omitempty"`
	ScrollMode    ScrollMode `json:"scrollMode,omitempty"`
	ZoomMode      ZoomMode   `json:"zoomMode,omitempty"`
	PagesRotation *int       `json:"pagesRotation,omitempty"`
	Pages         *Pages     `json:"pages,omitempty"`
	OutlineSize   string     `json:"outlineSize,omitempty"`
}

// Merge returns a copy of s with every field present in update applied.
func (s Status) Merge(update Status) Status {
	merged := s.Clone()
	if update.SpreadMode != "" {
		merged.SpreadMode = update.SpreadMode
	}
	if update.ScrollMode != "" {
		merged.ScrollMode = update.ScrollMode
	}
	if update.ZoomMode != "" {
		merged.ZoomMode = update.ZoomMode
	}
	if update.PagesRotation != nil {
		r := *update.PagesRotation
		merged.PagesRotation = &r
	}
	if update.Pages != nil {
		p := *update.Pages
		merged.Pages = &p
	}
	if update.OutlineSize != "" {
		merged.OutlineSize = update.OutlineSize
	}
	return merged
}

// Clone returns a deep copy of the status.
func (s Status) Clone() Status {
	c := s
	if s.PagesRotation != nil {
		r := *s.PagesRotation
		c.PagesRotation = &r
	}
	if s.Pages != nil {
		p := *s.Pages
		c.Pages = &p
	}
	return c
}

// ViewState is the subset of Status remembered across sessions.
type ViewState struct {
	SpreadMode  SpreadMode `json:"spreadMode,omitempty"`
	ScrollMode  ScrollMode `json:"scrollMode,omitempty"`
	ZoomMode    ZoomMode   `json:"zoomMode,omitempty"`
	OutlineSize string     `json:"outlineSize,omitempty"`
}

// DefaultViewState returns the view state used before any panel reported one.
func DefaultViewState() ViewState {
	return ViewState{
		SpreadMode:  SpreadNone,
		ScrollMode:  ScrollVertical,
		ZoomMode:    ZoomAuto,
		OutlineSize: "200px",
	}
}

// WithDefaults fills the fields of v that are unset from fallback.
func (v ViewState) WithDefaults(fallback ViewState) ViewState {
	if v.SpreadMode == "" {
		v.SpreadMode = fallback.SpreadMode
	}
	if v.ScrollMode == "" {
		v.ScrollMode = fallback.ScrollMode
	}
	if v.ZoomMode == "" {
		v.ZoomMode = fallback.ZoomMode
	}
	if v.OutlineSize == "" {
		v.OutlineSize = fallback.OutlineSize
	}
	return v
}

// Apply merges the view fields present in status into v.
// Only fields that are present and differ are changed; changed reports
// whether anything was.
func (v ViewState) Apply(status Status) (merged ViewState, changed bool) {
	merged = v
	if status.ZoomMode != "" && status.ZoomMode != v.ZoomMode {
		merged.ZoomMode = status.ZoomMode
		changed = true
	}
	if status.ScrollMode != "" && status.ScrollMode != v.ScrollMode {
		merged.ScrollMode = status.ScrollMode
		changed = true
	}
	if status.SpreadMode != "" && status.SpreadMode != v.SpreadMode {
		merged.SpreadMode = status.SpreadMode
		changed = true
	}
	if status.OutlineSize != "" && status.OutlineSize != v.OutlineSize {
		merged.OutlineSize = status.OutlineSize
		changed = true
	}
	return merged, changed
}

// DocumentState is the state remembered per document path.
type DocumentState struct {
	PageNumber int `json:"pageNumber,omitempty"`
}

// FindOptions are the toggles of the find affordance.
type FindOptions struct {
	HighlightAll    bool `json:"highlightAll,omitempty"`
	CaseSensitive   bool `json:"caseSensitive,omitempty"`
	EntireWord      bool `json:"entireWord,omitempty"`
	MatchDiacritics bool `json:"matchDiacritics,omitempty"`
}

// FindState is the last find query reported by a panel.
type FindState struct {
	Query   string      `json:"query"`
	Options FindOptions `json:"options"`
}

// OutlineHidden reports whether an outline size denotes a collapsed outline.
func OutlineHidden(size string) bool {
	return strings.HasPrefix(size, "-")
}

// ToggleOutlineSize flips an outline size between shown and collapsed while
// remembering the width.
func ToggleOutlineSize(size string) string {
	if size == "" {
		return DefaultViewState().OutlineSize
	}
	if OutlineHidden(size) {
		return strings.TrimPrefix(size, "-")
	}
	return "-" + size
}
