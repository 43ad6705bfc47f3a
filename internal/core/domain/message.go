package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Message types exchanged with a rendering panel.
const (
	MessageReady     = "ready"
	MessageOpen      = "open"
	MessageReload    = "reload"
	MessageSave      = "save"
	MessageNavigate  = "navigate"
	MessageView      = "view"
	MessageFind      = "find"
	MessageHighlight = "highlight"
	MessageToggle    = "toggle"
	MessageStatus    = "status"
	MessageResponse  = "response"
)

// Message is the envelope posted across the isolation boundary.
// RequestID is set on calls and on the responses resolving them.
type Message struct {
	Type      string          `json:"type"`
	Body      json.RawMessage `json:"body,omitempty"`
	RequestID int64           `json:"requestId,omitempty"`
}

// NewMessage encodes body into a message envelope.
func NewMessage(msgType string, body any) (Message, error) {
	msg := Message{Type: msgType}
	if body == nil {
		return msg, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return Message{}, err
	}
	msg.Body = data
	return msg, nil
}

// DecodeBody unmarshals the message body into v.
// An empty body leaves v untouched.
func (m Message) DecodeBody(v any) error {
	if len(m.Body) == 0 || string(m.Body) == "null" {
		return nil
	}
	return json.Unmarshal(m.Body, v)
}

// ByteArray is document content on the wire: a JSON array of byte values,
// the form a panel produces from its Uint8Array. Base64 strings are not
// accepted.
type ByteArray []byte

// MarshalJSON encodes b as an array of numbers.
func (b ByteArray) MarshalJSON() ([]byte, error) {
	out := make([]byte, 0, 2+4*len(b))
	out = append(out, '[')
	for i, v := range b {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendUint(out, uint64(v), 10)
	}
	return append(out, ']'), nil
}

// UnmarshalJSON decodes an array of numbers in 0..255.
func (b *ByteArray) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '[' {
		return fmt.Errorf("byte array: not an array: %w", ErrMalformedMessage)
	}
	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("byte array: %v: %w", err, ErrMalformedMessage)
	}
	out := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return fmt.Errorf("byte array: value %d out of range: %w", v, ErrMalformedMessage)
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}

// DocumentRef identifies the bytes a panel should load.
type DocumentRef struct {
	URL string `json:"url"`
}

// Defaults are applied by a panel after the first page renders.
type Defaults struct {
	PageNumber  int        `json:"pageNumber,omitempty"`
	ZoomMode    ZoomMode   `json:"zoomMode,omitempty"`
	ScrollMode  ScrollMode `json:"scrollMode,omitempty"`
	SpreadMode  SpreadMode `json:"spreadMode,omitempty"`
	OutlineSize string     `json:"outlineSize,omitempty"`
	Cursor      string     `json:"cursor,omitempty"`
	SidebarView string     `json:"sidebarView,omitempty"`
}

// OpenRequest is the body of an open call.
type OpenRequest struct {
	Document            DocumentRef `json:"document"`
	CMapURL             string      `json:"cMapUrl"`
	StandardFontDataURL string      `json:"standardFontDataUrl"`
	Defaults            Defaults    `json:"defaults"`
}

// ReloadRequest is the body of a reload notification.
type ReloadRequest struct {
	Document DocumentRef `json:"document"`
}

// Synthetic navigation actions resolved by the panel against the page count.
// Any other action is forwarded to the viewer's named-action executor.
const (
	ActionFirst     = "first"
	ActionPrev      = "prev"
	ActionNext      = "next"
	ActionLast      = "last"
	ActionGoBack    = "GoBack"
	ActionGoForward = "GoForward"
)

// NavigateRequest is the body of a navigate notification.
// Page takes precedence over Action when both are set.
type NavigateRequest struct {
	Page   int    `json:"page,omitempty"`
	Action string `json:"action,omitempty"`
}

// ZoomChange requests either a relative step or an absolute scale.
type ZoomChange struct {
	Scale ZoomMode `json:"scale,omitempty"`
	Steps int      `json:"steps,omitempty"`
}

// RotationChange requests a rotation relative to the current one.
type RotationChange struct {
	Delta int `json:"delta"`
}

// ViewRequest is the body of a view notification.
type ViewRequest struct {
	SpreadMode    SpreadMode      `json:"spreadMode,omitempty"`
	ScrollMode    ScrollMode      `json:"scrollMode,omitempty"`
	ZoomMode      *ZoomChange     `json:"zoomMode,omitempty"`
	PagesRotation *RotationChange `json:"pagesRotation,omitempty"`
}

// HighlightRequest is the body of a highlight notification.
// A nil Color removes highlights contained in the current selection.
type HighlightRequest struct {
	Color *string `json:"color"`
}

// ToggleRequest is the body of a toggle notification.
type ToggleRequest struct {
	Sidebar SidebarView `json:"sidebar"`
}
