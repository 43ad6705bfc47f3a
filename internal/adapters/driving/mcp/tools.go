package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/statusbar"
	"github.com/custodia-labs/pdfpanel/internal/core/domain"
)

// EmptyInput is the input schema of tools without arguments.
type EmptyInput struct{}

// StatusOutput is the output schema for the status tool.
type StatusOutput struct {
	Focused        bool   `json:"focused"`
	Page           int    `json:"page,omitempty"`
	TotalPages     int    `json:"total_pages,omitempty"`
	Zoom           string `json:"zoom,omitempty"`
	ZoomLabel      string `json:"zoom_label,omitempty"`
	ScrollMode     string `json:"scroll_mode,omitempty"`
	SpreadMode     string `json:"spread_mode,omitempty"`
	Rotation       *int   `json:"rotation,omitempty"`
	OutlineVisible bool   `json:"outline_visible"`
}

// NavigateInput is the input schema for the navigate tool.
type NavigateInput struct {
	Page   int    `json:"page,omitempty" jsonschema:"1-based page to show, clamped to the document"`
	Action string `json:"action,omitempty" jsonschema:"first, prev, next, last, GoBack or GoForward"`
}

// ViewInput is the input schema for the view tool.
type ViewInput struct {
	SpreadMode string `json:"spread_mode,omitempty" jsonschema:"none, odd or even"`
	ScrollMode string `json:"scroll_mode,omitempty" jsonschema:"vertical, horizontal, wrapped or page"`
	Zoom       string `json:"zoom,omitempty" jsonschema:"auto, page-actual, page-width, page-height, page-fit or a percentage such as 125%"`
	ZoomSteps  int    `json:"zoom_steps,omitempty" jsonschema:"zoom in (positive) or out (negative) by this many steps"`
	Rotate     int    `json:"rotate,omitempty" jsonschema:"rotate clockwise by this many degrees, a multiple of 90"`
}

// HighlightInput is the input schema for the highlight tool.
type HighlightInput struct {
	Color  string `json:"color,omitempty" jsonschema:"palette color name or #hex to highlight the selection with"`
	Remove bool   `json:"remove,omitempty" jsonschema:"remove highlights in the current selection instead"`
}

// IntentOutput acknowledges an intent sent to the focused panel.
// The panel applies it asynchronously; call status to observe the result.
type IntentOutput struct {
	Sent string `json:"sent"`
}

// SaveOutput is the output schema for the save tool.
type SaveOutput struct {
	URI string `json:"uri"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "status",
		Description: "Report the page, zoom, layout and rotation of the focused PDF panel",
	}, s.handleStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "navigate",
		Description: "Go to a page or run a navigation action in the focused PDF panel",
	}, s.handleNavigate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "view",
		Description: "Change spread mode, scroll mode, zoom or rotation of the focused PDF panel",
	}, s.handleView)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find",
		Description: "Open the find bar of the focused PDF panel with the last query",
	}, s.handleFind)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "highlight",
		Description: "Highlight the current selection, or remove highlights from it",
	}, s.handleHighlight)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "toggle_outline",
		Description: "Show or hide the outline sidebar of the focused PDF panel",
	}, s.handleToggleOutline)

	if s.ports.Saver != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "save",
			Description: "Write the focused panel's document, including annotations, back to disk",
		}, s.handleSave)
	}
}

// handleStatus handles the status tool invocation.
func (s *Server) handleStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	c := s.ports.Active()
	if c == nil {
		return nil, StatusOutput{}, nil
	}

	output := StatusOutput{Focused: true}
	status := c.Status()
	if status == nil {
		return nil, output, nil
	}

	if status.Pages != nil {
		output.Page = status.Pages.Current
		output.TotalPages = status.Pages.Total
	}
	if status.ZoomMode != "" {
		output.Zoom = string(status.ZoomMode)
		output.ZoomLabel = status.ZoomMode.Label()
	}
	output.ScrollMode = string(status.ScrollMode)
	output.SpreadMode = string(status.SpreadMode)
	output.Rotation = status.PagesRotation
	output.OutlineVisible = status.OutlineSize != "" && !domain.OutlineHidden(status.OutlineSize)

	return nil, output, nil
}

// handleNavigate handles the navigate tool invocation.
func (s *Server) handleNavigate(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input NavigateInput,
) (*mcp.CallToolResult, IntentOutput, error) {
	if input.Page <= 0 && input.Action == "" {
		return nil, IntentOutput{}, fmt.Errorf("page or action is required: %w", domain.ErrInvalidInput)
	}
	c, err := s.ports.active()
	if err != nil {
		return nil, IntentOutput{}, err
	}

	req := domain.NavigateRequest{Page: input.Page, Action: input.Action}
	if err := c.Navigate(req); err != nil {
		return nil, IntentOutput{}, fmt.Errorf("navigate: %w", err)
	}
	if req.Page > 0 {
		return nil, IntentOutput{Sent: fmt.Sprintf("page %d", req.Page)}, nil
	}
	return nil, IntentOutput{Sent: req.Action}, nil
}

// viewRequest validates input and builds the view request.
func viewRequest(input ViewInput) (domain.ViewRequest, error) {
	var req domain.ViewRequest

	if input.SpreadMode != "" {
		mode := domain.SpreadMode(input.SpreadMode)
		if !mode.IsValid() {
			return req, fmt.Errorf("spread mode %q: %w", input.SpreadMode, domain.ErrInvalidInput)
		}
		req.SpreadMode = mode
	}
	if input.ScrollMode != "" {
		mode := domain.ScrollMode(input.ScrollMode)
		if !mode.IsValid() {
			return req, fmt.Errorf("scroll mode %q: %w", input.ScrollMode, domain.ErrInvalidInput)
		}
		req.ScrollMode = mode
	}
	switch {
	case input.Zoom != "" && input.ZoomSteps != 0:
		return req, fmt.Errorf("zoom and zoom_steps are exclusive: %w", domain.ErrInvalidInput)
	case input.Zoom != "":
		zoom, err := statusbar.ParseZoom(input.Zoom)
		if err != nil {
			return req, err
		}
		req.ZoomMode = &domain.ZoomChange{Scale: zoom}
	case input.ZoomSteps != 0:
		req.ZoomMode = &domain.ZoomChange{Steps: input.ZoomSteps}
	}
	if input.Rotate != 0 {
		if input.Rotate%90 != 0 {
			return req, fmt.Errorf("rotation %d is not a multiple of 90: %w", input.Rotate, domain.ErrInvalidInput)
		}
		req.PagesRotation = &domain.RotationChange{Delta: input.Rotate}
	}

	if req == (domain.ViewRequest{}) {
		return req, fmt.Errorf("nothing to change: %w", domain.ErrInvalidInput)
	}
	return req, nil
}

// handleView handles the view tool invocation.
func (s *Server) handleView(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ViewInput,
) (*mcp.CallToolResult, IntentOutput, error) {
	req, err := viewRequest(input)
	if err != nil {
		return nil, IntentOutput{}, err
	}
	c, err := s.ports.active()
	if err != nil {
		return nil, IntentOutput{}, err
	}
	if err := c.View(req); err != nil {
		return nil, IntentOutput{}, fmt.Errorf("view: %w", err)
	}
	return nil, IntentOutput{Sent: "view"}, nil
}

// handleFind handles the find tool invocation.
func (s *Server) handleFind(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, IntentOutput, error) {
	c, err := s.ports.active()
	if err != nil {
		return nil, IntentOutput{}, err
	}
	if err := c.Find(); err != nil {
		return nil, IntentOutput{}, fmt.Errorf("find: %w", err)
	}
	return nil, IntentOutput{Sent: "find"}, nil
}

// handleHighlight handles the highlight tool invocation.
func (s *Server) handleHighlight(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input HighlightInput,
) (*mcp.CallToolResult, IntentOutput, error) {
	if input.Remove == (input.Color != "") {
		return nil, IntentOutput{}, fmt.Errorf("exactly one of color and remove is required: %w", domain.ErrInvalidInput)
	}
	c, err := s.ports.active()
	if err != nil {
		return nil, IntentOutput{}, err
	}

	if input.Remove {
		if err := c.Highlight(nil); err != nil {
			return nil, IntentOutput{}, fmt.Errorf("remove highlight: %w", err)
		}
		return nil, IntentOutput{Sent: "remove highlight"}, nil
	}

	color := input.Color
	if err := c.Highlight(&color); err != nil {
		return nil, IntentOutput{}, fmt.Errorf("highlight: %w", err)
	}
	return nil, IntentOutput{Sent: "highlight " + color}, nil
}

// handleToggleOutline handles the toggle_outline tool invocation.
func (s *Server) handleToggleOutline(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, IntentOutput, error) {
	c, err := s.ports.active()
	if err != nil {
		return nil, IntentOutput{}, err
	}
	if err := c.ToggleOutline(); err != nil {
		return nil, IntentOutput{}, fmt.Errorf("toggle outline: %w", err)
	}
	return nil, IntentOutput{Sent: "toggle outline"}, nil
}

// handleSave handles the save tool invocation.
func (s *Server) handleSave(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, SaveOutput, error) {
	uri, err := s.ports.Saver.SaveActive(ctx)
	if errors.Is(err, domain.ErrNoActivePanel) {
		return nil, SaveOutput{}, ErrNoFocusedPanel
	}
	if err != nil {
		return nil, SaveOutput{URI: uri}, fmt.Errorf("save %s: %w", uri, err)
	}
	return nil, SaveOutput{URI: uri}, nil
}
