// Package mcp provides an MCP (Model Context Protocol) server adapter for pdfpanel.
// It lets AI assistants read the focused panel's status and drive the viewer.
package mcp

import "errors"

// ErrMissingActiveLookup is returned when no focused-panel lookup is provided.
var ErrMissingActiveLookup = errors.New("mcp: active panel lookup is required")

// ErrNoFocusedPanel is returned by tools that need a focused panel.
var ErrNoFocusedPanel = errors.New("no panel has focus")
