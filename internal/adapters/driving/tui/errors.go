package tui

import "errors"

// ErrMissingStatusBar is returned when the status bar is not provided.
var ErrMissingStatusBar = errors.New("tui: status bar is required")

// ErrSaveUnavailable is returned when save is requested without a saver.
var ErrSaveUnavailable = errors.New("tui: saving is not available")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
