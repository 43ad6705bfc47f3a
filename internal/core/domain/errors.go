package domain

import "errors"

// Domain errors represent protocol and document failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Document Errors.

	// ErrNoActivePanel indicates a save was requested but no focused panel
	// exists to produce the document bytes.
	ErrNoActivePanel = errors.New("no active panel for document")

	// ErrBackupCanceled indicates cancellation was observed during a backup.
	ErrBackupCanceled = errors.New("backup canceled")

	// ErrDisposed indicates the document or presenter has been disposed.
	ErrDisposed = errors.New("disposed")

	// Channel Errors.

	// ErrStaleResponse indicates a response referenced an unknown request id.
	// It is only ever logged, never returned to a caller.
	ErrStaleResponse = errors.New("stale response")

	// ErrChannelClosed indicates the message channel has been closed.
	// Pending calls fail with this error when their channel is released.
	ErrChannelClosed = errors.New("channel closed")

	// ErrMalformedMessage indicates an inbound message could not be decoded.
	ErrMalformedMessage = errors.New("malformed message")

	// Panel Errors.

	// ErrPathNotAllowed indicates a panel requested a resource outside its
	// resource allowlist.
	ErrPathNotAllowed = errors.New("path not allowed")
)
