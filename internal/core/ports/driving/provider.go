package driving

import (
	"context"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
)

// Document is the host-facing view of one opened PDF resource.
type Document interface {
	// URI is the stable resource path.
	URI() string

	// DataFile is the path the bytes are currently read from.
	DataFile() string
}

// Backup is a recoverable copy of a document written by the host.
type Backup interface {
	// ID is passed back to OpenDocument to restore from the backup.
	ID() string

	// Delete removes the backup. It never fails.
	Delete(ctx context.Context)
}

// DocumentProvider implements the host editor's document lifecycle contract.
type DocumentProvider[D Document] interface {
	// OpenDocument opens uri, reading from backupID when one is given.
	OpenDocument(ctx context.Context, uri, backupID string) (D, error)

	// Save writes the active panel's bytes back to the document.
	Save(ctx context.Context, doc D) error

	// SaveAs writes the active panel's bytes to target.
	SaveAs(ctx context.Context, doc D, target string) error

	// Revert reloads every panel from the document on disk.
	Revert(ctx context.Context, doc D) error

	// Backup writes a recoverable copy to destination.
	Backup(ctx context.Context, doc D, destination string) (Backup, error)
}

// PanelController is the intent surface of one open panel.
type PanelController interface {
	// Status returns the last known status, nil while the panel is unfocused.
	Status() *domain.Status

	// Navigate moves to a page or runs a navigation action.
	Navigate(req domain.NavigateRequest) error

	// View changes spread, scroll, zoom or rotation.
	View(req domain.ViewRequest) error

	// Find opens the find affordance with the persisted find state.
	Find() error

	// Highlight starts a highlight session, or removes highlights in the
	// current selection when color is nil.
	Highlight(color *string) error

	// ToggleOutline shows or hides the outline sidebar.
	ToggleOutline() error
}

// ActiveLookup resolves the panel that currently has focus, nil if none.
type ActiveLookup func() PanelController
