package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driven"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driving"
	"github.com/custodia-labs/pdfpanel/internal/logger"
)

// Ensure Document and Backup implement the host-facing interfaces.
var (
	_ driving.Document = (*Document)(nil)
	_ driving.Backup   = (*Backup)(nil)
)

// DocumentDataFunc produces the current bytes of a document, normally by
// asking the focused panel to serialize it.
type DocumentDataFunc func(ctx context.Context) ([]byte, error)

// DocumentChange is raised when the bytes of a document should be re-read.
// Force is false when the change was caused by this document's own save, in
// which case the focused panel already holds the written state.
type DocumentChange struct {
	DataFile string
	Force    bool
}

// Document is the single authoritative handle for one opened PDF resource.
type Document struct {
	uri     string
	fs      driven.FileSystem
	getData DocumentDataFunc

	mu       sync.Mutex
	dataFile string
	force    bool
	disposed bool

	changed  emitter[DocumentChange]
	disposes emitter[struct{}]
	owned    subscriptions
}

// NewDocument opens uri. When backupID is set the document reads its bytes
// from the backup until the next successful save. A nil watcher disables
// external change detection.
func NewDocument(uri, backupID string, fs driven.FileSystem, watcher driven.FileWatcher, getData DocumentDataFunc) (*Document, error) {
	if uri == "" {
		return nil, fmt.Errorf("document uri: %w", domain.ErrInvalidInput)
	}

	dataFile := uri
	if backupID != "" {
		dataFile = backupID
	}

	d := &Document{
		uri:      uri,
		fs:       fs,
		getData:  getData,
		dataFile: dataFile,
		force:    true,
	}

	if watcher != nil {
		stop, err := watcher.Watch(uri, d.onFileChanged)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", uri, err)
		}
		d.owned.add(stop)
	}

	return d, nil
}

// URI returns the stable resource path.
func (d *Document) URI() string {
	return d.uri
}

// DataFile returns the path the bytes are currently read from.
func (d *Document) DataFile() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dataFile
}

// OnDidChangeDocument registers fn for change notifications.
func (d *Document) OnDidChangeDocument(fn func(DocumentChange)) func() {
	return d.changed.subscribe(fn)
}

// OnDidDispose registers fn to run once when the document is disposed.
func (d *Document) OnDidDispose(fn func()) func() {
	return d.disposes.subscribe(func(struct{}) { fn() })
}

func (d *Document) onFileChanged() {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		return
	}
	change := DocumentChange{DataFile: d.uri, Force: d.force}
	d.force = true
	d.mu.Unlock()

	logger.Debug("document %s changed on disk (force=%t)", d.uri, change.Force)
	d.changed.fire(change)
}

// Save writes the current bytes back to the document's own resource.
func (d *Document) Save(ctx context.Context) error {
	return d.SaveAs(ctx, d.uri)
}

// SaveAs writes the current bytes to target. Nothing is written and no state
// changes once ctx is done. A save to the document's own resource marks the
// resulting file change as self-caused and retargets reads to it.
func (d *Document) SaveAs(ctx context.Context, target string) error {
	if d.isDisposed() {
		return domain.ErrDisposed
	}

	data, err := d.getData(ctx)
	if err != nil {
		return fmt.Errorf("get document data: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	own := target == d.uri

	d.mu.Lock()
	previous := d.force
	if own {
		d.force = false
	}
	d.mu.Unlock()

	if err := d.fs.WriteFile(ctx, target, data); err != nil {
		if own {
			d.mu.Lock()
			d.force = previous
			d.mu.Unlock()
		}
		return fmt.Errorf("write %s: %w", target, err)
	}

	if own {
		d.mu.Lock()
		d.dataFile = d.uri
		d.mu.Unlock()
	}

	logger.Debug("document %s saved to %s (%d bytes)", d.uri, target, len(data))
	return nil
}

// Revert asks every panel to re-read the document from disk.
func (d *Document) Revert(ctx context.Context) error {
	if d.isDisposed() {
		return domain.ErrDisposed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	d.changed.fire(DocumentChange{DataFile: d.uri, Force: true})
	return nil
}

// Backup writes a recoverable copy of the document to destination.
func (d *Document) Backup(ctx context.Context, destination string) (*Backup, error) {
	err := d.SaveAs(ctx, destination)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackupCanceled, err)
	}
	if err != nil {
		return nil, err
	}

	backup := &Backup{path: destination, fs: d.fs}
	if ctx.Err() != nil {
		// Canceled after the write completed; do not leave the copy behind.
		backup.Delete(context.WithoutCancel(ctx))
		return nil, domain.ErrBackupCanceled
	}
	return backup, nil
}

func (d *Document) isDisposed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disposed
}

// Dispose fires the dispose notification once and releases the watcher.
// No events fire afterwards.
func (d *Document) Dispose() {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		return
	}
	d.disposed = true
	d.mu.Unlock()

	d.disposes.fire(struct{}{})
	d.owned.release()
	d.changed.clear()
	d.disposes.clear()
}

// Backup is a copy of a document written by Document.Backup.
type Backup struct {
	path string
	fs   driven.FileSystem
}

// ID returns the backup location, suitable for reopening the document.
func (b *Backup) ID() string {
	return b.path
}

// Delete removes the backup file. Errors are logged, never returned.
func (b *Backup) Delete(ctx context.Context) {
	if b == nil {
		return
	}
	if err := b.fs.Remove(ctx, b.path); err != nil {
		logger.Debug("delete backup %s: %v", b.path, err)
	}
}
