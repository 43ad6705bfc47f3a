package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driven"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driving"
	"github.com/custodia-labs/pdfpanel/internal/logger"
)

// Ensure Provider implements the interface.
var _ driving.DocumentProvider[*Document] = (*Provider)(nil)

// ProviderConfig holds the provider's collaborators.
type ProviderConfig struct {
	FileSystem driven.FileSystem
	// Watcher reports external file changes. Optional.
	Watcher   driven.FileWatcher
	Workspace *WorkspaceState
	Settings  driving.SettingsService
	// LibDir is the directory holding the viewer library resources.
	LibDir string
}

// Provider is the editor-facing entry point. It owns every open document
// and wires new panels to presenters.
type Provider struct {
	fs         driven.FileSystem
	watcher    driven.FileWatcher
	presenters *PresenterCollection
	config     PresenterConfig

	// openMu serializes OpenDocument so one uri never has two documents.
	openMu sync.Mutex

	mu   sync.Mutex
	docs map[string]*Document

	changed emitter[*Presenter]
}

// NewProvider creates a document provider.
func NewProvider(cfg ProviderConfig) *Provider {
	return &Provider{
		fs:         cfg.FileSystem,
		watcher:    cfg.Watcher,
		presenters: NewPresenterCollection(),
		config: PresenterConfig{
			Workspace: cfg.Workspace,
			Settings:  cfg.Settings,
			LibDir:    cfg.LibDir,
		},
		docs: make(map[string]*Document),
	}
}

// Presenters returns the live presenter collection.
func (p *Provider) Presenters() *PresenterCollection {
	return p.presenters
}

// Active returns the focused panel, nil if none.
func (p *Provider) Active() driving.PanelController {
	return p.presenters.Lookup()()
}

// OnDidChangePresenter registers fn for status, focus and disposal changes
// of every presenter this provider resolves.
func (p *Provider) OnDidChangePresenter(fn func(*Presenter)) func() {
	return p.changed.subscribe(fn)
}

// Document returns the open document for uri.
func (p *Provider) Document(uri string) (*Document, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	doc, ok := p.docs[uri]
	return doc, ok
}

// OpenDocument opens uri, reading from backupID when set. A document that
// is already open is shared by every panel showing it. Opening from a
// backup replaces the open document and moves its panels to the new one.
func (p *Provider) OpenDocument(ctx context.Context, uri, backupID string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.openMu.Lock()
	defer p.openMu.Unlock()

	if doc, ok := p.Document(uri); ok && backupID == "" {
		return doc, nil
	}

	doc, err := NewDocument(uri, backupID, p.fs, p.watcher, func(ctx context.Context) ([]byte, error) {
		return p.documentData(ctx, uri)
	})
	if err != nil {
		return nil, err
	}

	unsubscribe := doc.OnDidChangeDocument(func(e DocumentChange) {
		for _, presenter := range p.presenters.Get(uri) {
			if e.Force || !presenter.Active() {
				if err := presenter.Reload(e.DataFile); err != nil {
					logger.Debug("provider: reload %s in %s: %v", uri, presenter.PanelID(), err)
				}
			}
		}
	})
	doc.OnDidDispose(func() {
		unsubscribe()
		p.mu.Lock()
		if p.docs[uri] == doc {
			delete(p.docs, uri)
		}
		p.mu.Unlock()
	})

	p.mu.Lock()
	previous := p.docs[uri]
	p.docs[uri] = doc
	p.mu.Unlock()

	if previous != nil {
		for _, presenter := range p.presenters.Get(uri) {
			presenter.panel.SetResourceRoots(p.resourceRoots(doc))
			if err := presenter.rebind(doc); err != nil {
				logger.Debug("provider: move panel %s to %s: %v", presenter.PanelID(), doc.DataFile(), err)
			}
		}
		previous.Dispose()
	}

	logger.Debug("provider: opened %s (data file %s)", uri, doc.DataFile())
	return doc, nil
}

// documentData asks the first focused panel of uri for the current bytes.
func (p *Provider) documentData(ctx context.Context, uri string) ([]byte, error) {
	for _, presenter := range p.presenters.Get(uri) {
		if presenter.Active() {
			return presenter.Save(ctx)
		}
	}
	return nil, fmt.Errorf("%s: %w", uri, domain.ErrNoActivePanel)
}

// ResolvePanel binds panel to doc. The panel may load only the viewer
// library and the directory holding the document's data file.
func (p *Provider) ResolvePanel(ctx context.Context, doc *Document, panel driven.Panel) (*Presenter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	panel.SetResourceRoots(p.resourceRoots(doc))

	presenter, err := NewPresenter(doc, panel, p.config)
	if err != nil {
		return nil, err
	}
	p.presenters.Add(presenter)

	presenter.OnDidChange(p.changed.fire)
	presenter.OnDidDispose(func() {
		current := presenter.Document()
		if len(p.presenters.Get(current.URI())) == 0 {
			logger.Debug("provider: last panel of %s closed", current.URI())
			current.Dispose()
		}
	})

	logger.Debug("provider: panel %s resolved for %s", panel.ID(), doc.URI())
	return presenter, nil
}

func (p *Provider) resourceRoots(doc *Document) []string {
	roots := []string{filepath.Dir(doc.DataFile())}
	if p.config.LibDir != "" {
		roots = append([]string{p.config.LibDir}, roots...)
	}
	return roots
}

// Save writes the focused panel's bytes to the document.
func (p *Provider) Save(ctx context.Context, doc *Document) error {
	return doc.Save(ctx)
}

// SaveActive saves the document shown in the focused panel and returns
// its uri.
func (p *Provider) SaveActive(ctx context.Context) (string, error) {
	presenter := p.presenters.Active()
	if presenter == nil {
		return "", domain.ErrNoActivePanel
	}
	doc := presenter.Document()
	if err := p.Save(ctx, doc); err != nil {
		return doc.URI(), err
	}
	return doc.URI(), nil
}

// SaveAs writes the focused panel's bytes to target.
func (p *Provider) SaveAs(ctx context.Context, doc *Document, target string) error {
	return doc.SaveAs(ctx, target)
}

// Revert reloads every panel of the document from disk.
func (p *Provider) Revert(ctx context.Context, doc *Document) error {
	return doc.Revert(ctx)
}

// Backup writes a recoverable copy of the document to destination.
func (p *Provider) Backup(ctx context.Context, doc *Document, destination string) (driving.Backup, error) {
	backup, err := doc.Backup(ctx, destination)
	if err != nil {
		return nil, err
	}
	return backup, nil
}

// Close disposes every presenter and document.
func (p *Provider) Close() {
	for _, presenter := range p.presenters.All() {
		presenter.Dispose()
	}

	p.mu.Lock()
	docs := make([]*Document, 0, len(p.docs))
	for _, doc := range p.docs {
		docs = append(docs, doc)
	}
	p.mu.Unlock()

	for _, doc := range docs {
		doc.Dispose()
	}
}
