package services

import (
	"sync"

	"github.com/custodia-labs/pdfpanel/internal/core/ports/driving"
)

type presenterEntry struct {
	resource  string
	presenter *Presenter
}

// PresenterCollection tracks every live presenter by document.
// Presenters leave the collection when they are disposed.
type PresenterCollection struct {
	mu      sync.RWMutex
	entries []*presenterEntry
}

// NewPresenterCollection creates an empty collection.
func NewPresenterCollection() *PresenterCollection {
	return &PresenterCollection{}
}

// Add registers p until it is disposed.
func (c *PresenterCollection) Add(p *Presenter) {
	entry := &presenterEntry{resource: p.Document().URI(), presenter: p}

	c.mu.Lock()
	c.entries = append(c.entries, entry)
	c.mu.Unlock()

	p.OnDidDispose(func() { c.remove(entry) })
}

func (c *PresenterCollection) remove(entry *presenterEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.entries {
		if e == entry {
			c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
			return
		}
	}
}

// Get returns every presenter of the document at uri, in creation order.
func (c *PresenterCollection) Get(uri string) []*Presenter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*Presenter
	for _, e := range c.entries {
		if e.resource == uri {
			out = append(out, e.presenter)
		}
	}
	return out
}

// All returns every presenter in creation order.
func (c *PresenterCollection) All() []*Presenter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Presenter, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.presenter)
	}
	return out
}

// Len returns the number of live presenters.
func (c *PresenterCollection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Active returns the presenter whose panel has focus, nil if none.
func (c *PresenterCollection) Active() *Presenter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.entries {
		if e.presenter.Active() {
			return e.presenter
		}
	}
	return nil
}

// Lookup returns an ActiveLookup over this collection.
func (c *PresenterCollection) Lookup() driving.ActiveLookup {
	return func() driving.PanelController {
		if p := c.Active(); p != nil {
			return p
		}
		return nil
	}
}
