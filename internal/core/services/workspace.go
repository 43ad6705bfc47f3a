package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driven"
	"github.com/custodia-labs/pdfpanel/internal/logger"
)

// Workspace state keys.
const (
	KeyViewState     = "pdfjs-reader.view"
	KeyDocumentState = "pdfjs-reader.document"
	KeyFindState     = "pdfjs-reader.find"
)

// WorkspaceKeys lists every key owned by WorkspaceState.
var WorkspaceKeys = []string{KeyDocumentState, KeyFindState, KeyViewState}

// WorkspaceState gives typed access to the state remembered per workspace.
// It is a cache: unreadable values fall back to defaults.
type WorkspaceState struct {
	store driven.StateStore

	// mu serialises read-modify-write of the per-document map.
	mu sync.Mutex
}

// NewWorkspaceState wraps store.
func NewWorkspaceState(store driven.StateStore) *WorkspaceState {
	return &WorkspaceState{store: store}
}

func (w *WorkspaceState) get(ctx context.Context, key string, v any) bool {
	data, ok, err := w.store.Get(ctx, key)
	if err != nil {
		logger.Warn("workspace state: read %s: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("workspace state: decode %s: %v", key, err)
		return false
	}
	return true
}

func (w *WorkspaceState) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := w.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// ViewState returns the persisted view state, with fields no panel has
// reported taken from the default one.
func (w *WorkspaceState) ViewState(ctx context.Context) domain.ViewState {
	stored, _ := w.StoredViewState(ctx)
	return stored.WithDefaults(domain.DefaultViewState())
}

// StoredViewState returns the persisted view state and whether one exists.
func (w *WorkspaceState) StoredViewState(ctx context.Context) (domain.ViewState, bool) {
	var stored domain.ViewState
	if !w.get(ctx, KeyViewState, &stored) {
		return domain.ViewState{}, false
	}
	return stored, true
}

// ApplyStatus merges the view fields reported in status into the persisted
// view state and writes it back only if a field changed. Fields never
// reported stay unset so configured defaults keep applying to them.
func (w *WorkspaceState) ApplyStatus(ctx context.Context, status domain.Status) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	stored, _ := w.StoredViewState(ctx)
	merged, changed := stored.Apply(status)
	if !changed {
		return false, nil
	}
	return true, w.put(ctx, KeyViewState, merged)
}

// SetViewState replaces the persisted view state.
func (w *WorkspaceState) SetViewState(ctx context.Context, view domain.ViewState) error {
	return w.put(ctx, KeyViewState, view)
}

// DocumentStates returns the per-document state keyed by path.
func (w *WorkspaceState) DocumentStates(ctx context.Context) map[string]domain.DocumentState {
	states := make(map[string]domain.DocumentState)
	if !w.get(ctx, KeyDocumentState, &states) || states == nil {
		return make(map[string]domain.DocumentState)
	}
	return states
}

// PageNumber returns the remembered page for path, 0 if none.
func (w *WorkspaceState) PageNumber(ctx context.Context, path string) int {
	return w.DocumentStates(ctx)[path].PageNumber
}

// SetPageNumber remembers the current page of path.
func (w *WorkspaceState) SetPageNumber(ctx context.Context, path string, page int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	states := w.DocumentStates(ctx)
	if states[path].PageNumber == page {
		return nil
	}
	states[path] = domain.DocumentState{PageNumber: page}
	return w.put(ctx, KeyDocumentState, states)
}

// FindState returns the last find state, empty if none.
func (w *WorkspaceState) FindState(ctx context.Context) domain.FindState {
	var state domain.FindState
	w.get(ctx, KeyFindState, &state)
	return state
}

// SetFindState replaces the persisted find state.
func (w *WorkspaceState) SetFindState(ctx context.Context, state domain.FindState) error {
	return w.put(ctx, KeyFindState, state)
}

// Raw returns the stored JSON of key.
func (w *WorkspaceState) Raw(ctx context.Context, key string) (json.RawMessage, bool, error) {
	data, ok, err := w.store.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	return json.RawMessage(data), true, nil
}

// Clear forgets everything remembered for the workspace.
func (w *WorkspaceState) Clear(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, key := range WorkspaceKeys {
		if err := w.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}
