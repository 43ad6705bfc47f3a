package mcp

import (
	"context"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driving"
)

// mockController is a mock implementation of driving.PanelController.
type mockController struct {
	status *domain.Status
	err    error

	navigations []domain.NavigateRequest
	views       []domain.ViewRequest
	finds       int
	highlights  []*string
	toggles     int
}

func (m *mockController) Status() *domain.Status { return m.status }

func (m *mockController) Navigate(req domain.NavigateRequest) error {
	m.navigations = append(m.navigations, req)
	return m.err
}

func (m *mockController) View(req domain.ViewRequest) error {
	m.views = append(m.views, req)
	return m.err
}

func (m *mockController) Find() error {
	m.finds++
	return m.err
}

func (m *mockController) Highlight(color *string) error {
	m.highlights = append(m.highlights, color)
	return m.err
}

func (m *mockController) ToggleOutline() error {
	m.toggles++
	return m.err
}

// lookupOf returns a lookup resolving to c, or to no panel when c is nil.
func lookupOf(c *mockController) driving.ActiveLookup {
	return func() driving.PanelController {
		if c == nil {
			return nil
		}
		return c
	}
}

// mockWorkspace is a mock implementation of WorkspaceReader.
type mockWorkspace struct {
	find domain.FindState
	docs map[string]domain.DocumentState
}

func (m *mockWorkspace) ViewState(_ context.Context) domain.ViewState {
	return domain.DefaultViewState()
}

func (m *mockWorkspace) FindState(_ context.Context) domain.FindState {
	return m.find
}

func (m *mockWorkspace) DocumentStates(_ context.Context) map[string]domain.DocumentState {
	return m.docs
}

// mockSaver is a mock implementation of DocumentSaver.
type mockSaver struct {
	uri   string
	err   error
	calls int
}

func (m *mockSaver) SaveActive(_ context.Context) (string, error) {
	m.calls++
	return m.uri, m.err
}
