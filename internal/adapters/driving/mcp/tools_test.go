package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
)

func newTestServer(t *testing.T, c *mockController) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Active: lookupOf(c)})
	require.NoError(t, err)
	return server
}

func TestServer_handleStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("no focused panel", func(t *testing.T) {
		_, output, err := newTestServer(t, nil).handleStatus(ctx, nil, EmptyInput{})
		require.NoError(t, err)
		assert.False(t, output.Focused)
	})

	t.Run("focused panel without status", func(t *testing.T) {
		_, output, err := newTestServer(t, &mockController{}).handleStatus(ctx, nil, EmptyInput{})
		require.NoError(t, err)
		assert.Equal(t, StatusOutput{Focused: true}, output)
	})

	t.Run("reports every field", func(t *testing.T) {
		rotation := 90
		c := &mockController{status: &domain.Status{
			SpreadMode:    domain.SpreadOdd,
			ScrollMode:    domain.ScrollWrapped,
			ZoomMode:      domain.ZoomScale(1.25),
			PagesRotation: &rotation,
			Pages:         &domain.Pages{Current: 3, Total: 12},
			OutlineSize:   "240px",
		}}

		_, output, err := newTestServer(t, c).handleStatus(ctx, nil, EmptyInput{})
		require.NoError(t, err)
		assert.Equal(t, 3, output.Page)
		assert.Equal(t, 12, output.TotalPages)
		assert.Equal(t, "1.25", output.Zoom)
		assert.Equal(t, "125%", output.ZoomLabel)
		assert.Equal(t, "wrapped", output.ScrollMode)
		assert.Equal(t, "odd", output.SpreadMode)
		require.NotNil(t, output.Rotation)
		assert.Equal(t, 90, *output.Rotation)
		assert.True(t, output.OutlineVisible)
	})

	t.Run("collapsed outline", func(t *testing.T) {
		c := &mockController{status: &domain.Status{OutlineSize: "-240px"}}
		_, output, err := newTestServer(t, c).handleStatus(ctx, nil, EmptyInput{})
		require.NoError(t, err)
		assert.False(t, output.OutlineVisible)
	})
}

func TestServer_handleNavigate(t *testing.T) {
	ctx := context.Background()

	t.Run("page", func(t *testing.T) {
		c := &mockController{}
		_, output, err := newTestServer(t, c).handleNavigate(ctx, nil, NavigateInput{Page: 4})
		require.NoError(t, err)
		assert.Equal(t, "page 4", output.Sent)
		assert.Equal(t, []domain.NavigateRequest{{Page: 4}}, c.navigations)
	})

	t.Run("action", func(t *testing.T) {
		c := &mockController{}
		_, output, err := newTestServer(t, c).handleNavigate(ctx, nil, NavigateInput{Action: domain.ActionNext})
		require.NoError(t, err)
		assert.Equal(t, domain.ActionNext, output.Sent)
	})

	t.Run("requires page or action", func(t *testing.T) {
		c := &mockController{}
		_, _, err := newTestServer(t, c).handleNavigate(ctx, nil, NavigateInput{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, c.navigations)
	})

	t.Run("no focused panel", func(t *testing.T) {
		_, _, err := newTestServer(t, nil).handleNavigate(ctx, nil, NavigateInput{Page: 1})
		assert.ErrorIs(t, err, ErrNoFocusedPanel)
	})

	t.Run("send failure", func(t *testing.T) {
		c := &mockController{err: domain.ErrChannelClosed}
		_, _, err := newTestServer(t, c).handleNavigate(ctx, nil, NavigateInput{Page: 1})
		assert.ErrorIs(t, err, domain.ErrChannelClosed)
	})
}

func TestViewRequest(t *testing.T) {
	tests := []struct {
		name    string
		input   ViewInput
		want    domain.ViewRequest
		wantErr bool
	}{
		{
			name:  "modes",
			input: ViewInput{SpreadMode: "even", ScrollMode: "page"},
			want:  domain.ViewRequest{SpreadMode: domain.SpreadEven, ScrollMode: domain.ScrollPage},
		},
		{
			name:  "zoom percentage",
			input: ViewInput{Zoom: "150%"},
			want:  domain.ViewRequest{ZoomMode: &domain.ZoomChange{Scale: domain.ZoomScale(1.5)}},
		},
		{
			name:  "zoom preset",
			input: ViewInput{Zoom: "page-fit"},
			want:  domain.ViewRequest{ZoomMode: &domain.ZoomChange{Scale: domain.ZoomPageFit}},
		},
		{
			name:  "zoom steps",
			input: ViewInput{ZoomSteps: -2},
			want:  domain.ViewRequest{ZoomMode: &domain.ZoomChange{Steps: -2}},
		},
		{
			name:  "rotation",
			input: ViewInput{Rotate: -90},
			want:  domain.ViewRequest{PagesRotation: &domain.RotationChange{Delta: -90}},
		},
		{name: "unknown spread", input: ViewInput{SpreadMode: "triple"}, wantErr: true},
		{name: "unknown scroll", input: ViewInput{ScrollMode: "diagonal"}, wantErr: true},
		{name: "bad zoom", input: ViewInput{Zoom: "huge"}, wantErr: true},
		{name: "zoom and steps", input: ViewInput{Zoom: "auto", ZoomSteps: 1}, wantErr: true},
		{name: "odd rotation", input: ViewInput{Rotate: 45}, wantErr: true},
		{name: "empty", input: ViewInput{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := viewRequest(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServer_handleView(t *testing.T) {
	ctx := context.Background()
	c := &mockController{}
	server := newTestServer(t, c)

	_, output, err := server.handleView(ctx, nil, ViewInput{Rotate: 90})
	require.NoError(t, err)
	assert.Equal(t, "view", output.Sent)
	require.Len(t, c.views, 1)

	_, _, err = server.handleView(ctx, nil, ViewInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, c.views, 1)
}

func TestServer_handleFindAndOutline(t *testing.T) {
	ctx := context.Background()
	c := &mockController{}
	server := newTestServer(t, c)

	_, _, err := server.handleFind(ctx, nil, EmptyInput{})
	require.NoError(t, err)
	_, _, err = server.handleToggleOutline(ctx, nil, EmptyInput{})
	require.NoError(t, err)

	assert.Equal(t, 1, c.finds)
	assert.Equal(t, 1, c.toggles)

	_, _, err = newTestServer(t, nil).handleFind(ctx, nil, EmptyInput{})
	assert.ErrorIs(t, err, ErrNoFocusedPanel)
}

func TestServer_handleHighlight(t *testing.T) {
	ctx := context.Background()
	c := &mockController{}
	server := newTestServer(t, c)

	_, output, err := server.handleHighlight(ctx, nil, HighlightInput{Color: "yellow"})
	require.NoError(t, err)
	assert.Equal(t, "highlight yellow", output.Sent)

	_, output, err = server.handleHighlight(ctx, nil, HighlightInput{Remove: true})
	require.NoError(t, err)
	assert.Equal(t, "remove highlight", output.Sent)

	require.Len(t, c.highlights, 2)
	require.NotNil(t, c.highlights[0])
	assert.Equal(t, "yellow", *c.highlights[0])
	assert.Nil(t, c.highlights[1])

	_, _, err = server.handleHighlight(ctx, nil, HighlightInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, _, err = server.handleHighlight(ctx, nil, HighlightInput{Color: "red", Remove: true})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestServer_handleSave(t *testing.T) {
	ctx := context.Background()

	t.Run("saves focused document", func(t *testing.T) {
		saver := &mockSaver{uri: "/docs/paper.pdf"}
		server, err := NewServer(&Ports{Active: lookupOf(nil), Saver: saver})
		require.NoError(t, err)

		_, output, err := server.handleSave(ctx, nil, EmptyInput{})
		require.NoError(t, err)
		assert.Equal(t, "/docs/paper.pdf", output.URI)
		assert.Equal(t, 1, saver.calls)
	})

	t.Run("no focused panel", func(t *testing.T) {
		saver := &mockSaver{err: domain.ErrNoActivePanel}
		server, err := NewServer(&Ports{Active: lookupOf(nil), Saver: saver})
		require.NoError(t, err)

		_, _, err = server.handleSave(ctx, nil, EmptyInput{})
		assert.ErrorIs(t, err, ErrNoFocusedPanel)
	})

	t.Run("write failure", func(t *testing.T) {
		saver := &mockSaver{uri: "/docs/paper.pdf", err: errors.New("disk full")}
		server, err := NewServer(&Ports{Active: lookupOf(nil), Saver: saver})
		require.NoError(t, err)

		_, _, err = server.handleSave(ctx, nil, EmptyInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}
