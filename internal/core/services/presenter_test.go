package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfpanel/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/pdfpanel/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfpanel/internal/core/domain"
)

const testLibDir = "/opt/pdfpanel/lib"

type presenterFixture struct {
	doc       *Document
	panel     *fakePanel
	presenter *Presenter
	workspace *WorkspaceState
	config    *memory.ConfigStore
}

func newPresenterFixture(t *testing.T) *presenterFixture {
	t.Helper()
	fs := filesystem.NewMemory()
	doc, err := NewDocument(testURI, "", fs, fs, staticData("x"))
	require.NoError(t, err)

	f := &presenterFixture{
		doc:       doc,
		panel:     newFakePanel("panel-1"),
		workspace: NewWorkspaceState(memory.NewStateStore()),
		config:    memory.NewConfigStore(),
	}
	return f
}

func (f *presenterFixture) start(t *testing.T) *Presenter {
	t.Helper()
	p, err := NewPresenter(f.doc, f.panel, PresenterConfig{
		Workspace: f.workspace,
		Settings:  NewSettingsService(f.config),
		LibDir:    testLibDir,
	})
	require.NoError(t, err)
	f.presenter = p
	t.Cleanup(p.Dispose)
	return p
}

// ready drives the panel through ready and returns the open request.
func (f *presenterFixture) ready(t *testing.T) (domain.Message, domain.OpenRequest) {
	t.Helper()
	f.panel.receiveType(t, domain.MessageReady, nil)
	msg := f.panel.expect(t, domain.MessageOpen)
	var req domain.OpenRequest
	require.NoError(t, msg.DecodeBody(&req))
	return msg, req
}

func TestNewPresenter_LoadsHTML(t *testing.T) {
	f := newPresenterFixture(t)
	_ = f.config.Set(KeyHighlightColors, "yellow=#FFFF98")
	p := f.start(t)

	html := f.panel.getHTML()
	assert.Contains(t, html, `<meta name="highlightColors" content="yellow=#FFFF98">`)
	assert.Contains(t, html, "<title>paper.pdf</title>")
	assert.Contains(t, html, "https://panel.test/opt/pdfpanel/lib/web/viewer.mjs")
	assert.Contains(t, html, "https://panel.test/opt/pdfpanel/lib/controller.css")
	assert.Equal(t, PresenterAwaitingReady, p.State())
	assert.Nil(t, p.Status())
}

func TestNewPresenter_RequiresWorkspace(t *testing.T) {
	f := newPresenterFixture(t)
	_, err := NewPresenter(f.doc, f.panel, PresenterConfig{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPresenter_ReadyOpensWithDefaults(t *testing.T) {
	f := newPresenterFixture(t)
	p := f.start(t)

	msg, req := f.ready(t)

	assert.Equal(t, int64(1), msg.RequestID)
	assert.Equal(t, PresenterOpen, p.State())
	assert.Equal(t, "https://panel.test/docs/paper.pdf", req.Document.URL)
	assert.Equal(t, "https://panel.test/opt/pdfpanel/lib/web/cmaps", req.CMapURL)
	assert.Equal(t, "https://panel.test/opt/pdfpanel/lib/web/standard_fonts", req.StandardFontDataURL)
	assert.Equal(t, domain.Defaults{
		PageNumber:  1,
		ZoomMode:    domain.ZoomAuto,
		ScrollMode:  domain.ScrollVertical,
		SpreadMode:  domain.SpreadNone,
		OutlineSize: "200px",
		Cursor:      "select",
		SidebarView: "none",
	}, req.Defaults)
}

func TestPresenter_OpenDefaultsPrecedence(t *testing.T) {
	f := newPresenterFixture(t)
	ctx := context.Background()

	// Settings are the weakest source.
	_ = f.config.Set(KeyDefaultZoom, "page-width")
	_ = f.config.Set(KeyDefaultScrollMode, "wrapped")
	_ = f.config.Set(KeyDefaultCursor, "hand")

	// The persisted view state overrides settings.
	require.NoError(t, f.workspace.SetViewState(ctx, domain.ViewState{ZoomMode: domain.ZoomScale(1.5)}))

	// The per-document page is used regardless of the view state.
	require.NoError(t, f.workspace.SetPageNumber(ctx, testURI, 7))

	f.start(t)
	_, req := f.ready(t)

	assert.Equal(t, 7, req.Defaults.PageNumber)
	assert.Equal(t, domain.ZoomScale(1.5), req.Defaults.ZoomMode)
	assert.Equal(t, domain.ScrollWrapped, req.Defaults.ScrollMode)
	assert.Equal(t, "hand", req.Defaults.Cursor)
}

func TestPresenter_OpenResponseActivates(t *testing.T) {
	f := newPresenterFixture(t)
	p := f.start(t)

	changed := make(chan struct{}, 10)
	p.OnDidChange(func(*Presenter) { changed <- struct{}{} })

	msg, _ := f.ready(t)
	f.panel.respond(t, msg.RequestID, domain.Status{
		ScrollMode: domain.ScrollPage,
		Pages:      &domain.Pages{Current: 1, Total: 12},
	})

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
	assert.Equal(t, PresenterActive, p.State())
	require.NotNil(t, p.Status())
	assert.Equal(t, domain.ScrollPage, p.Status().ScrollMode)
	assert.Equal(t, 12, p.Status().Pages.Total)
}

func TestPresenter_StatusPersistsChangedFields(t *testing.T) {
	f := newPresenterFixture(t)
	p := f.start(t)
	ctx := context.Background()

	changes := 0
	p.OnDidChange(func(*Presenter) { changes++ })

	f.panel.receiveType(t, domain.MessageStatus, domain.Status{
		ZoomMode: domain.ZoomPageFit,
		Pages:    &domain.Pages{Current: 3, Total: 10},
	})

	assert.Equal(t, 1, changes)
	assert.Equal(t, PresenterActive, p.State())
	assert.Equal(t, 3, f.workspace.PageNumber(ctx, testURI))

	want := domain.DefaultViewState()
	want.ZoomMode = domain.ZoomPageFit
	assert.Equal(t, want, f.workspace.ViewState(ctx))

	// The same report again leaves the persisted state unchanged.
	f.panel.receiveType(t, domain.MessageStatus, domain.Status{ZoomMode: domain.ZoomPageFit})
	assert.Equal(t, want, f.workspace.ViewState(ctx))
	assert.Equal(t, 2, changes)
}

func TestPresenter_PartialStatusMerges(t *testing.T) {
	f := newPresenterFixture(t)
	p := f.start(t)
	ctx := context.Background()

	f.panel.receiveType(t, domain.MessageStatus, domain.Status{
		SpreadMode:  domain.SpreadOdd,
		ScrollMode:  domain.ScrollHorizontal,
		OutlineSize: "-180px",
	})
	f.panel.receiveType(t, domain.MessageStatus, domain.Status{ZoomMode: domain.ZoomScale(2)})

	status := p.Status()
	require.NotNil(t, status)
	assert.Equal(t, domain.SpreadOdd, status.SpreadMode)
	assert.Equal(t, domain.ScrollHorizontal, status.ScrollMode)
	assert.Equal(t, domain.ZoomScale(2), status.ZoomMode)

	assert.Equal(t, domain.ViewState{
		SpreadMode:  domain.SpreadOdd,
		ScrollMode:  domain.ScrollHorizontal,
		ZoomMode:    domain.ZoomScale(2),
		OutlineSize: "-180px",
	}, f.workspace.ViewState(ctx))
}

func TestPresenter_PartialStatusKeepsSettingsDefaults(t *testing.T) {
	f := newPresenterFixture(t)
	_ = f.config.Set(KeyDefaultZoom, "page-width")
	_ = f.config.Set(KeyDefaultScrollMode, "wrapped")

	first := f.start(t)
	f.panel.receiveType(t, domain.MessageStatus, domain.Status{SpreadMode: domain.SpreadOdd})
	first.Dispose()

	f.panel = newFakePanel("panel-2")
	f.start(t)
	_, req := f.ready(t)

	assert.Equal(t, domain.SpreadOdd, req.Defaults.SpreadMode)
	assert.Equal(t, domain.ZoomPageWidth, req.Defaults.ZoomMode)
	assert.Equal(t, domain.ScrollWrapped, req.Defaults.ScrollMode)
}

func TestPresenter_MalformedStatusIgnored(t *testing.T) {
	f := newPresenterFixture(t)
	p := f.start(t)

	f.panel.receive(t, domain.Message{Type: domain.MessageStatus, Body: json.RawMessage(`{"pages":"many"}`)})

	assert.Nil(t, p.Status())
	assert.Equal(t, PresenterAwaitingReady, p.State())
}

func TestPresenter_FindStateRoundTrip(t *testing.T) {
	f := newPresenterFixture(t)
	p := f.start(t)

	state := domain.FindState{Query: "lemma", Options: domain.FindOptions{HighlightAll: true}}
	f.panel.receiveType(t, domain.MessageFind, state)
	assert.Equal(t, state, f.workspace.FindState(context.Background()))

	require.NoError(t, p.Find())
	msg := f.panel.expect(t, domain.MessageFind)
	var sent domain.FindState
	require.NoError(t, msg.DecodeBody(&sent))
	assert.Equal(t, state, sent)
}

func TestPresenter_FocusChanges(t *testing.T) {
	f := newPresenterFixture(t)
	p := f.start(t)

	changes := 0
	p.OnDidChange(func(*Presenter) { changes++ })

	f.panel.receiveType(t, domain.MessageStatus, domain.Status{ScrollMode: domain.ScrollPage})
	require.NotNil(t, p.Status())

	f.panel.setActive(false)
	assert.Nil(t, p.Status())
	assert.Equal(t, 2, changes)

	f.panel.setActive(true)
	f.panel.expect(t, domain.MessageStatus)
	assert.Equal(t, 3, changes)
	assert.True(t, p.Active())
}

func TestPresenter_OpenPrecedesFocusAfterReady(t *testing.T) {
	f := newPresenterFixture(t)
	f.start(t)

	f.panel.receiveType(t, domain.MessageReady, nil)
	f.panel.setActive(true)

	open := f.panel.expect(t, domain.MessageOpen)
	assert.NotZero(t, open.RequestID)
	f.panel.expect(t, domain.MessageStatus)
}

func TestPresenter_DisposeOnce(t *testing.T) {
	f := newPresenterFixture(t)
	p := f.start(t)
	f.panel.receiveType(t, domain.MessageStatus, domain.Status{ScrollMode: domain.ScrollPage})

	var events []string
	p.OnDidDispose(func() { events = append(events, "dispose") })
	p.OnDidChange(func(got *Presenter) {
		events = append(events, "change")
		assert.Nil(t, got.Status())
	})

	f.panel.close()
	p.Dispose()

	assert.Equal(t, []string{"dispose", "change"}, events)
	assert.Equal(t, PresenterDisposed, p.State())
	assert.False(t, p.Active())

	// Messages after disposal are ignored.
	f.panel.receiveType(t, domain.MessageStatus, domain.Status{ScrollMode: domain.ScrollWrapped})
	assert.Nil(t, p.Status())
	assert.ErrorIs(t, p.Reload(testURI), domain.ErrChannelClosed)
}

func TestPresenter_DisposeFailsPendingSave(t *testing.T) {
	f := newPresenterFixture(t)
	p := f.start(t)

	errCh := make(chan error, 1)
	go func() {
		_, err := p.Save(context.Background())
		errCh <- err
	}()
	f.panel.expect(t, domain.MessageSave)
	p.Dispose()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, domain.ErrChannelClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("pending save did not fail")
	}
}

func TestPresenter_Save(t *testing.T) {
	tests := []struct {
		name string
		body any
		want []byte
	}{
		{"array of bytes", []int{37, 80, 68, 70}, []byte("%PDF")},
		{"byte array", domain.ByteArray("%PDF-1.7"), []byte("%PDF-1.7")},
		{"empty array", []int{}, []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPresenterFixture(t)
			p := f.start(t)

			var (
				wg   sync.WaitGroup
				data []byte
				err  error
			)
			wg.Add(1)
			go func() {
				defer wg.Done()
				data, err = p.Save(context.Background())
			}()
			msg := f.panel.expect(t, domain.MessageSave)
			f.panel.respond(t, msg.RequestID, tt.body)
			wg.Wait()

			require.NoError(t, err)
			assert.Equal(t, tt.want, data)
		})
	}
}

func TestDecodeBytes_Malformed(t *testing.T) {
	_, err := decodeBytes(json.RawMessage(`{"a":1}`))
	assert.ErrorIs(t, err, domain.ErrMalformedMessage)

	_, err = decodeBytes(json.RawMessage(`[1, 300]`))
	assert.ErrorIs(t, err, domain.ErrMalformedMessage)

	// Base64 is not a second encoding of the same bytes.
	_, err = decodeBytes(json.RawMessage(`"JVBERg=="`))
	assert.ErrorIs(t, err, domain.ErrMalformedMessage)

	_, err = decodeBytes(json.RawMessage(`null`))
	assert.ErrorIs(t, err, domain.ErrMalformedMessage)
}

func TestPresenter_SaveRejectsBase64(t *testing.T) {
	f := newPresenterFixture(t)
	p := f.start(t)

	done := make(chan error, 1)
	go func() {
		_, err := p.Save(context.Background())
		done <- err
	}()
	msg := f.panel.expect(t, domain.MessageSave)
	f.panel.respond(t, msg.RequestID, "JVBERi0xLjc=")

	select {
	case err := <-done:
		assert.ErrorIs(t, err, domain.ErrMalformedMessage)
	case <-time.After(2 * time.Second):
		t.Fatal("save did not return")
	}
}

func TestPresenter_Intents(t *testing.T) {
	f := newPresenterFixture(t)
	p := f.start(t)

	require.NoError(t, p.Reload("/backups/1.pdf"))
	msg := f.panel.expect(t, domain.MessageReload)
	assert.JSONEq(t, `{"document":{"url":"https://panel.test/backups/1.pdf"}}`, string(msg.Body))

	require.NoError(t, p.Navigate(domain.NavigateRequest{Action: domain.ActionNext}))
	msg = f.panel.expect(t, domain.MessageNavigate)
	assert.JSONEq(t, `{"action":"next"}`, string(msg.Body))

	require.NoError(t, p.View(domain.ViewRequest{
		ZoomMode:      &domain.ZoomChange{Scale: domain.ZoomScale(1.25)},
		PagesRotation: &domain.RotationChange{Delta: 90},
	}))
	msg = f.panel.expect(t, domain.MessageView)
	assert.JSONEq(t, `{"zoomMode":{"scale":1.25},"pagesRotation":{"delta":90}}`, string(msg.Body))

	color := "#FFFF98"
	require.NoError(t, p.Highlight(&color))
	msg = f.panel.expect(t, domain.MessageHighlight)
	assert.JSONEq(t, `{"color":"#FFFF98"}`, string(msg.Body))

	require.NoError(t, p.Highlight(nil))
	msg = f.panel.expect(t, domain.MessageHighlight)
	assert.JSONEq(t, `{"color":null}`, string(msg.Body))

	require.NoError(t, p.ToggleOutline())
	msg = f.panel.expect(t, domain.MessageToggle)
	assert.JSONEq(t, `{"sidebar":"outline"}`, string(msg.Body))
}

func TestPresenter_IntentValidation(t *testing.T) {
	f := newPresenterFixture(t)
	p := f.start(t)

	assert.ErrorIs(t, p.Navigate(domain.NavigateRequest{}), domain.ErrInvalidInput)
	assert.ErrorIs(t, p.Navigate(domain.NavigateRequest{Page: -2}), domain.ErrInvalidInput)
	assert.ErrorIs(t, p.View(domain.ViewRequest{SpreadMode: "triple"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, p.View(domain.ViewRequest{ScrollMode: "diagonal"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, p.View(domain.ViewRequest{ZoomMode: &domain.ZoomChange{Scale: "huge"}}), domain.ErrInvalidInput)
	f.panel.expectNone(t)
}

func TestPresenterState_String(t *testing.T) {
	assert.Equal(t, "initializing", PresenterInitializing.String())
	assert.Equal(t, "awaiting-ready", PresenterAwaitingReady.String())
	assert.Equal(t, "open", PresenterOpen.String())
	assert.Equal(t, "active", PresenterActive.String())
	assert.Equal(t, "disposed", PresenterDisposed.String())
	assert.Equal(t, "unknown", PresenterState(42).String())
}
