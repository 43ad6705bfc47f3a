package services

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driven"
)

var _ driven.Panel = (*fakePanel)(nil)

// fakePanel is a scripted panel: posted messages are queued for the test
// and inbound messages are injected with receive.
type fakePanel struct {
	id string

	mu       sync.Mutex
	active   bool
	html     string
	roots    []string
	disposed bool

	posted   chan domain.Message
	messages emitter[[]byte]
	views    emitter[bool]
	disposes emitter[struct{}]
}

func newFakePanel(id string) *fakePanel {
	return &fakePanel{id: id, posted: make(chan domain.Message, 100)}
}

func (f *fakePanel) ID() string { return f.id }

func (f *fakePanel) PostMessage(msg domain.Message) error {
	f.mu.Lock()
	disposed := f.disposed
	f.mu.Unlock()
	if disposed {
		return errors.New("panel disposed")
	}
	f.posted <- msg
	return nil
}

func (f *fakePanel) SetHTML(html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.html = html
	return nil
}

func (f *fakePanel) SetResourceRoots(roots []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roots = roots
}

func (f *fakePanel) AsResourceURL(path string) string {
	return "https://panel.test" + filepath.ToSlash(path)
}

func (f *fakePanel) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active && !f.disposed
}

func (f *fakePanel) OnDidReceiveMessage(fn func([]byte)) func() { return f.messages.subscribe(fn) }
func (f *fakePanel) OnDidChangeViewState(fn func(bool)) func() { return f.views.subscribe(fn) }
func (f *fakePanel) OnDidDispose(fn func()) func() {
	return f.disposes.subscribe(func(struct{}) { fn() })
}

func (f *fakePanel) getHTML() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.html
}

func (f *fakePanel) getRoots() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.roots
}

// receive injects a panel→host message.
func (f *fakePanel) receive(t *testing.T, msg domain.Message) {
	t.Helper()
	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	f.messages.fire(raw)
}

func (f *fakePanel) receiveType(t *testing.T, msgType string, body any) {
	t.Helper()
	msg, err := domain.NewMessage(msgType, body)
	require.NoError(t, err)
	f.receive(t, msg)
}

// respond answers a call.
func (f *fakePanel) respond(t *testing.T, requestID int64, body any) {
	t.Helper()
	msg, err := domain.NewMessage(domain.MessageResponse, body)
	require.NoError(t, err)
	msg.RequestID = requestID
	f.receive(t, msg)
}

func (f *fakePanel) setActive(active bool) {
	f.mu.Lock()
	f.active = active
	f.mu.Unlock()
	f.views.fire(active)
}

func (f *fakePanel) close() {
	f.mu.Lock()
	f.disposed = true
	f.mu.Unlock()
	f.disposes.fire(struct{}{})
}

// next returns the next posted message.
func (f *fakePanel) next(t *testing.T) domain.Message {
	t.Helper()
	select {
	case msg := <-f.posted:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("panel %s: timed out waiting for a posted message", f.id)
		return domain.Message{}
	}
}

// expect returns the next posted message and checks its type.
func (f *fakePanel) expect(t *testing.T, msgType string) domain.Message {
	t.Helper()
	msg := f.next(t)
	require.Equal(t, msgType, msg.Type)
	return msg
}

// expectNone asserts nothing was posted within a short window.
func (f *fakePanel) expectNone(t *testing.T) {
	t.Helper()
	select {
	case msg := <-f.posted:
		t.Fatalf("panel %s: unexpected %q message", f.id, msg.Type)
	case <-time.After(50 * time.Millisecond):
	}
}
