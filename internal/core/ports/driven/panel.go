package driven

import "github.com/custodia-labs/pdfpanel/internal/core/domain"

// Panel is an isolated rendering context hosting the embedded viewer.
// The host can only reach it by posting messages.
type Panel interface {
	// ID identifies the panel for logging.
	ID() string

	// PostMessage posts msg across the isolation boundary.
	// Delivery is FIFO per panel and not acknowledged.
	PostMessage(msg domain.Message) error

	// SetHTML loads the panel page.
	SetHTML(html string) error

	// SetResourceRoots restricts the local paths the panel may load.
	SetResourceRoots(roots []string)

	// AsResourceURL converts a local path into a URL the panel can load.
	AsResourceURL(path string) string

	// Active reports whether the panel currently has input focus.
	Active() bool

	// OnDidReceiveMessage registers a handler for raw inbound messages.
	OnDidReceiveMessage(fn func(raw []byte)) (unsubscribe func())

	// OnDidChangeViewState registers a handler for focus changes.
	OnDidChangeViewState(fn func(active bool)) (unsubscribe func())

	// OnDidDispose registers a handler called once when the panel closes.
	OnDidDispose(fn func()) (unsubscribe func())
}
