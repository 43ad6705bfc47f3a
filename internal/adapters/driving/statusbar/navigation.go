package statusbar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driving"
)

// Navigation command identifiers.
const (
	CommandFirstPage = "pdfjsReader.firstPage"
	CommandPrevPage  = "pdfjsReader.prevPage"
	CommandGoToPage  = "pdfjsReader.goToPage"
	CommandNextPage  = "pdfjsReader.nextPage"
	CommandLastPage  = "pdfjsReader.lastPage"
	CommandGoBack    = "pdfjsReader.goBack"
	CommandGoForward = "pdfjsReader.goForward"
)

// Navigation shows the page position and moves between pages.
type Navigation struct {
	base
	first, prev, goTo, next, last *Affordance
}

// NewNavigation creates the navigation item.
func NewNavigation(lookup driving.ActiveLookup) *Navigation {
	n := &Navigation{base: base{lookup: lookup}}
	n.first = n.affordance(CommandFirstPage, "⏮", 132)
	n.prev = n.affordance(CommandPrevPage, "◀", 131)
	n.goTo = n.affordance(CommandGoToPage, "Go to Page", 130)
	n.next = n.affordance(CommandNextPage, "▶", 129)
	n.last = n.affordance(CommandLastPage, "⏭", 128)

	n.command(CommandFirstPage, "First Page", func(string) error { return n.FirstPage() })
	n.command(CommandPrevPage, "Previous Page", func(string) error { return n.PrevPage() })
	n.command(CommandGoToPage, "Go to Page", n.GoToPage)
	n.command(CommandNextPage, "Next Page", func(string) error { return n.NextPage() })
	n.command(CommandLastPage, "Last Page", func(string) error { return n.LastPage() })
	n.command(CommandGoBack, "Go Back", func(string) error { return n.GoBack() })
	n.command(CommandGoForward, "Go Forward", func(string) error { return n.GoForward() })
	return n
}

// Show displays "current of total" when the status carries pages.
func (n *Navigation) Show(status domain.Status) {
	if status.Pages == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.goTo.Text = fmt.Sprintf("%d of %d", status.Pages.Current, status.Pages.Total)
	n.setVisible(true)
}

// FirstPage moves to the first page.
func (n *Navigation) FirstPage() error {
	return n.navigate(domain.NavigateRequest{Action: domain.ActionFirst})
}

// PrevPage moves to the previous page.
func (n *Navigation) PrevPage() error {
	return n.navigate(domain.NavigateRequest{Action: domain.ActionPrev})
}

// NextPage moves to the next page.
func (n *Navigation) NextPage() error {
	return n.navigate(domain.NavigateRequest{Action: domain.ActionNext})
}

// LastPage moves to the last page.
func (n *Navigation) LastPage() error {
	return n.navigate(domain.NavigateRequest{Action: domain.ActionLast})
}

// GoBack returns to the previous position in history.
func (n *Navigation) GoBack() error {
	return n.navigate(domain.NavigateRequest{Action: domain.ActionGoBack})
}

// GoForward moves forward in history.
func (n *Navigation) GoForward() error {
	return n.navigate(domain.NavigateRequest{Action: domain.ActionGoForward})
}

// GoToPage moves to the page number in input. Empty input is ignored.
func (n *Navigation) GoToPage(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	page, err := strconv.Atoi(input)
	if err != nil || page < 1 {
		return fmt.Errorf("page %q: %w", input, domain.ErrInvalidInput)
	}
	return n.navigate(domain.NavigateRequest{Page: page})
}
