package navigator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/fragnav/internal/model"
)

// ErrPageAttached is returned when a page is attached while another one is
// still attached.
var ErrPageAttached = errors.New("another page is still attached")

// Layout assembles the content of a window around its page slot.
// At most one page is attached at a time.
type Layout interface {
	// Attach puts page in the page slot. It fails with ErrPageAttached when
	// the slot is occupied.
	Attach(page model.Page) error

	// Detach empties the page slot and returns the page that was attached.
	Detach() model.Page

	// Attached returns the attached page, nil when the slot is empty.
	Attached() model.Page

	// Render returns the window content.
	Render() string
}

// PlainLayout shows the page slot only.
type PlainLayout struct {
	page model.Page
}

// NewPlainLayout creates an empty PlainLayout.
func NewPlainLayout() *PlainLayout {
	return &PlainLayout{}
}

// Attach implements Layout.
func (l *PlainLayout) Attach(page model.Page) error {
	if l.page != nil {
		return ErrPageAttached
	}
	l.page = page
	return nil
}

// Detach implements Layout.
func (l *PlainLayout) Detach() model.Page {
	page := l.page
	l.page = nil
	return page
}

// Attached implements Layout.
func (l *PlainLayout) Attached() model.Page {
	return l.page
}

// Render implements Layout.
func (l *PlainLayout) Render() string {
	return renderPage(l.page)
}

// HeaderFooterLayout shows a header, the page slot and a footer.
type HeaderFooterLayout struct {
	header string
	footer string
	slot   PlainLayout
}

// NewHeaderFooterLayout creates an empty HeaderFooterLayout.
func NewHeaderFooterLayout(header, footer string) *HeaderFooterLayout {
	return &HeaderFooterLayout{header: header, footer: footer}
}

// Attach implements Layout.
func (l *HeaderFooterLayout) Attach(page model.Page) error {
	return l.slot.Attach(page)
}

// Detach implements Layout.
func (l *HeaderFooterLayout) Detach() model.Page {
	return l.slot.Detach()
}

// Attached implements Layout.
func (l *HeaderFooterLayout) Attached() model.Page {
	return l.slot.Attached()
}

// Render implements Layout.
func (l *HeaderFooterLayout) Render() string {
	parts := make([]string, 0, 3)
	if l.header != "" {
		parts = append(parts, l.header)
	}
	parts = append(parts, l.slot.Render())
	if l.footer != "" {
		parts = append(parts, l.footer)
	}
	return strings.Join(parts, "\n")
}

// renderPage renders the page with the richest capability it offers.
func renderPage(page model.Page) string {
	switch p := page.(type) {
	case nil:
		return ""
	case model.Renderer:
		return p.Render()
	case model.Titled:
		return p.Title()
	default:
		return fmt.Sprintf("%T", p)
	}
}
