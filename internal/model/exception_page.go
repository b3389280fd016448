package model

import (
	"errors"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/fragnav/internal/fragment"
)

// ExceptionPageID is the identifier under which an ExceptionPage is placed.
// It is not a registered page, so the next navigation always replaces it.
const ExceptionPageID = "exception"

// ExceptionPage is placed instead of a page whose construction failed.
// It carries what is needed to debug the failure.
type ExceptionPage struct {
	// PageID is the page that could not be constructed.
	PageID string

	// Params are the parameters of the failed navigation.
	Params fragment.Params

	// Err is the construction error.
	Err error

	// Trace is the rendered failure trace.
	Trace string
}

// NewExceptionPage creates the page displayed for a construction failure.
func NewExceptionPage(err *PageInstantiationError) *ExceptionPage {
	return &ExceptionPage{
		PageID: err.PageID,
		Params: err.Params,
		Err:    err,
		Trace:  err.Trace,
	}
}

// Title returns the page title.
func (p *ExceptionPage) Title() string {
	return "Error while displaying page " + p.PageID
}

// Render renders the page as an HTML fragment. Every dynamic value is escaped.
func (p *ExceptionPage) Render() string {
	var sb strings.Builder

	sb.WriteString("<div class=\"exception-page\">\n")
	sb.WriteString("<h1>")
	sb.WriteString(html.EscapeString(p.Title()))
	sb.WriteString("</h1>\n")

	sb.WriteString("<p>Parameters: <code>")
	sb.WriteString(html.EscapeString(p.Params.String()))
	sb.WriteString("</code></p>\n")

	if p.Err != nil {
		cause := p.Err
		var pie *PageInstantiationError
		if errors.As(p.Err, &pie) && pie.Err != nil {
			cause = pie.Err
		}
		sb.WriteString("<p>")
		sb.WriteString(html.EscapeString(cause.Error()))
		sb.WriteString("</p>\n")
	}

	if p.Trace != "" {
		sb.WriteString("<pre>")
		sb.WriteString(html.EscapeString(p.Trace))
		sb.WriteString("</pre>\n")
	}

	sb.WriteString("</div>")
	return sb.String()
}
