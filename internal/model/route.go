package model

import "time"

// RouteTable lists every registered page.
type RouteTable struct {
	// Routes in registration order.
	Routes []Route `json:"routes"`

	// GeneratedAt is when the table was built.
	GeneratedAt time.Time `json:"generated_at"`
}

// Route describes one registered page.
type Route struct {
	PageID    string      `json:"page_id"`
	URIName   string      `json:"uri_name"`
	Home      bool        `json:"home"`
	Crawlable bool        `json:"crawlable"`
	Pattern   string      `json:"pattern"`
	Slots     []RouteSlot `json:"slots,omitempty"`
}

// RouteSlot describes one declared parameter slot.
type RouteSlot struct {
	// Label is "#0" for positional slots, the name for named ones.
	Label    string `json:"label"`
	Kind     string `json:"kind"`
	Required bool   `json:"required"`
}

// CrawlableCount returns the number of crawlable routes.
func (t *RouteTable) CrawlableCount() int {
	n := 0
	for _, r := range t.Routes {
		if r.Crawlable {
			n++
		}
	}
	return n
}

// Resolution is the outcome of resolving one fragment in a fresh window.
type Resolution struct {
	// Fragment is the fragment that was resolved.
	Fragment string `json:"fragment"`

	// PageID is the page displayed afterwards, empty when nothing was placed.
	PageID string `json:"page_id,omitempty"`

	// Params are the parameters the page was placed with.
	Params string `json:"params,omitempty"`

	// State is the final state of the interceptor chain.
	State string `json:"state"`

	// URI is the visible fragment afterwards.
	URI string `json:"uri"`

	// Problems are the messages shown to the user.
	Problems []string `json:"problems,omitempty"`

	// Error is the error that aborted the navigation, if any.
	Error string `json:"error,omitempty"`

	// Content is the rendered window content.
	Content string `json:"content,omitempty"`

	// Depth is the number of links followed from the start of a crawl.
	Depth int `json:"depth,omitempty"`

	// Links are the fragments the rendered content links to, set by crawls.
	Links []string `json:"links,omitempty"`
}

// Succeeded reports whether a page other than the exception page was placed
// without problems.
func (r *Resolution) Succeeded() bool {
	return r.Error == "" && len(r.Problems) == 0 && r.PageID != "" && r.PageID != ExceptionPageID
}

// Outcome names how a resolution ended.
func (r *Resolution) Outcome() string {
	switch {
	case r.PageID == ExceptionPageID:
		return OutcomeException
	case r.State == "suspended":
		return OutcomeSuspended
	case len(r.Problems) > 0:
		return OutcomeProblem
	case r.Error != "" || r.PageID == "":
		return OutcomeError
	default:
		return OutcomeOK
	}
}

// Resolution outcomes.
const (
	// OutcomeOK means a page was placed without problems.
	OutcomeOK = "ok"

	// OutcomeProblem means the user was shown a problem, such as an unknown
	// page name or an invalid parameter.
	OutcomeProblem = "problem"

	// OutcomeException means the page could not be created and the
	// exception page is shown.
	OutcomeException = "exception"

	// OutcomeSuspended means the navigation waits for a confirmation.
	OutcomeSuspended = "suspended"

	// OutcomeError means the navigation failed without telling the user.
	OutcomeError = "error"
)

// Outcomes lists the resolution outcomes in report order.
var Outcomes = []string{OutcomeOK, OutcomeProblem, OutcomeException, OutcomeSuspended, OutcomeError}
