package pipeline

import (
	"context"
	"errors"

	"github.com/nao1215/fragnav/internal/fragment"
	"github.com/nao1215/fragnav/internal/model"
)

// fakeHost is a test helper that implements the Host interface.
type fakeHost struct {
	factories map[string]func() (model.Page, error)

	current   model.Page
	currentID string

	placed   []model.NavigationEvent
	uris     []string
	problems []model.Problem
	log      *[]string

	instantiations int
	placeErr       error

	// confirm answers confirmations; nil keeps them pending.
	confirm *bool
	proceed func(context.Context) error
	cancel  func()
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		factories: map[string]func() (model.Page, error){
			"HomePage":   func() (model.Page, error) { return &testPage{id: "HomePage"}, nil },
			"TicketPage": func() (model.Page, error) { return &testPage{id: "TicketPage"}, nil },
		},
	}
}

func (h *fakeHost) WindowID() string {
	return "window-1"
}

func (h *fakeHost) Instantiate(pageID string) (model.Page, error) {
	h.instantiations++
	f, ok := h.factories[pageID]
	if !ok {
		return nil, model.NewConfigurationError("resolve", pageID, "page is not registered")
	}
	return f()
}

func (h *fakeHost) CurrentPage() (model.Page, string) {
	return h.current, h.currentID
}

func (h *fakeHost) Place(_ context.Context, page model.Page, event model.NavigationEvent) error {
	if h.placeErr != nil {
		return h.placeErr
	}
	if h.log != nil {
		*h.log = append(*h.log, "placement")
	}
	h.current = page
	h.currentID = event.PageID
	h.placed = append(h.placed, event)
	return nil
}

func (h *fakeHost) UpdateURI(pageID string, params fragment.Params) error {
	uri := pageID
	if !params.IsEmpty() {
		uri += "/" + params.String()
	}
	h.uris = append(h.uris, uri)
	return nil
}

func (h *fakeHost) Confirm(ctx context.Context, _ string, proceed func(context.Context) error, cancel func()) error {
	if h.confirm == nil {
		h.proceed = proceed
		h.cancel = cancel
		return nil
	}
	if *h.confirm {
		return proceed(ctx)
	}
	cancel()
	return nil
}

func (h *fakeHost) ReportProblem(_ context.Context, problem model.Problem) {
	h.problems = append(h.problems, problem)
}

// testPage records the notifications it receives.
type testPage struct {
	id       string
	warning  string
	ticket   string
	count    *int64
	changes  []model.NavigationEvent
	validate string
}

func (p *testPage) NavigationWarning() string {
	return p.warning
}

func (p *testPage) ParamChanged(_ context.Context, event model.NavigationEvent) {
	p.changes = append(p.changes, event)
}

func (p *testPage) ValidateParams(fragment.Params) string {
	return p.validate
}

var errBoom = errors.New("boom")

func boolPtr(v bool) *bool {
	return &v
}
