package navigator

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/fragnav/internal/model"
	"github.com/nao1215/fragnav/internal/param"
	"github.com/nao1215/fragnav/internal/registry"
)

var errBoom = errors.New("boom")

// product is an entity referenced from fragments.
type product struct {
	key string
}

func (p *product) EntityKey() string {
	return p.key
}

// catalog finds products 34 and 35.
var catalog = param.EntityFinderFunc(func(_ context.Context, typeTag, key string) (any, bool, error) {
	if typeTag != "product" {
		return nil, false, nil
	}
	switch key {
	case "34", "35":
		return &product{key: key}, true, nil
	default:
		return nil, false, nil
	}
})

type welcomePage struct {
	changes []model.NavigationEvent
}

func (p *welcomePage) Render() string {
	return "welcome"
}

func (p *welcomePage) ParamChanged(_ context.Context, event model.NavigationEvent) {
	p.changes = append(p.changes, event)
}

type ticketPage struct {
	ticket  string
	changes int
}

func (p *ticketPage) Render() string {
	return "ticket " + p.ticket
}

func (p *ticketPage) ParamChanged(context.Context, model.NavigationEvent) {
	p.changes++
}

type productPage struct {
	product *product
	userID  *int64
}

func (p *productPage) Title() string {
	return "product " + p.product.key
}

type editorPage struct {
	warning string
}

func (p *editorPage) NavigationWarning() string {
	return p.warning
}

func (p *editorPage) Render() string {
	return "editor"
}

type seoPage struct{}

// testPages registers one page per behavior under test.
func testPages() []registry.Descriptor {
	return []registry.Descriptor{
		{
			ID:  "WelcomePage",
			New: func() (model.Page, error) { return &welcomePage{}, nil },
		},
		{
			ID:  "TicketPage",
			New: func() (model.Page, error) { return &ticketPage{}, nil },
			Params: []param.Spec{
				param.Positional(0, param.String(func(p *ticketPage) *string { return &p.ticket })).Require(),
			},
		},
		{
			ID:  "ProductPage",
			New: func() (model.Page, error) { return &productPage{}, nil },
			Params: []param.Spec{
				param.Positional(0, param.EntityRef("product", func(p *productPage) **product { return &p.product })).Require(),
				param.Named("userId", param.OptionalInt64(func(p *productPage) **int64 { return &p.userID })),
			},
		},
		{
			ID:  "EditorPage",
			New: func() (model.Page, error) { return &editorPage{warning: "You have unsaved changes."}, nil },
		},
		{
			ID:  "BrokenPage",
			New: func() (model.Page, error) { return nil, errBoom },
		},
		{
			ID:        "SeoPage",
			Crawlable: true,
			New:       func() (model.Page, error) { return &seoPage{}, nil },
		},
	}
}

func newTestApp(t *testing.T, opts ...AppOption) *Application {
	t.Helper()

	reg, err := registry.New(testPages())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewApplication(reg, append([]AppOption{WithEntityFinder(catalog)}, opts...)...)
}

// recordingListener records page change events.
type recordingListener struct {
	events []model.NavigationEvent
}

func (r *recordingListener) PageChanged(_ context.Context, event model.NavigationEvent) {
	r.events = append(r.events, event)
}

// fakeRecorder is a pipeline.HistoryRecorder.
type fakeRecorder struct {
	events []model.NavigationEvent
}

func (f *fakeRecorder) RecordNavigation(_ context.Context, event model.NavigationEvent) error {
	f.events = append(f.events, event)
	return nil
}
