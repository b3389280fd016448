package navigator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/nao1215/fragnav/internal/fragment"
	"github.com/nao1215/fragnav/internal/model"
	"github.com/nao1215/fragnav/internal/param"
	"github.com/nao1215/fragnav/internal/pipeline"
	"github.com/nao1215/fragnav/internal/registry"
)

// Navigator errors.
var (
	// ErrNoCurrentPage is returned by operations that need a placed page
	// before the first placement.
	ErrNoCurrentPage = errors.New("no page is displayed")

	// ErrNothingPending is returned when a navigation warning is answered
	// while none is pending.
	ErrNothingPending = errors.New("no navigation is waiting for confirmation")
)

// InvalidURLMessage is the message shown when a fragment names an unknown page.
const InvalidURLMessage = "Invalid URL"

// Navigator is one window. It reacts to fragment changes, runs navigations
// through the interceptor chain and keeps the displayed page.
//
// Navigations of one window are serialized; a Navigator is safe for
// concurrent use but navigations do not overlap. The window lock is held
// while the interceptor chain runs, so pages and listeners notified during
// a navigation must not call back into the same Navigator.
type Navigator struct {
	app    *Application
	id     string
	layout Layout
	dialog Dialog
	logger *slog.Logger

	// mu serializes navigations and guards the fields below.
	mu        sync.Mutex
	current       model.Page
	currentID     string
	currentParams fragment.Params
	fragment      string
	pending   *pendingConfirmation
	problems  []model.Problem

	placements atomic.Int64
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithWindowID sets the window identifier. A random UUID is used by default.
func WithWindowID(id string) Option {
	return func(n *Navigator) {
		n.id = id
	}
}

// WithWindowLayout overrides the application layout for this window.
func WithWindowLayout(layout Layout) Option {
	return func(n *Navigator) {
		n.layout = layout
	}
}

// WithWindowDialog overrides the application dialog for this window.
func WithWindowDialog(dialog Dialog) Option {
	return func(n *Navigator) {
		n.dialog = dialog
	}
}

// NewNavigator creates a window showing nothing yet. Call Init to place the
// first page.
func (a *Application) NewNavigator(opts ...Option) *Navigator {
	n := &Navigator{
		app:    a,
		dialog: a.dialog,
	}

	for _, opt := range opts {
		opt(n)
	}

	if n.id == "" {
		n.id = uuid.NewString()
	}
	if n.layout == nil {
		n.layout = a.layout()
	}
	n.logger = a.logger.With("window", n.id)

	return n
}

// ID returns the window identifier.
func (n *Navigator) ID() string {
	return n.id
}

// Init places the first page of the window. An empty fragment shows the
// home page without parameters; anything else is handled as a fragment change.
func (n *Navigator) Init(ctx context.Context, uri string) (*pipeline.Invocation, error) {
	if strings.TrimPrefix(uri, fragment.Hash) != "" {
		return n.FragmentChanged(ctx, uri)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	home := n.app.registry.Home()
	n.logger.Debug("activating home page", "page", home.ID)

	return n.run(ctx, pipeline.Request{PageID: home.ID})
}

// FragmentChanged handles a fragment typed by the user, followed through a
// link, or restored by the browser history.
//
// The page is resolved by name. An unknown name is reported as an invalid
// URL and the home page is shown without parameters; a fragment without a
// name ("/a/b") addresses the home page with its own parameters. When the
// resolved page is the displayed one, the displayed instance is updated in
// place instead of being recreated.
func (n *Navigator) FragmentChanged(ctx context.Context, uri string) (*pipeline.Invocation, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	raw := strings.TrimPrefix(uri, fragment.Hash)
	n.fragment = raw

	d, params, found := n.resolve(raw)
	req := pipeline.Request{PageID: d.ID, Params: params}

	if !found {
		n.report(ctx, model.Problem{
			Message:  InvalidURLMessage,
			Detail:   fmt.Sprintf("No page named '%s'.", n.app.codec.Parse(raw).PageName),
			Fragment: raw,
		})
		req.NeedsURIUpdate = true
	}

	if n.current != nil && n.currentID == d.ID {
		req.Page = n.current
	}

	return n.run(ctx, req)
}

// NavigateTo shows a fresh instance of pageID with params and rewrites the
// visible fragment. An unknown pageID is a *model.ConfigurationError.
func (n *Navigator) NavigateTo(ctx context.Context, pageID string, params fragment.Params) (*pipeline.Invocation, error) {
	if _, err := n.app.registry.ResolveByID(pageID); err != nil {
		return nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	return n.run(ctx, pipeline.Request{PageID: pageID, Params: params, NeedsURIUpdate: true})
}

// Navigate follows a link built with param.NewLink.
func (n *Navigator) Navigate(ctx context.Context, link *param.Link) (*pipeline.Invocation, error) {
	params, err := n.app.binder.LinkParams(link)
	if err != nil {
		return nil, err
	}
	return n.NavigateTo(ctx, link.PageID(), params)
}

// ReloadCurrentPage shows a fresh instance of the displayed page.
// The parameters come from the visible fragment when it addresses that
// page, otherwise the page is reloaded with the parameters it was placed
// with and the fragment is rewritten to match. While the exception page is displayed, the visible fragment is
// resolved again.
func (n *Navigator) ReloadCurrentPage(ctx context.Context) (*pipeline.Invocation, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current == nil {
		return nil, ErrNoCurrentPage
	}

	d, params, found := n.resolve(n.fragment)
	if n.currentID == model.ExceptionPageID {
		return n.run(ctx, pipeline.Request{PageID: d.ID, Params: params})
	}
	req := pipeline.Request{PageID: n.currentID, Params: params}
	if !found || d.ID != n.currentID {
		req.Params = n.currentParams
		req.NeedsURIUpdate = true
	}
	return n.run(ctx, req)
}

// SetURIParams rewrites the visible fragment with the displayed page and
// params. Nothing is notified and no navigation starts. The exception page
// has no fragment of its own and counts as no page.
func (n *Navigator) SetURIParams(params fragment.Params) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.hasRegisteredPage() {
		return ErrNoCurrentPage
	}
	return n.setURI(n.currentID, params)
}

// SetURIParamsFromPage rewrites the visible fragment from the current slot
// values of the displayed page.
func (n *Navigator) SetURIParamsFromPage() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.hasRegisteredPage() {
		return ErrNoCurrentPage
	}

	params, err := n.app.binder.ParamsOf(n.currentID, n.current)
	if err != nil {
		return err
	}
	return n.setURI(n.currentID, params)
}

// PendingConfirmation returns the warning of a navigation waiting for the
// user, if any.
func (n *Navigator) PendingConfirmation() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.pending == nil {
		return "", false
	}
	return n.pending.message, true
}

// ConfirmNavigation resumes the navigation waiting for confirmation.
func (n *Navigator) ConfirmNavigation(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	p := n.pending
	if p == nil {
		return ErrNothingPending
	}
	n.pending = nil
	return p.proceed(ctx)
}

// CancelNavigation discards the navigation waiting for confirmation.
func (n *Navigator) CancelNavigation() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	p := n.pending
	if p == nil {
		return ErrNothingPending
	}
	n.pending = nil
	p.cancel()
	return nil
}

// CurrentPage returns the displayed page and its identifier.
func (n *Navigator) CurrentPage() (model.Page, string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.current, n.currentID
}

// Fragment returns the visible fragment without the leading "#".
func (n *Navigator) Fragment() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.fragment
}

// URI returns the visible fragment with the leading "#".
func (n *Navigator) URI() string {
	return fragment.Hash + n.Fragment()
}

// Problems returns the problems reported in this window, oldest first.
func (n *Navigator) Problems() []model.Problem {
	n.mu.Lock()
	defer n.mu.Unlock()

	return slices.Clone(n.problems)
}

// Placements returns the number of pages placed in this window.
// It can be read while a navigation runs.
func (n *Navigator) Placements() int64 {
	return n.placements.Load()
}

// Render returns the window content.
func (n *Navigator) Render() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.layout.Render()
}

// hasRegisteredPage reports whether a registered page is displayed.
// n.mu must be held.
func (n *Navigator) hasRegisteredPage() bool {
	return n.current != nil && n.currentID != model.ExceptionPageID
}

// resolve maps a fragment to a page and its parameters. found is false when
// the fragment names an unknown page; the home page is returned then.
func (n *Navigator) resolve(raw string) (registry.Descriptor, fragment.Params, bool) {
	split := n.app.codec.Parse(raw)
	if split.AddressesHome() {
		return n.app.registry.Home(), split.Params, true
	}

	d, ok := n.app.registry.ResolveByName(split.PageName)
	if !ok {
		return n.app.registry.Home(), fragment.Params{}, false
	}
	return d, split.Params, true
}

// run starts an invocation. n.mu must be held.
func (n *Navigator) run(ctx context.Context, req pipeline.Request) (*pipeline.Invocation, error) {
	// A navigation waiting for confirmation is abandoned by a new one.
	n.pending = nil

	inv, err := n.app.pipeline.Run(ctx, &window{n}, req)
	if err != nil {
		return inv, err
	}

	n.logger.Debug("navigation finished",
		"page", inv.PageID(),
		"state", inv.State().String(),
	)
	return inv, nil
}

// setURI rewrites the visible fragment. n.mu must be held.
func (n *Navigator) setURI(pageID string, params fragment.Params) error {
	d, err := n.app.registry.ResolveByID(pageID)
	if err != nil {
		return err
	}
	n.fragment = n.app.codec.Build(d, params, false)
	return nil
}

// report records and displays a problem. n.mu must be held.
func (n *Navigator) report(ctx context.Context, problem model.Problem) {
	if problem.Fragment == "" {
		problem.Fragment = n.fragment
	}
	n.problems = append(n.problems, problem)
	n.app.notify(ctx, problem)
}
