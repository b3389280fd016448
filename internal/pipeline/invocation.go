package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/nao1215/fragnav/internal/fragment"
	"github.com/nao1215/fragnav/internal/model"
)

// State is the lifecycle state of an Invocation.
type State int

const (
	// StatePending means Invoke was never called.
	StatePending State = iota

	// StateRunning means an interceptor is running.
	StateRunning

	// StatePlacing means the terminal placement step is running.
	StatePlacing

	// StatePlaced means a page was placed. It is final.
	StatePlaced

	// StateSuspended means an interceptor returned without continuing.
	// Invoke resumes at the next interceptor.
	StateSuspended

	// StateAborted means the navigation was discarded. It is final.
	StateAborted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StatePlacing:
		return "placing"
	case StatePlaced:
		return "placed"
	case StateSuspended:
		return "suspended"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Invocation is one navigation traveling through the interceptor chain.
// It is owned by a single navigation and must not be shared.
type Invocation struct {
	pipeline *Pipeline
	host     Host

	pageID         string
	params         fragment.Params
	needsURIUpdate bool

	// page is created lazily; reused is true when it was supplied by the caller.
	page   model.Page
	reused bool

	state  State
	cursor int

	event     model.NavigationEvent
	err       error
	exception *model.PageInstantiationError
}

// PageID returns the target page.
func (inv *Invocation) PageID() string {
	return inv.pageID
}

// SetPageID redirects the invocation to another page. An instance created
// or supplied for the previous target is dropped.
func (inv *Invocation) SetPageID(pageID string) {
	if pageID == inv.pageID {
		return
	}
	inv.pageID = pageID
	inv.page = nil
	inv.reused = false
}

// Params returns the target parameters.
func (inv *Invocation) Params() fragment.Params {
	return inv.params
}

// SetParams replaces the target parameters.
func (inv *Invocation) SetParams(params fragment.Params) {
	inv.params = params
}

// NeedsURIUpdate reports whether the visible fragment is rewritten after placement.
func (inv *Invocation) NeedsURIUpdate() bool {
	return inv.needsURIUpdate
}

// SetNeedsURIUpdate changes whether the visible fragment is rewritten.
func (inv *Invocation) SetNeedsURIUpdate(v bool) {
	inv.needsURIUpdate = v
}

// Reused reports whether the invocation updates an already placed instance
// instead of a fresh one.
func (inv *Invocation) Reused() bool {
	return inv.reused
}

// HasPage reports whether the target instance exists already.
func (inv *Invocation) HasPage() bool {
	return inv.page != nil
}

// Host returns the window the invocation places its page in.
func (inv *Invocation) Host() Host {
	return inv.host
}

// Logger returns the pipeline logger.
func (inv *Invocation) Logger() *slog.Logger {
	return inv.pipeline.logger
}

// State returns the lifecycle state.
func (inv *Invocation) State() State {
	return inv.state
}

// Index returns the index of the next interceptor to run.
func (inv *Invocation) Index() int {
	return inv.cursor
}

// Placed reports whether a page was placed, possibly an exception page.
func (inv *Invocation) Placed() bool {
	return inv.state == StatePlaced
}

// Event returns the event of the placement, zero before it.
func (inv *Invocation) Event() model.NavigationEvent {
	return inv.event
}

// Err returns why the invocation was aborted, nil when it was not or when
// no reason was given.
func (inv *Invocation) Err() error {
	return inv.err
}

// Exception returns the construction failure that replaced the target page
// with an exception page, nil otherwise.
func (inv *Invocation) Exception() *model.PageInstantiationError {
	return inv.exception
}

// Abort discards the navigation. It never resumes.
func (inv *Invocation) Abort() {
	inv.AbortWith(nil)
}

// AbortWith discards the navigation and records why.
func (inv *Invocation) AbortWith(err error) {
	if inv.state == StatePlaced {
		return
	}
	inv.state = StateAborted
	inv.err = err
	inv.Logger().Debug("invocation aborted",
		"window", inv.host.WindowID(),
		"page", inv.pageID,
		"reason", err,
	)
}

// Page returns the target instance, creating it on first use.
//
// When construction fails the invocation places an exception page right
// away, skipping the rest of the chain, and returns the
// *model.PageInstantiationError. Interceptors should return it as is; Invoke
// treats it as recovered.
func (inv *Invocation) Page(ctx context.Context) (model.Page, error) {
	if inv.page != nil {
		return inv.page, nil
	}

	page, err := inv.instantiate()
	if err != nil {
		var perr *model.PageInstantiationError
		if errors.As(err, &perr) {
			if placeErr := inv.placeException(ctx, perr); placeErr != nil {
				return nil, errors.Join(err, placeErr)
			}
		}
		return nil, err
	}

	inv.page = page
	return page, nil
}

// Resume continues a suspended invocation at the next interceptor.
func (inv *Invocation) Resume(ctx context.Context) error {
	if inv.state != StateSuspended {
		return ErrNotSuspended
	}
	return inv.Invoke(ctx)
}

// Invoke runs the next interceptor, or the terminal placement once every
// interceptor has run.
func (inv *Invocation) Invoke(ctx context.Context) error {
	if inv.state == StatePlaced || inv.state == StateAborted {
		return ErrInvocationFinished
	}
	if err := ctx.Err(); err != nil {
		inv.AbortWith(err)
		return err
	}

	if inv.cursor >= len(inv.pipeline.interceptors) {
		return inv.place(ctx)
	}

	i := inv.cursor
	ic := inv.pipeline.interceptors[i]
	inv.cursor++
	inv.state = StateRunning

	inv.Logger().Debug("entering interceptor",
		"interceptor", ic.Name(),
		"index", i,
		"window", inv.host.WindowID(),
		"page", inv.pageID,
	)

	if err := ic.Intercept(ctx, inv); err != nil {
		if inv.state == StatePlaced && errors.Is(err, model.ErrPageInstantiation) {
			return nil
		}
		if inv.state != StatePlaced {
			inv.state = StateAborted
			inv.err = err
		}
		inv.Logger().Error("interceptor failed",
			"interceptor", ic.Name(),
			"window", inv.host.WindowID(),
			"page", inv.pageID,
			"error", err,
		)
		return err
	}

	if inv.state == StateRunning && inv.cursor == i+1 {
		inv.state = StateSuspended
		inv.Logger().Debug("interceptor suspended",
			"interceptor", ic.Name(),
			"window", inv.host.WindowID(),
			"page", inv.pageID,
		)
	}

	return nil
}

// place is the terminal step.
func (inv *Invocation) place(ctx context.Context) error {
	inv.state = StatePlacing

	page, err := inv.Page(ctx)
	if err != nil {
		if inv.state == StatePlaced && errors.Is(err, model.ErrPageInstantiation) {
			return nil
		}
		inv.state = StateAborted
		inv.err = err
		return err
	}

	_, currentID := inv.host.CurrentPage()
	event := model.NavigationEvent{
		WindowID:    inv.host.WindowID(),
		PageID:      inv.pageID,
		Params:      inv.params,
		PageChanged: currentID != inv.pageID,
	}

	if err := inv.host.Place(ctx, page, event); err != nil {
		inv.state = StateAborted
		inv.err = err
		return fmt.Errorf("failed to place page %s: %w", inv.pageID, err)
	}
	inv.event = event
	inv.state = StatePlaced

	if inv.needsURIUpdate {
		if err := inv.host.UpdateURI(inv.pageID, inv.params); err != nil {
			return fmt.Errorf("failed to update URI for page %s: %w", inv.pageID, err)
		}
	}

	inv.Logger().Info("page placed",
		"window", event.WindowID,
		"page", event.PageID,
		"params", event.Params.String(),
		"page_changed", event.PageChanged,
	)

	return nil
}

// instantiate creates the target page, converting factory errors and panics
// into *model.PageInstantiationError. Configuration errors pass through.
func (inv *Invocation) instantiate() (page model.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			page = nil
			err = &model.PageInstantiationError{
				PageID: inv.pageID,
				Params: inv.params,
				Err:    fmt.Errorf("panic: %v", r),
				Trace:  string(debug.Stack()),
			}
		}
	}()

	page, err = inv.host.Instantiate(inv.pageID)
	if err != nil {
		if errors.Is(err, model.ErrConfiguration) {
			return nil, err
		}
		return nil, &model.PageInstantiationError{
			PageID: inv.pageID,
			Params: inv.params,
			Err:    err,
			Trace:  err.Error(),
		}
	}
	if page == nil {
		return nil, &model.PageInstantiationError{
			PageID: inv.pageID,
			Params: inv.params,
			Err:    errors.New("factory returned no page"),
			Trace:  "factory returned no page",
		}
	}

	return page, nil
}

// placeException places the exception page for a construction failure.
// The remaining interceptors are skipped and the URI is left untouched.
func (inv *Invocation) placeException(ctx context.Context, perr *model.PageInstantiationError) error {
	inv.Logger().Error("page instantiation failed",
		"window", inv.host.WindowID(),
		"page", inv.pageID,
		"error", perr.Err,
	)

	inv.host.ReportProblem(ctx, model.Problem{
		Message: "Error while displaying page",
		Detail:  perr.Err.Error(),
		PageID:  inv.pageID,
		Err:     perr,
	})

	exc := model.NewExceptionPage(perr)
	event := model.NavigationEvent{
		WindowID:    inv.host.WindowID(),
		PageID:      model.ExceptionPageID,
		Params:      inv.params,
		PageChanged: true,
	}

	if err := inv.host.Place(ctx, exc, event); err != nil {
		inv.state = StateAborted
		inv.err = err
		return fmt.Errorf("failed to place exception page: %w", err)
	}

	inv.page = exc
	inv.event = event
	inv.exception = perr
	inv.state = StatePlaced
	return nil
}
