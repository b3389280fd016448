package pipeline

import (
	"context"
	"errors"

	"github.com/nao1215/fragnav/internal/model"
	"github.com/nao1215/fragnav/internal/param"
)

// NavigationWarningInterceptor asks for confirmation before leaving a page
// that reports unsaved state. The chain is suspended until the host calls
// proceed, and discarded when it calls cancel.
//
// The warning is also asked for in-place parameter updates, since the page
// state may be reset by the new parameters.
type NavigationWarningInterceptor struct{}

// NewNavigationWarningInterceptor creates the interceptor.
func NewNavigationWarningInterceptor() *NavigationWarningInterceptor {
	return &NavigationWarningInterceptor{}
}

// Name returns the interceptor name.
func (w *NavigationWarningInterceptor) Name() string {
	return "navigation_warning"
}

// Intercept implements Interceptor.
func (w *NavigationWarningInterceptor) Intercept(ctx context.Context, inv *Invocation) error {
	current, currentID := inv.Host().CurrentPage()
	warner, ok := current.(model.NavigationWarner)
	if !ok {
		return inv.Invoke(ctx)
	}

	message := warner.NavigationWarning()
	if message == "" {
		return inv.Invoke(ctx)
	}

	inv.Logger().Debug("asking to leave page",
		"window", inv.Host().WindowID(),
		"current", currentID,
		"target", inv.PageID(),
	)

	return inv.Host().Confirm(ctx, message, inv.Invoke, inv.Abort)
}

// ParamInjectInterceptor injects the request parameters into the target
// page before the chain continues. A *model.ParamError is reported to the
// user and aborts the navigation, so the previous page stays in place.
type ParamInjectInterceptor struct {
	binder *param.Binder
}

// NewParamInjectInterceptor creates the interceptor.
func NewParamInjectInterceptor(binder *param.Binder) *ParamInjectInterceptor {
	return &ParamInjectInterceptor{binder: binder}
}

// Name returns the interceptor name.
func (p *ParamInjectInterceptor) Name() string {
	return "param_inject"
}

// Intercept implements Interceptor.
func (p *ParamInjectInterceptor) Intercept(ctx context.Context, inv *Invocation) error {
	declares, err := p.binder.Declares(inv.PageID())
	if err != nil {
		return err
	}
	if !declares {
		return inv.Invoke(ctx)
	}

	page, err := inv.Page(ctx)
	if err != nil {
		return err
	}

	// A reused instance has values from the previous URL; absent ones are reset.
	if err := p.binder.Inject(ctx, inv.PageID(), page, inv.Params(), inv.Reused()); err != nil {
		var perr *model.ParamError
		if !errors.As(err, &perr) {
			return err
		}

		inv.Logger().Warn("invalid URL parameter",
			"window", inv.Host().WindowID(),
			"page", inv.PageID(),
			"params", inv.Params().String(),
			"reason", perr.Reason,
		)
		inv.Host().ReportProblem(ctx, model.Problem{
			Message: "Invalid URL parameter",
			Detail:  perr.Reason,
			PageID:  inv.PageID(),
			Err:     perr,
		})
		inv.AbortWith(perr)
		return nil
	}

	return inv.Invoke(ctx)
}

// ParamChangeInterceptor tells a placed page implementing
// model.ParamChangeListener about the parameters it was placed with.
type ParamChangeInterceptor struct{}

// NewParamChangeInterceptor creates the interceptor.
func NewParamChangeInterceptor() *ParamChangeInterceptor {
	return &ParamChangeInterceptor{}
}

// Name returns the interceptor name.
func (p *ParamChangeInterceptor) Name() string {
	return "param_change"
}

// Intercept implements Interceptor.
func (p *ParamChangeInterceptor) Intercept(ctx context.Context, inv *Invocation) error {
	if err := inv.Invoke(ctx); err != nil {
		return err
	}
	if !inv.Placed() || inv.Exception() != nil {
		return nil
	}

	page, err := inv.Page(ctx)
	if err != nil {
		return err
	}
	if l, ok := page.(model.ParamChangeListener); ok {
		l.ParamChanged(ctx, inv.Event())
	}
	return nil
}

// PageChangeListener is notified when a window shows a different page.
type PageChangeListener interface {
	PageChanged(ctx context.Context, event model.NavigationEvent)
}

// PageChangeListenerFunc adapts a function to the PageChangeListener interface.
type PageChangeListenerFunc func(ctx context.Context, event model.NavigationEvent)

// PageChanged calls f.
func (f PageChangeListenerFunc) PageChanged(ctx context.Context, event model.NavigationEvent) {
	f(ctx, event)
}

// PageChangeListenersInterceptor notifies application-wide listeners after a
// placement that changed the page. In-place parameter updates and reloads of
// the same page are not reported.
type PageChangeListenersInterceptor struct {
	listeners []PageChangeListener
}

// NewPageChangeListenersInterceptor creates the interceptor.
func NewPageChangeListenersInterceptor(listeners ...PageChangeListener) *PageChangeListenersInterceptor {
	return &PageChangeListenersInterceptor{listeners: listeners}
}

// Name returns the interceptor name.
func (p *PageChangeListenersInterceptor) Name() string {
	return "page_change_listeners"
}

// Intercept implements Interceptor.
func (p *PageChangeListenersInterceptor) Intercept(ctx context.Context, inv *Invocation) error {
	if err := inv.Invoke(ctx); err != nil {
		return err
	}
	if !inv.Placed() || inv.Exception() != nil || !inv.Event().PageChanged {
		return nil
	}

	for _, l := range p.listeners {
		l.PageChanged(ctx, inv.Event())
	}
	return nil
}

// HistoryRecorder stores placed navigations. database.Store implements it.
type HistoryRecorder interface {
	RecordNavigation(ctx context.Context, event model.NavigationEvent) error
}

// HistoryInterceptor records every placement, exception pages included.
// A recording failure is logged and does not fail the navigation.
type HistoryInterceptor struct {
	recorder HistoryRecorder
}

// NewHistoryInterceptor creates the interceptor.
func NewHistoryInterceptor(recorder HistoryRecorder) *HistoryInterceptor {
	return &HistoryInterceptor{recorder: recorder}
}

// Name returns the interceptor name.
func (h *HistoryInterceptor) Name() string {
	return "history"
}

// Intercept implements Interceptor.
func (h *HistoryInterceptor) Intercept(ctx context.Context, inv *Invocation) error {
	if err := inv.Invoke(ctx); err != nil {
		return err
	}
	if !inv.Placed() {
		return nil
	}

	if err := h.recorder.RecordNavigation(ctx, inv.Event()); err != nil {
		inv.Logger().Warn("failed to record navigation",
			"window", inv.Host().WindowID(),
			"page", inv.Event().PageID,
			"error", err,
		)
	}
	return nil
}

// Default creates the standard pipeline:
//
//	navigation_warning, page_change_listeners, param_change, param_inject
//
// Parameters are injected last, right before placement, so the notifying
// interceptors see the injected page once the chain unwinds.
func Default(binder *param.Binder, listeners []PageChangeListener, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddInterceptors(
		NewNavigationWarningInterceptor(),
		NewPageChangeListenersInterceptor(listeners...),
		NewParamChangeInterceptor(),
		NewParamInjectInterceptor(binder),
	)
	return p
}
