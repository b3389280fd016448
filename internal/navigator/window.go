package navigator

import (
	"context"
	"fmt"

	"github.com/nao1215/fragnav/internal/fragment"
	"github.com/nao1215/fragnav/internal/model"
)

// window exposes a Navigator to the interceptor chain.
// Every method runs while the Navigator lock is held by the navigation.
type window struct {
	n *Navigator
}

func (w *window) WindowID() string {
	return w.n.id
}

func (w *window) Instantiate(pageID string) (model.Page, error) {
	return w.n.app.registry.Instantiate(pageID)
}

func (w *window) CurrentPage() (model.Page, string) {
	return w.n.current, w.n.currentID
}

func (w *window) Place(_ context.Context, page model.Page, event model.NavigationEvent) error {
	n := w.n

	// An in-place update detaches and attaches the same instance again.
	n.layout.Detach()
	if err := n.layout.Attach(page); err != nil {
		return fmt.Errorf("failed to attach page %s: %w", event.PageID, err)
	}

	n.current = page
	n.currentID = event.PageID
	n.currentParams = event.Params
	n.placements.Inc()
	return nil
}

func (w *window) UpdateURI(pageID string, params fragment.Params) error {
	return w.n.setURI(pageID, params)
}

// Confirm asks the window dialog. Without a dialog, or when the dialog
// leaves the question open, the navigation waits for ConfirmNavigation or
// CancelNavigation.
func (w *window) Confirm(ctx context.Context, message string, proceed func(context.Context) error, cancel func()) error {
	n := w.n

	if n.dialog != nil {
		if ok, decided := n.dialog.Decide(ctx, message); decided {
			if ok {
				return proceed(ctx)
			}
			n.logger.Info("navigation cancelled", "reason", message)
			cancel()
			return nil
		}
	}

	n.pending = &pendingConfirmation{
		message: message,
		proceed: proceed,
		cancel:  cancel,
	}
	n.logger.Debug("navigation waiting for confirmation", "reason", message)
	return nil
}

func (w *window) ReportProblem(ctx context.Context, problem model.Problem) {
	w.n.report(ctx, problem)
}
