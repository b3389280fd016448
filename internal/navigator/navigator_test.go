package navigator

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/fragnav/internal/fragment"
	"github.com/nao1215/fragnav/internal/model"
	"github.com/nao1215/fragnav/internal/param"
	"github.com/nao1215/fragnav/internal/pipeline"
)

// TestNavigator_Init tests the first placement of a window.
func TestNavigator_Init(t *testing.T) {
	t.Parallel()

	t.Run("empty fragment shows the home page without parameters", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		inv, err := n.Init(context.Background(), "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if inv.State() != pipeline.StatePlaced {
			t.Fatalf("expected placed, got %s", inv.State())
		}
		page, id := n.CurrentPage()
		if id != "WelcomePage" {
			t.Errorf("expected WelcomePage, got %s", id)
		}
		welcome, ok := page.(*welcomePage)
		if !ok {
			t.Fatalf("expected *welcomePage, got %T", page)
		}
		if len(welcome.changes) != 1 || !welcome.changes[0].Params.IsEmpty() {
			t.Errorf("expected one change without parameters, got %+v", welcome.changes)
		}
		if n.URI() != "#" {
			t.Errorf("expected URI '#', got %q", n.URI())
		}
	})

	t.Run("non-empty fragment is resolved", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		if _, err := n.Init(context.Background(), "#ticket/ABC"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, id := n.CurrentPage(); id != "TicketPage" {
			t.Errorf("expected TicketPage, got %s", id)
		}
		if n.Fragment() != "ticket/ABC" {
			t.Errorf("expected fragment 'ticket/ABC', got %q", n.Fragment())
		}
	})

	t.Run("window identifiers are unique unless given", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t)
		a, b := app.NewNavigator(), app.NewNavigator()
		if a.ID() == "" || a.ID() == b.ID() {
			t.Errorf("expected distinct identifiers, got %q and %q", a.ID(), b.ID())
		}
		if id := app.NewNavigator(WithWindowID("main")).ID(); id != "main" {
			t.Errorf("expected 'main', got %q", id)
		}
	})
}

// TestNavigator_FragmentChanged tests navigation by fragment.
func TestNavigator_FragmentChanged(t *testing.T) {
	t.Parallel()

	t.Run("positional parameter is injected", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		if _, err := n.FragmentChanged(context.Background(), "ticket/ABC"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		page, _ := n.CurrentPage()
		ticket, ok := page.(*ticketPage)
		if !ok {
			t.Fatalf("expected *ticketPage, got %T", page)
		}
		if ticket.ticket != "ABC" {
			t.Errorf("expected ticket 'ABC', got %q", ticket.ticket)
		}
		if ticket.changes != 1 {
			t.Errorf("expected one parameter change, got %d", ticket.changes)
		}
		if n.Render() != "ticket ABC" {
			t.Errorf("unexpected content %q", n.Render())
		}
	})

	t.Run("entity and named parameters are injected", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		if _, err := n.FragmentChanged(context.Background(), "Product/34/userId=123"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		page, _ := n.CurrentPage()
		p, ok := page.(*productPage)
		if !ok {
			t.Fatalf("expected *productPage, got %T", page)
		}
		if p.product == nil || p.product.key != "34" {
			t.Errorf("expected product 34, got %+v", p.product)
		}
		if p.userID == nil || *p.userID != 123 {
			t.Errorf("expected userId 123, got %v", p.userID)
		}
	})

	t.Run("unknown page name falls back to the home page", func(t *testing.T) {
		t.Parallel()

		var shown []model.Problem
		notifier := model.NotifierFunc(func(_ context.Context, p model.Problem) {
			shown = append(shown, p)
		})

		n := newTestApp(t, WithNotifier(notifier)).NewNavigator()
		inv, err := n.FragmentChanged(context.Background(), "unknownpage/x")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		page, id := n.CurrentPage()
		if id != "WelcomePage" {
			t.Fatalf("expected WelcomePage, got %s", id)
		}
		if !inv.Params().IsEmpty() {
			t.Errorf("expected no parameters, got %q", inv.Params())
		}
		if welcome := page.(*welcomePage); !welcome.changes[0].Params.IsEmpty() {
			t.Errorf("expected the home page without parameters, got %q", welcome.changes[0].Params)
		}

		problems := n.Problems()
		if len(problems) != 1 || problems[0].Message != InvalidURLMessage {
			t.Fatalf("expected one invalid URL problem, got %+v", problems)
		}
		if problems[0].Fragment != "unknownpage/x" {
			t.Errorf("expected the fragment in the problem, got %q", problems[0].Fragment)
		}
		if len(shown) != 1 {
			t.Errorf("expected the notifier to be called once, got %d", len(shown))
		}
		if n.Fragment() != "" {
			t.Errorf("expected the fragment to be rewritten to the home page, got %q", n.Fragment())
		}
	})

	t.Run("fragment without a name addresses the home page", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		if _, err := n.FragmentChanged(context.Background(), "/a/b"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		page, id := n.CurrentPage()
		if id != "WelcomePage" {
			t.Fatalf("expected WelcomePage, got %s", id)
		}
		if got := page.(*welcomePage).changes[0].Params.String(); got != "a/b" {
			t.Errorf("expected parameters 'a/b', got %q", got)
		}
		if len(n.Problems()) != 0 {
			t.Errorf("expected no problem, got %+v", n.Problems())
		}
	})

	t.Run("same page is updated in place", func(t *testing.T) {
		t.Parallel()

		listener := &recordingListener{}
		n := newTestApp(t, WithPageChangeListeners(listener)).NewNavigator()
		ctx := context.Background()

		if _, err := n.FragmentChanged(ctx, "ticket/ABC"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first, _ := n.CurrentPage()

		inv, err := n.FragmentChanged(ctx, "Ticket/DEF")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, _ := n.CurrentPage()

		if first != second {
			t.Error("expected the same instance")
		}
		if !inv.Reused() || inv.Event().PageChanged {
			t.Errorf("expected an in-place update, got reused=%v changed=%v", inv.Reused(), inv.Event().PageChanged)
		}
		if got := second.(*ticketPage); got.ticket != "DEF" || got.changes != 2 {
			t.Errorf("expected ticket 'DEF' after two changes, got %+v", got)
		}
		if len(listener.events) != 1 {
			t.Errorf("expected one page change, got %d", len(listener.events))
		}
		if n.Placements() != 2 {
			t.Errorf("expected 2 placements, got %d", n.Placements())
		}
	})

	t.Run("invalid parameter keeps the previous page", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		ctx := context.Background()

		if _, err := n.Init(ctx, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		inv, err := n.FragmentChanged(ctx, "Product/99")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if inv.State() != pipeline.StateAborted {
			t.Errorf("expected aborted, got %s", inv.State())
		}
		if !errors.Is(inv.Err(), model.ErrParam) {
			t.Errorf("expected a parameter error, got %v", inv.Err())
		}
		if _, id := n.CurrentPage(); id != "WelcomePage" {
			t.Errorf("expected WelcomePage to stay, got %s", id)
		}
		problems := n.Problems()
		if len(problems) != 1 || problems[0].Message != "Invalid URL parameter" {
			t.Errorf("expected one invalid parameter problem, got %+v", problems)
		}
	})

	t.Run("failing factory shows the exception page", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		inv, err := n.FragmentChanged(context.Background(), "broken")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if inv.Exception() == nil || !errors.Is(inv.Exception(), errBoom) {
			t.Errorf("expected the factory error, got %v", inv.Exception())
		}
		page, id := n.CurrentPage()
		if id != model.ExceptionPageID {
			t.Errorf("expected the exception page, got %s", id)
		}
		if _, ok := page.(*model.ExceptionPage); !ok {
			t.Errorf("expected *model.ExceptionPage, got %T", page)
		}
		if n.Fragment() != "broken" {
			t.Errorf("expected the fragment to stay, got %q", n.Fragment())
		}
		if len(n.Problems()) != 1 {
			t.Errorf("expected one problem, got %+v", n.Problems())
		}
	})
}

// TestNavigator_NavigateTo tests navigation from code.
func TestNavigator_NavigateTo(t *testing.T) {
	t.Parallel()

	t.Run("fragment is rewritten", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		if _, err := n.NavigateTo(context.Background(), "TicketPage", fragment.ParamsOf("XYZ")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if n.URI() != "#Ticket/XYZ" {
			t.Errorf("expected '#Ticket/XYZ', got %q", n.URI())
		}
	})

	t.Run("same page gets a fresh instance", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		ctx := context.Background()

		if _, err := n.NavigateTo(ctx, "TicketPage", fragment.ParamsOf("A")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first, _ := n.CurrentPage()
		if _, err := n.NavigateTo(ctx, "TicketPage", fragment.ParamsOf("B")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, _ := n.CurrentPage()

		if first == second {
			t.Error("expected a fresh instance")
		}
	})

	t.Run("crawlable page carries the marker", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		if _, err := n.NavigateTo(context.Background(), "SeoPage", fragment.Params{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if n.URI() != "#!Seo" {
			t.Errorf("expected '#!Seo', got %q", n.URI())
		}
	})

	t.Run("unknown page is a configuration error", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		_, err := n.NavigateTo(context.Background(), "MissingPage", fragment.Params{})
		if !errors.Is(err, model.ErrConfiguration) {
			t.Errorf("expected a configuration error, got %v", err)
		}
		if n.Placements() != 0 {
			t.Errorf("expected no placement, got %d", n.Placements())
		}
	})

	t.Run("link is rendered and followed", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		link := param.NewLink("ProductPage", &product{key: "35"}).Add("userId", int64(7))
		if _, err := n.Navigate(context.Background(), link); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if n.Fragment() != "Product/35/userId=7" {
			t.Errorf("expected 'Product/35/userId=7', got %q", n.Fragment())
		}
		page, _ := n.CurrentPage()
		if p := page.(*productPage); p.product.key != "35" || *p.userID != 7 {
			t.Errorf("unexpected page state %+v", p)
		}
	})

	t.Run("placements are recorded in history", func(t *testing.T) {
		t.Parallel()

		recorder := &fakeRecorder{}
		n := newTestApp(t, WithHistory(recorder)).NewNavigator(WithWindowID("w1"))
		ctx := context.Background()

		if _, err := n.Init(ctx, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := n.NavigateTo(ctx, "TicketPage", fragment.ParamsOf("A")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(recorder.events) != 2 {
			t.Fatalf("expected 2 recorded navigations, got %d", len(recorder.events))
		}
		if recorder.events[1].WindowID != "w1" || recorder.events[1].PageID != "TicketPage" {
			t.Errorf("unexpected event %+v", recorder.events[1])
		}
	})
}

// TestNavigator_ReloadCurrentPage tests reloading.
func TestNavigator_ReloadCurrentPage(t *testing.T) {
	t.Parallel()

	t.Run("reload creates an equal fresh instance", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		ctx := context.Background()

		if _, err := n.FragmentChanged(ctx, "ticket/ABC"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first, _ := n.CurrentPage()

		previous := first
		for i := range 2 {
			inv, err := n.ReloadCurrentPage(ctx)
			if err != nil {
				t.Fatalf("reload %d: unexpected error: %v", i, err)
			}
			page, _ := n.CurrentPage()

			if page == previous {
				t.Errorf("reload %d: expected a fresh instance", i)
			}
			if page.(*ticketPage).ticket != first.(*ticketPage).ticket {
				t.Errorf("reload %d: expected equal parameter state", i)
			}
			if inv.Event().PageChanged {
				t.Errorf("reload %d: expected the reload not to change the page", i)
			}
			previous = page
		}
		if n.Fragment() != "ticket/ABC" {
			t.Errorf("expected the fragment to stay, got %q", n.Fragment())
		}
		if n.Placements() != 3 {
			t.Errorf("expected 3 placements, got %d", n.Placements())
		}
	})

	t.Run("reload after an aborted navigation keeps the displayed page", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		ctx := context.Background()

		if _, err := n.Init(ctx, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first, _ := n.CurrentPage()
		inv, err := n.FragmentChanged(ctx, "Product/99")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if inv.State() != pipeline.StateAborted {
			t.Fatalf("expected aborted, got %s", inv.State())
		}

		inv, err = n.ReloadCurrentPage(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		page, id := n.CurrentPage()

		if inv.PageID() != "WelcomePage" || id != "WelcomePage" {
			t.Errorf("expected WelcomePage to be reloaded, got target %s displayed %s", inv.PageID(), id)
		}
		if page == first {
			t.Error("expected a fresh instance")
		}
		if n.Placements() != 2 {
			t.Errorf("expected 2 placements, got %d", n.Placements())
		}
		if n.Fragment() != "" {
			t.Errorf("expected the fragment to address the home page, got %q", n.Fragment())
		}
	})

	t.Run("reload after a cancelled navigation keeps the displayed page", func(t *testing.T) {
		t.Parallel()

		asked := 0
		dialog := DialogFunc(func(context.Context, string) (bool, bool) {
			asked++
			return asked > 1, true
		})
		n := newTestApp(t).NewNavigator(WithWindowDialog(dialog))
		ctx := context.Background()

		if _, err := n.FragmentChanged(ctx, "editor"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first, _ := n.CurrentPage()
		if _, err := n.FragmentChanged(ctx, "ticket/ABC"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, id := n.CurrentPage(); id != "EditorPage" {
			t.Fatalf("expected the cancelled navigation to keep EditorPage, got %s", id)
		}

		inv, err := n.ReloadCurrentPage(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		page, id := n.CurrentPage()

		if inv.State() != pipeline.StatePlaced {
			t.Errorf("expected placed, got %s", inv.State())
		}
		if id != "EditorPage" {
			t.Errorf("expected EditorPage to be reloaded, got %s", id)
		}
		if page == first {
			t.Error("expected a fresh instance")
		}
		if n.Fragment() != "Editor" {
			t.Errorf("expected the fragment to address the editor, got %q", n.Fragment())
		}
	})

	t.Run("reload of the exception page resolves the fragment again", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		ctx := context.Background()

		if _, err := n.FragmentChanged(ctx, "broken"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		inv, err := n.ReloadCurrentPage(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if inv.PageID() != "BrokenPage" {
			t.Errorf("expected BrokenPage to be tried again, got %s", inv.PageID())
		}
		if _, id := n.CurrentPage(); id != model.ExceptionPageID {
			t.Errorf("expected the exception page, got %s", id)
		}
	})

	t.Run("reload before any placement fails", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		if _, err := n.ReloadCurrentPage(context.Background()); !errors.Is(err, ErrNoCurrentPage) {
			t.Errorf("expected ErrNoCurrentPage, got %v", err)
		}
	})
}

// TestNavigator_SetURIParams tests fragment rewriting without navigation.
func TestNavigator_SetURIParams(t *testing.T) {
	t.Parallel()

	t.Run("fragment is rewritten without placement", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		if _, err := n.FragmentChanged(context.Background(), "ticket/ABC"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := n.SetURIParams(fragment.ParamsOf("NEW")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.Fragment() != "Ticket/NEW" {
			t.Errorf("expected 'Ticket/NEW', got %q", n.Fragment())
		}
		if n.Placements() != 1 {
			t.Errorf("expected 1 placement, got %d", n.Placements())
		}
	})

	t.Run("fragment is rendered from the page slots", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		if _, err := n.FragmentChanged(context.Background(), "Product/34"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		page, _ := n.CurrentPage()
		userID := int64(5)
		page.(*productPage).userID = &userID

		if err := n.SetURIParamsFromPage(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.Fragment() != "Product/34/userId=5" {
			t.Errorf("expected 'Product/34/userId=5', got %q", n.Fragment())
		}
	})

	t.Run("exception page cannot be rewritten", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		if _, err := n.FragmentChanged(context.Background(), "broken"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := n.SetURIParams(fragment.ParamsOf("x")); !errors.Is(err, ErrNoCurrentPage) {
			t.Errorf("expected ErrNoCurrentPage, got %v", err)
		}
		if err := n.SetURIParamsFromPage(); !errors.Is(err, ErrNoCurrentPage) {
			t.Errorf("expected ErrNoCurrentPage, got %v", err)
		}
		if n.Fragment() != "broken" {
			t.Errorf("expected the fragment to stay, got %q", n.Fragment())
		}
	})

	t.Run("rewriting requires a page", func(t *testing.T) {
		t.Parallel()

		n := newTestApp(t).NewNavigator()
		if err := n.SetURIParams(fragment.Params{}); !errors.Is(err, ErrNoCurrentPage) {
			t.Errorf("expected ErrNoCurrentPage, got %v", err)
		}
		if err := n.SetURIParamsFromPage(); !errors.Is(err, ErrNoCurrentPage) {
			t.Errorf("expected ErrNoCurrentPage, got %v", err)
		}
	})
}

// TestNavigator_NavigationWarning tests leaving a page with unsaved state.
func TestNavigator_NavigationWarning(t *testing.T) {
	t.Parallel()

	openEditor := func(t *testing.T, opts ...Option) *Navigator {
		t.Helper()

		n := newTestApp(t).NewNavigator(opts...)
		if _, err := n.FragmentChanged(context.Background(), "editor"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return n
	}

	t.Run("navigation waits for confirmation", func(t *testing.T) {
		t.Parallel()

		n := openEditor(t)
		ctx := context.Background()

		inv, err := n.FragmentChanged(ctx, "ticket/ABC")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if inv.State() != pipeline.StateSuspended {
			t.Fatalf("expected suspended, got %s", inv.State())
		}
		if msg, ok := n.PendingConfirmation(); !ok || msg != "You have unsaved changes." {
			t.Errorf("expected the warning to be pending, got %q %v", msg, ok)
		}
		if _, id := n.CurrentPage(); id != "EditorPage" {
			t.Errorf("expected EditorPage to stay, got %s", id)
		}

		if err := n.ConfirmNavigation(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, id := n.CurrentPage(); id != "TicketPage" {
			t.Errorf("expected TicketPage, got %s", id)
		}
		if inv.State() != pipeline.StatePlaced {
			t.Errorf("expected placed, got %s", inv.State())
		}
		if _, ok := n.PendingConfirmation(); ok {
			t.Error("expected nothing pending")
		}
	})

	t.Run("cancelled navigation keeps the page", func(t *testing.T) {
		t.Parallel()

		n := openEditor(t)
		inv, err := n.NavigateTo(context.Background(), "TicketPage", fragment.ParamsOf("A"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := n.CancelNavigation(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if inv.State() != pipeline.StateAborted {
			t.Errorf("expected aborted, got %s", inv.State())
		}
		if _, id := n.CurrentPage(); id != "EditorPage" {
			t.Errorf("expected EditorPage to stay, got %s", id)
		}
		if err := n.CancelNavigation(); !errors.Is(err, ErrNothingPending) {
			t.Errorf("expected ErrNothingPending, got %v", err)
		}
		if err := n.ConfirmNavigation(context.Background()); !errors.Is(err, ErrNothingPending) {
			t.Errorf("expected ErrNothingPending, got %v", err)
		}
	})

	t.Run("dialog decides at once", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			dialog Dialog
			wantID string
			want   pipeline.State
		}{
			{name: "proceed", dialog: AlwaysProceed, wantID: "TicketPage", want: pipeline.StatePlaced},
			{name: "stay", dialog: AlwaysStay, wantID: "EditorPage", want: pipeline.StateAborted},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				n := openEditor(t, WithWindowDialog(tt.dialog))
				inv, err := n.FragmentChanged(context.Background(), "ticket/ABC")
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				if inv.State() != tt.want {
					t.Errorf("expected %s, got %s", tt.want, inv.State())
				}
				if _, id := n.CurrentPage(); id != tt.wantID {
					t.Errorf("expected %s, got %s", tt.wantID, id)
				}
				if _, ok := n.PendingConfirmation(); ok {
					t.Error("expected nothing pending")
				}
			})
		}
	})

	t.Run("new navigation abandons the pending one", func(t *testing.T) {
		t.Parallel()

		n := openEditor(t, WithWindowDialog(DialogFunc(func(context.Context, string) (bool, bool) {
			return false, false
		})))
		ctx := context.Background()

		if _, err := n.FragmentChanged(ctx, "ticket/A"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := n.FragmentChanged(ctx, "ticket/B"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := n.ConfirmNavigation(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		page, _ := n.CurrentPage()
		if got := page.(*ticketPage).ticket; got != "B" {
			t.Errorf("expected the latest navigation, got ticket %q", got)
		}
		if n.Placements() != 2 {
			t.Errorf("expected 2 placements, got %d", n.Placements())
		}
	})
}
