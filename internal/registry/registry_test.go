package registry

import (
	"errors"
	"testing"

	"go.uber.org/multierr"

	"github.com/nao1215/fragnav/internal/config"
	"github.com/nao1215/fragnav/internal/fragment"
	"github.com/nao1215/fragnav/internal/model"
	"github.com/nao1215/fragnav/internal/param"
)

type ticketPage struct {
	ticket string
}

func newTicketPage() (model.Page, error) {
	return &ticketPage{}, nil
}

func descriptor(id, name string) Descriptor {
	return Descriptor{ID: id, Name: name, New: newTicketPage}
}

// TestNew tests page registration.
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("first page is the home page by default", func(t *testing.T) {
		t.Parallel()

		r, err := New([]Descriptor{descriptor("WelcomePage", ""), descriptor("TicketPage", "")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if r.Home().ID != "WelcomePage" || !r.Home().IsHome() {
			t.Errorf("expected WelcomePage as home, got %+v", r.Home())
		}
		if r.Count() != 2 {
			t.Errorf("expected 2 pages, got %d", r.Count())
		}

		ticket, err := r.ResolveByID("TicketPage")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ticket.IsHome() {
			t.Error("expected TicketPage not to be the home page")
		}
	})

	t.Run("home page can be selected", func(t *testing.T) {
		t.Parallel()

		r, err := New([]Descriptor{descriptor("WelcomePage", ""), descriptor("TicketPage", "")},
			WithHomePage("TicketPage"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if r.Home().ID != "TicketPage" {
			t.Errorf("expected TicketPage as home, got %s", r.Home().ID)
		}

		homes := 0
		for _, d := range r.Descriptors() {
			if d.IsHome() {
				homes++
			}
		}
		if homes != 1 {
			t.Errorf("expected exactly one home page, got %d", homes)
		}
	})

	tests := []struct {
		name      string
		pages     []Descriptor
		opts      []Option
		wantCount int
	}{
		{
			name:      "empty list fails",
			pages:     nil,
			wantCount: 1,
		},
		{
			name:      "duplicate identifier fails",
			pages:     []Descriptor{descriptor("TicketPage", "a"), descriptor("TicketPage", "b")},
			wantCount: 1,
		},
		{
			name:      "URI names colliding case-insensitively fail",
			pages:     []Descriptor{descriptor("A", "ticket"), descriptor("B", "TICKET")},
			wantCount: 1,
		},
		{
			name:      "derived name colliding with an explicit one fails",
			pages:     []Descriptor{descriptor("TicketPage", ""), descriptor("Other", "Ticket")},
			wantCount: 1,
		},
		{
			name:      "missing factory fails",
			pages:     []Descriptor{{ID: "TicketPage"}},
			wantCount: 1,
		},
		{
			name:      "missing identifier fails",
			pages:     []Descriptor{descriptor("", "x")},
			wantCount: 1,
		},
		{
			name:      "unknown home page fails",
			pages:     []Descriptor{descriptor("TicketPage", "")},
			opts:      []Option{WithHomePage("Nope")},
			wantCount: 1,
		},
		{
			name: "malformed parameter declarations fail",
			pages: []Descriptor{{
				ID:  "TicketPage",
				New: newTicketPage,
				Params: []param.Spec{
					param.Positional(0, param.String(func(p *ticketPage) *string { return &p.ticket })),
					param.Positional(2, param.String(func(p *ticketPage) *string { return &p.ticket })),
				},
			}},
			wantCount: 1,
		},
		{
			name: "every problem is reported",
			pages: []Descriptor{
				descriptor("A", "same"),
				descriptor("B", "same"),
				{ID: "C"},
			},
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := New(tt.pages, tt.opts...)
			if r != nil {
				t.Error("expected nil registry")
			}
			if !errors.Is(err, model.ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
			if got := len(multierr.Errors(err)); got != tt.wantCount {
				t.Errorf("expected %d problems, got %d: %v", tt.wantCount, got, err)
			}
		})
	}
}

// TestRegistry_Resolve tests lookups.
func TestRegistry_Resolve(t *testing.T) {
	t.Parallel()

	r, err := New([]Descriptor{
		descriptor("WelcomePage", ""),
		descriptor("TicketPage", "ticket"),
		descriptor("shop.ProductPage", ""),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("explicit name resolves", func(t *testing.T) {
		t.Parallel()

		d, ok := r.ResolveByName("ticket")
		if !ok || d.ID != "TicketPage" {
			t.Errorf("expected TicketPage, got %+v (found %v)", d, ok)
		}
	})

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		t.Parallel()

		d, ok := r.ResolveByName("PRODUCT")
		if !ok || d.ID != "shop.ProductPage" {
			t.Errorf("expected shop.ProductPage, got %+v (found %v)", d, ok)
		}
	})

	t.Run("unknown name is not found", func(t *testing.T) {
		t.Parallel()

		if _, ok := r.ResolveByName("unknownpage"); ok {
			t.Error("expected no page")
		}
	})

	t.Run("unknown identifier is a configuration error", func(t *testing.T) {
		t.Parallel()

		_, err := r.ResolveByID("NopePage")
		if !errors.Is(err, model.ErrConfiguration) {
			t.Errorf("expected configuration error, got %v", err)
		}

		if _, err := r.Specs("NopePage"); !errors.Is(err, model.ErrConfiguration) {
			t.Errorf("expected configuration error from Specs, got %v", err)
		}
	})

	t.Run("descriptor addresses fragments", func(t *testing.T) {
		t.Parallel()

		d, _ := r.ResolveByName("ticket")
		codec := fragment.Default()

		split := codec.Parse("ticket/ABC")
		if split.PageName != "ticket" || split.Params.String() != "ABC" {
			t.Fatalf("unexpected split %+v", split)
		}
		if got := codec.Build(d, split.Params, true); got != "#ticket/ABC" {
			t.Errorf("expected #ticket/ABC, got %s", got)
		}
	})

	t.Run("instantiate creates fresh pages", func(t *testing.T) {
		t.Parallel()

		a, err := r.Instantiate("TicketPage")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, err := r.Instantiate("TicketPage")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a == b {
			t.Error("expected two distinct instances")
		}
	})
}

// TestRegistry_Instantiate_FactoryError tests that factory errors are wrapped.
func TestRegistry_Instantiate_FactoryError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r, err := New([]Descriptor{{ID: "BrokenPage", New: func() (model.Page, error) { return nil, boom }}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = r.Instantiate("BrokenPage")
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped factory error, got %v", err)
	}
}

// TestDefaultURIName tests URI name derivation.
func TestDefaultURIName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "TicketPage", want: "Ticket"},
		{input: "shop.ProductPage", want: "Product"},
		{input: "*main.AboutPage", want: "About"},
		{input: "Ticketpage", want: "Ticketpage"},
		{input: "Page", want: "Page"},
		{input: "Dashboard", want: "Dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := DefaultURIName(tt.input); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestFromConfig tests configuration-declared pages.
func TestFromConfig(t *testing.T) {
	t.Parallel()

	zero := 0

	t.Run("declared pages become dynamic pages", func(t *testing.T) {
		t.Parallel()

		descriptors, err := FromConfig([]config.PageConfig{
			{ID: "Welcome", Title: "Welcome"},
			{
				ID:        "ProductPage",
				Crawlable: true,
				Params: []config.ParamConfig{
					{Position: &zero, Kind: "entity", Entity: "product", Required: true},
					{Name: "view", Kind: "enum", Symbols: []string{"grid", "list"}},
				},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		r, err := New(descriptors)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		d, ok := r.ResolveByName("product")
		if !ok || !d.IsCrawlable() || len(d.Params) != 2 {
			t.Fatalf("unexpected descriptor %+v", d)
		}
		if !d.Params[0].IsRequired() || d.Params[0].Accessor().EntityType() != "product" {
			t.Errorf("unexpected first slot %s", d.Params[0])
		}

		page, err := r.Instantiate("ProductPage")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := page.(*model.DynamicPage); !ok {
			t.Errorf("expected *model.DynamicPage, got %T", page)
		}
	})

	t.Run("bad declarations are all reported", func(t *testing.T) {
		t.Parallel()

		_, err := FromConfig([]config.PageConfig{
			{ID: "A", Params: []config.ParamConfig{{Kind: "decimal", Name: "x"}}},
			{ID: "B", Params: []config.ParamConfig{{Kind: "custom", Name: "x"}}},
			{ID: "C", Params: []config.ParamConfig{{Name: "x", Position: &zero}}},
			{ID: "D", Params: []config.ParamConfig{{Kind: "int"}}},
		})
		if !errors.Is(err, model.ErrConfiguration) {
			t.Fatalf("expected configuration error, got %v", err)
		}
		if got := len(multierr.Errors(err)); got != 4 {
			t.Errorf("expected 4 problems, got %d: %v", got, err)
		}
	})
}
