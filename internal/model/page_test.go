package model

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/fragnav/internal/fragment"
)

// TestExceptionPage_Render tests the HTML rendering of a failure.
func TestExceptionPage_Render(t *testing.T) {
	t.Parallel()

	pie := &PageInstantiationError{
		PageID: "ReportPage",
		Params: fragment.ParamsOf("<script>"),
		Err:    errors.New("bad <input>"),
		Trace:  "goroutine 1 [running]:\nmain.go:10 & more",
	}
	page := NewExceptionPage(pie)

	out := page.Render()

	if !strings.Contains(out, "ReportPage") {
		t.Errorf("expected page id in output: %s", out)
	}
	if strings.Contains(out, "<script>") || strings.Contains(out, "<input>") {
		t.Errorf("expected dynamic values to be escaped: %s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("expected escaped params in output: %s", out)
	}
	if !strings.Contains(out, "main.go:10 &amp; more") {
		t.Errorf("expected escaped trace in output: %s", out)
	}
	if !errors.Is(page.Err, ErrPageInstantiation) {
		t.Error("expected the page to keep the instantiation error")
	}
}

// TestDynamicPage tests slot storage and capabilities.
func TestDynamicPage(t *testing.T) {
	t.Parallel()

	t.Run("slots can be set, read and reset", func(t *testing.T) {
		t.Parallel()

		p := NewDynamicPage("ProductPage", "Product", "")
		p.SetSlot("name", "lamp")

		if v, ok := p.Slot("name"); !ok || v != "lamp" {
			t.Errorf("expected lamp, got (%v, %v)", v, ok)
		}

		p.ResetSlot("name")
		if _, ok := p.Slot("name"); ok {
			t.Error("expected slot to be reset")
		}
	})

	t.Run("title defaults to id", func(t *testing.T) {
		t.Parallel()

		p := NewDynamicPage("AboutPage", "", "")
		if p.Title() != "AboutPage" {
			t.Errorf("expected AboutPage, got %q", p.Title())
		}
	})

	t.Run("warning makes it a navigation warner", func(t *testing.T) {
		t.Parallel()

		var page Page = NewDynamicPage("EditPage", "", "unsaved changes")
		w, ok := page.(NavigationWarner)
		if !ok {
			t.Fatal("expected NavigationWarner")
		}
		if w.NavigationWarning() != "unsaved changes" {
			t.Errorf("unexpected warning %q", w.NavigationWarning())
		}
	})

	t.Run("render lists sorted slots", func(t *testing.T) {
		t.Parallel()

		p := NewDynamicPage("ProductPage", "Product", "")
		p.SetSlot("zeta", 1)
		p.SetSlot("alpha", &Entity{Type: "product", Key: "34", Attributes: map[string]string{"name": "lamp"}})

		want := "Product\n  alpha: product#34 name=lamp\n  zeta: 1"
		if got := p.Render(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("render appends escaped anchors for links", func(t *testing.T) {
		t.Parallel()

		p := NewDynamicPage("HomePage", "Home", "")
		p.SetLinks("Ticket/XYZ", "!About", "Search/q=<b>")

		want := "Home" +
			"\n  <a href=\"#Ticket/XYZ\">Ticket/XYZ</a>" +
			"\n  <a href=\"#!About\">!About</a>" +
			"\n  <a href=\"#Search/q=&lt;b&gt;\">Search/q=&lt;b&gt;</a>"
		if got := p.Render(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
		if len(p.Links()) != 3 {
			t.Errorf("expected 3 links, got %v", p.Links())
		}
	})

	t.Run("param changes are recorded", func(t *testing.T) {
		t.Parallel()

		p := NewDynamicPage("ProductPage", "", "")
		p.ParamChanged(context.Background(), NavigationEvent{PageID: "ProductPage", Params: fragment.ParamsOf("1")})

		events := p.Events()
		if len(events) != 1 || events[0].Params.String() != "1" {
			t.Errorf("unexpected events %+v", events)
		}
	})
}
