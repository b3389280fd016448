package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/fragnav/internal/model"
)

// createTestRoutes creates a route table with sample pages.
func createTestRoutes() *model.RouteTable {
	return &model.RouteTable{
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Routes: []model.Route{
			{PageID: "welcome", Home: true, Pattern: "#"},
			{
				PageID:  "ticket",
				URIName: "Ticket",
				Pattern: "#Ticket/{#0}",
				Slots:   []model.RouteSlot{{Label: "#0", Kind: "string", Required: true}},
			},
			{
				PageID:    "seo",
				URIName:   "Seo",
				Crawlable: true,
				Pattern:   "#!Seo",
			},
		},
	}
}

// createTestResolutions creates one resolution per outcome.
func createTestResolutions() []*model.Resolution {
	return []*model.Resolution{
		{Fragment: "Ticket/XYZ", PageID: "ticket", Params: "XYZ", State: "placed", URI: "#Ticket/XYZ", Content: "<b>ticket XYZ</b>"},
		{Fragment: "Nope", PageID: "welcome", State: "placed", URI: "#", Problems: []string{"Invalid URL: No page named 'Nope'."}},
		{Fragment: "Broken", PageID: model.ExceptionPageID, State: "placed", URI: "#Broken"},
		{Fragment: "Editor", State: "suspended", URI: "#Editor"},
		nil,
	}
}

func createTestHistory() []model.NavigationRecord {
	return []model.NavigationRecord{
		{ID: 2, WindowID: "w-1", PageID: "ticket", ParamsDigest: "abcdef0123456789", ParamCount: 1, PlacedAt: time.Date(2026, 1, 2, 3, 4, 6, 0, time.UTC)},
		{ID: 1, WindowID: "w-1", PageID: "ticket", ParamsDigest: "0123456789abcdef", ParamCount: 1, PageChanged: true, PlacedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	s := Summarize(createTestResolutions())
	if s.Total != 4 {
		t.Errorf("expected 4 resolutions, got %d", s.Total)
	}
	for _, outcome := range []string{model.OutcomeOK, model.OutcomeProblem, model.OutcomeException, model.OutcomeSuspended} {
		if s.Counts[outcome] != 1 {
			t.Errorf("expected one %s resolution, got %d", outcome, s.Counts[outcome])
		}
	}
	if s.Counts[model.OutcomeError] != 0 {
		t.Errorf("expected no error resolution, got %d", s.Counts[model.OutcomeError])
	}
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes routes with flags and patterns", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteRoutes(createTestRoutes()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"ROUTES", "Pages:     3", "Crawlable: 1", "welcome (home)", "seo (crawlable)", "#Ticket/{#0}"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
		if strings.Contains(output, "Slot #0") {
			t.Error("expected slots only in verbose output")
		}
	})

	t.Run("verbose output lists slots", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).WriteRoutes(createTestRoutes()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Slot #0: string (required)") {
			t.Errorf("expected slot details, got:\n%s", buf.String())
		}
	})

	t.Run("writes resolutions and summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).WriteResolutions(createTestResolutions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
		}

		output := buf.String()
		for _, want := range []string{
			"[OK] #Ticket/XYZ",
			"[PROBLEM] #Nope",
			"Problem: Invalid URL: No page named 'Nope'.",
			"[EXCEPTION] #Broken",
			"[SUSPENDED] #Editor",
			"TOTAL:     4 fragments",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
		if strings.Contains(output, "Content:") {
			t.Error("expected content only in verbose output")
		}
	})

	t.Run("verbose output lists crawl depth and links", func(t *testing.T) {
		t.Parallel()

		crawled := []*model.Resolution{{
			Fragment: "Report/weekly",
			PageID:   "report",
			Params:   "weekly",
			State:    "placed",
			URI:      "#Report/weekly",
			Depth:    2,
			Links:    []string{"Report/daily", "!About"},
		}}

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).WriteResolutions(crawled); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"Depth: 2", "Links: #Report/daily, #!About"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("writes history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteHistory(createTestHistory()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "params") || !strings.Contains(output, "page") {
			t.Errorf("expected change kinds, got:\n%s", output)
		}
		if strings.Contains(output, "Digest:") {
			t.Error("expected digests only in verbose output")
		}
	})

	t.Run("writes empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No navigations recorded") {
			t.Errorf("expected empty notice, got:\n%s", buf.String())
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes route table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithVersion("v1.2.3")).WriteRoutes(createTestRoutes()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc struct {
			Version string           `json:"version"`
			Routes  model.RouteTable `json:"route_table"`
		}
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if doc.Version != "v1.2.3" {
			t.Errorf("expected version v1.2.3, got %q", doc.Version)
		}
		if len(doc.Routes.Routes) != 3 {
			t.Fatalf("expected 3 routes, got %d", len(doc.Routes.Routes))
		}
		if doc.Routes.Routes[1].Pattern != "#Ticket/{#0}" {
			t.Errorf("unexpected pattern %q", doc.Routes.Routes[1].Pattern)
		}
	})

	t.Run("writes resolutions with summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteResolutions(createTestResolutions()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc struct {
			Summary     Summary             `json:"summary"`
			Resolutions []*model.Resolution `json:"resolutions"`
		}
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if doc.Summary.Total != 4 {
			t.Errorf("expected total 4, got %d", doc.Summary.Total)
		}
		if len(doc.Resolutions) != 5 {
			t.Errorf("expected 5 entries, got %d", len(doc.Resolutions))
		}
	})

	t.Run("pretty print indents output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).WriteHistory(createTestHistory()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"navigations\"") {
			t.Errorf("expected indented output, got:\n%s", buf.String())
		}
		if !strings.HasSuffix(buf.String(), "\n") {
			t.Error("expected trailing newline")
		}
	})

	t.Run("empty history is an empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"navigations":[]`) {
			t.Errorf("expected empty array, got %s", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes route table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteRoutes(createTestRoutes()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"# Route Table", "`ticket`", "`#Ticket/{#0}`", "#0 string*", "crawlable"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("writes resolutions with chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteResolutions(createTestResolutions()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"# Fragment Resolutions", "mermaid", "Resolution Outcomes", "`#Ticket/XYZ`"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("escapes rendered content", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteResolutions(createTestResolutions()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if strings.Contains(output, "<b>ticket XYZ</b>") {
			t.Error("expected rendered content to be escaped")
		}
		if !strings.Contains(output, "&lt;b&gt;ticket XYZ&lt;/b&gt;") {
			t.Errorf("expected escaped content, got:\n%s", output)
		}
	})

	t.Run("writes history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteHistory(createTestHistory()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# Navigation History") {
			t.Error("expected history header")
		}
		if !strings.Contains(output, "abcdef012...") {
			t.Errorf("expected truncated digest, got:\n%s", output)
		}
	})
}

type failingWriter struct{}

func (failingWriter) WriteRoutes(*model.RouteTable) (int, error) { return 0, errors.New("boom") }
func (failingWriter) WriteResolutions([]*model.Resolution) (int, error) {
	return 0, errors.New("boom")
}
func (failingWriter) WriteHistory([]model.NavigationRecord) (int, error) {
	return 0, errors.New("boom")
}

// TestMultiWriter tests writing to multiple outputs.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to every writer", func(t *testing.T) {
		t.Parallel()

		var text, js bytes.Buffer
		m := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

		n, err := m.WriteRoutes(createTestRoutes())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != text.Len()+js.Len() {
			t.Errorf("expected %d bytes, got %d", text.Len()+js.Len(), n)
		}
		if text.Len() == 0 || js.Len() == 0 {
			t.Error("expected both writers to receive output")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		m := NewMultiWriter(failingWriter{}, NewSimpleWriter(&buf))

		if _, err := m.WriteResolutions(createTestResolutions()); err == nil {
			t.Fatal("expected an error")
		}
		if buf.Len() != 0 {
			t.Error("expected later writers to be skipped")
		}
	})
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "short string is kept", input: "abc", maxLen: 5, want: "abc"},
		{name: "long string gets an ellipsis", input: "abcdefgh", maxLen: 6, want: "abc..."},
		{name: "tiny limit cuts without ellipsis", input: "abcdefgh", maxLen: 2, want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
