package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/fragnav/internal/model"
)

// ruleWidth is the width of section rules.
const ruleWidth = 70

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors so the output can be piped to files or other tools.
type SimpleWriter struct {
	baseWriter

	// verbose adds slot details and rendered content.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteRoutes outputs one block per route.
func (w *SimpleWriter) WriteRoutes(table *model.RouteTable) (int, error) {
	var sb strings.Builder

	writeSection(&sb, "ROUTES")
	fmt.Fprintf(&sb, "Pages:     %d\n", len(table.Routes))
	fmt.Fprintf(&sb, "Crawlable: %d\n\n", table.CrawlableCount())

	for _, r := range table.Routes {
		flags := routeFlags(r)
		if flags != "" {
			flags = " (" + flags + ")"
		}
		fmt.Fprintf(&sb, "  * %s%s\n", r.PageID, flags)
		fmt.Fprintf(&sb, "    URI name: %s\n", dash(r.URIName))
		fmt.Fprintf(&sb, "    Pattern:  %s\n", r.Pattern)
		if w.verbose {
			for _, s := range r.Slots {
				fmt.Fprintf(&sb, "    Slot %s: %s%s\n", s.Label, s.Kind, requiredMark(s.Required))
			}
		}
	}
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// WriteResolutions outputs one block per resolution followed by a summary.
func (w *SimpleWriter) WriteResolutions(results []*model.Resolution) (int, error) {
	var sb strings.Builder

	writeSection(&sb, "RESOLUTIONS")
	for _, r := range results {
		if r == nil {
			continue
		}
		fmt.Fprintf(&sb, "[%s] #%s\n", strings.ToUpper(r.Outcome()), r.Fragment)
		fmt.Fprintf(&sb, "    Page:  %s\n", dash(r.PageID))
		if r.Params != "" {
			fmt.Fprintf(&sb, "    Params: %s\n", r.Params)
		}
		fmt.Fprintf(&sb, "    URI:   %s\n", r.URI)
		fmt.Fprintf(&sb, "    State: %s\n", r.State)
		for _, p := range r.Problems {
			fmt.Fprintf(&sb, "    Problem: %s\n", p)
		}
		if r.Error != "" {
			fmt.Fprintf(&sb, "    Error: %s\n", r.Error)
		}
		if r.Depth > 0 {
			fmt.Fprintf(&sb, "    Depth: %d\n", r.Depth)
		}
		if w.verbose && len(r.Links) > 0 {
			fmt.Fprintf(&sb, "    Links: #%s\n", strings.Join(r.Links, ", #"))
		}
		if w.verbose && r.Content != "" {
			fmt.Fprintf(&sb, "    Content: %s\n", r.Content)
		}
	}
	sb.WriteString("\n")

	summary := Summarize(results)
	writeSection(&sb, "SUMMARY")
	for _, outcome := range model.Outcomes {
		fmt.Fprintf(&sb, "  %-10s %d\n", strings.ToUpper(outcome)+":", summary.Counts[outcome])
	}
	fmt.Fprintf(&sb, "\n  TOTAL:     %d fragments\n\n", summary.Total)

	return w.output.Write([]byte(sb.String()))
}

// WriteHistory outputs one line per recorded navigation, newest first as given.
func (w *SimpleWriter) WriteHistory(records []model.NavigationRecord) (int, error) {
	var sb strings.Builder

	writeSection(&sb, "HISTORY")
	if len(records) == 0 {
		sb.WriteString("  No navigations recorded\n\n")
		return w.output.Write([]byte(sb.String()))
	}

	for _, r := range records {
		change := "page"
		if !r.PageChanged {
			change = "params"
		}
		fmt.Fprintf(&sb, "  %s  %-20s %-6s %d params  window %s\n",
			r.PlacedAt.Format("2006-01-02 15:04:05 MST"), r.PageID, change, r.ParamCount, r.WindowID)
		if w.verbose {
			fmt.Fprintf(&sb, "    Digest: %s\n", r.ParamsDigest)
		}
	}
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// writeSection writes a section title between rules.
func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

// routeFlags lists the flags of a route, comma separated.
func routeFlags(r model.Route) string {
	var flags []string
	if r.Home {
		flags = append(flags, "home")
	}
	if r.Crawlable {
		flags = append(flags, "crawlable")
	}
	return strings.Join(flags, ", ")
}

func requiredMark(required bool) string {
	if required {
		return " (required)"
	}
	return ""
}
