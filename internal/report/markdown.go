package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/net/html"

	"github.com/nao1215/fragnav/internal/model"
)

// maxCellLen bounds the width of free-text table cells.
const maxCellLen = 60

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation, which gives us tables, mermaid charts and GitHub alerts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteRoutes outputs the route table as a Markdown table.
func (w *MarkdownWriter) WriteRoutes(table *model.RouteTable) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Route Table")
	md.PlainText("")

	rows := make([][]string, 0, len(table.Routes))
	for _, r := range table.Routes {
		rows = append(rows, []string{
			"`" + r.PageID + "`",
			dash(r.URIName),
			"`" + r.Pattern + "`",
			dash(routeFlags(r)),
			dash(slotSummary(r.Slots)),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Page", "URI Name", "Example", "Flags", "Slots"},
		Rows:   rows,
	})
	md.PlainText("")

	if n := table.CrawlableCount(); n > 0 {
		md.Note(fmt.Sprintf("%d of %d pages use the crawlable \"#!\" prefix.", n, len(table.Routes)))
		md.PlainText("")
	}

	if !table.GeneratedAt.IsZero() {
		md.PlainText("Generated at " + table.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	}

	return len(md.String()), md.Build()
}

// WriteResolutions outputs the resolutions with an outcome chart.
func (w *MarkdownWriter) WriteResolutions(results []*model.Resolution) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := Summarize(results)

	md.H1("Fragment Resolutions")
	md.PlainText("")

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		rows = append(rows, []string{
			"`#" + r.Fragment + "`",
			r.Outcome(),
			dash(r.PageID),
			"`" + r.URI + "`",
			dash(cell(strings.Join(r.Problems, "; ") + r.Error)),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Fragment", "Outcome", "Page", "URI", "Details"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeSummary(md, summary)
	w.writeContent(md, results)

	return len(md.String()), md.Build()
}

// writeSummary writes the outcome table, chart and alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary Summary) {
	md.H2("Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(model.Outcomes)+1)
	for _, outcome := range model.Outcomes {
		rows = append(rows, []string{outcome, strconv.Itoa(summary.Counts[outcome])})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(summary.Total) + "**"})
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if summary.Total > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Resolution Outcomes"),
			piechart.WithShowData(true),
		)
		for _, outcome := range model.Outcomes {
			if n := summary.Counts[outcome]; n > 0 {
				chart.LabelAndIntValue(outcome, uint64(n))
			}
		}
		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch failed := summary.Counts[model.OutcomeError] + summary.Counts[model.OutcomeException]; {
	case failed > 0:
		md.Cautionf("%d fragment(s) failed to display a page.", failed)
	case summary.Counts[model.OutcomeProblem] > 0:
		md.Warningf("%d fragment(s) were displayed with problems.", summary.Counts[model.OutcomeProblem])
	case summary.Counts[model.OutcomeSuspended] > 0:
		md.Note(fmt.Sprintf("%d navigation(s) are waiting for confirmation.", summary.Counts[model.OutcomeSuspended]))
	case summary.Total > 0:
		md.Tip("Every fragment resolved cleanly.")
	}
	md.PlainText("")
}

// writeContent writes the rendered content of each placed page in a
// collapsible block. Content is HTML escaped since pages render markup.
func (w *MarkdownWriter) writeContent(md *markdown.Markdown, results []*model.Resolution) {
	var hasContent bool
	for _, r := range results {
		if r != nil && r.Content != "" {
			hasContent = true
			break
		}
	}
	if !hasContent {
		return
	}

	md.H2("Rendered Content")
	md.PlainText("")
	for _, r := range results {
		if r == nil || r.Content == "" {
			continue
		}
		md.Details("#"+r.Fragment, html.EscapeString(r.Content))
		md.PlainText("")
	}
}

// WriteHistory outputs recorded navigations as a Markdown table.
func (w *MarkdownWriter) WriteHistory(records []model.NavigationRecord) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Navigation History")
	md.PlainText("")

	if len(records) == 0 {
		md.PlainText("No navigations recorded.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		change := "page"
		if !r.PageChanged {
			change = "params"
		}
		rows = append(rows, []string{
			r.PlacedAt.Format("2006-01-02 15:04:05 MST"),
			"`" + r.PageID + "`",
			change,
			strconv.Itoa(r.ParamCount),
			"`" + truncateString(r.ParamsDigest, 12) + "`",
			truncateString(r.WindowID, 8),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Placed At", "Page", "Change", "Params", "Digest", "Window"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}

// slotSummary renders slots as "#0 string*, userId int64", * marking required.
func slotSummary(slots []model.RouteSlot) string {
	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		part := s.Label + " " + s.Kind
		if s.Required {
			part += "*"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// cell prepares free text for a table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return truncateString(html.EscapeString(s), maxCellLen)
}
