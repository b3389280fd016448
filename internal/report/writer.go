package report

import (
	"io"

	"github.com/nao1215/fragnav/internal/model"
)

// Writer defines the interface for report output.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files or stdout with the
// same API.
type Writer interface {
	// WriteRoutes outputs the route table.
	// Returns the number of bytes written and any error encountered.
	WriteRoutes(table *model.RouteTable) (int, error)

	// WriteResolutions outputs the results of resolving fragments.
	WriteResolutions(results []*model.Resolution) (int, error)

	// WriteHistory outputs recorded navigations.
	WriteHistory(records []model.NavigationRecord) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteRoutes outputs the route table to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteRoutes(table *model.RouteTable) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteRoutes(table) })
}

// WriteResolutions outputs the resolutions to all configured Writers.
func (m *MultiWriter) WriteResolutions(results []*model.Resolution) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteResolutions(results) })
}

// WriteHistory outputs the history to all configured Writers.
func (m *MultiWriter) WriteHistory(records []model.NavigationRecord) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteHistory(records) })
}

func (m *MultiWriter) each(write func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := write(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Summary counts resolutions per outcome.
type Summary struct {
	Total  int            `json:"total"`
	Counts map[string]int `json:"counts"`
}

// Summarize counts resolutions per outcome. Nil entries, left by a
// cancelled batch, are skipped.
func Summarize(results []*model.Resolution) Summary {
	s := Summary{Counts: make(map[string]int, len(model.Outcomes))}
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Total++
		s.Counts[r.Outcome()]++
	}
	return s
}

// dash returns "-" for empty cells.
func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
