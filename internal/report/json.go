package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/fragnav/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json: every reported type is a
// plain struct with json tags, and the model types carry those tags already.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is written alongside every document when set.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion adds the fragnav version to every document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// routesDocument wraps the route table with metadata.
type routesDocument struct {
	Version string            `json:"version,omitempty"`
	Routes  *model.RouteTable `json:"route_table"`
}

// resolutionsDocument wraps resolutions with their summary.
type resolutionsDocument struct {
	Version     string              `json:"version,omitempty"`
	Summary     Summary             `json:"summary"`
	Resolutions []*model.Resolution `json:"resolutions"`
}

// historyDocument wraps recorded navigations.
type historyDocument struct {
	Version     string                   `json:"version,omitempty"`
	Navigations []model.NavigationRecord `json:"navigations"`
}

// WriteRoutes outputs the route table in JSON format.
func (w *JSONWriter) WriteRoutes(table *model.RouteTable) (int, error) {
	return w.writeJSON(routesDocument{Version: w.version, Routes: table})
}

// WriteResolutions outputs the resolutions in JSON format.
func (w *JSONWriter) WriteResolutions(results []*model.Resolution) (int, error) {
	return w.writeJSON(resolutionsDocument{
		Version:     w.version,
		Summary:     Summarize(results),
		Resolutions: results,
	})
}

// WriteHistory outputs recorded navigations in JSON format.
func (w *JSONWriter) WriteHistory(records []model.NavigationRecord) (int, error) {
	if records == nil {
		records = []model.NavigationRecord{}
	}
	return w.writeJSON(historyDocument{Version: w.version, Navigations: records})
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	// Trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
