package navigator

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/nao1215/fragnav/internal/fragment"
	"github.com/nao1215/fragnav/internal/model"
	"github.com/nao1215/fragnav/internal/param"
	"github.com/nao1215/fragnav/internal/pipeline"
	"github.com/nao1215/fragnav/internal/registry"
)

// Application is the state shared by every window.
type Application struct {
	registry *registry.Registry
	codec    *fragment.Codec
	binder   *param.Binder
	pipeline *pipeline.Pipeline
	notifier model.Notifier
	layout   func() Layout
	dialog   Dialog
	logger   *slog.Logger

	// used to build the binder and the pipeline when they are not given.
	entities  param.EntityFinder
	converter param.Converter
	listeners []pipeline.PageChangeListener
	history   pipeline.HistoryRecorder
}

// AppOption configures an Application.
type AppOption func(*Application)

// WithCodec sets the fragment codec. The default uses "/" and "=".
func WithCodec(codec *fragment.Codec) AppOption {
	return func(a *Application) {
		a.codec = codec
	}
}

// WithEntityFinder sets the entity lookup used by entity parameter slots.
func WithEntityFinder(finder param.EntityFinder) AppOption {
	return func(a *Application) {
		a.entities = finder
	}
}

// WithConverter sets the global converter for enum and custom slots.
func WithConverter(converter param.Converter) AppOption {
	return func(a *Application) {
		a.converter = converter
	}
}

// WithPipeline replaces the standard interceptor list.
func WithPipeline(p *pipeline.Pipeline) AppOption {
	return func(a *Application) {
		a.pipeline = p
	}
}

// WithPageChangeListeners registers application-wide page change listeners
// on the standard interceptor list.
func WithPageChangeListeners(listeners ...pipeline.PageChangeListener) AppOption {
	return func(a *Application) {
		a.listeners = append(a.listeners, listeners...)
	}
}

// WithHistory records every placement with recorder.
func WithHistory(recorder pipeline.HistoryRecorder) AppOption {
	return func(a *Application) {
		a.history = recorder
	}
}

// WithNotifier sets where user facing problems are displayed.
// Problems are always kept on the window and logged.
func WithNotifier(notifier model.Notifier) AppOption {
	return func(a *Application) {
		a.notifier = notifier
	}
}

// WithLayout sets the layout created for every new window.
func WithLayout(factory func() Layout) AppOption {
	return func(a *Application) {
		a.layout = factory
	}
}

// WithDialog sets the dialog answering navigation warnings for every new
// window. Without one, warnings stay pending until the window is told.
func WithDialog(dialog Dialog) AppOption {
	return func(a *Application) {
		a.dialog = dialog
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) AppOption {
	return func(a *Application) {
		a.logger = logger
	}
}

// NewApplication creates an Application over a registry.
func NewApplication(reg *registry.Registry, opts ...AppOption) *Application {
	a := &Application{
		registry: reg,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.codec == nil {
		a.codec = fragment.Default()
	}
	if a.layout == nil {
		a.layout = func() Layout { return NewPlainLayout() }
	}

	binderOpts := []param.Option{param.WithCodec(a.codec), param.WithLogger(a.logger)}
	if a.entities != nil {
		binderOpts = append(binderOpts, param.WithEntityFinder(a.entities))
	}
	if a.converter != nil {
		binderOpts = append(binderOpts, param.WithConverter(a.converter))
	}
	a.binder = param.NewBinder(reg, binderOpts...)

	if a.pipeline == nil {
		a.pipeline = pipeline.Default(a.binder, a.listeners, pipeline.WithLogger(a.logger))
		if a.history != nil {
			a.pipeline.AddInterceptor(pipeline.NewHistoryInterceptor(a.history))
		}
	}

	return a
}

// Registry returns the page registry.
func (a *Application) Registry() *registry.Registry {
	return a.registry
}

// Codec returns the fragment codec.
func (a *Application) Codec() *fragment.Codec {
	return a.codec
}

// Binder returns the parameter binder.
func (a *Application) Binder() *param.Binder {
	return a.binder
}

// Pipeline returns the interceptor list.
func (a *Application) Pipeline() *pipeline.Pipeline {
	return a.pipeline
}

// Fragment renders the fragment of a page with the given parameters,
// without the leading "#".
func (a *Application) Fragment(pageID string, params fragment.Params) (string, error) {
	d, err := a.registry.ResolveByID(pageID)
	if err != nil {
		return "", err
	}
	return a.codec.Build(d, params, false), nil
}

// Href renders a link as a full fragment, "#" and crawlable marker included.
func (a *Application) Href(link *param.Link) (string, error) {
	params, err := a.binder.LinkParams(link)
	if err != nil {
		return "", err
	}
	d, err := a.registry.ResolveByID(link.PageID())
	if err != nil {
		return "", err
	}
	return a.codec.Build(d, params, true), nil
}

// RouteTable describes every registered page.
func (a *Application) RouteTable() model.RouteTable {
	descriptors := a.registry.Descriptors()
	table := model.RouteTable{
		Routes:      make([]model.Route, 0, len(descriptors)),
		GeneratedAt: time.Now(),
	}

	for _, d := range descriptors {
		route := model.Route{
			PageID:    d.ID,
			URIName:   d.URIName(),
			Home:      d.IsHome(),
			Crawlable: d.IsCrawlable(),
			Pattern:   a.pattern(d),
		}
		for _, s := range d.Params {
			route.Slots = append(route.Slots, model.RouteSlot{
				Label:    s.Label(),
				Kind:     s.Kind().String(),
				Required: s.IsRequired(),
			})
		}
		table.Routes = append(table.Routes, route)
	}

	return table
}

// pattern renders a fragment template such as "#!Product/{#0}/userId={userId}".
func (a *Application) pattern(d registry.Descriptor) string {
	positional := make([]param.Spec, 0, len(d.Params))
	for _, s := range d.Params {
		if s.IsPositional() {
			positional = append(positional, s)
		}
	}
	slices.SortFunc(positional, func(x, y param.Spec) int { return x.Position() - y.Position() })

	tokens := make([]string, 0, len(d.Params))
	for _, s := range positional {
		tokens = append(tokens, "{"+s.Label()+"}")
	}
	for _, s := range d.Params {
		if !s.IsPositional() {
			tokens = append(tokens, a.codec.NamedToken(s.Name(), "{"+s.Name()+"}"))
		}
	}
	return a.codec.Build(d, a.codec.Join(tokens), true)
}

// notify displays a problem through the configured notifier.
func (a *Application) notify(ctx context.Context, problem model.Problem) {
	a.logger.Warn("navigation problem",
		"message", problem.Message,
		"detail", problem.Detail,
		"fragment", problem.Fragment,
		"page", problem.PageID,
	)
	if a.notifier != nil {
		a.notifier.ReportProblem(ctx, problem)
	}
}
