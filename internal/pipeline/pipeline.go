package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/fragnav/internal/fragment"
	"github.com/nao1215/fragnav/internal/model"
)

// Invocation errors.
var (
	// ErrInvocationFinished is returned when Invoke is called on an invocation
	// that was already placed or aborted.
	ErrInvocationFinished = errors.New("invocation already finished")

	// ErrNotSuspended is returned by Resume when the invocation is not suspended.
	ErrNotSuspended = errors.New("invocation is not suspended")
)

// Interceptor defines the interface that every chain step must implement.
//
// Design decision: We use an interface rather than function types because
// interceptors carry configuration state and a Name() for logging.
type Interceptor interface {
	// Intercept inspects or mutates the invocation and calls inv.Invoke to
	// continue the chain. Returning without calling it suspends the
	// invocation unless inv.Abort was called. Returned errors end the
	// navigation; user input problems should be reported and aborted instead.
	Intercept(ctx context.Context, inv *Invocation) error

	// Name returns the interceptor's name for logging purposes.
	Name() string
}

// Func adapts a function to the Interceptor interface.
type Func struct {
	name string
	fn   func(ctx context.Context, inv *Invocation) error
}

// NewFunc creates a named interceptor from a function.
func NewFunc(name string, fn func(ctx context.Context, inv *Invocation) error) *Func {
	return &Func{name: name, fn: fn}
}

// Intercept calls the function.
func (f *Func) Intercept(ctx context.Context, inv *Invocation) error {
	return f.fn(ctx, inv)
}

// Name returns the interceptor name.
func (f *Func) Name() string {
	return f.name
}

// Host is the window a page is placed in. The navigator implements it.
type Host interface {
	// WindowID identifies the window in logs and events.
	WindowID() string

	// Instantiate creates a fresh instance of a registered page.
	Instantiate(pageID string) (model.Page, error)

	// CurrentPage returns the placed page and its identifier, nil and ""
	// before the first placement.
	CurrentPage() (model.Page, string)

	// Place detaches the current page and attaches page in its place.
	Place(ctx context.Context, page model.Page, event model.NavigationEvent) error

	// UpdateURI rewrites the visible fragment.
	UpdateURI(pageID string, params fragment.Params) error

	// Confirm asks the user to confirm leaving a page. proceed resumes the
	// navigation and cancel discards it; the host may call either later.
	Confirm(ctx context.Context, message string, proceed func(context.Context) error, cancel func()) error

	// ReportProblem shows a user facing problem.
	ReportProblem(ctx context.Context, problem model.Problem)
}

// Pipeline holds the ordered, application-wide interceptor list.
// Interceptors are added at startup; afterwards the Pipeline is only read
// and can be shared by concurrent navigations.
type Pipeline struct {
	// interceptors contains the ordered list of interceptors.
	interceptors []Interceptor

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Interceptors should be added using AddInterceptor after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		interceptors: make([]Interceptor, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddInterceptor appends an interceptor to the pipeline.
// Interceptors run in the order they are added.
func (p *Pipeline) AddInterceptor(ic Interceptor) {
	p.interceptors = append(p.interceptors, ic)
}

// AddInterceptors appends multiple interceptors to the pipeline.
func (p *Pipeline) AddInterceptors(ics ...Interceptor) {
	p.interceptors = append(p.interceptors, ics...)
}

// Count returns the number of interceptors in the pipeline.
func (p *Pipeline) Count() int {
	return len(p.interceptors)
}

// Names returns the names of all interceptors in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.interceptors))
	for i, ic := range p.interceptors {
		names[i] = ic.Name()
	}
	return names
}

// Logger returns the pipeline logger.
func (p *Pipeline) Logger() *slog.Logger {
	return p.logger
}

// Request is a navigation request.
type Request struct {
	// PageID is the target page.
	PageID string

	// Params are the parameters of the target page.
	Params fragment.Params

	// NeedsURIUpdate rewrites the visible fragment after placement.
	NeedsURIUpdate bool

	// Page is the instance to reuse for an in-place parameter update.
	// nil means a fresh instance is created when first needed.
	Page model.Page
}

// NewInvocation starts an invocation of req in host.
// Nothing runs until Invoke is called.
func (p *Pipeline) NewInvocation(host Host, req Request) *Invocation {
	return &Invocation{
		pipeline:       p,
		host:           host,
		pageID:         req.PageID,
		params:         req.Params,
		needsURIUpdate: req.NeedsURIUpdate,
		page:           req.Page,
		reused:         req.Page != nil,
		state:          StatePending,
	}
}

// Run starts an invocation of req and invokes it.
func (p *Pipeline) Run(ctx context.Context, host Host, req Request) (*Invocation, error) {
	inv := p.NewInvocation(host, req)
	return inv, inv.Invoke(ctx)
}
