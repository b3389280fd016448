package registry

import (
	"fmt"
	"log/slog"

	"go.uber.org/multierr"

	"github.com/nao1215/fragnav/internal/model"
	"github.com/nao1215/fragnav/internal/param"
)

// Factory creates a fresh page instance.
type Factory func() (model.Page, error)

// Descriptor declares a navigable page.
type Descriptor struct {
	// ID is the stable identifier used by code to address the page.
	ID string

	// Name is the URI name. When empty, DefaultURIName(ID) is used.
	Name string

	// Crawlable marks pages whose fragments carry the "!" marker.
	Crawlable bool

	// Params declares the parameter slots of the page.
	Params []param.Spec

	// New creates page instances.
	New Factory

	home bool
}

// URIName returns the page name as it appears in fragments.
func (d Descriptor) URIName() string {
	if d.Name != "" {
		return d.Name
	}
	return DefaultURIName(d.ID)
}

// IsHome reports whether the page is the registry's home page.
func (d Descriptor) IsHome() bool {
	return d.home
}

// IsCrawlable reports whether the page is crawlable.
func (d Descriptor) IsCrawlable() bool {
	return d.Crawlable
}

// Registry resolves pages by identifier and by case-insensitive URI name.
type Registry struct {
	pages  []Descriptor
	byID   map[string]int
	byName map[string]int
	home   int
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*options)

type options struct {
	homeID string
	logger *slog.Logger
}

// WithHomePage selects the home page by identifier. The first page is the
// home page by default.
func WithHomePage(id string) Option {
	return func(o *options) {
		o.homeID = id
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New registers pages. It fails when the list is empty, when two pages share
// an identifier or a URI name (compared case-insensitively), when a factory
// is missing, when the home page is unknown, or when a page's parameter
// declarations are malformed. Every problem found is reported.
func New(pages []Descriptor, opts ...Option) (*Registry, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	if len(pages) == 0 {
		return nil, model.NewConfigurationError("register", "", "no pages to register")
	}

	r := &Registry{
		pages:  make([]Descriptor, len(pages)),
		byID:   make(map[string]int, len(pages)),
		byName: make(map[string]int, len(pages)),
		logger: o.logger,
	}

	var errs error
	for i, d := range pages {
		r.pages[i] = d

		if d.ID == "" {
			errs = multierr.Append(errs, model.NewConfigurationError("register", "",
				"page %d has no identifier", i))
			continue
		}
		if _, dup := r.byID[d.ID]; dup {
			errs = multierr.Append(errs, model.NewConfigurationError("register", d.ID,
				"identifier is registered twice"))
			continue
		}
		r.byID[d.ID] = i

		key := foldName(d.URIName())
		if key == "" {
			errs = multierr.Append(errs, model.NewConfigurationError("register", d.ID,
				"URI name is empty"))
		} else if prev, dup := r.byName[key]; dup {
			errs = multierr.Append(errs, model.NewConfigurationError("register", d.ID,
				"URI name %q collides with page %q", d.URIName(), r.pages[prev].ID))
		} else {
			r.byName[key] = i
		}

		if d.New == nil {
			errs = multierr.Append(errs, model.NewConfigurationError("register", d.ID,
				"page has no factory"))
		}

		errs = multierr.Append(errs, param.ValidateSpecs(d.ID, d.Params))
	}

	r.home = 0
	if o.homeID != "" {
		idx, ok := r.byID[o.homeID]
		if !ok {
			errs = multierr.Append(errs, model.NewConfigurationError("register", o.homeID,
				"home page is not registered"))
		}
		r.home = idx
	}

	if errs != nil {
		return nil, errs
	}

	r.pages[r.home].home = true

	r.logger.Debug("pages registered",
		"count", len(r.pages),
		"home", r.pages[r.home].ID,
	)

	return r, nil
}

// ResolveByName finds a page by URI name, case-insensitively.
func (r *Registry) ResolveByName(name string) (Descriptor, bool) {
	idx, ok := r.byName[foldName(name)]
	if !ok {
		return Descriptor{}, false
	}
	return r.pages[idx], true
}

// ResolveByID finds a page by identifier. An unknown identifier is a
// programming mistake reported as *model.ConfigurationError.
func (r *Registry) ResolveByID(id string) (Descriptor, error) {
	idx, ok := r.byID[id]
	if !ok {
		return Descriptor{}, model.NewConfigurationError("resolve", id, "page is not registered")
	}
	return r.pages[idx], nil
}

// Home returns the home page.
func (r *Registry) Home() Descriptor {
	return r.pages[r.home]
}

// Descriptors returns every page in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.pages))
	copy(out, r.pages)
	return out
}

// Count returns the number of registered pages.
func (r *Registry) Count() int {
	return len(r.pages)
}

// Specs returns the parameter declarations of a page. It implements
// param.SpecSource.
func (r *Registry) Specs(pageID string) ([]param.Spec, error) {
	d, err := r.ResolveByID(pageID)
	if err != nil {
		return nil, err
	}
	return d.Params, nil
}

// Instantiate creates a fresh instance of a page.
// The factory error is returned as is; callers wrap it.
func (r *Registry) Instantiate(pageID string) (model.Page, error) {
	d, err := r.ResolveByID(pageID)
	if err != nil {
		return nil, err
	}
	page, err := d.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create page %s: %w", pageID, err)
	}
	return page, nil
}
