package fragment

import "strings"

const (
	// DefaultParamSeparator separates the page name from the parameters and
	// the parameters from each other.
	DefaultParamSeparator = "/"

	// DefaultValueSeparator separates the key from the value of a named parameter.
	DefaultValueSeparator = "="

	// CrawlableMarker prefixes the fragment of a crawlable page.
	CrawlableMarker = "!"

	// Hash is the character that introduces the fragment in a URL.
	Hash = "#"
)

// Target is the addressing information of a page needed to build its fragment.
// registry.Descriptor satisfies it.
type Target interface {
	// URIName is the page name as it appears in the fragment.
	URIName() string

	// IsHome reports whether the page is the home page, which is addressed
	// by its parameters alone.
	IsHome() bool

	// IsCrawlable reports whether the fragment carries the "!" marker.
	IsCrawlable() bool
}

// Split is the result of parsing a fragment.
// An empty PageName means no page name was present: the home page is addressed.
type Split struct {
	// PageName is the page name with the crawlable marker stripped.
	PageName string

	// Params is the parameter part. Its zero value means no parameters.
	Params Params

	// Crawlable reports whether the fragment carried the "!" marker.
	Crawlable bool
}

// AddressesHome reports whether the fragment has no page name and therefore
// addresses the home page.
func (s Split) AddressesHome() bool {
	return s.PageName == ""
}

// Codec parses and builds fragments.
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	paramSeparator string
	valueSeparator string
}

// Option configures a Codec.
type Option func(*Codec)

// WithParamSeparator sets the separator between page name and parameters
// and between parameters. The default is "/".
func WithParamSeparator(sep string) Option {
	return func(c *Codec) {
		c.paramSeparator = sep
	}
}

// WithValueSeparator sets the separator between the key and the value of
// a named parameter. The default is "=".
func WithValueSeparator(sep string) Option {
	return func(c *Codec) {
		c.valueSeparator = sep
	}
}

// NewCodec creates a Codec. It fails when the configured separators are
// empty, equal to each other, or contain a reserved character.
func NewCodec(opts ...Option) (*Codec, error) {
	c := &Codec{
		paramSeparator: DefaultParamSeparator,
		valueSeparator: DefaultValueSeparator,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.paramSeparator == "" || c.valueSeparator == "" {
		return nil, ErrEmptySeparator
	}
	if c.paramSeparator == c.valueSeparator {
		return nil, ErrSameSeparators
	}
	reserved := Hash + CrawlableMarker
	if strings.ContainsAny(c.paramSeparator, reserved) || strings.ContainsAny(c.valueSeparator, reserved) {
		return nil, ErrReservedSeparator
	}

	return c, nil
}

// Default returns a Codec using "/" and "=".
func Default() *Codec {
	return &Codec{
		paramSeparator: DefaultParamSeparator,
		valueSeparator: DefaultValueSeparator,
	}
}

// ParamSeparator returns the parameter separator.
func (c *Codec) ParamSeparator() string {
	return c.paramSeparator
}

// ValueSeparator returns the key/value separator of named parameters.
func (c *Codec) ValueSeparator() string {
	return c.valueSeparator
}

// Parse splits a fragment into page name and parameter part.
// A leading "#" is tolerated so that the output of Build can be fed back.
//
//	""               -> (none, none)
//	"ticket"         -> ("ticket", none)
//	"!ticket/ABC"    -> ("ticket", "ABC"), crawlable
//	"/a/b"           -> (none, "a/b")
//	"ticket/"        -> ("ticket", none)
func (c *Codec) Parse(fragment string) Split {
	fragment = strings.TrimPrefix(fragment, Hash)
	if fragment == "" {
		return Split{}
	}

	var split Split
	if rest, ok := strings.CutPrefix(fragment, CrawlableMarker); ok {
		split.Crawlable = true
		fragment = rest
	}

	name, params, found := strings.Cut(fragment, c.paramSeparator)
	split.PageName = name
	if found && params != "" {
		split.Params = ParamsOf(params)
	}

	return split
}

// Build renders the fragment of a page.
// The home page omits its name and is addressed by "/" followed by its
// parameters, so that Parse gives them back as home page parameters.
// The crawlable marker prefixes the name of crawlable pages, so the home
// page never carries it.
func (c *Codec) Build(target Target, params Params, includeHash bool) string {
	var sb strings.Builder

	if includeHash {
		sb.WriteString(Hash)
	}
	if !target.IsHome() {
		if target.IsCrawlable() {
			sb.WriteString(CrawlableMarker)
		}
		sb.WriteString(target.URIName())
	}
	if !params.IsEmpty() {
		sb.WriteString(c.paramSeparator)
		sb.WriteString(params.String())
	}

	return sb.String()
}
