package param

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/fragnav/internal/fragment"
	"github.com/nao1215/fragnav/internal/model"
)

// SpecSource returns the declared parameter specs of a page.
// registry.Registry implements it.
type SpecSource interface {
	Specs(pageID string) ([]Spec, error)
}

// EntityFinder looks entities up for entity-reference slots.
// found is false when no entity exists under key; err is reserved for
// lookup failures.
type EntityFinder interface {
	FindEntity(ctx context.Context, typeTag, key string) (entity any, found bool, err error)
}

// EntityFinderFunc adapts a function to the EntityFinder interface.
type EntityFinderFunc func(ctx context.Context, typeTag, key string) (any, bool, error)

// FindEntity calls f.
func (f EntityFinderFunc) FindEntity(ctx context.Context, typeTag, key string) (any, bool, error) {
	return f(ctx, typeTag, key)
}

// Converter converts raw values for enum and custom slots.
// A page implementing Converter is asked before the Binder's global one.
type Converter interface {
	ConvertParam(spec Spec, raw string) (value any, ok bool)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(spec Spec, raw string) (any, bool)

// ConvertParam calls f.
func (f ConverterFunc) ConvertParam(spec Spec, raw string) (any, bool) {
	return f(spec, raw)
}

// NamedValue is a value supplied for a named parameter when building links.
type NamedValue struct {
	Name  string
	Value any
}

// Arg creates a NamedValue.
func Arg(name string, value any) NamedValue {
	return NamedValue{Name: name, Value: value}
}

// Binder injects parameters into pages and renders parameters from values.
// A Binder holds no per-request state and is safe for concurrent use as long
// as its SpecSource, EntityFinder and Converter are.
type Binder struct {
	// source provides the specs of each page.
	source SpecSource

	// codec splits and joins parameter parts.
	codec *fragment.Codec

	// entities resolves entity-reference slots. Optional.
	entities EntityFinder

	// converter is the global converter for enum and custom slots. Optional.
	converter Converter

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Binder.
type Option func(*Binder)

// WithCodec sets the codec. The default uses "/" and "=".
func WithCodec(codec *fragment.Codec) Option {
	return func(b *Binder) {
		b.codec = codec
	}
}

// WithEntityFinder sets the entity lookup capability.
func WithEntityFinder(finder EntityFinder) Option {
	return func(b *Binder) {
		b.entities = finder
	}
}

// WithConverter sets the global converter.
func WithConverter(converter Converter) Option {
	return func(b *Binder) {
		b.converter = converter
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		b.logger = logger
	}
}

// NewBinder creates a Binder reading specs from source.
func NewBinder(source SpecSource, opts ...Option) *Binder {
	b := &Binder{
		source: source,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.codec == nil {
		b.codec = fragment.Default()
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// Codec returns the codec used by the Binder.
func (b *Binder) Codec() *fragment.Codec {
	return b.codec
}

// Declares reports whether the page declares any parameter slot.
func (b *Binder) Declares(pageID string) (bool, error) {
	specs, err := b.source.Specs(pageID)
	if err != nil {
		return false, err
	}
	return len(specs) > 0, nil
}

// Inject parses params into the slots of page.
//
// Specs are processed in declaration order and the first failure stops the
// injection: slots set before it keep their new values. An absent optional
// value resets its slot when cleanupUnset is true and leaves it untouched
// otherwise. Once every slot is processed, a page implementing
// model.ExtraValidator validates params as a whole.
//
// User input problems are returned as *model.ParamError; declaration
// problems as *model.ConfigurationError.
func (b *Binder) Inject(ctx context.Context, pageID string, page model.Page, params fragment.Params, cleanupUnset bool) error {
	specs, err := b.source.Specs(pageID)
	if err != nil {
		return err
	}

	named := namedSpecs(specs)

	for _, s := range specs {
		raw, ok := b.extract(s, params, named)
		if !ok {
			if s.IsRequired() {
				return missingParam(pageID, s)
			}
			if cleanupUnset {
				if err := b.reset(pageID, page, s); err != nil {
					return err
				}
			}
			continue
		}

		value, found, err := b.convert(ctx, pageID, page, s, raw)
		if err != nil {
			return err
		}
		if !found {
			if s.IsRequired() {
				return &model.ParamError{
					PageID:   pageID,
					Position: s.Position(),
					Name:     s.name,
					Field:    s.FieldName(),
					Value:    raw,
					Reason:   fmt.Sprintf("No %s found for value '%s' (field %s).", s.accessor.entityType, raw, s.FieldName()),
				}
			}
			if cleanupUnset {
				if err := b.reset(pageID, page, s); err != nil {
					return err
				}
			}
			continue
		}

		if !s.accessor.set(page, value) {
			return model.NewConfigurationError("inject", pageID,
				"parameter %s of type %s does not accept a %T on a %T", s, s.accessor.typeName, value, page)
		}

		b.logger.Debug("parameter injected",
			"page", pageID,
			"slot", s.Label(),
			"kind", s.Kind().String(),
		)
	}

	if v, ok := page.(model.ExtraValidator); ok {
		if msg := v.ValidateParams(params); msg != "" {
			return &model.ParamError{
				PageID:   pageID,
				Position: -1,
				Value:    params.String(),
				Reason:   msg,
			}
		}
	}

	return nil
}

// extract returns the raw token of a slot.
// A positional token shaped like a declared named parameter belongs to that
// named parameter. Empty tokens count as absent for every non-string slot.
func (b *Binder) extract(s Spec, params fragment.Params, named map[string]Spec) (string, bool) {
	var (
		raw string
		ok  bool
	)

	if s.IsPositional() {
		raw, ok = b.codec.Positional(params, s.position)
		if ok {
			if key, _, isNamed := b.codec.SplitToken(raw); isNamed {
				if _, declared := named[key]; declared {
					return "", false
				}
			}
		}
	} else {
		raw, ok = b.codec.Named(params, s.name)
	}

	if ok && raw == "" && s.Kind() != KindString {
		return "", false
	}
	return raw, ok
}

// reset puts a slot back to its unset representation.
func (b *Binder) reset(pageID string, page model.Page, s Spec) error {
	if !s.accessor.reset(page) {
		return model.NewConfigurationError("inject", pageID, "parameter %s cannot be reset on a %T", s, page)
	}
	return nil
}

// missingParam builds the error for an absent required value.
func missingParam(pageID string, s Spec) *model.ParamError {
	reason := fmt.Sprintf("Required value for parameter at position %d not found.", s.position)
	if !s.IsPositional() {
		reason = fmt.Sprintf("Required value for parameter named '%s' not found.", s.name)
	}

	return &model.ParamError{
		PageID:   pageID,
		Position: s.Position(),
		Name:     s.name,
		Field:    s.FieldName(),
		Reason:   reason,
	}
}

// BuildParams renders the canonical parameter part of a page from the given
// positional and named values.
//
// Positional values are rendered in index order. An absent optional value
// followed by a present one leaves a gap, filled by the next named value in
// the order given, or by an empty token when no named value remains. Named
// values left over are appended in the order given.
//
// Every misuse is a *model.ConfigurationError: too many positional values,
// a gap in the declared positions, a required value missing, a value whose
// type does not fit its slot, an unknown name, a name given twice.
func (b *Binder) BuildParams(pageID string, positional []any, named ...NamedValue) (fragment.Params, error) {
	specs, err := b.source.Specs(pageID)
	if err != nil {
		return fragment.Params{}, err
	}
	return b.render(pageID, specs, positional, named)
}

// ParamsOf renders the parameter part matching the current slot values of page.
func (b *Binder) ParamsOf(pageID string, page model.Page) (fragment.Params, error) {
	specs, err := b.source.Specs(pageID)
	if err != nil {
		return fragment.Params{}, err
	}

	posSpecs := positionalSpecs(specs)
	values := make([]any, len(posSpecs))
	last := -1
	for i, s := range posSpecs {
		if v, ok := s.accessor.get(page); ok {
			values[i] = v
			last = i
		}
	}

	var named []NamedValue
	for _, s := range specs {
		if s.IsPositional() {
			continue
		}
		if v, ok := s.accessor.get(page); ok {
			named = append(named, Arg(s.name, v))
		}
	}

	return b.render(pageID, specs, values[:last+1], named)
}

// LinkParams renders the parameter part of a link.
func (b *Binder) LinkParams(link *Link) (fragment.Params, error) {
	if link.err != nil {
		return fragment.Params{}, link.err
	}
	return b.BuildParams(link.pageID, link.positional, link.named...)
}

func (b *Binder) render(pageID string, specs []Spec, positional []any, named []NamedValue) (fragment.Params, error) {
	if err := ValidateSpecs(pageID, specs); err != nil {
		return fragment.Params{}, err
	}

	posSpecs := positionalSpecs(specs)
	if len(positional) > len(posSpecs) {
		return fragment.Params{}, model.NewConfigurationError("build", pageID,
			"%d positional values given but the page declares %d positional parameters", len(positional), len(posSpecs))
	}

	byName := namedSpecs(specs)
	seen := make(map[string]bool, len(named))
	namedTokens := make([]string, 0, len(named))

	for _, nv := range named {
		s, ok := byName[nv.Name]
		if !ok {
			return fragment.Params{}, model.NewConfigurationError("build", pageID, "no parameter named %q is declared", nv.Name)
		}
		if seen[nv.Name] {
			return fragment.Params{}, model.NewConfigurationError("build", pageID, "named value %q is given twice", nv.Name)
		}
		seen[nv.Name] = true

		token, present, err := b.format(pageID, s, nv.Value, byName)
		if err != nil {
			return fragment.Params{}, err
		}
		if !present {
			if s.IsRequired() {
				return fragment.Params{}, requiredMissing(pageID, s)
			}
			continue
		}
		namedTokens = append(namedTokens, b.codec.NamedToken(s.name, token))
	}

	for _, s := range specs {
		if !s.IsPositional() && s.IsRequired() && !seen[s.name] {
			return fragment.Params{}, requiredMissing(pageID, s)
		}
	}

	tokens := make([]string, len(positional))
	present := make([]bool, len(positional))
	last := -1

	for i, s := range posSpecs {
		var v any
		if i < len(positional) {
			v = positional[i]
		}

		token, ok, err := b.format(pageID, s, v, byName)
		if err != nil {
			return fragment.Params{}, err
		}
		if !ok {
			if s.IsRequired() {
				return fragment.Params{}, requiredMissing(pageID, s)
			}
			continue
		}
		tokens[i] = token
		present[i] = true
		last = i
	}

	out := make([]string, 0, last+1+len(namedTokens))
	next := 0
	for i := 0; i <= last; i++ {
		switch {
		case present[i]:
			out = append(out, tokens[i])
		case next < len(namedTokens):
			out = append(out, namedTokens[next])
			next++
		default:
			out = append(out, "")
		}
	}
	out = append(out, namedTokens[next:]...)

	return b.codec.Join(out), nil
}

func requiredMissing(pageID string, s Spec) *model.ConfigurationError {
	return model.NewConfigurationError("build", pageID, "required value missing for parameter %s", s)
}
