package param

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"go.uber.org/multierr"

	"github.com/nao1215/fragnav/internal/model"
)

// Spec declares one parameter slot of a page.
type Spec struct {
	position int
	name     string
	field    string
	required bool
	accessor Accessor
}

// Positional declares the slot at the 0-based position pos.
func Positional(pos int, accessor Accessor) Spec {
	return Spec{position: pos, accessor: accessor}
}

// Named declares the slot found under "name=value".
func Named(name string, accessor Accessor) Spec {
	return Spec{position: -1, name: name, accessor: accessor}
}

// Require returns a copy of the spec marked as required.
func (s Spec) Require() Spec {
	s.required = true
	return s
}

// Field returns a copy of the spec whose messages refer to the given field name.
func (s Spec) Field(name string) Spec {
	s.field = name
	return s
}

// IsPositional reports whether the slot is addressed by position.
func (s Spec) IsPositional() bool {
	return s.position >= 0 && s.name == ""
}

// Position returns the 0-based position, -1 for named slots.
func (s Spec) Position() int {
	if s.name != "" {
		return -1
	}
	return s.position
}

// Name returns the parameter name, "" for positional slots.
func (s Spec) Name() string {
	return s.name
}

// IsRequired reports whether a value must be present. Primitive slots are
// always required.
func (s Spec) IsRequired() bool {
	return s.required || s.accessor.primitive
}

// Accessor returns the slot accessor.
func (s Spec) Accessor() Accessor {
	return s.accessor
}

// Kind returns the declared value kind.
func (s Spec) Kind() Kind {
	return s.accessor.kind
}

// FieldName returns the field name used in messages.
func (s Spec) FieldName() string {
	switch {
	case s.field != "":
		return s.field
	case s.name != "":
		return s.name
	default:
		return "#" + strconv.Itoa(s.position)
	}
}

// Label returns "#0" for positional slots and the name for named ones.
func (s Spec) Label() string {
	if s.IsPositional() {
		return "#" + strconv.Itoa(s.position)
	}
	return s.name
}

// String describes the slot in messages.
func (s Spec) String() string {
	if s.IsPositional() {
		return fmt.Sprintf("position %d", s.position)
	}
	return fmt.Sprintf("named '%s'", s.name)
}

// ValidateSpecs checks the declarations of one page: positions contiguous
// from 0, no shared position or name, bound accessors, enum symbols and
// entity type tags present. Every problem is reported; each one is a
// *model.ConfigurationError and the combination can be split with
// multierr.Errors.
func ValidateSpecs(pageID string, specs []Spec) error {
	var errs error
	problem := func(format string, args ...any) {
		errs = multierr.Append(errs, model.NewConfigurationError("register", pageID, format, args...))
	}

	positions := make(map[int]bool)
	names := make(map[string]bool)

	for _, s := range specs {
		switch {
		case s.name != "":
			if names[s.name] {
				problem("parameter name %q is declared twice", s.name)
			}
			names[s.name] = true
		case s.position < 0:
			problem("parameter has neither a valid position nor a name (position %d)", s.position)
		default:
			if positions[s.position] {
				problem("position %d is declared twice", s.position)
			}
			positions[s.position] = true
		}

		if !s.accessor.bound() {
			problem("parameter %s has no accessor", s.Label())
			continue
		}
		if s.accessor.kind == KindEnum && len(s.accessor.symbols) == 0 {
			problem("enum parameter %s declares no symbols", s.Label())
		}
		if s.accessor.kind == KindEntity && s.accessor.entityType == "" {
			problem("entity parameter %s declares no entity type", s.Label())
		}
	}

	for pos := range len(positions) {
		if !positions[pos] {
			declared := slices.Sorted(maps.Keys(positions))
			problem("positional parameters must be contiguous from 0: position %d is missing (declared %v)", pos, declared)
			break
		}
	}

	return errs
}

// positionalSpecs returns the positional specs sorted by position.
func positionalSpecs(specs []Spec) []Spec {
	var out []Spec
	for _, s := range specs {
		if s.IsPositional() {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b Spec) int { return a.position - b.position })
	return out
}

// namedSpecs indexes the named specs by name.
func namedSpecs(specs []Spec) map[string]Spec {
	out := make(map[string]Spec)
	for _, s := range specs {
		if s.name != "" {
			out[s.name] = s
		}
	}
	return out
}
