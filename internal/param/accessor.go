package param

import (
	"fmt"
	"slices"
)

// Accessor reads and writes one parameter slot of a page instance.
// Build accessors with the generic constructors of this file; the zero
// value is unbound and rejected at registration.
type Accessor struct {
	kind       Kind
	primitive  bool
	typeName   string
	entityType string
	symbols    []string

	set   func(page, value any) bool
	get   func(page any) (any, bool)
	reset func(page any) bool

	// checkType unwraps a supplied value of the slot type. nil accepts
	// any value.
	checkType func(value any) (any, bool)
}

// Kind returns the declared value kind.
func (a Accessor) Kind() Kind {
	return a.kind
}

// Primitive reports whether the slot cannot represent "absent".
// Primitive slots are implicitly required.
func (a Accessor) Primitive() bool {
	return a.primitive
}

// TypeName returns the Go type of the slot, for messages.
func (a Accessor) TypeName() string {
	return a.typeName
}

// EntityType returns the type tag used for entity lookups.
func (a Accessor) EntityType() string {
	return a.entityType
}

// Symbols returns the accepted symbols of an enum slot.
func (a Accessor) Symbols() []string {
	return slices.Clone(a.symbols)
}

// WithSymbols returns a copy of the accessor accepting the given enum symbols.
func (a Accessor) WithSymbols(symbols ...string) Accessor {
	a.symbols = slices.Clone(symbols)
	return a
}

// WithEntityType returns a copy of the accessor looking entities up under typeTag.
func (a Accessor) WithEntityType(typeTag string) Accessor {
	a.entityType = typeTag
	return a
}

// bound reports whether the accessor was built by a constructor.
func (a Accessor) bound() bool {
	return a.set != nil && a.get != nil && a.reset != nil
}

// Int binds a primitive int field.
func Int[P any](field func(P) *int) Accessor {
	return primitive(KindInt, field)
}

// Int64 binds a primitive int64 field.
func Int64[P any](field func(P) *int64) Accessor {
	return primitive(KindInt64, field)
}

// Float64 binds a primitive float64 field.
func Float64[P any](field func(P) *float64) Accessor {
	return primitive(KindFloat64, field)
}

// Bool binds a primitive bool field.
func Bool[P any](field func(P) *bool) Accessor {
	return primitive(KindBool, field)
}

// OptionalInt binds a nullable int field. nil means absent.
func OptionalInt[P any](field func(P) **int) Accessor {
	return optional(KindInt, field)
}

// OptionalInt64 binds a nullable int64 field. nil means absent.
func OptionalInt64[P any](field func(P) **int64) Accessor {
	return optional(KindInt64, field)
}

// OptionalFloat64 binds a nullable float64 field. nil means absent.
func OptionalFloat64[P any](field func(P) **float64) Accessor {
	return optional(KindFloat64, field)
}

// OptionalBool binds a nullable bool field. nil means absent.
func OptionalBool[P any](field func(P) **bool) Accessor {
	return optional(KindBool, field)
}

// String binds a string field. The empty string means absent.
func String[P any](field func(P) *string) Accessor {
	return comparableField(KindString, field)
}

// EntityRef binds a field holding an entity looked up under typeTag.
// E is usually a pointer type; its zero value means absent.
func EntityRef[P any, E comparable](typeTag string, field func(P) *E) Accessor {
	a := comparableField(KindEntity, field)
	a.entityType = typeTag
	return a
}

// Enum binds a field holding one of the given symbols. The empty string means absent.
func Enum[P any, E ~string](symbols []E, field func(P) *E) Accessor {
	syms := make([]string, len(symbols))
	for i, s := range symbols {
		syms[i] = string(s)
	}

	return Accessor{
		kind:     KindEnum,
		typeName: typeNameOf[E](),
		symbols:  syms,
		set: func(page, value any) bool {
			p, ok := page.(P)
			if !ok {
				return false
			}
			switch v := value.(type) {
			case E:
				*field(p) = v
			case string:
				*field(p) = E(v)
			default:
				return false
			}
			return true
		},
		get: func(page any) (any, bool) {
			p, ok := page.(P)
			if !ok {
				return nil, false
			}
			v := *field(p)
			return string(v), v != ""
		},
		reset: func(page any) bool {
			p, ok := page.(P)
			if !ok {
				return false
			}
			*field(p) = ""
			return true
		},
	}
}

// Custom binds a field of a type only a Converter understands.
// The zero value of T means absent.
// Values supplied to links must be a T or a *T.
func Custom[P any, T comparable](field func(P) *T) Accessor {
	a := comparableField(KindCustom, field)
	a.checkType = func(value any) (any, bool) {
		switch v := value.(type) {
		case T:
			return v, true
		case *T:
			return *v, true
		default:
			return nil, false
		}
	}
	return a
}

// SlotHolder is a page storing slot values by key instead of in fields.
// model.DynamicPage implements it.
type SlotHolder interface {
	SetSlot(key string, value any)
	Slot(key string) (any, bool)
	ResetSlot(key string)
}

// Dynamic binds the slot key of a SlotHolder page. Dynamic slots are never
// primitive since a holder can always represent absence.
func Dynamic(kind Kind, key string) Accessor {
	return Accessor{
		kind:     kind,
		typeName: kind.String(),
		set: func(page, value any) bool {
			h, ok := page.(SlotHolder)
			if !ok {
				return false
			}
			h.SetSlot(key, value)
			return true
		},
		get: func(page any) (any, bool) {
			h, ok := page.(SlotHolder)
			if !ok {
				return nil, false
			}
			return h.Slot(key)
		},
		reset: func(page any) bool {
			h, ok := page.(SlotHolder)
			if !ok {
				return false
			}
			h.ResetSlot(key)
			return true
		},
	}
}

func primitive[P any, T any](kind Kind, field func(P) *T) Accessor {
	return Accessor{
		kind:      kind,
		primitive: true,
		typeName:  typeNameOf[T](),
		set: func(page, value any) bool {
			p, ok := page.(P)
			if !ok {
				return false
			}
			v, ok := value.(T)
			if !ok {
				return false
			}
			*field(p) = v
			return true
		},
		get: func(page any) (any, bool) {
			p, ok := page.(P)
			if !ok {
				return nil, false
			}
			return *field(p), true
		},
		reset: func(any) bool {
			return false
		},
	}
}

func optional[P any, T any](kind Kind, field func(P) **T) Accessor {
	return Accessor{
		kind:     kind,
		typeName: typeNameOf[*T](),
		set: func(page, value any) bool {
			p, ok := page.(P)
			if !ok {
				return false
			}
			v, ok := value.(T)
			if !ok {
				return false
			}
			*field(p) = &v
			return true
		},
		get: func(page any) (any, bool) {
			p, ok := page.(P)
			if !ok {
				return nil, false
			}
			ptr := *field(p)
			if ptr == nil {
				return nil, false
			}
			return *ptr, true
		},
		reset: func(page any) bool {
			p, ok := page.(P)
			if !ok {
				return false
			}
			*field(p) = nil
			return true
		},
	}
}

func comparableField[P any, T comparable](kind Kind, field func(P) *T) Accessor {
	return Accessor{
		kind:     kind,
		typeName: typeNameOf[T](),
		set: func(page, value any) bool {
			p, ok := page.(P)
			if !ok {
				return false
			}
			v, ok := value.(T)
			if !ok {
				return false
			}
			*field(p) = v
			return true
		},
		get: func(page any) (any, bool) {
			p, ok := page.(P)
			if !ok {
				return nil, false
			}
			var zero T
			v := *field(p)
			return v, v != zero
		},
		reset: func(page any) bool {
			p, ok := page.(P)
			if !ok {
				return false
			}
			var zero T
			*field(p) = zero
			return true
		},
	}
}

func typeNameOf[T any]() string {
	return fmt.Sprintf("%T", new(T))[1:]
}
