package param

import (
	"fmt"
	"strings"
)

// Kind is the declared value type of a parameter slot.
type Kind int

const (
	// KindString holds the raw token.
	KindString Kind = iota

	// KindInt holds a decimal int.
	KindInt

	// KindInt64 holds a decimal int64.
	KindInt64

	// KindFloat64 holds a float64 parsed with locale independent rules.
	KindFloat64

	// KindBool holds a boolean as accepted by strconv.ParseBool.
	KindBool

	// KindEntity holds an entity looked up by type tag and key.
	KindEntity

	// KindEnum holds one symbol of a declared set.
	KindEnum

	// KindCustom holds a value converted by a page or global Converter.
	KindCustom
)

// String returns the kind name used in configuration files and reports.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	case KindEntity:
		return "entity"
	case KindEnum:
		return "enum"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Numeric reports whether the kind is parsed as a number or a boolean.
func (k Kind) Numeric() bool {
	switch k {
	case KindInt, KindInt64, KindFloat64, KindBool:
		return true
	default:
		return false
	}
}

// kindAliases maps accepted spellings to kinds.
var kindAliases = map[string]Kind{
	"string":  KindString,
	"int":     KindInt,
	"integer": KindInt,
	"int64":   KindInt64,
	"long":    KindInt64,
	"float64": KindFloat64,
	"float":   KindFloat64,
	"double":  KindFloat64,
	"bool":    KindBool,
	"boolean": KindBool,
	"entity":  KindEntity,
	"enum":    KindEnum,
	"custom":  KindCustom,
}

// ParseKind parses a kind name, case-insensitively. The empty string is KindString.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return KindString, nil
	}
	if k, ok := kindAliases[s]; ok {
		return k, nil
	}
	return KindString, fmt.Errorf("unknown parameter kind %q", s)
}
