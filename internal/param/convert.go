package param

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/nao1215/fragnav/internal/model"
)

// convert turns a raw token into a value of the slot kind.
// found is false only for entity slots whose key matches no entity.
func (b *Binder) convert(ctx context.Context, pageID string, page model.Page, s Spec, raw string) (any, bool, error) {
	switch s.Kind() {
	case KindString:
		return raw, true, nil

	case KindInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, false, numberError(pageID, s, raw)
		}
		return v, true, nil

	case KindInt64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false, numberError(pageID, s, raw)
		}
		return v, true, nil

	case KindFloat64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false, numberError(pageID, s, raw)
		}
		return v, true, nil

	case KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, false, paramError(pageID, s, raw,
				fmt.Sprintf("The value '%s' in URL is expected to be true or false (field %s).", raw, s.FieldName()))
		}
		return v, true, nil

	case KindEntity:
		return b.findEntity(ctx, pageID, s, raw)

	case KindEnum:
		if slices.Contains(s.accessor.symbols, raw) {
			return raw, true, nil
		}
		if v, ok := b.customConvert(page, s, raw); ok {
			return v, true, nil
		}
		return nil, false, paramError(pageID, s, raw,
			fmt.Sprintf("The value '%s' in URL is not one of %s (field %s).", raw, strings.Join(s.accessor.symbols, ", "), s.FieldName()))

	default:
		if v, ok := b.customConvert(page, s, raw); ok {
			return v, true, nil
		}
		return nil, false, paramError(pageID, s, raw,
			fmt.Sprintf("Cannot convert value '%s' into type %s (field %s).", raw, s.accessor.typeName, s.FieldName()))
	}
}

// customConvert asks the page converter first, then the global one.
func (b *Binder) customConvert(page model.Page, s Spec, raw string) (any, bool) {
	if c, ok := page.(Converter); ok {
		if v, ok := c.ConvertParam(s, raw); ok {
			return v, true
		}
	}
	if b.converter != nil {
		return b.converter.ConvertParam(s, raw)
	}
	return nil, false
}

// findEntity delegates entity slots to the EntityFinder.
func (b *Binder) findEntity(ctx context.Context, pageID string, s Spec, raw string) (any, bool, error) {
	if b.entities == nil {
		return nil, false, model.NewConfigurationError("inject", pageID,
			"entity parameter %s needs an entity finder", s)
	}

	entity, found, err := b.entities.FindEntity(ctx, s.accessor.entityType, raw)
	if err != nil {
		return nil, false, fmt.Errorf("failed to find %s %q: %w", s.accessor.entityType, raw, err)
	}
	if !found || isNil(entity) {
		return nil, false, nil
	}
	return entity, true, nil
}

func numberError(pageID string, s Spec, raw string) *model.ParamError {
	return paramError(pageID, s, raw,
		fmt.Sprintf("The value '%s' in URL is expected to be a number (field %s).", raw, s.FieldName()))
}

func paramError(pageID string, s Spec, raw, reason string) *model.ParamError {
	return &model.ParamError{
		PageID:   pageID,
		Position: s.Position(),
		Name:     s.name,
		Field:    s.FieldName(),
		Value:    raw,
		Reason:   reason,
	}
}

// format renders a supplied value as a token. present is false for nil
// values, nil pointers and the empty string.
func (b *Binder) format(pageID string, s Spec, v any, named map[string]Spec) (string, bool, error) {
	if isNil(v) {
		return "", false, nil
	}

	token, ok := formatValue(s, v)
	if !ok {
		return "", false, model.NewConfigurationError("build", pageID,
			"a value of type %T does not fit parameter %s of kind %s", v, s, s.Kind())
	}
	if token == "" {
		return "", false, nil
	}

	if s.Kind() == KindEnum && !slices.Contains(s.accessor.symbols, token) {
		return "", false, model.NewConfigurationError("build", pageID,
			"value %q of parameter %s is not one of %s", token, s, strings.Join(s.accessor.symbols, ", "))
	}
	if strings.Contains(token, b.codec.ParamSeparator()) {
		return "", false, model.NewConfigurationError("build", pageID,
			"value %q of parameter %s contains the parameter separator %q", token, s, b.codec.ParamSeparator())
	}
	if s.IsPositional() {
		if key, _, isNamed := b.codec.SplitToken(token); isNamed {
			if _, declared := named[key]; declared {
				return "", false, model.NewConfigurationError("build", pageID,
					"value %q of parameter %s would be read as the named parameter %q", token, s, key)
			}
		}
	}

	return token, true, nil
}

// formatValue converts v to its textual form when its type fits the slot kind.
func formatValue(s Spec, v any) (string, bool) {
	switch s.Kind() {
	case KindString:
		switch x := v.(type) {
		case string:
			return x, true
		case *string:
			return *x, true
		}

	case KindInt:
		switch x := v.(type) {
		case int:
			return strconv.Itoa(x), true
		case *int:
			return strconv.Itoa(*x), true
		}

	case KindInt64:
		switch x := v.(type) {
		case int64:
			return strconv.FormatInt(x, 10), true
		case *int64:
			return strconv.FormatInt(*x, 10), true
		case int:
			return strconv.Itoa(x), true
		case int32:
			return strconv.FormatInt(int64(x), 10), true
		}

	case KindFloat64:
		switch x := v.(type) {
		case float64:
			return strconv.FormatFloat(x, 'f', -1, 64), true
		case *float64:
			return strconv.FormatFloat(*x, 'f', -1, 64), true
		case float32:
			return strconv.FormatFloat(float64(x), 'f', -1, 32), true
		}

	case KindBool:
		switch x := v.(type) {
		case bool:
			return strconv.FormatBool(x), true
		case *bool:
			return strconv.FormatBool(*x), true
		}

	case KindEntity:
		if k, ok := v.(model.EntityKeyer); ok {
			return k.EntityKey(), true
		}

	case KindEnum:
		switch x := v.(type) {
		case string:
			return x, true
		case fmt.Stringer:
			return x.String(), true
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.String {
			return rv.String(), true
		}

	case KindCustom:
		if check := s.accessor.checkType; check != nil {
			var ok bool
			if v, ok = check(v); !ok {
				return "", false
			}
		}
		switch x := v.(type) {
		case string:
			return x, true
		case fmt.Stringer:
			return x.String(), true
		default:
			return fmt.Sprint(v), true
		}
	}

	return "", false
}

// isNil reports whether v is nil or a nil pointer, map, slice or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
