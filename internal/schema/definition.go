// Package schema loads methodology definitions from the templates
// directory and resolves the typed field set a use case must carry for a
// (methodology, level) view, following level inheritance.
package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/mucm/pkg/types"
)

// Field types accepted in methodology definitions.
const (
	FieldString  = "string"
	FieldText    = "text"
	FieldNumber  = "number"
	FieldBoolean = "boolean"
	FieldArray   = "array"
)

var validFieldTypes = map[string]bool{
	FieldString:  true,
	FieldText:    true,
	FieldNumber:  true,
	FieldBoolean: true,
	FieldArray:   true,
}

// Field is a single typed field declared by a methodology level.
type Field struct {
	Name        string
	Type        string // One of the Field type constants.
	Required    bool
	Default     string // Raw default, parsed per Type at use.
	Label       string // Display label; falls back to the name.
	Description string
}

// DisplayLabel returns the label, or a title-cased form of the name when
// no label was declared.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	words := strings.Split(strings.ReplaceAll(f.Name, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// HasDefault reports whether the field declares a default value.
func (f Field) HasDefault() bool {
	return f.Default != ""
}

// Coerce parses a raw string into a typed value per the field's declared
// type. Array input is split on commas with surrounding space trimmed.
func (f Field) Coerce(raw string) (types.Value, error) {
	switch f.Type {
	case FieldString, FieldText:
		return types.StringValue(raw), nil
	case FieldNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return types.Value{}, fmt.Errorf("%w: field %q expects a number, got %q", ErrTypeMismatch, f.Name, raw)
		}
		return types.NumberValue(n), nil
	case FieldBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return types.Value{}, fmt.Errorf("%w: field %q expects a boolean, got %q", ErrTypeMismatch, f.Name, raw)
		}
		return types.BoolValue(b), nil
	case FieldArray:
		if strings.TrimSpace(raw) == "" {
			return types.ListValue(nil), nil
		}
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return types.ListValue(parts), nil
	default:
		return types.Value{}, fmt.Errorf("%w: field %q has unknown type %q", ErrTypeMismatch, f.Name, f.Type)
	}
}

// CoerceAny validates an already-typed value against the field's declared
// type, converting where the shapes are compatible. Strings are parsed via
// Coerce.
func (f Field) CoerceAny(raw any) (types.Value, error) {
	if s, ok := raw.(string); ok {
		return f.Coerce(s)
	}
	v, err := types.ValueFromAny(raw)
	if err != nil {
		return types.Value{}, err
	}
	want := map[string]types.ValueKind{
		FieldNumber:  types.KindNumber,
		FieldBoolean: types.KindBool,
		FieldArray:   types.KindList,
	}
	if k, ok := want[f.Type]; ok {
		if v.Kind() != k {
			return types.Value{}, fmt.Errorf("%w: field %q expects %s, got %s", ErrTypeMismatch, f.Name, f.Type, v.Kind())
		}
		return v, nil
	}
	// string and text accept any scalar's display form.
	return types.StringValue(v.AsString()), nil
}

// Level is one documentation level within a methodology.
type Level struct {
	Name         string
	Abbreviation string
	Filename     string // Template filename for this level.
	Description  string
	Inherits     []string // Names of levels whose fields this level absorbs.
	Fields       []Field  // Own fields, ordered by name.
}

// Methodology is a named family of levels and field schemas loaded from a
// methodology definition file.
type Methodology struct {
	Name        string
	Title       string
	Description string
	WhenToUse   []string
	KeyFeatures []string
	Levels      []Level // Ordered by name.
}

// Level returns the level with the given name.
func (m *Methodology) Level(name string) (Level, error) {
	for _, l := range m.Levels {
		if l.Name == name {
			return l, nil
		}
	}
	return Level{}, fmt.Errorf("%w: %s/%s", ErrLevelNotFound, m.Name, name)
}
