package types

import (
	"fmt"
	"sort"
)

// ValueKind discriminates the five value shapes a field bag entry can hold.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
	KindList
	KindMap
)

// String returns the kind name used in diagnostics.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the value kinds allowed in field bags:
// string, number, boolean, ordered list of strings, or a nested bag.
// Numbers are carried as float64 regardless of integer or float notation
// in the source document.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	list []string
	bag  *FieldBag
}

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue wraps a number.
func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// ListValue wraps an ordered list of strings. The slice is copied.
func ListValue(items []string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{kind: KindList, list: cp}
}

// MapValue wraps a nested field bag.
func MapValue(bag *FieldBag) Value { return Value{kind: KindMap, bag: bag} }

// Kind reports which variant the value holds.
func (v Value) Kind() ValueKind { return v.kind }

// AsString returns the string variant. Non-string values return their
// display form.
func (v Value) AsString() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v.ToAny())
	}
}

// AsNumber returns the numeric variant, or 0 for other kinds.
func (v Value) AsNumber() float64 {
	if v.kind == KindNumber {
		return v.num
	}
	return 0
}

// AsBool returns the boolean variant, or false for other kinds.
func (v Value) AsBool() bool {
	return v.kind == KindBool && v.b
}

// AsList returns a copy of the list variant, or nil for other kinds.
func (v Value) AsList() []string {
	if v.kind != KindList {
		return nil
	}
	cp := make([]string, len(v.list))
	copy(cp, v.list)
	return cp
}

// AsBag returns the nested bag variant, or nil for other kinds.
func (v Value) AsBag() *FieldBag {
	if v.kind != KindMap {
		return nil
	}
	return v.bag
}

// ToAny converts the value to the plain Go representation used by the
// serialisation layer and the template context: string, float64, bool,
// []string, or map[string]any.
func (v Value) ToAny() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindList:
		cp := make([]string, len(v.list))
		copy(cp, v.list)
		return cp
	case KindMap:
		return v.bag.ToMap()
	default:
		return nil
	}
}

// Equal reports deep equality of two values.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != o.list[i] {
				return false
			}
		}
		return true
	case KindMap:
		return v.bag.Equal(o.bag)
	default:
		return false
	}
}

// ValueFromAny converts a decoded document value into a Value. Accepted
// inputs are the scalar types produced by the TOML decoder plus string
// slices and nested maps. Integer types are widened to float64.
func ValueFromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case float64:
		return NumberValue(t), nil
	case float32:
		return NumberValue(float64(t)), nil
	case int:
		return NumberValue(float64(t)), nil
	case int64:
		return NumberValue(float64(t)), nil
	case []string:
		return ListValue(t), nil
	case []any:
		items := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return Value{}, fmt.Errorf("%w: list element %v", ErrUnsupportedValue, e)
			}
			items = append(items, s)
		}
		return ListValue(items), nil
	case map[string]any:
		bag, err := BagFromMap(t)
		if err != nil {
			return Value{}, err
		}
		return MapValue(bag), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, raw)
	}
}

// formatNumber renders a float without a trailing ".0" when it is integral.
func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%g", n)
}

// FieldBag is a mapping from string keys to tagged values. Keys are kept
// in sorted order regardless of insertion order, so a bag always matches
// its serialised form: TOML tables are emitted with sorted keys, and a
// decoded bag compares equal to the bag it was encoded from.
type FieldBag struct {
	keys   []string
	values map[string]Value
}

// NewFieldBag returns an empty bag.
func NewFieldBag() *FieldBag {
	return &FieldBag{values: make(map[string]Value)}
}

// BagFromMap builds a bag from a plain map.
func BagFromMap(m map[string]any) (*FieldBag, error) {
	bag := NewFieldBag()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := ValueFromAny(m[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		bag.Set(k, v)
	}
	return bag, nil
}

// Set stores a value, inserting a new key at its sorted position.
func (b *FieldBag) Set(key string, v Value) {
	if b.values == nil {
		b.values = make(map[string]Value)
	}
	if _, ok := b.values[key]; !ok {
		i := sort.SearchStrings(b.keys, key)
		b.keys = append(b.keys, "")
		copy(b.keys[i+1:], b.keys[i:])
		b.keys[i] = key
	}
	b.values[key] = v
}

// Get returns the value for key and whether it was present.
func (b *FieldBag) Get(key string) (Value, bool) {
	if b == nil || b.values == nil {
		return Value{}, false
	}
	v, ok := b.values[key]
	return v, ok
}

// Delete removes a key. Removing an absent key is a no-op.
func (b *FieldBag) Delete(key string) {
	if b == nil || b.values == nil {
		return
	}
	if _, ok := b.values[key]; !ok {
		return
	}
	delete(b.values, key)
	for i, k := range b.keys {
		if k == key {
			b.keys = append(b.keys[:i], b.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in sorted order.
func (b *FieldBag) Keys() []string {
	if b == nil {
		return nil
	}
	cp := make([]string, len(b.keys))
	copy(cp, b.keys)
	return cp
}

// Len returns the number of entries.
func (b *FieldBag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.keys)
}

// ToMap converts the bag to a plain map for serialisation or templating.
func (b *FieldBag) ToMap() map[string]any {
	if b == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(b.keys))
	for _, k := range b.keys {
		out[k] = b.values[k].ToAny()
	}
	return out
}

// Clone returns a deep copy of the bag.
func (b *FieldBag) Clone() *FieldBag {
	if b == nil {
		return nil
	}
	out := NewFieldBag()
	for _, k := range b.keys {
		v := b.values[k]
		if v.kind == KindMap {
			v = MapValue(v.bag.Clone())
		}
		out.Set(k, v)
	}
	return out
}

// Equal reports whether two bags hold the same keys with equal values.
// Key order is canonical, so a positional compare suffices. A nil bag
// equals an empty bag.
func (b *FieldBag) Equal(o *FieldBag) bool {
	if b.Len() != o.Len() {
		return false
	}
	if b == nil || o == nil {
		return true
	}
	for i, k := range b.keys {
		if o.keys[i] != k {
			return false
		}
		if !b.values[k].Equal(o.values[k]) {
			return false
		}
	}
	return true
}
