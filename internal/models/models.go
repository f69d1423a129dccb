// Package models defines the canonical JSON value representation shared by
// every core component. A Value is a closed tagged union over the six JSON
// kinds; objects keep their members in insertion order.
package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns the lowercase JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Member is a single key/value entry of an object. Member order is the
// order the keys appeared in the source document.
type Member struct {
	Key   string
	Value *Value
}

// Value is the canonical in-memory JSON value. Immutable once built:
// nothing in this package or its consumers mutates a Value after
// construction.
type Value struct {
	kind    Kind
	boolVal bool
	numVal  float64
	strVal  string
	items   []*Value
	members []Member
}

var nullValue = &Value{kind: Null}

// NewNull returns the null value.
func NewNull() *Value { return nullValue }

// NewBool returns a boolean value.
func NewBool(b bool) *Value { return &Value{kind: Bool, boolVal: b} }

// NewNumber returns a number value. All JSON numbers are IEEE-754 doubles.
func NewNumber(f float64) *Value { return &Value{kind: Number, numVal: f} }

// NewString returns a string value.
func NewString(s string) *Value { return &Value{kind: String, strVal: s} }

// NewArray returns an array value holding the given items in order.
func NewArray(items ...*Value) *Value { return &Value{kind: Array, items: items} }

// NewObject returns an object value holding the given members in order.
func NewObject(members ...Member) *Value { return &Value{kind: Object, members: members} }

// Kind reports which variant this value holds.
func (v *Value) Kind() Kind { return v.kind }

// IsContainer reports whether the value is an object or an array.
func (v *Value) IsContainer() bool { return v.kind == Object || v.kind == Array }

// BoolVal returns the boolean payload. Only meaningful when Kind() == Bool.
func (v *Value) BoolVal() bool { return v.boolVal }

// NumberVal returns the numeric payload. Only meaningful when Kind() == Number.
func (v *Value) NumberVal() float64 { return v.numVal }

// StringVal returns the string payload. Only meaningful when Kind() == String.
func (v *Value) StringVal() string { return v.strVal }

// Items returns the array elements. Nil for non-arrays.
func (v *Value) Items() []*Value { return v.items }

// Members returns the object members in insertion order. Nil for non-objects.
func (v *Value) Members() []Member { return v.members }

// Len returns the number of elements or members, and 0 for primitives.
func (v *Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.members)
	default:
		return 0
	}
}

// Find returns the member value for key, scanning members in order.
func (v *Value) Find(key string) (*Value, bool) {
	if v.kind != Object {
		return nil, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// At returns the array element at index i.
func (v *Value) At(i int) (*Value, bool) {
	if v.kind != Array || i < 0 || i >= len(v.items) {
		return nil, false
	}
	return v.items[i], true
}

// Equal reports deep equality of two values. Objects must match in key
// order as well as content, mirroring the rest of the core's treatment of
// member order as significant.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.boolVal == b.boolVal
	case Number:
		return a.numVal == b.numVal
	case String:
		return a.strVal == b.strVal
	case Array:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if a.members[i].Key != b.members[i].Key || !Equal(a.members[i].Value, b.members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// EncodeJSON renders the value as compact JSON, preserving object member
// order. This is the canonical encoding used for statistics and fragment
// export.
func (v *Value) EncodeJSON() string {
	var sb strings.Builder
	v.encode(&sb)
	return sb.String()
}

func (v *Value) encode(sb *strings.Builder) {
	switch v.kind {
	case Null:
		sb.WriteString("null")
	case Bool:
		if v.boolVal {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case Number:
		sb.WriteString(EncodeNumber(v.numVal))
	case String:
		sb.WriteString(EncodeString(v.strVal))
	case Array:
		sb.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				sb.WriteByte(',')
			}
			item.encode(sb)
		}
		sb.WriteByte(']')
	case Object:
		sb.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(EncodeString(m.Key))
			sb.WriteByte(':')
			m.Value.encode(sb)
		}
		sb.WriteByte('}')
	}
}

// EncodeNumber renders a float64 the way encoding/json would.
func EncodeNumber(f float64) string {
	b, err := json.Marshal(f)
	if err != nil {
		// NaN/Inf cannot appear in a parsed document.
		return "null"
	}
	return string(b)
}

// EncodeString renders a quoted, escaped JSON string.
func EncodeString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// ToAny converts the value into plain Go types (map[string]any, []any,
// primitives) for collaborators that expect encoding/json shapes. Object
// member order is not representable in a map and is lost here.
func (v *Value) ToAny() any {
	switch v.kind {
	case Null:
		return nil
	case Bool:
		return v.boolVal
	case Number:
		return v.numVal
	case String:
		return v.strVal
	case Array:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.ToAny()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = m.Value.ToAny()
		}
		return out
	}
	return nil
}

// FromAny converts plain Go types into a canonical Value. Map keys are
// ordered alphabetically since Go maps carry no insertion order.
func FromAny(raw any) (*Value, error) {
	switch x := raw.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(x), nil
	case float64:
		return NewNumber(x), nil
	case int:
		return NewNumber(float64(x)), nil
	case int64:
		return NewNumber(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", x.String(), err)
		}
		return NewNumber(f), nil
	case string:
		return NewString(x), nil
	case []any:
		items := make([]*Value, len(x))
		for i, e := range x {
			v, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return NewArray(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, 0, len(x))
		for _, k := range keys {
			v, err := FromAny(x[k])
			if err != nil {
				return nil, err
			}
			members = append(members, Member{Key: k, Value: v})
		}
		return NewObject(members...), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", raw)
	}
}
