package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	// KindUndefined is the zero Value: a key that is absent. Merge skips it.
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return "undefined"
}

// Value is a JSON-shaped document node. Values returned by this package never
// share list or map storage with their inputs.
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	list []Value
	m    map[string]Value
}

func Undefined() Value { return Value{} }
func Null() Value { return Value{kind: KindNull} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func String(s string) Value { return Value{kind: KindString, str: s} }
func Number(n json.Number) Value { return Value{kind: KindNumber, num: n} }
func Int(n int64) Value { return Number(json.Number(strconv.FormatInt(n, 10))) }
func List(items ...Value) Value { return Value{kind: KindList, list: cloneList(items)} }
func Map(m map[string]Value) Value { return Value{kind: KindMap, m: cloneMap(m)} }

// Object builds a map from alternating key/value pairs; it panics on odd input.
func Object(pairs ...any) Value {
	if len(pairs)%2 != 0 {
		panic("content.Object: odd number of arguments")
	}
	m := make(map[string]Value, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("content.Object: key %v is not a string", pairs[i]))
		}
		m[key] = mustFromAny(pairs[i+1])
	}
	return Value{kind: KindMap, m: m}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) IsList() bool { return v.kind == KindList }
func (v Value) IsMap() bool { return v.kind == KindMap }

// AsString returns the string payload when v is a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

func (v Value) AsNumber() (json.Number, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return v.num, true
}

// Get returns the member at key, or Undefined when v is not a map or lacks the key.
func (v Value) Get(key string) Value {
	if v.kind != KindMap {
		return Value{}
	}
	return v.m[key]
}

// Path walks nested maps.
func (v Value) Path(keys ...string) Value {
	cur := v
	for _, key := range keys {
		cur = cur.Get(key)
	}
	return cur
}

// Str is shorthand for reading a string member, returning "" otherwise.
func (v Value) Str(key string) string {
	s, _ := v.Get(key).AsString()
	return s
}

func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return len(v.m)
	}
	return 0
}

// Items returns a copy of the list elements.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return cloneList(v.list)
}

// Keys returns map keys in sorted order.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// With returns a copy of the map v with key set to child. Non-map receivers start empty.
func (v Value) With(key string, child Value) Value {
	out := Value{kind: KindMap, m: map[string]Value{}}
	if v.kind == KindMap {
		out.m = cloneMap(v.m)
	}
	out.m[key] = child.Clone()
	return out
}

// Clone deep-copies v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		return Value{kind: KindList, list: cloneList(v.list)}
	case KindMap:
		return Value{kind: KindMap, m: cloneMap(v.m)}
	}
	return v
}

// Equal reports deep equality. Numbers compare by their literal text.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(o.m) {
			return false
		}
		for k, child := range v.m {
			other, ok := o.m[k]
			if !ok || !child.Equal(other) {
				return false
			}
		}
		return true
	}
	return true
}

func cloneList(in []Value) []Value {
	if in == nil {
		return []Value{}
	}
	out := make([]Value, len(in))
	for i, item := range in {
		out[i] = item.Clone()
	}
	return out
}

func cloneMap(in map[string]Value) map[string]Value {
	out := make(map[string]Value, len(in))
	for k, item := range in {
		out[k] = item.Clone()
	}
	return out
}

// MarshalJSON writes maps with sorted keys and drops undefined members.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindUndefined, KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(v.num.String())
	case KindString:
		b, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		first := true
		for _, k := range v.Keys() {
			child := v.m[k]
			if child.IsUndefined() {
				continue
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			key, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := child.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// UnmarshalJSON decodes any JSON document; numbers keep their literal text.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Parse decodes a JSON document into a Value.
func Parse(data []byte) (Value, error) {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return Value{}, err
	}
	return v, nil
}

// FromAny converts decoded JSON (or simple Go literals) into a Value.
func FromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x.Clone(), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case json.Number:
		return Number(x), nil
	case float64:
		return Number(json.Number(strconv.FormatFloat(x, 'f', -1, 64))), nil
	case int:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case []any:
		list := make([]Value, len(x))
		for i, item := range x {
			child, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			list[i] = child
		}
		return Value{kind: KindList, list: list}, nil
	case []Value:
		return List(x...), nil
	case []string:
		list := make([]Value, len(x))
		for i, s := range x {
			list[i] = String(s)
		}
		return Value{kind: KindList, list: list}, nil
	case map[string]any:
		m := make(map[string]Value, len(x))
		for k, item := range x {
			child, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			m[k] = child
		}
		return Value{kind: KindMap, m: m}, nil
	case map[string]Value:
		return Map(x), nil
	}
	return Value{}, fmt.Errorf("content: unsupported type %T", raw)
}

func mustFromAny(raw any) Value {
	v, err := FromAny(raw)
	if err != nil {
		panic(err)
	}
	return v
}
