package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Properties is an insertion-ordered map from field name to [Value].
//
// Order is taken from the JSON text so that re-emitted documents and DOT
// previews list fields the way the scanner wrote them. The zero value is an
// empty, ready-to-use map. Properties is not safe for concurrent mutation.
type Properties struct {
	keys []string
	vals map[string]Value
}

// NewProperties builds Properties from alternating key/value pairs.
// It panics on an odd number of arguments; it is meant for literals in code
// and tests.
func NewProperties(kv ...any) Properties {
	if len(kv)%2 != 0 {
		panic("graph.NewProperties: odd number of arguments")
	}
	var p Properties
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("graph.NewProperties: key %v is not a string", kv[i]))
		}
		p.Set(key, ValueOf(kv[i+1]))
	}
	return p
}

// ValueOf converts a plain Go value into a [Value]. Unsupported types are
// rendered with %v as strings.
func ValueOf(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case string:
		return String(t)
	case []string:
		vs := make([]Value, len(t))
		for i, s := range t {
			vs[i] = String(s)
		}
		return List(vs...)
	case []any:
		vs := make([]Value, len(t))
		for i, e := range t {
			vs[i] = ValueOf(e)
		}
		return List(vs...)
	default:
		return String(fmt.Sprintf("%v", t))
	}
}

// Len returns the number of keys.
func (p Properties) Len() int { return len(p.keys) }

// Keys returns the keys in insertion order. The slice is a copy.
func (p Properties) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Get returns the value for key and whether it is present.
func (p Properties) Get(key string) (Value, bool) {
	v, ok := p.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (p Properties) Has(key string) bool {
	_, ok := p.vals[key]
	return ok
}

// String returns the string value for key, or "" when the key is missing or
// does not hold a string.
func (p Properties) String(key string) string {
	if v, ok := p.vals[key]; ok {
		s, _ := v.AsString()
		return s
	}
	return ""
}

// Set stores v under key. Existing keys keep their position.
func (p *Properties) Set(key string, v Value) {
	if p.vals == nil {
		p.vals = make(map[string]Value)
	}
	if _, ok := p.vals[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.vals[key] = v
}

// Delete removes key if present.
func (p *Properties) Delete(key string) {
	if _, ok := p.vals[key]; !ok {
		return
	}
	delete(p.vals, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i:i], p.keys[i+1:]...)
			break
		}
	}
}

// Clone returns an independent copy.
func (p Properties) Clone() Properties {
	out := Properties{
		keys: append([]string(nil), p.keys...),
		vals: make(map[string]Value, len(p.vals)),
	}
	for k, v := range p.vals {
		out.vals[k] = v
	}
	return out
}

// Merge copies every key of other into p. Values from other win; keys only
// present in p are left untouched. This is the store's merge-on-key rule.
func (p *Properties) Merge(other Properties) {
	for _, k := range other.keys {
		p.Set(k, other.vals[k])
	}
}

// Compact returns a copy of p without null values. Graph stores treat a null
// property as absent, and writing one would remove the stored key.
func (p Properties) Compact() Properties {
	var out Properties
	for _, k := range p.keys {
		if v := p.vals[k]; !v.IsNull() {
			out.Set(k, v)
		}
	}
	return out
}

// Equal reports whether p and o hold the same keys and values, ignoring order.
func (p Properties) Equal(o Properties) bool {
	if len(p.keys) != len(o.keys) {
		return false
	}
	for k, v := range p.vals {
		ov, ok := o.vals[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Each calls fn for every key in insertion order.
func (p Properties) Each(fn func(key string, v Value)) {
	for _, k := range p.keys {
		fn(k, p.vals[k])
	}
}

// Native converts p into the map handed to database drivers.
func (p Properties) Native() map[string]any {
	out := make(map[string]any, len(p.keys))
	for _, k := range p.keys {
		out[k] = p.vals[k].Native()
	}
	return out
}

// MarshalJSON implements json.Marshaler, preserving key order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := p.vals[k].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. The input must be a JSON object;
// duplicate keys keep their first position and their last value.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %s", describeToken(tok))
	}

	*p = Properties{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}
		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}
		p.Set(key, v)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func describeToken(tok json.Token) string {
	switch t := tok.(type) {
	case nil:
		return "null"
	case json.Delim:
		if t == '[' {
			return "array"
		}
		return string(t)
	case string:
		return "string"
	case bool:
		return "bool"
	case float64, json.Number:
		return "number"
	}
	return fmt.Sprintf("%T", tok)
}
