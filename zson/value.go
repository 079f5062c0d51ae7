package zson

import (
	"fmt"
	"iter"
)

// Kind identifies the case of a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
	// KindExtension is reported by caller-defined values, which only an
	// EncoderExtension can encode.
	KindExtension
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindExtension:
		return "extension"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Value is a node of a zson value tree.
//
// The built-in cases are Null, Bool, Int, Float, String, List and *Map, plus
// the producer cases ListFunc, MapFunc and StringFunc which are only ever
// encoded. A Decoder returns built-in cases only, unless a DecoderExtension
// produces its own.
type Value interface {
	Kind() Kind
}

var (
	_ Value = Null{}
	_ Value = Bool(false)
	_ Value = Int(0)
	_ Value = Float(0)
	_ Value = String("")
	_ Value = List(nil)
	_ Value = (*Map)(nil)
	_ Value = ListFunc(nil)
	_ Value = MapFunc(nil)
	_ Value = StringFunc(nil)
)

// Null is the null value.
type Null struct{}

// Bool is a boolean value.
type Bool bool

// Int is a signed integer value. The format carries integers in 32 bits.
type Int int32

// Float is a floating-point value. Integral floats that fit an Int are
// encoded as integers and therefore decode as Int.
type Float float64

// String is a text value.
type String string

// List is an ordered sequence of values.
type List []Value

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Int) Kind() Kind    { return KindInt }
func (Float) Kind() Kind  { return KindFloat }
func (String) Kind() Kind { return KindString }
func (List) Kind() Kind   { return KindList }

// Entry is a single key/value pair of a Map.
type Entry struct {
	Key   string
	Value Value
}

// Map is a string-keyed map that remembers insertion order. The zero value
// is an empty map ready to use.
type Map struct {
	entries []Entry
	index   map[string]int
}

// NewMap returns a map holding entries in order. A repeated key overwrites
// the value of its first occurrence.
func NewMap(entries ...Entry) *Map {
	m := &Map{}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

func (*Map) Kind() Kind { return KindMap }

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Set stores v under key. An existing key keeps its position.
func (m *Map) Set(key string, v Value) {
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = v
		return
	}
	if m.index == nil {
		m.index = make(map[string]int)
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: v})
}

// Delete removes key from the map.
func (m *Map) Delete(key string) {
	if m == nil {
		return
	}
	i, ok := m.index[key]
	if !ok {
		return
	}
	delete(m.index, key)
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].Key] = j
	}
}

// Entries returns the entries in insertion order. The slice is shared with
// the map and must not be modified.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	return m.entries
}

// All iterates over the entries in insertion order.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, e := range m.Entries() {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, m.Len())
	for _, e := range m.Entries() {
		keys = append(keys, e.Key)
	}
	return keys
}

// ListFunc produces the elements of a list on demand. The encoder writes the
// list tag, calls the function once, then writes the terminator; the function
// encodes each element with e.Encode.
type ListFunc func(e *Encoder) error

// MapFunc produces the entries of a map on demand, one w.Entry call per entry.
type MapFunc func(w *MapWriter) error

// StringFunc produces the text of a string on demand.
type StringFunc func(w *StringWriter) error

func (ListFunc) Kind() Kind   { return KindList }
func (MapFunc) Kind() Kind    { return KindMap }
func (StringFunc) Kind() Kind { return KindString }
