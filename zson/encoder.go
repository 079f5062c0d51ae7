package zson

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/holmberd/go-zson/zson/internal/wire"
)

// SinkFunc adapts a function accepting single bytes to io.ByteWriter.
type SinkFunc func(b byte) error

func (f SinkFunc) WriteByte(b byte) error { return f(b) }

// Encoder writes zson tokens to a byte sink.
//
// Besides the built-in Value cases, Encode accepts plain Go values: nil,
// bool, string, all integer and float types, []any, []Value, map[string]any
// and map[string]Value. Go maps are written with their keys sorted.
type Encoder struct {
	w        io.ByteWriter
	float32  bool
	ext      EncoderExtension
	maxDepth int
	depth    int
	scratch  [9]byte // Largest scalar token: float64.
}

// NewEncoder returns an Encoder writing to w. The Encoder never buffers more
// than one scalar token; every other byte goes straight to w.
func NewEncoder(w io.ByteWriter, opts ...Option) *Encoder {
	o := newOptions(opts)
	return &Encoder{
		w:        w,
		float32:  o.floatWidth == FloatWidth32,
		ext:      o.encExt,
		maxDepth: o.maxDepth,
	}
}

// Marshal returns the zson encoding of v.
func Marshal(v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, opts...).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the encoding of v. On error the bytes already written do not
// form a valid token and must be discarded.
func (e *Encoder) Encode(v any) error {
	if e.ext != nil {
		handled, err := e.ext.EncodeExtension(e, v)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}

	switch x := v.(type) {
	case nil, Null:
		return e.WriteByte(wire.TagNull)
	case Bool:
		return e.encodeBool(bool(x))
	case Int:
		return e.encodeInt(int32(x))
	case Float:
		return e.encodeNumber(float64(x))
	case String:
		return e.encodeString(string(x))
	case List:
		return e.encodeList(x)
	case *Map:
		return e.encodeMap(x)
	case ListFunc:
		if x == nil {
			return &EncodeError{Type: fmt.Sprintf("%T", x)}
		}
		return e.encodeListFunc(x)
	case MapFunc:
		if x == nil {
			return &EncodeError{Type: fmt.Sprintf("%T", x)}
		}
		return e.encodeMapFunc(x)
	case StringFunc:
		if x == nil {
			return &EncodeError{Type: fmt.Sprintf("%T", x)}
		}
		return e.encodeStringFunc(x)

	case bool:
		return e.encodeBool(x)
	case string:
		return e.encodeString(x)
	case int:
		return e.encodeInt64(int64(x))
	case int8:
		return e.encodeInt(int32(x))
	case int16:
		return e.encodeInt(int32(x))
	case int32:
		return e.encodeInt(x)
	case int64:
		return e.encodeInt64(x)
	case uint:
		return e.encodeUint64(uint64(x))
	case uint8:
		return e.encodeInt(int32(x))
	case uint16:
		return e.encodeInt(int32(x))
	case uint32:
		return e.encodeUint64(uint64(x))
	case uint64:
		return e.encodeUint64(x)
	case float32:
		return e.encodeNumber(float64(x))
	case float64:
		return e.encodeNumber(x)
	case []Value:
		return e.encodeList(List(x))
	case []any:
		return e.encodeSlice(x)
	case map[string]Value:
		return e.encodeGoMap(sortedKeys(x), func(k string) any { return x[k] })
	case map[string]any:
		return e.encodeGoMap(sortedKeys(x), func(k string) any { return x[k] })
	}
	return &EncodeError{Type: fmt.Sprintf("%T", v)}
}

// WriteByte writes a raw byte to the sink. It exists for extensions writing
// their own payloads.
func (e *Encoder) WriteByte(b byte) error {
	if err := e.w.WriteByte(b); err != nil {
		return fmt.Errorf("zson: write: %w", err)
	}
	return nil
}

func (e *Encoder) write(p []byte) error {
	for _, b := range p {
		if err := e.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeBool(b bool) error {
	if b {
		return e.WriteByte(wire.TagTrue)
	}
	return e.WriteByte(wire.TagFalse)
}

func (e *Encoder) encodeInt(v int32) error {
	return e.write(wire.AppendInt(e.scratch[:0], v))
}

// encodeInt64 writes integers outside the int32 range as floats, the same
// way a number that does not fit the integer codec is written.
func (e *Encoder) encodeInt64(v int64) error {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return e.encodeInt(int32(v))
	}
	return e.encodeFloat(float64(v))
}

func (e *Encoder) encodeUint64(v uint64) error {
	if v <= math.MaxInt32 {
		return e.encodeInt(int32(v))
	}
	return e.encodeFloat(float64(v))
}

func (e *Encoder) encodeNumber(f float64) error {
	if i, ok := wire.AsInt32(f); ok {
		return e.encodeInt(i)
	}
	return e.encodeFloat(f)
}

func (e *Encoder) encodeFloat(f float64) error {
	if e.float32 {
		return e.write(wire.AppendFloat32(e.scratch[:0], float32(f)))
	}
	return e.write(wire.AppendFloat64(e.scratch[:0], f))
}

func (e *Encoder) encodeString(s string) error {
	if err := e.WriteByte(wire.TagString); err != nil {
		return err
	}
	if err := e.writeStringPayload(s); err != nil {
		return err
	}
	return e.WriteByte(wire.Terminator)
}

// writeStringPayload writes the untagged, unterminated bytes of s.
func (e *Encoder) writeStringPayload(s string) error {
	for _, r := range s {
		if err := e.writeRune(r); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) writeRune(r rune) error {
	return e.write(wire.AppendRune(e.scratch[:0], r))
}

func (e *Encoder) encodeStringFunc(f StringFunc) error {
	if err := e.WriteByte(wire.TagString); err != nil {
		return err
	}
	if err := f(&StringWriter{e: e}); err != nil {
		return err
	}
	return e.WriteByte(wire.Terminator)
}

// container writes tag, runs body one nesting level deeper, then writes the
// terminator.
func (e *Encoder) container(tag byte, body func() error) error {
	if e.maxDepth > 0 && e.depth >= e.maxDepth {
		return ErrMaxDepth
	}
	e.depth++
	defer func() { e.depth-- }()

	if err := e.WriteByte(tag); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	return e.WriteByte(wire.Terminator)
}

func (e *Encoder) encodeList(l List) error {
	return e.container(wire.TagList, func() error {
		for _, v := range l {
			if err := e.Encode(v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (e *Encoder) encodeSlice(s []any) error {
	return e.container(wire.TagList, func() error {
		for _, v := range s {
			if err := e.Encode(v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (e *Encoder) encodeListFunc(f ListFunc) error {
	return e.container(wire.TagList, func() error {
		return f(e)
	})
}

func (e *Encoder) encodeMap(m *Map) error {
	return e.container(wire.TagMap, func() error {
		for _, entry := range m.Entries() {
			if err := e.encodeEntry(entry.Key, entry.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (e *Encoder) encodeGoMap(keys []string, get func(string) any) error {
	return e.container(wire.TagMap, func() error {
		for _, k := range keys {
			if err := e.encodeEntry(k, get(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (e *Encoder) encodeMapFunc(f MapFunc) error {
	return e.container(wire.TagMap, func() error {
		return f(&MapWriter{e: e})
	})
}

// encodeEntry writes one map entry: the value, then the untagged key and its
// terminator.
func (e *Encoder) encodeEntry(key string, v any) error {
	if err := e.Encode(v); err != nil {
		return err
	}
	if err := e.writeStringPayload(key); err != nil {
		return err
	}
	return e.WriteByte(wire.Terminator)
}

// MapWriter is handed to a MapFunc to emit entries.
type MapWriter struct {
	e *Encoder
}

// Entry writes the entry key: v.
func (w *MapWriter) Entry(key string, v any) error {
	return w.e.encodeEntry(key, v)
}

// Encoder returns the underlying encoder.
func (w *MapWriter) Encoder() *Encoder {
	return w.e
}

// StringWriter is handed to a StringFunc to emit text.
type StringWriter struct {
	e *Encoder
}

// WriteString appends s to the string being written.
func (w *StringWriter) WriteString(s string) error {
	return w.e.writeStringPayload(s)
}

// WriteRune appends r to the string being written.
func (w *StringWriter) WriteRune(r rune) error {
	return w.e.writeRune(r)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
