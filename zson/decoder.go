package zson

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf16"

	"github.com/holmberd/go-zson/zson/internal/wire"
)

// Decoder reads zson tokens from a byte source.
//
// A Decoder may read several consecutive values from one source: no byte of
// the next value is consumed by Decode.
type Decoder struct {
	cur      cursor
	ext      DecoderExtension
	maxDepth int
	depth    int
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.ByteReader, opts ...Option) *Decoder {
	o := newOptions(opts)
	return &Decoder{
		cur:      cursor{r: r},
		ext:      o.decExt,
		maxDepth: o.maxDepth,
	}
}

// Unmarshal decodes the first value in data. Bytes following that value are
// ignored.
func Unmarshal(data []byte, opts ...Option) (Value, error) {
	return NewDecoder(bytes.NewReader(data), opts...).Decode()
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int64 {
	return d.cur.off
}

// More reports whether another value can be read. A source error other than
// exhaustion is reported by the following Decode.
func (d *Decoder) More() bool {
	_, err := d.cur.peek()
	return err != ErrEndOfStream
}

// ReadByte consumes the next raw byte. It exists for extensions reading their
// own payloads and returns ErrEndOfStream when the source is exhausted.
func (d *Decoder) ReadByte() (byte, error) {
	return d.cur.shift()
}

// PeekByte returns the next raw byte without consuming it.
func (d *Decoder) PeekByte() (byte, error) {
	return d.cur.peek()
}

// Decode reads one complete value.
func (d *Decoder) Decode() (Value, error) {
	tag, err := d.cur.shift()
	if err != nil {
		return nil, err
	}
	if d.ext != nil {
		v, handled, err := d.ext.DecodeExtension(d, tag)
		if err != nil {
			return nil, err
		}
		if handled {
			return v, nil
		}
	}

	if n, ok := wire.IntPayloadLen(tag); ok {
		var payload [4]byte
		if err := d.cur.read(payload[:n]); err != nil {
			return nil, err
		}
		return Int(wire.DecodeInt(tag, payload[:n])), nil
	}

	switch tag {
	case wire.TagFloat32:
		var payload [4]byte
		if err := d.cur.read(payload[:]); err != nil {
			return nil, err
		}
		return Float(wire.DecodeFloat32(payload[:])), nil
	case wire.TagFloat64:
		var payload [8]byte
		if err := d.cur.read(payload[:]); err != nil {
			return nil, err
		}
		return Float(wire.DecodeFloat64(payload[:])), nil
	case wire.TagNull:
		return Null{}, nil
	case wire.TagFalse:
		return Bool(false), nil
	case wire.TagTrue:
		return Bool(true), nil
	case wire.TagString:
		s, err := d.readString()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case wire.TagList:
		return d.decodeList()
	case wire.TagMap:
		return d.decodeMap()
	}
	return nil, &UnexpectedTagError{Tag: tag, Offset: d.cur.off - 1}
}

func (d *Decoder) enter() error {
	if d.maxDepth > 0 && d.depth >= d.maxDepth {
		return fmt.Errorf("%w at offset %d: %w", ErrMaxDepth, d.cur.off-1, ErrDecode)
	}
	d.depth++
	return nil
}

func (d *Decoder) leave() {
	d.depth--
}

// atTerminator consumes the next byte if it is the terminator.
func (d *Decoder) atTerminator() (bool, error) {
	b, err := d.cur.peek()
	if err != nil {
		return false, err
	}
	if b != wire.Terminator {
		return false, nil
	}
	_, err = d.cur.shift()
	return true, err
}

func (d *Decoder) decodeList() (Value, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	list := List{}
	for {
		done, err := d.atTerminator()
		if err != nil {
			return nil, err
		}
		if done {
			return list, nil
		}
		v, err := d.Decode()
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
}

// decodeMap reads entries laid out as value, untagged key, key terminator.
func (d *Decoder) decodeMap() (Value, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	m := &Map{}
	for {
		done, err := d.atTerminator()
		if err != nil {
			return nil, err
		}
		if done {
			return m, nil
		}
		v, err := d.Decode()
		if err != nil {
			return nil, err
		}
		key, err := d.readString()
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
}

// readString reads a string payload up to and including its terminator.
// Adjacent surrogate halves are joined into one rune; a lone surrogate
// becomes U+FFFD.
func (d *Decoder) readString() (string, error) {
	var units []uint16
	var cont [2]byte
	for {
		lead, err := d.cur.shift()
		if err != nil {
			return "", err
		}
		if lead == wire.Terminator {
			break
		}
		n, ok := wire.SequenceLen(lead)
		if !ok {
			return "", &InvalidSequenceError{Byte: lead, Offset: d.cur.off - 1}
		}
		for i := 0; i < n-1; i++ {
			b, err := d.cur.shift()
			if err != nil {
				return "", err
			}
			if !wire.IsContinuation(b) {
				return "", &InvalidSequenceError{Byte: b, Offset: d.cur.off - 1}
			}
			cont[i] = b
		}
		units = append(units, wire.DecodeUnit(lead, cont[:n-1]))
	}
	return string(utf16.Decode(units)), nil
}
