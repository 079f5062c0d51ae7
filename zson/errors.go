package zson

import "fmt"

// Error is a constant zson error.
type Error string

func (e Error) Error() string { return string(e) }

// Is makes ErrEndOfStream match ErrDecode.
func (e Error) Is(target error) bool {
	return e == ErrEndOfStream && target == ErrDecode
}

const (
	// ErrEncode is matched by every *EncodeError.
	ErrEncode = Error("zson: encode error")
	// ErrDecode is matched by every error caused by malformed input.
	ErrDecode = Error("zson: decode error")
	// ErrEndOfStream is returned when the source runs dry in the middle of a value.
	ErrEndOfStream = Error("zson: unexpected end of stream")
	// ErrMaxDepth is returned when containers nest deeper than the configured
	// limit. On the decode path the error also matches ErrDecode.
	ErrMaxDepth = Error("zson: maximum nesting depth exceeded")
)

// EncodeError is returned when a value has no zson representation and no
// extension claimed it. Bytes already written for the enclosing value are
// invalid and must be discarded.
type EncodeError struct {
	Type string // Go type of the offending value.
}

func (e *EncodeError) Error() string {
	return "zson: cannot encode value of type " + e.Type
}

func (e *EncodeError) Is(target error) bool { return target == ErrEncode }

// UnexpectedTagError is returned when a byte with no meaning is found where a
// value was expected.
type UnexpectedTagError struct {
	Tag    byte
	Offset int64 // Stream position of the tag byte.
}

func (e *UnexpectedTagError) Error() string {
	return fmt.Sprintf("zson: unexpected tag 0x%02x at offset %d", e.Tag, e.Offset)
}

func (e *UnexpectedTagError) Is(target error) bool { return target == ErrDecode }

// InvalidSequenceError is returned when a string payload contains a byte
// sequence the format does not support, such as a 4-byte UTF-8 lead byte.
type InvalidSequenceError struct {
	Byte   byte
	Offset int64 // Stream position of the offending byte.
}

func (e *InvalidSequenceError) Error() string {
	return fmt.Sprintf("zson: invalid string sequence byte 0x%02x at offset %d", e.Byte, e.Offset)
}

func (e *InvalidSequenceError) Is(target error) bool { return target == ErrDecode }
