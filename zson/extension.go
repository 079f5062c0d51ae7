package zson

// EncoderExtension lets callers encode values the built-in model cannot
// express, typically as a token with a tag in the reserved 0xf6-0xfb range.
//
// EncodeExtension is offered every value, including nested ones. It returns
// false to fall through to the built-in encoding. When it returns true it
// must have written exactly one complete token through e, using e.WriteByte
// for raw bytes and e.Encode for nested values.
type EncoderExtension interface {
	EncodeExtension(e *Encoder, v any) (handled bool, err error)
}

// DecoderExtension lets callers decode tags the built-in dispatch does not
// know. DecodeExtension is offered every tag after it has been consumed. It
// returns false to fall through to the built-in dispatch. When it returns true
// it must have consumed the rest of the token through d, using d.ReadByte for
// raw bytes and d.Decode for nested values.
type DecoderExtension interface {
	DecodeExtension(d *Decoder, tag byte) (v Value, handled bool, err error)
}

// EncoderExtensionFunc adapts a function to EncoderExtension.
type EncoderExtensionFunc func(e *Encoder, v any) (bool, error)

func (f EncoderExtensionFunc) EncodeExtension(e *Encoder, v any) (bool, error) {
	return f(e, v)
}

// DecoderExtensionFunc adapts a function to DecoderExtension.
type DecoderExtensionFunc func(d *Decoder, tag byte) (Value, bool, error)

func (f DecoderExtensionFunc) DecodeExtension(d *Decoder, tag byte) (Value, bool, error) {
	return f(d, tag)
}
