package zson

// DefaultMaxDepth bounds container nesting for Encoders and Decoders that are
// not configured otherwise. Recursion depth equals nesting depth, so without
// a bound a hostile input could exhaust the goroutine stack.
const DefaultMaxDepth = 512

// FloatWidth selects the encoding used for non-integral numbers.
type FloatWidth int

const (
	FloatWidth64 FloatWidth = 64 // Double precision, tag 0xf2. The default.
	FloatWidth32 FloatWidth = 32 // Single precision, tag 0xf1.
)

type options struct {
	floatWidth FloatWidth
	encExt     EncoderExtension
	decExt     DecoderExtension
	maxDepth   int
}

func newOptions(opts []Option) options {
	o := options{
		floatWidth: FloatWidth64,
		maxDepth:   DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures an Encoder or a Decoder. Options that only concern one
// side are ignored by the other.
type Option func(*options)

// WithFloatWidth sets the float encoding of an Encoder. Any width other than
// FloatWidth32 selects double precision.
func WithFloatWidth(w FloatWidth) Option {
	return func(o *options) {
		if w != FloatWidth32 {
			w = FloatWidth64
		}
		o.floatWidth = w
	}
}

// WithFloat32 is shorthand for WithFloatWidth(FloatWidth32). Floats lose
// precision: a decoded value equals the original rounded to float32.
func WithFloat32() Option {
	return WithFloatWidth(FloatWidth32)
}

// WithEncoderExtension installs an extension that sees every value before the
// built-in encoding does.
func WithEncoderExtension(ext EncoderExtension) Option {
	return func(o *options) {
		o.encExt = ext
	}
}

// WithDecoderExtension installs an extension that sees every tag before the
// built-in dispatch does.
func WithDecoderExtension(ext DecoderExtension) Option {
	return func(o *options) {
		o.decExt = ext
	}
}

// WithMaxDepth bounds container nesting. Zero or a negative n removes the
// bound; deeply nested input can then exhaust the stack.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.maxDepth = n
	}
}
