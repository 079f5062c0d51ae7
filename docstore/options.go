package docstore

import (
	"log/slog"
	"time"

	"github.com/holmberd/go-zson/encoder"
)

type options struct {
	codec      encoder.Codec
	logger     *slog.Logger
	expiration time.Duration
	parentKey  string
}

// Option configures a Store.
type Option func(*options)

// WithCodec sets the codec documents are stored with. The default is
// encoder.ZSONCodec.
func WithCodec(c encoder.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithLogger sets the logger. Logging is off by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithExpiration sets the time to live of written documents. Zero, the
// default, keeps them forever.
func WithExpiration(d time.Duration) Option {
	return func(o *options) {
		o.expiration = d
	}
}

// WithParentKey scopes the store under a parent key, e.g. "tenant:t1".
func WithParentKey(key string) Option {
	return func(o *options) {
		o.parentKey = key
	}
}

func newOptions(opts []Option) options {
	o := options{
		codec:  encoder.ZSONCodec{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
