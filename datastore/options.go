package datastore

import "log/slog"

const defaultScanBatchSize = 1000

type options struct {
	logger        *slog.Logger
	scanBatchSize int
}

// Option configures a Client.
type Option func(*options)

// WithLogger sets the logger for batch operations. Logging is off by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithScanBatchSize sets the COUNT hint passed to SCAN. Values outside
// 1..1000 fall back to 1000.
func WithScanBatchSize(n int) Option {
	return func(o *options) {
		o.scanBatchSize = n
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:        slog.New(slog.DiscardHandler),
		scanBatchSize: defaultScanBatchSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.scanBatchSize <= 0 || o.scanBatchSize > defaultScanBatchSize {
		o.scanBatchSize = defaultScanBatchSize
	}
	return o
}
