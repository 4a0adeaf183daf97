package neargo

import (
	"golang.org/x/time/rate"

	"github.com/hupe1980/neargo/neighborfile"
)

type options struct {
	logger      *Logger
	metrics     MetricsCollector
	onWarning   func(neighborfile.Warning)
	warnRate    rate.Limit
	warnBurst   int
	parallelism int
	batchSize   int
}

// Option configures Load behavior.
type Option func(*options)

func defaultOptions() options {
	return options{
		logger:   NewLogger(nil),
		metrics:  NoopMetricsCollector{},
		warnRate: rate.Inf,
	}
}

// WithLogger configures the logger. nil restores the default stderr logger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NewLogger(nil)
		}
		o.logger = l
	}
}

// WithMetricsCollector configures metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithWarningFunc installs a callback that receives every unresolved-label
// warning, regardless of log rate limits.
func WithWarningFunc(fn func(neighborfile.Warning)) Option {
	return func(o *options) {
		o.onWarning = fn
	}
}

// WithWarningLimit caps how many warnings per second are logged. Warnings
// beyond the cap are still counted in the load stats and still reach a
// WithWarningFunc callback. burst <= 0 means a burst of 1.
func WithWarningLimit(perSecond rate.Limit, burst int) Option {
	return func(o *options) {
		o.warnRate = perSecond
		o.warnBurst = burst
	}
}

// WithParallelism resolves lines concurrently with up to n workers. The
// result is identical to a sequential load; only wall-clock time changes.
// n <= 1 keeps the load sequential.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithBatchSize sets the number of lines per concurrent batch when
// parallelism is enabled.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
	}
}
