package hdplda

import (
	"log/slog"
	"runtime"

	"github.com/tomoris/HDPLDA/dirichlet"
)

type options struct {
	logger      *slog.Logger
	progress    bool
	parallelism int
	newStats    func(dim int, beta float64) SuffStats
}

// Option configures State construction.
type Option func(*options)

// WithLogger sets the logger. If nil is passed, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = slog.Default()
		}
		o.logger = l
	}
}

// WithProgress shows a progress bar over documents while the initial
// seating runs.
func WithProgress(show bool) Option {
	return func(o *options) {
		o.progress = show
	}
}

// WithParallelism caps the number of goroutines used by read-only views.
// Values below 1 mean runtime.GOMAXPROCS(0).
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithSuffStats replaces the per-dish sufficient statistics. The factory
// receives the vocabulary size and beta.
func WithSuffStats(factory func(dim int, beta float64) SuffStats) Option {
	return func(o *options) {
		if factory != nil {
			o.newStats = factory
		}
	}
}

func defaultOptions() options {
	return options{
		logger:      slog.Default(),
		parallelism: runtime.GOMAXPROCS(0),
		newStats: func(dim int, beta float64) SuffStats {
			return dirichlet.NewGroupManager(dim, beta)
		},
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.parallelism < 1 {
		o.parallelism = runtime.GOMAXPROCS(0)
	}
	return o
}
