package checker

import (
	"runtime"

	"github.com/rs/zerolog"
)

// Options configures the behavior of the link checker.
type Options struct {
	// Logger receives per-link debug output. Nil disables logging.
	Logger *zerolog.Logger

	// Concurrency is the number of workers resolving links.
	// Resolution is filesystem bound, so one worker per CPU is plenty.
	Concurrency int
}

// DefaultConcurrency is one worker per CPU.
func DefaultConcurrency() int {
	return runtime.NumCPU()
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Concurrency: DefaultConcurrency(),
	}
}

// WithConcurrency sets the number of concurrent workers.
func (o Options) WithConcurrency(n int) Options {
	if n > 0 {
		o.Concurrency = n
	}
	return o
}

// WithLogger sets the logger used for debug output.
func (o Options) WithLogger(l zerolog.Logger) Options {
	o.Logger = &l
	return o
}
