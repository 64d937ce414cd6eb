package runner

import (
	"log/slog"

	"github.com/fanoutlabs/fanout/runner/config"
)

// Runner executes batches of independent tasks, one lightweight unit of
// execution per task, joining at a single point and preserving submission
// order in the results. A Runner carries its configuration and cumulative
// counters across runs; the zero-cost alternative for a single batch is
// the package-level Run function.
type Runner[T any] struct {
	settings *settings
	counters counters
}

// New creates a new Runner with the given options.
func New[T any](opts ...Option) *Runner[T] {
	s := defaultSettings()
	for _, opt := range opts {
		opt(s)
	}
	return &Runner[T]{settings: s}
}

// Logger returns the logger
func (r *Runner[T]) Logger() *slog.Logger {
	return r.settings.logger
}

// Config returns the runner's resolved configuration
func (r *Runner[T]) Config() *config.Config {
	return r.settings.cfg
}

// Stats returns a snapshot of the runner's cumulative task counters.
// Counters accumulate across runs on the same Runner.
func (r *Runner[T]) Stats() Stats {
	return r.counters.snapshot()
}
