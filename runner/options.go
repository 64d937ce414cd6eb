package runner

import (
	"log/slog"
	"time"

	"github.com/fanoutlabs/fanout/runner/config"
)

// Option is a function that configures a Runner
type Option func(*settings)

// settings holds the resolved per-runner configuration.
type settings struct {
	name          string
	logger        *slog.Logger
	cfg           *config.Config
	maxConcurrent int
	ratePerSec    float64
	rateBurst     int
	onStart       func(TaskInfo)
	onDone        func(TaskInfo, error, time.Duration)
}

func defaultSettings() *settings {
	cfg := config.FromEnv()
	return &settings{
		name:          "run",
		logger:        slog.Default(),
		cfg:           cfg,
		maxConcurrent: cfg.MaxConcurrent,
		ratePerSec:    cfg.RatePerSecond,
		rateBurst:     cfg.RateBurst,
	}
}

// WithName labels the runner in log output
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}

// WithLogger sets a custom logger for the runner
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConfig replaces the environment-derived configuration
func WithConfig(cfg *config.Config) Option {
	return func(s *settings) {
		if cfg != nil {
			s.cfg = cfg
			s.maxConcurrent = cfg.MaxConcurrent
			s.ratePerSec = cfg.RatePerSecond
			s.rateBurst = cfg.RateBurst
		}
	}
}

// WithMaxConcurrent bounds how many units of execution run simultaneously.
// n <= 0 means unbounded, the default: one unit per task, all launched
// eagerly at submission.
func WithMaxConcurrent(n int) Option {
	return func(s *settings) {
		s.maxConcurrent = n
	}
}

// WithRateLimit throttles unit launches to perSecond with the given burst.
// perSecond <= 0 disables the limiter.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *settings) {
		s.ratePerSec = perSecond
		s.rateBurst = burst
	}
}

// WithOnStart registers a hook invoked from each unit of execution just
// before the work function runs.
func WithOnStart(fn func(TaskInfo)) Option {
	return func(s *settings) {
		s.onStart = fn
	}
}

// WithOnDone registers a hook invoked exactly once per task when it
// reaches a terminal state. The error is nil for completed tasks. Tasks
// that were never admitted report a zero duration.
func WithOnDone(fn func(TaskInfo, error, time.Duration)) Option {
	return func(s *settings) {
		s.onDone = fn
	}
}
