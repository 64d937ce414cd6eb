// Package config centralizes runner defaults with environment variable
// overrides. All knobs are optional; the zero configuration runs every
// batch unbounded.
package config

import (
	"os"
	"strconv"
	"time"
)

// Default values used throughout the runner and the bench tooling
const (
	// DefaultMaxConcurrent is the default admission cap; 0 means unbounded
	// fan-out, one unit of execution per task
	DefaultMaxConcurrent = 0

	// DefaultRatePerSecond is the default launch rate limit; 0 disables it
	DefaultRatePerSecond = 0

	// DefaultRateBurst is the default limiter burst when a rate is set
	DefaultRateBurst = 1

	// DefaultRunTimeout is the default per-profile deadline for bench runs
	DefaultRunTimeout = 10 * time.Minute

	// DefaultProgressInterval is the default cadence for bench progress output
	DefaultProgressInterval = 5 * time.Second

	// DefaultShutdownTimeout is the default deadline for pool drain on close
	DefaultShutdownTimeout = 30 * time.Second
)

// Environment variable names for configuration overrides
const (
	EnvMaxConcurrent    = "FANOUT_MAX_CONCURRENT"
	EnvRatePerSecond    = "FANOUT_RATE_PER_SECOND"
	EnvRateBurst        = "FANOUT_RATE_BURST"
	EnvRunTimeout       = "FANOUT_RUN_TIMEOUT"
	EnvProgressInterval = "FANOUT_PROGRESS_INTERVAL"
	EnvShutdownTimeout  = "FANOUT_SHUTDOWN_TIMEOUT"
)

// Config holds runner configuration with optional overrides
type Config struct {
	// Admission
	MaxConcurrent int
	RatePerSecond float64
	RateBurst     int

	// Bench and pool timing
	RunTimeout       time.Duration
	ProgressInterval time.Duration
	ShutdownTimeout  time.Duration
}

// Default returns a Config with all default values
func Default() *Config {
	return &Config{
		MaxConcurrent:    DefaultMaxConcurrent,
		RatePerSecond:    DefaultRatePerSecond,
		RateBurst:        DefaultRateBurst,
		RunTimeout:       DefaultRunTimeout,
		ProgressInterval: DefaultProgressInterval,
		ShutdownTimeout:  DefaultShutdownTimeout,
	}
}

// FromEnv returns a Config with values from environment variables, falling back to defaults
func FromEnv() *Config {
	cfg := Default()

	if v := os.Getenv(EnvMaxConcurrent); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxConcurrent = n
		}
	}

	if v := os.Getenv(EnvRatePerSecond); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.RatePerSecond = f
		}
	}

	if v := os.Getenv(EnvRateBurst); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateBurst = n
		}
	}

	if v := os.Getenv(EnvRunTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RunTimeout = d
		}
	}

	if v := os.Getenv(EnvProgressInterval); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ProgressInterval = d
		}
	}

	if v := os.Getenv(EnvShutdownTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ShutdownTimeout = d
		}
	}

	return cfg
}

// WithMaxConcurrent returns a copy with updated admission cap
func (c *Config) WithMaxConcurrent(n int) *Config {
	cp := *c
	cp.MaxConcurrent = n
	return &cp
}

// WithRateLimit returns a copy with updated launch rate limit
func (c *Config) WithRateLimit(perSecond float64, burst int) *Config {
	cp := *c
	cp.RatePerSecond = perSecond
	cp.RateBurst = burst
	return &cp
}

// WithRunTimeout returns a copy with updated run timeout
func (c *Config) WithRunTimeout(d time.Duration) *Config {
	cp := *c
	cp.RunTimeout = d
	return &cp
}

// WithProgressInterval returns a copy with updated progress interval
func (c *Config) WithProgressInterval(d time.Duration) *Config {
	cp := *c
	cp.ProgressInterval = d
	return &cp
}

// WithShutdownTimeout returns a copy with updated shutdown timeout
func (c *Config) WithShutdownTimeout(d time.Duration) *Config {
	cp := *c
	cp.ShutdownTimeout = d
	return &cp
}
