// Package workload builds synthetic task batches for benchmarking the
// runner and summarizes the outcome of a run.
package workload

import (
	"fmt"
	"time"

	"github.com/fanoutlabs/fanout/runner/profile"
)

// DefaultPayload is the result value prefix when a spec sets none
const DefaultPayload = "done"

// Size names a preset batch shape
type Size string

// Preset batch sizes
const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
	SizeXLarge Size = "xlarge"
)

// Stage is one named delay within a synthetic task
type Stage struct {
	Name     string
	Duration time.Duration
}

// Spec describes a synthetic task batch
type Spec struct {
	// Tasks is the number of tasks to generate
	Tasks int

	// Payload is the result value prefix; task i produces "<payload>-<i>"
	Payload string

	// BaseDelay is slept by every task before its stages
	BaseDelay time.Duration

	// Stages are worked through in order after the base delay
	Stages []Stage

	// FailEvery makes every Nth task (1-based) fail; 0 disables injection
	FailEvery int

	// Jitter is the maximum random extra delay per task
	Jitter time.Duration

	// Seed fixes the jitter sequence; 0 draws a fresh one per build
	Seed int64
}

// ForSize returns a preset spec for a named batch size
func ForSize(size Size) (Spec, error) {
	switch size {
	case SizeSmall:
		return Spec{Tasks: 10, BaseDelay: 10 * time.Millisecond}, nil
	case SizeMedium:
		return Spec{Tasks: 100, BaseDelay: 10 * time.Millisecond, Jitter: 5 * time.Millisecond}, nil
	case SizeLarge:
		return Spec{Tasks: 1000, BaseDelay: 20 * time.Millisecond, Jitter: 5 * time.Millisecond}, nil
	case SizeXLarge:
		return Spec{Tasks: 10000, BaseDelay: 20 * time.Millisecond, Jitter: 10 * time.Millisecond}, nil
	default:
		return Spec{}, fmt.Errorf("unknown workload size %q", size)
	}
}

// FromProfile converts a loaded profile's workload section into a spec
func FromProfile(p *profile.Profile) (Spec, error) {
	w := p.Workload
	spec := Spec{
		Tasks:     w.Tasks,
		Payload:   w.Payload,
		FailEvery: w.FailEvery,
		Seed:      w.Seed,
	}

	var err error
	if spec.BaseDelay, err = parseDuration("workload.baseDelay", w.BaseDelay); err != nil {
		return Spec{}, err
	}
	if spec.Jitter, err = parseDuration("workload.jitter", w.Jitter); err != nil {
		return Spec{}, err
	}

	for i, stage := range w.Stages {
		d, err := parseDuration(fmt.Sprintf("workload.stages[%d].duration", i), stage.Duration)
		if err != nil {
			return Spec{}, err
		}
		spec.Stages = append(spec.Stages, Stage{Name: stage.Name, Duration: d})
	}

	return spec, nil
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid duration: %w", field, err)
	}
	return d, nil
}
