package workload

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fanoutlabs/fanout/runner"
)

// ErrInjected marks a failure deliberately produced by the workload
var ErrInjected = errors.New("injected workload failure")

// Build generates the task batch described by a spec. Task i is named
// "task-<i>" and produces "<payload>-<i>" on success. Delays are
// cooperative, so cancelling the run context ends a task early with the
// context's error.
func Build(spec Spec) []runner.Task[string] {
	if spec.Tasks <= 0 {
		return nil
	}

	payload := spec.Payload
	if payload == "" {
		payload = DefaultPayload
	}

	jitters := jitterSchedule(spec)

	tasks := make([]runner.Task[string], spec.Tasks)
	for i := range tasks {
		delay := spec.BaseDelay
		if jitters != nil {
			delay += jitters[i]
		}
		value := fmt.Sprintf("%s-%d", payload, i)
		inject := spec.FailEvery > 0 && (i+1)%spec.FailEvery == 0
		index := i

		tasks[i] = runner.Task[string]{
			ID:   fmt.Sprintf("task-%d", i),
			Name: value,
			Work: func(ctx context.Context) (string, error) {
				if err := sleep(ctx, delay); err != nil {
					return "", err
				}
				for _, stage := range spec.Stages {
					if err := sleep(ctx, stage.Duration); err != nil {
						return "", fmt.Errorf("stage %s interrupted: %w", stage.Name, err)
					}
				}
				if inject {
					return "", fmt.Errorf("%w: task %d", ErrInjected, index)
				}
				return value, nil
			},
		}
	}

	return tasks
}

// jitterSchedule precomputes one extra delay per task so concurrent
// tasks never share a rand source
func jitterSchedule(spec Spec) []time.Duration {
	if spec.Jitter <= 0 {
		return nil
	}

	seed := spec.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	jitters := make([]time.Duration, spec.Tasks)
	for i := range jitters {
		jitters[i] = time.Duration(rng.Int63n(int64(spec.Jitter) + 1))
	}
	return jitters
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
