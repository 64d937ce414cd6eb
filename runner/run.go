package runner

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Run executes tasks concurrently and returns one result per task in
// submission order. It is the one-shot form of Runner.Run.
func Run[T any](ctx context.Context, tasks []Task[T], opts ...Option) (*Summary[T], error) {
	return New[T](opts...).Run(ctx, tasks)
}

// Run launches one unit of execution per task, eagerly and in submission
// order, then blocks at a single join point until every unit has reached a
// terminal state. Task failures are captured in their result slots and
// never abort siblings; the returned error is non-nil only for malformed
// input (a task with a nil work function), in which case nothing runs.
//
// A nil or empty task slice is a valid empty batch and yields an empty
// Summary immediately.
func (r *Runner[T]) Run(ctx context.Context, tasks []Task[T]) (*Summary[T], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validate(tasks); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := r.settings.logger.With("run_id", runID, "run", r.settings.name)
	started := time.Now()

	if len(tasks) == 0 {
		logger.Debug("empty batch, nothing to run")
		return NewSummary[T](runID, nil, started, time.Since(started)), nil
	}

	logger.Info("starting run",
		"tasks", len(tasks),
		"max_concurrent", r.settings.maxConcurrent,
		"rate_per_sec", r.settings.ratePerSec)

	col := newCollector[T](len(tasks), &r.counters, r.settings)

	// Admission gates. Both are nil in the default unbounded mode, where
	// every unit launches the moment its task is submitted.
	var sem chan struct{}
	if r.settings.maxConcurrent > 0 {
		sem = make(chan struct{}, r.settings.maxConcurrent)
	}
	var limiter *rate.Limiter
	if r.settings.ratePerSec > 0 {
		burst := r.settings.rateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(r.settings.ratePerSec), burst)
	}

	for i := range tasks {
		task := tasks[i]
		info := TaskInfo{ID: task.ID, Name: task.Name, Index: i}
		if info.ID == "" {
			info.ID = fmt.Sprintf("task-%d", i)
		}
		col.submit(info)

		// Admission happens on the submitting side so launch order
		// follows batch order even when bounded.
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				logger.Debug("task not admitted", "task_id", info.ID, "err", err)
				col.deny(info, err)
				continue
			}
		}
		if sem != nil {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				logger.Debug("task not admitted", "task_id", info.ID, "err", ctx.Err())
				col.deny(info, ctx.Err())
				continue
			}
		}

		go func() {
			if sem != nil {
				defer func() { <-sem }()
			}
			col.execute(ctx, info, task.Work)
		}()
	}

	// The single join point: no partial results before this returns.
	col.wait()

	wall := time.Since(started)
	sum := NewSummary(runID, col.results, started, wall)
	logger.Info("run complete",
		"succeeded", sum.Succeeded(),
		"failed", sum.Failed(),
		"wall", wall.Round(time.Millisecond))
	return sum, nil
}

// validate rejects malformed input before any unit of execution launches.
func validate[T any](tasks []Task[T]) error {
	for i, t := range tasks {
		if t.Work == nil {
			return fmt.Errorf("%w (index %d)", ErrNilWork, i)
		}
	}
	return nil
}

// collector owns the result slots for one run. Each unit of execution
// writes only its own index, so slots need no lock; the WaitGroup is the
// single join point.
type collector[T any] struct {
	results []Result[T]
	wg      sync.WaitGroup
	c       *counters
	s       *settings
}

func newCollector[T any](n int, c *counters, s *settings) *collector[T] {
	return &collector[T]{
		results: make([]Result[T], n),
		c:       c,
		s:       s,
	}
}

// submit claims the slot and accounts the task before its unit exists.
func (col *collector[T]) submit(info TaskInfo) {
	col.wg.Add(1)
	col.c.submitted.Add(1)
	col.results[info.Index] = Result[T]{
		TaskID: info.ID,
		Name:   info.Name,
		Index:  info.Index,
		State:  StateSubmitted,
	}
}

// deny settles a slot whose unit of execution was never admitted.
func (col *collector[T]) deny(info TaskInfo, cause error) {
	defer col.wg.Done()

	r := &col.results[info.Index]
	r.State = transition(r.State, StateFailed)
	r.Err = NewAdmissionError(info.ID, info.Index, cause)
	col.c.failed.Add(1)

	if col.s.onDone != nil {
		col.s.onDone(info, r.Err, 0)
	}
}

// execute runs the work function on the calling goroutine and settles the
// slot exactly once.
func (col *collector[T]) execute(ctx context.Context, info TaskInfo, work TaskFunc[T]) {
	defer col.wg.Done()

	r := &col.results[info.Index]
	r.State = transition(r.State, StateRunning)
	r.Started = time.Now()
	col.c.running.Add(1)

	if col.s.onStart != nil {
		col.s.onStart(info)
	}

	value, err := invoke(ctx, work)
	r.Duration = time.Since(r.Started)
	col.c.running.Add(-1)

	if err != nil {
		r.State = transition(r.State, StateFailed)
		r.Err = NewTaskError(info.ID, info.Index, err)
		col.c.failed.Add(1)
	} else {
		r.State = transition(r.State, StateCompleted)
		r.Value = value
		col.c.completed.Add(1)
	}

	if col.s.onDone != nil {
		col.s.onDone(info, r.Err, r.Duration)
	}
}

// invoke calls the work function, converting a panic into an error that
// carries the recovered value and stack.
func invoke[T any](ctx context.Context, work TaskFunc[T]) (value T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Value: rec, Stack: debug.Stack()}
		}
	}()
	return work(ctx)
}

// wait blocks until every submitted slot is terminal.
func (col *collector[T]) wait() {
	col.wg.Wait()
}
