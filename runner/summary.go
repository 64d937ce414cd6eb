package runner

import (
	"errors"
	"fmt"
	"time"
)

// Summary is the aggregate outcome of one run: one Result per submitted
// task, ordered by submission index regardless of completion order. A
// Summary is immutable once assembled.
type Summary[T any] struct {
	runID   string
	results []Result[T]
	started time.Time
	wall    time.Duration
}

// NewSummary assembles a Summary from settled results. It is used by the
// runner and the pool executor; callers normally receive summaries from
// Run rather than building them.
func NewSummary[T any](runID string, results []Result[T], started time.Time, wall time.Duration) *Summary[T] {
	return &Summary[T]{
		runID:   runID,
		results: results,
		started: started,
		wall:    wall,
	}
}

// RunID returns the unique identifier assigned to this run.
func (s *Summary[T]) RunID() string {
	return s.runID
}

// Len returns the number of submitted tasks. Every submitted task has
// exactly one result, failures included.
func (s *Summary[T]) Len() int {
	return len(s.results)
}

// Results returns a copy of all results in submission order.
func (s *Summary[T]) Results() []Result[T] {
	out := make([]Result[T], len(s.results))
	copy(out, s.results)
	return out
}

// Result returns the result for the task submitted at position i.
func (s *Summary[T]) Result(i int) (Result[T], error) {
	if i < 0 || i >= len(s.results) {
		return Result[T]{}, fmt.Errorf("%w: %d (batch size %d)", ErrIndexOutOfRange, i, len(s.results))
	}
	return s.results[i], nil
}

// Values returns every task's value in submission order together with the
// joined failure error, if any. Failed slots carry the zero value.
func (s *Summary[T]) Values() ([]T, error) {
	values := make([]T, len(s.results))
	for i, r := range s.results {
		values[i] = r.Value
	}
	return values, s.Err()
}

// Succeeded returns the number of tasks that completed.
func (s *Summary[T]) Succeeded() int {
	n := 0
	for _, r := range s.results {
		if r.Ok() {
			n++
		}
	}
	return n
}

// Failed returns the number of tasks that failed.
func (s *Summary[T]) Failed() int {
	return len(s.results) - s.Succeeded()
}

// Err joins all task errors in submission order, or nil if every task
// completed. Individual failures never abort a run, so this is the only
// place they aggregate.
func (s *Summary[T]) Err() error {
	var errs []error
	for _, r := range s.results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Wall returns the elapsed time from the launch of the first unit of
// execution to the completion of the last.
func (s *Summary[T]) Wall() time.Duration {
	return s.wall
}

// StartedAt returns when the run began.
func (s *Summary[T]) StartedAt() time.Time {
	return s.started
}
