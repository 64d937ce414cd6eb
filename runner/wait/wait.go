// Package wait provides polling-based condition checks with deadlines,
// used by the bench tooling to observe runs in flight.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fanoutlabs/fanout/runner"
)

// ErrTimeout indicates the condition did not hold before the deadline
var ErrTimeout = errors.New("timed out waiting for condition")

// Condition reports whether the awaited state has been reached. Returning
// an error stops the wait immediately.
type Condition func() (bool, error)

// Source exposes the counters a wait can observe. Both a Runner and a
// Pool satisfy it.
type Source interface {
	Stats() runner.Stats
}

// Poll checks cond every interval until it holds, the timeout elapses, or
// the context is cancelled. The condition is checked once before the
// first sleep.
func Poll(ctx context.Context, interval, timeout time.Duration, cond Condition) error {
	if ctx == nil {
		ctx = context.Background()
	}
	deadline := time.Now().Add(timeout)

	for {
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w after %v", ErrTimeout, timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// ForSettled waits until src has accepted at least n tasks and every
// accepted task has reached a terminal state.
func ForSettled(ctx context.Context, src Source, n int64, interval, timeout time.Duration) error {
	return Poll(ctx, interval, timeout, func() (bool, error) {
		s := src.Stats()
		return s.Submitted >= n && s.Pending() == 0, nil
	})
}

// ForIdle waits until src reports no in-flight or pending work.
func ForIdle(ctx context.Context, src Source, interval, timeout time.Duration) error {
	return Poll(ctx, interval, timeout, func() (bool, error) {
		s := src.Stats()
		return s.Running == 0 && s.Pending() == 0, nil
	})
}
