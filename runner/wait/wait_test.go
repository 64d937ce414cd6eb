package wait

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fanoutlabs/fanout/runner"
)

func TestPoll_ImmediateSuccess(t *testing.T) {
	calls := 0
	err := Poll(context.Background(), time.Hour, time.Hour, func() (bool, error) {
		calls++
		return true, nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 check, got %d", calls)
	}
}

func TestPoll_EventualSuccess(t *testing.T) {
	calls := 0
	err := Poll(context.Background(), time.Millisecond, time.Second, func() (bool, error) {
		calls++
		return calls >= 3, nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if calls < 3 {
		t.Errorf("expected at least 3 checks, got %d", calls)
	}
}

func TestPoll_ConditionError(t *testing.T) {
	condErr := errors.New("broken check")
	err := Poll(context.Background(), time.Millisecond, time.Second, func() (bool, error) {
		return false, condErr
	})

	if !errors.Is(err, condErr) {
		t.Errorf("expected condition error, got %v", err)
	}
}

func TestPoll_Timeout(t *testing.T) {
	err := Poll(context.Background(), time.Millisecond, 20*time.Millisecond, func() (bool, error) {
		return false, nil
	})

	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestPoll_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Poll(ctx, time.Millisecond, time.Second, func() (bool, error) {
		return false, nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// fakeSource counts down to settled.
type fakeSource struct {
	checks atomic.Int64
}

func (f *fakeSource) Stats() runner.Stats {
	if f.checks.Add(1) >= 3 {
		return runner.Stats{Submitted: 5, Completed: 4, Failed: 1}
	}
	return runner.Stats{Submitted: 5, Running: 2, Completed: 2, Failed: 1}
}

func TestForSettled(t *testing.T) {
	src := &fakeSource{}
	err := ForSettled(context.Background(), src, 5, time.Millisecond, time.Second)

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if src.checks.Load() < 3 {
		t.Errorf("expected at least 3 polls, got %d", src.checks.Load())
	}
}

func TestForIdle(t *testing.T) {
	src := &fakeSource{}
	if err := ForIdle(context.Background(), src, time.Millisecond, time.Second); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
