package runner

import (
	"errors"
	"testing"
	"time"
)

func testSummary() *Summary[string] {
	started := time.Now().Add(-time.Second)
	results := []Result[string]{
		{TaskID: "a", Index: 0, Value: "alpha", State: StateCompleted},
		{TaskID: "b", Index: 1, Err: NewTaskError("b", 1, errors.New("broken")), State: StateFailed},
		{TaskID: "c", Index: 2, Value: "gamma", State: StateCompleted},
	}
	return NewSummary("run-1", results, started, time.Second)
}

func TestSummary_Counts(t *testing.T) {
	sum := testSummary()

	if sum.Len() != 3 {
		t.Errorf("expected length 3, got %d", sum.Len())
	}
	if sum.Succeeded() != 2 {
		t.Errorf("expected 2 succeeded, got %d", sum.Succeeded())
	}
	if sum.Failed() != 1 {
		t.Errorf("expected 1 failed, got %d", sum.Failed())
	}
}

func TestSummary_ResultBounds(t *testing.T) {
	sum := testSummary()

	if _, err := sum.Result(2); err != nil {
		t.Errorf("expected result at index 2, got %v", err)
	}

	for _, idx := range []int{-1, 3, 100} {
		_, err := sum.Result(idx)
		if err == nil {
			t.Errorf("expected error for index %d", idx)
			continue
		}
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("expected ErrIndexOutOfRange for index %d, got %v", idx, err)
		}
	}
}

func TestSummary_Values(t *testing.T) {
	sum := testSummary()

	values, err := sum.Values()
	if err == nil {
		t.Error("expected joined error when a task failed")
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(values))
	}
	if values[0] != "alpha" || values[2] != "gamma" {
		t.Errorf("expected surviving values in order, got %v", values)
	}
	if values[1] != "" {
		t.Errorf("expected zero value for failed slot, got %q", values[1])
	}
}

func TestSummary_Err(t *testing.T) {
	sum := testSummary()

	err := sum.Err()
	if err == nil {
		t.Fatal("expected aggregate error")
	}
	if !IsTaskError(err) {
		t.Errorf("expected task error in aggregate, got %v", err)
	}

	clean := NewSummary("run-2", []Result[string]{
		{TaskID: "a", Value: "ok", State: StateCompleted},
	}, time.Now(), time.Millisecond)
	if clean.Err() != nil {
		t.Errorf("expected nil aggregate for clean run, got %v", clean.Err())
	}
}

func TestSummary_ResultsCopy(t *testing.T) {
	sum := testSummary()

	results := sum.Results()
	results[0].Value = "mutated"

	again, _ := sum.Result(0)
	if again.Value != "alpha" {
		t.Error("mutating the returned slice must not affect the summary")
	}
}

func TestSummary_Empty(t *testing.T) {
	sum := NewSummary[string]("run-3", nil, time.Now(), 0)

	if sum.Len() != 0 {
		t.Errorf("expected empty summary, got %d", sum.Len())
	}
	if sum.Err() != nil {
		t.Errorf("expected nil error, got %v", sum.Err())
	}
	values, err := sum.Values()
	if err != nil || len(values) != 0 {
		t.Errorf("expected no values and no error, got %v, %v", values, err)
	}
}
