package runner

import (
	"context"
	"errors"
	"testing"
)

func TestTaskError(t *testing.T) {
	baseErr := errors.New("base error")
	taskErr := NewTaskError("ingest-7", 7, baseErr)

	expected := `task "ingest-7" (index 7): base error`
	if taskErr.Error() != expected {
		t.Errorf("expected %q, got %q", expected, taskErr.Error())
	}

	if !errors.Is(taskErr, baseErr) {
		t.Error("expected TaskError to wrap base error")
	}
}

func TestAdmissionError(t *testing.T) {
	admErr := NewAdmissionError("late", 3, context.Canceled)

	expected := `task "late" (index 3) not admitted: context canceled`
	if admErr.Error() != expected {
		t.Errorf("expected %q, got %q", expected, admErr.Error())
	}

	if !errors.Is(admErr, context.Canceled) {
		t.Error("expected AdmissionError to wrap the cancellation cause")
	}
}

func TestPanicError(t *testing.T) {
	panicErr := &PanicError{Value: "boom", Stack: []byte("stack trace")}

	expected := "task panicked: boom"
	if panicErr.Error() != expected {
		t.Errorf("expected %q, got %q", expected, panicErr.Error())
	}
}

func TestIsTaskError(t *testing.T) {
	taskErr := NewTaskError("t", 0, errors.New("x"))

	if !IsTaskError(taskErr) {
		t.Error("expected IsTaskError true for TaskError")
	}
	if IsTaskError(errors.New("plain")) {
		t.Error("expected IsTaskError false for plain error")
	}
	if IsTaskError(nil) {
		t.Error("expected IsTaskError false for nil")
	}
}

func TestIsPanic(t *testing.T) {
	// Panic errors reach callers wrapped in a TaskError.
	wrapped := NewTaskError("p", 2, &PanicError{Value: 42})

	if !IsPanic(wrapped) {
		t.Error("expected IsPanic true through the TaskError chain")
	}
	if IsPanic(NewTaskError("q", 0, errors.New("ordinary"))) {
		t.Error("expected IsPanic false for ordinary task error")
	}
}

func TestIsAdmission(t *testing.T) {
	admErr := NewAdmissionError("t", 1, context.DeadlineExceeded)

	if !IsAdmission(admErr) {
		t.Error("expected IsAdmission true for AdmissionError")
	}
	if IsAdmission(NewTaskError("t", 1, errors.New("x"))) {
		t.Error("expected IsAdmission false for TaskError")
	}
}

func TestTaskIDOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		id   string
		ok   bool
	}{
		{
			name: "task error",
			err:  NewTaskError("worker-3", 3, errors.New("x")),
			id:   "worker-3",
			ok:   true,
		},
		{
			name: "admission error",
			err:  NewAdmissionError("worker-9", 9, context.Canceled),
			id:   "worker-9",
			ok:   true,
		},
		{
			name: "plain error",
			err:  errors.New("anonymous"),
			id:   "",
			ok:   false,
		},
		{
			name: "nil",
			err:  nil,
			id:   "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := TaskIDOf(tt.err)
			if id != tt.id || ok != tt.ok {
				t.Errorf("expected (%q, %v), got (%q, %v)", tt.id, tt.ok, id, ok)
			}
		})
	}
}
