package runner

import (
	"errors"
	"fmt"
)

// Sentinel errors for runner operations
var (
	// ErrNilWork indicates a task was submitted without a work function
	ErrNilWork = errors.New("task has nil work function")

	// ErrIndexOutOfRange indicates a result lookup outside the batch bounds
	ErrIndexOutOfRange = errors.New("result index out of range")
)

// TaskError wraps the failure of a single task with the task's identity.
// It is the error stored in a Result when the work function returns an
// error or panics.
type TaskError struct {
	TaskID string
	Index  int
	Err    error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %q (index %d): %v", e.TaskID, e.Index, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// NewTaskError creates a new TaskError
func NewTaskError(taskID string, index int, err error) *TaskError {
	return &TaskError{
		TaskID: taskID,
		Index:  index,
		Err:    err,
	}
}

// PanicError preserves a panic recovered inside a task's unit of execution,
// including the stack captured at the recovery site.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// AdmissionError indicates a unit of execution could not be started for a
// task: the run context was cancelled while waiting for admission, or the
// executor refused the task. The slot still reaches a terminal state.
type AdmissionError struct {
	TaskID string
	Index  int
	Err    error
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("task %q (index %d) not admitted: %v", e.TaskID, e.Index, e.Err)
}

func (e *AdmissionError) Unwrap() error {
	return e.Err
}

// NewAdmissionError creates a new AdmissionError
func NewAdmissionError(taskID string, index int, err error) *AdmissionError {
	return &AdmissionError{
		TaskID: taskID,
		Index:  index,
		Err:    err,
	}
}

// IsTaskError returns true if the error carries a task execution failure
func IsTaskError(err error) bool {
	var te *TaskError
	return errors.As(err, &te)
}

// IsPanic returns true if the error originated from a recovered panic
func IsPanic(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}

// IsAdmission returns true if the error means a unit of execution was never started
func IsAdmission(err error) bool {
	var ae *AdmissionError
	return errors.As(err, &ae)
}

// TaskIDOf extracts the task identity from an execution or admission error
func TaskIDOf(err error) (string, bool) {
	var te *TaskError
	if errors.As(err, &te) {
		return te.TaskID, true
	}
	var ae *AdmissionError
	if errors.As(err, &ae) {
		return ae.TaskID, true
	}
	return "", false
}
