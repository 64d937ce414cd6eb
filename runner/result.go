package runner

import "time"

// Result is the terminal outcome of a single task.
type Result[T any] struct {
	TaskID string
	Name   string

	// Index is the task's position in the submitted batch.
	Index int

	// Value holds the work function's return value; the zero value when
	// Err is non-nil.
	Value T

	// Err is nil exactly when State is StateCompleted. Execution failures
	// are wrapped in *TaskError, admission failures in *AdmissionError.
	Err error

	State    State
	Started  time.Time
	Duration time.Duration
}

// Ok reports whether the task completed successfully.
func (r Result[T]) Ok() bool {
	return r.Err == nil
}

// Info returns the identity view of the result's task.
func (r Result[T]) Info() TaskInfo {
	return TaskInfo{ID: r.TaskID, Name: r.Name, Index: r.Index}
}
