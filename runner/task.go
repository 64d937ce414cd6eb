package runner

import (
	"context"
	"fmt"
)

// TaskFunc is the work executed for a single task. The context is the one
// passed to Run; implementations should honor cancellation but are not
// required to.
type TaskFunc[T any] func(ctx context.Context) (T, error)

// Task pairs a work function with a stable identity. Tasks are independent:
// they share no state with each other and may complete in any order.
type Task[T any] struct {
	// ID identifies the task in results, logs and exports. When empty the
	// runner assigns "task-<index>" at submission.
	ID string

	// Name is an optional human-readable label.
	Name string

	// Work runs on its own unit of execution. Must be non-nil.
	Work TaskFunc[T]
}

// NewTask creates a Task with the given identity
func NewTask[T any](id string, work TaskFunc[T]) Task[T] {
	return Task[T]{ID: id, Work: work}
}

// TaskInfo is the identity view of a task handed to observer hooks.
type TaskInfo struct {
	ID    string
	Name  string
	Index int
}

func (t TaskInfo) String() string {
	if t.Name != "" {
		return fmt.Sprintf("%s (%s)", t.ID, t.Name)
	}
	return t.ID
}
