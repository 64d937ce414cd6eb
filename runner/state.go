package runner

import "fmt"

// State describes where a task is in its lifecycle.
type State string

const (
	// StateSubmitted means the task was accepted but its unit of
	// execution has not started the work function yet.
	StateSubmitted State = "SUBMITTED"

	// StateRunning means the task's unit of execution is running the
	// work function.
	StateRunning State = "RUNNING"

	// StateCompleted means the work function returned a value.
	StateCompleted State = "COMPLETED"

	// StateFailed means the work function returned an error or
	// panicked, or the unit of execution was never admitted.
	StateFailed State = "FAILED"
)

// Terminal reports whether s is a final state.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Legal lifecycle transitions. Submitted -> Failed covers units that were
// denied admission before their work function ran.
var transitions = map[State][]State{
	StateSubmitted: {StateRunning, StateFailed},
	StateRunning:   {StateCompleted, StateFailed},
}

// transition validates a state change and returns the new state. An illegal
// transition means a slot was settled twice, which is a bug in the runner
// rather than a task failure, so it panics instead of corrupting the slot.
func transition(from, to State) State {
	for _, next := range transitions[from] {
		if next == to {
			return to
		}
	}
	panic(fmt.Sprintf("runner: illegal state transition %s -> %s", from, to))
}
