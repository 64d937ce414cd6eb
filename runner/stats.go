package runner

import "sync/atomic"

// Stats is a point-in-time snapshot of task counters.
type Stats struct {
	Submitted int64
	Running   int64
	Completed int64
	Failed    int64
}

// Pending returns the number of submitted tasks that have not reached a
// terminal state yet.
func (s Stats) Pending() int64 {
	return s.Submitted - s.Completed - s.Failed
}

// counters backs Stats with atomics shared by all units of execution.
type counters struct {
	submitted atomic.Int64
	running   atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Submitted: c.submitted.Load(),
		Running:   c.running.Load(),
		Completed: c.completed.Load(),
		Failed:    c.failed.Load(),
	}
}
