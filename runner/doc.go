// Package runner executes batches of independent tasks concurrently, one
// lightweight unit of execution per task, and collects their outcomes in
// submission order.
//
// Every task yields exactly one terminal result, success or failure: a
// failing task never aborts its siblings, and the caller blocks at a single
// join point until the whole batch has settled. By default fan-out is
// unbounded (a unit per task, launched eagerly); admission can be bounded
// with a concurrency cap or a launch rate limit.
//
// # Quick Start
//
// Run a batch with the one-shot form:
//
//	tasks := []runner.Task[string]{
//	    runner.NewTask("fetch-a", fetchA),
//	    runner.NewTask("fetch-b", fetchB),
//	}
//
//	summary, err := runner.Run(ctx, tasks)
//	if err != nil {
//	    log.Fatal(err) // malformed input only, nothing ran
//	}
//	for _, r := range summary.Results() {
//	    if r.Ok() {
//	        fmt.Println(r.TaskID, r.Value)
//	    } else {
//	        fmt.Println(r.TaskID, "failed:", r.Err)
//	    }
//	}
//
// # Bounded Admission
//
// Concurrency policy is configuration, not a separate API:
//
//	summary, err := runner.Run(ctx, tasks,
//	    runner.WithMaxConcurrent(64),
//	    runner.WithRateLimit(500, 10),
//	)
//
// While a unit waits for admission its task counts as submitted, not
// running. If the context is cancelled during the wait, the slot settles
// as failed with an AdmissionError; the summary still carries one result
// per task.
//
// # Reusable Runners
//
// A Runner keeps configuration and cumulative counters across batches:
//
//	r := runner.New[string](runner.WithMaxConcurrent(128))
//	summary, err := r.Run(ctx, tasks)
//	fmt.Println(r.Stats().Completed)
//
// # Package Structure
//
// Supporting subpackages:
//
//   - config: environment-driven defaults (FANOUT_* variables)
//   - pool: fixed worker pool executor with per-task promises
//   - profile: YAML workload profiles
//   - workload: synthetic task generation and run reports
//   - metrics: CSV/JSON export of per-task records
//   - metrics/report: standalone HTML report
//   - preflight: host checks for timing-sensitive runs
//   - wait: polling-based condition checks
package runner
