// Package preflight verifies that the host can produce meaningful
// concurrency measurements before a bench run starts.
package preflight

import (
	"fmt"
	"runtime"
	"time"
)

// CheckStatus represents the status of a single host check
type CheckStatus struct {
	Name    string
	Met     bool
	Message string
}

// Result contains the results of all host checks
type Result struct {
	MultipleCPUs    CheckStatus
	Parallelism     CheckStatus
	SleepResolution CheckStatus
	AllMet          bool
}

// Check runs every host check
func Check() *Result {
	result := &Result{
		AllMet: true,
	}

	result.MultipleCPUs = checkCPUs()
	if !result.MultipleCPUs.Met {
		result.AllMet = false
	}

	result.Parallelism = checkParallelism()
	if !result.Parallelism.Met {
		result.AllMet = false
	}

	result.SleepResolution = checkSleepResolution()
	if !result.SleepResolution.Met {
		result.AllMet = false
	}

	return result
}

// checkCPUs verifies that parallel speedup is measurable at all
func checkCPUs() CheckStatus {
	cpus := runtime.NumCPU()
	status := CheckStatus{
		Name: "Multiple CPUs",
		Met:  cpus > 1,
	}

	if status.Met {
		status.Message = fmt.Sprintf("%d CPUs available", cpus)
	} else {
		status.Message = "only 1 CPU available, parallel speedup cannot be measured"
	}

	return status
}

// checkParallelism verifies the scheduler may actually run units in parallel
func checkParallelism() CheckStatus {
	procs := runtime.GOMAXPROCS(0)
	status := CheckStatus{
		Name: "GOMAXPROCS",
		Met:  procs >= 2,
	}

	if status.Met {
		status.Message = fmt.Sprintf("GOMAXPROCS is %d", procs)
	} else {
		status.Message = fmt.Sprintf("GOMAXPROCS is %d, raise it to at least 2", procs)
	}

	return status
}

// checkSleepResolution probes timer accuracy, since the synthetic
// workloads are built from short sleeps
func checkSleepResolution() CheckStatus {
	const probe = time.Millisecond

	start := time.Now()
	time.Sleep(probe)
	elapsed := time.Since(start)

	status := CheckStatus{
		Name: "Sleep resolution",
		Met:  elapsed < 50*probe,
	}

	if status.Met {
		status.Message = fmt.Sprintf("1ms sleep took %v", elapsed.Round(10*time.Microsecond))
	} else {
		status.Message = fmt.Sprintf("1ms sleep took %v, short-task timings will be unreliable", elapsed.Round(10*time.Microsecond))
	}

	return status
}

// String returns a human-readable summary of the preflight result
func (r *Result) String() string {
	cpuStatus := "✓"
	if !r.MultipleCPUs.Met {
		cpuStatus = "✗"
	}

	procsStatus := "✓"
	if !r.Parallelism.Met {
		procsStatus = "✗"
	}

	sleepStatus := "✓"
	if !r.SleepResolution.Met {
		sleepStatus = "✗"
	}

	return fmt.Sprintf(
		"Preflight Check:\n"+
			"  %s Multiple CPUs: %s\n"+
			"  %s GOMAXPROCS: %s\n"+
			"  %s Sleep resolution: %s\n"+
			"  All checks met: %v",
		cpuStatus, r.MultipleCPUs.Message,
		procsStatus, r.Parallelism.Message,
		sleepStatus, r.SleepResolution.Message,
		r.AllMet,
	)
}
