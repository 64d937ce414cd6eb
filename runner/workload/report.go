package workload

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fanoutlabs/fanout/runner"
)

// DurationStats summarizes the latency distribution of the tasks that ran
type DurationStats struct {
	Avg time.Duration
	Min time.Duration
	Med time.Duration
	Max time.Duration
	P90 time.Duration
	P95 time.Duration
	P99 time.Duration
}

// Report condenses one run of a workload into comparable numbers.
// Sequential is the sum of per-task durations, the time the batch would
// have taken one task at a time. Speedup is Sequential over Wall.
type Report struct {
	RunID      string
	Profile    string
	Tasks      int
	Succeeded  int
	Failed     int
	Wall       time.Duration
	Sequential time.Duration
	Speedup    float64
	Throughput float64
	Latency    DurationStats
}

// Summarize computes a report from a finished run. Tasks that were never
// admitted carry no duration and are excluded from the latency figures.
func Summarize(profileName string, s *runner.Summary[string]) Report {
	report := Report{
		RunID:     s.RunID(),
		Profile:   profileName,
		Tasks:     s.Len(),
		Succeeded: s.Succeeded(),
		Failed:    s.Failed(),
		Wall:      s.Wall(),
	}

	var durations []time.Duration
	for _, res := range s.Results() {
		if res.Started.IsZero() {
			continue
		}
		durations = append(durations, res.Duration)
		report.Sequential += res.Duration
	}

	if report.Wall > 0 {
		report.Speedup = float64(report.Sequential) / float64(report.Wall)
		report.Throughput = float64(len(durations)) / report.Wall.Seconds()
	}
	report.Latency = computeStats(durations)

	return report
}

func computeStats(durations []time.Duration) DurationStats {
	if len(durations) == 0 {
		return DurationStats{}
	}

	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, d := range sorted {
		total += d
	}

	return DurationStats{
		Avg: total / time.Duration(len(sorted)),
		Min: sorted[0],
		Med: percentile(sorted, 0.50),
		Max: sorted[len(sorted)-1],
		P90: percentile(sorted, 0.90),
		P95: percentile(sorted, 0.95),
		P99: percentile(sorted, 0.99),
	}
}

// percentile uses the nearest-rank method on an already sorted slice
func percentile(sorted []time.Duration, q float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(q*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// String renders the report as a short multi-line block for run logs
func (r Report) String() string {
	status := "✓"
	if r.Failed > 0 {
		status = "✗"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %d tasks, %d succeeded, %d failed\n",
		status, r.Profile, r.Tasks, r.Succeeded, r.Failed)
	fmt.Fprintf(&b, "  wall %s, sequential %s (%.1fx speedup), %.1f tasks/s\n",
		fmtDur(r.Wall), fmtDur(r.Sequential), r.Speedup, r.Throughput)
	fmt.Fprintf(&b, "  latency avg=%s min=%s med=%s p90=%s p95=%s p99=%s max=%s",
		fmtDur(r.Latency.Avg), fmtDur(r.Latency.Min), fmtDur(r.Latency.Med),
		fmtDur(r.Latency.P90), fmtDur(r.Latency.P95), fmtDur(r.Latency.P99),
		fmtDur(r.Latency.Max))
	return b.String()
}

func fmtDur(d time.Duration) string {
	return d.Round(100 * time.Microsecond).String()
}
