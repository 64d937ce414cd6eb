// Package metrics flattens run summaries into per-task records and
// exports them to CSV or JSON files.
package metrics

import (
	"time"

	"github.com/fanoutlabs/fanout/runner"
)

// Record is one task outcome flattened for export
type Record struct {
	RunID      string    `json:"run_id"`
	Profile    string    `json:"profile"`
	TaskID     string    `json:"task_id"`
	TaskName   string    `json:"task_name,omitempty"`
	Index      int       `json:"index"`
	State      string    `json:"state"`
	Started    time.Time `json:"started"`
	DurationMS float64   `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
}

// Ok reports whether the task behind this record succeeded
func (r Record) Ok() bool {
	return r.Error == ""
}

// FromSummary flattens a run summary into export records, one per task,
// in submission order
func FromSummary[T any](profileName string, s *runner.Summary[T]) []Record {
	records := make([]Record, 0, s.Len())
	for _, res := range s.Results() {
		rec := Record{
			RunID:      s.RunID(),
			Profile:    profileName,
			TaskID:     res.TaskID,
			TaskName:   res.Name,
			Index:      res.Index,
			State:      string(res.State),
			Started:    res.Started,
			DurationMS: float64(res.Duration) / float64(time.Millisecond),
		}
		if res.Err != nil {
			rec.Error = res.Err.Error()
		}
		records = append(records, rec)
	}
	return records
}
