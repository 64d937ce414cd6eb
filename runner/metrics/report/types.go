// Package report renders exported task records into a standalone HTML
// page, one section per run.
package report

import (
	"time"
)

// Config configures report generation
type Config struct {
	Title       string
	GeneratedAt time.Time
}

// Data holds all data for rendering the report
type Data struct {
	Config Config
	Totals Totals
	Runs   []RunSection
}

// Totals aggregates every run in the report
type Totals struct {
	Runs      int
	Tasks     int
	Succeeded int
	Failed    int
}

// RunSection groups the records of one run for display
type RunSection struct {
	RunID     string
	Profile   string
	Tasks     int
	Succeeded int
	Failed    int
	AvgMS     float64
	MaxMS     float64
	Rows      []Row
}

// Row is one task line in a run's table. WidthPct scales the duration
// bar relative to the slowest task of the run.
type Row struct {
	TaskID     string
	TaskName   string
	Index      int
	State      string
	Started    time.Time
	DurationMS float64
	WidthPct   float64
	Error      string
}
