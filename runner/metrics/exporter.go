package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Format identifies an export encoding
type Format string

// Supported export formats
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Exporter writes task records to a file
type Exporter interface {
	Export(records []Record) error
}

// NewExporter picks an exporter for the given format, falling back to the
// output path's extension. CSV is the default.
func NewExporter(outputPath string, format Format) Exporter {
	switch format {
	case FormatJSON:
		return NewJSONExporter(outputPath)
	case FormatCSV:
		return NewCSVExporter(outputPath)
	}

	if strings.EqualFold(filepath.Ext(outputPath), ".json") {
		return NewJSONExporter(outputPath)
	}
	return NewCSVExporter(outputPath)
}

var csvHeader = []string{
	"run_id",
	"profile",
	"task_id",
	"task_name",
	"index",
	"state",
	"started",
	"duration_ms",
	"error",
}

// CSVExporter handles exporting task records to CSV format
type CSVExporter struct {
	outputPath string
}

// NewCSVExporter creates a new CSV exporter
func NewCSVExporter(outputPath string) *CSVExporter {
	return &CSVExporter{
		outputPath: outputPath,
	}
}

// Export writes task records to CSV, one row per task
func (e *CSVExporter) Export(records []Record) error {
	file, err := os.Create(e.outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		started := ""
		if !rec.Started.IsZero() {
			started = rec.Started.Format(time.RFC3339Nano)
		}

		row := []string{
			rec.RunID,
			rec.Profile,
			rec.TaskID,
			rec.TaskName,
			fmt.Sprintf("%d", rec.Index),
			rec.State,
			started,
			fmt.Sprintf("%.3f", rec.DurationMS),
			rec.Error,
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	fmt.Printf("📝 Wrote %d task records to CSV\n", len(records))

	return nil
}

// JSONExportReport is the envelope written by the JSON exporter
type JSONExportReport struct {
	GeneratedAt  time.Time      `json:"generated_at"`
	TotalRecords int            `json:"total_records"`
	Succeeded    int            `json:"succeeded"`
	Failed       int            `json:"failed"`
	Summary      *ExportSummary `json:"summary,omitempty"`
	Records      []Record       `json:"records"`
}

// ExportSummary aggregates the exported records per run
type ExportSummary struct {
	ByRun map[string]RunAggregate `json:"by_run"`
}

// RunAggregate holds per-run counts and the mean task duration
type RunAggregate struct {
	Records       int     `json:"records"`
	Failed        int     `json:"failed"`
	AvgDurationMS float64 `json:"avg_duration_ms"`
}

// JSONExporter handles exporting task records to JSON format
type JSONExporter struct {
	outputPath string
	pretty     bool
}

// NewJSONExporter creates a new JSON exporter with pretty printing on
func NewJSONExporter(outputPath string) *JSONExporter {
	return &JSONExporter{
		outputPath: outputPath,
		pretty:     true,
	}
}

// WithPrettyPrint toggles indented output
func (e *JSONExporter) WithPrettyPrint(pretty bool) *JSONExporter {
	e.pretty = pretty
	return e
}

// Export writes task records wrapped in a JSONExportReport
func (e *JSONExporter) Export(records []Record) error {
	report := JSONExportReport{
		GeneratedAt:  time.Now().UTC(),
		TotalRecords: len(records),
		Records:      records,
	}
	if report.Records == nil {
		report.Records = []Record{}
	}

	for _, rec := range records {
		if rec.Ok() {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	if len(records) > 0 {
		report.Summary = summarize(records)
	}

	var data []byte
	var err error
	if e.pretty {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal export report: %w", err)
	}

	if err := os.WriteFile(e.outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Printf("📝 Wrote %d task records to JSON\n", len(records))

	return nil
}

func summarize(records []Record) *ExportSummary {
	summary := &ExportSummary{ByRun: make(map[string]RunAggregate)}

	for _, rec := range records {
		agg := summary.ByRun[rec.RunID]
		agg.Records++
		if !rec.Ok() {
			agg.Failed++
		}
		agg.AvgDurationMS += rec.DurationMS
		summary.ByRun[rec.RunID] = agg
	}

	for runID, agg := range summary.ByRun {
		agg.AvgDurationMS /= float64(agg.Records)
		summary.ByRun[runID] = agg
	}

	return summary
}
