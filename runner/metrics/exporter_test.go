package metrics

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func sampleRecords(now time.Time) []Record {
	return []Record{
		{
			RunID:      "run-1",
			Profile:    "smoke",
			TaskID:     "task-0",
			TaskName:   "done-0",
			Index:      0,
			State:      "COMPLETED",
			Started:    now,
			DurationMS: 10.5,
		},
		{
			RunID:      "run-1",
			Profile:    "smoke",
			TaskID:     "task-1",
			TaskName:   "done-1",
			Index:      1,
			State:      "FAILED",
			Started:    now.Add(time.Millisecond),
			DurationMS: 3.25,
			Error:      "injected workload failure: task 1",
		},
	}
}

func TestNewExporter_AutoDetectCSV(t *testing.T) {
	exp := NewExporter("output.csv", "")
	if _, ok := exp.(*CSVExporter); !ok {
		t.Error("expected CSVExporter for .csv extension")
	}
}

func TestNewExporter_AutoDetectJSON(t *testing.T) {
	exp := NewExporter("output.json", "")
	if _, ok := exp.(*JSONExporter); !ok {
		t.Error("expected JSONExporter for .json extension")
	}
}

func TestNewExporter_ExplicitFormat(t *testing.T) {
	exp := NewExporter("output.txt", FormatJSON)
	if _, ok := exp.(*JSONExporter); !ok {
		t.Error("expected JSONExporter when FormatJSON is specified")
	}
}

func TestNewExporter_UnknownExtension(t *testing.T) {
	exp := NewExporter("output.dat", "")
	if _, ok := exp.(*CSVExporter); !ok {
		t.Error("expected CSVExporter as the fallback")
	}
}

func TestCSVExporter_Export(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "records.csv")

	exporter := NewCSVExporter(outputPath)

	now := time.Now().UTC().Truncate(time.Millisecond)
	if err := exporter.Export(sampleRecords(now)); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	file, err := os.Open(outputPath)
	if err != nil {
		t.Fatalf("failed to open output file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("failed to read CSV: %v", err)
	}

	// Header plus one row per record
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows (header + 2 records), got %d", len(rows))
	}

	expectedHeader := []string{"run_id", "profile", "task_id", "task_name", "index", "state", "started", "duration_ms", "error"}
	for i, h := range expectedHeader {
		if rows[0][i] != h {
			t.Errorf("expected header[%d] = %q, got %q", i, h, rows[0][i])
		}
	}

	if rows[1][0] != "run-1" {
		t.Errorf("expected run_id 'run-1', got %q", rows[1][0])
	}
	if rows[1][2] != "task-0" {
		t.Errorf("expected task_id 'task-0', got %q", rows[1][2])
	}
	if rows[1][7] != "10.500" {
		t.Errorf("expected duration '10.500', got %q", rows[1][7])
	}
	if rows[1][8] != "" {
		t.Errorf("expected empty error for completed task, got %q", rows[1][8])
	}
	if rows[2][5] != "FAILED" {
		t.Errorf("expected state 'FAILED', got %q", rows[2][5])
	}
	if rows[2][8] != "injected workload failure: task 1" {
		t.Errorf("unexpected error column: %q", rows[2][8])
	}
}

func TestJSONExporter_Export(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "records.json")

	exporter := NewJSONExporter(outputPath)

	now := time.Now().UTC().Truncate(time.Millisecond)
	if err := exporter.Export(sampleRecords(now)); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}

	var report JSONExportReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("failed to unmarshal JSON: %v", err)
	}

	if report.TotalRecords != 2 {
		t.Errorf("expected TotalRecords 2, got %d", report.TotalRecords)
	}
	if report.Succeeded != 1 {
		t.Errorf("expected Succeeded 1, got %d", report.Succeeded)
	}
	if report.Failed != 1 {
		t.Errorf("expected Failed 1, got %d", report.Failed)
	}

	if report.Summary == nil {
		t.Fatal("expected Summary to be non-nil")
	}
	agg, ok := report.Summary.ByRun["run-1"]
	if !ok {
		t.Fatal("expected run-1 aggregate in summary")
	}
	if agg.Records != 2 {
		t.Errorf("expected 2 records for run-1, got %d", agg.Records)
	}
	if agg.Failed != 1 {
		t.Errorf("expected 1 failure for run-1, got %d", agg.Failed)
	}
	if agg.AvgDurationMS != (10.5+3.25)/2 {
		t.Errorf("unexpected average duration: %v", agg.AvgDurationMS)
	}

	if len(report.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(report.Records))
	}
	if report.Records[0].TaskID != "task-0" {
		t.Errorf("expected first record task_id 'task-0', got %q", report.Records[0].TaskID)
	}
	if report.Records[1].Error != "injected workload failure: task 1" {
		t.Errorf("unexpected error message: %q", report.Records[1].Error)
	}
}

func TestJSONExporter_WithPrettyPrint(t *testing.T) {
	tmpDir := t.TempDir()

	records := sampleRecords(time.Now())

	prettyPath := filepath.Join(tmpDir, "pretty.json")
	prettyExporter := NewJSONExporter(prettyPath).WithPrettyPrint(true)
	if err := prettyExporter.Export(records); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	prettyData, _ := os.ReadFile(prettyPath)

	compactPath := filepath.Join(tmpDir, "compact.json")
	compactExporter := NewJSONExporter(compactPath).WithPrettyPrint(false)
	if err := compactExporter.Export(records); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	compactData, _ := os.ReadFile(compactPath)

	// Pretty printed should be longer due to indentation
	if len(prettyData) <= len(compactData) {
		t.Error("expected pretty printed JSON to be longer than compact")
	}
}

func TestCSVExporter_EmptyRecords(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty.csv")

	exporter := NewCSVExporter(outputPath)
	if err := exporter.Export(nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	file, _ := os.Open(outputPath)
	defer file.Close()
	reader := csv.NewReader(file)
	rows, _ := reader.ReadAll()

	if len(rows) != 1 {
		t.Errorf("expected 1 row (header only), got %d", len(rows))
	}
}

func TestJSONExporter_EmptyRecords(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty.json")

	exporter := NewJSONExporter(outputPath)
	if err := exporter.Export(nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}

	var report JSONExportReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("failed to unmarshal JSON: %v", err)
	}

	if report.TotalRecords != 0 {
		t.Errorf("expected TotalRecords 0, got %d", report.TotalRecords)
	}
	if len(report.Records) != 0 {
		t.Errorf("expected empty Records, got %d", len(report.Records))
	}
	if report.Summary != nil {
		t.Errorf("expected nil Summary for empty export, got %+v", report.Summary)
	}
}
