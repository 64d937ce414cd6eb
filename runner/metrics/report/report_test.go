package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fanoutlabs/fanout/runner/metrics"
)

func testRecords() []metrics.Record {
	now := time.Now()
	return []metrics.Record{
		{RunID: "run-1", Profile: "smoke", TaskID: "task-0", Index: 0, State: "COMPLETED", Started: now, DurationMS: 10},
		{RunID: "run-1", Profile: "smoke", TaskID: "task-1", Index: 1, State: "FAILED", Started: now, DurationMS: 20, Error: "boom"},
		{RunID: "run-2", Profile: "scale", TaskID: "task-0", Index: 0, State: "COMPLETED", Started: now, DurationMS: 5},
	}
}

func TestGenerate(t *testing.T) {
	tmpDir := t.TempDir()
	csvPath := filepath.Join(tmpDir, "records.csv")
	htmlPath := filepath.Join(tmpDir, "report.html")

	if err := metrics.NewCSVExporter(csvPath).Export(testRecords()); err != nil {
		t.Fatalf("failed to write records fixture: %v", err)
	}

	err := Generate(csvPath, htmlPath, Config{Title: "Nightly Fanout Report"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	data, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("failed to read generated report: %v", err)
	}
	html := string(data)

	for _, want := range []string{
		"Nightly Fanout Report",
		"run-1",
		"run-2",
		"smoke",
		"task-0",
		"COMPLETED",
		"boom",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected report to contain %q", want)
		}
	}
}

func TestGenerateMissingCSV(t *testing.T) {
	err := Generate(filepath.Join(t.TempDir(), "missing.csv"), "out.html", Config{})
	if err == nil {
		t.Fatal("expected error for missing CSV, got nil")
	}
}

func TestGenerateFromRecordsEmpty(t *testing.T) {
	gen, err := NewGenerator(Config{})
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	err = gen.GenerateFromRecords(nil, filepath.Join(t.TempDir(), "out.html"))
	if err == nil {
		t.Fatal("expected error for empty records, got nil")
	}
	if !strings.Contains(err.Error(), "no task records") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestBuildData(t *testing.T) {
	gen, err := NewGenerator(Config{Title: "t"})
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	data := gen.buildData(testRecords())

	if data.Totals.Runs != 2 {
		t.Errorf("expected 2 runs, got %d", data.Totals.Runs)
	}
	if data.Totals.Tasks != 3 || data.Totals.Succeeded != 2 || data.Totals.Failed != 1 {
		t.Errorf("unexpected totals: %+v", data.Totals)
	}

	if len(data.Runs) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(data.Runs))
	}
	if data.Runs[0].RunID != "run-1" || data.Runs[1].RunID != "run-2" {
		t.Errorf("expected sections in first-seen order, got %q, %q", data.Runs[0].RunID, data.Runs[1].RunID)
	}

	first := data.Runs[0]
	if first.AvgMS != 15 {
		t.Errorf("expected 15ms average, got %v", first.AvgMS)
	}
	if first.MaxMS != 20 {
		t.Errorf("expected 20ms max, got %v", first.MaxMS)
	}
	if first.Rows[0].WidthPct != 50 {
		t.Errorf("expected 50%% bar width, got %v", first.Rows[0].WidthPct)
	}
	if first.Rows[1].WidthPct != 100 {
		t.Errorf("expected 100%% bar width, got %v", first.Rows[1].WidthPct)
	}
}
