package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/fanoutlabs/fanout/runner/metrics"
)

// Generator creates HTML reports from task records
type Generator struct {
	config    Config
	templates *template.Template
}

// NewGenerator creates a new report generator
func NewGenerator(config Config) (*Generator, error) {
	tmpl, err := template.New("report").
		Funcs(GetTemplateFuncs()).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	if config.Title == "" {
		config.Title = "Fanout Run Report"
	}
	if config.GeneratedAt.IsZero() {
		config.GeneratedAt = time.Now()
	}

	return &Generator{
		config:    config,
		templates: tmpl,
	}, nil
}

// GenerateFromCSV reads a records CSV and renders the HTML report
func (g *Generator) GenerateFromCSV(csvPath, outputPath string) error {
	records, err := metrics.ReadRecords(csvPath)
	if err != nil {
		return err
	}
	return g.GenerateFromRecords(records, outputPath)
}

// GenerateFromRecords renders the HTML report for a set of records
func (g *Generator) GenerateFromRecords(records []metrics.Record, outputPath string) error {
	if len(records) == 0 {
		return fmt.Errorf("no task records to report")
	}

	data := g.buildData(records)

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := g.templates.ExecuteTemplate(file, "report.html", data); err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return nil
}

// buildData groups records into run sections, keeping the order runs
// first appear in the input
func (g *Generator) buildData(records []metrics.Record) *Data {
	sections := make(map[string]*RunSection)
	var order []string

	for _, rec := range records {
		section, ok := sections[rec.RunID]
		if !ok {
			section = &RunSection{RunID: rec.RunID, Profile: rec.Profile}
			sections[rec.RunID] = section
			order = append(order, rec.RunID)
		}

		section.Tasks++
		if rec.Ok() {
			section.Succeeded++
		} else {
			section.Failed++
		}
		section.AvgMS += rec.DurationMS
		if rec.DurationMS > section.MaxMS {
			section.MaxMS = rec.DurationMS
		}

		section.Rows = append(section.Rows, Row{
			TaskID:     rec.TaskID,
			TaskName:   rec.TaskName,
			Index:      rec.Index,
			State:      rec.State,
			Started:    rec.Started,
			DurationMS: rec.DurationMS,
			Error:      rec.Error,
		})
	}

	data := &Data{Config: g.config}
	for _, runID := range order {
		section := sections[runID]
		section.AvgMS /= float64(section.Tasks)
		for i := range section.Rows {
			if section.MaxMS > 0 {
				section.Rows[i].WidthPct = 100 * section.Rows[i].DurationMS / section.MaxMS
			}
		}

		data.Totals.Runs++
		data.Totals.Tasks += section.Tasks
		data.Totals.Succeeded += section.Succeeded
		data.Totals.Failed += section.Failed
		data.Runs = append(data.Runs, *section)
	}

	return data
}

// Generate is a convenience function that creates a generator and
// renders a report from a records CSV
func Generate(csvPath, outputPath string, config Config) error {
	gen, err := NewGenerator(config)
	if err != nil {
		return err
	}
	return gen.GenerateFromCSV(csvPath, outputPath)
}
