package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ReadRecords loads task records from a CSV file previously written by
// the CSV exporter
func ReadRecords(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read records file %s: %w", path, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("records file %s is empty", path)
	}

	if len(rows[0]) != len(csvHeader) {
		return nil, fmt.Errorf("records file %s has %d columns, expected %d", path, len(rows[0]), len(csvHeader))
	}
	for i, col := range csvHeader {
		if rows[0][i] != col {
			return nil, fmt.Errorf("records file %s column %d is %q, expected %q", path, i, rows[0][i], col)
		}
	}

	records := make([]Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("records file %s row %d: %w", path, n+1, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRow(row []string) (Record, error) {
	rec := Record{
		RunID:    row[0],
		Profile:  row[1],
		TaskID:   row[2],
		TaskName: row[3],
		State:    row[5],
		Error:    row[8],
	}

	index, err := strconv.Atoi(row[4])
	if err != nil {
		return Record{}, fmt.Errorf("invalid index %q: %w", row[4], err)
	}
	rec.Index = index

	if row[6] != "" {
		started, err := time.Parse(time.RFC3339Nano, row[6])
		if err != nil {
			return Record{}, fmt.Errorf("invalid start time %q: %w", row[6], err)
		}
		rec.Started = started
	}

	duration, err := strconv.ParseFloat(row[7], 64)
	if err != nil {
		return Record{}, fmt.Errorf("invalid duration %q: %w", row[7], err)
	}
	rec.DurationMS = duration

	return rec, nil
}
