package report

import (
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*
var templateFS embed.FS

// GetTemplateFuncs returns the template function map
func GetTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatMS":   formatMS,
		"formatTime": formatTime,
		"percent":    percent,
		"stateClass": stateClass,
	}
}

// formatMS formats a millisecond value for display
func formatMS(ms float64) string {
	if ms >= 1000 {
		return fmt.Sprintf("%.2f s", ms/1000)
	}
	return fmt.Sprintf("%.2f ms", ms)
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("15:04:05.000")
}

// percent formats part of whole as a percentage
func percent(part, whole int) string {
	if whole == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(part)/float64(whole))
}

// stateClass maps a task state to a CSS class
func stateClass(state string) string {
	if state == "COMPLETED" {
		return "ok"
	}
	return "failed"
}
