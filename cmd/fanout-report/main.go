package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fanoutlabs/fanout/runner/metrics"
	"github.com/fanoutlabs/fanout/runner/metrics/report"
)

func main() {
	var (
		inputFlag  = flag.String("input", "", "Input CSV records file")
		mergeFlag  = flag.String("merge", "", "Comma-separated list of CSV files to combine into one report")
		outputFlag = flag.String("output", "", "Output HTML file (default: input with -report.html suffix)")
		titleFlag  = flag.String("title", "Fanout Run Report", "Report title")
	)
	flag.Parse()

	config := report.Config{
		Title:       *titleFlag,
		GeneratedAt: time.Now(),
	}

	// Determine mode: single or merged
	if *mergeFlag != "" {
		csvPaths := strings.Split(*mergeFlag, ",")
		for i := range csvPaths {
			csvPaths[i] = strings.TrimSpace(csvPaths[i])
		}

		if len(csvPaths) < 2 {
			fmt.Fprintln(os.Stderr, "Error: --merge requires at least 2 CSV files")
			flag.Usage()
			os.Exit(1)
		}

		var records []metrics.Record
		for _, p := range csvPaths {
			recs, err := metrics.ReadRecords(p)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", p, err)
				os.Exit(1)
			}
			records = append(records, recs...)
		}

		output := *outputFlag
		if output == "" {
			output = "combined-report.html"
		}

		fmt.Printf("Generating combined report from %d files...\n", len(csvPaths))
		for _, p := range csvPaths {
			fmt.Printf("  - %s\n", p)
		}

		gen, err := report.NewGenerator(config)
		if err == nil {
			err = gen.GenerateFromRecords(records, output)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Report generated: %s\n", output)
		return
	}

	// Single file mode
	if *inputFlag == "" {
		fmt.Fprintln(os.Stderr, "Error: --input is required (or use --merge for multiple files)")
		flag.Usage()
		os.Exit(1)
	}

	if _, err := os.Stat(*inputFlag); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: input file not found: %s\n", *inputFlag)
		os.Exit(1)
	}

	// Auto-detect output path
	output := *outputFlag
	if output == "" {
		base := strings.TrimSuffix(*inputFlag, ".csv")
		base = strings.TrimSuffix(base, "-records")
		output = base + "-report.html"
	}

	fmt.Printf("Generating report from %s...\n", *inputFlag)

	if err := report.Generate(*inputFlag, output, config); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Report generated: %s\n", output)
}
