package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/fanoutlabs/fanout/runner"
	"github.com/fanoutlabs/fanout/runner/config"
	"github.com/fanoutlabs/fanout/runner/metrics"
	"github.com/fanoutlabs/fanout/runner/metrics/report"
	"github.com/fanoutlabs/fanout/runner/pool"
	"github.com/fanoutlabs/fanout/runner/preflight"
	"github.com/fanoutlabs/fanout/runner/profile"
	"github.com/fanoutlabs/fanout/runner/workload"
)

func main() {
	var (
		profilesFlag    = flag.String("profiles", "", "Comma-separated list of profiles to run (e.g., smoke,scale)")
		profilesDir     = flag.String("profiles-dir", "profiles", "Directory containing profile YAML files")
		outputDir       = flag.String("output", "results", "Output directory for task records")
		modeFlag        = flag.String("mode", "", "Override execution mode for all profiles: spawn or pool")
		listFlag        = flag.Bool("list", false, "List available profiles and exit")
		dryRun          = flag.Bool("dry-run", false, "Print what would be executed without running")
		exportFlag      = flag.String("export", "csv", "Record export format: csv, json, or both")
		htmlFlag        = flag.Bool("html", true, "Generate HTML report after each run")
		strictPreflight = flag.Bool("strict-preflight", false, "Fail instead of warn when a preflight check is unmet")
		timeoutFlag     = flag.Duration("timeout", 0, "Per-profile run timeout (0 uses FANOUT_RUN_TIMEOUT or its default)")
	)
	flag.Parse()

	switch *exportFlag {
	case "csv", "json", "both":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid export format %q. Must be csv, json, or both\n", *exportFlag)
		os.Exit(1)
	}

	if *modeFlag != "" && *modeFlag != profile.ModeSpawn && *modeFlag != profile.ModePool {
		fmt.Fprintf(os.Stderr, "Error: invalid mode %q. Must be spawn or pool\n", *modeFlag)
		os.Exit(1)
	}

	if *listFlag {
		names, err := profile.ListProfileNames(*profilesDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing profiles: %v\n", err)
			os.Exit(1)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	// Load profiles
	var profiles []*profile.Profile
	var err error

	if *profilesFlag != "" {
		names := strings.Split(*profilesFlag, ",")
		profiles, err = profile.LoadByNames(*profilesDir, names)
	} else {
		profiles, err = profile.LoadAll(*profilesDir)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading profiles: %v\n", err)
		os.Exit(1)
	}

	if len(profiles) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no profiles found in %s\n", *profilesDir)
		os.Exit(1)
	}

	// Print summary
	fmt.Printf("Loaded %d profile(s):\n", len(profiles))
	for _, p := range profiles {
		fmt.Printf("  - %s: %s\n", p.Name, p.Description)
	}
	fmt.Println()

	if *dryRun {
		fmt.Println("Dry run mode - would execute the following:")
		for _, p := range profiles {
			printProfileSummary(p, *modeFlag)
		}
		return
	}

	// Setup context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt signal, cancelling run...")
		cancel()
		// Second interrupt force-exits
		<-sigCh
		fmt.Println("\nForce exit requested, terminating immediately...")
		os.Exit(130) // 128 + SIGINT(2)
	}()

	// Check the host before spending time on runs
	fmt.Println("Running preflight checks...")
	pre := preflight.Check()
	fmt.Println(pre.String())
	fmt.Println()
	if !pre.AllMet {
		if *strictPreflight {
			fmt.Fprintln(os.Stderr, "Error: preflight checks not met")
			os.Exit(1)
		}
		fmt.Println("Warning: continuing with unmet preflight checks, timings may be unreliable")
		fmt.Println()
	}

	// Create output directory
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	cfg := config.FromEnv()
	timeout := *timeoutFlag
	if timeout <= 0 {
		timeout = cfg.RunTimeout
	}

	opts := runOptions{
		outputDir: *outputDir,
		mode:      *modeFlag,
		export:    *exportFlag,
		html:      *htmlFlag,
		timeout:   timeout,
		progress:  cfg.ProgressInterval,
	}

	// Run profiles sequentially
	results := make(map[string]*RunResult)
	for _, p := range profiles {
		select {
		case <-ctx.Done():
			fmt.Println("Aborted by user")
			printSummary(profiles, results)
			os.Exit(1)
		default:
		}

		result := runProfile(ctx, p, opts)
		results[p.Name] = result

		if result.Error != nil {
			fmt.Printf("Profile %s failed: %v\n", p.Name, result.Error)
		}
	}

	// Print summary
	printSummary(profiles, results)

	// Exit with error if any profile failed
	for _, r := range results {
		if r.Error != nil {
			os.Exit(1)
		}
	}
}

// RunResult holds the result of running a profile
type RunResult struct {
	Profile     string
	Success     bool
	Tasks       int
	FailedTasks int
	Duration    time.Duration
	Error       error
}

type runOptions struct {
	outputDir string
	mode      string
	export    string
	html      bool
	timeout   time.Duration
	progress  time.Duration
}

func runProfile(ctx context.Context, p *profile.Profile, opts runOptions) *RunResult {
	startTime := time.Now()
	result := &RunResult{Profile: p.Name}

	mode := p.Runner.ExecMode()
	if opts.mode != "" {
		mode = opts.mode
	}

	fmt.Printf("\n========================================\n")
	fmt.Printf("Running profile: %s\n", p.Name)
	fmt.Printf("Mode: %s\n", mode)
	fmt.Printf("========================================\n\n")

	spec, err := workload.FromProfile(p)
	if err != nil {
		result.Error = fmt.Errorf("failed to build workload: %w", err)
		result.Duration = time.Since(startTime)
		return result
	}
	tasks := workload.Build(spec)
	result.Tasks = len(tasks)

	runCtx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	var summary *runner.Summary[string]
	if mode == profile.ModePool {
		summary, err = runOnPool(runCtx, p, tasks, opts.progress)
	} else {
		summary, err = runSpawned(runCtx, p, tasks, opts.progress)
	}
	if err != nil {
		result.Error = fmt.Errorf("run rejected: %w", err)
		result.Duration = time.Since(startTime)
		return result
	}

	// An interrupt or timeout shows up as failed slots, not a whole-run
	// error, so surface it explicitly
	if runCtx.Err() != nil {
		result.FailedTasks = summary.Failed()
		result.Error = fmt.Errorf("run interrupted: %w", runCtx.Err())
		result.Duration = time.Since(startTime)
		return result
	}

	runReport := workload.Summarize(p.Name, summary)
	result.FailedTasks = summary.Failed()
	fmt.Println(runReport.String())
	fmt.Println()

	records := metrics.FromSummary(p.Name, summary)
	if err := exportRecords(records, p.Name, opts); err != nil {
		fmt.Printf("Warning: failed to export records: %v\n", err)
	}

	if opts.html {
		htmlFile := filepath.Join(opts.outputDir, p.Name+"-report.html")
		gen, err := report.NewGenerator(report.Config{
			Title:       fmt.Sprintf("Fanout Run Report: %s", p.Name),
			GeneratedAt: time.Now(),
		})
		if err == nil {
			err = gen.GenerateFromRecords(records, htmlFile)
		}
		if err != nil {
			fmt.Printf("Warning: failed to generate report: %v\n", err)
		} else {
			fmt.Printf("Report generated: %s\n", htmlFile)
		}
	}

	result.Success = true
	result.Duration = time.Since(startTime)
	fmt.Printf("\nProfile %s completed in %s\n", p.Name, result.Duration.Round(time.Millisecond))

	return result
}

// runSpawned executes the batch with one unit of execution per task
func runSpawned(ctx context.Context, p *profile.Profile, tasks []runner.Task[string], progress time.Duration) (*runner.Summary[string], error) {
	opts := []runner.Option{runner.WithName(p.Name)}
	if p.Runner.MaxConcurrent > 0 {
		opts = append(opts, runner.WithMaxConcurrent(p.Runner.MaxConcurrent))
	}
	if p.Runner.RatePerSecond > 0 {
		opts = append(opts, runner.WithRateLimit(p.Runner.RatePerSecond, p.Runner.RateBurst))
	}

	run := runner.New[string](opts...)
	stop := watchProgress(progress, len(tasks), run.Stats)
	defer stop()

	return run.Run(ctx, tasks)
}

// runOnPool executes the batch on a fixed worker pool
func runOnPool(ctx context.Context, p *profile.Profile, tasks []runner.Task[string], progress time.Duration) (*runner.Summary[string], error) {
	workerPool := pool.New[string](ctx, p.Runner.Workers, p.Runner.Queue)
	defer func() {
		if err := workerPool.Close(); err != nil {
			fmt.Printf("Warning: pool shutdown: %v\n", err)
		}
	}()

	stop := watchProgress(progress, len(tasks), workerPool.Stats)
	defer stop()

	return workerPool.Run(ctx, tasks)
}

// watchProgress prints settled counts at the configured cadence until the
// returned stop function is called. A non-positive interval disables it.
func watchProgress(interval time.Duration, total int, stats func() runner.Stats) func() {
	if interval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				s := stats()
				fmt.Printf("  progress: %d/%d settled, %d running\n",
					s.Completed+s.Failed, total, s.Running)
			}
		}
	}()

	return func() { close(done) }
}

func exportRecords(records []metrics.Record, name string, opts runOptions) error {
	if opts.export == "csv" || opts.export == "both" {
		path := filepath.Join(opts.outputDir, name+"-records.csv")
		if err := metrics.NewCSVExporter(path).Export(records); err != nil {
			return err
		}
	}
	if opts.export == "json" || opts.export == "both" {
		path := filepath.Join(opts.outputDir, name+"-records.json")
		if err := metrics.NewJSONExporter(path).Export(records); err != nil {
			return err
		}
	}
	return nil
}

func printProfileSummary(p *profile.Profile, modeOverride string) {
	mode := p.Runner.ExecMode()
	if modeOverride != "" {
		mode = modeOverride
	}

	fmt.Printf("\nProfile: %s\n", p.Name)
	fmt.Printf("  Description: %s\n", p.Description)
	fmt.Printf("  Workload:\n")
	fmt.Printf("    Tasks: %d\n", p.Workload.Tasks)
	if p.Workload.BaseDelay != "" {
		fmt.Printf("    BaseDelay: %s\n", p.Workload.BaseDelay)
	}
	for _, stage := range p.Workload.Stages {
		fmt.Printf("    Stage %s: %s\n", stage.Name, stage.Duration)
	}
	if p.Workload.FailEvery > 0 {
		fmt.Printf("    FailEvery: %d\n", p.Workload.FailEvery)
	}
	if p.Workload.Jitter != "" {
		fmt.Printf("    Jitter: %s (seed %d)\n", p.Workload.Jitter, p.Workload.Seed)
	}
	fmt.Printf("  Runner (%s mode):\n", mode)
	if mode == profile.ModePool {
		fmt.Printf("    Workers: %d\n", p.Runner.Workers)
		fmt.Printf("    Queue: %d\n", p.Runner.Queue)
		return
	}
	if p.Runner.MaxConcurrent > 0 {
		fmt.Printf("    MaxConcurrent: %d\n", p.Runner.MaxConcurrent)
	} else {
		fmt.Printf("    MaxConcurrent: unbounded\n")
	}
	if p.Runner.RatePerSecond > 0 {
		fmt.Printf("    Rate: %.1f/s (burst %d)\n", p.Runner.RatePerSecond, p.Runner.RateBurst)
	}
}

func printSummary(profiles []*profile.Profile, results map[string]*RunResult) {
	fmt.Printf("\n========================================\n")
	fmt.Printf("SUMMARY\n")
	fmt.Printf("========================================\n")

	var passed, failed int
	for _, p := range profiles {
		r, ok := results[p.Name]
		if !ok {
			fmt.Printf("  %s: SKIPPED\n", p.Name)
			continue
		}

		status := "PASS"
		if r.Error != nil {
			status = "FAIL"
			failed++
		} else {
			passed++
		}
		fmt.Printf("  %s: %s (%d tasks, %d failed, %s)\n",
			p.Name, status, r.Tasks, r.FailedTasks, r.Duration.Round(time.Millisecond))
	}

	fmt.Printf("\nTotal: %d passed, %d failed\n", passed, failed)
}
