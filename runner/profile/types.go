// Package profile loads bench workload profiles from YAML files.
package profile

// Execution modes selectable per profile
const (
	// ModeSpawn launches one unit of execution per task (the default)
	ModeSpawn = "spawn"

	// ModePool executes the batch on a fixed worker pool
	ModePool = "pool"
)

// Profile represents a complete bench workload configuration
type Profile struct {
	// Name is the unique identifier for this profile
	Name string `yaml:"name"`

	// Description provides human-readable details about the profile
	Description string `yaml:"description"`

	// Workload defines the synthetic task batch
	Workload WorkloadConfig `yaml:"workload"`

	// Runner defines how the batch is executed
	Runner RunnerConfig `yaml:"runner"`
}

// WorkloadConfig defines the synthetic task batch
type WorkloadConfig struct {
	// Tasks is the number of tasks in the batch
	Tasks int `yaml:"tasks"`

	// Payload is the prefix of each task's result value (default "done")
	Payload string `yaml:"payload,omitempty"`

	// BaseDelay is a fixed delay every task sleeps before its stages
	// (e.g., "100ms")
	BaseDelay string `yaml:"baseDelay,omitempty"`

	// Stages are named delays each task works through in order, simulating
	// the phases of a request (e.g., parse, db, logic)
	Stages []StageConfig `yaml:"stages,omitempty"`

	// FailEvery makes every Nth task (1-based) fail; 0 disables injection
	FailEvery int `yaml:"failEvery,omitempty"`

	// Jitter is the maximum random extra delay per task (e.g., "5ms")
	Jitter string `yaml:"jitter,omitempty"`

	// Seed fixes the jitter sequence; runs with the same seed generate
	// identical workloads
	Seed int64 `yaml:"seed,omitempty"`
}

// StageConfig is one named delay within a task
type StageConfig struct {
	// Name identifies the stage (e.g., "parse")
	Name string `yaml:"name"`

	// Duration of the stage (e.g., "10ms")
	Duration string `yaml:"duration"`
}

// RunnerConfig defines how a batch is executed
type RunnerConfig struct {
	// Mode selects the executor: "spawn" or "pool". Empty means spawn.
	Mode string `yaml:"mode,omitempty"`

	// MaxConcurrent caps simultaneous units in spawn mode; 0 means unbounded
	MaxConcurrent int `yaml:"maxConcurrent,omitempty"`

	// RatePerSecond throttles unit launches in spawn mode; 0 disables
	RatePerSecond float64 `yaml:"ratePerSecond,omitempty"`

	// RateBurst is the limiter burst when a rate is set
	RateBurst int `yaml:"rateBurst,omitempty"`

	// Workers is the pool size in pool mode; 0 defaults to the CPU count
	Workers int `yaml:"workers,omitempty"`

	// Queue is the pool queue capacity in pool mode
	Queue int `yaml:"queue,omitempty"`
}

// ExecMode returns the effective execution mode, defaulting to spawn
func (r RunnerConfig) ExecMode() string {
	if r.Mode == "" {
		return ModeSpawn
	}
	return r.Mode
}
