package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"sigs.k8s.io/yaml"
)

// Load reads and parses a workload profile from a YAML file
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	if err := Validate(&profile); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	return &profile, nil
}

// LoadAll reads all YAML profiles from a directory, sorted by name
func LoadAll(dir string) ([]*Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles directory %s: %w", dir, err)
	}

	var profiles []*Profile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		profile, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		profiles = append(profiles, profile)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})

	return profiles, nil
}

// LoadByNames loads specific profiles by name from a directory.
// Each name is resolved to <dir>/<name>.yaml, falling back to .yml.
func LoadByNames(dir string, names []string) ([]*Profile, error) {
	var profiles []*Profile
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		path := filepath.Join(dir, name+".yaml")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = filepath.Join(dir, name+".yml")
		}

		profile, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile %q: %w", name, err)
		}

		profiles = append(profiles, profile)
	}

	return profiles, nil
}

// Validate checks that a profile is well-formed
func Validate(p *Profile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}

	w := p.Workload
	if w.Tasks < 0 {
		return fmt.Errorf("workload.tasks cannot be negative, got %d", w.Tasks)
	}
	if err := validateDuration("workload.baseDelay", w.BaseDelay); err != nil {
		return err
	}
	for i, stage := range w.Stages {
		if stage.Name == "" {
			return fmt.Errorf("workload.stages[%d].name is required", i)
		}
		if stage.Duration == "" {
			return fmt.Errorf("workload.stages[%d].duration is required", i)
		}
		if err := validateDuration(fmt.Sprintf("workload.stages[%d].duration", i), stage.Duration); err != nil {
			return err
		}
	}
	if w.FailEvery < 0 {
		return fmt.Errorf("workload.failEvery cannot be negative, got %d", w.FailEvery)
	}
	if err := validateDuration("workload.jitter", w.Jitter); err != nil {
		return err
	}

	r := p.Runner
	if r.Mode != "" && r.Mode != ModeSpawn && r.Mode != ModePool {
		return fmt.Errorf("runner.mode must be %q or %q, got %q", ModeSpawn, ModePool, r.Mode)
	}
	if r.MaxConcurrent < 0 {
		return fmt.Errorf("runner.maxConcurrent cannot be negative, got %d", r.MaxConcurrent)
	}
	if r.RatePerSecond < 0 {
		return fmt.Errorf("runner.ratePerSecond cannot be negative, got %v", r.RatePerSecond)
	}
	if r.RateBurst < 0 {
		return fmt.Errorf("runner.rateBurst cannot be negative, got %d", r.RateBurst)
	}
	if r.Workers < 0 {
		return fmt.Errorf("runner.workers cannot be negative, got %d", r.Workers)
	}
	if r.Queue < 0 {
		return fmt.Errorf("runner.queue cannot be negative, got %d", r.Queue)
	}

	return nil
}

func validateDuration(field, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s is not a valid duration: %w", field, err)
	}
	if d < 0 {
		return fmt.Errorf("%s cannot be negative, got %s", field, value)
	}
	return nil
}

// ListProfileNames returns the names of all profiles in a directory
func ListProfileNames(dir string) ([]string, error) {
	profiles, err := LoadAll(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(profiles))
	for _, profile := range profiles {
		names = append(names, profile.Name)
	}

	return names, nil
}
