// Package config loads and validates the simulator's SystemConfig from
// the whitespace key-value file format spec.md §6 defines. Adapted from
// jasonKoogler-cpu-sim's LoadConfig/validateConfig/DefaultConfig shape,
// but parsing an entirely different, scheduler-shaped set of tunables
// instead of a YAML memory-hierarchy description.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Scheduler selects the active discipline: first-come-first-served or
// round-robin.
type Scheduler string

const (
	FCFS Scheduler = "fcfs"
	RR   Scheduler = "rr"
)

// System is the immutable (once loaded) record of tunables spec.md §3
// calls SystemConfig. yaml tags exist solely for System.DumpYAML, an
// export-only convenience — the input format is the key-value grammar
// below, never YAML.
type System struct {
	NumCPU           int       `yaml:"numCPU"`
	Scheduler        Scheduler `yaml:"scheduler"`
	QuantumCycles    uint32    `yaml:"quantumCycles"`
	BatchProcessFreq uint32    `yaml:"batchProcessFreq"`
	MinInstructions  uint32    `yaml:"minInstructions"`
	MaxInstructions  uint32    `yaml:"maxInstructions"`
	DelayPerExec     uint32    `yaml:"delayPerExec"`
}

// Default returns a small, self-consistent configuration useful for
// smoke-testing the console without a config.txt on disk.
func Default() *System {
	return &System{
		NumCPU:           4,
		Scheduler:        FCFS,
		QuantumCycles:    4,
		BatchProcessFreq: 1,
		MinInstructions:  1,
		MaxInstructions:  10,
		DelayPerExec:     0,
	}
}

// Load reads and validates the configuration file at path, per spec.md
// §6's key table. Grounded on original_source/main.cpp's
// loadSystemConfig: same seven keys, same range checks, same "unknown
// key" and "min>max" rejections, here reported as a single wrapped error
// instead of printing to stderr and returning a bool.
func Load(path string) (*System, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := &System{}
	seen := map[string]bool{}

	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)

	for scanner.Scan() {
		key := scanner.Text()
		if !scanner.Scan() {
			return nil, fmt.Errorf("config key %q has no value", key)
		}
		value := scanner.Text()

		if err := applyKey(cfg, key, value); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		seen[key] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := validate(cfg, seen); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func applyKey(cfg *System, key, value string) error {
	switch key {
	case "num-cpu":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("num-cpu must be an integer: %w", err)
		}
		if n < 1 || n > 128 {
			return fmt.Errorf("num-cpu must be in [1, 128], got %d", n)
		}
		cfg.NumCPU = n

	case "scheduler":
		switch Scheduler(value) {
		case FCFS, RR:
			cfg.Scheduler = Scheduler(value)
		default:
			return fmt.Errorf("scheduler must be 'fcfs' or 'rr', got %q", value)
		}

	case "quantum-cycles":
		v, err := parsePositiveU32(value)
		if err != nil {
			return fmt.Errorf("quantum-cycles: %w", err)
		}
		cfg.QuantumCycles = v

	case "batch-process-freq":
		v, err := parsePositiveU32(value)
		if err != nil {
			return fmt.Errorf("batch-process-freq: %w", err)
		}
		cfg.BatchProcessFreq = v

	case "min-ins":
		v, err := parsePositiveU32(value)
		if err != nil {
			return fmt.Errorf("min-ins: %w", err)
		}
		cfg.MinInstructions = v

	case "max-ins":
		v, err := parsePositiveU32(value)
		if err != nil {
			return fmt.Errorf("max-ins: %w", err)
		}
		cfg.MaxInstructions = v

	case "delay-per-exec":
		v, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("delay-per-exec must be a non-negative integer: %w", err)
		}
		cfg.DelayPerExec = uint32(v)

	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return nil
}

func parsePositiveU32(value string) (uint32, error) {
	v, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("must be a non-negative integer: %w", err)
	}
	if v == 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return uint32(v), nil
}

func validate(cfg *System, seen map[string]bool) error {
	required := []string{
		"num-cpu", "scheduler", "quantum-cycles", "batch-process-freq",
		"min-ins", "max-ins", "delay-per-exec",
	}
	for _, key := range required {
		if !seen[key] {
			return fmt.Errorf("missing required config key: %s", key)
		}
	}
	if cfg.MinInstructions > cfg.MaxInstructions {
		return fmt.Errorf("min-ins cannot be greater than max-ins")
	}
	return nil
}

// DumpYAML renders the active configuration as YAML, purely for the
// console's "config -dump" diagnostic command (SPEC_FULL.md §9.3) — it
// does not round-trip back through Load, which only accepts the
// whitespace key-value grammar above.
func (s *System) DumpYAML() (string, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to render config as yaml: %w", err)
	}
	return string(out), nil
}
