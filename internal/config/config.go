// Package config defines the immutable run configurations benchmark
// campaigns execute under, the named presets, and the materialized plans
// handed to measurement engines.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Verbosity controls how much a run narrates to stderr.
type Verbosity int

const (
	// VerbositySilent suppresses everything except errors.
	VerbositySilent Verbosity = iota
	// VerbosityNormal shows campaign progress.
	VerbosityNormal
	// VerbosityExtra additionally streams child output and debug logging.
	VerbosityExtra
)

func (v Verbosity) String() string {
	switch v {
	case VerbositySilent:
		return "silent"
	case VerbosityNormal:
		return "normal"
	case VerbosityExtra:
		return "extra"
	default:
		return fmt.Sprintf("verbosity(%d)", int(v))
	}
}

// RunConfig is one immutable set of measurement options. Configs are plain
// values; presets return fresh copies and nothing mutates them after
// materialization.
type RunConfig struct {
	WarmupIterations      int
	MeasurementIterations int
	IterationTime         time.Duration
	Forks                 int
	Verbosity             Verbosity
	Checks                bool
	GCTrace               bool
}

// Debug is the correctness preset: a single throwaway iteration, run
// in-process with checks on so failures surface immediately.
func Debug() RunConfig {
	return RunConfig{
		WarmupIterations:      0,
		MeasurementIterations: 1,
		IterationTime:         time.Millisecond,
		Forks:                 0,
		Verbosity:             VerbositySilent,
		Checks:                true,
	}
}

// Quick trades precision for turnaround.
func Quick() RunConfig {
	return RunConfig{
		WarmupIterations:      5,
		MeasurementIterations: 5,
		IterationTime:         10 * time.Millisecond,
		Forks:                 1,
		Verbosity:             VerbosityNormal,
	}
}

// Normal is the everyday precision preset.
func Normal() RunConfig {
	return RunConfig{
		WarmupIterations:      10,
		MeasurementIterations: 10,
		IterationTime:         200 * time.Millisecond,
		Forks:                 1,
		Verbosity:             VerbosityNormal,
	}
}

// Slow is the maximum-precision preset used for published numbers. Its
// children also emit GC traces so runtime interference stays visible.
func Slow() RunConfig {
	return RunConfig{
		WarmupIterations:      25,
		MeasurementIterations: 15,
		IterationTime:         500 * time.Millisecond,
		Forks:                 1,
		Verbosity:             VerbosityExtra,
		GCTrace:               true,
	}
}

func (c RunConfig) String() string {
	checks := "off"
	if c.Checks {
		checks = "on"
	}
	return fmt.Sprintf("warmup=%d measure=%dx%v forks=%d checks=%s",
		c.WarmupIterations, c.MeasurementIterations, c.IterationTime, c.Forks, checks)
}

// Plan is the concrete execution order handed to a measurement engine. It
// doubles as the request half of the fork wire format.
type Plan struct {
	Suites        []string      `json:"suites"`
	Warmup        int           `json:"warmup"`
	Measurements  int           `json:"measurements"`
	IterationTime time.Duration `json:"iteration_time"`
	Forks         int           `json:"forks"`
	Verbosity     Verbosity     `json:"verbosity"`
	Checks        bool          `json:"checks"`
	GCTrace       bool          `json:"gc_trace"`
	Env           []string      `json:"env"`
}

// Materialize validates the configuration and binds it to the given suite
// names, producing the plan a measurement engine executes. All suites share
// the one configuration; an engine receives a single plan per run.
func (c RunConfig) Materialize(suites []string) (Plan, error) {
	if err := c.validate(); err != nil {
		return Plan{}, err
	}

	if len(suites) == 0 {
		return Plan{}, errors.New("no benchmark suites selected")
	}
	seen := make(map[string]struct{}, len(suites))
	for _, name := range suites {
		if name == "" {
			return Plan{}, errors.New("empty suite name")
		}
		if _, dup := seen[name]; dup {
			return Plan{}, fmt.Errorf("duplicate suite %q", name)
		}
		seen[name] = struct{}{}
	}

	return Plan{
		Suites:        append([]string(nil), suites...),
		Warmup:        c.WarmupIterations,
		Measurements:  c.MeasurementIterations,
		IterationTime: c.IterationTime,
		Forks:         c.Forks,
		Verbosity:     c.Verbosity,
		Checks:        c.Checks,
		GCTrace:       c.GCTrace,
		Env:           EnvFor(c),
	}, nil
}

func (c RunConfig) validate() error {
	if c.Forks != 0 && c.Forks != 1 {
		return fmt.Errorf("forks must be 0 or 1, got %d", c.Forks)
	}
	if c.WarmupIterations < 0 {
		return fmt.Errorf("warmup iterations must not be negative, got %d", c.WarmupIterations)
	}
	if c.MeasurementIterations < 1 {
		return fmt.Errorf("need at least one measurement iteration, got %d", c.MeasurementIterations)
	}
	if c.IterationTime <= 0 {
		return fmt.Errorf("iteration time must be positive, got %v", c.IterationTime)
	}
	return nil
}
