package engine

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"benchforge/internal/config"
	"benchforge/internal/measure"
	"benchforge/internal/memusage"
	"benchforge/internal/suite"
)

// InProcess runs measurements inside the calling process. Debug campaigns
// use it so checked constructions record into the campaign's own memory
// tracker.
type InProcess struct {
	Memory *memusage.Tracker
	// Stderr overrides the diagnostics writer; nil means os.Stderr.
	Stderr io.Writer
}

func (e *InProcess) Run(plan config.Plan) ([]measure.Result, error) {
	log := config.LoggerFor(plan.Verbosity, e.errw())

	var results []measure.Result
	for _, name := range plan.Suites {
		rs, err := runSuite(name, plan, e.Memory, false, log)
		if err != nil {
			return nil, err
		}
		results = append(results, rs...)
	}
	return results, nil
}

func (e *InProcess) errw() io.Writer {
	if e.Stderr != nil {
		return e.Stderr
	}
	return os.Stderr
}

// runSuite prepares one suite and measures each of its benchmarks. Both
// the in-process engine and forked children go through here; children
// additionally pin the measurement thread.
func runSuite(name string, plan config.Plan, mem *memusage.Tracker, pin bool, log *slog.Logger) ([]measure.Result, error) {
	s, err := suite.Lookup(name)
	if err != nil {
		return nil, err
	}

	env := &suite.Env{
		Size:   suite.InputSize,
		Checks: plan.Checks,
	}
	if plan.Checks {
		env.Memory = mem
	}
	if err := s.Setup(env); err != nil {
		return nil, fmt.Errorf("setup %s: %w", name, err)
	}

	opts := measure.Options{
		Warmup:        plan.Warmup,
		Iterations:    plan.Measurements,
		IterationTime: plan.IterationTime,
		Pin:           pin,
	}

	log.Info("running suite", "suite", name, "benchmarks", len(s.Benchmarks))

	results := make([]measure.Result, 0, len(s.Benchmarks))
	for _, b := range s.Benchmarks {
		fn := b.Fn
		r, err := measure.Run(name, b.Name, opts, func() error { return fn(env) })
		if err != nil {
			return nil, err
		}
		log.Debug("measured",
			"suite", name,
			"benchmark", b.Name,
			"mean_ops_per_sec", r.MeanOpsPerSec())
		results = append(results, r)
	}
	return results, nil
}
