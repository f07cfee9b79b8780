// Package runner orchestrates benchmark campaigns: it materializes a run
// configuration for a set of suites, drives a measurement engine, and
// renders the resulting reports.
package runner

import (
	"errors"
	"io"
	"os"

	"github.com/fatih/color"

	"benchforge/internal/config"
	"benchforge/internal/engine"
	"benchforge/internal/measure"
	"benchforge/internal/memusage"
	"benchforge/internal/report"
)

// Runner sequences measurement runs over an injected engine. One campaign
// runs at a time; nothing here is safe for concurrent use.
type Runner struct {
	engine engine.Engine
	memory *memusage.Tracker
	out    io.Writer
	errw   io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithEngine replaces the measurement engine.
func WithEngine(e engine.Engine) Option {
	return func(r *Runner) {
		if e != nil {
			r.engine = e
		}
	}
}

// WithOutput redirects report output. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithStderr redirects diagnostics. Defaults to stderr.
func WithStderr(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.errw = w
		}
	}
}

// WithTracker replaces the campaign memory tracker.
func WithTracker(t *memusage.Tracker) Option {
	return func(r *Runner) {
		if t != nil {
			r.memory = t
		}
	}
}

// New builds a Runner. Without options it writes to the standard streams
// and uses the default engine pair sharing the campaign tracker.
func New(opts ...Option) *Runner {
	r := &Runner{
		memory: memusage.NewTracker(),
		out:    os.Stdout,
		errw:   os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.engine == nil {
		r.engine = engine.NewAuto(r.memory)
	}
	return r
}

// Run materializes cfg for the given suites and executes one engine
// invocation. All suites share the configuration; the engine receives a
// single plan. There are no partial results: any failure returns an error
// and nothing else.
func (r *Runner) Run(suites []string, cfg config.RunConfig) ([]measure.Result, error) {
	if len(suites) == 0 {
		return nil, ErrNoBenchmarks
	}

	plan, err := cfg.Materialize(suites)
	if err != nil {
		return nil, err
	}

	log := config.LoggerFor(cfg.Verbosity, r.errw)
	log.Info("campaign starting", "suites", len(suites), "config", cfg.String())

	results, err := r.engine.Run(plan)
	if err != nil {
		if errors.Is(err, measure.ErrCheckFailed) {
			return nil, err
		}
		return nil, &RunError{Cause: err}
	}

	log.Info("campaign finished", "results", len(results))
	return results, nil
}

// RunDebug executes the debug preset: in-process, checks on. On success
// it prints the memory-usage report accumulated by checked constructions
// and resets the tracker.
func (r *Runner) RunDebug(suites []string) error {
	r.banner("DEBUG RUN (checks enabled)")
	if _, err := r.Run(suites, config.Debug()); err != nil {
		return err
	}
	r.memory.PrintAndReset(r.out)
	return nil
}

// RunQuick executes the quick preset and renders the comparison report.
func (r *Runner) RunQuick(suites []string) error {
	r.banner("QUICK RUN")
	return r.measureAndReport(suites, config.Quick())
}

// RunNormal executes the normal preset and renders the comparison report.
func (r *Runner) RunNormal(suites []string) error {
	r.banner("NORMAL RUN")
	return r.measureAndReport(suites, config.Normal())
}

// RunSlow executes the slow precision preset and renders the comparison
// report.
func (r *Runner) RunSlow(suites []string) error {
	r.banner("SLOW RUN (precision)")
	return r.measureAndReport(suites, config.Slow())
}

func (r *Runner) measureAndReport(suites []string, cfg config.RunConfig) error {
	results, err := r.Run(suites, cfg)
	if err != nil {
		return err
	}

	if err := report.Print(r.out, results); err != nil {
		if errors.Is(err, report.ErrNoResults) {
			config.LoggerFor(cfg.Verbosity, r.errw).Warn("nothing to report")
			return nil
		}
		return err
	}
	return nil
}

func (r *Runner) banner(title string) {
	c := color.New(color.Bold)
	_, _ = c.Fprintln(r.out, "╔════════════════════════════════════════════════════════════╗")
	_, _ = c.Fprintf(r.out, "║       %-52s ║\n", title)
	_, _ = c.Fprintln(r.out, "╚════════════════════════════════════════════════════════════╝")
}
