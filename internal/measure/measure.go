// Package measure runs warmup-then-measurement sampling loops over
// benchmark bodies and carries their raw results. Results are JSON-tagged
// because they travel back from forked children over stdout.
package measure

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"benchforge/internal/cpu"
)

// Mode describes what a benchmark's samples measure.
type Mode string

// ModeThroughput samples operations per second.
const ModeThroughput Mode = "thrpt"

// Sample is one timed measurement iteration.
type Sample struct {
	Ops     int64         `json:"ops"`
	Elapsed time.Duration `json:"elapsed"`
}

// OpsPerSec returns the iteration's throughput.
func (s Sample) OpsPerSec() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Ops) / s.Elapsed.Seconds()
}

// Result is the raw outcome of measuring one benchmark.
type Result struct {
	Suite           string   `json:"suite"`
	Benchmark       string   `json:"benchmark"`
	Mode            Mode     `json:"mode"`
	Iterations      int      `json:"iterations"`
	Samples         []Sample `json:"samples"`
	AllocBytesPerOp float64  `json:"alloc_bytes_per_op"`
	AllocsPerOp     float64  `json:"allocs_per_op"`
}

// MeanOpsPerSec averages the per-iteration throughput samples.
func (r Result) MeanOpsPerSec() float64 {
	if len(r.Samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range r.Samples {
		sum += s.OpsPerSec()
	}
	return sum / float64(len(r.Samples))
}

// StddevOpsPerSec returns the population standard deviation of the
// per-iteration throughput samples.
func (r Result) StddevOpsPerSec() float64 {
	if len(r.Samples) < 2 {
		return 0
	}
	mean := r.MeanOpsPerSec()
	var variance float64
	for _, s := range r.Samples {
		diff := s.OpsPerSec() - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(r.Samples)))
}

// Options controls one measurement run.
type Options struct {
	Warmup        int
	Iterations    int
	IterationTime time.Duration
	// Pin locks the loop to a fixed core. Forked children set it;
	// in-process debug runs do not.
	Pin bool
}

// maxBatch caps how many invocations happen between clock checks.
const maxBatch = 4096

// Run executes fn under the warmup/measurement policy and returns one
// result. A non-nil error from fn is a failed correctness check: the run
// aborts immediately and no partial result is returned.
func Run(suite, bench string, opts Options, fn func() error) (Result, error) {
	if opts.Iterations < 1 {
		return Result{}, fmt.Errorf("measure %s/%s: need at least one iteration", suite, bench)
	}
	if opts.IterationTime <= 0 {
		return Result{}, fmt.Errorf("measure %s/%s: iteration time must be positive", suite, bench)
	}

	if opts.Pin {
		unpin := cpu.PinMeasurementThread()
		defer unpin()
	}

	for i := 0; i < opts.Warmup; i++ {
		if _, err := runIteration(opts.IterationTime, fn); err != nil {
			return Result{}, checkFailure(suite, bench, err)
		}
		// Collect between iterations so garbage from one window cannot
		// trigger a collection inside the next.
		runtime.GC()
	}

	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	samples := make([]Sample, 0, opts.Iterations)
	var totalOps int64
	for i := 0; i < opts.Iterations; i++ {
		s, err := runIteration(opts.IterationTime, fn)
		if err != nil {
			return Result{}, checkFailure(suite, bench, err)
		}
		samples = append(samples, s)
		totalOps += s.Ops
		runtime.GC()
	}

	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	result := Result{
		Suite:      suite,
		Benchmark:  bench,
		Mode:       ModeThroughput,
		Iterations: opts.Iterations,
		Samples:    samples,
	}
	if totalOps > 0 {
		result.AllocBytesPerOp = float64(after.TotalAlloc-before.TotalAlloc) / float64(totalOps)
		result.AllocsPerOp = float64(after.Mallocs-before.Mallocs) / float64(totalOps)
	}
	return result, nil
}

// checkFailure keeps an already-identified check error as is and wraps
// anything else with the benchmark's identity.
func checkFailure(suite, bench string, err error) error {
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce
	}
	return &CheckError{Suite: suite, Benchmark: bench, Reason: err.Error()}
}

// runIteration invokes fn in growing batches until the window elapses.
// At least one batch always runs.
func runIteration(window time.Duration, fn func() error) (Sample, error) {
	var ops int64
	batch := 1
	start := time.Now()
	for {
		for i := 0; i < batch; i++ {
			if err := fn(); err != nil {
				return Sample{}, err
			}
		}
		ops += int64(batch)

		elapsed := time.Since(start)
		if elapsed >= window {
			return Sample{Ops: ops, Elapsed: elapsed}, nil
		}
		if batch < maxBatch {
			batch *= 2
		}
	}
}
