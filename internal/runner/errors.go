package runner

import "errors"

// ErrNoBenchmarks reports a campaign invoked with an empty suite list.
var ErrNoBenchmarks = errors.New("no benchmark suites given")

// RunError wraps an engine failure. Check failures pass through as
// themselves; every other engine fault arrives wrapped here.
type RunError struct {
	Cause error
}

func (e *RunError) Error() string {
	return "benchmark run failed: " + e.Cause.Error()
}

func (e *RunError) Unwrap() error {
	return e.Cause
}
