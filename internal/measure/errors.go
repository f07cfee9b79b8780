package measure

import (
	"errors"
	"fmt"
)

// ErrCheckFailed marks a benchmark whose correctness check did not hold.
var ErrCheckFailed = errors.New("correctness check failed")

// CheckError identifies the benchmark whose check failed. It matches
// errors.Is(err, ErrCheckFailed); the whole configuration aborts when one
// surfaces.
type CheckError struct {
	Suite     string
	Benchmark string
	Reason    string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("%s/%s: correctness check failed: %s", e.Suite, e.Benchmark, e.Reason)
}

func (e *CheckError) Unwrap() error {
	return ErrCheckFailed
}
