// Package inputs generates the deterministic pseudo-random values benchmark
// suites consume. Generation is seeded explicitly so a forked child and an
// in-process debug run see identical inputs for the same suite.
package inputs

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidSize reports a requested input size of zero or less.
var ErrInvalidSize = errors.New("input size must be positive")

// Ints returns size pseudo-random values roughly centered on zero: every
// element lies in [-size/2, size-size/2). The same size and seed always
// produce the same slice, in any process.
func Ints(size int, seed int64) ([]int, error) {
	return ints(size, seed, false)
}

// NonNegativeInts returns size pseudo-random values in [0, size), for
// structures that cannot hold negative elements. Deterministic like Ints.
func NonNegativeInts(size int, seed int64) ([]int, error) {
	return ints(size, seed, true)
}

func ints(size int, seed int64, nonNegative bool) ([]int, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	shift := size / 2
	if nonNegative {
		shift = 0
	}

	r := rand.New(rand.NewSource(seed))
	values := make([]int, size)
	for i := range values {
		values[i] = r.Intn(size) - shift
	}
	return values, nil
}
