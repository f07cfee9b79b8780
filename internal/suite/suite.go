// Package suite holds the benchmark targets: collection workloads measured
// by campaigns. Suites register themselves at init and are looked up by
// name from materialized plans.
package suite

import (
	"fmt"
	"sort"

	"benchforge/internal/memusage"
)

// InputSize is how many elements Setup prepares for every suite.
const InputSize = 1024

// Env carries the per-run state a suite's benchmarks share: deterministic
// inputs prepared by Setup, the memory tracker, and the checks switch.
type Env struct {
	Size int
	// Memory is non-nil only in checked runs; precision runs must not pay
	// for heap probes.
	Memory *memusage.Tracker
	Checks bool
	// State holds suite-specific prepared data, set by Setup.
	State any
}

// Benchmark is one measured operation. Fn returns a non-nil error only
// when a correctness check fails.
type Benchmark struct {
	Name string
	Fn   func(*Env) error
}

// Suite is a named set of benchmarks over one data structure.
type Suite struct {
	Name       string
	Setup      func(*Env) error
	Benchmarks []Benchmark
}

var registry = map[string]*Suite{}

// Register adds s to the registry. Registration happens at init, so a
// duplicate name is a programming error and panics.
func Register(s *Suite) {
	if _, dup := registry[s.Name]; dup {
		panic(fmt.Sprintf("suite %q registered twice", s.Name))
	}
	registry[s.Name] = s
}

// Lookup returns the named suite.
func Lookup(name string) (*Suite, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown suite %q", name)
	}
	return s, nil
}

// Names returns all registered suite names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Construct builds a value through the memory tracker when one is active.
func Construct[R any](env *Env, elementCount int, build func() R) R {
	return memusage.Record(env.Memory, env.Size, elementCount, build)
}
