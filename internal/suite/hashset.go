package suite

import (
	"fmt"

	"benchforge/internal/inputs"
	"benchforge/internal/measure"
)

const hashsetSeed = 4

type hashsetState struct {
	values       []int
	distinct     int
	distinctHead int
	built        map[int]struct{}
}

func init() {
	Register(&Suite{
		Name:  "hashset",
		Setup: hashsetSetup,
		Benchmarks: []Benchmark{
			{Name: "build", Fn: hashsetBuild},
			{Name: "contains", Fn: hashsetContains},
			{Name: "delete", Fn: hashsetDelete},
		},
	})
}

func hashsetSetup(env *Env) error {
	values, err := inputs.Ints(env.Size, hashsetSeed)
	if err != nil {
		return err
	}

	built := make(map[int]struct{}, len(values))
	for _, v := range values {
		built[v] = struct{}{}
	}

	// distinctHead counts the distinct elements of the first half, the
	// ones the delete benchmark removes.
	head := make(map[int]struct{}, len(values)/2)
	for _, v := range values[:len(values)/2] {
		head[v] = struct{}{}
	}

	env.State = &hashsetState{
		values:       values,
		distinct:     len(built),
		distinctHead: len(head),
		built:        built,
	}
	return nil
}

// hashsetBuild inserts every input value into a fresh set.
func hashsetBuild(env *Env) error {
	st := env.State.(*hashsetState)

	m := Construct(env, st.distinct, func() map[int]struct{} {
		out := make(map[int]struct{}, len(st.values))
		for _, v := range st.values {
			out[v] = struct{}{}
		}
		return out
	})
	measure.Consume(len(m))

	if env.Checks && len(m) != st.distinct {
		return fmt.Errorf("cardinality %d after build, want %d", len(m), st.distinct)
	}
	return nil
}

// hashsetContains probes every input value against the prebuilt set.
func hashsetContains(env *Env) error {
	st := env.State.(*hashsetState)

	hits := 0
	for _, v := range st.values {
		if _, ok := st.built[v]; ok {
			hits++
		}
	}
	measure.Consume(hits)

	if env.Checks && hits != len(st.values) {
		return fmt.Errorf("%d membership hits, want %d", hits, len(st.values))
	}
	return nil
}

// hashsetDelete removes the first half of the inputs from a fresh copy.
func hashsetDelete(env *Env) error {
	st := env.State.(*hashsetState)

	m := make(map[int]struct{}, len(st.built))
	for v := range st.built {
		m[v] = struct{}{}
	}
	for _, v := range st.values[:len(st.values)/2] {
		delete(m, v)
	}
	measure.Consume(len(m))

	if env.Checks {
		want := st.distinct - st.distinctHead
		if len(m) != want {
			return fmt.Errorf("cardinality %d after delete, want %d", len(m), want)
		}
	}
	return nil
}
