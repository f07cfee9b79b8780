package suite

import (
	"fmt"

	"benchforge/internal/inputs"
	"benchforge/internal/measure"
)

const (
	vectorSeed      = 7
	vectorIndexSeed = 8
)

type vectorState struct {
	values    []int
	built     []int
	indexes   []int
	accessSum int
}

func init() {
	Register(&Suite{
		Name:  "vector",
		Setup: vectorSetup,
		Benchmarks: []Benchmark{
			{Name: "append", Fn: vectorAppend},
			{Name: "access", Fn: vectorAccess},
			{Name: "snapshot", Fn: vectorSnapshot},
		},
	})
}

func vectorSetup(env *Env) error {
	values, err := inputs.Ints(env.Size, vectorSeed)
	if err != nil {
		return err
	}
	indexes, err := inputs.NonNegativeInts(env.Size, vectorIndexSeed)
	if err != nil {
		return err
	}

	built := make([]int, len(values))
	copy(built, values)

	accessSum := 0
	for _, i := range indexes {
		accessSum += built[i]
	}

	env.State = &vectorState{
		values:    values,
		built:     built,
		indexes:   indexes,
		accessSum: accessSum,
	}
	return nil
}

// vectorAppend grows a vector element by element from zero capacity.
func vectorAppend(env *Env) error {
	st := env.State.(*vectorState)

	v := Construct(env, len(st.values), func() []int {
		var out []int
		for _, x := range st.values {
			out = append(out, x)
		}
		return out
	})
	measure.Consume(len(v))

	if env.Checks {
		if len(v) != len(st.values) {
			return fmt.Errorf("length %d after append, want %d", len(v), len(st.values))
		}
		last := len(v) - 1
		if v[last] != st.values[last] {
			return fmt.Errorf("tail element %d, want %d", v[last], st.values[last])
		}
	}
	return nil
}

// vectorAccess reads the prebuilt vector in pseudo-random order.
func vectorAccess(env *Env) error {
	st := env.State.(*vectorState)

	sum := 0
	for _, i := range st.indexes {
		sum += st.built[i]
	}
	measure.Consume(sum)

	if env.Checks && sum != st.accessSum {
		return fmt.Errorf("access sum %d, want %d", sum, st.accessSum)
	}
	return nil
}

// vectorSnapshot takes a full copy, the persistent-collection idiom.
func vectorSnapshot(env *Env) error {
	st := env.State.(*vectorState)

	out := make([]int, len(st.built))
	copy(out, st.built)
	measure.Consume(out[len(out)-1])

	if env.Checks && out[0] != st.built[0] {
		return fmt.Errorf("snapshot head %d, want %d", out[0], st.built[0])
	}
	return nil
}
