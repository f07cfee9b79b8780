package suite

import (
	"fmt"

	"benchforge/internal/inputs"
	"benchforge/internal/measure"
)

const arraySeed = 1

type arrayState struct {
	values []int
	sum    int
}

func init() {
	Register(&Suite{
		Name:  "array",
		Setup: arraySetup,
		Benchmarks: []Benchmark{
			{Name: "fill", Fn: arrayFill},
			{Name: "sum", Fn: arraySum},
			{Name: "reverse", Fn: arrayReverse},
		},
	})
}

func arraySetup(env *Env) error {
	values, err := inputs.Ints(env.Size, arraySeed)
	if err != nil {
		return err
	}

	sum := 0
	for _, v := range values {
		sum += v
	}
	env.State = &arrayState{values: values, sum: sum}
	return nil
}

// arrayFill builds a fixed-length copy of the input values.
func arrayFill(env *Env) error {
	st := env.State.(*arrayState)

	arr := Construct(env, len(st.values), func() []int {
		out := make([]int, len(st.values))
		copy(out, st.values)
		return out
	})
	measure.Consume(arr[len(arr)-1])

	if env.Checks {
		if len(arr) != env.Size {
			return fmt.Errorf("filled %d elements, want %d", len(arr), env.Size)
		}
		if arr[0] != st.values[0] {
			return fmt.Errorf("head element %d, want %d", arr[0], st.values[0])
		}
	}
	return nil
}

// arraySum folds every element into a single value.
func arraySum(env *Env) error {
	st := env.State.(*arrayState)

	sum := 0
	for _, v := range st.values {
		sum += v
	}
	measure.Consume(sum)

	if env.Checks && sum != st.sum {
		return fmt.Errorf("sum %d, want %d", sum, st.sum)
	}
	return nil
}

// arrayReverse reverses a fresh copy in place.
func arrayReverse(env *Env) error {
	st := env.State.(*arrayState)

	out := make([]int, len(st.values))
	copy(out, st.values)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	measure.Consume(out[0])

	if env.Checks && out[0] != st.values[len(st.values)-1] {
		return fmt.Errorf("reversed head %d, want %d", out[0], st.values[len(st.values)-1])
	}
	return nil
}
