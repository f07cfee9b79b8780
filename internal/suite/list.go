package suite

import (
	"container/list"
	"fmt"

	"benchforge/internal/inputs"
	"benchforge/internal/measure"
)

const listSeed = 5

type listState struct {
	values []int
	sum    int
	built  *list.List
}

func init() {
	Register(&Suite{
		Name:  "list",
		Setup: listSetup,
		Benchmarks: []Benchmark{
			{Name: "build", Fn: listBuild},
			{Name: "iterate", Fn: listIterate},
		},
	})
}

func listSetup(env *Env) error {
	values, err := inputs.Ints(env.Size, listSeed)
	if err != nil {
		return err
	}

	sum := 0
	built := list.New()
	for _, v := range values {
		sum += v
		built.PushFront(v)
	}

	env.State = &listState{values: values, sum: sum, built: built}
	return nil
}

// listBuild pushes every value onto the front of a fresh list.
func listBuild(env *Env) error {
	st := env.State.(*listState)

	l := Construct(env, len(st.values), func() *list.List {
		out := list.New()
		for _, v := range st.values {
			out.PushFront(v)
		}
		return out
	})
	measure.Consume(l.Len())

	if env.Checks {
		if l.Len() != len(st.values) {
			return fmt.Errorf("length %d after build, want %d", l.Len(), len(st.values))
		}
		last := st.values[len(st.values)-1]
		if got := l.Front().Value.(int); got != last {
			return fmt.Errorf("front %d, want last-pushed %d", got, last)
		}
	}
	return nil
}

// listIterate walks the prebuilt list front to back, folding elements.
func listIterate(env *Env) error {
	st := env.State.(*listState)

	sum := 0
	for e := st.built.Front(); e != nil; e = e.Next() {
		sum += e.Value.(int)
	}
	measure.Consume(sum)

	if env.Checks && sum != st.sum {
		return fmt.Errorf("sum %d, want %d", sum, st.sum)
	}
	return nil
}
