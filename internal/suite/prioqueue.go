package suite

import (
	"container/heap"
	"fmt"
	"math"

	"benchforge/internal/inputs"
	"benchforge/internal/measure"
)

const prioqueueSeed = 6

// intHeap implements heap.Interface as a min-heap over ints.
type intHeap []int

func (h intHeap) Len() int           { return len(h) }
func (h intHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

type prioqueueState struct {
	values  []int
	minimum int
	maximum int
}

func init() {
	Register(&Suite{
		Name:  "prioqueue",
		Setup: prioqueueSetup,
		Benchmarks: []Benchmark{
			{Name: "build", Fn: prioqueueBuild},
			{Name: "drain", Fn: prioqueueDrain},
		},
	})
}

func prioqueueSetup(env *Env) error {
	values, err := inputs.Ints(env.Size, prioqueueSeed)
	if err != nil {
		return err
	}

	minimum, maximum := values[0], values[0]
	for _, v := range values {
		if v < minimum {
			minimum = v
		}
		if v > maximum {
			maximum = v
		}
	}

	env.State = &prioqueueState{values: values, minimum: minimum, maximum: maximum}
	return nil
}

// prioqueueBuild pushes every value onto a fresh heap.
func prioqueueBuild(env *Env) error {
	st := env.State.(*prioqueueState)

	h := Construct(env, len(st.values), func() *intHeap {
		out := make(intHeap, 0, len(st.values))
		for _, v := range st.values {
			heap.Push(&out, v)
		}
		return &out
	})
	measure.Consume(h.Len())

	if env.Checks {
		if h.Len() != len(st.values) {
			return fmt.Errorf("length %d after build, want %d", h.Len(), len(st.values))
		}
		if got := (*h)[0]; got != st.minimum {
			return fmt.Errorf("heap top %d, want minimum %d", got, st.minimum)
		}
	}
	return nil
}

// prioqueueDrain heapifies a copy and pops everything in priority order.
func prioqueueDrain(env *Env) error {
	st := env.State.(*prioqueueState)

	h := make(intHeap, len(st.values))
	copy(h, st.values)
	heap.Init(&h)

	last := math.MinInt
	ordered := true
	for h.Len() > 0 {
		v := heap.Pop(&h).(int)
		if v < last {
			ordered = false
		}
		last = v
	}
	measure.Consume(last)

	if env.Checks {
		if !ordered {
			return fmt.Errorf("drain left priority order")
		}
		if last != st.maximum {
			return fmt.Errorf("final element %d, want maximum %d", last, st.maximum)
		}
	}
	return nil
}
