package suite

import (
	"fmt"
	"math/bits"

	"benchforge/internal/inputs"
	"benchforge/internal/measure"
)

const bitsetSeed = 2

// bitSet is a plain word-array set over non-negative ints.
type bitSet []uint64

func newBitSet(capacity int) bitSet {
	return make(bitSet, (capacity+63)/64)
}

func (b bitSet) set(i int) {
	b[i/64] |= 1 << (i % 64)
}

func (b bitSet) test(i int) bool {
	return b[i/64]&(1<<(i%64)) != 0
}

func (b bitSet) popcount() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}

type bitsetState struct {
	values   []int
	distinct int
	built    bitSet
}

func init() {
	Register(&Suite{
		Name:  "bitset",
		Setup: bitsetSetup,
		Benchmarks: []Benchmark{
			{Name: "build", Fn: bitsetBuild},
			{Name: "contains", Fn: bitsetContains},
			{Name: "popcount", Fn: bitsetPopcount},
		},
	})
}

func bitsetSetup(env *Env) error {
	// Bit sets cannot hold negative elements.
	values, err := inputs.NonNegativeInts(env.Size, bitsetSeed)
	if err != nil {
		return err
	}

	seen := make(map[int]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}

	built := newBitSet(env.Size)
	for _, v := range values {
		built.set(v)
	}

	env.State = &bitsetState{values: values, distinct: len(seen), built: built}
	return nil
}

// bitsetBuild sets every input bit in a fresh set.
func bitsetBuild(env *Env) error {
	st := env.State.(*bitsetState)

	b := Construct(env, st.distinct, func() bitSet {
		out := newBitSet(env.Size)
		for _, v := range st.values {
			out.set(v)
		}
		return out
	})
	measure.Consume(len(b))

	if env.Checks {
		if got := b.popcount(); got != st.distinct {
			return fmt.Errorf("popcount %d after build, want %d", got, st.distinct)
		}
	}
	return nil
}

// bitsetContains probes every input value against the prebuilt set.
func bitsetContains(env *Env) error {
	st := env.State.(*bitsetState)

	hits := 0
	for _, v := range st.values {
		if st.built.test(v) {
			hits++
		}
	}
	measure.Consume(hits)

	if env.Checks && hits != len(st.values) {
		return fmt.Errorf("%d membership hits, want %d", hits, len(st.values))
	}
	return nil
}

// bitsetPopcount counts the set bits of the prebuilt set.
func bitsetPopcount(env *Env) error {
	st := env.State.(*bitsetState)

	n := st.built.popcount()
	measure.Consume(n)

	if env.Checks && n != st.distinct {
		return fmt.Errorf("popcount %d, want %d", n, st.distinct)
	}
	return nil
}
