package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchforge/internal/memusage"
)

func TestRegistryHasAllSuites(t *testing.T) {
	assert.Equal(t, []string{
		"array", "bitset", "charseq", "hashset", "list", "prioqueue", "vector",
	}, Names())
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("btree")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "btree")
}

func TestRegisterDuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		Register(&Suite{Name: "array"})
	})
}

// TestEverySuiteRunsChecked executes each registered benchmark once with
// correctness checks on. A failing postcondition fails the test.
func TestEverySuiteRunsChecked(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := Lookup(name)
			require.NoError(t, err)

			env := &Env{
				Size:   256,
				Memory: memusage.NewTracker(),
				Checks: true,
			}
			require.NoError(t, s.Setup(env))
			require.NotNil(t, env.State)

			for _, b := range s.Benchmarks {
				require.NoError(t, b.Fn(env), "benchmark %s/%s", name, b.Name)
			}
		})
	}
}

func TestEverySuiteRunsUnchecked(t *testing.T) {
	for _, name := range Names() {
		s, err := Lookup(name)
		require.NoError(t, err)

		env := &Env{Size: 128}
		require.NoError(t, s.Setup(env))

		for _, b := range s.Benchmarks {
			require.NoError(t, b.Fn(env), "benchmark %s/%s", name, b.Name)
		}
	}
}

func TestSetupDeterministic(t *testing.T) {
	s, err := Lookup("array")
	require.NoError(t, err)

	first := &Env{Size: 64}
	require.NoError(t, s.Setup(first))

	second := &Env{Size: 64}
	require.NoError(t, s.Setup(second))

	assert.Equal(t, first.State.(*arrayState).values, second.State.(*arrayState).values)
}

func TestConstructRecordsWhenTracked(t *testing.T) {
	tracker := memusage.NewTracker()
	env := &Env{Size: 100, Memory: tracker, Checks: true}

	v := Construct(env, 100, func() []int { return make([]int, 100) })
	require.Len(t, v, 100)
	assert.Equal(t, 1, tracker.Len())
	assert.Equal(t, 100, tracker.Samples()[0].ElementCount)
}

func TestConstructSkipsWithoutTracker(t *testing.T) {
	env := &Env{Size: 100}

	v := Construct(env, 100, func() []int { return make([]int, 100) })
	assert.Len(t, v, 100)
}

func TestConstructionBenchmarksRecordMemory(t *testing.T) {
	s, err := Lookup("hashset")
	require.NoError(t, err)

	tracker := memusage.NewTracker()
	env := &Env{Size: 64, Memory: tracker, Checks: true}
	require.NoError(t, s.Setup(env))

	for _, b := range s.Benchmarks {
		if b.Name == "build" {
			require.NoError(t, b.Fn(env))
		}
	}
	assert.Equal(t, 1, tracker.Len())
}
