package engine

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchforge/internal/config"
	"benchforge/internal/measure"
	"benchforge/internal/memusage"
	"benchforge/internal/suite"
)

var allSuites = []string{"array", "bitset", "charseq", "hashset", "list", "prioqueue", "vector"}

func testPlan(checks bool, suites ...string) config.Plan {
	return config.Plan{
		Suites:        suites,
		Warmup:        0,
		Measurements:  1,
		IterationTime: time.Millisecond,
		Verbosity:     config.VerbositySilent,
		Checks:        checks,
	}
}

var registerFailingOnce sync.Once

// registerFailing adds a suite whose only benchmark always fails its
// check, for exercising the abort path.
func registerFailing() {
	registerFailingOnce.Do(func() {
		suite.Register(&suite.Suite{
			Name:  "always-failing",
			Setup: func(env *suite.Env) error { return nil },
			Benchmarks: []suite.Benchmark{
				{Name: "bad", Fn: func(env *suite.Env) error {
					return errors.New("deliberate failure")
				}},
			},
		})
	})
}

func TestInProcessRunsAllSuites(t *testing.T) {
	tracker := memusage.NewTracker()
	e := &InProcess{Memory: tracker, Stderr: io.Discard}

	results, err := e.Run(testPlan(true, allSuites...))
	require.NoError(t, err)

	// 3+3+3+3+2+2+3 benchmarks across the seven suites.
	assert.Len(t, results, 19)

	seen := make(map[string]bool)
	for _, r := range results {
		seen[r.Suite] = true
		assert.Len(t, r.Samples, 1)
		assert.Equal(t, measure.ModeThroughput, r.Mode)
	}
	for _, name := range allSuites {
		assert.True(t, seen[name], "missing results for %s", name)
	}

	// Checked constructions were recorded.
	assert.Positive(t, tracker.Len())
}

func TestInProcessSkipsTrackingWithoutChecks(t *testing.T) {
	tracker := memusage.NewTracker()
	e := &InProcess{Memory: tracker, Stderr: io.Discard}

	_, err := e.Run(testPlan(false, "array"))
	require.NoError(t, err)

	assert.Zero(t, tracker.Len())
}

func TestInProcessUnknownSuite(t *testing.T) {
	e := &InProcess{Stderr: io.Discard}

	_, err := e.Run(testPlan(false, "btree"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "btree")
}

func TestInProcessCheckFailureAborts(t *testing.T) {
	registerFailing()
	e := &InProcess{Stderr: io.Discard}

	results, err := e.Run(testPlan(true, "always-failing"))
	require.Error(t, err)
	assert.Nil(t, results)
	assert.ErrorIs(t, err, measure.ErrCheckFailed)

	var checkErr *measure.CheckError
	require.ErrorAs(t, err, &checkErr)
	assert.Equal(t, "always-failing", checkErr.Suite)
	assert.Equal(t, "bad", checkErr.Benchmark)
}

type fakeEngine struct {
	calls   int
	plan    config.Plan
	results []measure.Result
	err     error
}

func (f *fakeEngine) Run(p config.Plan) ([]measure.Result, error) {
	f.calls++
	f.plan = p
	return f.results, f.err
}

func TestAutoDispatchesOnForks(t *testing.T) {
	inproc := &fakeEngine{}
	forked := &fakeEngine{}
	a := &Auto{InProcess: inproc, Forked: forked}

	plan := testPlan(false, "array")
	plan.Forks = 0
	_, err := a.Run(plan)
	require.NoError(t, err)

	plan.Forks = 1
	_, err = a.Run(plan)
	require.NoError(t, err)

	assert.Equal(t, 1, inproc.calls)
	assert.Equal(t, 1, forked.calls)
}
