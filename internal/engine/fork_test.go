package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"benchforge/internal/config"
	"benchforge/internal/measure"
)

// TestMain lets the forked engine re-exec this test binary as a real
// measurement child: the marker argument routes straight into ChildMain
// instead of the test suite.
func TestMain(m *testing.M) {
	if len(os.Args) > 1 && os.Args[1] == ForkChildArg {
		registerFailing()
		os.Exit(ChildMain(os.Stdin, os.Stdout, os.Stderr))
	}
	os.Exit(m.Run())
}

// testForked builds a forked engine aimed at this test binary, unpaced,
// with parent-side stderr captured.
func testForked(t *testing.T, opts ...ForkedOption) (*Forked, *bytes.Buffer) {
	t.Helper()

	exe, err := os.Executable()
	require.NoError(t, err)

	var errw bytes.Buffer
	base := []ForkedOption{WithExecutable(exe), WithPacing(nil), WithForkStderr(&errw)}
	return NewForked(append(base, opts...)...), &errw
}

func TestWireErrorCheckFailureRoundtrip(t *testing.T) {
	original := &measure.CheckError{Suite: "hashset", Benchmark: "build", Reason: "cardinality off"}

	w := wireErrorFor(original)
	assert.Equal(t, kindCheckFailed, w.Kind)
	assert.Equal(t, "hashset", w.Suite)
	assert.Equal(t, "build", w.Benchmark)

	err := w.toError("hashset")
	assert.ErrorIs(t, err, measure.ErrCheckFailed)

	var rebuilt *measure.CheckError
	require.ErrorAs(t, err, &rebuilt)
	assert.Equal(t, original.Suite, rebuilt.Suite)
	assert.Equal(t, original.Benchmark, rebuilt.Benchmark)
	assert.Equal(t, original.Reason, rebuilt.Reason)
}

func TestWireErrorGenericFailure(t *testing.T) {
	w := wireErrorFor(errors.New("boom"))
	assert.Equal(t, kindRunFailed, w.Kind)

	err := w.toError("vector")
	assert.NotErrorIs(t, err, measure.ErrCheckFailed)
	assert.Contains(t, err.Error(), "vector")
	assert.Contains(t, err.Error(), "boom")
}

func childPlanJSON(t *testing.T, plan config.Plan) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(plan)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func TestChildMainRunsPlan(t *testing.T) {
	plan := testPlan(true, "array")

	var stdout, stderr bytes.Buffer
	code := ChildMain(childPlanJSON(t, plan), &stdout, &stderr)
	assert.Zero(t, code)

	var p payload
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &p))
	require.Nil(t, p.Error)
	require.Len(t, p.Results, 3)
	for _, r := range p.Results {
		assert.Equal(t, "array", r.Suite)
		assert.Len(t, r.Samples, 1)
	}
}

func TestChildMainBadPlan(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := ChildMain(strings.NewReader("not json"), &stdout, &stderr)
	assert.Equal(t, 1, code)

	var p payload
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &p))
	require.NotNil(t, p.Error)
	assert.Equal(t, kindBadPlan, p.Error.Kind)
}

func TestChildMainUnknownSuite(t *testing.T) {
	plan := testPlan(false, "btree")

	var stdout, stderr bytes.Buffer
	code := ChildMain(childPlanJSON(t, plan), &stdout, &stderr)
	assert.Equal(t, 1, code)

	var p payload
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &p))
	require.NotNil(t, p.Error)
	assert.Equal(t, kindRunFailed, p.Error.Kind)
	assert.Contains(t, p.Error.Message, "btree")
}

func TestChildMainCheckFailure(t *testing.T) {
	registerFailing()
	plan := testPlan(true, "always-failing")

	var stdout, stderr bytes.Buffer
	code := ChildMain(childPlanJSON(t, plan), &stdout, &stderr)
	assert.Equal(t, 1, code)

	var p payload
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &p))
	require.NotNil(t, p.Error)
	assert.Equal(t, kindCheckFailed, p.Error.Kind)
	assert.Equal(t, "always-failing", p.Error.Suite)
	assert.Equal(t, "bad", p.Error.Benchmark)
}

func TestChildMainExtraVerbosityPrintsMemory(t *testing.T) {
	plan := testPlan(true, "hashset")
	plan.Verbosity = config.VerbosityExtra

	var stdout, stderr bytes.Buffer
	code := ChildMain(childPlanJSON(t, plan), &stdout, &stderr)
	require.Zero(t, code)

	assert.Contains(t, stderr.String(), "Memory usage")
}

func TestForkedRunsSuitesAcrossProcesses(t *testing.T) {
	f, _ := testForked(t)

	plan := testPlan(false, "array", "list")
	plan.Forks = 1

	results, err := f.Run(plan)
	require.NoError(t, err)
	require.Len(t, results, 5)

	perSuite := make(map[string]int)
	for _, r := range results {
		perSuite[r.Suite]++
		assert.Len(t, r.Samples, 1)
		assert.Equal(t, measure.ModeThroughput, r.Mode)
	}
	assert.Equal(t, map[string]int{"array": 3, "list": 2}, perSuite)
}

func TestForkedDefaultsToOwnExecutable(t *testing.T) {
	var errw bytes.Buffer
	f := NewForked(WithPacing(nil), WithForkStderr(&errw))

	plan := testPlan(false, "bitset")
	plan.Forks = 1

	results, err := f.Run(plan)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestForkedUnknownSuite(t *testing.T) {
	f, _ := testForked(t)

	plan := testPlan(false, "btree")
	plan.Forks = 1

	results, err := f.Run(plan)
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "btree")
}

func TestForkedMissingExecutable(t *testing.T) {
	var errw bytes.Buffer
	f := NewForked(
		WithExecutable(filepath.Join(t.TempDir(), "missing-binary")),
		WithPacing(nil),
		WithForkStderr(&errw),
	)

	plan := testPlan(false, "array")
	plan.Forks = 1

	results, err := f.Run(plan)
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "array child")
}

func TestForkedSilentKeepsStderrQuiet(t *testing.T) {
	f, errw := testForked(t)

	plan := testPlan(false, "array")
	plan.Forks = 1

	_, err := f.Run(plan)
	require.NoError(t, err)

	// No bar, no logging, child stderr only tail-captured.
	assert.Zero(t, errw.Len())
}

func TestForkedExtraVerbosityStreamsChildStderr(t *testing.T) {
	f, errw := testForked(t)

	plan := testPlan(true, "hashset")
	plan.Forks = 1
	plan.Verbosity = config.VerbosityExtra

	_, err := f.Run(plan)
	require.NoError(t, err)

	// The child's grouped memory report arrives through the live stream.
	assert.Contains(t, errw.String(), "Memory usage")
}

func TestForkedCheckFailureCrossesProcess(t *testing.T) {
	registerFailing()
	f, _ := testForked(t)

	plan := testPlan(true, "always-failing")
	plan.Forks = 1

	results, err := f.Run(plan)
	require.Error(t, err)
	assert.Nil(t, results)

	assert.ErrorIs(t, err, measure.ErrCheckFailed)
	var checkErr *measure.CheckError
	require.ErrorAs(t, err, &checkErr)
	assert.Equal(t, "always-failing", checkErr.Suite)
	assert.Equal(t, "bad", checkErr.Benchmark)
	assert.Equal(t, "deliberate failure", checkErr.Reason)

	// The structured payload wins over the child's nonzero exit code.
	assert.NotContains(t, err.Error(), "exit status")
}

func TestForkedPacesLaunches(t *testing.T) {
	f, _ := testForked(t, WithPacing(rate.NewLimiter(rate.Every(150*time.Millisecond), 1)))

	plan := testPlan(false, "array", "list")
	plan.Forks = 1

	start := time.Now()
	_, err := f.Run(plan)
	require.NoError(t, err)

	// The first launch takes the burst token; the second must wait.
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestTailBufferKeepsTail(t *testing.T) {
	var tail tailBuffer

	_, err := tail.Write(bytes.Repeat([]byte("a"), 3000))
	require.NoError(t, err)
	_, err = tail.Write([]byte("END"))
	require.NoError(t, err)

	s := tail.String()
	assert.LessOrEqual(t, len(s), tailLimit)
	assert.True(t, strings.HasSuffix(s, "END"))
}
