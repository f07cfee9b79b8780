package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"benchforge/internal/config"
	"benchforge/internal/measure"
	"benchforge/internal/memusage"
)

// payload is the response half of the fork wire format.
type payload struct {
	Results []measure.Result `json:"results,omitempty"`
	Error   *wireError       `json:"error,omitempty"`
}

// wireError carries a child failure across the process boundary with
// enough shape to rebuild its error class on the parent side.
type wireError struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Suite     string `json:"suite,omitempty"`
	Benchmark string `json:"benchmark,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

const (
	kindCheckFailed = "check_failed"
	kindBadPlan     = "bad_plan"
	kindRunFailed   = "run_failed"
)

func wireErrorFor(err error) *wireError {
	var checkErr *measure.CheckError
	if errors.As(err, &checkErr) {
		return &wireError{
			Kind:      kindCheckFailed,
			Message:   err.Error(),
			Suite:     checkErr.Suite,
			Benchmark: checkErr.Benchmark,
			Reason:    checkErr.Reason,
		}
	}
	return &wireError{Kind: kindRunFailed, Message: err.Error()}
}

func (w *wireError) toError(suiteName string) error {
	switch w.Kind {
	case kindCheckFailed:
		return &measure.CheckError{Suite: w.Suite, Benchmark: w.Benchmark, Reason: w.Reason}
	case kindBadPlan:
		return fmt.Errorf("%s child rejected plan: %s", suiteName, w.Message)
	default:
		return fmt.Errorf("%s child: %s", suiteName, w.Message)
	}
}

// ChildMain is the forked-process entry point: a plan arrives on stdin,
// the payload leaves on stdout, diagnostics go to stderr. The returned
// exit code is 0 on success and 1 on failure; the structured payload is
// the authoritative failure signal.
func ChildMain(stdin io.Reader, stdout, stderr io.Writer) int {
	var plan config.Plan
	if err := json.NewDecoder(stdin).Decode(&plan); err != nil {
		writePayload(stdout, payload{Error: &wireError{
			Kind:    kindBadPlan,
			Message: "decode plan: " + err.Error(),
		}})
		return 1
	}

	log := config.LoggerFor(plan.Verbosity, stderr)
	mem := memusage.NewTracker()

	var results []measure.Result
	for _, name := range plan.Suites {
		rs, err := runSuite(name, plan, mem, true, log)
		if err != nil {
			writePayload(stdout, payload{Error: wireErrorFor(err)})
			return 1
		}
		results = append(results, rs...)
	}

	// Checked constructions only land in a child tracker when the plan
	// enables checks; surface them on stderr at full verbosity.
	if plan.Verbosity == config.VerbosityExtra {
		mem.PrintAndReset(stderr)
	}

	writePayload(stdout, payload{Results: results})
	return 0
}

func writePayload(w io.Writer, p payload) {
	_ = json.NewEncoder(w).Encode(p)
}
