// Package engine executes materialized plans, either inside the calling
// process or in one forked child per suite.
package engine

import (
	"benchforge/internal/config"
	"benchforge/internal/measure"
	"benchforge/internal/memusage"
)

// Engine runs one materialized plan and returns its raw results. Check
// failures and engine faults surface as errors; an engine never returns
// partial results.
type Engine interface {
	Run(plan config.Plan) ([]measure.Result, error)
}

// Auto picks the engine a plan asks for: in-process when the plan's fork
// count is zero, one child process per suite otherwise.
type Auto struct {
	InProcess Engine
	Forked    Engine
}

// NewAuto builds the default engine pair. The in-process side records
// checked constructions into mem.
func NewAuto(mem *memusage.Tracker) *Auto {
	return &Auto{
		InProcess: &InProcess{Memory: mem},
		Forked:    NewForked(),
	}
}

func (a *Auto) Run(plan config.Plan) ([]measure.Result, error) {
	if plan.Forks == 0 {
		return a.InProcess.Run(plan)
	}
	return a.Forked.Run(plan)
}
