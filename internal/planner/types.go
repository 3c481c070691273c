package planner

import (
	"time"

	"github.com/joshharrison/procsched/internal/cpm"
	"github.com/joshharrison/procsched/internal/dispatch"
	"github.com/joshharrison/procsched/internal/log"
	"github.com/joshharrison/procsched/internal/timeline"
)

// Plan bundles every schedule computed for one input.
type Plan struct {
	ID          string           `json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	Fingerprint string           `json:"fingerprint"` // graph fingerprint of the input
	TotalTasks  int              `json:"total_tasks"`
	LowerBound  int              `json:"lower_bound"` // critical path length
	Heuristic   *dispatch.Result `json:"heuristic"`
	Baseline    *dispatch.Result `json:"baseline"`
	Timeline    *timeline.Result `json:"timeline"`
	Analysis    *cpm.CPMResult   `json:"analysis"`
	Config      PlanConfig       `json:"config"`
}

// Primary returns the schedule selected by Config.Policy.
func (p *Plan) Primary() *dispatch.Result {
	if p.Config.Policy == dispatch.Baseline.Name() {
		return p.Baseline
	}
	return p.Heuristic
}

// PlanConfig holds configuration for plan generation.
type PlanConfig struct {
	Processors    int         `json:"processors"`
	Policy        string      `json:"policy"` // which run Primary returns
	WeightWorkers int         `json:"weight_workers"`
	Logger        *log.Logger `json:"-"`
}
