package dispatch

import (
	"sort"

	"github.com/joshharrison/procsched/internal/schederr"
)

// Policy orders the candidate queue. Less must be a strict total order
// over candidates with distinct ids so that runs are reproducible.
type Policy interface {
	Name() string
	// Weighted reports whether candidates need a critical-path weight.
	Weighted() bool
	Less(a, b Candidate) bool
}

var (
	// Heuristic prefers the longest remaining chain, then the longest
	// task, then the lowest id.
	Heuristic Policy = heuristic{}
	// Baseline dispatches in ascending id order and ignores weights.
	Baseline Policy = baseline{}
)

type heuristic struct{}

func (heuristic) Name() string   { return "heuristic" }
func (heuristic) Weighted() bool { return true }

func (heuristic) Less(a, b Candidate) bool {
	if a.Weight != b.Weight {
		return a.Weight > b.Weight
	}
	if a.Duration != b.Duration {
		return a.Duration > b.Duration
	}
	return a.ID < b.ID
}

type baseline struct{}

func (baseline) Name() string             { return "baseline" }
func (baseline) Weighted() bool           { return false }
func (baseline) Less(a, b Candidate) bool { return a.ID < b.ID }

var policies = map[string]Policy{
	Heuristic.Name(): Heuristic,
	Baseline.Name():  Baseline,
}

// PolicyByName resolves a policy name from config or flags.
func PolicyByName(name string) (Policy, error) {
	p, ok := policies[name]
	if !ok {
		return nil, schederr.Validationf("unknown policy %q (want one of %v)", name, PolicyNames())
	}
	return p, nil
}

// PolicyNames lists the registered policy names, sorted.
func PolicyNames() []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
