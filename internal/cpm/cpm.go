package cpm

import (
	"fmt"
	"sort"

	"github.com/gammazero/toposort"

	"github.com/joshharrison/procsched/internal/graph"
)

// Analyze performs critical path method analysis on a task graph.
// A cyclic graph yields the graph's CycleDetected error.
func Analyze(g *graph.TaskGraph) (*CPMResult, error) {
	if err := g.DetectCycle(); err != nil {
		return nil, err
	}
	order, err := topoSort(g)
	if err != nil {
		return nil, err
	}

	result := &CPMResult{Tasks: make(map[int]*TaskSchedule, len(order))}
	for _, id := range order {
		result.Tasks[id] = &TaskSchedule{TaskID: id, Duration: g.Task(id).Duration}
	}

	// Forward pass: compute ES and EF
	for _, id := range order {
		ts := result.Tasks[id]
		es := 0
		for _, pred := range g.Task(id).Preds {
			if ef := result.Tasks[pred].EF; ef > es {
				es = ef
			}
		}
		ts.ES = es
		ts.EF = es + ts.Duration
		if ts.EF > result.TotalDuration {
			result.TotalDuration = ts.EF
		}
	}

	// Backward pass: compute LS and LF in reverse topological order
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		ts := result.Tasks[id]
		lf := result.TotalDuration
		for _, succ := range g.Task(id).Succs {
			if ls := result.Tasks[succ].LS; ls < lf {
				lf = ls
			}
		}
		ts.LF = lf
		ts.LS = lf - ts.Duration
		ts.Slack = ts.LS - ts.ES
		ts.IsCritical = ts.Slack == 0
	}

	// Report order: by ES then id. Durations are positive, so this is
	// also topological and, unlike the sort above, stable across runs.
	result.TopoOrder = append([]int(nil), order...)
	sort.Slice(result.TopoOrder, func(a, b int) bool {
		ta, tb := result.Tasks[result.TopoOrder[a]], result.Tasks[result.TopoOrder[b]]
		if ta.ES != tb.ES {
			return ta.ES < tb.ES
		}
		return ta.TaskID < tb.TaskID
	})
	for _, id := range result.TopoOrder {
		if result.Tasks[id].IsCritical {
			result.CriticalPath = append(result.CriticalPath, id)
		}
	}

	result.CriticalChain = criticalChain(g, result)
	result.Waves = computeWaves(result)
	return result, nil
}

// criticalChain follows critical edges (from.EF == to.ES) from the
// lowest-id critical root, preferring the lowest-id successor at each step.
func criticalChain(g *graph.TaskGraph, result *CPMResult) []int {
	if len(result.CriticalPath) == 0 {
		return nil
	}
	cur := result.Tasks[result.CriticalPath[0]]
	chain := []int{cur.TaskID}
	for {
		var next *TaskSchedule
		for _, s := range g.Task(cur.TaskID).Succs {
			if ts := result.Tasks[s]; ts.IsCritical && ts.ES == cur.EF {
				next = ts
				break
			}
		}
		if next == nil {
			return chain
		}
		chain = append(chain, next.TaskID)
		cur = next
	}
}

// topoSort orders every task so predecessors come first. Tasks with no
// edges at all are not known to the sorter and are prepended.
func topoSort(g *graph.TaskGraph) ([]int, error) {
	edges := make([]toposort.Edge, 0)
	for _, e := range g.Edges() {
		edges = append(edges, toposort.Edge{e.From, e.To})
	}

	order := make([]int, 0, g.Len())
	inSorted := make(map[int]bool, g.Len())
	if len(edges) > 0 {
		sorted, err := toposort.Toposort(edges)
		if err != nil {
			return nil, fmt.Errorf("topological sort: %w", err)
		}
		for _, node := range sorted {
			id := node.(int)
			inSorted[id] = true
			order = append(order, id)
		}
	}

	var isolated []int
	for _, id := range g.IDs() {
		if !inSorted[id] {
			isolated = append(isolated, id)
		}
	}
	return append(isolated, order...), nil
}

// computeWaves groups tasks by their earliest start time.
func computeWaves(result *CPMResult) []Wave {
	var waves []Wave
	for _, id := range result.TopoOrder {
		ts := result.Tasks[id]
		if len(waves) == 0 || waves[len(waves)-1].Start != ts.ES {
			waves = append(waves, Wave{Index: len(waves), Start: ts.ES})
		}
		w := &waves[len(waves)-1]
		w.TaskIDs = append(w.TaskIDs, id)
		ts.Wave = w.Index
		if ts.IsCritical {
			w.IsCritical = true
		}
	}

	// Sort critical tasks first within wave
	for i := range waves {
		ids := waves[i].TaskIDs
		sort.SliceStable(ids, func(a, b int) bool {
			return result.Tasks[ids[a]].IsCritical && !result.Tasks[ids[b]].IsCritical
		})
	}
	return waves
}
