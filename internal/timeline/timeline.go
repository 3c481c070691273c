// Package timeline computes earliest start times with unlimited
// parallelism: every task starts as soon as its last predecessor ends.
package timeline

import (
	"sort"

	"github.com/joshharrison/procsched/internal/graph"
)

// Entry is one task's place on the timeline.
type Entry struct {
	TaskID int `json:"id"`
	Start  int `json:"start"`
	Finish int `json:"finish"`
}

// Result holds per-task times indexed by id-1 and TN, the latest finish.
type Result struct {
	Entries []Entry `json:"entries"`
	TN      int     `json:"tn"`
}

// Compute relaxes start times along the reverse DFS finish order. It
// returns a CycleDetected error, and no result, when g is not a DAG.
func Compute(g *graph.TaskGraph) (*Result, error) {
	tr := g.DFS()
	if !tr.Acyclic() {
		return nil, g.DetectCycle()
	}

	n := g.Len()
	start := make([]int, n)

	// FinishOrder used as a stack: popping from the end yields a
	// topological order.
	stack := tr.FinishOrder
	for len(stack) > 0 {
		u := g.Task(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
		end := start[u.ID-1] + u.Duration
		for _, v := range u.Succs {
			if end > start[v-1] {
				start[v-1] = end
			}
		}
	}

	res := &Result{Entries: make([]Entry, n)}
	for i := range start {
		finish := start[i] + g.Task(i+1).Duration
		res.Entries[i] = Entry{TaskID: i + 1, Start: start[i], Finish: finish}
		if finish > res.TN {
			res.TN = finish
		}
	}
	return res, nil
}

// Entry returns the entry for task id.
func (r *Result) Entry(id int) Entry {
	return r.Entries[id-1]
}

// ByStart returns entries sorted by start time, then id.
func (r *Result) ByStart() []Entry {
	out := append([]Entry(nil), r.Entries...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out
}
