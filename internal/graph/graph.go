package graph

import (
	"fmt"
	"math"
	"sort"

	"github.com/joshharrison/procsched/internal/schederr"
	"github.com/joshharrison/procsched/internal/taskfile"
)

// BuildFromRaw validates parsed task records and constructs a TaskGraph.
// Records may arrive in any order but their ids must be exactly 1..n.
// Cycles are not rejected here; see DetectCycle.
func BuildFromRaw(rawTasks []taskfile.RawTask) (*TaskGraph, error) {
	n := len(rawTasks)
	g := &TaskGraph{tasks: make([]Task, n)}
	seen := make([]bool, n)
	total := 0

	// Index all tasks
	for _, rt := range rawTasks {
		if rt.ID < 1 || rt.ID > n {
			return nil, schederr.Validationf("%stask id %d out of range 1..%d", at(rt), rt.ID, n)
		}
		if seen[rt.ID-1] {
			return nil, schederr.Validationf("%sduplicate task id %d", at(rt), rt.ID)
		}
		seen[rt.ID-1] = true
		if rt.Duration <= 0 {
			return nil, schederr.Validationf("%stask %d has non-positive duration %d", at(rt), rt.ID, rt.Duration)
		}
		// The total bounds every finish time, weight and makespan.
		if rt.Duration > math.MaxInt-total {
			return nil, schederr.Validationf("%stask %d: total duration exceeds %d", at(rt), rt.ID, math.MaxInt)
		}
		total += rt.Duration

		preds := make([]int, 0, len(rt.Deps))
		dup := make(map[int]bool, len(rt.Deps))
		for _, p := range rt.Deps {
			if p < 1 || p > n {
				return nil, schederr.Validationf("%stask %d depends on unknown task %d", at(rt), rt.ID, p)
			}
			if dup[p] {
				continue
			}
			dup[p] = true
			preds = append(preds, p)
		}
		sort.Ints(preds)

		g.tasks[rt.ID-1] = Task{ID: rt.ID, Duration: rt.Duration, Preds: preds}
	}

	// Derive successor lists. Iterating tasks in id order keeps them sorted.
	for i := range g.tasks {
		for _, p := range g.tasks[i].Preds {
			g.tasks[p-1].Succs = append(g.tasks[p-1].Succs, g.tasks[i].ID)
		}
	}

	return g, nil
}

func at(rt taskfile.RawTask) string {
	if rt.Line > 0 {
		return fmt.Sprintf("line %d: ", rt.Line)
	}
	return ""
}

// Clone returns a deep copy; no slice is shared with the receiver.
func (g *TaskGraph) Clone() *TaskGraph {
	c := &TaskGraph{tasks: make([]Task, len(g.tasks))}
	for i, t := range g.tasks {
		c.tasks[i] = Task{
			ID:       t.ID,
			Duration: t.Duration,
			Preds:    append([]int(nil), t.Preds...),
			Succs:    append([]int(nil), t.Succs...),
		}
	}
	return c
}

// Len returns the number of tasks in the graph.
func (g *TaskGraph) Len() int {
	return len(g.tasks)
}

// Task returns the task with the given id, or nil if the id is out of range.
func (g *TaskGraph) Task(id int) *Task {
	if id < 1 || id > len(g.tasks) {
		return nil
	}
	return &g.tasks[id-1]
}

// IDs returns every task id in ascending order.
func (g *TaskGraph) IDs() []int {
	ids := make([]int, len(g.tasks))
	for i := range g.tasks {
		ids[i] = i + 1
	}
	return ids
}

// Roots returns tasks with no predecessors, ascending.
func (g *TaskGraph) Roots() []int {
	var roots []int
	for _, t := range g.tasks {
		if len(t.Preds) == 0 {
			roots = append(roots, t.ID)
		}
	}
	return roots
}

// Leaves returns tasks that unblock nothing, ascending.
func (g *TaskGraph) Leaves() []int {
	var leaves []int
	for _, t := range g.tasks {
		if len(t.Succs) == 0 {
			leaves = append(leaves, t.ID)
		}
	}
	return leaves
}

// Edges lists every precedence constraint ordered by (From, To).
func (g *TaskGraph) Edges() []Edge {
	var edges []Edge
	for _, t := range g.tasks {
		for _, s := range t.Succs {
			edges = append(edges, Edge{From: t.ID, To: s})
		}
	}
	return edges
}

// TotalDuration is the sum of all durations: the makespan of running
// every task back to back on one processor.
func (g *TaskGraph) TotalDuration() int {
	total := 0
	for _, t := range g.tasks {
		total += t.Duration
	}
	return total
}
