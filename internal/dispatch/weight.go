package dispatch

import (
	"github.com/sourcegraph/conc/pool"

	"github.com/joshharrison/procsched/internal/graph"
)

// Weight returns the sum of durations over id and everything reachable
// from it through successor edges.
func Weight(g *graph.TaskGraph, id int) int {
	return forwardWeight(g, id, nil)
}

// forwardWeight walks the forward cone of id with its own visited set.
// Tasks for which skip returns true contribute nothing and are not
// expanded.
func forwardWeight(g *graph.TaskGraph, id int, skip func(int) bool) int {
	visited := map[int]bool{id: true}
	stack := []int{id}
	total := 0
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if skip != nil && skip(u) {
			continue
		}
		t := g.Task(u)
		total += t.Duration
		for _, s := range t.Succs {
			if !visited[s] {
				visited[s] = true
				stack = append(stack, s)
			}
		}
	}
	return total
}

// weigh computes weights for a promotion batch. Results land at the
// index of their task in ids, so the output does not depend on how the
// work was split across goroutines.
func (r *run) weigh(ids []int) []int {
	out := make([]int, len(ids))
	completed := func(id int) bool { return r.state[id-1] == Completed }

	if r.d.weightWorkers <= 1 || len(ids) < 2 {
		for i, id := range ids {
			out[i] = forwardWeight(r.g, id, completed)
		}
		return out
	}

	p := pool.New().WithMaxGoroutines(r.d.weightWorkers)
	for i, id := range ids {
		p.Go(func() {
			out[i] = forwardWeight(r.g, id, completed)
		})
	}
	p.Wait()
	return out
}
