package graph

import "github.com/joshharrison/procsched/internal/schederr"

const (
	white uint8 = iota // unvisited
	gray               // on the current path
	black              // fully processed
)

// Traversal is the result of a depth-first search over successor edges.
// Discovery and Finish are indexed by id-1.
type Traversal struct {
	Discovery   []int
	Finish      []int
	FinishOrder []int // ids in the order they turned black
	Cycle       []int // witness path, first id repeated last; nil if acyclic
}

// Acyclic reports whether the search completed without meeting a gray task.
func (tr *Traversal) Acyclic() bool {
	return tr.Cycle == nil
}

// DFS runs a three-colour depth-first search from every unvisited task in
// ascending id order. It stops at the first back edge it finds, so
// FinishOrder is only complete when the graph is acyclic.
func (g *TaskGraph) DFS() *Traversal {
	n := len(g.tasks)
	tr := &Traversal{
		Discovery:   make([]int, n),
		Finish:      make([]int, n),
		FinishOrder: make([]int, 0, n),
	}
	color := make([]uint8, n)

	type frame struct {
		id   int
		next int // index into Succs of the next edge to explore
	}
	var stack []frame
	clock := 0

	for i := 0; i < n; i++ {
		if color[i] != white {
			continue
		}
		clock++
		tr.Discovery[i] = clock
		color[i] = gray
		stack = append(stack[:0], frame{id: i + 1})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			succs := g.tasks[top.id-1].Succs
			if top.next < len(succs) {
				v := succs[top.next]
				top.next++
				switch color[v-1] {
				case white:
					clock++
					tr.Discovery[v-1] = clock
					color[v-1] = gray
					stack = append(stack, frame{id: v})
				case gray:
					path := make([]int, 0, len(stack)+1)
					for j := len(stack) - 1; j >= 0; j-- {
						if stack[j].id == v {
							for _, f := range stack[j:] {
								path = append(path, f.id)
							}
							break
						}
					}
					tr.Cycle = append(path, v)
					return tr
				}
				continue
			}

			clock++
			tr.Finish[top.id-1] = clock
			color[top.id-1] = black
			tr.FinishOrder = append(tr.FinishOrder, top.id)
			stack = stack[:len(stack)-1]
		}
	}
	return tr
}

// DetectCycle returns a CycleDetected error carrying the witness path, or
// nil if the graph is a DAG.
func (g *TaskGraph) DetectCycle() error {
	if tr := g.DFS(); !tr.Acyclic() {
		return schederr.Cycle(tr.Cycle)
	}
	return nil
}

// TopoOrder returns task ids in reverse finish order, which is a
// topological order of an acyclic graph.
func (g *TaskGraph) TopoOrder() ([]int, error) {
	tr := g.DFS()
	if !tr.Acyclic() {
		return nil, schederr.Cycle(tr.Cycle)
	}
	order := make([]int, len(tr.FinishOrder))
	for i, id := range tr.FinishOrder {
		order[len(order)-1-i] = id
	}
	return order, nil
}
