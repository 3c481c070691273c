package graph

// Task is one schedulable unit. IDs are dense and 1-based; the task with
// id i lives at index i-1 of the graph's arena.
type Task struct {
	ID       int   `json:"id"`
	Duration int   `json:"duration"`
	Preds    []int `json:"deps"`  // ascending, de-duplicated
	Succs    []int `json:"succs"` // derived from Preds, ascending
}

// TaskGraph is a directed graph of tasks, edges pointing from a
// predecessor to the tasks it unblocks. It may contain cycles until
// DetectCycle says otherwise.
type TaskGraph struct {
	tasks []Task
}

// Edge is a precedence constraint: From must finish before To starts.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}
