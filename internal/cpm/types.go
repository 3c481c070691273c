package cpm

// CPMResult holds the complete critical path analysis.
type CPMResult struct {
	Tasks         map[int]*TaskSchedule `json:"tasks"`
	CriticalPath  []int                 `json:"critical_path"`  // critical task ids ordered by ES, then id
	CriticalChain []int                 `json:"critical_chain"` // one longest path, edge by edge
	TotalDuration int                   `json:"total_duration"` // longest path; a lower bound on any makespan
	Waves         []Wave                `json:"waves"`          // groups of tasks sharing an earliest start
	TopoOrder     []int                 `json:"topo_order"`
}

// TaskSchedule holds the scheduling info for a single task.
type TaskSchedule struct {
	TaskID     int  `json:"id"`
	Duration   int  `json:"duration"`
	ES         int  `json:"es"` // earliest start/finish
	EF         int  `json:"ef"`
	LS         int  `json:"ls"` // latest start/finish
	LF         int  `json:"lf"`
	Slack      int  `json:"slack"`
	IsCritical bool `json:"critical"`
	Wave       int  `json:"wave"`
}

// Wave represents a group of tasks that can execute in parallel.
type Wave struct {
	Index      int   `json:"index"`
	Start      int   `json:"start"`
	TaskIDs    []int `json:"tasks"`
	IsCritical bool  `json:"critical"` // true if wave contains critical path tasks
}
