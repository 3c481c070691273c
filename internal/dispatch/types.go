package dispatch

// State is a task's position in a single dispatcher run. It only moves
// forward.
type State int

const (
	Unscheduled State = iota
	Ready
	Running
	Completed
)

func (s State) String() string {
	switch s {
	case Unscheduled:
		return "unscheduled"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Candidate is a Ready task waiting in the queue.
type Candidate struct {
	ID       int
	Duration int
	Weight   int // 0 under unweighted policies
}

// Assignment records where and when a task ran.
type Assignment struct {
	TaskID    int `json:"id"`
	Start     int `json:"start"`
	Finish    int `json:"finish"`
	Processor int `json:"processor"`
	Weight    int `json:"weight,omitempty"`
}
