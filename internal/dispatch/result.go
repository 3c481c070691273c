package dispatch

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/zeebo/blake3"
)

// Result is a complete schedule for one policy.
type Result struct {
	Policy      string       `json:"policy"`
	Processors  int          `json:"processors"`
	Makespan    int          `json:"makespan"`
	Assignments []Assignment `json:"assignments"` // indexed by task id - 1
	Order       []int        `json:"order"`       // ids in dispatch order
}

// Assignment returns the assignment of task id.
func (r *Result) Assignment(id int) Assignment {
	return r.Assignments[id-1]
}

// ByStart returns the assignments sorted by start time, then id.
func (r *Result) ByStart() []Assignment {
	out := append([]Assignment(nil), r.Assignments...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out
}

// Digest is a blake3 hex digest of the schedule. Identical input and
// policy always produce the same digest.
func (r *Result) Digest() string {
	hasher := blake3.New()
	buf := []byte(r.Policy)
	buf = append(buf, '|')
	buf = strconv.AppendInt(buf, int64(r.Processors), 10)
	buf = append(buf, '|')
	buf = strconv.AppendInt(buf, int64(r.Makespan), 10)
	_, _ = hasher.Write(buf)
	for _, a := range r.Assignments {
		buf = buf[:0]
		buf = append(buf, ';')
		for _, v := range []int{a.TaskID, a.Start, a.Finish, a.Processor} {
			buf = strconv.AppendInt(buf, int64(v), 10)
			buf = append(buf, ',')
		}
		_, _ = hasher.Write(buf)
	}
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

// Utilization is busy processor time divided by processors * makespan.
func (r *Result) Utilization() float64 {
	if r.Makespan == 0 || r.Processors == 0 {
		return 0
	}
	var busy float64
	for _, a := range r.Assignments {
		busy += float64(a.Finish - a.Start)
	}
	return busy / (float64(r.Processors) * float64(r.Makespan))
}
