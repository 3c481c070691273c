package reporter

import (
	"fmt"
	"io"

	"github.com/joshharrison/procsched/internal/dispatch"
	"github.com/joshharrison/procsched/internal/timeline"
)

// Infeasibility lines printed in place of a schedule when the input has a
// circular dependency.
const (
	InfeasibleSchedule = "There is no feasible solution."
	InfeasibleTimeline = "There is no feasible solution for given input."
)

// WriteSchedule prints one line per task sorted by start, then id.
func WriteSchedule(w io.Writer, res *dispatch.Result) {
	for _, a := range res.ByStart() {
		fmt.Fprintf(w, "ID:%d Start:%d Finish:%d Processor ID:%d\n", a.TaskID, a.Start, a.Finish, a.Processor)
	}
}

// WriteMakespans prints the heuristic and baseline summary lines.
func WriteMakespans(w io.Writer, heuristic, baseline *dispatch.Result) {
	fmt.Fprintf(w, "Heuristic makespan: %d\n", heuristic.Makespan)
	fmt.Fprintf(w, "Baseline makespan: %d\n", baseline.Makespan)
}

// WriteTimeline prints start times sorted by start, then id, and TN.
func WriteTimeline(w io.Writer, res *timeline.Result) {
	for _, e := range res.ByStart() {
		fmt.Fprintf(w, "ID:%d StartTime:%d\n", e.TaskID, e.Start)
	}
	fmt.Fprintf(w, "TN is %d\n", res.TN)
}
