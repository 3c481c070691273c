package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/joshharrison/procsched/internal/dispatch"
	"github.com/joshharrison/procsched/internal/planner"
	"github.com/joshharrison/procsched/internal/ui"
)

// Reporter renders a generated plan for terminals and machines.
type Reporter struct {
	Plan *planner.Plan
}

// New creates a new Reporter.
func New(plan *planner.Plan) *Reporter {
	return &Reporter{Plan: plan}
}

// PrintSchedule writes the primary schedule followed by both makespans.
func (r *Reporter) PrintSchedule(w io.Writer) {
	WriteSchedule(w, r.Plan.Primary())
	WriteMakespans(w, r.Plan.Heuristic, r.Plan.Baseline)
}

// Summary returns a colored comparison of the two policies.
func (r *Reporter) Summary() string {
	var b strings.Builder
	p := r.Plan

	fmt.Fprintf(&b, "\n📅 %s\n", ui.BoldCyan("Schedule Summary"))
	fmt.Fprintf(&b, "%s\n", ui.Cyan("════════════════"))
	fmt.Fprintf(&b, "Plan:        %s\n", ui.Dim(p.ID))
	fmt.Fprintf(&b, "Tasks:       %d on %d processors\n", p.TotalTasks, p.Config.Processors)
	fmt.Fprintf(&b, "Lower bound: %s %s\n", ui.Bold(p.LowerBound), ui.Dim("(critical path)"))
	fmt.Fprintf(&b, "Heuristic:   %s %s\n", ui.BoldGreen(p.Heuristic.Makespan), ui.Dim(utilization(p.Heuristic)))
	fmt.Fprintf(&b, "Baseline:    %s %s\n", ui.Bold(p.Baseline.Makespan), ui.Dim(utilization(p.Baseline)))
	fmt.Fprintf(&b, "Difference:  %s\n", ui.Delta(p.Heuristic.Makespan-p.Baseline.Makespan))
	if len(p.Analysis.CriticalChain) > 0 {
		ids := make([]string, len(p.Analysis.CriticalChain))
		for i, id := range p.Analysis.CriticalChain {
			ids[i] = strconv.Itoa(id)
		}
		fmt.Fprintf(&b, "Critical:    %s\n", ui.BoldYellow("⚡ "+strings.Join(ids, " → ")))
	}
	return b.String()
}

func utilization(res *dispatch.Result) string {
	return fmt.Sprintf("(%.0f%% utilization)", res.Utilization()*100)
}

// PrintAnalysis writes the CPM table: one row per task in topological
// order with its window and slack.
func (r *Reporter) PrintAnalysis(w io.Writer) {
	a := r.Plan.Analysis
	fmt.Fprintf(w, "🎯 %s\n", ui.BoldCyan("Critical Path Analysis"))
	fmt.Fprintln(w, ui.Cyan("══════════════════════"))
	fmt.Fprintf(w, "Lower bound: %s  Waves: %s\n\n", ui.Bold(a.TotalDuration), ui.Bold(len(a.Waves)))

	fmt.Fprintf(w, "  %-6s %-5s %-9s %-9s %-6s\n", "TASK", "DUR", "ES-EF", "LS-LF", "SLACK")
	for _, id := range a.TopoOrder {
		ts := a.Tasks[id]
		fmt.Fprintf(w, "%s %-6d %-5d %-9s %-9s %s\n",
			ui.Critical(ts.IsCritical), ts.TaskID, ts.Duration,
			fmt.Sprintf("%d-%d", ts.ES, ts.EF),
			fmt.Sprintf("%d-%d", ts.LS, ts.LF),
			ui.Slack(ts.Slack))
	}
}

// Gantt renders the primary schedule, one row per processor.
func (r *Reporter) Gantt(width int) string {
	res := r.Plan.Primary()
	bars := make([]ui.Bar, len(res.Assignments))
	for i, a := range res.Assignments {
		bars[i] = ui.Bar{Row: a.Processor, ID: a.TaskID, Start: a.Start, Finish: a.Finish}
	}
	// Rows past the task count are always idle.
	rows := max(1, min(res.Processors, len(res.Assignments)))
	return ui.Gantt(rows, res.Makespan, bars, width)
}

// JSON returns the machine-readable plan summary.
func (r *Reporter) JSON() ([]byte, error) {
	type output struct {
		PlanID            string                `json:"plan_id"`
		Fingerprint       string                `json:"fingerprint"`
		Processors        int                   `json:"processors"`
		Policy            string                `json:"policy"`
		LowerBound        int                   `json:"lower_bound"`
		HeuristicMakespan int                   `json:"heuristic_makespan"`
		BaselineMakespan  int                   `json:"baseline_makespan"`
		TN                int                   `json:"tn"`
		CriticalPath      []int                 `json:"critical_path"`
		CriticalChain     []int                 `json:"critical_chain"`
		Digest            string                `json:"digest"`
		Schedule          []dispatch.Assignment `json:"schedule"`
	}

	p := r.Plan
	primary := p.Primary()
	o := output{
		PlanID:            p.ID,
		Fingerprint:       p.Fingerprint,
		Processors:        p.Config.Processors,
		Policy:            primary.Policy,
		LowerBound:        p.LowerBound,
		HeuristicMakespan: p.Heuristic.Makespan,
		BaselineMakespan:  p.Baseline.Makespan,
		TN:                p.Timeline.TN,
		CriticalPath:      p.Analysis.CriticalPath,
		CriticalChain:     p.Analysis.CriticalChain,
		Digest:            primary.Digest(),
		Schedule:          primary.ByStart(),
	}
	return json.MarshalIndent(o, "", "  ")
}
