package reporter

import (
	"fmt"
	"io"

	"github.com/joshharrison/procsched/internal/cpm"
	"github.com/joshharrison/procsched/internal/graph"
	"github.com/joshharrison/procsched/internal/ui"
)

// PrintASCIIDAG writes the graph wave by wave with each task's outgoing
// edges.
func PrintASCIIDAG(w io.Writer, g *graph.TaskGraph, result *cpm.CPMResult) {
	fmt.Fprintf(w, "🔗 %s\n", ui.BoldCyan("Task Dependency Graph"))
	fmt.Fprintln(w, ui.Cyan("═══════════════════════"))
	fmt.Fprintln(w)

	for _, wave := range result.Waves {
		fmt.Fprintf(w, "%s Wave %d (t=%d) %s\n", ui.Cyan("──"), wave.Index+1, wave.Start, ui.Cyan("──────────────────────"))
		for _, id := range wave.TaskIDs {
			ts := result.Tasks[id]
			fmt.Fprintf(w, "  %s %s dur %d\n", ui.Critical(ts.IsCritical), ui.TaskPrefix(id), ts.Duration)
			for _, succ := range g.Task(id).Succs {
				fmt.Fprintf(w, "      %s %s\n", ui.Dim("└──→"), ui.BoldMagenta(succ))
			}
		}
		fmt.Fprintln(w)
	}
}

// WriteDOT writes the graph in Graphviz format, critical tasks and edges
// in red.
func WriteDOT(w io.Writer, g *graph.TaskGraph, result *cpm.CPMResult) {
	fmt.Fprintln(w, "digraph procsched {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box, style=rounded];")
	fmt.Fprintln(w)

	for _, id := range g.IDs() {
		attrs := fmt.Sprintf(`label="%d\n%d"`, id, g.Task(id).Duration)
		if ts, ok := result.Tasks[id]; ok && ts.IsCritical {
			attrs += `, style="rounded,bold", color=red`
		}
		fmt.Fprintf(w, "  %d [%s];\n", id, attrs)
	}

	fmt.Fprintln(w)

	for _, e := range g.Edges() {
		style := ""
		from, to := result.Tasks[e.From], result.Tasks[e.To]
		if from != nil && from.IsCritical && to != nil && to.IsCritical && from.EF == to.ES {
			style = " [color=red, penwidth=2]"
		}
		fmt.Fprintf(w, "  %d -> %d%s;\n", e.From, e.To, style)
	}

	fmt.Fprintln(w, "}")
}
