package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Bar is one task occupying a row over [Start, Finish).
type Bar struct {
	Row    int
	ID     int
	Start  int
	Finish int
}

var (
	ganttRowLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true)
	ganttIdle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	ganttAxis = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	ganttPalette = []lipgloss.Color{"63", "205", "39", "214", "78", "141", "203", "45"}
)

// Gantt renders bars on rows 0..rows-1 over [0, makespan). When makespan
// exceeds width each column covers ceil(makespan/width) ticks.
func Gantt(rows, makespan int, bars []Bar, width int) string {
	if width < 1 {
		width = 60
	}
	scale := 1
	if makespan > width {
		scale = ceilDiv(makespan, width)
	}
	cols := ceilDiv(makespan, scale)

	grid := make([][]int, rows)
	for r := range grid {
		grid[r] = make([]int, cols)
	}
	for _, b := range bars {
		if b.Row < 0 || b.Row >= rows {
			continue
		}
		end := ceilDiv(b.Finish, scale)
		for c := b.Start / scale; c < end && c < cols; c++ {
			grid[b.Row][c] = b.ID
		}
	}

	labelWidth := len(strconv.Itoa(rows-1)) + 1
	lines := make([]string, 0, rows+1)
	for r, cells := range grid {
		label := ganttRowLabel.Render(fmt.Sprintf("P%-*d", labelWidth-1, r))
		lines = append(lines, label+" │"+renderRow(cells))
	}
	lines = append(lines, ganttAxis.Render(axis(labelWidth, cols, scale, makespan)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderRow collapses runs of equal cells into styled segments.
func renderRow(cells []int) string {
	var segs []string
	for i := 0; i < len(cells); {
		j := i
		for j < len(cells) && cells[j] == cells[i] {
			j++
		}
		n := j - i
		if cells[i] == 0 {
			segs = append(segs, ganttIdle.Render(strings.Repeat("·", n)))
		} else {
			style := lipgloss.NewStyle().
				Background(ganttPalette[cells[i]%len(ganttPalette)]).
				Foreground(lipgloss.Color("230"))
			segs = append(segs, style.Render(fit(strconv.Itoa(cells[i]), n)))
		}
		i = j
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, segs...)
}

// ceilDiv rounds a/b up without overflowing near math.MaxInt.
func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a-1)/b + 1
}

// fit pads or truncates s to exactly n cells.
func fit(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}

func axis(labelWidth, cols, scale, makespan int) string {
	end := strconv.Itoa(makespan)
	line := strings.Repeat(" ", labelWidth+1) + "└" + strings.Repeat("─", cols) + " " + end
	if scale > 1 {
		line += fmt.Sprintf(" (1 col = %d ticks)", scale)
	}
	return line
}
