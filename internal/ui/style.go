package ui

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// PrintLogo renders the banner to stderr.
func PrintLogo() {
	w := os.Stderr
	frame := color.New(color.FgCyan)
	bars := color.New(color.FgYellow)
	brand := color.New(color.Bold, color.FgMagenta)

	fmt.Fprintln(w)
	frame.Fprintln(w, "   +--------------------------+")
	bars.Fprintln(w, "   | ====  ======   ==        |")
	bars.Fprintln(w, "   |    ======  ========      |")
	brand.Fprintln(w, "   |   P R O C S C H E D      |")
	frame.Fprintln(w, "   +--------------------------+")
	fmt.Fprintf(w, "   %s\n\n", Dim("precedence-constrained list scheduling"))
}

// taskColors is a palette of distinct bold colors for differentiating tasks.
var taskColors = []func(a ...interface{}) string{
	BoldMagenta,
	BoldCyan,
	BoldYellow,
	BoldGreen,
	color.New(color.Bold, color.FgHiBlue).SprintFunc(),
	color.New(color.Bold, color.FgHiRed).SprintFunc(),
}

// TaskPrefix returns a colored [id] prefix string. Each id maps to a
// stable palette entry.
func TaskPrefix(id int) string {
	c := taskColors[id%len(taskColors)]
	return Dim("[") + c(strconv.Itoa(id)) + Dim("]")
}

// Critical marks critical-path tasks.
func Critical(critical bool) string {
	if critical {
		return BoldYellow("⚡")
	}
	return " "
}

// Slack returns a colored slack value: zero is red, small is yellow.
func Slack(slack int) string {
	s := strconv.Itoa(slack)
	switch {
	case slack == 0:
		return Red(s)
	case slack <= 2:
		return Yellow(s)
	default:
		return Green(s)
	}
}

// Delta colors a makespan difference: negative (an improvement) is green.
func Delta(d int) string {
	switch {
	case d < 0:
		return Green(strconv.Itoa(d))
	case d > 0:
		return Red("+" + strconv.Itoa(d))
	default:
		return Dim("±0")
	}
}
