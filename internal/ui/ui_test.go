package ui

import (
	"math"
	"strings"
	"testing"
)

func TestGantt_Rows(t *testing.T) {
	out := Gantt(3, 8, []Bar{
		{Row: 0, ID: 1, Start: 0, Finish: 5},
		{Row: 0, ID: 2, Start: 5, Finish: 8},
		{Row: 1, ID: 3, Start: 5, Finish: 7},
	}, 60)

	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 3 rows plus an axis, got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "P0") || !strings.Contains(lines[0], "1") || !strings.Contains(lines[0], "2") {
		t.Errorf("unexpected row 0: %q", lines[0])
	}
	if !strings.Contains(lines[1], "·····3") {
		t.Errorf("expected processor 1 idle until tick 5, got %q", lines[1])
	}
	if strings.Count(lines[2], "·") != 8 {
		t.Errorf("expected processor 2 idle throughout, got %q", lines[2])
	}
	if !strings.HasSuffix(lines[3], " 8") {
		t.Errorf("expected axis to end with makespan, got %q", lines[3])
	}
}

func TestGantt_Scaled(t *testing.T) {
	out := Gantt(1, 100, []Bar{{Row: 0, ID: 1, Start: 0, Finish: 100}}, 10)
	if !strings.Contains(out, "1 col = 10 ticks") {
		t.Errorf("expected scale note, got:\n%s", out)
	}
}

func TestGantt_MakespanAtIntLimit(t *testing.T) {
	out := Gantt(1, math.MaxInt, []Bar{{Row: 0, ID: 1, Start: 0, Finish: math.MaxInt}}, 10)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 1 row plus an axis, got:\n%s", out)
	}
	if strings.Contains(lines[0], "·") {
		t.Errorf("expected the row fully busy, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "1 col = ") {
		t.Errorf("expected scale note, got %q", lines[1])
	}
}

func TestFit(t *testing.T) {
	if got := fit("123", 2); got != "12" {
		t.Errorf("expected truncation, got %q", got)
	}
	if got := fit("7", 3); got != "7  " {
		t.Errorf("expected padding, got %q", got)
	}
}
