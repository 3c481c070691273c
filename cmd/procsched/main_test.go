package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshharrison/procsched/internal/schederr"
)

const (
	fanOutTasks = "3\n1 5 {}\n2 3 {1}\n3 2 {1}\n"
	cycleTasks  = "2\n1 5 {2}\n2 3 {1}\n"
)

func writeTasks(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.txt")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write tasks: %v", err)
	}
	return path
}

// execute runs the CLI with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSchedule_LegacyOutput(t *testing.T) {
	out, err := execute(t, "schedule", "--no-save", writeTasks(t, fanOutTasks))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "ID:1 Start:0 Finish:5 Processor ID:0\n" +
		"ID:2 Start:5 Finish:8 Processor ID:0\n" +
		"ID:3 Start:5 Finish:7 Processor ID:1\n" +
		"Heuristic makespan: 8\n" +
		"Baseline makespan: 8\n"
	if out != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestSchedule_CycleIsNotAnError(t *testing.T) {
	out, err := execute(t, "schedule", "--no-save", writeTasks(t, cycleTasks))
	if err != nil {
		t.Fatalf("a cycle should exit cleanly, got %v", err)
	}
	if out != "There is no feasible solution.\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestSchedule_CycleJSON(t *testing.T) {
	out, err := execute(t, "schedule", "--no-save", "--json", writeTasks(t, cycleTasks))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"feasible": false`) {
		t.Errorf("expected feasible false, got:\n%s", out)
	}
}

func TestTimeline_Output(t *testing.T) {
	out, err := execute(t, "timeline", writeTasks(t, fanOutTasks))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "ID:1 StartTime:0\nID:2 StartTime:5\nID:3 StartTime:5\nTN is 8\n"; out != want {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestTimeline_CycleIsNotAnError(t *testing.T) {
	out, err := execute(t, "timeline", writeTasks(t, cycleTasks))
	if err != nil {
		t.Fatalf("a cycle should exit cleanly, got %v", err)
	}
	if out != "There is no feasible solution for given input.\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestMalformedInputFails(t *testing.T) {
	malformed := writeTasks(t, "2\n1 5 {}\n2 3 {1")
	for _, sub := range []string{"schedule", "timeline", "analyze", "viz"} {
		t.Run(sub, func(t *testing.T) {
			out, err := execute(t, sub, malformed)
			if !schederr.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
			if strings.Contains(out, "feasible") {
				t.Errorf("validation failure must not print the infeasibility line, got %q", out)
			}
		})
	}
}

func TestSchedule_ProcessorBounds(t *testing.T) {
	path := writeTasks(t, fanOutTasks)
	for _, n := range []string{"0", "4611686018427387904"} {
		if _, err := execute(t, "schedule", "--no-save", "--processors", n, path); !schederr.IsValidation(err) {
			t.Errorf("processors %s: expected validation error, got %v", n, err)
		}
	}
}

func TestScheduleThenShow(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	scheduled, err := execute(t, "schedule", "--state-dir", dir, writeTasks(t, fanOutTasks))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	shown, err := execute(t, "show", "--state-dir", dir)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if shown != scheduled {
		t.Errorf("show should repeat the saved schedule:\n%s\nwant:\n%s", shown, scheduled)
	}

	if _, err := execute(t, "show", "--state-dir", filepath.Join(t.TempDir(), "empty")); err == nil {
		t.Error("expected an error when nothing has been saved")
	}
}
