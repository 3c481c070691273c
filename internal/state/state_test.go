package state

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/joshharrison/procsched/internal/graph"
	"github.com/joshharrison/procsched/internal/planner"
	"github.com/joshharrison/procsched/internal/taskfile"
)

func makePlan(t *testing.T) *planner.Plan {
	t.Helper()
	g, err := graph.BuildFromRaw([]taskfile.RawTask{
		{ID: 1, Duration: 5},
		{ID: 2, Duration: 3, Deps: []int{1}},
		{ID: 3, Duration: 2, Deps: []int{1}},
	})
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	plan, err := planner.Generate(context.Background(), g, planner.PlanConfig{Processors: 3})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return plan
}

func TestSaveAndCurrent(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), ".procsched"))
	if s.Exists() {
		t.Fatal("fresh store should be empty")
	}

	plan := makePlan(t)
	if err := s.Save(plan); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !s.Exists() {
		t.Fatal("expected current plan after Save")
	}

	loaded, err := s.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if loaded.ID != plan.ID {
		t.Errorf("expected plan %s, got %s", plan.ID, loaded.ID)
	}
	if loaded.Heuristic.Makespan != 8 {
		t.Errorf("expected makespan 8, got %d", loaded.Heuristic.Makespan)
	}
	if loaded.Heuristic.Digest() != plan.Heuristic.Digest() {
		t.Error("schedule changed across a save/load")
	}
	if loaded.Analysis.Tasks[3].Slack != 1 {
		t.Errorf("expected task 3 slack 1, got %d", loaded.Analysis.Tasks[3].Slack)
	}
}

func TestLoadByIDAndList(t *testing.T) {
	s := NewStore(t.TempDir())

	first := makePlan(t)
	second := makePlan(t)
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	for _, p := range []*planner.Plan{second, first} {
		if err := s.Save(p); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := s.Load(second.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != second.ID {
		t.Errorf("expected %s, got %s", second.ID, got.ID)
	}

	// current follows the last Save, not the newest CreatedAt
	cur, err := s.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cur.ID != first.ID {
		t.Errorf("expected current %s, got %s", first.ID, cur.ID)
	}

	entries, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != first.ID || entries[1].ID != second.ID {
		t.Errorf("expected [first second], got %+v", entries)
	}
	if entries[0].BaselineMakespan != 8 {
		t.Errorf("expected baseline makespan 8, got %d", entries[0].BaselineMakespan)
	}
}

func TestMissingPlan(t *testing.T) {
	s := NewStore(t.TempDir())

	if _, err := s.Current(); !errors.Is(err, ErrNoPlan) {
		t.Errorf("expected ErrNoPlan, got %v", err)
	}
	if _, err := s.Load("nope"); !errors.Is(err, ErrNoPlan) {
		t.Errorf("expected ErrNoPlan, got %v", err)
	}
	if _, err := s.Load("../escape"); err == nil || errors.Is(err, ErrNoPlan) {
		t.Errorf("expected invalid id error, got %v", err)
	}
}

func TestClean(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "state"))
	if err := s.Save(makePlan(t)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Clean(); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if s.Exists() {
		t.Error("expected state to be gone after Clean")
	}
}

func TestNewStore_Default(t *testing.T) {
	if NewStore("").Dir != DefaultDir {
		t.Errorf("expected default dir %s", DefaultDir)
	}
}
