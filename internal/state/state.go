package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/joshharrison/procsched/internal/planner"
)

// DefaultDir is where plans are kept when no directory is configured.
const DefaultDir = ".procsched"

const (
	currentFile = "current.json"
	historyDir  = "history"
)

// ErrNoPlan is returned when no saved plan matches a lookup.
var ErrNoPlan = errors.New("no saved plan")

// Store persists generated plans as JSON: the latest one in current.json
// and every one under history/<plan-id>.json.
type Store struct {
	Dir string
	mu  sync.Mutex
}

// NewStore returns a store rooted at dir (DefaultDir if empty).
func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	return &Store{Dir: dir}
}

// Entry is a one-line description of a saved plan.
type Entry struct {
	ID                string    `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	TotalTasks        int       `json:"total_tasks"`
	HeuristicMakespan int       `json:"heuristic_makespan"`
	BaselineMakespan  int       `json:"baseline_makespan"`
}

// Save writes plan to history and makes it current.
func (s *Store) Save(plan *planner.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Join(s.Dir, historyDir), 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	if err := writeFile(filepath.Join(s.Dir, historyDir, plan.ID+".json"), data); err != nil {
		return err
	}
	return writeFile(filepath.Join(s.Dir, currentFile), data)
}

// writeFile replaces path via a temp file and rename so readers never see
// a partial plan.
func writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Current loads the most recently saved plan.
func (s *Store) Current() (*planner.Plan, error) {
	return s.read(filepath.Join(s.Dir, currentFile))
}

// Load reads a plan from history by id.
func (s *Store) Load(id string) (*planner.Plan, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, fmt.Errorf("invalid plan id %q", id)
	}
	return s.read(filepath.Join(s.Dir, historyDir, id+".json"))
}

func (s *Store) read(path string) (*planner.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoPlan
	}
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}

	var p planner.Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	return &p, nil
}

// List returns every saved plan, oldest first.
func (s *Store) List() ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, historyDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	entries := make([]Entry, 0, len(matches))
	for _, m := range matches {
		p, err := s.read(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(m), err)
		}
		e := Entry{ID: p.ID, CreatedAt: p.CreatedAt, TotalTasks: p.TotalTasks}
		if p.Heuristic != nil {
			e.HeuristicMakespan = p.Heuristic.Makespan
		}
		if p.Baseline != nil {
			e.BaselineMakespan = p.Baseline.Makespan
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

// Exists checks if a current plan has been saved.
func (s *Store) Exists() bool {
	_, err := os.Stat(filepath.Join(s.Dir, currentFile))
	return err == nil
}

// Clean removes the state directory.
func (s *Store) Clean() error {
	return os.RemoveAll(s.Dir)
}
