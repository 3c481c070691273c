package dispatch

import "github.com/joshharrison/procsched/internal/schederr"

// Processor is one virtual execution slot.
type Processor struct {
	ID   int
	Busy bool
	Task int // id of the running task; 0 when idle
}

// Pool is a fixed set of processors with ids 0..n-1.
type Pool struct {
	procs []Processor
	busy  int
}

// MaxProcessors is the largest pool size accepted anywhere a processor
// count enters the program.
const MaxProcessors = 1 << 16

// ValidateProcessors reports whether n is an acceptable pool size.
func ValidateProcessors(n int) error {
	if n < 1 {
		return schederr.Validationf("processor count must be at least 1, got %d", n)
	}
	if n > MaxProcessors {
		return schederr.Validationf("processor count must be at most %d, got %d", MaxProcessors, n)
	}
	return nil
}

// NewPool returns a pool of n idle processors.
func NewPool(n int) (*Pool, error) {
	if err := ValidateProcessors(n); err != nil {
		return nil, err
	}
	p := &Pool{procs: make([]Processor, n)}
	for i := range p.procs {
		p.procs[i].ID = i
	}
	return p, nil
}

func (p *Pool) Size() int { return len(p.procs) }

// Busy returns the number of processors currently running a task.
func (p *Pool) Busy() int { return p.busy }

// Processor returns a copy of processor id's current state.
func (p *Pool) Processor(id int) Processor { return p.procs[id] }

func (p *Pool) assign(id, task int) {
	p.procs[id].Busy = true
	p.procs[id].Task = task
	p.busy++
}

func (p *Pool) release(id int) {
	p.procs[id].Busy = false
	p.procs[id].Task = 0
	p.busy--
}
