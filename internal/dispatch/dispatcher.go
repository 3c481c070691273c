package dispatch

import (
	"context"
	"fmt"
	"slices"

	"github.com/joshharrison/procsched/internal/graph"
	"github.com/joshharrison/procsched/internal/log"
	"github.com/joshharrison/procsched/internal/schederr"
)

// DefaultProcessors is the pool size used when none is configured.
const DefaultProcessors = 3

// Dispatcher list-schedules a task graph onto a processor pool in discrete
// ticks. Each Run works on a private clone of the graph, so one graph can
// feed any number of dispatchers concurrently.
type Dispatcher struct {
	graph         *graph.TaskGraph
	policy        Policy
	processors    int
	weightWorkers int
	logger        *log.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithProcessors(n int) Option {
	return func(d *Dispatcher) { d.processors = n }
}

// WithWeightWorkers bounds the goroutines used to compute weights for a
// promotion batch. 1 or less computes them inline.
func WithWeightWorkers(n int) Option {
	return func(d *Dispatcher) { d.weightWorkers = n }
}

func WithLogger(l *log.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a Dispatcher for g under the given policy.
func New(g *graph.TaskGraph, policy Policy, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		graph:         g,
		policy:        policy,
		processors:    DefaultProcessors,
		weightWorkers: 1,
		logger:        log.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// run is the mutable state of one Run call.
type run struct {
	d       *Dispatcher
	g       *graph.TaskGraph
	state   []State
	queue   *candidateQueue
	pool    *Pool
	fresh   []int // tasks whose last predecessor completed this tick
	pending int   // tasks still Unscheduled
	result  *Result
}

// Run executes the tick loop until every task has completed. A cyclic
// graph returns a CycleDetected error before anything is assigned.
func (d *Dispatcher) Run(ctx context.Context) (*Result, error) {
	if d.policy == nil {
		return nil, schederr.Validationf("no dispatch policy configured")
	}
	if err := ValidateProcessors(d.processors); err != nil {
		return nil, err
	}
	if err := d.graph.DetectCycle(); err != nil {
		return nil, err
	}

	g := d.graph.Clone()
	n := g.Len()

	// The lowest idle id always wins, so processors beyond the task
	// count would never be used.
	p, err := NewPool(max(1, min(d.processors, n)))
	if err != nil {
		return nil, err
	}
	r := &run{
		d:       d,
		g:       g,
		state:   make([]State, n),
		queue:   newCandidateQueue(d.policy),
		pool:    p,
		fresh:   g.Roots(),
		pending: n,
		result: &Result{
			Policy:      d.policy.Name(),
			Processors:  d.processors,
			Assignments: make([]Assignment, n),
			Order:       make([]int, 0, n),
		},
	}
	logger := d.logger.With("policy", d.policy.Name())

	tick := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("dispatch %s: cancelled at tick %d: %w", d.policy.Name(), tick, err)
		}

		r.retire(tick, logger)
		r.promote()
		r.assign(tick, logger)

		if r.pending == 0 && r.queue.Len() == 0 && r.pool.Busy() == 0 {
			break
		}
		tick = r.nextEvent(tick)
	}

	r.result.Makespan = tick
	logger.Info("schedule complete", "tasks", n, "processors", d.processors, "makespan", tick)
	return r.result, nil
}

// retire frees every processor whose task finishes at tick and releases
// the task's successors.
func (r *run) retire(tick int, logger *log.Logger) {
	for pid := 0; pid < r.pool.Size(); pid++ {
		proc := r.pool.Processor(pid)
		if !proc.Busy || r.result.Assignments[proc.Task-1].Finish != tick {
			continue
		}
		id := proc.Task
		r.pool.release(pid)
		r.state[id-1] = Completed
		logger.Debug("retire", "tick", tick, "task", id, "processor", pid)

		for _, s := range r.g.Task(id).Succs {
			succ := r.g.Task(s)
			succ.Preds = slices.DeleteFunc(succ.Preds, func(p int) bool { return p == id })
			if len(succ.Preds) == 0 && r.state[s-1] == Unscheduled {
				r.fresh = append(r.fresh, s)
			}
		}
	}
}

// promote moves every task whose predecessors have all completed into the
// candidate queue.
func (r *run) promote() {
	if len(r.fresh) == 0 {
		return
	}
	batch := r.fresh
	r.fresh = nil
	slices.Sort(batch)

	var weights []int
	if r.d.policy.Weighted() {
		weights = r.weigh(batch)
	}
	for i, id := range batch {
		c := Candidate{ID: id, Duration: r.g.Task(id).Duration}
		if weights != nil {
			c.Weight = weights[i]
		}
		r.state[id-1] = Ready
		r.pending--
		r.queue.push(c)
	}
}

// nextEvent returns the next tick at which anything can change. After
// assign either the queue is empty or every processor is busy, so until
// the earliest running task finishes no step has work to do.
func (r *run) nextEvent(tick int) int {
	next := -1
	for pid := 0; pid < r.pool.Size(); pid++ {
		proc := r.pool.Processor(pid)
		if !proc.Busy {
			continue
		}
		if f := r.result.Assignments[proc.Task-1].Finish; next < 0 || f < next {
			next = f
		}
	}
	if next <= tick {
		return tick + 1
	}
	return next
}

// assign hands queued candidates to idle processors in processor-id order.
func (r *run) assign(tick int, logger *log.Logger) {
	for pid := 0; pid < r.pool.Size() && r.queue.Len() > 0; pid++ {
		if r.pool.Processor(pid).Busy {
			continue
		}
		c := r.queue.pop()
		r.result.Assignments[c.ID-1] = Assignment{
			TaskID:    c.ID,
			Start:     tick,
			Finish:    tick + c.Duration,
			Processor: pid,
			Weight:    c.Weight,
		}
		r.result.Order = append(r.result.Order, c.ID)
		r.state[c.ID-1] = Running
		r.pool.assign(pid, c.ID)
		logger.Debug("dispatch", "tick", tick, "task", c.ID, "processor", pid, "weight", c.Weight)
	}
}
