package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joshharrison/procsched/internal/cpm"
	"github.com/joshharrison/procsched/internal/dispatch"
	"github.com/joshharrison/procsched/internal/graph"
	"github.com/joshharrison/procsched/internal/log"
	"github.com/joshharrison/procsched/internal/timeline"
)

// Generate computes the heuristic schedule, the baseline schedule, the
// unbounded timeline and the CPM analysis for g. The four computations
// run concurrently on private clones of g. A cyclic graph fails fast with
// a CycleDetected error before any of them starts.
func Generate(ctx context.Context, g *graph.TaskGraph, config PlanConfig) (*Plan, error) {
	if config.Processors == 0 {
		config.Processors = dispatch.DefaultProcessors
	}
	if config.Policy == "" {
		config.Policy = dispatch.Heuristic.Name()
	}
	if config.WeightWorkers == 0 {
		config.WeightWorkers = 1
	}
	if config.Logger == nil {
		config.Logger = log.Discard()
	}
	if _, err := dispatch.PolicyByName(config.Policy); err != nil {
		return nil, err
	}

	if err := g.DetectCycle(); err != nil {
		return nil, err
	}

	plan := &Plan{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now(),
		Fingerprint: g.Fingerprint(),
		TotalTasks:  g.Len(),
		Config:      config,
	}

	opts := []dispatch.Option{
		dispatch.WithProcessors(config.Processors),
		dispatch.WithWeightWorkers(config.WeightWorkers),
		dispatch.WithLogger(config.Logger),
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		res, err := dispatch.New(g.Clone(), dispatch.Heuristic, opts...).Run(egCtx)
		if err != nil {
			return fmt.Errorf("heuristic schedule: %w", err)
		}
		plan.Heuristic = res
		return nil
	})
	eg.Go(func() error {
		res, err := dispatch.New(g.Clone(), dispatch.Baseline, opts...).Run(egCtx)
		if err != nil {
			return fmt.Errorf("baseline schedule: %w", err)
		}
		plan.Baseline = res
		return nil
	})
	eg.Go(func() error {
		res, err := timeline.Compute(g.Clone())
		if err != nil {
			return fmt.Errorf("timeline: %w", err)
		}
		plan.Timeline = res
		return nil
	})
	eg.Go(func() error {
		res, err := cpm.Analyze(g.Clone())
		if err != nil {
			return fmt.Errorf("cpm analyze: %w", err)
		}
		plan.Analysis = res
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	plan.LowerBound = plan.Analysis.TotalDuration
	config.Logger.Info("plan generated",
		"plan", plan.ID,
		"tasks", plan.TotalTasks,
		"heuristic_makespan", plan.Heuristic.Makespan,
		"baseline_makespan", plan.Baseline.Makespan,
		"tn", plan.Timeline.TN,
	)
	return plan, nil
}
