// Package plan orchestrates solve runs: it pulls an instance from its
// producer, runs the optimizer, and hands the result to the consumer. The
// producers and consumers themselves live outside this module, behind the
// ports interfaces.
package plan

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"routeopt/internal/model"
	"routeopt/internal/ports"
	"routeopt/internal/solver"
)

type Runner struct {
	src  ports.ProblemSource
	sink ports.ResultSink
	opt  *solver.Optimizer
	log  *zap.Logger
}

func NewRunner(src ports.ProblemSource, sink ports.ResultSink, opt *solver.Optimizer, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{src: src, sink: sink, opt: opt, log: logger}
}

// Run optimizes one planning date end to end. Collaborator failures are
// returned as errors; solve failures are data on the result, which is saved
// either way so the consumer sees failed runs too.
func (r *Runner) Run(ctx context.Context, planDate string, opts solver.Options) (*model.OptimizationResult, error) {
	stops, err := r.src.Stops(ctx, planDate)
	if err != nil {
		return nil, fmt.Errorf("load stops for %s: %w", planDate, err)
	}
	vehicles, err := r.src.Vehicles(ctx, planDate)
	if err != nil {
		return nil, fmt.Errorf("load vehicles for %s: %w", planDate, err)
	}

	res := r.opt.Optimize(ctx, stops, vehicles, opts)

	if err := r.sink.SaveResult(ctx, planDate, res); err != nil {
		return nil, fmt.Errorf("save result for %s: %w", planDate, err)
	}
	r.log.Info("planning run finished",
		zap.String("plan_date", planDate),
		zap.String("run_id", res.RunID),
		zap.Bool("success", res.Success),
		zap.Int("unassigned", len(res.Unassigned)),
	)
	return res, nil
}

// RunMany plans several dates concurrently. Each date's solve owns its own
// matrices and search space, so runs do not share mutable state.
func (r *Runner) RunMany(ctx context.Context, planDates []string, opts solver.Options) (map[string]*model.OptimizationResult, error) {
	results := make([]*model.OptimizationResult, len(planDates))
	g, ctx := errgroup.WithContext(ctx)
	for i, date := range planDates {
		i, date := i, date
		g.Go(func() error {
			res, err := r.Run(ctx, date, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(map[string]*model.OptimizationResult, len(planDates))
	for i, date := range planDates {
		out[date] = results[i]
	}
	return out, nil
}
