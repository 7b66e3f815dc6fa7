package solver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"routeopt/internal/model"
)

// Problem groups the inputs of one independent solve, e.g. one planning date.
type Problem struct {
	Stops    []model.Stop
	Vehicles []model.Vehicle
	Options  Options
}

// OptimizeBatch runs independent solves concurrently, one isolated search
// space per problem. Results are positional; failed solves carry their error
// on the result like single solves do.
func (o *Optimizer) OptimizeBatch(ctx context.Context, problems []Problem) []*model.OptimizationResult {
	results := make([]*model.OptimizationResult, len(problems))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range problems {
		i, p := i, p
		g.Go(func() error {
			results[i] = o.Optimize(ctx, p.Stops, p.Vehicles, p.Options)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
