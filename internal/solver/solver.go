// Package solver is the route-optimization engine: it assembles the search
// space for one CVRPTW instance, runs a time-bounded construct-then-improve
// search, and renders the best assignment found at the deadline. Stops the
// fleet cannot fit are dropped against a penalty instead of failing the solve.
package solver

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"routeopt/internal/config"
	"routeopt/internal/model"
)

// Options are the per-solve flags. Zero values fall back to the configured
// defaults.
type Options struct {
	UseTimeWindows      bool
	BalanceRoutes       bool
	MaxSolveTimeSeconds int
	AvgSpeedKmh         float64
}

// Optimizer solves routing instances. It is safe for concurrent use: every
// Optimize call owns its matrices and search space exclusively.
type Optimizer struct {
	cfg config.Config
	log *zap.Logger
}

func New(cfg config.Config, logger *zap.Logger) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{cfg: cfg, log: logger}
}

// Optimize assigns stops (depot at index 0) to the fleet. Every failure mode
// is returned as data on the result; the method never panics on bad input and
// never blocks past the solve deadline.
func (o *Optimizer) Optimize(ctx context.Context, stops []model.Stop, vehicles []model.Vehicle, opts Options) *model.OptimizationResult {
	start := time.Now()
	runID := uuid.NewString()

	fail := func(status, msg string) *model.OptimizationResult {
		Solves.WithLabelValues(status).Inc()
		o.log.Warn("optimization failed",
			zap.String("run_id", runID),
			zap.String("status", status),
			zap.String("error", msg),
		)
		return &model.OptimizationResult{
			RunID:       runID,
			Success:     false,
			Error:       msg,
			SolveTimeMs: time.Since(start).Milliseconds(),
		}
	}

	if err := model.Validate(stops, vehicles); err != nil {
		return fail("input_error", err.Error())
	}

	speed := o.cfg.AvgSpeedKmh
	if opts.AvgSpeedKmh > 0 {
		speed = opts.AvgSpeedKmh
	}
	budget := time.Duration(o.cfg.MaxSolveTimeSeconds) * time.Second
	if opts.MaxSolveTimeSeconds > 0 {
		budget = time.Duration(opts.MaxSolveTimeSeconds) * time.Second
	}
	deadline := start.Add(budget)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	o.log.Info("optimizing routes",
		zap.String("run_id", runID),
		zap.Int("stops", len(stops)),
		zap.Int("vehicles", len(vehicles)),
		zap.Bool("time_windows", opts.UseTimeWindows),
		zap.Bool("balance", opts.BalanceRoutes),
		zap.Duration("budget", budget),
	)

	sp := newSpace(stops, vehicles, speed, o.cfg, opts.UseTimeWindows, opts.BalanceRoutes)

	clk := newSolveClock(ctx, deadline)

	sol := sp.construct(clk)
	// An empty assignment only means infeasibility when construction ran to
	// completion; a solve cut short by the clock is reported as-is.
	if sol.assigned() == 0 && len(stops) > 1 && !clk.expired() {
		return fail("infeasible", "no feasible solution found")
	}

	st := &SearchStats{}
	sol = sp.search(clk, sol, st)
	recordStats(runID, *st)

	res := sp.extract(sol)
	res.RunID = runID
	res.SolveTimeMs = time.Since(start).Milliseconds()

	status := "ok"
	if len(res.Unassigned) > 0 {
		status = "partial"
	}
	Solves.WithLabelValues(status).Inc()
	SolveDuration.Observe(time.Since(start).Seconds())
	SearchIterations.Add(float64(st.Iterations))
	UnassignedStops.Observe(float64(len(res.Unassigned)))

	o.log.Info("optimization completed",
		zap.String("run_id", runID),
		zap.Int("routes", len(res.Routes)),
		zap.Int("unassigned", len(res.Unassigned)),
		zap.Int64("solve_time_ms", res.SolveTimeMs),
		zap.Int("iterations", st.Iterations),
	)
	return res
}
