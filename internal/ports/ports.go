// Package ports is the interface boundary to the collaborators that surround
// the optimizer: producers of stops and vehicles (ingestion, geocoding) and
// consumers of results (persistence, reporting). The engine depends on these
// shapes only; implementations live outside this module.
package ports

import (
	"context"

	"routeopt/internal/model"
)

// ProblemSource supplies the inputs for one planning run. The stop list is
// ordered with the depot at index 0.
type ProblemSource interface {
	Stops(ctx context.Context, planDate string) ([]model.Stop, error)
	Vehicles(ctx context.Context, planDate string) ([]model.Vehicle, error)
}

// ResultSink receives a finished result. Implementations map stop ids back to
// their domain identifiers and record route and stop rows.
type ResultSink interface {
	SaveResult(ctx context.Context, planDate string, res *model.OptimizationResult) error
}
