package solver

import (
	"routeopt/internal/config"
	"routeopt/internal/matrix"
	"routeopt/internal/model"
)

// bounds constrain a dimension's cumulative value at one node.
type bounds struct{ min, max int64 }

// dimension is a named quantity accumulated along a vehicle's path: an arc
// transit cost, a per-vehicle ceiling, optional waiting slack before a node's
// lower bound, and optional per-node cumulative bounds. All dimensions are
// evaluated uniformly by walkRoute.
type dimension struct {
	name     string
	transit  func(from, to int) int64
	slackMax int64
	capacity func(vehicle int) int64
	bounds   map[int]bounds
}

const (
	dimDistance = "distance"
	dimCapacity = "capacity"
	dimTime     = "time"
)

// space is the search space of one solve: the stop list (depot at index 0),
// the fleet, the travel matrices, and the attached dimensions. Each solve owns
// its space exclusively; nothing is shared across calls.
type space struct {
	stops    []model.Stop
	vehicles []model.Vehicle
	dist     [][]int64
	travel   [][]int64
	dims     []dimension
	cfg      config.Config
	balance  bool
	useTime  bool
}

func newSpace(stops []model.Stop, vehicles []model.Vehicle, speedKmh float64, cfg config.Config, useTimeWindows, balance bool) *space {
	dist := matrix.BuildDistance(stops)
	travel := matrix.BuildTime(dist, speedKmh)
	sp := &space{
		stops:    stops,
		vehicles: vehicles,
		dist:     dist,
		travel:   travel,
		cfg:      cfg,
		balance:  balance,
		useTime:  useTimeWindows,
	}

	sp.dims = append(sp.dims, dimension{
		name:     dimDistance,
		transit:  func(from, to int) int64 { return dist[from][to] },
		capacity: func(int) int64 { return cfg.MaxRouteDistanceMeters },
	})

	// Unary transit: the destination stop's demand, depot contributing zero.
	// Exceeding a vehicle's capacity is infeasible, never merely penalized.
	sp.dims = append(sp.dims, dimension{
		name: dimCapacity,
		transit: func(_, to int) int64 {
			if to == 0 {
				return 0
			}
			return int64(stops[to].Demand)
		},
		capacity: func(v int) int64 { return int64(vehicles[v].Capacity) },
	})

	if useTimeWindows {
		tb := make(map[int]bounds)
		for i, s := range stops {
			if i == 0 || !s.HasTimeWindow() {
				continue
			}
			tb[i] = bounds{min: int64(*s.TimeWindowStart), max: int64(*s.TimeWindowEnd)}
		}
		sp.dims = append(sp.dims, dimension{
			name: dimTime,
			transit: func(from, to int) int64 {
				t := travel[from][to]
				if from != 0 {
					t += int64(stops[from].ServiceTimeMinutes)
				}
				return t
			},
			slackMax: cfg.TimeSlackMinutes,
			capacity: func(int) int64 { return cfg.MaxRouteTimeMinutes },
			bounds:   tb,
		})
	}
	return sp
}

// walkRoute accumulates every dimension along depot -> order... -> depot for
// the given vehicle. A node's lower bound may be met by waiting up to the
// dimension's slack; exceeding an upper bound or the vehicle ceiling fails.
func (sp *space) walkRoute(order []int, vehicle int) bool {
	for d := range sp.dims {
		dim := &sp.dims[d]
		limit := dim.capacity(vehicle)
		cum := int64(0)
		prev := 0
		for k := 0; k <= len(order); k++ {
			node := 0
			if k < len(order) {
				node = order[k]
			}
			cum += dim.transit(prev, node)
			if b, ok := dim.bounds[node]; ok {
				if cum < b.min {
					if b.min-cum > dim.slackMax {
						return false
					}
					cum = b.min
				}
				if cum > b.max {
					return false
				}
			}
			if cum > limit {
				return false
			}
			prev = node
		}
	}
	return true
}
