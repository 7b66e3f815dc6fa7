package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routeopt/internal/config"
	"routeopt/internal/model"
)

func testSpace(t *testing.T, stops []model.Stop, vehicles []model.Vehicle, useTW bool) *space {
	t.Helper()
	require.NoError(t, model.Validate(stops, vehicles))
	return newSpace(stops, vehicles, 30, config.Default(), useTW, false)
}

func testClock() *solveClock {
	return newSolveClock(context.Background(), time.Now().Add(time.Minute))
}

func TestWalkRouteCapacityBound(t *testing.T) {
	depot := depotAt(0, 0)
	stops := []model.Stop{
		depot,
		{ID: "a", Lat: 0.01, Lon: 0, Demand: 2},
		{ID: "b", Lat: 0.02, Lon: 0, Demand: 2},
	}
	vehicles := []model.Vehicle{{ID: "v1", Capacity: 3, Start: depot}}
	sp := testSpace(t, stops, vehicles, false)

	assert.True(t, sp.walkRoute([]int{1}, 0))
	assert.True(t, sp.walkRoute([]int{2}, 0))
	assert.False(t, sp.walkRoute([]int{1, 2}, 0), "5 demand units exceed capacity 3")
}

func TestWalkRouteTimeWindows(t *testing.T) {
	depot := depotAt(0, 0)
	stops := []model.Stop{
		depot,
		// 222 travel minutes from the depot at 30 km/h.
		{ID: "a", Lat: 0, Lon: 1, Demand: 1, TimeWindowStart: intPtr(240), TimeWindowEnd: intPtr(300)},
		{ID: "b", Lat: 0, Lon: 1.001, Demand: 1, TimeWindowStart: intPtr(0), TimeWindowEnd: intPtr(100)},
		{ID: "c", Lat: 0, Lon: 1.002, Demand: 1},
		{ID: "d", Lat: 0, Lon: 1.003, Demand: 1, TimeWindowStart: intPtr(260), TimeWindowEnd: intPtr(300)},
	}
	vehicles := []model.Vehicle{{ID: "v1", Capacity: 10, Start: depot}}
	sp := testSpace(t, stops, vehicles, true)

	assert.True(t, sp.walkRoute([]int{1}, 0), "18 minute wait fits the slack")
	assert.False(t, sp.walkRoute([]int{2}, 0), "arrival after the window closes")
	assert.True(t, sp.walkRoute([]int{3}, 0), "stop without a window is unconstrained")
	assert.False(t, sp.walkRoute([]int{4}, 0), "waiting beyond the slack is infeasible")
}

func TestWalkRouteTimeCeiling(t *testing.T) {
	depot := depotAt(0, 0)
	stops := []model.Stop{
		depot,
		// ~8 degrees out: roughly 1779 travel minutes each way at 30 km/h.
		{ID: "far", Lat: 0, Lon: 8, Demand: 1},
	}
	vehicles := []model.Vehicle{{ID: "v1", Capacity: 10, Start: depot}}
	sp := testSpace(t, stops, vehicles, true)

	assert.False(t, sp.walkRoute([]int{1}, 0), "exceeds the 24h route ceiling")
}

func TestWalkRouteDistanceCeiling(t *testing.T) {
	depot := depotAt(0, 0)
	stops := []model.Stop{
		depot,
		// ~111 km out, so the round trip is roughly 222 km.
		{ID: "far", Lat: 0, Lon: 1, Demand: 1},
	}
	vehicles := []model.Vehicle{{ID: "v1", Capacity: 10, Start: depot}}
	require.NoError(t, model.Validate(stops, vehicles))

	cfg := config.Default()
	cfg.MaxRouteDistanceMeters = 200_000
	sp := newSpace(stops, vehicles, 30, cfg, false, false)
	assert.False(t, sp.walkRoute([]int{1}, 0), "round trip exceeds the distance ceiling")

	cfg.MaxRouteDistanceMeters = 250_000
	sp = newSpace(stops, vehicles, 30, cfg, false, false)
	assert.True(t, sp.walkRoute([]int{1}, 0), "ceiling above the round trip admits the route")
}

func TestWalkRouteWithoutTimeDimension(t *testing.T) {
	depot := depotAt(0, 0)
	stops := []model.Stop{
		depot,
		{ID: "far", Lat: 0, Lon: 8, Demand: 1, TimeWindowStart: intPtr(0), TimeWindowEnd: intPtr(10)},
	}
	vehicles := []model.Vehicle{{ID: "v1", Capacity: 10, Start: depot}}
	sp := testSpace(t, stops, vehicles, false)

	assert.True(t, sp.walkRoute([]int{1}, 0), "windows are ignored unless requested")
	assert.Len(t, sp.dims, 2, "distance and capacity only")
}

func TestConstructPathCheapestArc(t *testing.T) {
	depot := depotAt(0, 0)
	stops := []model.Stop{
		depot,
		{ID: "near", Lat: 0, Lon: 0.01, Demand: 1},
		{ID: "mid", Lat: 0, Lon: 0.02, Demand: 1},
		{ID: "far", Lat: 0, Lon: 0.03, Demand: 1},
	}
	vehicles := []model.Vehicle{{ID: "v1", Capacity: 10, Start: depot}}
	sp := testSpace(t, stops, vehicles, false)

	s := sp.construct(testClock())
	assert.Equal(t, [][]int{{1, 2, 3}}, s.routes, "extends by the cheapest next arc")
	assert.Empty(t, s.unassigned)
}

func TestConstructLeavesInfeasibleStopsUnassigned(t *testing.T) {
	depot := depotAt(0, 0)
	stops := []model.Stop{
		depot,
		{ID: "a", Lat: 0, Lon: 0.01, Demand: 1},
		{ID: "heavy", Lat: 0, Lon: 0.02, Demand: 9},
	}
	vehicles := []model.Vehicle{{ID: "v1", Capacity: 1, Start: depot}}
	sp := testSpace(t, stops, vehicles, false)

	s := sp.construct(testClock())
	assert.Equal(t, [][]int{{1}}, s.routes)
	assert.True(t, s.unassigned[2])
	assert.Equal(t, 1, s.assigned())
}

func TestTrueCostUnassignedPenalty(t *testing.T) {
	depot := depotAt(0, 0)
	stops := []model.Stop{
		depot,
		{ID: "a", Lat: 0, Lon: 0.01, Demand: 1},
		{ID: "b", Lat: 0, Lon: 0.02, Demand: 1},
	}
	vehicles := []model.Vehicle{{ID: "v1", Capacity: 10, Start: depot}}
	sp := testSpace(t, stops, vehicles, false)

	full := &solution{routes: [][]int{{1, 2}}, unassigned: map[int]bool{}}
	dropped := &solution{routes: [][]int{{1}}, unassigned: map[int]bool{2: true}}
	assert.Equal(t, sp.trueCost(full)+sp.cfg.UnassignedPenalty-sp.routeDistance([]int{1, 2})+sp.routeDistance([]int{1}),
		sp.trueCost(dropped))
	assert.Less(t, sp.trueCost(full), sp.trueCost(dropped), "penalty dominates the saved arcs")
}

func TestTrueCostSpan(t *testing.T) {
	depot := depotAt(0, 0)
	stops := []model.Stop{
		depot,
		{ID: "a", Lat: 0, Lon: 0.01, Demand: 1},
		{ID: "b", Lat: 0, Lon: -0.01, Demand: 1},
	}
	vehicles := []model.Vehicle{
		{ID: "v1", Capacity: 10, Start: depot},
		{ID: "v2", Capacity: 10, Start: depot},
	}
	sp := testSpace(t, stops, vehicles, false)
	sp.balance = true

	lopsided := &solution{routes: [][]int{{1, 2}, {}}, unassigned: map[int]bool{}}
	split := &solution{routes: [][]int{{1}, {2}}, unassigned: map[int]bool{}}
	assert.Less(t, sp.trueCost(split), sp.trueCost(lopsided),
		"span cost favors similarly loaded vehicles")
}
