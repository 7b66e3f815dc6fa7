package solver

import "routeopt/internal/model"

// extract renders the final assignment: one VehicleRoute per vehicle that
// visits at least one stop (depot emitted at both ends), the unassigned stop
// ids, and aggregate totals summed over the emitted routes.
func (sp *space) extract(s *solution) *model.OptimizationResult {
	res := &model.OptimizationResult{Success: true}

	for vi, order := range s.routes {
		if len(order) == 0 {
			continue
		}
		veh := sp.vehicles[vi]
		route := model.VehicleRoute{VehicleID: veh.ID}

		var cumDist int64
		var arrival int64
		prev := 0
		path := make([]int, 0, len(order)+2)
		path = append(path, 0)
		path = append(path, order...)
		path = append(path, 0)

		for seq, node := range path {
			if seq > 0 {
				cumDist += sp.dist[prev][node]
				arrival += int64(sp.stops[prev].ServiceTimeMinutes) + sp.travel[prev][node]
				if sp.useTime && sp.stops[node].HasTimeWindow() {
					if ws := int64(*sp.stops[node].TimeWindowStart); arrival < ws {
						arrival = ws // wait for the window to open
					}
				}
			}
			stop := sp.stops[node]
			route.Stops = append(route.Stops, model.RouteStop{
				StopID:                stop.ID,
				Sequence:              seq,
				Lat:                   stop.Lat,
				Lon:                   stop.Lon,
				ArrivalTimeMinutes:    int(arrival),
				DepartureTimeMinutes:  int(arrival) + stop.ServiceTimeMinutes,
				CumulativeDistanceKm:  float64(cumDist) / 1000,
				CumulativeTimeMinutes: int(arrival),
			})
			if node != 0 {
				route.TotalDemand += stop.Demand
			}
			prev = node
		}

		route.TotalDistanceKm = float64(cumDist) / 1000
		route.TotalTimeMinutes = int(arrival)
		if veh.Capacity > 0 {
			route.LoadPercentage = float64(route.TotalDemand) / float64(veh.Capacity) * 100
		}
		res.Routes = append(res.Routes, route)
		res.TotalDistanceKm += route.TotalDistanceKm
		res.TotalTimeMinutes += route.TotalTimeMinutes
	}

	for idx := 1; idx < len(sp.stops); idx++ {
		if s.unassigned[idx] {
			res.Unassigned = append(res.Unassigned, sp.stops[idx].ID)
		}
	}
	return res
}
