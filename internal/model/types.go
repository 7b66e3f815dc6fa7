package model

import (
	"errors"
	"fmt"
)

// Stop is a delivery location. The stop at index 0 of a problem's stop list
// is the depot: demand 0, service time 0, every vehicle starts and ends there.
// Time-window bounds are minutes since start of day; both are set or neither.
type Stop struct {
	ID                 string  `json:"id"`
	Lat                float64 `json:"lat"`
	Lon                float64 `json:"lon"`
	Demand             int     `json:"demand"`
	ServiceTimeMinutes int     `json:"serviceTimeMinutes"`
	TimeWindowStart    *int    `json:"timeWindowStart,omitempty"`
	TimeWindowEnd      *int    `json:"timeWindowEnd,omitempty"`
}

// HasTimeWindow reports whether both window bounds are present.
func (s Stop) HasTimeWindow() bool {
	return s.TimeWindowStart != nil && s.TimeWindowEnd != nil
}

// Vehicle is a capacity-limited member of the fleet. Start is the depot; End,
// when nil, means the vehicle returns to its start.
type Vehicle struct {
	ID       string `json:"id"`
	Capacity int    `json:"capacity"`
	Start    Stop   `json:"start"`
	End      *Stop  `json:"end,omitempty"`
}

// RouteStop is one visited node on an output route.
type RouteStop struct {
	StopID                string  `json:"stopId"`
	Sequence              int     `json:"sequence"`
	Lat                   float64 `json:"lat"`
	Lon                   float64 `json:"lon"`
	ArrivalTimeMinutes    int     `json:"arrivalTimeMinutes"`
	DepartureTimeMinutes  int     `json:"departureTimeMinutes"`
	CumulativeDistanceKm  float64 `json:"cumulativeDistanceKm"`
	CumulativeTimeMinutes int     `json:"cumulativeTimeMinutes"`
}

// VehicleRoute is the ordered visiting plan for one vehicle, depot to depot.
type VehicleRoute struct {
	VehicleID        string      `json:"vehicleId"`
	Stops            []RouteStop `json:"stops"`
	TotalDistanceKm  float64     `json:"totalDistanceKm"`
	TotalTimeMinutes int         `json:"totalTimeMinutes"`
	TotalDemand      int         `json:"totalDemand"`
	LoadPercentage   float64     `json:"loadPercentage"`
}

// OptimizationResult is the outcome of one solve. All failure modes are
// carried here as data; a solve never aborts the caller.
type OptimizationResult struct {
	RunID            string         `json:"runId"`
	Success          bool           `json:"success"`
	Routes           []VehicleRoute `json:"routes"`
	Unassigned       []string       `json:"unassigned"`
	TotalDistanceKm  float64        `json:"totalDistanceKm"`
	TotalTimeMinutes int            `json:"totalTimeMinutes"`
	SolveTimeMs      int64          `json:"solveTimeMs"`
	Error            string         `json:"error,omitempty"`
}

// Partial reports whether the solve succeeded but left stops unserved.
func (r OptimizationResult) Partial() bool {
	return r.Success && len(r.Unassigned) > 0
}

var (
	ErrNoStops    = errors.New("no stops provided")
	ErrNoVehicles = errors.New("no vehicles provided")
)

// Validate checks the input contract: a non-empty stop list whose first entry
// is a zero-demand depot, and a non-empty fleet anchored at that depot.
func Validate(stops []Stop, vehicles []Vehicle) error {
	if len(stops) == 0 {
		return ErrNoStops
	}
	if len(vehicles) == 0 {
		return ErrNoVehicles
	}
	depot := stops[0]
	if depot.Demand != 0 {
		return fmt.Errorf("depot %q must have zero demand, got %d", depot.ID, depot.Demand)
	}
	if depot.ServiceTimeMinutes != 0 {
		return fmt.Errorf("depot %q must have zero service time, got %d", depot.ID, depot.ServiceTimeMinutes)
	}
	seen := make(map[string]bool, len(stops))
	for _, s := range stops {
		if seen[s.ID] {
			return fmt.Errorf("duplicate stop id %q", s.ID)
		}
		seen[s.ID] = true
		if s.Demand < 0 {
			return fmt.Errorf("stop %q has negative demand", s.ID)
		}
		if (s.TimeWindowStart == nil) != (s.TimeWindowEnd == nil) {
			return fmt.Errorf("stop %q has a partial time window", s.ID)
		}
		if s.HasTimeWindow() && *s.TimeWindowStart > *s.TimeWindowEnd {
			return fmt.Errorf("stop %q time window start %d after end %d", s.ID, *s.TimeWindowStart, *s.TimeWindowEnd)
		}
	}
	for _, v := range vehicles {
		if v.Capacity < 0 {
			return fmt.Errorf("vehicle %q has negative capacity", v.ID)
		}
		if v.Start.Lat != depot.Lat || v.Start.Lon != depot.Lon {
			return fmt.Errorf("vehicle %q start does not match depot coordinates", v.ID)
		}
		if v.End != nil && (v.End.Lat != depot.Lat || v.End.Lon != depot.Lon) {
			return fmt.Errorf("vehicle %q end does not match depot coordinates", v.ID)
		}
	}
	return nil
}
