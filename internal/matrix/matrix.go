// Package matrix derives the all-pairs travel matrices a solve runs on.
// Matrices are rebuilt for every solve; inputs vary per run and nothing is
// cached across calls.
package matrix

import (
	"routeopt/internal/geo"
	"routeopt/internal/model"
)

// BuildDistance returns an N×N matrix of pairwise great-circle distances in
// whole meters (truncated toward zero). The diagonal is zero.
func BuildDistance(stops []model.Stop) [][]int64 {
	n := len(stops)
	m := make([][]int64, n)
	for i := range m {
		m[i] = make([]int64, n)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			m[i][j] = int64(geo.DistanceMeters(stops[i].Lat, stops[i].Lon, stops[j].Lat, stops[j].Lon))
		}
	}
	return m
}

// BuildTime derives an N×N travel-time matrix in whole minutes from a
// distance matrix in meters and an average speed in km/h.
func BuildTime(dist [][]int64, avgSpeedKmh float64) [][]int64 {
	n := len(dist)
	speedMPerMin := avgSpeedKmh * 1000 / 60
	m := make([][]int64, n)
	for i := range m {
		m[i] = make([]int64, n)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			m[i][j] = int64(float64(dist[i][j]) / speedMPerMin)
		}
	}
	return m
}
