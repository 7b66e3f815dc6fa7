package solver

import (
	"sync"
	"time"
)

// Snapshot captures the incumbent at one point of the search.
type Snapshot struct {
	Iteration int
	Cost      int64
	Elapsed   time.Duration
}

// SearchStats describes how one solve's search behaved.
type SearchStats struct {
	Iterations    int
	Improvements  int
	PenaltyRounds int
	BestCost      int64
	Snapshots     []Snapshot
}

var (
	statsMu sync.Mutex
	stats   = map[string]SearchStats{}
)

func recordStats(runID string, s SearchStats) {
	statsMu.Lock()
	stats[runID] = s
	statsMu.Unlock()
}

// StatsFor returns the search statistics recorded for a solve run, if any.
func StatsFor(runID string) (SearchStats, bool) {
	statsMu.Lock()
	defer statsMu.Unlock()
	s, ok := stats[runID]
	return s, ok
}
