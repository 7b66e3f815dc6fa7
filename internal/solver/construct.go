package solver

// solution is a working assignment: per-vehicle stop index orders (depot
// excluded, it anchors both ends implicitly) and the set of unserved stops.
type solution struct {
	routes     [][]int
	unassigned map[int]bool
}

func (s *solution) clone() *solution {
	out := &solution{
		routes:     make([][]int, len(s.routes)),
		unassigned: make(map[int]bool, len(s.unassigned)),
	}
	for i, r := range s.routes {
		out.routes[i] = append([]int(nil), r...)
	}
	for idx := range s.unassigned {
		out.unassigned[idx] = true
	}
	return out
}

func (s *solution) assigned() int {
	n := 0
	for _, r := range s.routes {
		n += len(r)
	}
	return n
}

// construct builds the initial assignment with a path-cheapest-arc rule:
// vehicles take turns extending their path by the feasible next arc of lowest
// incremental cost. Stops no vehicle can take stay unassigned. A tripped
// clock returns whatever partial assignment exists at that point.
func (sp *space) construct(clk *solveClock) *solution {
	n := len(sp.stops)
	s := &solution{
		routes:     make([][]int, len(sp.vehicles)),
		unassigned: make(map[int]bool, n),
	}
	for i := 1; i < n; i++ {
		s.unassigned[i] = true
	}

	for len(s.unassigned) > 0 {
		progress := false
		for vi := range sp.vehicles {
			last := 0
			if len(s.routes[vi]) > 0 {
				last = s.routes[vi][len(s.routes[vi])-1]
			}
			bestIdx := -1
			var bestArc int64
			for idx := 1; idx < n; idx++ {
				if !s.unassigned[idx] {
					continue
				}
				if clk.tick() {
					return s
				}
				arc := sp.dist[last][idx]
				if bestIdx >= 0 && arc >= bestArc {
					continue
				}
				cand := append(append([]int(nil), s.routes[vi]...), idx)
				if !sp.walkRoute(cand, vi) {
					continue
				}
				bestIdx = idx
				bestArc = arc
			}
			if bestIdx >= 0 {
				s.routes[vi] = append(s.routes[vi], bestIdx)
				delete(s.unassigned, bestIdx)
				progress = true
			}
		}
		if !progress {
			break
		}
	}
	return s
}
