package solver

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/time/rate"
)

// maxStallRounds bounds how many penalty rounds may pass without a new
// incumbent before the search concludes no further improvement is in reach.
const maxStallRounds = 50

// clockProbeInterval is how many candidate evaluations pass between clock
// reads in the hot loops.
const clockProbeInterval = 256

// solveClock latches once the wall-clock deadline or the context expires.
// Construction and every neighborhood scan probe it so a solve hands back
// whatever it has instead of running a large instance to completion.
type solveClock struct {
	ctx      context.Context
	deadline time.Time
	probes   int
	done     bool
}

func newSolveClock(ctx context.Context, deadline time.Time) *solveClock {
	return &solveClock{ctx: ctx, deadline: deadline}
}

func (c *solveClock) expired() bool {
	if c.done {
		return true
	}
	if !time.Now().Before(c.deadline) || c.ctx.Err() != nil {
		c.done = true
	}
	return c.done
}

// tick amortizes the time check over clockProbeInterval calls.
func (c *solveClock) tick() bool {
	if c.done {
		return true
	}
	c.probes++
	if c.probes%clockProbeInterval != 0 {
		return false
	}
	return c.expired()
}

type arc struct{ from, to int }

func (sp *space) routeDistance(order []int) int64 {
	if len(order) == 0 {
		return 0
	}
	total := sp.dist[0][order[0]]
	for k := 1; k < len(order); k++ {
		total += sp.dist[order[k-1]][order[k]]
	}
	return total + sp.dist[order[len(order)-1]][0]
}

// trueCost is the real objective: total arc distance, the fixed penalty per
// unassigned stop, and (when balancing) the route-distance span across the
// fleet, empty vehicles included.
func (sp *space) trueCost(s *solution) int64 {
	var total int64
	minD := int64(math.MaxInt64)
	maxD := int64(0)
	for _, r := range s.routes {
		d := sp.routeDistance(r)
		total += d
		if d < minD {
			minD = d
		}
		if d > maxD {
			maxD = d
		}
	}
	cost := total + int64(len(s.unassigned))*sp.cfg.UnassignedPenalty
	if sp.balance && len(s.routes) > 0 {
		cost += sp.cfg.SpanCostCoefficient * (maxD - minD)
	}
	return cost
}

// augCost adds the guided-local-search term: lambda times the accumulated
// penalties of the arcs the solution uses.
func (sp *space) augCost(s *solution, pen map[arc]int64, lambda int64) int64 {
	c := sp.trueCost(s)
	if lambda == 0 || len(pen) == 0 {
		return c
	}
	var p int64
	for _, r := range s.routes {
		prev := 0
		for _, idx := range r {
			p += pen[arc{prev, idx}]
			prev = idx
		}
		if len(r) > 0 {
			p += pen[arc{prev, 0}]
		}
	}
	return c + lambda*p
}

// search improves the constructed assignment until the deadline, the context,
// or a stall ends it, returning the best solution seen by true cost.
func (sp *space) search(clk *solveClock, s *solution, st *SearchStats) *solution {
	best := s.clone()
	bestCost := sp.trueCost(best)
	st.BestCost = bestCost
	pen := make(map[arc]int64)
	var lambda int64
	limiter := rate.NewLimiter(rate.Every(200*time.Millisecond), 1)
	started := time.Now()
	stall := 0

	for stall < maxStallRounds && !clk.expired() {
		st.Iterations++
		if sp.improveStep(s, pen, lambda, clk) {
			if c := sp.trueCost(s); c < bestCost {
				best = s.clone()
				bestCost = c
				st.Improvements++
				st.BestCost = bestCost
				stall = 0
				if limiter.Allow() {
					st.Snapshots = append(st.Snapshots, Snapshot{
						Iteration: st.Iterations,
						Cost:      bestCost,
						Elapsed:   time.Since(started),
					})
				}
			}
			continue
		}
		if clk.expired() {
			break
		}
		// Local optimum on the augmented objective: penalize the most
		// profitable arcs currently in use and keep going.
		if lambda == 0 {
			lambda = sp.glsLambda(s)
		}
		if !sp.penalize(s, pen) {
			break
		}
		st.PenaltyRounds++
		stall++
	}
	return best
}

// glsLambda scales arc penalties to a tenth of the mean used-arc length.
func (sp *space) glsLambda(s *solution) int64 {
	var total int64
	arcs := 0
	for _, r := range s.routes {
		if len(r) == 0 {
			continue
		}
		total += sp.routeDistance(r)
		arcs += len(r) + 1
	}
	if arcs == 0 {
		return 1
	}
	l := total / int64(arcs) / 10
	if l < 1 {
		l = 1
	}
	return l
}

// penalize bumps the penalty of every used arc attaining the maximum utility
// length/(1+penalty). Reports whether any arc was available to penalize.
func (sp *space) penalize(s *solution, pen map[arc]int64) bool {
	var chosen []arc
	maxU := -1.0
	visit := func(a arc) {
		u := float64(sp.dist[a.from][a.to]) / float64(1+pen[a])
		switch {
		case u > maxU:
			maxU = u
			chosen = append(chosen[:0], a)
		case u == maxU:
			chosen = append(chosen, a)
		}
	}
	for _, r := range s.routes {
		prev := 0
		for _, idx := range r {
			visit(arc{prev, idx})
			prev = idx
		}
		if len(r) > 0 {
			visit(arc{prev, 0})
		}
	}
	if len(chosen) == 0 {
		return false
	}
	for _, a := range chosen {
		pen[a]++
	}
	return true
}

// improveStep applies the first move that lowers the augmented cost while
// keeping every dimension feasible. Neighborhoods, in order: reinsertion of
// unassigned stops, relocation, inter-route exchange, intra-route 2-opt, and
// dropping a stop against its penalty. A tripped clock ends the scan early
// with no move.
func (sp *space) improveStep(s *solution, pen map[arc]int64, lambda int64, clk *solveClock) bool {
	base := sp.augCost(s, pen, lambda)

	accept := func(cand *solution) bool {
		if sp.augCost(cand, pen, lambda) >= base {
			return false
		}
		*s = *cand
		return true
	}

	// Reinsert unassigned stops at any feasible position.
	for _, idx := range sortedKeys(s.unassigned) {
		for vi := range s.routes {
			for pos := 0; pos <= len(s.routes[vi]); pos++ {
				if clk.tick() {
					return false
				}
				order := insertAt(s.routes[vi], idx, pos)
				if !sp.walkRoute(order, vi) {
					continue
				}
				cand := s.clone()
				cand.routes[vi] = order
				delete(cand.unassigned, idx)
				if accept(cand) {
					return true
				}
			}
		}
	}

	// Relocate one stop to another position, same or different vehicle.
	for a := range s.routes {
		for i := 0; i < len(s.routes[a]); i++ {
			idx := s.routes[a][i]
			removed := removeAt(s.routes[a], i)
			for b := range s.routes {
				src := removed
				if b != a {
					src = s.routes[b]
				}
				for pos := 0; pos <= len(src); pos++ {
					if clk.tick() {
						return false
					}
					if b == a && (pos == i) {
						continue
					}
					order := insertAt(src, idx, pos)
					if !sp.walkRoute(order, b) {
						continue
					}
					if b != a && !sp.walkRoute(removed, a) {
						break
					}
					cand := s.clone()
					if b == a {
						cand.routes[a] = order
					} else {
						cand.routes[a] = append([]int(nil), removed...)
						cand.routes[b] = order
					}
					if accept(cand) {
						return true
					}
				}
			}
		}
	}

	// Exchange a pair of stops between two vehicles.
	for a := 0; a < len(s.routes); a++ {
		for b := a + 1; b < len(s.routes); b++ {
			for i := 0; i < len(s.routes[a]); i++ {
				for j := 0; j < len(s.routes[b]); j++ {
					if clk.tick() {
						return false
					}
					ra := append([]int(nil), s.routes[a]...)
					rb := append([]int(nil), s.routes[b]...)
					ra[i], rb[j] = rb[j], ra[i]
					if !sp.walkRoute(ra, a) || !sp.walkRoute(rb, b) {
						continue
					}
					cand := s.clone()
					cand.routes[a] = ra
					cand.routes[b] = rb
					if accept(cand) {
						return true
					}
				}
			}
		}
	}

	// 2-opt: reverse a segment within one route.
	for vi := range s.routes {
		n := len(s.routes[vi])
		for i := 0; i < n-1; i++ {
			for k := i + 1; k < n; k++ {
				if clk.tick() {
					return false
				}
				order := append([]int(nil), s.routes[vi]...)
				for x, y := i, k; x < y; x, y = x+1, y-1 {
					order[x], order[y] = order[y], order[x]
				}
				if !sp.walkRoute(order, vi) {
					continue
				}
				cand := s.clone()
				cand.routes[vi] = order
				if accept(cand) {
					return true
				}
			}
		}
	}

	// Drop a stop, trading its arcs for the unassigned penalty.
	for vi := range s.routes {
		for i := 0; i < len(s.routes[vi]); i++ {
			if clk.tick() {
				return false
			}
			order := removeAt(s.routes[vi], i)
			if !sp.walkRoute(order, vi) {
				continue
			}
			cand := s.clone()
			idx := s.routes[vi][i]
			cand.routes[vi] = order
			cand.unassigned[idx] = true
			if accept(cand) {
				return true
			}
		}
	}

	return false
}

func insertAt(order []int, idx, pos int) []int {
	out := make([]int, 0, len(order)+1)
	out = append(out, order[:pos]...)
	out = append(out, idx)
	return append(out, order[pos:]...)
}

func removeAt(order []int, i int) []int {
	out := make([]int, 0, len(order)-1)
	out = append(out, order[:i]...)
	return append(out, order[i+1:]...)
}

func sortedKeys(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
