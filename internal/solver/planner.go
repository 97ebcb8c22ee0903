package solver

import (
	"context"
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/GroveDG/gsolve/pkg/gsolve"
	"github.com/GroveDG/gsolve/pkg/gsolve/geo"
)

// Plan is one safe resolution order: points listed in the sequence the
// search assigns them, each with the constraints that pinned it down.
type Plan struct {
	Entries []PlanEntry
}

// PlanEntry records why a point became discrete. Curves holds the
// pairwise independent point- and curve-valued constraints credited to
// the point, Filters the region-valued ones. Seeded marks an orbiter
// held by a single curve: the search places it at a representative
// position on that curve instead of intersecting.
type PlanEntry struct {
	Point   int
	Curves  []int
	Filters []int
	Seeded  bool
}

// pair is a candidate gauge fix: orbit the unknown around the anchor it
// shares a curve-producing constraint with.
type pair struct {
	root    int
	orbiter int
}

// Planner enumerates the safe resolution orders of a compiled graph
// lazily, one Plan per Next call. The unseeded order is tried first;
// after that orders differ only in which orbiter breaks the rotational
// symmetry, so at most one plan is produced per distinct orbiter.
type Planner struct {
	g         *Graph
	pairs     []pair
	next      int
	base      bool
	emitted   map[int]bool
	unplanned []gsolve.Identifier
}

// NewPlanner prepares the (root, orbiter) pairs for the graph. Roots are
// anchors in declaration order; orbiters are unknowns reachable from the
// root through a point- or curve-valued constraint and pinned by enough
// independent constraints to ever become discrete.
func NewPlanner(g *Graph) *Planner {
	pl := &Planner{
		g:       g,
		base:    true,
		emitted: make(map[int]bool),
	}
	unknowns := g.Unknowns()
	for _, p := range unknowns {
		pl.unplanned = append(pl.unplanned, g.ids[p])
	}
	eligible := make(map[int]bool, len(unknowns))
	for _, p := range unknowns {
		eligible[p] = pl.eligible(p)
	}
	seen := make(map[pair]bool)
	for r := 0; r < g.Len(); r++ {
		if !g.anchors.Test(uint(r)) {
			continue
		}
		for _, c := range g.incident[r] {
			sub, ok := g.subject(c, g.anchors)
			if !ok || !eligible[sub] {
				continue
			}
			if g.cons[c].Dim(g.ids[sub]) == geo.Dim2 {
				continue
			}
			pr := pair{root: r, orbiter: sub}
			if seen[pr] {
				continue
			}
			seen[pr] = true
			pl.pairs = append(pl.pairs, pr)
		}
	}
	return pl
}

// eligible reports whether point p holds enough constraints to become
// discrete at all: one point-valued constraint, or two curve-valued ones
// that are not restatements of each other. Region-valued constraints
// only filter and never count. Seeding a point that fails this test
// could only ever produce a floating position.
func (pl *Planner) eligible(p int) bool {
	id := pl.g.ids[p]
	var curves []gsolve.Constraint
	for _, c := range pl.g.incident[p] {
		con := pl.g.cons[c]
		switch con.Dim(id) {
		case geo.Dim0:
			return true
		case geo.Dim1:
			dup := false
			for _, prev := range curves {
				if con.CoincidentWith(prev) {
					dup = true
					break
				}
			}
			if !dup {
				curves = append(curves, con)
			}
		}
	}
	return len(curves) >= 2
}

// Next returns the next safe resolution order, or nil when no further
// order exists. The first order tried grows from the anchors alone; it
// covers the graph only when point-valued constraints can carry the
// whole figure, and a fully anchored graph yields it as a single empty
// plan. Every later order seeds one orbiter to fix the gauge.
func (pl *Planner) Next(ctx context.Context) (*Plan, error) {
	if pl.base {
		pl.base = false
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", gsolve.ErrCancelled, err)
		}
		plan, uncovered := pl.explore(-1)
		if plan != nil {
			// Seeding the first naturally discrete point would replay
			// this exact plan.
			if len(plan.Entries) > 0 {
				pl.emitted[plan.Entries[0].Point] = true
			}
			return plan, nil
		}
		pl.stalled(uncovered)
	}
	for pl.next < len(pl.pairs) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", gsolve.ErrCancelled, err)
		}
		pr := pl.pairs[pl.next]
		pl.next++
		if pl.emitted[pr.orbiter] {
			continue
		}
		plan, uncovered := pl.explore(pr.orbiter)
		if plan != nil {
			pl.emitted[pr.orbiter] = true
			return plan, nil
		}
		pl.stalled(uncovered)
	}
	return nil, nil
}

// Unplanned returns the unknowns left out of the most complete ordering
// attempt, for reporting when no plan covers the whole graph.
func (pl *Planner) Unplanned() []gsolve.Identifier {
	return pl.unplanned
}

func (pl *Planner) stalled(uncovered []gsolve.Identifier) {
	if len(uncovered) < len(pl.unplanned) {
		pl.unplanned = uncovered
	}
}

// explore grows the known set out from the anchors, crediting each
// constraint to its subject the first time it becomes evaluable. A point
// joins the order once a point-valued constraint or two independent
// curve-valued constraints have been credited to it. With seed >= 0 that
// orbiter joins first on whatever is evaluable from the anchors alone,
// since its exact position along a single curve is arbitrary up to
// symmetry. Returns nil and the uncovered unknowns when the order stalls
// before covering the graph.
func (pl *Planner) explore(seed int) (*Plan, []gsolve.Identifier) {
	g := pl.g
	scan := scanState{
		g:        g,
		known:    g.anchors.Clone(),
		credited: make([]bool, len(g.cons)),
		state:    make([]credit, g.Len()),
	}

	if seed >= 0 {
		for _, c := range g.incident[seed] {
			sub, ok := g.subject(c, scan.known)
			if !ok || sub != seed {
				continue
			}
			scan.credited[c] = true
			scan.state[seed].add(g, c, seed)
		}
		st := &scan.state[seed]
		scan.entries = append(scan.entries, PlanEntry{
			Point:   seed,
			Curves:  st.curves,
			Filters: st.filters,
			Seeded:  st.zeros == 0 && len(st.curves) == 1,
		})
		scan.known.Set(uint(seed))
		scan.queue = append(scan.queue, seed)
	}

	// Constraints evaluable before any propagation: anchor-adjacent
	// ones and single-point constraints, which no worklist visit would
	// ever reach.
	for c := range g.cons {
		scan.credit(c)
	}
	for len(scan.queue) > 0 {
		p := scan.queue[0]
		scan.queue = scan.queue[1:]
		for _, c := range g.incident[p] {
			scan.credit(c)
		}
	}

	if scan.known.Count() < uint(g.Len()) {
		var uncovered []gsolve.Identifier
		for p := range g.ids {
			if !scan.known.Test(uint(p)) {
				uncovered = append(uncovered, g.ids[p])
			}
		}
		return nil, uncovered
	}
	return &Plan{Entries: scan.entries}, nil
}

// scanState is one ordering attempt in progress: the grown known set,
// the constraints consumed so far, and the per-point credits.
type scanState struct {
	g        *Graph
	known    *bitset.BitSet
	credited []bool
	state    []credit
	entries  []PlanEntry
	queue    []int
}

// credit consumes constraint c if it has become evaluable, recording it
// for its subject and appending the subject to the order once discrete.
func (s *scanState) credit(c int) {
	if s.credited[c] {
		return
	}
	sub, ok := s.g.subject(c, s.known)
	if !ok {
		return
	}
	s.credited[c] = true
	st := &s.state[sub]
	st.add(s.g, c, sub)
	if st.zeros >= 1 || len(st.curves) >= 2 {
		s.entries = append(s.entries, PlanEntry{
			Point:   sub,
			Curves:  st.curves,
			Filters: st.filters,
		})
		s.known.Set(uint(sub))
		s.queue = append(s.queue, sub)
	}
}

// credit accumulates the constraints credited to one point while an
// order is explored.
type credit struct {
	curves  []int
	zeros   int
	filters []int
}

// add records constraint c for its subject, dropping curve-valued
// constraints that restate an already credited one.
func (st *credit) add(g *Graph, c int, sub int) {
	con := g.cons[c]
	switch con.Dim(g.ids[sub]) {
	case geo.Dim0:
		st.zeros++
		st.curves = append(st.curves, c)
	case geo.Dim1:
		for _, prev := range st.curves {
			if con.CoincidentWith(g.cons[prev]) {
				return
			}
		}
		st.curves = append(st.curves, c)
	case geo.Dim2:
		st.filters = append(st.filters, c)
	}
}
