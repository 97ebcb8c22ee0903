package solver

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/GroveDG/gsolve/pkg/gsolve"
	"github.com/GroveDG/gsolve/pkg/gsolve/geo"
	"github.com/GroveDG/gsolve/pkg/gsolve/sketch"
)

// Graph performs translation between the input types of Solve (points,
// Constraints) and the dense indexes the ordering and search passes work
// on. Adjacency is fixed at compile time; only the known set changes
// while solving.
type Graph struct {
	ids      []gsolve.Identifier
	index    map[gsolve.Identifier]int
	anchors  *bitset.BitSet
	anchorAt []geo.Vector
	cons     []gsolve.Constraint
	refs     [][]int
	incident [][]int
}

// Compile returns a new Graph with its state initialized based on the
// provided sketch: identifiers numbered in declaration order, anchor
// positions captured, and point-to-constraint adjacency laid out.
func Compile(sk *sketch.Sketch) (*Graph, error) {
	ids := sk.Points()
	g := &Graph{
		ids:      ids,
		index:    make(map[gsolve.Identifier]int, len(ids)),
		anchors:  bitset.New(uint(len(ids))),
		anchorAt: make([]geo.Vector, len(ids)),
		cons:     sk.Constraints(),
	}
	for i, id := range ids {
		g.index[id] = i
		if at, ok := sk.AnchorAt(id); ok {
			g.anchors.Set(uint(i))
			g.anchorAt[i] = at
		}
	}
	g.refs = make([][]int, len(g.cons))
	g.incident = make([][]int, len(ids))
	for c, con := range g.cons {
		pts := con.Points()
		g.refs[c] = make([]int, len(pts))
		for k, id := range pts {
			p, ok := g.index[id]
			if !ok {
				return nil, sketch.UnknownIdentifier(id)
			}
			g.refs[c][k] = p
			g.incident[p] = append(g.incident[p], c)
		}
	}
	return g, nil
}

// Len returns the number of points, anchors included.
func (g *Graph) Len() int {
	return len(g.ids)
}

// ID returns the identifier of a dense point index.
func (g *Graph) ID(p int) gsolve.Identifier {
	return g.ids[p]
}

// Unknowns returns the dense indexes of the unanchored points, in
// declaration order.
func (g *Graph) Unknowns() []int {
	var out []int
	for p := range g.ids {
		if !g.anchors.Test(uint(p)) {
			out = append(out, p)
		}
	}
	return out
}

// subject returns the single point of constraint c outside the known set.
// It reports false when the constraint is fully resolved or still has more
// than one unresolved point; either way c cannot produce a possibility
// space yet.
func (g *Graph) subject(c int, known *bitset.BitSet) (int, bool) {
	sub := -1
	for _, p := range g.refs[c] {
		if known.Test(uint(p)) {
			continue
		}
		if sub >= 0 {
			return -1, false
		}
		sub = p
	}
	if sub < 0 {
		return -1, false
	}
	return sub, true
}

// anchored reports whether every point of constraint c is an anchor.
func (g *Graph) anchored(c int) bool {
	for _, p := range g.refs[c] {
		if !g.anchors.Test(uint(p)) {
			return false
		}
	}
	return true
}

// assignment is the mutable solve state: one position per point and the
// set of points they are valid for. It exposes the read-only view
// constraints compute possibility spaces against.
type assignment struct {
	g     *Graph
	pos   []geo.Vector
	known *bitset.BitSet
}

var _ gsolve.Positions = &assignment{}

func newAssignment(g *Graph) *assignment {
	a := &assignment{
		g:     g,
		pos:   make([]geo.Vector, g.Len()),
		known: g.anchors.Clone(),
	}
	copy(a.pos, g.anchorAt)
	return a
}

func (a *assignment) Position(id gsolve.Identifier) (geo.Vector, bool) {
	p, ok := a.g.index[id]
	if !ok || !a.known.Test(uint(p)) {
		return geo.Vector{}, false
	}
	return a.pos[p], true
}

func (a *assignment) set(p int, at geo.Vector) {
	a.pos[p] = at
	a.known.Set(uint(p))
}

func (a *assignment) unset(p int) {
	a.known.Clear(uint(p))
}

// positions exports the completed assignment.
func (a *assignment) positions() map[gsolve.Identifier]geo.Vector {
	out := make(map[gsolve.Identifier]geo.Vector, len(a.pos))
	for p, id := range a.g.ids {
		out[id] = a.pos[p]
	}
	return out
}
