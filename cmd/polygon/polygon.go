package polygon

import (
	"fmt"
	"math"

	"github.com/GroveDG/gsolve/pkg/gsolve"
	"github.com/GroveDG/gsolve/pkg/gsolve/constraint"
	"github.com/GroveDG/gsolve/pkg/gsolve/geo"
	"github.com/GroveDG/gsolve/pkg/gsolve/sketch"
)

// NewPolygon builds the sketch of a regular polygon with the given number
// of sides, inscribed in a circle of the given radius around the origin.
// Only the first vertex is anchored; the second follows from a side and an
// orientation, and every further vertex from a side and the signed interior
// angle at the previous one, counterclockwise. The closing side is declared
// too, so the solved chain has to meet its start again.
func NewPolygon(sides int, radius float64) (*sketch.Sketch, error) {
	if sides < 3 {
		return nil, fmt.Errorf("a polygon needs at least 3 sides, got %d", sides)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("the circumradius must be positive, got %g", radius)
	}

	n := float64(sides)
	side := 2 * radius * math.Sin(math.Pi/n)
	// The signed angle at each vertex from the ray back along the chain to
	// the ray ahead of it. Negative: walking counterclockwise, the next
	// vertex lies clockwise of the previous one as seen from the corner.
	turn := 2*math.Pi/n - math.Pi

	sk := sketch.New()
	if err := sk.Anchor(VertexID(0), geo.Vector{X: radius}); err != nil {
		return nil, err
	}
	for i := 1; i < sides; i++ {
		if err := sk.Point(VertexID(i)); err != nil {
			return nil, err
		}
	}

	constraints := []gsolve.Constraint{
		constraint.Distance(VertexID(0), VertexID(1), side),
		constraint.Orientation(VertexID(0), VertexID(1), math.Pi/n+math.Pi/2),
	}
	for i := 2; i < sides; i++ {
		constraints = append(constraints,
			constraint.Distance(VertexID(i-1), VertexID(i), side),
			constraint.Angle(VertexID(i-2), VertexID(i-1), VertexID(i), turn),
		)
	}
	constraints = append(constraints, constraint.Distance(VertexID(sides-1), VertexID(0), side))

	for _, c := range constraints {
		if err := sk.Constrain(c); err != nil {
			return nil, err
		}
	}
	return sk, nil
}

// VertexID names the i-th vertex of the polygon.
func VertexID(i int) gsolve.Identifier {
	return gsolve.Identifier(fmt.Sprintf("p%d", i))
}
