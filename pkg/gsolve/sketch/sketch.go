// Package sketch collects the points and constraints of one figure and
// validates the references between them before solving.
package sketch

import (
	"fmt"

	"github.com/GroveDG/gsolve/pkg/gsolve"
	"github.com/GroveDG/gsolve/pkg/gsolve/geo"
)

type DuplicateIdentifier gsolve.Identifier

func (e DuplicateIdentifier) Error() string {
	return fmt.Sprintf("duplicate identifier %q in sketch", gsolve.Identifier(e))
}

type UnknownIdentifier gsolve.Identifier

func (e UnknownIdentifier) Error() string {
	return fmt.Sprintf("unknown identifier %q in constraint", gsolve.Identifier(e))
}

// Sketch is a figure under construction: named points, some anchored to
// fixed positions, and the constraints relating them. The zero value is
// not usable; construct with New.
type Sketch struct {
	points      []gsolve.Identifier
	index       map[gsolve.Identifier]int
	anchors     map[gsolve.Identifier]geo.Vector
	constraints []gsolve.Constraint
}

func New() *Sketch {
	return &Sketch{
		index:   map[gsolve.Identifier]int{},
		anchors: map[gsolve.Identifier]geo.Vector{},
	}
}

// Point declares an unknown point. Point and anchor identifiers share one
// namespace; declaring one twice is an error.
func (s *Sketch) Point(id gsolve.Identifier) error {
	if _, ok := s.index[id]; ok {
		return DuplicateIdentifier(id)
	}
	s.index[id] = len(s.points)
	s.points = append(s.points, id)
	return nil
}

// Anchor declares a point fixed to a position. Anchors are never moved by
// the solver; they form the frame the unknown points resolve against.
func (s *Sketch) Anchor(id gsolve.Identifier, at geo.Vector) error {
	if err := s.Point(id); err != nil {
		return err
	}
	s.anchors[id] = at
	return nil
}

// Constrain adds a constraint. Every referenced point must have been
// declared, and a constraint may reference each point only once.
func (s *Sketch) Constrain(c gsolve.Constraint) error {
	refs := c.Points()
	if len(refs) == 0 {
		return fmt.Errorf("constraint %q references no points", c.String(""))
	}
	for i, id := range refs {
		if _, ok := s.index[id]; !ok {
			return UnknownIdentifier(id)
		}
		for _, prev := range refs[:i] {
			if prev == id {
				return fmt.Errorf("constraint %q references %s twice", c.String(id), id)
			}
		}
	}
	s.constraints = append(s.constraints, c)
	return nil
}

// Points returns all identifiers in declaration order.
func (s *Sketch) Points() []gsolve.Identifier {
	out := make([]gsolve.Identifier, len(s.points))
	copy(out, s.points)
	return out
}

// Has reports whether the identifier is declared.
func (s *Sketch) Has(id gsolve.Identifier) bool {
	_, ok := s.index[id]
	return ok
}

// IsAnchor reports whether the identifier names an anchored point.
func (s *Sketch) IsAnchor(id gsolve.Identifier) bool {
	_, ok := s.anchors[id]
	return ok
}

// AnchorAt returns the fixed position of an anchored point.
func (s *Sketch) AnchorAt(id gsolve.Identifier) (geo.Vector, bool) {
	at, ok := s.anchors[id]
	return at, ok
}

// Constraints returns the constraints in declaration order.
func (s *Sketch) Constraints() []gsolve.Constraint {
	out := make([]gsolve.Constraint, len(s.constraints))
	copy(out, s.constraints)
	return out
}

// ConstraintsOn returns the constraints referencing the given point, in
// declaration order.
func (s *Sketch) ConstraintsOn(id gsolve.Identifier) []gsolve.Constraint {
	var out []gsolve.Constraint
	for _, c := range s.constraints {
		for _, ref := range c.Points() {
			if ref == id {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
