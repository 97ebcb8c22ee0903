package gsolve

import (
	"github.com/GroveDG/gsolve/pkg/gsolve/geo"
)

// Identifier values uniquely identify particular points within
// the input to a single call to Solve.
type Identifier string

func (id Identifier) String() string {
	return string(id)
}

// IdentifierFromString returns an Identifier based on a provided
// string.
func IdentifierFromString(s string) Identifier {
	return Identifier(s)
}

// Positions is a read-only view of the positions resolved so far.
// Constraint implementations read the positions of the points they
// reference from it when computing a possibility space.
type Positions interface {
	// Position returns the position assigned to the given point, or
	// false when the point has not been resolved yet.
	Position(id Identifier) (geo.Vector, bool)
}

// Constraint implementations limit the positions at which a particular
// point can appear in a solution.
//
// A constraint references a fixed set of points. For any one of them, the
// subject, it can describe the set of positions that satisfy it once every
// other referenced point is resolved.
type Constraint interface {
	String(subject Identifier) string
	// Points returns the points the constraint references, the subject
	// candidates, in a fixed order.
	Points() []Identifier
	// Dim returns the dimension of the possibility space the constraint
	// produces for the subject, known without resolving any positions.
	Dim(subject Identifier) geo.Dim
	// Space returns the possibility space for the subject given the
	// positions of the other referenced points. It returns an error when
	// the known positions are so degenerate that no space can be
	// constructed, for example an angle at two coincident positions.
	Space(subject Identifier, known Positions) (geo.Space, error)
	// CoincidentWith reports whether the constraint always produces the
	// same possibility space as other, for every shared subject,
	// regardless of where the referenced points end up. Such constraints
	// are redundant with each other and cannot pin a point down together.
	CoincidentWith(other Constraint) bool
}

// AppliedConstraint values compose a single Constraint with the
// point it applies to.
type AppliedConstraint struct {
	Point      Identifier
	Constraint Constraint
}

// String implements fmt.Stringer and returns a human-readable message
// representing the receiver.
func (a AppliedConstraint) String() string {
	return a.Constraint.String(a.Point)
}
