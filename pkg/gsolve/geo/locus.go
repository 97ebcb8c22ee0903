package geo

import (
	"fmt"
	"math"
	"strings"
)

// Dim is the dimension of a locus: the degrees of freedom left to a point
// constrained to it.
type Dim int

const (
	// Dim0 is a finite set of positions.
	Dim0 Dim = iota
	// Dim1 is a curve.
	Dim1
	// Dim2 is a region.
	Dim2
)

func (d Dim) String() string {
	switch d {
	case Dim0:
		return "point"
	case Dim1:
		return "curve"
	case Dim2:
		return "region"
	}
	return fmt.Sprintf("dim(%d)", int(d))
}

// Locus is a single connected set of candidate positions for one point.
//
// Implementations are the fixed set of shapes in this package. Direction
// and normal fields hold unit vectors; the constructors take care of
// normalization.
type Locus interface {
	// Dim returns the dimension of the locus.
	Dim() Dim
	// Contains reports whether p lies on the locus, within Epsilon.
	Contains(p Vector) bool
	// Dist returns the distance from p to the nearest position on the locus.
	Dist(p Vector) float64
	// Sample returns a canonical position on the locus.
	Sample() Vector
	String() string

	locus()
}

var (
	_ Locus = Point{}
	_ Locus = Line{}
	_ Locus = Ray{}
	_ Locus = Circle{}
	_ Locus = Arc{}
	_ Locus = HalfPlane{}
)

// Point is a single position.
type Point struct {
	P Vector
}

func (Point) locus()   {}
func (Point) Dim() Dim { return Dim0 }

func (l Point) Contains(p Vector) bool { return l.P.AboutEq(p) }
func (l Point) Dist(p Vector) float64  { return l.P.Dist(p) }
func (l Point) Sample() Vector         { return l.P }
func (l Point) String() string         { return l.P.String() }

// Line is the infinite line through O with unit direction V.
type Line struct {
	O, V Vector
}

// NewLine returns the line through o in direction v. v need not be unit
// length but must be nonzero.
func NewLine(o, v Vector) Line {
	return Line{O: o, V: v.Unit()}
}

// LineThrough returns the line through two positions.
func LineThrough(a, b Vector) Line {
	return NewLine(a, b.Sub(a))
}

func (Line) locus()   {}
func (Line) Dim() Dim { return Dim1 }

func (l Line) Contains(p Vector) bool { return l.Dist(p) <= Epsilon }

func (l Line) Dist(p Vector) float64 {
	return math.Abs(l.V.Cross(p.Sub(l.O)))
}

func (l Line) Sample() Vector { return l.O }

func (l Line) String() string {
	return fmt.Sprintf("line %s + t*%s", l.O, l.V)
}

// Ray is the half line from O in unit direction V, origin included.
type Ray struct {
	O, V Vector
}

// NewRay returns the ray from o in direction v. v need not be unit length
// but must be nonzero.
func NewRay(o, v Vector) Ray {
	return Ray{O: o, V: v.Unit()}
}

func (Ray) locus()   {}
func (Ray) Dim() Dim { return Dim1 }

func (l Ray) Contains(p Vector) bool { return l.Dist(p) <= Epsilon }

func (l Ray) Dist(p Vector) float64 {
	t := p.Sub(l.O).Dot(l.V)
	if t < 0 {
		t = 0
	}
	return p.Dist(l.O.Add(l.V.Scale(t)))
}

func (l Ray) Sample() Vector { return l.O.Add(l.V) }

func (l Ray) String() string {
	return fmt.Sprintf("ray %s + t*%s", l.O, l.V)
}

// Circle is the circle of radius R around C.
type Circle struct {
	C Vector
	R float64
}

// NewCircle returns the circle of radius r around c. Negative radii are
// folded to their absolute value.
func NewCircle(c Vector, r float64) Circle {
	return Circle{C: c, R: math.Abs(r)}
}

func (Circle) locus()   {}
func (Circle) Dim() Dim { return Dim1 }

func (l Circle) Contains(p Vector) bool { return l.Dist(p) <= Epsilon }

func (l Circle) Dist(p Vector) float64 {
	return math.Abs(l.C.Dist(p) - l.R)
}

func (l Circle) Sample() Vector { return l.C.Add(Vector{l.R, 0}) }

func (l Circle) String() string {
	return fmt.Sprintf("circle %s r=%.2f", l.C, l.R)
}

// Arc is the portion of the circle of radius R around C swept
// counterclockwise from the Start angle through Sweep radians, endpoints
// included.
type Arc struct {
	C     Vector
	R     float64
	Start float64
	Sweep float64
}

// NewArc returns the arc around c with radius r from the start angle
// sweeping counterclockwise by sweep radians. Sweep is clamped to [0, 2pi].
func NewArc(c Vector, r, start, sweep float64) Arc {
	sweep = math.Min(math.Max(sweep, 0), 2*math.Pi)
	return Arc{C: c, R: math.Abs(r), Start: normAngle(start), Sweep: sweep}
}

func (Arc) locus()   {}
func (Arc) Dim() Dim { return Dim1 }

func (l Arc) Contains(p Vector) bool { return l.Dist(p) <= Epsilon }

func (l Arc) Dist(p Vector) float64 {
	if l.inSweep(p.Sub(l.C).Angle()) {
		return math.Abs(l.C.Dist(p) - l.R)
	}
	from := l.C.Add(FromAngle(l.Start).Scale(l.R))
	to := l.C.Add(FromAngle(l.Start + l.Sweep).Scale(l.R))
	return math.Min(p.Dist(from), p.Dist(to))
}

func (l Arc) Sample() Vector {
	return l.C.Add(FromAngle(l.Start + l.Sweep/2).Scale(l.R))
}

func (l Arc) String() string {
	return fmt.Sprintf("arc %s r=%.2f from=%.2f sweep=%.2f", l.C, l.R, l.Start, l.Sweep)
}

// inSweep reports whether the angle lies within the swept interval. The
// tolerance is angular, scaled so that positions within Epsilon of an
// endpoint on a unit-ish circle still count.
func (l Arc) inSweep(angle float64) bool {
	delta := normAngle(angle - l.Start)
	if delta <= l.Sweep+Epsilon {
		return true
	}
	return 2*math.Pi-delta <= Epsilon
}

// HalfPlane is the closed half plane of positions p with (p-O) dot N >= 0,
// N being the unit inward normal.
type HalfPlane struct {
	O, N Vector
}

// NewHalfPlane returns the half plane bounded by the line through o
// perpendicular to n, containing the side n points into. n need not be unit
// length but must be nonzero.
func NewHalfPlane(o, n Vector) HalfPlane {
	return HalfPlane{O: o, N: n.Unit()}
}

func (HalfPlane) locus()   {}
func (HalfPlane) Dim() Dim { return Dim2 }

func (l HalfPlane) Contains(p Vector) bool { return l.Dist(p) <= Epsilon }

func (l HalfPlane) Dist(p Vector) float64 {
	d := p.Sub(l.O).Dot(l.N)
	if d >= 0 {
		return 0
	}
	return -d
}

func (l HalfPlane) Sample() Vector { return l.O }

func (l HalfPlane) String() string {
	return fmt.Sprintf("half-plane %s n=%s", l.O, l.N)
}

// normAngle maps an angle to [0, 2pi).
func normAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Space is the possibility space of one point under one constraint: the
// union of its branches. A space with no branches is empty, meaning the
// constraint cannot be satisfied at all.
type Space []Locus

// PointsAt returns the space holding exactly the given positions.
func PointsAt(ps ...Vector) Space {
	s := make(Space, 0, len(ps))
	for _, p := range ps {
		s = append(s, Point{P: p})
	}
	return s
}

// Dim returns the highest dimension among the branches. The empty space
// reports Dim0.
func (s Space) Dim() Dim {
	d := Dim0
	for _, l := range s {
		if l.Dim() > d {
			d = l.Dim()
		}
	}
	return d
}

// Contains reports whether p lies on any branch.
func (s Space) Contains(p Vector) bool {
	for _, l := range s {
		if l.Contains(p) {
			return true
		}
	}
	return false
}

// Positions returns the concrete positions of a Dim0 space, in branch order.
func (s Space) Positions() []Vector {
	ps := make([]Vector, 0, len(s))
	for _, l := range s {
		if pt, ok := l.(Point); ok {
			ps = append(ps, pt.P)
		}
	}
	return ps
}

func (s Space) String() string {
	if len(s) == 0 {
		return "empty"
	}
	parts := make([]string, len(s))
	for i, l := range s {
		parts[i] = l.String()
	}
	return strings.Join(parts, " | ")
}
