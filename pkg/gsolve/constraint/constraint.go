// Package constraint provides the geometric constraint kinds understood by
// the solver. Each kind relates one, two, or three points; for any subject
// among them it produces the locus of satisfying positions once the other
// referenced points are resolved.
package constraint

import (
	"fmt"
	"math"

	"github.com/GroveDG/gsolve/pkg/gsolve"
	"github.com/GroveDG/gsolve/pkg/gsolve/geo"
)

type PinConstraint struct {
	id gsolve.Identifier
	at geo.Vector
}

func (constraint *PinConstraint) String(subject gsolve.Identifier) string {
	return fmt.Sprintf("%s is pinned to %s", subject, constraint.at)
}

func (constraint *PinConstraint) Points() []gsolve.Identifier {
	return []gsolve.Identifier{constraint.id}
}

func (constraint *PinConstraint) Dim(_ gsolve.Identifier) geo.Dim {
	return geo.Dim0
}

func (constraint *PinConstraint) Space(subject gsolve.Identifier, _ gsolve.Positions) (geo.Space, error) {
	if subject != constraint.id {
		return nil, errSubject(subject)
	}
	return geo.Space{geo.Point{P: constraint.at}}, nil
}

func (constraint *PinConstraint) CoincidentWith(other gsolve.Constraint) bool {
	o, ok := other.(*PinConstraint)
	return ok && constraint.id == o.id && constraint.at.AboutEq(o.at)
}

// Pin returns a Constraint that fixes a point to a single position.
func Pin(id gsolve.Identifier, at geo.Vector) gsolve.Constraint {
	return &PinConstraint{id: id, at: at}
}

type DistanceConstraint struct {
	a, b gsolve.Identifier
	d    float64
}

func (constraint *DistanceConstraint) String(subject gsolve.Identifier) string {
	other := constraint.a
	if subject == constraint.a {
		other = constraint.b
	}
	return fmt.Sprintf("%s is at distance %g from %s", subject, constraint.d, other)
}

func (constraint *DistanceConstraint) Points() []gsolve.Identifier {
	return []gsolve.Identifier{constraint.a, constraint.b}
}

func (constraint *DistanceConstraint) Dim(_ gsolve.Identifier) geo.Dim {
	return geo.Dim1
}

func (constraint *DistanceConstraint) Space(subject gsolve.Identifier, known gsolve.Positions) (geo.Space, error) {
	other, err := constraint.other(subject)
	if err != nil {
		return nil, err
	}
	at, err := resolve(known, other)
	if err != nil {
		return nil, err
	}
	return geo.Space{geo.NewCircle(at[0], constraint.d)}, nil
}

func (constraint *DistanceConstraint) CoincidentWith(other gsolve.Constraint) bool {
	o, ok := other.(*DistanceConstraint)
	return ok && samePair(constraint.a, constraint.b, o.a, o.b) && geo.AboutEq(constraint.d, o.d)
}

func (constraint *DistanceConstraint) other(subject gsolve.Identifier) (gsolve.Identifier, error) {
	switch subject {
	case constraint.a:
		return constraint.b, nil
	case constraint.b:
		return constraint.a, nil
	}
	return "", errSubject(subject)
}

// Distance returns a Constraint that keeps two points a fixed distance
// apart.
func Distance(a, b gsolve.Identifier, d float64) gsolve.Constraint {
	return &DistanceConstraint{a: a, b: b, d: math.Abs(d)}
}

type OrientationConstraint struct {
	a, b  gsolve.Identifier
	angle float64
}

func (constraint *OrientationConstraint) String(subject gsolve.Identifier) string {
	return fmt.Sprintf("the direction from %s to %s is %g rad", constraint.a, constraint.b, constraint.angle)
}

func (constraint *OrientationConstraint) Points() []gsolve.Identifier {
	return []gsolve.Identifier{constraint.a, constraint.b}
}

func (constraint *OrientationConstraint) Dim(_ gsolve.Identifier) geo.Dim {
	return geo.Dim1
}

func (constraint *OrientationConstraint) Space(subject gsolve.Identifier, known gsolve.Positions) (geo.Space, error) {
	switch subject {
	case constraint.b:
		at, err := resolve(known, constraint.a)
		if err != nil {
			return nil, err
		}
		return geo.Space{geo.Ray{O: at[0], V: geo.FromAngle(constraint.angle)}}, nil
	case constraint.a:
		at, err := resolve(known, constraint.b)
		if err != nil {
			return nil, err
		}
		return geo.Space{geo.Ray{O: at[0], V: geo.FromAngle(constraint.angle + math.Pi)}}, nil
	}
	return nil, errSubject(subject)
}

func (constraint *OrientationConstraint) CoincidentWith(other gsolve.Constraint) bool {
	o, ok := other.(*OrientationConstraint)
	if !ok {
		return false
	}
	if constraint.a == o.a && constraint.b == o.b {
		return sameAngle(constraint.angle, o.angle)
	}
	if constraint.a == o.b && constraint.b == o.a {
		return sameAngle(constraint.angle, o.angle+math.Pi)
	}
	return false
}

// Orientation returns a Constraint that fixes the direction from a to b to
// the given angle, measured counterclockwise from the positive x axis.
func Orientation(a, b gsolve.Identifier, angle float64) gsolve.Constraint {
	return &OrientationConstraint{a: a, b: b, angle: angle}
}

type HorizontalConstraint struct {
	a, b gsolve.Identifier
}

func (constraint *HorizontalConstraint) String(subject gsolve.Identifier) string {
	other := constraint.a
	if subject == constraint.a {
		other = constraint.b
	}
	return fmt.Sprintf("%s is horizontally aligned with %s", subject, other)
}

func (constraint *HorizontalConstraint) Points() []gsolve.Identifier {
	return []gsolve.Identifier{constraint.a, constraint.b}
}

func (constraint *HorizontalConstraint) Dim(_ gsolve.Identifier) geo.Dim {
	return geo.Dim1
}

func (constraint *HorizontalConstraint) Space(subject gsolve.Identifier, known gsolve.Positions) (geo.Space, error) {
	return alignedSpace(constraint.a, constraint.b, subject, known, geo.Vector{X: 1})
}

func (constraint *HorizontalConstraint) CoincidentWith(other gsolve.Constraint) bool {
	o, ok := other.(*HorizontalConstraint)
	return ok && samePair(constraint.a, constraint.b, o.a, o.b)
}

// Horizontal returns a Constraint that keeps two points at the same
// height.
func Horizontal(a, b gsolve.Identifier) gsolve.Constraint {
	return &HorizontalConstraint{a: a, b: b}
}

type VerticalConstraint struct {
	a, b gsolve.Identifier
}

func (constraint *VerticalConstraint) String(subject gsolve.Identifier) string {
	other := constraint.a
	if subject == constraint.a {
		other = constraint.b
	}
	return fmt.Sprintf("%s is vertically aligned with %s", subject, other)
}

func (constraint *VerticalConstraint) Points() []gsolve.Identifier {
	return []gsolve.Identifier{constraint.a, constraint.b}
}

func (constraint *VerticalConstraint) Dim(_ gsolve.Identifier) geo.Dim {
	return geo.Dim1
}

func (constraint *VerticalConstraint) Space(subject gsolve.Identifier, known gsolve.Positions) (geo.Space, error) {
	return alignedSpace(constraint.a, constraint.b, subject, known, geo.Vector{Y: 1})
}

func (constraint *VerticalConstraint) CoincidentWith(other gsolve.Constraint) bool {
	o, ok := other.(*VerticalConstraint)
	return ok && samePair(constraint.a, constraint.b, o.a, o.b)
}

// Vertical returns a Constraint that keeps two points on the same
// vertical.
func Vertical(a, b gsolve.Identifier) gsolve.Constraint {
	return &VerticalConstraint{a: a, b: b}
}

type CoincidentConstraint struct {
	a, b gsolve.Identifier
}

func (constraint *CoincidentConstraint) String(subject gsolve.Identifier) string {
	other := constraint.a
	if subject == constraint.a {
		other = constraint.b
	}
	return fmt.Sprintf("%s coincides with %s", subject, other)
}

func (constraint *CoincidentConstraint) Points() []gsolve.Identifier {
	return []gsolve.Identifier{constraint.a, constraint.b}
}

func (constraint *CoincidentConstraint) Dim(_ gsolve.Identifier) geo.Dim {
	return geo.Dim0
}

func (constraint *CoincidentConstraint) Space(subject gsolve.Identifier, known gsolve.Positions) (geo.Space, error) {
	other := constraint.a
	switch subject {
	case constraint.a:
		other = constraint.b
	case constraint.b:
	default:
		return nil, errSubject(subject)
	}
	at, err := resolve(known, other)
	if err != nil {
		return nil, err
	}
	return geo.Space{geo.Point{P: at[0]}}, nil
}

func (constraint *CoincidentConstraint) CoincidentWith(other gsolve.Constraint) bool {
	o, ok := other.(*CoincidentConstraint)
	return ok && samePair(constraint.a, constraint.b, o.a, o.b)
}

// Coincident returns a Constraint that places two points at the same
// position.
func Coincident(a, b gsolve.Identifier) gsolve.Constraint {
	return &CoincidentConstraint{a: a, b: b}
}

type MidpointConstraint struct {
	m, a, b gsolve.Identifier
}

func (constraint *MidpointConstraint) String(_ gsolve.Identifier) string {
	return fmt.Sprintf("%s is the midpoint of %s and %s", constraint.m, constraint.a, constraint.b)
}

func (constraint *MidpointConstraint) Points() []gsolve.Identifier {
	return []gsolve.Identifier{constraint.m, constraint.a, constraint.b}
}

func (constraint *MidpointConstraint) Dim(_ gsolve.Identifier) geo.Dim {
	return geo.Dim0
}

func (constraint *MidpointConstraint) Space(subject gsolve.Identifier, known gsolve.Positions) (geo.Space, error) {
	switch subject {
	case constraint.m:
		at, err := resolve(known, constraint.a, constraint.b)
		if err != nil {
			return nil, err
		}
		return geo.Space{geo.Point{P: at[0].Add(at[1]).Scale(0.5)}}, nil
	case constraint.a:
		at, err := resolve(known, constraint.m, constraint.b)
		if err != nil {
			return nil, err
		}
		return geo.Space{geo.Point{P: at[0].Scale(2).Sub(at[1])}}, nil
	case constraint.b:
		at, err := resolve(known, constraint.m, constraint.a)
		if err != nil {
			return nil, err
		}
		return geo.Space{geo.Point{P: at[0].Scale(2).Sub(at[1])}}, nil
	}
	return nil, errSubject(subject)
}

func (constraint *MidpointConstraint) CoincidentWith(other gsolve.Constraint) bool {
	o, ok := other.(*MidpointConstraint)
	return ok && constraint.m == o.m && samePair(constraint.a, constraint.b, o.a, o.b)
}

// Midpoint returns a Constraint that places m halfway between a and b.
func Midpoint(m, a, b gsolve.Identifier) gsolve.Constraint {
	return &MidpointConstraint{m: m, a: a, b: b}
}

type AngleConstraint struct {
	a, v, b gsolve.Identifier
	angle   float64
}

func (constraint *AngleConstraint) String(_ gsolve.Identifier) string {
	return fmt.Sprintf("the angle %s-%s-%s is %g rad", constraint.a, constraint.v, constraint.b, constraint.angle)
}

func (constraint *AngleConstraint) Points() []gsolve.Identifier {
	return []gsolve.Identifier{constraint.a, constraint.v, constraint.b}
}

func (constraint *AngleConstraint) Dim(_ gsolve.Identifier) geo.Dim {
	return geo.Dim1
}

func (constraint *AngleConstraint) Space(subject gsolve.Identifier, known gsolve.Positions) (geo.Space, error) {
	switch subject {
	case constraint.b:
		at, err := resolve(known, constraint.a, constraint.v)
		if err != nil {
			return nil, err
		}
		va := at[0].Sub(at[1])
		if geo.AboutZero(va.Mag()) {
			return nil, fmt.Errorf("angle %s: coincident %s and %s leave the angle undefined", constraint.canonical(), constraint.a, constraint.v)
		}
		return geo.Space{geo.Ray{O: at[1], V: geo.FromAngle(va.Angle() + constraint.angle)}}, nil
	case constraint.a:
		at, err := resolve(known, constraint.b, constraint.v)
		if err != nil {
			return nil, err
		}
		vb := at[0].Sub(at[1])
		if geo.AboutZero(vb.Mag()) {
			return nil, fmt.Errorf("angle %s: coincident %s and %s leave the angle undefined", constraint.canonical(), constraint.b, constraint.v)
		}
		return geo.Space{geo.Ray{O: at[1], V: geo.FromAngle(vb.Angle() - constraint.angle)}}, nil
	case constraint.v:
		return constraint.vertexSpace(known)
	}
	return nil, errSubject(subject)
}

// vertexSpace is the inscribed-angle locus: the arc of positions seeing
// the segment a-b under the constrained signed angle. Its circle has
// radius |ab| / (2 sin angle), centered on the perpendicular bisector
// of a-b; the chord endpoints themselves are degenerate vertices.
func (constraint *AngleConstraint) vertexSpace(known gsolve.Positions) (geo.Space, error) {
	at, err := resolve(known, constraint.a, constraint.b)
	if err != nil {
		return nil, err
	}
	sin := math.Sin(constraint.angle)
	if geo.AboutZero(sin) {
		return nil, fmt.Errorf("angle %s: a straight or zero angle has no vertex locus", constraint.canonical())
	}
	u, length := at[1].Sub(at[0]).UnitMag()
	if geo.AboutZero(length) {
		return nil, fmt.Errorf("angle %s: coincident %s and %s leave the angle undefined", constraint.canonical(), constraint.a, constraint.b)
	}
	half := length / 2
	mid := at[0].Add(at[1]).Scale(0.5)
	center := mid.Add(u.Perp().Scale(half / math.Tan(constraint.angle)))
	r := half / math.Abs(sin)
	sweep := 2*math.Pi - 2*math.Abs(constraint.angle)
	start := at[0].Sub(center).Angle()
	if constraint.angle > 0 {
		start = at[1].Sub(center).Angle()
	}
	return geo.Space{geo.NewArc(center, r, start, sweep)}, nil
}

func (constraint *AngleConstraint) canonical() string {
	return fmt.Sprintf("%s-%s-%s", constraint.a, constraint.v, constraint.b)
}

func (constraint *AngleConstraint) CoincidentWith(other gsolve.Constraint) bool {
	o, ok := other.(*AngleConstraint)
	if !ok || constraint.v != o.v {
		return false
	}
	if constraint.a == o.a && constraint.b == o.b {
		return sameAngle(constraint.angle, o.angle)
	}
	if constraint.a == o.b && constraint.b == o.a {
		return sameAngle(constraint.angle, -o.angle)
	}
	return false
}

// Angle returns a Constraint that fixes the signed angle at vertex v,
// measured counterclockwise from the ray v-a to the ray v-b, in radians.
func Angle(a, v, b gsolve.Identifier, angle float64) gsolve.Constraint {
	return &AngleConstraint{a: a, v: v, b: b, angle: normSigned(angle)}
}

type OnLineConstraint struct {
	p, a, b gsolve.Identifier
}

func (constraint *OnLineConstraint) String(_ gsolve.Identifier) string {
	return fmt.Sprintf("%s lies on the line through %s and %s", constraint.p, constraint.a, constraint.b)
}

func (constraint *OnLineConstraint) Points() []gsolve.Identifier {
	return []gsolve.Identifier{constraint.p, constraint.a, constraint.b}
}

func (constraint *OnLineConstraint) Dim(_ gsolve.Identifier) geo.Dim {
	return geo.Dim1
}

func (constraint *OnLineConstraint) Space(subject gsolve.Identifier, known gsolve.Positions) (geo.Space, error) {
	// Whatever the subject, the condition is collinearity of the three
	// points: the locus is the line through the two resolved ones.
	var others [2]gsolve.Identifier
	switch subject {
	case constraint.p:
		others = [2]gsolve.Identifier{constraint.a, constraint.b}
	case constraint.a:
		others = [2]gsolve.Identifier{constraint.b, constraint.p}
	case constraint.b:
		others = [2]gsolve.Identifier{constraint.a, constraint.p}
	default:
		return nil, errSubject(subject)
	}
	at, err := resolve(known, others[0], others[1])
	if err != nil {
		return nil, err
	}
	if at[0].AboutEq(at[1]) {
		return nil, fmt.Errorf("coincident %s and %s leave the line undefined", others[0], others[1])
	}
	return geo.Space{geo.LineThrough(at[0], at[1])}, nil
}

func (constraint *OnLineConstraint) CoincidentWith(other gsolve.Constraint) bool {
	o, ok := other.(*OnLineConstraint)
	return ok && sameTriple(
		[3]gsolve.Identifier{constraint.p, constraint.a, constraint.b},
		[3]gsolve.Identifier{o.p, o.a, o.b},
	)
}

// OnLine returns a Constraint that keeps p collinear with a and b.
func OnLine(p, a, b gsolve.Identifier) gsolve.Constraint {
	return &OnLineConstraint{p: p, a: a, b: b}
}

type LeftOfConstraint struct {
	p, a, b gsolve.Identifier
}

func (constraint *LeftOfConstraint) String(_ gsolve.Identifier) string {
	return fmt.Sprintf("%s lies left of the line from %s to %s", constraint.p, constraint.a, constraint.b)
}

func (constraint *LeftOfConstraint) Points() []gsolve.Identifier {
	return []gsolve.Identifier{constraint.p, constraint.a, constraint.b}
}

func (constraint *LeftOfConstraint) Dim(_ gsolve.Identifier) geo.Dim {
	return geo.Dim2
}

func (constraint *LeftOfConstraint) Space(subject gsolve.Identifier, known gsolve.Positions) (geo.Space, error) {
	var origin, toward gsolve.Identifier
	switch subject {
	case constraint.p:
		origin, toward = constraint.a, constraint.b
	case constraint.a:
		origin, toward = constraint.b, constraint.p
	case constraint.b:
		origin, toward = constraint.p, constraint.a
	default:
		return nil, errSubject(subject)
	}
	at, err := resolve(known, origin, toward)
	if err != nil {
		return nil, err
	}
	n := at[1].Sub(at[0]).Perp()
	if geo.AboutZero(n.Mag()) {
		return nil, fmt.Errorf("coincident %s and %s leave the side undefined", origin, toward)
	}
	return geo.Space{geo.NewHalfPlane(at[0], n)}, nil
}

func (constraint *LeftOfConstraint) CoincidentWith(other gsolve.Constraint) bool {
	o, ok := other.(*LeftOfConstraint)
	return ok && constraint.p == o.p && constraint.a == o.a && constraint.b == o.b
}

// LeftOf returns a Constraint that keeps p on or left of the directed
// line from a to b.
func LeftOf(p, a, b gsolve.Identifier) gsolve.Constraint {
	return &LeftOfConstraint{p: p, a: a, b: b}
}

// alignedSpace is the shared locus of the axis alignment kinds: the line
// through the resolved end in the axis direction.
func alignedSpace(a, b, subject gsolve.Identifier, known gsolve.Positions, axis geo.Vector) (geo.Space, error) {
	other := a
	switch subject {
	case a:
		other = b
	case b:
	default:
		return nil, errSubject(subject)
	}
	at, err := resolve(known, other)
	if err != nil {
		return nil, err
	}
	return geo.Space{geo.Line{O: at[0], V: axis}}, nil
}

// resolve fetches the positions of the given points, failing on the first
// unresolved one.
func resolve(known gsolve.Positions, ids ...gsolve.Identifier) ([]geo.Vector, error) {
	out := make([]geo.Vector, len(ids))
	for i, id := range ids {
		p, ok := known.Position(id)
		if !ok {
			return nil, fmt.Errorf("%s is not resolved", id)
		}
		out[i] = p
	}
	return out, nil
}

func errSubject(subject gsolve.Identifier) error {
	return fmt.Errorf("constraint does not reference %s", subject)
}

func samePair(a0, b0, a1, b1 gsolve.Identifier) bool {
	return (a0 == a1 && b0 == b1) || (a0 == b1 && b0 == a1)
}

func sameTriple(x, y [3]gsolve.Identifier) bool {
	for _, id := range x {
		if id != y[0] && id != y[1] && id != y[2] {
			return false
		}
	}
	for _, id := range y {
		if id != x[0] && id != x[1] && id != x[2] {
			return false
		}
	}
	return true
}

// sameAngle reports whether two angles name the same direction.
func sameAngle(a, b float64) bool {
	return geo.AboutZero(normSigned(a - b))
}

// normSigned maps an angle to [-pi, pi).
func normSigned(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
