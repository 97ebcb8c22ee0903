package geo

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnderdetermined is returned when a set of possibility spaces cannot be
// reduced to a finite set of positions, for example a lone curve or a pair
// of regions.
var ErrUnderdetermined = errors.New("possibility spaces do not determine a finite set of positions")

// CoincidentError reports two loci that overlap along a continuous range,
// so that their intersection is infinite rather than a finite set.
type CoincidentError struct {
	A, B Locus
	// I and J index the offending spaces of the Intersect call.
	// Both are -1 when the error comes from a direct Meet.
	I, J int
}

func (e CoincidentError) Error() string {
	return fmt.Sprintf("coincident loci: %s and %s", e.A, e.B)
}

// Meet intersects two possibility spaces branch by branch and returns the
// finite set of shared positions as a Dim0 space. It returns a
// CoincidentError if any pair of branches overlaps continuously, and
// ErrUnderdetermined if a pair cannot be reduced to points at all (a region
// against anything but a single position).
func Meet(a, b Space) (Space, error) {
	var out []Vector
	for _, la := range a {
		for _, lb := range b {
			pts, err := intersect(la, lb)
			if err != nil {
				return nil, err
			}
			out = append(out, pts...)
		}
	}
	return PointsAt(dedup(out)...), nil
}

// Intersect reduces the given possibility spaces to the finite set of
// positions contained in all of them.
//
// A Dim0 space, if present, supplies the candidates directly. Otherwise the
// first pair of Dim1 spaces that meet in finitely many positions supplies
// them. Either way every remaining space, regions included, then acts as a
// membership filter. An empty result means the spaces are mutually
// exclusive. Coincident pairs are skipped as redundant; if no finite
// candidate set can be produced because of them, the CoincidentError for
// the first such pair is returned. With no Dim0 space and fewer than two
// independent curves the spaces leave a continuum of positions, and
// ErrUnderdetermined is returned.
func Intersect(spaces ...Space) ([]Vector, error) {
	var zeros, curves []int
	for i, s := range spaces {
		if len(s) == 0 {
			return nil, nil
		}
		switch s.Dim() {
		case Dim0:
			zeros = append(zeros, i)
		case Dim1:
			curves = append(curves, i)
		}
	}

	if len(zeros) > 0 {
		src := zeros[0]
		return filterContained(spaces[src].Positions(), spaces, src, -1), nil
	}

	var coincident *CoincidentError
	for i := 0; i < len(curves); i++ {
		for j := i + 1; j < len(curves); j++ {
			a, b := curves[i], curves[j]
			met, err := Meet(spaces[a], spaces[b])
			if err != nil {
				var ce CoincidentError
				if errors.As(err, &ce) {
					if coincident == nil {
						ce.I, ce.J = a, b
						coincident = &ce
					}
					continue
				}
				return nil, err
			}
			return filterContained(met.Positions(), spaces, a, b), nil
		}
	}

	if coincident != nil {
		return nil, *coincident
	}
	return nil, ErrUnderdetermined
}

// filterContained keeps the candidates contained in every space, skipping
// the two source indexes the candidates were derived from.
func filterContained(cands []Vector, spaces []Space, skipA, skipB int) []Vector {
	out := cands[:0]
	for _, p := range cands {
		ok := true
		for i, s := range spaces {
			if i == skipA || i == skipB {
				continue
			}
			if !s.Contains(p) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, p)
		}
	}
	return out
}

func dedup(ps []Vector) []Vector {
	out := ps[:0]
	for _, p := range ps {
		seen := false
		for _, q := range out {
			if p.AboutEq(q) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, p)
		}
	}
	return out
}

// intersect returns the finite set of positions shared by two loci. The
// order of the result is fixed by the construction, so repeated calls with
// the same arguments enumerate candidates identically.
func intersect(a, b Locus) ([]Vector, error) {
	if rank(a) > rank(b) {
		return intersect(b, a)
	}

	if pa, ok := a.(Point); ok {
		if b.Contains(pa.P) {
			return []Vector{pa.P}, nil
		}
		return nil, nil
	}

	switch la := a.(type) {
	case Line:
		switch lb := b.(type) {
		case Line:
			return lineLine(la, lb)
		case Ray:
			return lineRay(la, lb)
		case Circle:
			return lineCircle(la, lb)
		case Arc:
			pts, err := lineCircle(la, circleOf(lb))
			return onArc(pts, err, lb)
		}
	case Ray:
		switch lb := b.(type) {
		case Ray:
			return rayRay(la, lb)
		case Circle:
			return rayCircle(la, lb)
		case Arc:
			pts, err := rayCircle(la, circleOf(lb))
			return onArc(pts, err, lb)
		}
	case Circle:
		switch lb := b.(type) {
		case Circle:
			return circleCircle(la, lb)
		case Arc:
			if sameCircle(la, circleOf(lb)) {
				return nil, CoincidentError{A: a, B: b, I: -1, J: -1}
			}
			pts, err := circleCircle(la, circleOf(lb))
			return onArc(pts, err, lb)
		}
	case Arc:
		if lb, ok := b.(Arc); ok {
			return arcArc(la, lb)
		}
	}

	// Some region is involved; the overlap is never a finite set.
	return nil, ErrUnderdetermined
}

// rank orders locus kinds for the canonical dispatch above.
func rank(l Locus) int {
	switch l.(type) {
	case Point:
		return 0
	case Line:
		return 1
	case Ray:
		return 2
	case Circle:
		return 3
	case Arc:
		return 4
	}
	return 5
}

func circleOf(a Arc) Circle { return Circle{C: a.C, R: a.R} }

func sameCircle(a, b Circle) bool {
	return a.C.AboutEq(b.C) && AboutEq(a.R, b.R)
}

// onArc filters circle-level intersection positions down to the arc.
func onArc(pts []Vector, err error, arc Arc) ([]Vector, error) {
	if err != nil {
		return nil, err
	}
	out := pts[:0]
	for _, p := range pts {
		if arc.Contains(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func lineLine(a, b Line) ([]Vector, error) {
	denom := a.V.Cross(b.V)
	if AboutZero(denom) {
		if a.Contains(b.O) {
			return nil, CoincidentError{A: a, B: b, I: -1, J: -1}
		}
		return nil, nil
	}
	t := b.O.Sub(a.O).Cross(b.V) / denom
	return []Vector{a.O.Add(a.V.Scale(t))}, nil
}

func lineRay(a Line, b Ray) ([]Vector, error) {
	denom := a.V.Cross(b.V)
	if AboutZero(denom) {
		if a.Contains(b.O) {
			return nil, CoincidentError{A: a, B: b, I: -1, J: -1}
		}
		return nil, nil
	}
	u := b.O.Sub(a.O).Cross(a.V) / denom
	if u < -Epsilon {
		return nil, nil
	}
	return []Vector{b.O.Add(b.V.Scale(u))}, nil
}

func rayRay(a, b Ray) ([]Vector, error) {
	d := b.O.Sub(a.O)
	denom := a.V.Cross(b.V)
	if AboutZero(denom) {
		if !AboutZero(a.V.Cross(d)) {
			return nil, nil
		}
		if a.V.Dot(b.V) > 0 {
			// Same direction along one carrier: a half line overlaps.
			return nil, CoincidentError{A: a, B: b, I: -1, J: -1}
		}
		// Facing rays overlap on the segment between the origins.
		t := d.Dot(a.V)
		switch {
		case t < -Epsilon:
			return nil, nil
		case t <= Epsilon:
			return []Vector{a.O}, nil
		default:
			return nil, CoincidentError{A: a, B: b, I: -1, J: -1}
		}
	}
	t := d.Cross(b.V) / denom
	u := d.Cross(a.V) / denom
	if t < -Epsilon || u < -Epsilon {
		return nil, nil
	}
	return []Vector{a.O.Add(a.V.Scale(t))}, nil
}

func lineCircle(a Line, b Circle) ([]Vector, error) {
	pts, _, err := lineCircleAt(a, b)
	return pts, err
}

// lineCircleAt also reports the line parameters of the intersections, which
// the ray cases use to cut positions behind the origin.
func lineCircleAt(a Line, b Circle) ([]Vector, []float64, error) {
	oc := b.C.Sub(a.O)
	t := oc.Dot(a.V)
	h2 := b.R*b.R - (oc.Dot(oc) - t*t)
	switch {
	case h2 < -Epsilon:
		return nil, nil, nil
	case h2 <= Epsilon:
		return []Vector{a.O.Add(a.V.Scale(t))}, []float64{t}, nil
	}
	h := math.Sqrt(h2)
	return []Vector{
			a.O.Add(a.V.Scale(t + h)),
			a.O.Add(a.V.Scale(t - h)),
		},
		[]float64{t + h, t - h}, nil
}

func rayCircle(a Ray, b Circle) ([]Vector, error) {
	pts, ts, err := lineCircleAt(Line{O: a.O, V: a.V}, b)
	if err != nil {
		return nil, err
	}
	out := pts[:0]
	for i, p := range pts {
		if ts[i] >= -Epsilon {
			out = append(out, p)
		}
	}
	return out, nil
}

func circleCircle(a, b Circle) ([]Vector, error) {
	u, d := b.C.Sub(a.C).UnitMag()
	if AboutZero(d) {
		if AboutEq(a.R, b.R) {
			return nil, CoincidentError{A: a, B: b, I: -1, J: -1}
		}
		return nil, nil
	}
	if d > a.R+b.R+Epsilon || d < math.Abs(a.R-b.R)-Epsilon {
		return nil, nil
	}
	m := (a.R*a.R - b.R*b.R + d*d) / (2 * d)
	mid := a.C.Add(u.Scale(m))
	h2 := a.R*a.R - m*m
	if h2 <= Epsilon {
		return []Vector{mid}, nil
	}
	hv := u.Perp().Scale(math.Sqrt(h2))
	return []Vector{mid.Add(hv), mid.Sub(hv)}, nil
}

func arcArc(a, b Arc) ([]Vector, error) {
	if !sameCircle(circleOf(a), circleOf(b)) {
		pts, err := circleCircle(circleOf(a), circleOf(b))
		if err != nil {
			return nil, err
		}
		pts, err = onArc(pts, nil, a)
		if err != nil {
			return nil, err
		}
		return onArc(pts, nil, b)
	}

	// Same carrier circle: intersect the angular intervals. Any overlap of
	// positive length is a continuous coincidence; a zero-length overlap is
	// a touch at a single position.
	rel := normAngle(b.Start - a.Start)
	var touches []float64
	for _, lo := range []float64{rel, rel - 2*math.Pi} {
		overlap := math.Min(lo+b.Sweep, a.Sweep) - math.Max(lo, 0)
		if overlap > Epsilon {
			return nil, CoincidentError{A: a, B: b, I: -1, J: -1}
		}
		if overlap >= -Epsilon {
			touches = append(touches, a.Start+math.Max(lo, 0))
		}
	}
	var out []Vector
	for _, angle := range touches {
		out = append(out, a.C.Add(FromAngle(angle).Scale(a.R)))
	}
	return dedup(out), nil
}
