package constraint

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/GroveDG/gsolve/pkg/gsolve"
	"github.com/GroveDG/gsolve/pkg/gsolve/geo"
)

type positions map[gsolve.Identifier]geo.Vector

func (p positions) Position(id gsolve.Identifier) (geo.Vector, bool) {
	v, ok := p[id]
	return v, ok
}

func TestConstraintDims(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(geo.Dim0, Pin("a", geo.Vector{}).Dim("a"))
	assert.Equal(geo.Dim0, Coincident("a", "b").Dim("a"))
	assert.Equal(geo.Dim0, Midpoint("m", "a", "b").Dim("m"))
	assert.Equal(geo.Dim1, Distance("a", "b", 1).Dim("b"))
	assert.Equal(geo.Dim1, Orientation("a", "b", 0).Dim("b"))
	assert.Equal(geo.Dim1, Horizontal("a", "b").Dim("a"))
	assert.Equal(geo.Dim1, Vertical("a", "b").Dim("a"))
	assert.Equal(geo.Dim1, Angle("a", "v", "b", 1).Dim("v"))
	assert.Equal(geo.Dim1, OnLine("p", "a", "b").Dim("p"))
	assert.Equal(geo.Dim2, LeftOf("p", "a", "b").Dim("p"))
}

func TestConstraintSpaces(t *testing.T) {
	known := positions{
		"a": {X: 0, Y: 0},
		"b": {X: 4, Y: 0},
		"m": {X: 2, Y: 1},
	}

	type tc struct {
		Name       string
		Constraint gsolve.Constraint
		Subject    gsolve.Identifier
		Dim        geo.Dim
		In         []geo.Vector
		Out        []geo.Vector
	}

	for _, tt := range []tc{
		{
			Name:       "pin",
			Constraint: Pin("p", geo.Vector{X: 1, Y: 2}),
			Subject:    "p",
			Dim:        geo.Dim0,
			In:         []geo.Vector{{X: 1, Y: 2}},
			Out:        []geo.Vector{{X: 0, Y: 0}},
		},
		{
			Name:       "distance circles the other end",
			Constraint: Distance("a", "p", 5),
			Subject:    "p",
			Dim:        geo.Dim1,
			In:         []geo.Vector{{X: 5, Y: 0}, {X: 0, Y: -5}, {X: 3, Y: 4}},
			Out:        []geo.Vector{{X: 0, Y: 0}, {X: 6, Y: 0}},
		},
		{
			Name:       "distance from either side",
			Constraint: Distance("p", "b", 2),
			Subject:    "p",
			Dim:        geo.Dim1,
			In:         []geo.Vector{{X: 2, Y: 0}, {X: 6, Y: 0}, {X: 4, Y: 2}},
			Out:        []geo.Vector{{X: 4, Y: 0}},
		},
		{
			Name:       "orientation forward",
			Constraint: Orientation("a", "p", math.Pi/2),
			Subject:    "p",
			Dim:        geo.Dim1,
			In:         []geo.Vector{{X: 0, Y: 1}, {X: 0, Y: 10}, {X: 0, Y: 0}},
			Out:        []geo.Vector{{X: 0, Y: -1}, {X: 1, Y: 1}},
		},
		{
			Name:       "orientation reversed subject",
			Constraint: Orientation("p", "b", 0),
			Subject:    "p",
			Dim:        geo.Dim1,
			In:         []geo.Vector{{X: 3, Y: 0}, {X: -2, Y: 0}},
			Out:        []geo.Vector{{X: 5, Y: 0}, {X: 3, Y: 1}},
		},
		{
			Name:       "horizontal",
			Constraint: Horizontal("m", "p"),
			Subject:    "p",
			Dim:        geo.Dim1,
			In:         []geo.Vector{{X: -3, Y: 1}, {X: 9, Y: 1}},
			Out:        []geo.Vector{{X: 2, Y: 0}},
		},
		{
			Name:       "vertical",
			Constraint: Vertical("p", "m"),
			Subject:    "p",
			Dim:        geo.Dim1,
			In:         []geo.Vector{{X: 2, Y: -5}, {X: 2, Y: 7}},
			Out:        []geo.Vector{{X: 0, Y: 1}},
		},
		{
			Name:       "coincident",
			Constraint: Coincident("p", "m"),
			Subject:    "p",
			Dim:        geo.Dim0,
			In:         []geo.Vector{{X: 2, Y: 1}},
			Out:        []geo.Vector{{X: 2, Y: 0}},
		},
		{
			Name:       "midpoint subject",
			Constraint: Midpoint("p", "a", "b"),
			Subject:    "p",
			Dim:        geo.Dim0,
			In:         []geo.Vector{{X: 2, Y: 0}},
			Out:        []geo.Vector{{X: 2, Y: 1}},
		},
		{
			Name:       "midpoint endpoint subject",
			Constraint: Midpoint("m", "a", "p"),
			Subject:    "p",
			Dim:        geo.Dim0,
			In:         []geo.Vector{{X: 4, Y: 2}},
			Out:        []geo.Vector{{X: 2, Y: 1}},
		},
		{
			Name:       "angle at endpoint is a ray",
			Constraint: Angle("a", "b", "p", -math.Pi/2),
			Subject:    "p",
			Dim:        geo.Dim1,
			In:         []geo.Vector{{X: 4, Y: 1}, {X: 4, Y: 9}},
			Out:        []geo.Vector{{X: 4, Y: -1}, {X: 5, Y: 1}},
		},
		{
			Name:       "right angle vertex on upper semicircle",
			Constraint: Angle("a", "p", "b", math.Pi/2),
			Subject:    "p",
			Dim:        geo.Dim1,
			In:         []geo.Vector{{X: 2, Y: 2}},
			Out:        []geo.Vector{{X: 2, Y: -2}, {X: 2, Y: 1}},
		},
		{
			Name:       "mirrored right angle vertex below",
			Constraint: Angle("a", "p", "b", -math.Pi/2),
			Subject:    "p",
			Dim:        geo.Dim1,
			In:         []geo.Vector{{X: 2, Y: -2}},
			Out:        []geo.Vector{{X: 2, Y: 2}},
		},
		{
			Name:       "on line",
			Constraint: OnLine("p", "a", "b"),
			Subject:    "p",
			Dim:        geo.Dim1,
			In:         []geo.Vector{{X: -7, Y: 0}, {X: 11, Y: 0}},
			Out:        []geo.Vector{{X: 0, Y: 1}},
		},
		{
			Name:       "on line solved for an end",
			Constraint: OnLine("m", "a", "p"),
			Subject:    "p",
			Dim:        geo.Dim1,
			In:         []geo.Vector{{X: 4, Y: 2}, {X: 1, Y: 0.5}},
			Out:        []geo.Vector{{X: 4, Y: 0}},
		},
		{
			Name:       "left of",
			Constraint: LeftOf("p", "a", "b"),
			Subject:    "p",
			Dim:        geo.Dim2,
			In:         []geo.Vector{{X: 2, Y: 3}, {X: 2, Y: 0}},
			Out:        []geo.Vector{{X: 2, Y: -3}},
		},
		{
			Name:       "left of solved for the tail",
			Constraint: LeftOf("m", "p", "b"),
			Subject:    "p",
			Dim:        geo.Dim2,
			In:         []geo.Vector{{X: 0, Y: 0}, {X: 0, Y: -5}},
			Out:        []geo.Vector{{X: 0, Y: 5}},
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tt.Dim, tt.Constraint.Dim(tt.Subject))
			space, err := tt.Constraint.Space(tt.Subject, known)
			assert.NoError(err)
			assert.Equal(tt.Dim, space.Dim())
			for _, p := range tt.In {
				assert.True(space.Contains(p), "expected %s to contain %s", space, p)
			}
			for _, p := range tt.Out {
				assert.False(space.Contains(p), "expected %s to exclude %s", space, p)
			}
		})
	}
}

func TestSpaceErrors(t *testing.T) {
	assert := assert.New(t)

	known := positions{
		"a":   {X: 0, Y: 0},
		"b":   {X: 4, Y: 0},
		"dup": {X: 0, Y: 0},
	}

	// Unresolved reference.
	_, err := Distance("a", "p", 5).Space("p", positions{})
	assert.ErrorContains(err, "not resolved")

	// Subject the constraint does not reference.
	_, err = Distance("a", "b", 5).Space("q", known)
	assert.ErrorContains(err, "does not reference")

	// Degenerate configurations.
	_, err = Angle("a", "dup", "p", 1).Space("p", known)
	assert.ErrorContains(err, "undefined")
	_, err = Angle("a", "p", "dup", 1).Space("p", known)
	assert.ErrorContains(err, "undefined")
	_, err = Angle("a", "p", "b", 0).Space("p", known)
	assert.ErrorContains(err, "no vertex locus")
	_, err = Angle("a", "p", "b", math.Pi).Space("p", known)
	assert.ErrorContains(err, "no vertex locus")
	_, err = OnLine("p", "a", "dup").Space("p", known)
	assert.ErrorContains(err, "line undefined")
	_, err = LeftOf("p", "a", "dup").Space("p", known)
	assert.ErrorContains(err, "side undefined")
}

func TestCoincidentWith(t *testing.T) {
	type tc struct {
		Name string
		A, B gsolve.Constraint
		Same bool
	}

	for _, tt := range []tc{
		{Name: "duplicate distance", A: Distance("a", "b", 5), B: Distance("a", "b", 5), Same: true},
		{Name: "swapped distance", A: Distance("a", "b", 5), B: Distance("b", "a", 5), Same: true},
		{Name: "different distance value", A: Distance("a", "b", 5), B: Distance("a", "b", 6), Same: false},
		{Name: "different distance pair", A: Distance("a", "b", 5), B: Distance("a", "c", 5), Same: false},
		{Name: "same orientation", A: Orientation("a", "b", 1), B: Orientation("a", "b", 1), Same: true},
		{Name: "orientation full turn", A: Orientation("a", "b", 0), B: Orientation("a", "b", 2*math.Pi), Same: true},
		{Name: "orientation reversed", A: Orientation("a", "b", 1), B: Orientation("b", "a", 1 + math.Pi), Same: true},
		{Name: "orientation opposed", A: Orientation("a", "b", 1), B: Orientation("a", "b", 1 + math.Pi), Same: false},
		{Name: "horizontal swapped", A: Horizontal("a", "b"), B: Horizontal("b", "a"), Same: true},
		{Name: "horizontal versus vertical", A: Horizontal("a", "b"), B: Vertical("a", "b"), Same: false},
		{Name: "coincident swapped", A: Coincident("a", "b"), B: Coincident("b", "a"), Same: true},
		{Name: "same pin", A: Pin("a", geo.Vector{X: 1}), B: Pin("a", geo.Vector{X: 1}), Same: true},
		{Name: "pin elsewhere", A: Pin("a", geo.Vector{X: 1}), B: Pin("a", geo.Vector{X: 2}), Same: false},
		{Name: "midpoint swapped ends", A: Midpoint("m", "a", "b"), B: Midpoint("m", "b", "a"), Same: true},
		{Name: "midpoint different mid", A: Midpoint("m", "a", "b"), B: Midpoint("n", "a", "b"), Same: false},
		{Name: "angle reversed", A: Angle("a", "v", "b", 1), B: Angle("b", "v", "a", -1), Same: true},
		{Name: "angle different vertex", A: Angle("a", "v", "b", 1), B: Angle("a", "w", "b", 1), Same: false},
		{Name: "angle different value", A: Angle("a", "v", "b", 1), B: Angle("a", "v", "b", 1.5), Same: false},
		{Name: "on line permuted", A: OnLine("p", "a", "b"), B: OnLine("b", "a", "p"), Same: true},
		{Name: "on line different set", A: OnLine("p", "a", "b"), B: OnLine("p", "a", "c"), Same: false},
		{Name: "left of same", A: LeftOf("p", "a", "b"), B: LeftOf("p", "a", "b"), Same: true},
		{Name: "left of reversed side", A: LeftOf("p", "a", "b"), B: LeftOf("p", "b", "a"), Same: false},
		{Name: "cross kind", A: Distance("a", "b", 5), B: Horizontal("a", "b"), Same: false},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tt.Same, tt.A.CoincidentWith(tt.B))
			assert.Equal(tt.Same, tt.B.CoincidentWith(tt.A))
		})
	}
}

func TestConstraintProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("distance space holds exactly the circle", prop.ForAll(
		func(x, y, d, angle float64) bool {
			known := positions{"a": {X: x, Y: y}}
			space, err := Distance("a", "p", d).Space("p", known)
			if err != nil {
				return false
			}
			on := geo.Vector{X: x, Y: y}.Add(geo.FromAngle(angle).Scale(d))
			off := geo.Vector{X: x, Y: y}.Add(geo.FromAngle(angle).Scale(d + 1))
			return space.Contains(on) && !space.Contains(off)
		},
		gen.Float64Range(-100, 100),
		gen.Float64Range(-100, 100),
		gen.Float64Range(0.5, 50),
		gen.Float64Range(-math.Pi, math.Pi),
	))

	properties.Property("vertex locus sees the chord under the constrained angle", prop.ForAll(
		func(theta float64) bool {
			a := geo.Vector{X: -1, Y: 0}
			b := geo.Vector{X: 1, Y: 0}
			known := positions{"a": a, "b": b}
			space, err := Angle("a", "v", "b", theta).Space("v", known)
			if err != nil {
				// Degenerate near-collinear angles are rejected.
				return math.Abs(math.Sin(theta)) < 1e-6
			}
			arc, ok := space[0].(geo.Arc)
			if !ok {
				return false
			}
			for _, f := range []float64{0.1, 0.35, 0.5, 0.65, 0.9} {
				v := arc.C.Add(geo.FromAngle(arc.Start + arc.Sweep*f).Scale(arc.R))
				seen := normSigned(b.Sub(v).Angle() - a.Sub(v).Angle())
				if math.Abs(normSigned(seen-theta)) > 1e-6 {
					return false
				}
			}
			return true
		},
		gen.Float64Range(-3, 3),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
