// Package geo provides the plane geometry used by the solver: vectors,
// loci (possibility spaces for a single point), and their intersections.
//
// All comparisons are tolerance-based. Two values closer than Epsilon are
// treated as equal, which keeps chained constructions (rotations, circle
// intersections) from drifting out of their own constraints.
package geo

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used for all approximate comparisons.
const Epsilon = 1e-9

// AboutEq reports whether a and b differ by at most Epsilon.
func AboutEq(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// AboutZero reports whether a is within Epsilon of zero.
func AboutZero(a float64) bool {
	return math.Abs(a) <= Epsilon
}

// Vector is a point or direction in the plane.
type Vector struct {
	X, Y float64
}

// FromAngle returns the unit vector at the given angle, measured
// counterclockwise from the positive x axis.
func FromAngle(angle float64) Vector {
	return Vector{math.Cos(angle), math.Sin(angle)}
}

func (v Vector) Add(o Vector) Vector {
	return Vector{v.X + o.X, v.Y + o.Y}
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{v.X - o.X, v.Y - o.Y}
}

func (v Vector) Scale(s float64) Vector {
	return Vector{v.X * s, v.Y * s}
}

func (v Vector) Dot(o Vector) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3D cross product, positive when o
// lies counterclockwise of v.
func (v Vector) Cross(o Vector) float64 {
	return v.X*o.Y - v.Y*o.X
}

// Perp returns v rotated a quarter turn counterclockwise.
func (v Vector) Perp() Vector {
	return Vector{-v.Y, v.X}
}

func (v Vector) Mag() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vector) Dist(o Vector) float64 {
	return o.Sub(v).Mag()
}

// Unit returns v scaled to length one. The zero vector is returned
// unchanged.
func (v Vector) Unit() Vector {
	u, _ := v.UnitMag()
	return u
}

// UnitMag returns the unit vector of v together with its magnitude.
func (v Vector) UnitMag() (Vector, float64) {
	m := v.Mag()
	if AboutZero(m) {
		return Vector{}, 0
	}
	return Vector{v.X / m, v.Y / m}, m
}

// Rot returns v rotated counterclockwise by the given angle.
func (v Vector) Rot(angle float64) Vector {
	sin, cos := math.Sincos(angle)
	return Vector{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// Angle returns the angle of v measured counterclockwise from the positive
// x axis, in (-pi, pi].
func (v Vector) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// AboutEq reports whether both components of v and o are within Epsilon.
func (v Vector) AboutEq(o Vector) bool {
	return AboutEq(v.X, o.X) && AboutEq(v.Y, o.Y)
}

func (v Vector) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}
