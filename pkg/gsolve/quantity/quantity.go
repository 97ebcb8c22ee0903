// Package quantity expresses scalar values derived from shared base
// quantities through chains of reversible arithmetic steps.
//
// Constraints in one figure often share a dimension: half a width, twice a
// radius. Deriving them from one base quantity keeps the figure consistent
// when the base changes, and the chains stay invertible so a known derived
// value can be solved back to its base.
package quantity

import (
	"fmt"
	"math"
	"strings"
)

// Op is a single reversible arithmetic step.
type Op interface {
	// Apply evaluates the step on x.
	Apply(x float64) float64
	// Inverse returns the step undoing the receiver.
	Inverse() Op
	String() string
}

type add float64

func (a add) Apply(x float64) float64 { return x + float64(a) }
func (a add) Inverse() Op             { return add(-a) }
func (a add) String() string          { return fmt.Sprintf("+ %g", float64(a)) }

type mul float64

func (m mul) Apply(x float64) float64 { return x * float64(m) }
func (m mul) Inverse() Op             { return mul(1 / float64(m)) }
func (m mul) String() string          { return fmt.Sprintf("* %g", float64(m)) }

type pow float64

func (p pow) Apply(x float64) float64 { return math.Pow(x, float64(p)) }
func (p pow) Inverse() Op             { return pow(1 / float64(p)) }
func (p pow) String() string          { return fmt.Sprintf("^ %g", float64(p)) }

// Add returns the step adding n.
func Add(n float64) Op {
	return add(n)
}

// Mul returns the step multiplying by n. n must be nonzero for the step
// to stay reversible.
func Mul(n float64) Op {
	return mul(n)
}

// Pow returns the step raising to the n-th power. n must be nonzero for
// the step to stay reversible.
func Pow(n float64) Op {
	return pow(n)
}

// Chain is a sequence of steps applied left to right.
type Chain []Op

// Apply evaluates the chain on x.
func (c Chain) Apply(x float64) float64 {
	for _, op := range c {
		x = op.Apply(x)
	}
	return x
}

// Inverse returns the chain undoing c: the inverses of its steps in
// reverse order.
func (c Chain) Inverse() Chain {
	out := make(Chain, 0, len(c))
	for i := len(c) - 1; i >= 0; i-- {
		out = append(out, c[i].Inverse())
	}
	return out
}

func (c Chain) String() string {
	if len(c) == 0 {
		return "identity"
	}
	parts := make([]string, len(c))
	for i, op := range c {
		parts[i] = op.String()
	}
	return strings.Join(parts, " ")
}

// SolveForLeft takes the two sides of an equation l(x) == r(y) and returns
// the chain computing x from y.
func SolveForLeft(l, r Chain) Chain {
	out := make(Chain, 0, len(r)+len(l))
	out = append(out, r...)
	return append(out, l.Inverse()...)
}
