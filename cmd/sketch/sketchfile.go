package sketch

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/GroveDG/gsolve/pkg/gsolve"
	"github.com/GroveDG/gsolve/pkg/gsolve/constraint"
	"github.com/GroveDG/gsolve/pkg/gsolve/geo"
	"github.com/GroveDG/gsolve/pkg/gsolve/quantity"
	"github.com/GroveDG/gsolve/pkg/gsolve/sketch"
)

// Sketchfile is the YAML description of a figure: its points, anchors,
// shared quantities and constraints.
type Sketchfile struct {
	Points      []string              `yaml:"points"`
	Anchors     map[string][2]float64 `yaml:"anchors"`
	Quantities  map[string]float64    `yaml:"quantities"`
	Constraints []constraintEntry     `yaml:"constraints"`
}

type constraintEntry struct {
	Kind    string      `yaml:"kind"`
	Points  []string    `yaml:"points"`
	At      *[2]float64 `yaml:"at"`
	Value   *float64    `yaml:"value"`
	Degrees *float64    `yaml:"degrees"`
	Ref     string      `yaml:"ref"`
	Ops     []opEntry   `yaml:"ops"`
}

type opEntry struct {
	Add *float64 `yaml:"add"`
	Mul *float64 `yaml:"mul"`
	Pow *float64 `yaml:"pow"`
}

// NewSketchfile decodes a sketch file from the YAML stream afforded by
// sketchReader.
func NewSketchfile(sketchReader io.Reader) (*Sketchfile, error) {
	decoder := yaml.NewDecoder(sketchReader)
	decoder.KnownFields(true)

	var file Sketchfile
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("error reading sketch data: %w", err)
	}
	if len(file.Points)+len(file.Anchors) == 0 {
		return nil, fmt.Errorf("invalid format: no points or anchors found")
	}
	if len(file.Constraints) == 0 {
		return nil, fmt.Errorf("invalid format: no constraints found")
	}
	return &file, nil
}

// Sketch declares the points and constraints of the file on a fresh
// sketch. Anchors are declared in name order so repeated runs resolve
// identically.
func (f *Sketchfile) Sketch() (*sketch.Sketch, error) {
	sk := sketch.New()

	names := make([]string, 0, len(f.Anchors))
	for name := range f.Anchors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		at := f.Anchors[name]
		if err := sk.Anchor(gsolve.Identifier(name), geo.Vector{X: at[0], Y: at[1]}); err != nil {
			return nil, fmt.Errorf("invalid anchor (%s): %w", name, err)
		}
	}
	for _, name := range f.Points {
		if err := sk.Point(gsolve.Identifier(name)); err != nil {
			return nil, fmt.Errorf("invalid point (%s): %w", name, err)
		}
	}

	for i, e := range f.Constraints {
		c, err := e.constraint(f.Quantities)
		if err == nil {
			err = sk.Constrain(c)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid constraint #%d (%s): %w", i+1, e.Kind, err)
		}
	}
	return sk, nil
}

func (e constraintEntry) constraint(quantities map[string]float64) (gsolve.Constraint, error) {
	ids, err := e.identifiers(arity(e.Kind))
	if err != nil {
		return nil, err
	}
	switch e.Kind {
	case "pin":
		if e.At == nil {
			return nil, errors.New("needs an at position")
		}
		return constraint.Pin(ids[0], geo.Vector{X: e.At[0], Y: e.At[1]}), nil
	case "distance":
		d, err := e.scalar("value", e.Value, quantities)
		if err != nil {
			return nil, err
		}
		return constraint.Distance(ids[0], ids[1], d), nil
	case "orientation":
		deg, err := e.scalar("degrees", e.Degrees, quantities)
		if err != nil {
			return nil, err
		}
		return constraint.Orientation(ids[0], ids[1], deg*math.Pi/180), nil
	case "horizontal":
		return constraint.Horizontal(ids[0], ids[1]), nil
	case "vertical":
		return constraint.Vertical(ids[0], ids[1]), nil
	case "coincident":
		return constraint.Coincident(ids[0], ids[1]), nil
	case "midpoint":
		return constraint.Midpoint(ids[0], ids[1], ids[2]), nil
	case "angle":
		deg, err := e.scalar("degrees", e.Degrees, quantities)
		if err != nil {
			return nil, err
		}
		return constraint.Angle(ids[0], ids[1], ids[2], deg*math.Pi/180), nil
	case "online":
		return constraint.OnLine(ids[0], ids[1], ids[2]), nil
	case "leftof":
		return constraint.LeftOf(ids[0], ids[1], ids[2]), nil
	}
	return nil, fmt.Errorf("unknown constraint kind %q", e.Kind)
}

// arity returns the number of points each constraint kind relates. An
// unknown kind returns 0 and is rejected by the kind switch instead.
func arity(kind string) int {
	switch kind {
	case "pin":
		return 1
	case "distance", "orientation", "horizontal", "vertical", "coincident":
		return 2
	case "midpoint", "angle", "online", "leftof":
		return 3
	}
	return 0
}

func (e constraintEntry) identifiers(n int) ([]gsolve.Identifier, error) {
	if n > 0 && len(e.Points) != n {
		return nil, fmt.Errorf("relates exactly %d points, got %d", n, len(e.Points))
	}
	ids := make([]gsolve.Identifier, len(e.Points))
	for i, name := range e.Points {
		ids[i] = gsolve.Identifier(name)
	}
	return ids, nil
}

// scalar resolves the scalar of a constraint: either the literal field
// named by what, or a quantity reference run through its op chain.
func (e constraintEntry) scalar(what string, literal *float64, quantities map[string]float64) (float64, error) {
	switch {
	case literal != nil && e.Ref != "":
		return 0, fmt.Errorf("%s and ref are mutually exclusive", what)
	case literal != nil:
		return *literal, nil
	case e.Ref == "":
		return 0, fmt.Errorf("needs a %s or a ref", what)
	}
	base, ok := quantities[e.Ref]
	if !ok {
		return 0, fmt.Errorf("unknown quantity %q", e.Ref)
	}
	chain, err := chainOf(e.Ops)
	if err != nil {
		return 0, err
	}
	return chain.Apply(base), nil
}

func chainOf(ops []opEntry) (quantity.Chain, error) {
	chain := make(quantity.Chain, 0, len(ops))
	for i, op := range ops {
		switch {
		case op.Add != nil && op.Mul == nil && op.Pow == nil:
			chain = append(chain, quantity.Add(*op.Add))
		case op.Mul != nil && op.Add == nil && op.Pow == nil:
			chain = append(chain, quantity.Mul(*op.Mul))
		case op.Pow != nil && op.Add == nil && op.Mul == nil:
			chain = append(chain, quantity.Pow(*op.Pow))
		default:
			return nil, fmt.Errorf("op #%d: needs exactly one of add, mul or pow", i+1)
		}
	}
	return chain, nil
}
