package solver

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/GroveDG/gsolve/logger"
	"github.com/GroveDG/gsolve/pkg/gsolve"
	"github.com/GroveDG/gsolve/pkg/gsolve/geo"
)

// ErrExhausted is returned by Solve when every candidate of every entry
// in the plan has been tried without satisfying all constraints.
var ErrExhausted = errors.New("resolution order exhausted")

type Solver interface {
	Solve(ctx context.Context, plan *Plan) (map[gsolve.Identifier]geo.Vector, error)
}

type solver struct {
	g      *Graph
	tracer gsolve.Tracer
	log    *zerolog.Logger
}

// Solve runs the assignment search along one resolution order and
// returns a full point-to-position map, anchors included. If the plan
// cannot be satisfied, or if the provided Context times out or is
// cancelled, an error is returned.
func (s *solver) Solve(ctx context.Context, plan *Plan) (map[gsolve.Identifier]geo.Vector, error) {
	h := &search{
		g:      s.g,
		plan:   plan,
		asg:    newAssignment(s.g),
		tracer: s.tracer,
		log:    s.log,
	}
	return h.Do(ctx)
}

func NewSolver(options ...Option) (Solver, error) {
	s := solver{}
	for _, option := range append(options, defaults...) {
		if err := option(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

type Option func(s *solver) error

func WithGraph(g *Graph) Option {
	return func(s *solver) error {
		s.g = g
		return nil
	}
}

func WithTracer(t gsolve.Tracer) Option {
	return func(s *solver) error {
		s.tracer = t
		return nil
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *solver) error {
		s.log = &log
		return nil
	}
}

var defaults = []Option{
	func(s *solver) error {
		if s.g == nil {
			return errors.New("a compiled graph is required")
		}
		return nil
	},
	func(s *solver) error {
		if s.tracer == nil {
			s.tracer = gsolve.DefaultTracer{}
		}
		return nil
	},
	func(s *solver) error {
		if s.log == nil {
			log := logger.Logger()
			s.log = &log
		}
		return nil
	},
}
