package solver

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/GroveDG/gsolve/internal/solver"
	"github.com/GroveDG/gsolve/logger"
	"github.com/GroveDG/gsolve/pkg/gsolve"
	"github.com/GroveDG/gsolve/pkg/gsolve/geo"
	"github.com/GroveDG/gsolve/pkg/gsolve/sketch"
)

// Solution is returned by the Solver when solving executed successfully.
// A successful execution can still end in a resolution error when no
// assignment satisfying every constraint was found.
type Solution struct {
	err       error
	positions map[gsolve.Identifier]geo.Vector
	attempts  int
}

// Error returns the resolution error when the figure could not be
// solved: no safe resolution order exists (UnorderedError), every order
// was exhausted (ExhaustedError), or degenerate constraints blocked
// every order (DegenerateError). On successful resolution it returns
// nil.
func (s *Solution) Error() error {
	return s.err
}

// Positions returns one concrete position per point, anchors included.
// It is nil when Error is non-nil.
func (s *Solution) Positions() map[gsolve.Identifier]geo.Vector {
	return s.positions
}

// Position returns the resolved position of a single point.
func (s *Solution) Position(id gsolve.Identifier) (geo.Vector, bool) {
	at, ok := s.positions[id]
	return at, ok
}

// Attempts returns the number of resolution orders tried, counting the
// one that succeeded.
func (s *Solution) Attempts() int {
	return s.attempts
}

// Solver resolves the unknown points of a sketch to concrete positions.
// The zero configuration tries every resolution order sequentially; a
// Solver is safe to reuse across sketches.
type Solver struct {
	tracer      gsolve.Tracer
	log         *zerolog.Logger
	maxAttempts int
	parallel    int
}

func New(options ...Option) (*Solver, error) {
	s := Solver{}
	for _, option := range append(options, defaults...) {
		if err := option(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

type Option func(s *Solver) error

// WithTracer attaches a tracer to every assignment search the solver
// runs.
func WithTracer(t gsolve.Tracer) Option {
	return func(s *Solver) error {
		s.tracer = t
		return nil
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Solver) error {
		s.log = &log
		return nil
	}
}

// WithMaxAttempts bounds the number of resolution orders tried before
// giving up. Zero means no bound.
func WithMaxAttempts(n int) Option {
	return func(s *Solver) error {
		if n < 0 {
			return errors.New("max attempts must not be negative")
		}
		s.maxAttempts = n
		return nil
	}
}

// WithParallelAttempts solves up to n resolution orders concurrently.
// Results are accepted in order, so the outcome is identical to solving
// sequentially.
func WithParallelAttempts(n int) Option {
	return func(s *Solver) error {
		if n < 1 {
			return errors.New("parallel attempts must be at least 1")
		}
		s.parallel = n
		return nil
	}
}

var defaults = []Option{
	func(s *Solver) error {
		if s.tracer == nil {
			s.tracer = gsolve.DefaultTracer{}
		}
		return nil
	},
	func(s *Solver) error {
		if s.log == nil {
			log := logger.Logger()
			s.log = &log
		}
		return nil
	},
	func(s *Solver) error {
		if s.parallel == 0 {
			s.parallel = 1
		}
		return nil
	},
}

// Solve compiles the sketch and attempts its resolution orders until one
// yields an assignment satisfying every constraint. The same sketch and
// configuration always produce the same solution. If the provided
// Context times out or is cancelled, an error is returned.
func (s *Solver) Solve(ctx context.Context, sk *sketch.Sketch) (*Solution, error) {
	g, err := solver.Compile(sk)
	if err != nil {
		return nil, err
	}

	tracer := s.tracer
	if s.parallel > 1 {
		tracer = &lockedTracer{t: tracer}
	}
	inner, err := solver.NewSolver(
		solver.WithGraph(g),
		solver.WithTracer(tracer),
		solver.WithLogger(*s.log),
	)
	if err != nil {
		return nil, err
	}

	planner := solver.NewPlanner(g)
	attempts := 0
	var degenerate error

	for {
		batch, err := s.pull(ctx, planner, attempts)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}

		outcomes := make([]outcome, len(batch))
		var grp errgroup.Group
		for i, plan := range batch {
			i, plan := i, plan
			grp.Go(func() error {
				positions, err := inner.Solve(ctx, plan)
				outcomes[i] = outcome{positions: positions, err: err}
				return nil
			})
		}
		if err := grp.Wait(); err != nil {
			return nil, err
		}

		for _, out := range outcomes {
			attempts++
			switch {
			case out.err == nil:
				s.log.Debug().Int("attempts", attempts).Msg("sketch solved")
				return &Solution{positions: out.positions, attempts: attempts}, nil
			case errors.Is(out.err, solver.ErrExhausted):
			case errors.As(out.err, &gsolve.DegenerateError{}):
				if degenerate == nil {
					degenerate = out.err
				}
			default:
				return nil, out.err
			}
			s.log.Debug().Int("attempt", attempts).AnErr("cause", out.err).Msg("resolution order failed")
		}
	}

	if attempts == 0 {
		return &Solution{err: gsolve.UnorderedError(planner.Unplanned())}, nil
	}
	if degenerate != nil {
		return &Solution{err: degenerate, attempts: attempts}, nil
	}
	return &Solution{err: gsolve.ExhaustedError{Attempts: attempts}, attempts: attempts}, nil
}

// pull collects the next batch of plans, at most parallel at a time and
// never past the attempt budget.
func (s *Solver) pull(ctx context.Context, planner *solver.Planner, attempts int) ([]*solver.Plan, error) {
	var batch []*solver.Plan
	for len(batch) < s.parallel {
		if s.maxAttempts > 0 && attempts+len(batch) >= s.maxAttempts {
			break
		}
		plan, err := planner.Next(ctx)
		if err != nil {
			return nil, err
		}
		if plan == nil {
			break
		}
		batch = append(batch, plan)
	}
	return batch, nil
}

type outcome struct {
	positions map[gsolve.Identifier]geo.Vector
	err       error
}

// lockedTracer serializes the trace calls of parallel attempts.
type lockedTracer struct {
	mu sync.Mutex
	t  gsolve.Tracer
}

func (l *lockedTracer) Trace(p gsolve.SearchPosition) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.t.Trace(p)
}
