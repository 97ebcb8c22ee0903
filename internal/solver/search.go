package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/GroveDG/gsolve/pkg/gsolve"
	"github.com/GroveDG/gsolve/pkg/gsolve/geo"
)

// search assigns a position to every point of one plan in order,
// backtracking over the finite candidate sets produced by intersecting
// possibility spaces. Candidates are tried in intersection order, so a
// given graph and plan always reach the same assignment.
type search struct {
	g      *Graph
	plan   *Plan
	asg    *assignment
	tracer gsolve.Tracer
	log    *zerolog.Logger
}

// frame holds one resolved entry's remaining candidates on the
// backtracking stack.
type frame struct {
	entry   int
	cands   []geo.Vector
	applied []gsolve.AppliedConstraint
	next    int
}

type searchPosition struct {
	subject    gsolve.Identifier
	candidates []geo.Vector
	conflicts  []gsolve.AppliedConstraint
}

var _ gsolve.SearchPosition = searchPosition{}

func (p searchPosition) Subject() gsolve.Identifier {
	return p.subject
}

func (p searchPosition) Candidates() []geo.Vector {
	return p.candidates
}

func (p searchPosition) Conflicts() []gsolve.AppliedConstraint {
	return p.conflicts
}

func (h *search) Do(ctx context.Context) (map[gsolve.Identifier]geo.Vector, error) {
	if err := h.preflight(); err != nil {
		return nil, err
	}
	h.log.Debug().Int("entries", len(h.plan.Entries)).Msg("searching resolution order")

	stack := make([]frame, 0, len(h.plan.Entries))
	entry := 0
	backtracks := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", gsolve.ErrCancelled, err)
		}
		if entry == len(h.plan.Entries) {
			h.log.Debug().Int("backtracks", backtracks).Msg("assignment found")
			return h.asg.positions(), nil
		}
		cands, applied, err := h.gather(entry)
		if err != nil {
			return nil, err
		}
		if len(cands) > 0 {
			h.tracer.Trace(searchPosition{
				subject:    h.g.ids[h.plan.Entries[entry].Point],
				candidates: cands,
			})
		}
		stack = append(stack, frame{entry: entry, cands: cands, applied: applied})

		for {
			f := &stack[len(stack)-1]
			if f.next < len(f.cands) {
				h.asg.set(h.plan.Entries[f.entry].Point, f.cands[f.next])
				f.next++
				entry = f.entry + 1
				break
			}
			h.tracer.Trace(searchPosition{
				subject:   h.g.ids[h.plan.Entries[f.entry].Point],
				conflicts: f.applied,
			})
			h.asg.unset(h.plan.Entries[f.entry].Point)
			stack = stack[:len(stack)-1]
			backtracks++
			if len(stack) == 0 {
				h.log.Debug().Int("backtracks", backtracks).Msg("resolution order exhausted")
				return nil, ErrExhausted
			}
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %w", gsolve.ErrCancelled, err)
			}
		}
	}
}

// gather computes the candidate positions for a plan entry. Every
// constraint that has become evaluable for the entry's point contributes
// its possibility space; the spaces intersect down to a finite candidate
// set. This covers more than the plan recorded: restated constraints and
// late region filters participate here even though they never credited
// discreteness.
func (h *search) gather(entry int) ([]geo.Vector, []gsolve.AppliedConstraint, error) {
	e := h.plan.Entries[entry]
	id := h.g.ids[e.Point]
	var spaces []geo.Space
	var applied []gsolve.AppliedConstraint
	for _, c := range h.g.incident[e.Point] {
		sub, ok := h.g.subject(c, h.asg.known)
		if !ok || sub != e.Point {
			continue
		}
		con := h.g.cons[c]
		sp, err := con.Space(id, h.asg)
		if err != nil {
			// The resolved positions leave this constraint without a
			// space, for example a line through two coincident points.
			// Another candidate upstream may avoid it, so this is a
			// dead end rather than a failure of the whole attempt.
			h.log.Debug().Str("constraint", con.String(id)).AnErr("cause", err).Msg("possibility space undefined")
			return nil, []gsolve.AppliedConstraint{{Point: id, Constraint: con}}, nil
		}
		spaces = append(spaces, sp)
		applied = append(applied, gsolve.AppliedConstraint{Point: id, Constraint: con})
	}
	if e.Seeded {
		return h.sample(id, spaces, applied)
	}
	cands, err := geo.Intersect(spaces...)
	if err == nil {
		return cands, applied, nil
	}
	var ce geo.CoincidentError
	if errors.As(err, &ce) {
		return nil, nil, gsolve.DegenerateError{
			Point: id,
			A:     applied[ce.I].Constraint,
			B:     applied[ce.J].Constraint,
		}
	}
	return nil, nil, fmt.Errorf("unexpected internal error: resolving %s: %w", id, err)
}

// sample resolves a seeded orbiter: its single curve fixes the figure's
// symmetry, so the canonical sample of each branch stands in for the
// whole curve. Region constraints still filter the samples.
func (h *search) sample(id gsolve.Identifier, spaces []geo.Space, applied []gsolve.AppliedConstraint) ([]geo.Vector, []gsolve.AppliedConstraint, error) {
	curve := -1
	for i, sp := range spaces {
		if sp.Dim() == geo.Dim1 {
			curve = i
			break
		}
	}
	if curve < 0 {
		return nil, nil, fmt.Errorf("unexpected internal error: no curve to seed %s from", id)
	}
	var cands []geo.Vector
	for _, l := range spaces[curve] {
		p := l.Sample()
		ok := true
		for j, sp := range spaces {
			if j == curve {
				continue
			}
			if !sp.Contains(p) {
				ok = false
				break
			}
		}
		if ok {
			cands = append(cands, p)
		}
	}
	return cands, applied, nil
}

// preflight checks the constraints that reference anchors only. No entry
// ever gathers them, and a violated one dooms every assignment before
// the search starts.
func (h *search) preflight() error {
	for c, con := range h.g.cons {
		if !h.g.anchored(c) {
			continue
		}
		p := h.g.refs[c][0]
		id := h.g.ids[p]
		sp, err := con.Space(id, h.asg)
		if err != nil {
			return fmt.Errorf("%s: %w", con.String(id), err)
		}
		if !sp.Contains(h.asg.pos[p]) {
			h.log.Debug().Str("constraint", con.String(id)).Msg("anchored positions violate constraint")
			return ErrExhausted
		}
	}
	return nil
}
