package gsolve

import (
	"fmt"
	"io"

	"github.com/GroveDG/gsolve/pkg/gsolve/geo"
)

// SearchPosition is a snapshot of the assignment search, reported when a
// point is resolved to a candidate and when a dead end forces a backtrack.
type SearchPosition interface {
	// Subject returns the point the step applies to.
	Subject() Identifier
	// Candidates returns the candidate positions gathered for the subject,
	// in the order they will be tried. It is empty on a backtrack step.
	Candidates() []geo.Vector
	// Conflicts returns the constraints that emptied the candidate set on
	// a backtrack step, when they can be attributed.
	Conflicts() []AppliedConstraint
}

type Tracer interface {
	Trace(p SearchPosition)
}

// DefaultTracer discards every trace.
type DefaultTracer struct{}

func (DefaultTracer) Trace(_ SearchPosition) {
}

// LoggingTracer writes a human-readable record of each search step.
type LoggingTracer struct {
	Writer io.Writer
}

func (t LoggingTracer) Trace(p SearchPosition) {
	if len(p.Candidates()) > 0 {
		fmt.Fprintf(t.Writer, "---\nResolving %s, candidates:\n", p.Subject())
		for _, c := range p.Candidates() {
			fmt.Fprintf(t.Writer, "- %s\n", c)
		}
		return
	}
	fmt.Fprintf(t.Writer, "---\nDead end at %s, conflicts:\n", p.Subject())
	for _, a := range p.Conflicts() {
		fmt.Fprintf(t.Writer, "- %s\n", a)
	}
}
