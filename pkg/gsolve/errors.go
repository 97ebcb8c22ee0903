package gsolve

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCancelled is returned when the context passed to Solve expires
// before an assignment is found. It says nothing about whether a
// solution exists.
var ErrCancelled = errors.New("cancelled before a solution could be found")

// UnorderedError is returned when no safe resolution order exists: the
// listed points never accumulated enough independent constraints to
// become discrete.
type UnorderedError []Identifier

func (e UnorderedError) Error() string {
	const msg = "no safe resolution order"
	if len(e) == 0 {
		return msg
	}
	s := make([]string, len(e))
	for i, id := range e {
		s[i] = id.String()
	}
	return fmt.Sprintf("%s: not enough constraints to determine: %s", msg, strings.Join(s, ", "))
}

// ExhaustedError is returned when every candidate in every attempted
// resolution order has been tried without producing an assignment that
// satisfies all constraints. It does not claim that no solution exists,
// only that none was found within the budget.
type ExhaustedError struct {
	// Attempts is the number of resolution orders tried.
	Attempts int
}

func (e ExhaustedError) Error() string {
	return fmt.Sprintf("no solution found: exhausted %d resolution order(s)", e.Attempts)
}

// DegenerateError is returned when the concrete positions of an attempt
// make two constraints redundant, their possibility spaces collapsing
// onto the same curve, and nothing else can pin the point down. The
// figure needs a different constraint, not more search.
type DegenerateError struct {
	Point Identifier
	A, B  Constraint
}

func (e DegenerateError) Error() string {
	return fmt.Sprintf(
		"degenerate constraints on %s: %s coincides with %s",
		e.Point, e.A.String(e.Point), e.B.String(e.Point),
	)
}
