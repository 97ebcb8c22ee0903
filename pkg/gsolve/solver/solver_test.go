package solver_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gstruct"
	"github.com/onsi/gomega/types"

	"github.com/GroveDG/gsolve/pkg/gsolve"
	"github.com/GroveDG/gsolve/pkg/gsolve/constraint"
	"github.com/GroveDG/gsolve/pkg/gsolve/geo"
	"github.com/GroveDG/gsolve/pkg/gsolve/sketch"
	"github.com/GroveDG/gsolve/pkg/gsolve/solver"
)

func TestSolver(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Solver Suite")
}

type anchor struct {
	id gsolve.Identifier
	at geo.Vector
}

func NewSketch(anchors []anchor, points []gsolve.Identifier, constraints ...gsolve.Constraint) *sketch.Sketch {
	sk := sketch.New()
	for _, a := range anchors {
		Expect(sk.Anchor(a.id, a.at)).To(Succeed())
	}
	for _, id := range points {
		Expect(sk.Point(id)).To(Succeed())
	}
	for _, c := range constraints {
		Expect(sk.Constrain(c)).To(Succeed())
	}
	return sk
}

func NewTriangle() *sketch.Sketch {
	return NewSketch(
		[]anchor{{"a", geo.Vector{}}},
		[]gsolve.Identifier{"b", "c"},
		constraint.Distance("a", "b", 5),
		constraint.Distance("a", "c", 5),
		constraint.Distance("b", "c", 5),
	)
}

func BeAt(at geo.Vector) types.GomegaMatcher {
	return MatchAllFields(Fields{
		"X": BeNumerically("~", at.X, geo.Epsilon),
		"Y": BeNumerically("~", at.Y, geo.Epsilon),
	})
}

var _ = Describe("Solver", func() {
	It("should resolve a triangle of distances", func() {
		so, err := solver.New()
		Expect(err).ToNot(HaveOccurred())
		solution, err := so.Solve(context.Background(), NewTriangle())
		Expect(err).ToNot(HaveOccurred())
		Expect(solution.Error()).ToNot(HaveOccurred())
		Expect(solution.Attempts()).To(Equal(1))
		Expect(solution.Positions()).To(MatchAllKeys(Keys{
			gsolve.Identifier("a"): BeAt(geo.Vector{}),
			gsolve.Identifier("b"): BeAt(geo.Vector{X: 5}),
			gsolve.Identifier("c"): BeAt(geo.Vector{X: 2.5, Y: 2.5 * math.Sqrt(3)}),
		}))
	})

	It("should return untyped nil error from solution.Error() when there is a solution", func() {
		so, err := solver.New()
		Expect(err).ToNot(HaveOccurred())
		solution, err := so.Solve(context.Background(), NewTriangle())
		Expect(err).ToNot(HaveOccurred())
		Expect(solution).ToNot(BeNil())

		// Using this style for the assertion to ensure that gomega
		// doesn't equate nil errors of different types.
		if err := solution.Error(); err != nil {
			Fail(fmt.Sprintf("expected solution.Error() to be untyped nil, got %#v", solution.Error()))
		}
	})

	It("should report the points no resolution order can reach", func() {
		sk := NewSketch(
			[]anchor{{"a", geo.Vector{}}},
			[]gsolve.Identifier{"b"},
			constraint.Distance("a", "b", 5),
		)
		so, err := solver.New()
		Expect(err).ToNot(HaveOccurred())
		solution, err := so.Solve(context.Background(), sk)
		Expect(err).ToNot(HaveOccurred())
		var unordered gsolve.UnorderedError
		Expect(errors.As(solution.Error(), &unordered)).To(BeTrue())
		Expect(unordered).To(ConsistOf(gsolve.Identifier("b")))
		Expect(solution.Positions()).To(BeNil())
	})

	It("should not count a restated constraint twice", func() {
		sk := NewSketch(
			[]anchor{{"a", geo.Vector{}}},
			[]gsolve.Identifier{"b"},
			constraint.Distance("a", "b", 5),
			constraint.Distance("b", "a", 5),
		)
		so, err := solver.New()
		Expect(err).ToNot(HaveOccurred())
		solution, err := so.Solve(context.Background(), sk)
		Expect(err).ToNot(HaveOccurred())
		var unordered gsolve.UnorderedError
		Expect(errors.As(solution.Error(), &unordered)).To(BeTrue())
		Expect(unordered).To(ConsistOf(gsolve.Identifier("b")))
	})

	It("should place resolution errors in the solution", func() {
		sk := NewSketch(
			[]anchor{{"a", geo.Vector{}}, {"b", geo.Vector{X: 20}}},
			[]gsolve.Identifier{"c"},
			constraint.Distance("a", "c", 5),
			constraint.Distance("b", "c", 5),
		)
		so, err := solver.New()
		Expect(err).ToNot(HaveOccurred())
		solution, err := so.Solve(context.Background(), sk)
		Expect(err).ToNot(HaveOccurred())
		var exhausted gsolve.ExhaustedError
		Expect(errors.As(solution.Error(), &exhausted)).To(BeTrue())
		Expect(exhausted.Attempts).To(Equal(1))
		Expect(solution.Attempts()).To(Equal(1))
	})

	It("should surface degenerate constraints instead of searching past them", func() {
		sk := NewSketch(
			[]anchor{{"a", geo.Vector{X: 1, Y: 1}}, {"b", geo.Vector{X: 1, Y: 1}}},
			[]gsolve.Identifier{"c"},
			constraint.Distance("a", "c", 5),
			constraint.Distance("b", "c", 5),
		)
		so, err := solver.New()
		Expect(err).ToNot(HaveOccurred())
		solution, err := so.Solve(context.Background(), sk)
		Expect(err).ToNot(HaveOccurred())
		var degenerate gsolve.DegenerateError
		Expect(errors.As(solution.Error(), &degenerate)).To(BeTrue())
		Expect(degenerate.Point).To(Equal(gsolve.Identifier("c")))
	})

	It("should stop at the attempt budget", func() {
		sk := NewSketch(
			[]anchor{{"a", geo.Vector{}}},
			[]gsolve.Identifier{"b", "c"},
			constraint.Distance("a", "b", 1),
			constraint.Distance("a", "c", 1),
			constraint.Distance("b", "c", 10),
		)

		so, err := solver.New()
		Expect(err).ToNot(HaveOccurred())
		solution, err := so.Solve(context.Background(), sk)
		Expect(err).ToNot(HaveOccurred())
		var exhausted gsolve.ExhaustedError
		Expect(errors.As(solution.Error(), &exhausted)).To(BeTrue())
		Expect(exhausted.Attempts).To(Equal(2))

		so, err = solver.New(solver.WithMaxAttempts(1))
		Expect(err).ToNot(HaveOccurred())
		solution, err = so.Solve(context.Background(), sk)
		Expect(err).ToNot(HaveOccurred())
		Expect(errors.As(solution.Error(), &exhausted)).To(BeTrue())
		Expect(exhausted.Attempts).To(Equal(1))
	})

	It("should return peripheral errors", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		so, err := solver.New()
		Expect(err).ToNot(HaveOccurred())
		solution, err := so.Solve(ctx, NewTriangle())
		Expect(err).To(MatchError(gsolve.ErrCancelled))
		Expect(solution).To(BeNil())
	})

	It("should solve the same sketch identically in parallel", func() {
		seq, err := solver.New()
		Expect(err).ToNot(HaveOccurred())
		par, err := solver.New(solver.WithParallelAttempts(4))
		Expect(err).ToNot(HaveOccurred())

		want, err := seq.Solve(context.Background(), NewTriangle())
		Expect(err).ToNot(HaveOccurred())
		Expect(want.Error()).ToNot(HaveOccurred())
		got, err := par.Solve(context.Background(), NewTriangle())
		Expect(err).ToNot(HaveOccurred())
		Expect(got.Error()).ToNot(HaveOccurred())
		Expect(got.Positions()).To(Equal(want.Positions()))
	})

	It("should reject nonsense budgets", func() {
		_, err := solver.New(solver.WithMaxAttempts(-1))
		Expect(err).To(MatchError("max attempts must not be negative"))
		_, err = solver.New(solver.WithParallelAttempts(0))
		Expect(err).To(MatchError("parallel attempts must be at least 1"))
	})
})
