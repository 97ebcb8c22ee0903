package polygon

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GroveDG/gsolve/pkg/gsolve/solver"
)

func NewPolygonCommand() *cobra.Command {
	var (
		sides  int
		radius float64
	)
	cmd := &cobra.Command{
		Use:   "polygon",
		Short: "Returns the solved vertices of a regular polygon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return solve(sides, radius)
		},
	}
	cmd.Flags().IntVar(&sides, "sides", 5, "number of sides")
	cmd.Flags().Float64Var(&radius, "radius", 1, "circumradius of the polygon")
	return cmd
}

func solve(sides int, radius float64) error {
	sk, err := NewPolygon(sides, radius)
	if err != nil {
		return err
	}

	so, err := solver.New()
	if err != nil {
		return err
	}
	solution, err := so.Solve(context.Background(), sk)
	if err != nil {
		return err
	}
	if err := solution.Error(); err != nil {
		return err
	}

	for i := 0; i < sides; i++ {
		at, _ := solution.Position(VertexID(i))
		fmt.Printf("%s = (%g, %g)\n", VertexID(i), at.X, at.Y)
	}

	return nil
}
