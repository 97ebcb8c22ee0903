package sketch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/GroveDG/gsolve/pkg/gsolve"
	"github.com/GroveDG/gsolve/pkg/gsolve/solver"
)

func NewSketchCommand() *cobra.Command {
	var (
		timeout  time.Duration
		parallel int
		attempts int
		trace    bool
	)
	cmd := &cobra.Command{
		Use:   "solve <path>",
		Short: "Solves the points of a sketch described in YAML",
		Long: `Solves the points of a sketch described in YAML. For instance:

# an equilateral triangle on one anchored corner
points: [b, c]
anchors:
  a: [0, 0]
quantities:
  side: 5
constraints:
  - kind: distance
    points: [a, b]
    ref: side
  - kind: distance
    points: [a, c]
    ref: side
  - kind: distance
    points: [b, c]
    ref: side

Each solved point is printed as 'name = (x, y)'.
`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("file (%s) not found", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return solve(args[0], timeout, parallel, attempts, trace)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up after this long (0 means no limit)")
	cmd.Flags().IntVar(&parallel, "parallel", 1, "number of resolution orders attempted concurrently")
	cmd.Flags().IntVar(&attempts, "attempts", 0, "number of resolution orders tried before giving up (0 means all)")
	cmd.Flags().BoolVar(&trace, "trace", false, "log every resolution step to stderr")
	return cmd
}

func solve(path string, timeout time.Duration, parallel, attempts int, trace bool) error {
	// open sketch file
	sketchFile, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening sketch file (%s): %w", path, err)
	}
	defer sketchFile.Close()

	file, err := NewSketchfile(sketchFile)
	if err != nil {
		return fmt.Errorf("error parsing sketch file (%s): %w", path, err)
	}
	sk, err := file.Sketch()
	if err != nil {
		return fmt.Errorf("error parsing sketch file (%s): %w", path, err)
	}

	// build solver
	options := []solver.Option{
		solver.WithParallelAttempts(parallel),
		solver.WithMaxAttempts(attempts),
	}
	if trace {
		options = append(options, solver.WithTracer(gsolve.LoggingTracer{Writer: os.Stderr}))
	}
	so, err := solver.New(options...)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// get solution
	solution, err := so.Solve(ctx, sk)
	if err != nil {
		return err
	}
	if err := solution.Error(); err != nil {
		return err
	}

	positions := solution.Positions()
	ids := make([]gsolve.Identifier, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		at := positions[id]
		fmt.Printf("%s = (%g, %g)\n", id, at.X, at.Y)
	}

	return nil
}
