package root

import (
	"github.com/spf13/cobra"

	"github.com/GroveDG/gsolve/cmd/polygon"

	"github.com/GroveDG/gsolve/cmd/sketch"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gsolve",
		Short: "Gsolve is an open-source geometric constraint solver",
		Long: `An open-source geometric constraint solver written in Go.
For more information visit https://github.com/GroveDG/gsolve`,
	}

	// add sub-commands
	rootCmd.AddCommand(sketch.NewSketchCommand())
	rootCmd.AddCommand(polygon.NewPolygonCommand())

	return rootCmd
}
