package main

import (
	"fmt"

	"github.com/chazu/shapekit/pkg/shapes"
	"github.com/spf13/cobra"
)

func newShapesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shapes",
		Short: "List parametric surfaces and marker symbols",
		Long: `List the names accepted by (parametric ...) and (marker ...). Either
builtin also takes the index shown here; parametric indices wrap around.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Parametric surfaces:")
			for i, name := range shapes.SurfaceNames() {
				fmt.Fprintf(out, "  %2d  %s\n", i, name)
			}
			fmt.Fprintln(out, "Markers:")
			for i, sym := range shapes.MarkerSymbols() {
				fmt.Fprintf(out, "  %2d  %s\n", i, sym)
			}
			return nil
		},
	}
}
