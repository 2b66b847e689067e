package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/gocarve/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gocarve",
	Short: "A CLI tool for clipping triangle meshes against planes and bore volumes",
	Long: `gocarve clips indexed triangle meshes. It can cut a mesh against an
infinite plane (keeping either half-space, with watertight re-triangulation
at the cut) or carve it with a bore volume shaped by a piecewise-linear
radius profile. Meshes are read and written as Wavefront OBJ or STL, and
results can be cached on disk keyed by the clip parameters.`,
	Version: version.GetVersion(),
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
