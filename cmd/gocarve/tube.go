package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/gocarve/pkg/clip"
	"github.com/philipparndt/gocarve/pkg/meshio"
	"github.com/spf13/cobra"
)

var tubeCmd = &cobra.Command{
	Use:   "tube",
	Short: "Generate a preview mesh of a bore surface",
	Long: `Generate the tube mesh a bore volume sweeps out. The tube uses the
same radius evaluator as the bore clip itself, so the preview always shows
exactly the surface the clip would cut along.`,
	Args: cobra.NoArgs,
	Run:  runTube,
}

var (
	tubeRings    int
	tubeSegments int
	tubeOutput   string
)

func init() {
	tubeCmd.Flags().StringVarP(&boreCenter, "center", "c", "0,0,0", "bore origin as x,y,z")
	tubeCmd.Flags().StringVarP(&boreAxis, "axis", "a", "0,0,1", "bore axis as x,y,z")
	tubeCmd.Flags().Float64Var(&boreStart, "start", 0, "axial start offset along the axis")
	tubeCmd.Flags().Float64VarP(&boreLength, "length", "l", 1, "axial length of the bore")
	tubeCmd.Flags().StringVarP(&boreProfile, "profile", "r", "1",
		"radius profile: a constant radius or up to 4 position:radius points")
	tubeCmd.Flags().IntVar(&tubeRings, "rings", 16, "number of axial stations")
	tubeCmd.Flags().IntVar(&tubeSegments, "segments", 32, "number of vertices per ring")
	tubeCmd.Flags().StringVarP(&tubeOutput, "output", "o", "tube.obj", "output OBJ file")
	rootCmd.AddCommand(tubeCmd)
}

func runTube(cmd *cobra.Command, args []string) {
	vol, err := boreVolumeFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m := clip.Tube(vol, tubeRings, tubeSegments)
	if err := meshio.Write(tubeOutput, m); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write tube: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d triangles)\n", tubeOutput, m.TriangleCount())
}
