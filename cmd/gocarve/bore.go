package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/gocarve/pkg/cache"
	"github.com/philipparndt/gocarve/pkg/clip"
	"github.com/philipparndt/gocarve/pkg/mesh"
	"github.com/spf13/cobra"
)

var boreCmd = &cobra.Command{
	Use:   "bore [file]",
	Short: "Carve a mesh with a bore volume",
	Long: `Clip a mesh against a solid of revolution: a radius profile swept
along --axis from --start over --length, measured from --center. By default
geometry inside the bore is removed (triangles touching the inside are
dropped whole); --keep-inside inverts that and keeps anything the bore
touches. Boundary triangles are never split, which keeps the cut robust
against the curved surface at the cost of a slightly rougher edge.`,
	Args: cobra.ExactArgs(1),
	Run:  runBore,
}

var (
	boreCenter     string
	boreAxis       string
	boreStart      float64
	boreLength     float64
	boreProfile    string
	borePreserve   float64
	boreKeepInside bool
	boreEpsilon    float64
	boreOutput     string
	boreCacheDir   string
	boreWatch      bool
)

func init() {
	boreCmd.Flags().StringVarP(&boreCenter, "center", "c", "0,0,0", "bore origin as x,y,z")
	boreCmd.Flags().StringVarP(&boreAxis, "axis", "a", "0,0,1", "bore axis as x,y,z")
	boreCmd.Flags().Float64Var(&boreStart, "start", 0, "axial start offset along the axis")
	boreCmd.Flags().Float64VarP(&boreLength, "length", "l", 1, "axial length of the bore")
	boreCmd.Flags().StringVarP(&boreProfile, "profile", "r", "1",
		"radius profile: a constant radius or up to 4 position:radius points, e.g. 0:1.5,0.2:1.2,1:0.8")
	boreCmd.Flags().Float64Var(&borePreserve, "preserve", 0, "depth at the start of the bore where nothing is removed")
	boreCmd.Flags().BoolVar(&boreKeepInside, "keep-inside", false, "keep geometry touching the bore instead of removing it")
	boreCmd.Flags().Float64VarP(&boreEpsilon, "epsilon", "e", clip.DefaultEpsilon, "clip tolerance in mesh units")
	boreCmd.Flags().StringVarP(&boreOutput, "output", "o", "", "output OBJ file (default: <file>.bored.obj)")
	boreCmd.Flags().StringVar(&boreCacheDir, "cache-dir", "", "cache clipped results in this directory")
	boreCmd.Flags().BoolVarP(&boreWatch, "watch", "w", false, "re-clip whenever the input file changes")
	rootCmd.AddCommand(boreCmd)
}

func runBore(cmd *cobra.Command, args []string) {
	vol, err := boreVolumeFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	keepInside := boreKeepInside
	eps := boreEpsilon

	output := boreOutput
	if output == "" {
		output = args[0] + ".bored.obj"
	}

	job := &clipJob{
		input:    args[0],
		output:   output,
		cacheDir: boreCacheDir,
		watch:    boreWatch,
		apply: func(m *mesh.Mesh) bool {
			return clip.ToBoreVolume(m, vol, keepInside, eps)
		},
		key: func(meshID string) string {
			return cache.BoreKey(meshID, vol, keepInside, eps)
		},
	}
	if err := job.run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func boreVolumeFromFlags() (clip.BoreVolume, error) {
	center, err := parseVec3(boreCenter)
	if err != nil {
		return clip.BoreVolume{}, fmt.Errorf("invalid --center: %w", err)
	}
	axis, err := parseVec3(boreAxis)
	if err != nil {
		return clip.BoreVolume{}, fmt.Errorf("invalid --axis: %w", err)
	}
	profile, err := parseProfile(boreProfile)
	if err != nil {
		return clip.BoreVolume{}, fmt.Errorf("invalid --profile: %w", err)
	}
	return clip.BoreVolume{
		Center:        center,
		Axis:          axis,
		Start:         boreStart,
		Length:        boreLength,
		Profile:       profile,
		PreserveDepth: borePreserve,
	}, nil
}
