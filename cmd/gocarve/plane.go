package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/gocarve/pkg/cache"
	"github.com/philipparndt/gocarve/pkg/clip"
	"github.com/philipparndt/gocarve/pkg/mesh"
	"github.com/spf13/cobra"
)

var planeCmd = &cobra.Command{
	Use:   "plane [file]",
	Short: "Clip a mesh against an infinite plane",
	Long: `Clip a mesh against the plane through --point with normal --normal,
keeping the half-space the normal points toward (or the opposite one with
--keep-negative). Triangles straddling the plane are re-triangulated with
vertices interpolated at the crossings, so the cut stays watertight.`,
	Args: cobra.ExactArgs(1),
	Run:  runPlane,
}

var (
	planePoint    string
	planeNormal   string
	planeKeepNeg  bool
	planeEpsilon  float64
	planeOutput   string
	planeCacheDir string
	planeWatch    bool
)

func init() {
	planeCmd.Flags().StringVarP(&planePoint, "point", "p", "0,0,0", "point on the plane as x,y,z")
	planeCmd.Flags().StringVarP(&planeNormal, "normal", "n", "0,0,1", "plane normal as x,y,z")
	planeCmd.Flags().BoolVar(&planeKeepNeg, "keep-negative", false, "keep the half-space opposite the normal")
	planeCmd.Flags().Float64VarP(&planeEpsilon, "epsilon", "e", clip.DefaultEpsilon, "clip tolerance in mesh units")
	planeCmd.Flags().StringVarP(&planeOutput, "output", "o", "", "output OBJ file (default: <file>.clipped.obj)")
	planeCmd.Flags().StringVar(&planeCacheDir, "cache-dir", "", "cache clipped results in this directory")
	planeCmd.Flags().BoolVarP(&planeWatch, "watch", "w", false, "re-clip whenever the input file changes")
	rootCmd.AddCommand(planeCmd)
}

func runPlane(cmd *cobra.Command, args []string) {
	point, err := parseVec3(planePoint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid --point: %v\n", err)
		os.Exit(1)
	}
	normal, err := parseVec3(planeNormal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid --normal: %v\n", err)
		os.Exit(1)
	}

	plane := clip.NewPlane(point, normal)
	keepPositive := !planeKeepNeg
	eps := planeEpsilon

	output := planeOutput
	if output == "" {
		output = args[0] + ".clipped.obj"
	}

	job := &clipJob{
		input:    args[0],
		output:   output,
		cacheDir: planeCacheDir,
		watch:    planeWatch,
		apply: func(m *mesh.Mesh) bool {
			return clip.ToHalfSpace(m, plane, keepPositive, eps)
		},
		key: func(meshID string) string {
			return cache.PlaneKey(meshID, plane, keepPositive, eps)
		},
	}
	if err := job.run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
