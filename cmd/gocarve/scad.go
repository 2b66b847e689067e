package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/philipparndt/gocarve/pkg/openscad"
	"github.com/spf13/cobra"
)

var scadCmd = &cobra.Command{
	Use:   "scad [file]",
	Short: "Export a bore as an OpenSCAD script",
	Long: `Write an OpenSCAD script applying the bore volume to the mesh file,
so the cut can be inspected or reproduced in CAD. The script subtracts the
revolved radius profile from the imported mesh, or intersects with it when
--keep-inside is set. With --render the script is also rendered to STL
using the openscad binary.`,
	Args: cobra.ExactArgs(1),
	Run:  runScad,
}

var (
	scadOutput string
	scadRender string
)

func init() {
	scadCmd.Flags().StringVarP(&boreCenter, "center", "c", "0,0,0", "bore origin as x,y,z")
	scadCmd.Flags().StringVarP(&boreAxis, "axis", "a", "0,0,1", "bore axis as x,y,z")
	scadCmd.Flags().Float64Var(&boreStart, "start", 0, "axial start offset along the axis")
	scadCmd.Flags().Float64VarP(&boreLength, "length", "l", 1, "axial length of the bore")
	scadCmd.Flags().StringVarP(&boreProfile, "profile", "r", "1",
		"radius profile: a constant radius or up to 4 position:radius points")
	scadCmd.Flags().BoolVar(&boreKeepInside, "keep-inside", false, "intersect with the bore instead of subtracting it")
	scadCmd.Flags().StringVarP(&scadOutput, "output", "o", "", "output .scad file (default: <file>.scad)")
	scadCmd.Flags().StringVar(&scadRender, "render", "", "render the script to this STL file with openscad")
	rootCmd.AddCommand(scadCmd)
}

func runScad(cmd *cobra.Command, args []string) {
	vol, err := boreVolumeFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	output := scadOutput
	if output == "" {
		output = args[0] + ".scad"
	}

	file, err := os.Create(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create %s: %v\n", output, err)
		os.Exit(1)
	}
	w := bufio.NewWriter(file)
	if err := openscad.WriteBore(w, vol, args[0], boreKeepInside); err == nil {
		err = w.Flush()
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write %s: %v\n", output, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", output)

	if scadRender != "" {
		if err := openscad.Render(output, scadRender); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Rendered %s\n", scadRender)
	}
}
