// Package openscad exports bore volumes as OpenSCAD scripts, so a cut
// can be inspected or reproduced in CAD, and shells out to the openscad
// binary to render a script to STL.
package openscad

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os/exec"
	"sort"
	"strings"

	"github.com/philipparndt/gocarve/pkg/clip"
	"github.com/philipparndt/gocarve/pkg/geometry"
)

// WriteBore emits an OpenSCAD script that applies the bore volume to
// the mesh file: a difference() when boring, an intersection() when
// keeping the inside. The bore solid is a rotate_extrude of the radius
// profile polygon, positioned on the bore axis.
func WriteBore(w io.Writer, vol clip.BoreVolume, meshFile string, keepInside bool) error {
	op := "difference"
	if keepInside {
		op = "intersection"
	}

	if _, err := fmt.Fprintf(w, "// generated by gocarve\n%s() {\n  import(%q);\n", op, meshFile); err != nil {
		return err
	}
	if err := writeBoreSolid(w, vol); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "}\n")
	return err
}

// writeBoreSolid emits the revolved profile solid, indented one level
func writeBoreSolid(w io.Writer, vol clip.BoreVolume) error {
	axis := vol.Axis.Normalize()
	if axis.Length() == 0 {
		axis = geometry.NewVector3(0, 0, 1)
	}

	// Sample the profile through the same evaluator the clip uses, at
	// t=0, every interior control position and t=1. Sampling the raw
	// control points would misrender profiles whose last point sits
	// before t=1: the padding repeats it there, while RadiusAt holds
	// its radius all the way to the end.
	stations := []float64{0}
	for _, p := range vol.Profile.Points {
		if p.Position > 0 && p.Position < 1 {
			stations = append(stations, p.Position)
		}
	}
	stations = append(stations, 1)
	sort.Float64s(stations)

	var poly strings.Builder
	fmt.Fprintf(&poly, "[[0, 0]")
	prev := math.NaN()
	for _, t := range stations {
		if t == prev {
			continue
		}
		prev = t
		fmt.Fprintf(&poly, ", [%g, %g]", math.Max(vol.Profile.RadiusAt(t), 0), t*vol.Length)
	}
	fmt.Fprintf(&poly, ", [0, %g]]", vol.Length)

	transform := fmt.Sprintf("translate([%g, %g, %g]) %s translate([0, 0, %g])",
		vol.Center.X, vol.Center.Y, vol.Center.Z, axisRotation(axis), vol.Start)

	_, err := fmt.Fprintf(w, "  %s\n    rotate_extrude($fn = 64) polygon(points = %s);\n",
		transform, poly.String())
	return err
}

// axisRotation returns the rotate() call aligning +Z with the axis
func axisRotation(axis geometry.Vector3) string {
	z := geometry.NewVector3(0, 0, 1)
	dot := z.Dot(axis)
	if dot > 1-1e-12 {
		return "rotate([0, 0, 0])"
	}
	if dot < -1+1e-12 {
		return "rotate([180, 0, 0])"
	}
	pivot := z.Cross(axis).Normalize()
	angle := math.Acos(dot) * 180 / math.Pi
	return fmt.Sprintf("rotate(a = %g, v = [%g, %g, %g])", angle, pivot.X, pivot.Y, pivot.Z)
}

// Render renders an OpenSCAD file to STL with the openscad binary
func Render(scadFile, outputFile string) error {
	if _, err := exec.LookPath("openscad"); err != nil {
		return fmt.Errorf("openscad not found in PATH. Please install OpenSCAD from https://openscad.org/")
	}

	cmd := exec.Command("openscad", "-o", outputFile, scadFile)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var errMsg strings.Builder
		errMsg.WriteString(fmt.Sprintf("failed to render %s: %v\n", scadFile, err))
		if stderr.Len() > 0 {
			errMsg.WriteString("stderr: ")
			errMsg.WriteString(stderr.String())
		}
		if stdout.Len() > 0 {
			errMsg.WriteString("stdout: ")
			errMsg.WriteString(stdout.String())
		}
		return fmt.Errorf("%s", errMsg.String())
	}
	return nil
}
