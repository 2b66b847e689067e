package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/gocarve/pkg/analysis"
	"github.com/philipparndt/gocarve/pkg/meshio"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display general information about a mesh file",
	Long:  "Show dimensions, triangle and vertex counts, submesh layout, attributes and edge statistics.",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	filename := args[0]

	m, err := meshio.Parse(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing mesh file: %v\n", err)
		os.Exit(1)
	}

	result := analysis.Analyze(m)

	fmt.Println("Mesh Information")
	fmt.Println("================")
	if m.Name != "" {
		fmt.Printf("Name: %s\n", m.Name)
	}
	fmt.Printf("File: %s\n\n", filename)

	fmt.Println("Statistics:")
	fmt.Printf("  Vertices: %d\n", result.VertexCount)
	fmt.Printf("  Triangles: %d\n", result.TriangleCount)
	fmt.Printf("  Surface Area: %.6f square units\n\n", result.SurfaceArea)

	fmt.Println("Submeshes:")
	for _, sub := range result.Submeshes {
		fmt.Printf("  #%d: %d triangles\n", sub.Index, sub.TriangleCount)
	}
	fmt.Println()

	fmt.Println("Attributes:")
	fmt.Printf("  Normals: %v\n", result.HasNormals)
	fmt.Printf("  Tangents: %v\n", result.HasTangents)
	fmt.Printf("  UVs: %v\n\n", result.HasUVs)

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Printf("  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Printf("  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Println("Dimensions:")
	fmt.Printf("  Width (X): %.6f units\n", result.Dimensions.X)
	fmt.Printf("  Depth (Y): %.6f units\n", result.Dimensions.Y)
	fmt.Printf("  Height (Z): %.6f units\n", result.Dimensions.Z)
	fmt.Printf("  Diagonal: %.6f units\n\n", result.BoundingBox.Diagonal())

	fmt.Println("Edge Lengths:")
	fmt.Printf("  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Printf("  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Printf("  Average: %.6f units\n", result.AvgEdgeLength)
}
