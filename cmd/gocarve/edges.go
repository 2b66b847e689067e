package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/gocarve/pkg/analysis"
	"github.com/philipparndt/gocarve/pkg/meshio"
	"github.com/spf13/cobra"
)

var (
	edgesCount     int
	edgesLongest   bool
	edgesShortest  bool
	edgesMinLength float64
	edgesMaxLength float64
)

var edgesCmd = &cobra.Command{
	Use:   "edges [file]",
	Short: "Analyze and measure edges in a mesh file",
	Long:  "Find and measure edges, including longest, shortest, or edges within a specific length range. Useful for spotting the sliver triangles a clip can leave behind.",
	Args:  cobra.ExactArgs(1),
	Run:   runEdges,
}

func init() {
	edgesCmd.Flags().IntVarP(&edgesCount, "count", "n", 10, "Number of edges to display")
	edgesCmd.Flags().BoolVarP(&edgesLongest, "longest", "l", false, "Show longest edges")
	edgesCmd.Flags().BoolVarP(&edgesShortest, "shortest", "s", false, "Show shortest edges")
	edgesCmd.Flags().Float64Var(&edgesMinLength, "min", 0.0, "Minimum edge length filter")
	edgesCmd.Flags().Float64Var(&edgesMaxLength, "max", 0.0, "Maximum edge length filter")
	rootCmd.AddCommand(edgesCmd)
}

func runEdges(cmd *cobra.Command, args []string) {
	filename := args[0]

	m, err := meshio.Parse(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing mesh file: %v\n", err)
		os.Exit(1)
	}

	result := analysis.Analyze(m)
	all := analysis.CollectEdges(m)

	var edges []analysis.EdgeInfo
	var title string

	switch {
	case edgesLongest:
		edges = analysis.LongestEdges(all, edgesCount)
		title = fmt.Sprintf("Top %d Longest Edges", len(edges))
	case edgesShortest:
		edges = analysis.ShortestEdges(all, edgesCount)
		title = fmt.Sprintf("Top %d Shortest Edges", len(edges))
	case edgesMaxLength > 0:
		edges = analysis.FilterEdgesByLength(all, edgesMinLength, edgesMaxLength)
		title = fmt.Sprintf("Edges between %.6f and %.6f units (found %d)", edgesMinLength, edgesMaxLength, len(edges))
		if len(edges) > edgesCount {
			edges = edges[:edgesCount]
		}
	default:
		edges = all
		title = fmt.Sprintf("All Edges (showing first %d of %d)", edgesCount, len(edges))
		if len(edges) > edgesCount {
			edges = edges[:edgesCount]
		}
	}

	fmt.Println(title)
	fmt.Println("====================")
	fmt.Printf("Total edges in mesh: %d\n", len(all))
	fmt.Printf("Min edge length: %.6f units\n", result.MinEdgeLength)
	fmt.Printf("Max edge length: %.6f units\n", result.MaxEdgeLength)
	fmt.Printf("Avg edge length: %.6f units\n\n", result.AvgEdgeLength)

	if len(edges) == 0 {
		fmt.Println("No edges found matching the criteria.")
		return
	}

	fmt.Printf("%-6s %-35s %-35s %-15s\n", "Index", "Start", "End", "Length")
	fmt.Println("-----------------------------------------------------------------------------------------------------------")
	for i, edge := range edges {
		fmt.Printf("%-6d %-35s %-35s %-15.6f\n",
			i+1,
			analysis.FormatVector(edge.Start),
			analysis.FormatVector(edge.End),
			edge.Length)
	}
}
