package analysis

import (
	"sort"

	"github.com/philipparndt/gocarve/pkg/geometry"
	"github.com/philipparndt/gocarve/pkg/mesh"
)

// EdgeInfo describes one triangle edge
type EdgeInfo struct {
	Start    geometry.Vector3
	End      geometry.Vector3
	Length   float64
	Triangle int
}

// CollectEdges lists every triangle edge in the mesh. Triangle numbers
// run across all submeshes in order.
func CollectEdges(m *mesh.Mesh) []EdgeInfo {
	var edges []EdgeInfo
	triangle := 0
	for _, indices := range m.Submeshes {
		for i := 0; i+2 < len(indices); i += 3 {
			corners := [3]geometry.Vector3{
				m.Positions[indices[i]],
				m.Positions[indices[i+1]],
				m.Positions[indices[i+2]],
			}
			for e := 0; e < 3; e++ {
				start, end := corners[e], corners[(e+1)%3]
				edges = append(edges, EdgeInfo{
					Start:    start,
					End:      end,
					Length:   start.Distance(end),
					Triangle: triangle,
				})
			}
			triangle++
		}
	}
	return edges
}

// FilterEdgesByLength returns the edges whose length falls in [min, max]
func FilterEdgesByLength(edges []EdgeInfo, min, max float64) []EdgeInfo {
	var out []EdgeInfo
	for _, edge := range edges {
		if edge.Length >= min && edge.Length <= max {
			out = append(out, edge)
		}
	}
	return out
}

// LongestEdges returns the n longest edges
func LongestEdges(edges []EdgeInfo, n int) []EdgeInfo {
	return sortedEdges(edges, n, func(i, j EdgeInfo) bool { return i.Length > j.Length })
}

// ShortestEdges returns the n shortest edges
func ShortestEdges(edges []EdgeInfo, n int) []EdgeInfo {
	return sortedEdges(edges, n, func(i, j EdgeInfo) bool { return i.Length < j.Length })
}

func sortedEdges(edges []EdgeInfo, n int, less func(i, j EdgeInfo) bool) []EdgeInfo {
	out := make([]EdgeInfo, len(edges))
	copy(out, edges)
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if n > len(out) {
		n = len(out)
	}
	return out[:n]
}
