package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/gocarve/pkg/geometry"
	"github.com/philipparndt/gocarve/pkg/mesh"
)

// SubmeshInfo summarizes one submesh
type SubmeshInfo struct {
	Index         int
	TriangleCount int
}

// Result contains the measurements of a mesh
type Result struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	SurfaceArea   float64
	VertexCount   int
	TriangleCount int
	Submeshes     []SubmeshInfo
	HasNormals    bool
	HasTangents   bool
	HasUVs        bool
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
}

// Analyze measures a mesh: bounds, surface area, per-submesh triangle
// counts and edge length statistics.
func Analyze(m *mesh.Mesh) *Result {
	result := &Result{
		BoundingBox:   m.BoundingBox(),
		SurfaceArea:   m.SurfaceArea(),
		VertexCount:   m.VertexCount(),
		TriangleCount: m.TriangleCount(),
		HasNormals:    m.HasNormals(),
		HasTangents:   m.HasTangents(),
		HasUVs:        m.HasUVs(),
	}
	result.Dimensions = result.BoundingBox.Size()
	if result.BoundingBox.IsEmpty() {
		result.BoundingBox = geometry.BoundingBox{}
		result.Dimensions = geometry.Vector3{}
	}

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	edgeCount := 0

	for si, indices := range m.Submeshes {
		result.Submeshes = append(result.Submeshes, SubmeshInfo{
			Index:         si,
			TriangleCount: len(indices) / 3,
		})
		for i := 0; i+2 < len(indices); i += 3 {
			corners := [3]geometry.Vector3{
				m.Positions[indices[i]],
				m.Positions[indices[i+1]],
				m.Positions[indices[i+2]],
			}
			for e := 0; e < 3; e++ {
				length := corners[e].Distance(corners[(e+1)%3])
				minLength = math.Min(minLength, length)
				maxLength = math.Max(maxLength, length)
				totalLength += length
				edgeCount++
			}
		}
	}

	if edgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(edgeCount)
	}
	return result
}

// FormatVector formats a vector for display
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
