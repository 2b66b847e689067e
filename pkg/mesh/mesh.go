package mesh

import (
	"fmt"

	"github.com/philipparndt/gocarve/pkg/geometry"
)

// Mesh is an indexed triangle mesh with optional per-vertex attributes.
// Normals, Tangents and UVs are either empty or exactly as long as
// Positions — never partially populated. Each submesh is a flat triangle
// list of vertex indices; a triangle belongs to exactly one submesh.
type Mesh struct {
	Name      string
	Positions []geometry.Vector3
	Normals   []geometry.Vector3
	Tangents  []geometry.Vector4
	UVs       []geometry.Vector2
	Submeshes [][]int
}

// New creates an empty mesh with the given name
func New(name string) *Mesh {
	return &Mesh{Name: name}
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the total number of triangles across all submeshes
func (m *Mesh) TriangleCount() int {
	count := 0
	for _, indices := range m.Submeshes {
		count += len(indices) / 3
	}
	return count
}

// SubmeshCount returns the number of submeshes
func (m *Mesh) SubmeshCount() int {
	return len(m.Submeshes)
}

// HasNormals reports whether the mesh carries per-vertex normals
func (m *Mesh) HasNormals() bool {
	return len(m.Normals) > 0
}

// HasTangents reports whether the mesh carries per-vertex tangents
func (m *Mesh) HasTangents() bool {
	return len(m.Tangents) > 0
}

// HasUVs reports whether the mesh carries per-vertex texture coordinates
func (m *Mesh) HasUVs() bool {
	return len(m.UVs) > 0
}

// IsEmpty reports whether the mesh has no geometry
func (m *Mesh) IsEmpty() bool {
	return len(m.Positions) == 0 || m.TriangleCount() == 0
}

// Clear empties the mesh: zero vertices, zero triangles, no attributes.
// The submesh count is kept so callers can still tell how many index
// buffers the mesh had before it was emptied.
func (m *Mesh) Clear() {
	m.Positions = nil
	m.Normals = nil
	m.Tangents = nil
	m.UVs = nil
	for i := range m.Submeshes {
		m.Submeshes[i] = nil
	}
}

// BoundingBox calculates the axis-aligned bounding box of all vertices
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, p := range m.Positions {
		bbox.Extend(p)
	}
	return bbox
}

// Validate checks the structural invariants: attribute arrays are absent
// or full-length, index buffers are triangle lists, and every index is in
// range.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	if len(m.Normals) != 0 && len(m.Normals) != n {
		return fmt.Errorf("normals length %d does not match %d vertices", len(m.Normals), n)
	}
	if len(m.Tangents) != 0 && len(m.Tangents) != n {
		return fmt.Errorf("tangents length %d does not match %d vertices", len(m.Tangents), n)
	}
	if len(m.UVs) != 0 && len(m.UVs) != n {
		return fmt.Errorf("uvs length %d does not match %d vertices", len(m.UVs), n)
	}
	for si, indices := range m.Submeshes {
		if len(indices)%3 != 0 {
			return fmt.Errorf("submesh %d index count %d is not a multiple of 3", si, len(indices))
		}
		for _, idx := range indices {
			if idx < 0 || idx >= n {
				return fmt.Errorf("submesh %d references vertex %d out of %d", si, idx, n)
			}
		}
	}
	return nil
}

// RecomputeNormals regenerates smooth per-vertex normals from the current
// triangle set. Each vertex normal is the normalized sum of the face
// normals of all triangles sharing it, weighted by triangle area.
func (m *Mesh) RecomputeNormals() {
	normals := make([]geometry.Vector3, len(m.Positions))
	for _, indices := range m.Submeshes {
		for i := 0; i+2 < len(indices); i += 3 {
			i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
			e1 := m.Positions[i1].Sub(m.Positions[i0])
			e2 := m.Positions[i2].Sub(m.Positions[i0])
			// Cross product length is proportional to area, so the
			// unnormalized sum is already area-weighted.
			face := e1.Cross(e2)
			normals[i0] = normals[i0].Add(face)
			normals[i1] = normals[i1].Add(face)
			normals[i2] = normals[i2].Add(face)
		}
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	m.Normals = normals
}

// SurfaceArea calculates the total surface area of all triangles
func (m *Mesh) SurfaceArea() float64 {
	total := 0.0
	for _, indices := range m.Submeshes {
		for i := 0; i+2 < len(indices); i += 3 {
			e1 := m.Positions[indices[i+1]].Sub(m.Positions[indices[i]])
			e2 := m.Positions[indices[i+2]].Sub(m.Positions[indices[i]])
			total += e1.Cross(e2).Length() / 2.0
		}
	}
	return total
}
