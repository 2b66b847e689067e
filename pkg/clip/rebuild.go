package clip

import (
	"github.com/philipparndt/gocarve/pkg/geometry"
	"github.com/philipparndt/gocarve/pkg/mesh"
)

// rebuilder accumulates the vertex buffers of a clip result. Carried-over
// vertices are deduplicated through an old-index to new-index map, and
// synthesized crossing vertices are shared between triangles that cut the
// same edge, which keeps the cut seam watertight.
type rebuilder struct {
	src       *mesh.Mesh
	remap     map[int]int
	crossings map[[2]int]int

	positions []geometry.Vector3
	normals   []geometry.Vector3
	tangents  []geometry.Vector4
	uvs       []geometry.Vector2
}

func newRebuilder(src *mesh.Mesh) *rebuilder {
	return &rebuilder{
		src:       src,
		remap:     make(map[int]int),
		crossings: make(map[[2]int]int),
	}
}

// carry copies an original vertex into the result, reusing the previous
// copy when the vertex was already carried.
func (r *rebuilder) carry(old int) int {
	if idx, ok := r.remap[old]; ok {
		return idx
	}
	idx := len(r.positions)
	r.positions = append(r.positions, r.src.Positions[old])
	if r.src.HasNormals() {
		r.normals = append(r.normals, r.src.Normals[old])
	}
	if r.src.HasTangents() {
		r.tangents = append(r.tangents, r.src.Tangents[old])
	}
	if r.src.HasUVs() {
		r.uvs = append(r.uvs, r.src.UVs[old])
	}
	r.remap[old] = idx
	return idx
}

// crossing synthesizes a vertex at parameter t along the edge from the
// kept vertex toward the dropped one. Position, tangent and UV
// interpolate linearly; the normal follows the great circle between the
// endpoint normals and is renormalized.
func (r *rebuilder) crossing(kept, dropped int, t float64) int {
	key := [2]int{kept, dropped}
	if idx, ok := r.crossings[key]; ok {
		return idx
	}
	idx := len(r.positions)
	r.positions = append(r.positions, r.src.Positions[kept].Lerp(r.src.Positions[dropped], t))
	if r.src.HasNormals() {
		r.normals = append(r.normals, r.src.Normals[kept].Slerp(r.src.Normals[dropped], t))
	}
	if r.src.HasTangents() {
		r.tangents = append(r.tangents, r.src.Tangents[kept].Lerp(r.src.Tangents[dropped], t))
	}
	if r.src.HasUVs() {
		r.uvs = append(r.uvs, r.src.UVs[kept].Lerp(r.src.UVs[dropped], t))
	}
	r.crossings[key] = idx
	return idx
}

// commit replaces the mesh contents with the rebuilt buffers
func (r *rebuilder) commit(m *mesh.Mesh, submeshes [][]int) {
	m.Positions = r.positions
	m.Normals = r.normals
	m.Tangents = r.tangents
	m.UVs = r.uvs
	m.Submeshes = submeshes
}
