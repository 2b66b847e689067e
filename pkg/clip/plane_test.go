package clip

import (
	"math"
	"testing"

	"github.com/philipparndt/gocarve/pkg/geometry"
	"github.com/philipparndt/gocarve/pkg/mesh"
)

// cubeMesh builds a unit cube spanning [-0.5, 0.5] on all axes:
// 8 vertices, 12 triangles, one submesh.
func cubeMesh() *mesh.Mesh {
	m := mesh.New("cube")
	m.Positions = []geometry.Vector3{
		geometry.NewVector3(-0.5, -0.5, -0.5),
		geometry.NewVector3(0.5, -0.5, -0.5),
		geometry.NewVector3(0.5, 0.5, -0.5),
		geometry.NewVector3(-0.5, 0.5, -0.5),
		geometry.NewVector3(-0.5, -0.5, 0.5),
		geometry.NewVector3(0.5, -0.5, 0.5),
		geometry.NewVector3(0.5, 0.5, 0.5),
		geometry.NewVector3(-0.5, 0.5, 0.5),
	}
	m.Submeshes = [][]int{{
		0, 2, 1, 0, 3, 2, // bottom
		4, 5, 6, 4, 6, 7, // top
		0, 1, 5, 0, 5, 4, // front
		2, 3, 7, 2, 7, 6, // back
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
	}}
	return m
}

func TestToHalfSpaceConservation(t *testing.T) {
	m := cubeMesh()
	plane := NewPlane(geometry.NewVector3(0, 0, -1), geometry.NewVector3(0, 0, 1))

	survived := ToHalfSpace(m, plane, true, DefaultEpsilon)
	if !survived {
		t.Fatal("expected mesh to survive a clip that keeps everything")
	}
	if m.TriangleCount() != 12 {
		t.Errorf("triangle count changed: expected 12, got %d", m.TriangleCount())
	}
	if m.VertexCount() != 8 {
		t.Errorf("vertex count changed: expected 8, got %d", m.VertexCount())
	}
}

func TestToHalfSpaceEmptiness(t *testing.T) {
	m := cubeMesh()
	plane := NewPlane(geometry.NewVector3(0, 0, 1), geometry.NewVector3(0, 0, 1))

	survived := ToHalfSpace(m, plane, true, DefaultEpsilon)
	if survived {
		t.Fatal("expected nothing to survive a clip that discards everything")
	}
	if m.VertexCount() != 0 {
		t.Errorf("emptied mesh has %d vertices", m.VertexCount())
	}
	if m.TriangleCount() != 0 {
		t.Errorf("emptied mesh has %d triangles", m.TriangleCount())
	}
	if m.SubmeshCount() != 1 {
		t.Errorf("emptied mesh lost its submesh layout: %d submeshes", m.SubmeshCount())
	}
}

func TestToHalfSpaceCube(t *testing.T) {
	m := cubeMesh()
	plane := NewPlane(geometry.NewVector3(0, 0, 0), geometry.NewVector3(0, 0, 1))

	survived := ToHalfSpace(m, plane, true, DefaultEpsilon)
	if !survived {
		t.Fatal("expected the top half of the cube to survive")
	}

	// The top face passes whole, the bottom face is dropped, and each
	// of the four side faces yields 3 triangles (one corner kept plus
	// a quad split in two).
	if m.TriangleCount() != 14 {
		t.Errorf("expected 14 triangles, got %d", m.TriangleCount())
	}

	bbox := m.BoundingBox()
	if math.Abs(bbox.Min.Z) > 1e-9 || math.Abs(bbox.Max.Z-0.5) > 1e-9 {
		t.Errorf("expected z-range [0, 0.5], got [%v, %v]", bbox.Min.Z, bbox.Max.Z)
	}
	if math.Abs(bbox.Min.X+0.5) > 1e-9 || math.Abs(bbox.Max.X-0.5) > 1e-9 {
		t.Errorf("expected x-range [-0.5, 0.5], got [%v, %v]", bbox.Min.X, bbox.Max.X)
	}

	// 4 original top vertices plus the synthesized cut ring: 4 corner
	// crossings on the vertical edges and 4 on the face diagonals.
	distinct := make(map[geometry.Vector3]bool)
	onPlane := 0
	for _, p := range m.Positions {
		if math.Abs(p.Z) < 1e-9 {
			onPlane++
			distinct[p] = true
		}
	}
	if len(distinct) != 8 {
		t.Errorf("expected 8 distinct crossing positions on the plane, got %d", len(distinct))
	}

	kept := 0
	for _, p := range m.Positions {
		if math.Abs(p.Z-0.5) < 1e-9 {
			kept++
		}
	}
	if kept != 4 {
		t.Errorf("expected the 4 original top vertices, got %d", kept)
	}
}

func TestToHalfSpaceWatertightSharedEdge(t *testing.T) {
	// Two triangles sharing the edge p0-p1, which straddles the plane
	// z=0. Both crossings on the shared edge must coincide exactly.
	m := mesh.New("pair")
	m.Positions = []geometry.Vector3{
		geometry.NewVector3(0, 0, 1),  // p0 kept
		geometry.NewVector3(1, 0, -1), // p1 dropped
		geometry.NewVector3(2, 0, 1),  // p2 kept
		geometry.NewVector3(-1, 1, 1), // p3 kept
	}
	m.Submeshes = [][]int{{0, 1, 2, 1, 0, 3}}

	plane := NewPlane(geometry.NewVector3(0, 0, 0), geometry.NewVector3(0, 0, 1))
	if !ToHalfSpace(m, plane, true, DefaultEpsilon) {
		t.Fatal("expected geometry to survive")
	}

	// d0=1, d1=-1, so the crossing sits at the midpoint of p0-p1.
	want := geometry.NewVector3(0.5, 0, 0)
	matches := 0
	for _, p := range m.Positions {
		if p == want {
			matches++
		}
	}
	if matches != 1 {
		t.Errorf("expected exactly one shared crossing vertex at %v, found %d", want, matches)
	}
}

func TestToHalfSpaceWatertightAcrossSubmeshes(t *testing.T) {
	// The same pair of triangles, but in separate submeshes. Indices
	// are no longer shared, yet the synthesized positions must still
	// coincide bit for bit.
	m := mesh.New("pair")
	m.Positions = []geometry.Vector3{
		geometry.NewVector3(0, 0, 1),
		geometry.NewVector3(1, 0, -1),
		geometry.NewVector3(2, 0, 1),
		geometry.NewVector3(-1, 1, 1),
	}
	m.Submeshes = [][]int{{0, 1, 2}, {1, 0, 3}}

	plane := NewPlane(geometry.NewVector3(0, 0, 0), geometry.NewVector3(0, 0, 1))
	if !ToHalfSpace(m, plane, true, DefaultEpsilon) {
		t.Fatal("expected geometry to survive")
	}
	if m.SubmeshCount() != 2 {
		t.Fatalf("expected 2 submeshes, got %d", m.SubmeshCount())
	}

	want := geometry.NewVector3(0.5, 0, 0)
	for si, indices := range m.Submeshes {
		found := false
		for _, idx := range indices {
			if m.Positions[idx] == want {
				found = true
			}
		}
		if !found {
			t.Errorf("submesh %d has no crossing vertex at %v", si, want)
		}
	}
}

func TestToHalfSpaceAttributeCompleteness(t *testing.T) {
	// UVs but no normals: the output must carry full-length UVs and
	// regenerated normals, never a partial array.
	m := mesh.New("tri")
	m.Positions = []geometry.Vector3{
		geometry.NewVector3(0, 0, 1),
		geometry.NewVector3(1, 0, -1),
		geometry.NewVector3(-1, 0, -1),
	}
	m.UVs = []geometry.Vector2{
		geometry.NewVector2(0, 1),
		geometry.NewVector2(1, 0),
		geometry.NewVector2(0, 0),
	}
	m.Submeshes = [][]int{{0, 1, 2}}

	plane := NewPlane(geometry.NewVector3(0, 0, 0), geometry.NewVector3(0, 0, 1))
	if !ToHalfSpace(m, plane, true, DefaultEpsilon) {
		t.Fatal("expected geometry to survive")
	}

	if len(m.UVs) != m.VertexCount() {
		t.Errorf("UVs are partial: %d of %d vertices", len(m.UVs), m.VertexCount())
	}
	if len(m.Normals) != m.VertexCount() {
		t.Errorf("normals were not regenerated: %d of %d vertices", len(m.Normals), m.VertexCount())
	}
	for i, n := range m.Normals {
		if math.Abs(n.Length()-1.0) > 1e-9 {
			t.Errorf("regenerated normal %d is not unit length: %v", i, n)
		}
	}
	if err := m.Validate(); err != nil {
		t.Errorf("clipped mesh fails validation: %v", err)
	}
}

func TestToHalfSpaceInterpolatesAttributes(t *testing.T) {
	// One vertex kept, symmetric distances: crossings at edge
	// midpoints, so interpolated attributes are exact averages.
	m := mesh.New("tri")
	m.Positions = []geometry.Vector3{
		geometry.NewVector3(0, 0, 1),
		geometry.NewVector3(1, 0, -1),
		geometry.NewVector3(-1, 0, -1),
	}
	m.Normals = []geometry.Vector3{
		geometry.NewVector3(0, 0, 1),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(-1, 0, 0),
	}
	m.Tangents = []geometry.Vector4{
		geometry.NewVector4(1, 0, 0, 1),
		geometry.NewVector4(0, 1, 0, 1),
		geometry.NewVector4(0, 0, 1, -1),
	}
	m.UVs = []geometry.Vector2{
		geometry.NewVector2(0.5, 1),
		geometry.NewVector2(1, 0),
		geometry.NewVector2(0, 0),
	}
	m.Submeshes = [][]int{{0, 1, 2}}

	plane := NewPlane(geometry.NewVector3(0, 0, 0), geometry.NewVector3(0, 0, 1))
	if !ToHalfSpace(m, plane, true, DefaultEpsilon) {
		t.Fatal("expected geometry to survive")
	}
	if m.TriangleCount() != 1 {
		t.Fatalf("expected 1 triangle, got %d", m.TriangleCount())
	}
	if m.VertexCount() != 3 {
		t.Fatalf("expected 3 vertices, got %d", m.VertexCount())
	}

	// Vertex 1 is the crossing toward old vertex 1 at t=0.5.
	wantPos := geometry.NewVector3(0.5, 0, 0)
	if m.Positions[1] != wantPos {
		t.Errorf("crossing position: expected %v, got %v", wantPos, m.Positions[1])
	}
	wantUV := geometry.NewVector2(0.75, 0.5)
	if m.UVs[1] != wantUV {
		t.Errorf("crossing UV: expected %v, got %v", wantUV, m.UVs[1])
	}
	wantTan := geometry.NewVector4(0.5, 0.5, 0, 1)
	if m.Tangents[1] != wantTan {
		t.Errorf("crossing tangent: expected %v, got %v", wantTan, m.Tangents[1])
	}

	// The slerped normal halfway between +Z and +X.
	expected := math.Sqrt(2) / 2
	n := m.Normals[1]
	if math.Abs(n.X-expected) > 1e-9 || math.Abs(n.Z-expected) > 1e-9 || math.Abs(n.Y) > 1e-9 {
		t.Errorf("crossing normal: expected slerp midpoint, got %v", n)
	}
	if math.Abs(n.Length()-1.0) > 1e-9 {
		t.Errorf("crossing normal is not unit length: %v", n.Length())
	}
}

func TestToHalfSpaceKeepNegative(t *testing.T) {
	m := cubeMesh()
	plane := NewPlane(geometry.NewVector3(0, 0, 0), geometry.NewVector3(0, 0, 1))

	if !ToHalfSpace(m, plane, false, DefaultEpsilon) {
		t.Fatal("expected the bottom half to survive")
	}
	bbox := m.BoundingBox()
	if math.Abs(bbox.Min.Z+0.5) > 1e-9 || math.Abs(bbox.Max.Z) > 1e-9 {
		t.Errorf("expected z-range [-0.5, 0], got [%v, %v]", bbox.Min.Z, bbox.Max.Z)
	}
}

func TestToHalfSpaceSubmeshIdentity(t *testing.T) {
	// Triangles must never migrate between submeshes.
	m := mesh.New("two")
	m.Positions = []geometry.Vector3{
		geometry.NewVector3(0, 0, 1),
		geometry.NewVector3(1, 0, 1),
		geometry.NewVector3(0, 1, 1),
		geometry.NewVector3(0, 0, -1),
		geometry.NewVector3(1, 0, -1),
		geometry.NewVector3(0, 1, -1),
	}
	m.Submeshes = [][]int{{0, 1, 2}, {3, 4, 5}}

	plane := NewPlane(geometry.NewVector3(0, 0, 0), geometry.NewVector3(0, 0, 1))
	if !ToHalfSpace(m, plane, true, DefaultEpsilon) {
		t.Fatal("expected the upper triangle to survive")
	}
	if len(m.Submeshes[0]) != 3 {
		t.Errorf("submesh 0 should keep its triangle, has %d indices", len(m.Submeshes[0]))
	}
	if len(m.Submeshes[1]) != 0 {
		t.Errorf("submesh 1 should be empty, has %d indices", len(m.Submeshes[1]))
	}
}

func TestToHalfSpaceEmptyMesh(t *testing.T) {
	m := mesh.New("empty")
	plane := NewPlane(geometry.NewVector3(0, 0, 0), geometry.NewVector3(0, 0, 1))
	if ToHalfSpace(m, plane, true, DefaultEpsilon) {
		t.Error("empty mesh should not survive")
	}
	if ToHalfSpace(nil, plane, true, DefaultEpsilon) {
		t.Error("nil mesh should not survive")
	}
}

func TestCrossingParamFallback(t *testing.T) {
	// A vanishing denominator falls back to the midpoint.
	if got := crossingParam(0, 0); got != 0.5 {
		t.Errorf("expected midpoint fallback 0.5, got %v", got)
	}
	if got := crossingParam(1, -1); got != 0.5 {
		t.Errorf("expected 0.5 for symmetric distances, got %v", got)
	}
	if got := crossingParam(0, -1); got != 0 {
		t.Errorf("expected 0 for a vertex on the plane, got %v", got)
	}
}

func TestNewPlaneDegenerateNormal(t *testing.T) {
	p := NewPlane(geometry.NewVector3(0, 0, 0), geometry.NewVector3(0, 0, 0))
	if p.Normal != geometry.NewVector3(0, 0, 1) {
		t.Errorf("degenerate normal should be substituted with +Z, got %v", p.Normal)
	}
}
