package clip

import (
	"math"
	"testing"

	"github.com/philipparndt/gocarve/pkg/geometry"
)

func TestTubeCounts(t *testing.T) {
	vol := zBore(10, 1)
	rings, segments := 5, 12
	m := Tube(vol, rings, segments)

	wantVerts := rings * (segments + 1)
	if m.VertexCount() != wantVerts {
		t.Errorf("expected %d vertices, got %d", wantVerts, m.VertexCount())
	}
	wantTris := (rings - 1) * segments * 2
	if m.TriangleCount() != wantTris {
		t.Errorf("expected %d triangles, got %d", wantTris, m.TriangleCount())
	}
	if err := m.Validate(); err != nil {
		t.Errorf("tube mesh failed validation: %v", err)
	}
}

func TestTubeMatchesProfile(t *testing.T) {
	// Ring radii must come from the same evaluator the bore inside
	// test uses, so the preview matches the clip surface exactly.
	vol := BoreVolume{
		Axis:   geometry.NewVector3(0, 0, 1),
		Start:  2,
		Length: 8,
		Profile: NewRadiusProfile(
			ProfilePoint{Position: 0, Radius: 2},
			ProfilePoint{Position: 0.5, Radius: 0.5},
			ProfilePoint{Position: 1, Radius: 1},
		),
	}

	rings, segments := 9, 16
	m := Tube(vol, rings, segments)

	stride := segments + 1
	for r := 0; r < rings; r++ {
		tt := float64(r) / float64(rings-1)
		want := vol.Profile.RadiusAt(tt)
		for s := 0; s < stride; s++ {
			p := m.Positions[r*stride+s]
			axial := p.Sub(vol.Center).Dot(vol.Axis)
			radial := p.Sub(vol.Center).Sub(vol.Axis.Mul(axial)).Length()
			if math.Abs(radial-want) > 1e-10 {
				t.Fatalf("ring %d vertex %d radius = %v, expected %v", r, s, radial, want)
			}
			wantAxial := vol.Start + tt*vol.Length
			if math.Abs(axial-wantAxial) > 1e-10 {
				t.Fatalf("ring %d axial station = %v, expected %v", r, axial, wantAxial)
			}
		}
	}
}

func TestTubeSeamDuplicated(t *testing.T) {
	m := Tube(zBore(4, 1), 2, 8)

	// First and last vertex of a ring share a position but carry
	// distinct UV u-coordinates of 0 and 1.
	first := m.Positions[0]
	last := m.Positions[8]
	if first.Sub(last).Length() > 1e-10 {
		t.Errorf("seam vertices should coincide: %v vs %v", first, last)
	}
	if m.UVs[0].X != 0 || m.UVs[8].X != 1 {
		t.Errorf("seam UVs should span [0,1], got %v and %v", m.UVs[0].X, m.UVs[8].X)
	}
}

func TestTubeClampsArguments(t *testing.T) {
	m := Tube(zBore(4, 1), 0, 0)
	if m.VertexCount() != 2*(3+1) {
		t.Errorf("degenerate arguments should clamp to 2 rings of 3 segments, got %d vertices", m.VertexCount())
	}
}

func TestTubeNormalsRadial(t *testing.T) {
	vol := zBore(4, 1)
	m := Tube(vol, 3, 8)

	for i, n := range m.Normals {
		if math.Abs(n.Length()-1) > 1e-10 {
			t.Fatalf("normal %d is not unit length: %v", i, n)
		}
		if math.Abs(n.Dot(vol.Axis)) > 1e-10 {
			t.Fatalf("normal %d is not perpendicular to the axis: %v", i, n)
		}
	}
}
