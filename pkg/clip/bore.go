package clip

import (
	"github.com/philipparndt/gocarve/pkg/geometry"
	"github.com/philipparndt/gocarve/pkg/mesh"
)

// BoreVolume is a solid of revolution: a radius profile swept around an
// axis over the axial interval [Start, Start+Length] measured from
// Center. An optional PreserveDepth marks a zone at the start of the
// interval whose points are never classified as inside, so geometry
// there is never bored away.
type BoreVolume struct {
	Center        geometry.Vector3
	Axis          geometry.Vector3
	Start         float64
	Length        float64
	Profile       RadiusProfile
	PreserveDepth float64
}

// normalized returns a copy with a unit axis and non-negative extents.
// A degenerate axis is substituted with +Z.
func (b BoreVolume) normalized() BoreVolume {
	out := b
	out.Axis = b.Axis.Normalize()
	if out.Axis.Length() == 0 {
		out.Axis = geometry.NewVector3(0, 0, 1)
	}
	if out.Length < 0 {
		out.Length = 0
	}
	if out.PreserveDepth < 0 {
		out.PreserveDepth = 0
	}
	return out
}

// Contains reports whether p lies inside the bore volume: its axial
// projection falls in the interval, past the preserve zone, and its
// radial distance does not exceed the profile radius at that station.
// The axis must already be unit length.
func (b BoreVolume) Contains(p geometry.Vector3, eps float64) bool {
	rel := p.Sub(b.Center)
	axial := rel.Dot(b.Axis)

	if axial < b.Start-eps || axial > b.Start+b.Length+eps {
		return false
	}
	if b.PreserveDepth > 0 && axial <= b.Start+b.PreserveDepth+eps {
		return false
	}

	t := 0.0
	if b.Length > 1e-12 {
		t = (axial - b.Start) / b.Length
	}
	radius := b.Profile.RadiusAt(t)

	radial := rel.Sub(b.Axis.Mul(axial)).Length()
	return radial <= radius+eps
}

// ToBoreVolume clips the mesh in place against the bore volume. With
// keepInside a triangle survives when any of its vertices is inside;
// otherwise only triangles whose vertices are all outside survive.
//
// Unlike the plane clip there is no re-triangulation at the boundary:
// straddling triangles are kept or dropped whole. Clipping edges
// exactly against the piecewise-conical surface would mean solving
// segment-versus-cone intersections per edge, and the slightly rougher
// boundary is the accepted trade-off. Returns false and empties the
// mesh when nothing survives.
func ToBoreVolume(m *mesh.Mesh, vol BoreVolume, keepInside bool, eps float64) bool {
	if m == nil {
		return false
	}
	if m.IsEmpty() {
		m.Clear()
		return false
	}
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	vol = vol.normalized()

	inside := make([]bool, len(m.Positions))
	for i, p := range m.Positions {
		inside[i] = vol.Contains(p, eps)
	}

	rb := newRebuilder(m)
	submeshes := make([][]int, len(m.Submeshes))
	survived := false

	for si, indices := range m.Submeshes {
		var out []int
		for i := 0; i+2 < len(indices); i += 3 {
			i0, i1, i2 := indices[i], indices[i+1], indices[i+2]

			var keep bool
			if keepInside {
				keep = inside[i0] || inside[i1] || inside[i2]
			} else {
				keep = !inside[i0] && !inside[i1] && !inside[i2]
			}
			if !keep {
				continue
			}
			out = append(out, rb.carry(i0), rb.carry(i1), rb.carry(i2))
		}
		if len(out) > 0 {
			survived = true
		}
		submeshes[si] = out
	}

	if !survived {
		m.Clear()
		return false
	}

	hadNormals := m.HasNormals()
	rb.commit(m, submeshes)
	if !hadNormals {
		m.RecomputeNormals()
	}
	return true
}
