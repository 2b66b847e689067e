package clip

import (
	"math"

	"github.com/philipparndt/gocarve/pkg/geometry"
	"github.com/philipparndt/gocarve/pkg/mesh"
)

// DefaultEpsilon is the clip tolerance in mesh-local units. The kept
// half-spaces of a plane overlap by twice this value so that geometry
// lying exactly on the cut never falls into a floating-point gap.
const DefaultEpsilon = 1e-5

// Plane is an infinite plane defined by a point and a unit normal
type Plane struct {
	Point  geometry.Vector3
	Normal geometry.Vector3
}

// NewPlane creates a plane through point with the given normal. The
// normal is normalized; a zero normal is substituted with +Z.
func NewPlane(point, normal geometry.Vector3) Plane {
	n := normal.Normalize()
	if n.Length() == 0 {
		n = geometry.NewVector3(0, 0, 1)
	}
	return Plane{Point: point, Normal: n}
}

// SignedDistance returns the signed distance from v to the plane,
// positive on the side the normal points toward.
func (p Plane) SignedDistance(v geometry.Vector3) float64 {
	return v.Sub(p.Point).Dot(p.Normal)
}

// ToHalfSpace clips the mesh in place against the plane, keeping the
// positive or negative half-space. Triangles straddling the plane are
// re-triangulated with vertices synthesized at the crossings. Returns
// false and empties the mesh when no geometry survives.
func ToHalfSpace(m *mesh.Mesh, plane Plane, keepPositive bool, eps float64) bool {
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

	dist := make([]float64, len(m.Positions))
	kept := make([]bool, len(m.Positions))
	for i, p := range m.Positions {
		d := plane.SignedDistance(p)
		dist[i] = d
		if keepPositive {
			kept[i] = d >= -eps
		} else {
			kept[i] = d <= eps
		}
	}

	rb := newRebuilder(m)
	submeshes := make([][]int, len(m.Submeshes))
	survived := false

	for si, indices := range m.Submeshes {
		var out []int
		for i := 0; i+2 < len(indices); i += 3 {
			tri := [3]int{indices[i], indices[i+1], indices[i+2]}
			count := 0
			for _, v := range tri {
				if kept[v] {
					count++
				}
			}

			switch count {
			case 3:
				out = append(out,
					rb.carry(tri[0]),
					rb.carry(tri[1]),
					rb.carry(tri[2]))

			case 1:
				// Keep the surviving corner and cut both edges
				// leading away from it.
				k := 0
				for !kept[tri[k]] {
					k++
				}
				a := tri[k]
				b := tri[(k+1)%3]
				c := tri[(k+2)%3]
				out = append(out,
					rb.carry(a),
					rb.crossing(a, b, crossingParam(dist[a], dist[b])),
					rb.crossing(a, c, crossingParam(dist[a], dist[c])))

			case 2:
				// One corner lost; the surviving quad becomes two
				// triangles fanned from the first kept vertex.
				d := 0
				for kept[tri[d]] {
					d++
				}
				a := tri[d]
				b := tri[(d+1)%3]
				c := tri[(d+2)%3]
				xca := rb.crossing(c, a, crossingParam(dist[c], dist[a]))
				xba := rb.crossing(b, a, crossingParam(dist[b], dist[a]))
				nb := rb.carry(b)
				nc := rb.carry(c)
				out = append(out, nb, nc, xca)
				out = append(out, nb, xca, xba)
			}
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

// crossingParam returns the interpolation parameter of the plane
// crossing on the edge from the kept vertex (signed distance dKept)
// toward the dropped vertex (dDropped). Nearly coplanar edges fall back
// to the midpoint instead of dividing by a vanishing denominator.
func crossingParam(dKept, dDropped float64) float64 {
	denom := dDropped - dKept
	if math.Abs(denom) < 1e-12 {
		return 0.5
	}
	t := -dKept / denom
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
