package clip

import (
	"math"

	"github.com/philipparndt/gocarve/pkg/geometry"
	"github.com/philipparndt/gocarve/pkg/mesh"
)

// Tube generates a preview mesh of the bore surface: rings of vertices
// swept along the axis, with each ring radius taken from the same
// RadiusAt evaluator the inside test uses. rings is the number of axial
// stations (minimum 2), segments the number of vertices per ring
// (minimum 3). The seam vertex is duplicated so UVs wrap cleanly.
func Tube(vol BoreVolume, rings, segments int) *mesh.Mesh {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}
	vol = vol.normalized()

	u, v := axisBasis(vol.Axis)

	m := mesh.New("bore-tube")
	for r := 0; r < rings; r++ {
		t := float64(r) / float64(rings-1)
		radius := vol.Profile.RadiusAt(t)
		center := vol.Center.Add(vol.Axis.Mul(vol.Start + t*vol.Length))

		for s := 0; s <= segments; s++ {
			angle := 2 * math.Pi * float64(s) / float64(segments)
			dir := u.Mul(math.Cos(angle)).Add(v.Mul(math.Sin(angle)))
			m.Positions = append(m.Positions, center.Add(dir.Mul(radius)))
			m.Normals = append(m.Normals, dir)
			m.UVs = append(m.UVs, geometry.NewVector2(float64(s)/float64(segments), t))
		}
	}

	ringStride := segments + 1
	var indices []int
	for r := 0; r < rings-1; r++ {
		for s := 0; s < segments; s++ {
			a := r*ringStride + s
			b := a + 1
			c := a + ringStride
			d := c + 1
			indices = append(indices, a, c, b)
			indices = append(indices, b, c, d)
		}
	}
	m.Submeshes = [][]int{indices}
	return m
}

// axisBasis returns two unit vectors spanning the plane perpendicular
// to the given unit axis.
func axisBasis(axis geometry.Vector3) (geometry.Vector3, geometry.Vector3) {
	ref := geometry.NewVector3(0, 1, 0)
	if math.Abs(axis.Y) > 0.9 {
		ref = geometry.NewVector3(1, 0, 0)
	}
	u := axis.Cross(ref).Normalize()
	v := axis.Cross(u)
	return u, v
}
