package geometry

// Vector4 represents a 4-component vector, used for tangents where the
// fourth component carries the bitangent sign.
type Vector4 struct {
	X, Y, Z, W float64
}

// NewVector4 creates a new 4D vector
func NewVector4(x, y, z, w float64) Vector4 {
	return Vector4{X: x, Y: y, Z: z, W: w}
}

// XYZ returns the first three components as a Vector3
func (v Vector4) XYZ() Vector3 {
	return Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

// Lerp linearly interpolates between two vectors at parameter t
func (v Vector4) Lerp(other Vector4, t float64) Vector4 {
	return Vector4{
		X: v.X + (other.X-v.X)*t,
		Y: v.Y + (other.Y-v.Y)*t,
		Z: v.Z + (other.Z-v.Z)*t,
		W: v.W + (other.W-v.W)*t,
	}
}
