package cache

import (
	"bytes"
	"math"
	"testing"

	"github.com/philipparndt/gocarve/pkg/geometry"
	"github.com/philipparndt/gocarve/pkg/mesh"
)

func fullMesh() *mesh.Mesh {
	m := mesh.New("full")
	m.Positions = []geometry.Vector3{
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1.5, -2.25, 3),
		geometry.NewVector3(math.Pi, math.Sqrt2, -1e-9),
	}
	m.Normals = []geometry.Vector3{
		geometry.NewVector3(0, 0, 1),
		geometry.NewVector3(0, 1, 0),
		geometry.NewVector3(1, 0, 0),
	}
	m.Tangents = []geometry.Vector4{
		geometry.NewVector4(1, 0, 0, 1),
		geometry.NewVector4(0, 1, 0, -1),
		geometry.NewVector4(0, 0, 1, 1),
	}
	m.UVs = []geometry.Vector2{
		geometry.NewVector2(0, 0),
		geometry.NewVector2(0.5, 0.25),
		geometry.NewVector2(1, 1),
	}
	m.Submeshes = [][]int{{0, 1, 2}, {2, 1, 0}}
	return m
}

func TestCodecRoundTrip(t *testing.T) {
	src := fullMesh()

	var buf bytes.Buffer
	if err := Encode(&buf, src); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	// Floats are stored at full width, so the round trip is bit-exact.
	for i := range src.Positions {
		if got.Positions[i] != src.Positions[i] {
			t.Errorf("position %d: %v != %v", i, got.Positions[i], src.Positions[i])
		}
		if got.Normals[i] != src.Normals[i] {
			t.Errorf("normal %d: %v != %v", i, got.Normals[i], src.Normals[i])
		}
		if got.Tangents[i] != src.Tangents[i] {
			t.Errorf("tangent %d: %v != %v", i, got.Tangents[i], src.Tangents[i])
		}
		if got.UVs[i] != src.UVs[i] {
			t.Errorf("uv %d: %v != %v", i, got.UVs[i], src.UVs[i])
		}
	}
	if len(got.Submeshes) != 2 {
		t.Fatalf("expected 2 submeshes, got %d", len(got.Submeshes))
	}
	for si := range src.Submeshes {
		for i := range src.Submeshes[si] {
			if got.Submeshes[si][i] != src.Submeshes[si][i] {
				t.Errorf("submesh %d index %d: %d != %d",
					si, i, got.Submeshes[si][i], src.Submeshes[si][i])
			}
		}
	}
}

func TestCodecWithoutAttributes(t *testing.T) {
	src := mesh.New("bare")
	src.Positions = []geometry.Vector3{
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(0, 1, 0),
	}
	src.Submeshes = [][]int{{0, 1, 2}}

	var buf bytes.Buffer
	if err := Encode(&buf, src); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if got.HasNormals() || got.HasTangents() || got.HasUVs() {
		t.Error("absent attributes must decode as absent, not zero-filled")
	}
	if got.VertexCount() != 3 || got.TriangleCount() != 1 {
		t.Errorf("got %d vertices, %d triangles", got.VertexCount(), got.TriangleCount())
	}
}

func TestDecodeBadMagic(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("NOTAMESH--------"))); err == nil {
		t.Error("bad magic should be rejected")
	}
}

func TestDecodeTruncated(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, fullMesh()); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	data := buf.Bytes()
	if _, err := Decode(bytes.NewReader(data[:len(data)/2])); err == nil {
		t.Error("truncated data should be rejected")
	}
}

func TestDecodeHugeCountRejected(t *testing.T) {
	// A corrupt entry claiming billions of vertices must be rejected
	// before anything that size is allocated.
	var buf bytes.Buffer
	buf.WriteString(magic)
	buf.Write([]byte{0xff, 0xff, 0xff, 0xff})

	if _, err := Decode(&buf); err == nil {
		t.Error("an absurd vertex count should be rejected")
	}

	// Same for a corrupt submesh index count on an otherwise tiny mesh.
	buf.Reset()
	buf.WriteString(magic)
	buf.Write([]byte{0, 0, 0, 0}) // vertices
	buf.Write([]byte{0, 0, 0, 0}) // normals
	buf.Write([]byte{0, 0, 0, 0}) // tangents
	buf.Write([]byte{0, 0, 0, 0}) // uvs
	buf.Write([]byte{1, 0, 0, 0}) // one submesh
	buf.Write([]byte{0xff, 0xff, 0xff, 0xff})

	if _, err := Decode(&buf); err == nil {
		t.Error("an absurd index count should be rejected")
	}
}

func TestDecodeCorruptIndices(t *testing.T) {
	src := mesh.New("bad")
	src.Positions = []geometry.Vector3{geometry.NewVector3(0, 0, 0)}
	src.Submeshes = [][]int{{0, 0, 99}}

	var buf bytes.Buffer
	if err := Encode(&buf, src); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := Decode(&buf); err == nil {
		t.Error("out-of-range indices should fail validation on decode")
	}
}
