package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/gocarve/pkg/clip"
	"github.com/philipparndt/gocarve/pkg/geometry"
)

func TestCacheStoreLoad(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	key := PlaneKey("mesh|1|2", clip.NewPlane(geometry.NewVector3(0, 0, 0), geometry.NewVector3(0, 0, 1)), true, 1e-5)
	if c.Has(key) {
		t.Error("fresh cache should not have the key")
	}

	src := fullMesh()
	if err := c.Store(key, src); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if !c.Has(key) {
		t.Error("stored key should be present")
	}

	got, err := c.Load(key)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.VertexCount() != src.VertexCount() || got.TriangleCount() != src.TriangleCount() {
		t.Errorf("loaded %d vertices, %d triangles; stored %d, %d",
			got.VertexCount(), got.TriangleCount(), src.VertexCount(), src.TriangleCount())
	}
	for i := range src.Positions {
		if got.Positions[i] != src.Positions[i] {
			t.Errorf("position %d: %v != %v", i, got.Positions[i], src.Positions[i])
		}
	}
}

func TestCacheLoadMissing(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := c.Load("nope"); err == nil {
		t.Error("loading a missing key should fail")
	}
}

func TestPlaneKeySensitivity(t *testing.T) {
	plane := clip.NewPlane(geometry.NewVector3(0, 0, 0), geometry.NewVector3(0, 0, 1))
	base := PlaneKey("mesh|1|2", plane, true, 1e-5)

	if PlaneKey("mesh|1|2", plane, true, 1e-5) != base {
		t.Error("identical parameters must produce identical keys")
	}
	if PlaneKey("mesh|1|3", plane, true, 1e-5) == base {
		t.Error("a different mesh identity must change the key")
	}
	if PlaneKey("mesh|1|2", plane, false, 1e-5) == base {
		t.Error("a different keep side must change the key")
	}
	moved := clip.NewPlane(geometry.NewVector3(0, 0, 0.5), geometry.NewVector3(0, 0, 1))
	if PlaneKey("mesh|1|2", moved, true, 1e-5) == base {
		t.Error("a different plane must change the key")
	}
}

func TestBoreKeySensitivity(t *testing.T) {
	vol := clip.BoreVolume{
		Axis:    geometry.NewVector3(0, 0, 1),
		Length:  10,
		Profile: clip.ConstantProfile(0.5),
	}
	base := BoreKey("mesh|1|2", vol, false, 1e-5)

	if BoreKey("mesh|1|2", vol, false, 1e-5) != base {
		t.Error("identical parameters must produce identical keys")
	}

	wider := vol
	wider.Profile = clip.ConstantProfile(0.6)
	if BoreKey("mesh|1|2", wider, false, 1e-5) == base {
		t.Error("a different profile must change the key")
	}

	preserved := vol
	preserved.PreserveDepth = 1
	if BoreKey("mesh|1|2", preserved, false, 1e-5) == base {
		t.Error("a different preserve depth must change the key")
	}

	if BoreKey("mesh|1|2", vol, true, 1e-5) == base {
		t.Error("a different keep side must change the key")
	}
}

func TestMeshID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	id1, err := MeshID(path)
	if err != nil {
		t.Fatalf("MeshID failed: %v", err)
	}
	id2, err := MeshID(path)
	if err != nil {
		t.Fatalf("MeshID failed: %v", err)
	}
	if id1 != id2 {
		t.Error("an unchanged file must keep its identity")
	}

	// A content change of different size yields a different identity.
	if err := os.WriteFile(path, []byte("v 0 0 0\nv 1 1 1\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	id3, err := MeshID(path)
	if err != nil {
		t.Fatalf("MeshID failed: %v", err)
	}
	if id3 == id1 {
		t.Error("a changed file must change its identity")
	}

	if _, err := MeshID(filepath.Join(dir, "missing.obj")); err == nil {
		t.Error("a missing file should fail")
	}
}
