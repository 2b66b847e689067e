package cache

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/philipparndt/gocarve/pkg/geometry"
	"github.com/philipparndt/gocarve/pkg/mesh"
)

// Binary mesh layout: the magic string, then vertex count and flat
// position triples, then one count-prefixed block per optional
// attribute (count 0 when the attribute is absent), then the submesh
// count followed by each submesh's index count and int32 indices.
// Everything numeric is little-endian; floats are written at full
// float64 width so a round trip is bit-exact.
const magic = "GOCARVE1"

// maxDecodeCount caps every count field read by Decode, so a corrupt
// or truncated entry cannot demand a multi-gigabyte allocation before
// validation ever runs.
const maxDecodeCount = 1 << 24

func checkDecodeCount(kind string, count uint32) error {
	if count > maxDecodeCount {
		return fmt.Errorf("%s count %d exceeds limit %d, cache entry is corrupt", kind, count, maxDecodeCount)
	}
	return nil
}

// Encode writes the mesh in the binary cache layout
func Encode(w io.Writer, m *mesh.Mesh) error {
	if _, err := w.Write([]byte(magic)); err != nil {
		return fmt.Errorf("failed to write magic: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.Positions))); err != nil {
		return fmt.Errorf("failed to write vertex count: %w", err)
	}
	for _, p := range m.Positions {
		if err := binary.Write(w, binary.LittleEndian, [3]float64{p.X, p.Y, p.Z}); err != nil {
			return fmt.Errorf("failed to write position: %w", err)
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.Normals))); err != nil {
		return fmt.Errorf("failed to write normal count: %w", err)
	}
	for _, n := range m.Normals {
		if err := binary.Write(w, binary.LittleEndian, [3]float64{n.X, n.Y, n.Z}); err != nil {
			return fmt.Errorf("failed to write normal: %w", err)
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.Tangents))); err != nil {
		return fmt.Errorf("failed to write tangent count: %w", err)
	}
	for _, t := range m.Tangents {
		if err := binary.Write(w, binary.LittleEndian, [4]float64{t.X, t.Y, t.Z, t.W}); err != nil {
			return fmt.Errorf("failed to write tangent: %w", err)
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.UVs))); err != nil {
		return fmt.Errorf("failed to write uv count: %w", err)
	}
	for _, uv := range m.UVs {
		if err := binary.Write(w, binary.LittleEndian, [2]float64{uv.X, uv.Y}); err != nil {
			return fmt.Errorf("failed to write uv: %w", err)
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.Submeshes))); err != nil {
		return fmt.Errorf("failed to write submesh count: %w", err)
	}
	for si, indices := range m.Submeshes {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(indices))); err != nil {
			return fmt.Errorf("failed to write index count for submesh %d: %w", si, err)
		}
		for _, idx := range indices {
			if err := binary.Write(w, binary.LittleEndian, int32(idx)); err != nil {
				return fmt.Errorf("failed to write index for submesh %d: %w", si, err)
			}
		}
	}
	return nil
}

// Decode reads a mesh written by Encode
func Decode(r io.Reader) (*mesh.Mesh, error) {
	header := make([]byte, len(magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	if string(header) != magic {
		return nil, fmt.Errorf("bad magic %q, not a cached mesh", header)
	}

	m := mesh.New("")

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read vertex count: %w", err)
	}
	if err := checkDecodeCount("vertex", count); err != nil {
		return nil, err
	}
	m.Positions = make([]geometry.Vector3, count)
	for i := range m.Positions {
		var v [3]float64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, fmt.Errorf("failed to read position %d: %w", i, err)
		}
		m.Positions[i] = geometry.NewVector3(v[0], v[1], v[2])
	}

	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read normal count: %w", err)
	}
	if err := checkDecodeCount("normal", count); err != nil {
		return nil, err
	}
	if count > 0 {
		m.Normals = make([]geometry.Vector3, count)
		for i := range m.Normals {
			var v [3]float64
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, fmt.Errorf("failed to read normal %d: %w", i, err)
			}
			m.Normals[i] = geometry.NewVector3(v[0], v[1], v[2])
		}
	}

	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read tangent count: %w", err)
	}
	if err := checkDecodeCount("tangent", count); err != nil {
		return nil, err
	}
	if count > 0 {
		m.Tangents = make([]geometry.Vector4, count)
		for i := range m.Tangents {
			var v [4]float64
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, fmt.Errorf("failed to read tangent %d: %w", i, err)
			}
			m.Tangents[i] = geometry.NewVector4(v[0], v[1], v[2], v[3])
		}
	}

	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read uv count: %w", err)
	}
	if err := checkDecodeCount("uv", count); err != nil {
		return nil, err
	}
	if count > 0 {
		m.UVs = make([]geometry.Vector2, count)
		for i := range m.UVs {
			var v [2]float64
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, fmt.Errorf("failed to read uv %d: %w", i, err)
			}
			m.UVs[i] = geometry.NewVector2(v[0], v[1])
		}
	}

	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read submesh count: %w", err)
	}
	if err := checkDecodeCount("submesh", count); err != nil {
		return nil, err
	}
	m.Submeshes = make([][]int, count)
	for si := range m.Submeshes {
		var indexCount uint32
		if err := binary.Read(r, binary.LittleEndian, &indexCount); err != nil {
			return nil, fmt.Errorf("failed to read index count for submesh %d: %w", si, err)
		}
		if err := checkDecodeCount("index", indexCount); err != nil {
			return nil, err
		}
		indices := make([]int, indexCount)
		for i := range indices {
			var idx int32
			if err := binary.Read(r, binary.LittleEndian, &idx); err != nil {
				return nil, fmt.Errorf("failed to read index for submesh %d: %w", si, err)
			}
			indices[i] = int(idx)
		}
		m.Submeshes[si] = indices
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("cached mesh is corrupt: %w", err)
	}
	return m, nil
}
