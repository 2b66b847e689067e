package meshio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/philipparndt/gocarve/pkg/geometry"
	"github.com/philipparndt/gocarve/pkg/mesh"
)

// stlBuilder accumulates STL facets into an indexed mesh. STL stores
// loose triangles, so identical corner positions are merged into shared
// vertices; without that the clipped boundary could not stay watertight.
type stlBuilder struct {
	m       *mesh.Mesh
	seen    map[geometry.Vector3]int
	indices []int
}

func newSTLBuilder(name string) *stlBuilder {
	return &stlBuilder{
		m:    mesh.New(name),
		seen: make(map[geometry.Vector3]int),
	}
}

func (b *stlBuilder) vertex(v geometry.Vector3) int {
	if idx, ok := b.seen[v]; ok {
		return idx
	}
	idx := len(b.m.Positions)
	b.m.Positions = append(b.m.Positions, v)
	b.seen[v] = idx
	return idx
}

func (b *stlBuilder) facet(v1, v2, v3 geometry.Vector3) {
	b.indices = append(b.indices, b.vertex(v1), b.vertex(v2), b.vertex(v3))
}

func (b *stlBuilder) finish() (*mesh.Mesh, error) {
	b.m.Submeshes = [][]int{b.indices}
	if err := b.m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mesh in STL: %w", err)
	}
	// Facet normals from the file are per-triangle and often garbage;
	// smooth per-vertex normals are recomputed from the geometry.
	if !b.m.IsEmpty() {
		b.m.RecomputeNormals()
	}
	return b.m, nil
}

// ParseSTLReader parses STL data from a reader, detecting ASCII or
// binary format from the leading bytes.
func ParseSTLReader(reader io.Reader, name string) (*mesh.Mesh, error) {
	br := bufio.NewReader(reader)
	head, err := br.Peek(5)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL header: %w", err)
	}
	if string(head) == "solid" {
		return parseASCIISTL(br, name)
	}
	return parseBinarySTL(br, name)
}

func parseASCIISTL(reader io.Reader, name string) (*mesh.Mesh, error) {
	b := newSTLBuilder(name)
	scanner := bufio.NewScanner(reader)
	var vertices []geometry.Vector3

	for scanner.Scan() {
		fields := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 && b.m.Name == "" {
				b.m.Name = strings.Join(fields[1:], " ")
			}

		case "vertex":
			if len(fields) >= 4 {
				x, _ := strconv.ParseFloat(fields[1], 64)
				y, _ := strconv.ParseFloat(fields[2], 64)
				z, _ := strconv.ParseFloat(fields[3], 64)
				vertices = append(vertices, geometry.NewVector3(x, y, z))
			}

		case "endfacet":
			if len(vertices) == 3 {
				b.facet(vertices[0], vertices[1], vertices[2])
			}
			vertices = vertices[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}
	return b.finish()
}

func parseBinarySTL(reader io.Reader, name string) (*mesh.Mesh, error) {
	header := make([]byte, 80)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("failed to read STL header: %w", err)
	}

	b := newSTLBuilder(name)
	if b.m.Name == "" {
		b.m.Name = string(bytes.TrimRight(header, "\x00"))
	}

	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, fmt.Errorf("failed to read triangle count: %w", err)
	}

	for i := uint32(0); i < triangleCount; i++ {
		var facet struct {
			Normal     [3]float32
			V1, V2, V3 [3]float32
			Attr       uint16
		}
		if err := binary.Read(reader, binary.LittleEndian, &facet); err != nil {
			return nil, fmt.Errorf("failed to read triangle %d: %w", i, err)
		}
		b.facet(stlVec(facet.V1), stlVec(facet.V2), stlVec(facet.V3))
	}
	return b.finish()
}

func stlVec(v [3]float32) geometry.Vector3 {
	return geometry.NewVector3(float64(v[0]), float64(v[1]), float64(v[2]))
}

// WriteSTLTo emits a mesh as binary STL. STL has no shared vertices,
// uvs or tangents, so only positions survive; face normals are derived
// from the winding.
func WriteSTLTo(w io.Writer, m *mesh.Mesh) error {
	header := make([]byte, 80)
	copy(header, m.Name)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write STL header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(m.TriangleCount())); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	for _, indices := range m.Submeshes {
		for i := 0; i+2 < len(indices); i += 3 {
			p0 := m.Positions[indices[i]]
			p1 := m.Positions[indices[i+1]]
			p2 := m.Positions[indices[i+2]]
			normal := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()

			facet := struct {
				Normal     [3]float32
				V1, V2, V3 [3]float32
				Attr       uint16
			}{
				Normal: stlRaw(normal),
				V1:     stlRaw(p0),
				V2:     stlRaw(p1),
				V3:     stlRaw(p2),
			}
			if err := binary.Write(w, binary.LittleEndian, &facet); err != nil {
				return fmt.Errorf("failed to write triangle: %w", err)
			}
		}
	}
	return nil
}

func stlRaw(v geometry.Vector3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
