// Package meshio reads and writes triangle meshes as Wavefront OBJ or
// STL. OBJ groups map to submeshes, and the format's separate
// position/uv/normal index spaces are rewritten into a single vertex
// index space on load.
package meshio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/philipparndt/gocarve/pkg/geometry"
	"github.com/philipparndt/gocarve/pkg/mesh"
)

// Parse reads a mesh file, dispatching on the extension: .stl is read
// as STL, everything else as OBJ.
func Parse(filename string) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if strings.EqualFold(filepath.Ext(filename), ".stl") {
		return ParseSTLReader(file, name)
	}
	return ParseReader(file, name)
}

// corner identifies one face corner by its OBJ position/uv/normal
// indices (0-based, -1 when absent).
type corner struct {
	pos, uv, norm int
}

// ParseReader parses OBJ data from a reader
func ParseReader(reader io.Reader, name string) (*mesh.Mesh, error) {
	var positions []geometry.Vector3
	var normals []geometry.Vector3
	var uvs []geometry.Vector2

	m := mesh.New(name)
	seen := make(map[corner]int)
	current := []int{}
	hasNormals := false
	hasUVs := false

	flush := func() {
		if len(current) > 0 {
			m.Submeshes = append(m.Submeshes, current)
			current = []int{}
		}
	}

	// resolve maps a face corner to a unified vertex index, appending a
	// new vertex on first sight.
	resolve := func(c corner) (int, error) {
		if c.pos < 0 || c.pos >= len(positions) {
			return 0, fmt.Errorf("face references vertex %d of %d", c.pos+1, len(positions))
		}
		if idx, ok := seen[c]; ok {
			return idx, nil
		}
		idx := len(m.Positions)
		m.Positions = append(m.Positions, positions[c.pos])

		var n geometry.Vector3
		if c.norm >= 0 && c.norm < len(normals) {
			n = normals[c.norm]
			hasNormals = true
		}
		m.Normals = append(m.Normals, n)

		var uv geometry.Vector2
		if c.uv >= 0 && c.uv < len(uvs) {
			uv = uvs[c.uv]
			hasUVs = true
		}
		m.UVs = append(m.UVs, uv)

		seen[c] = idx
		return idx, nil
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			x, _ := strconv.ParseFloat(fields[1], 64)
			y, _ := strconv.ParseFloat(fields[2], 64)
			z, _ := strconv.ParseFloat(fields[3], 64)
			positions = append(positions, geometry.NewVector3(x, y, z))

		case "vn":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: normal needs 3 coordinates", lineNo)
			}
			x, _ := strconv.ParseFloat(fields[1], 64)
			y, _ := strconv.ParseFloat(fields[2], 64)
			z, _ := strconv.ParseFloat(fields[3], 64)
			normals = append(normals, geometry.NewVector3(x, y, z))

		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: texture coordinate needs 2 values", lineNo)
			}
			u, _ := strconv.ParseFloat(fields[1], 64)
			v, _ := strconv.ParseFloat(fields[2], 64)
			uvs = append(uvs, geometry.NewVector2(u, v))

		case "g", "o", "usemtl":
			flush()

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 corners", lineNo)
			}
			corners := make([]int, 0, len(fields)-1)
			for _, spec := range fields[1:] {
				c, err := parseCorner(spec, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idx, err := resolve(c)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				corners = append(corners, idx)
			}
			// Fan-triangulate polygons with more than 3 corners.
			for i := 1; i+1 < len(corners); i++ {
				current = append(current, corners[0], corners[i], corners[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}
	flush()

	if !hasNormals {
		m.Normals = nil
	}
	if !hasUVs {
		m.UVs = nil
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mesh in OBJ: %w", err)
	}
	return m, nil
}

// parseCorner parses one face corner spec: "i", "i/t", "i//n" or
// "i/t/n". Negative indices count from the end of the respective list.
func parseCorner(spec string, npos, nuv, nnorm int) (corner, error) {
	c := corner{pos: -1, uv: -1, norm: -1}
	parts := strings.Split(spec, "/")
	if len(parts) == 0 || parts[0] == "" {
		return c, fmt.Errorf("malformed face corner %q", spec)
	}

	parse := func(s string, count int) (int, error) {
		v, err := strconv.Atoi(s)
		if err != nil {
			return -1, fmt.Errorf("malformed face index %q", s)
		}
		if v < 0 {
			return count + v, nil
		}
		return v - 1, nil
	}

	var err error
	if c.pos, err = parse(parts[0], npos); err != nil {
		return c, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.uv, err = parse(parts[1], nuv); err != nil {
			return c, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.norm, err = parse(parts[2], nnorm); err != nil {
			return c, err
		}
	}
	return c, nil
}

// Write saves a mesh, dispatching on the extension like Parse: .stl is
// written as binary STL, everything else as OBJ.
func Write(filename string, m *mesh.Mesh) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if strings.EqualFold(filepath.Ext(filename), ".stl") {
		err = WriteSTLTo(w, m)
	} else {
		err = WriteTo(w, m)
	}
	if err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write OBJ: %w", err)
	}
	return nil
}

// WriteTo emits a mesh as OBJ text
func WriteTo(w io.Writer, m *mesh.Mesh) error {
	if m.Name != "" {
		if _, err := fmt.Fprintf(w, "o %s\n", m.Name); err != nil {
			return err
		}
	}
	for _, p := range m.Positions {
		if _, err := fmt.Fprintf(w, "v %g %g %g\n", p.X, p.Y, p.Z); err != nil {
			return err
		}
	}
	for _, uv := range m.UVs {
		if _, err := fmt.Fprintf(w, "vt %g %g\n", uv.X, uv.Y); err != nil {
			return err
		}
	}
	for _, n := range m.Normals {
		if _, err := fmt.Fprintf(w, "vn %g %g %g\n", n.X, n.Y, n.Z); err != nil {
			return err
		}
	}

	hasUV := m.HasUVs()
	hasN := m.HasNormals()
	for si, indices := range m.Submeshes {
		if len(m.Submeshes) > 1 {
			if _, err := fmt.Fprintf(w, "g submesh%d\n", si); err != nil {
				return err
			}
		}
		for i := 0; i+2 < len(indices); i += 3 {
			if _, err := fmt.Fprintf(w, "f %s %s %s\n",
				cornerRef(indices[i], hasUV, hasN),
				cornerRef(indices[i+1], hasUV, hasN),
				cornerRef(indices[i+2], hasUV, hasN)); err != nil {
				return err
			}
		}
	}
	return nil
}

// cornerRef formats a 1-based face corner reference; position, uv and
// normal share the same index in the unified vertex space.
func cornerRef(idx int, hasUV, hasN bool) string {
	i := strconv.Itoa(idx + 1)
	switch {
	case hasUV && hasN:
		return i + "/" + i + "/" + i
	case hasUV:
		return i + "/" + i
	case hasN:
		return i + "//" + i
	default:
		return i
	}
}
