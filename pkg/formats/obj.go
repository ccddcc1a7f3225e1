package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/anvil/pkg/math"
	"github.com/Faultbox/anvil/pkg/mesh"
)

// ErrParse is returned for a recognised OBJ line that cannot be parsed.
var ErrParse = errors.New("OBJ parse error")

// IsWavefront reports whether name has an .obj extension.
func IsWavefront(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".obj")
}

// ParseOBJ parses Wavefront OBJ text into a mesh.
//
// Only "v" and "f" lines are read. A vertex line takes the first three
// coordinates. A face line takes its first three vertex references, keeps
// the part before any '/', and stores them as three 0-based entries in the
// flat index list. Every other line is ignored.
func ParseOBJ(data []byte) (*mesh.Mesh, error) {
	var verts []math.Vec3
	var indices []int

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVertex(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			verts = append(verts, v)
		case "f":
			face, err := parseFace(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			indices = append(indices, face[:]...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	return &mesh.Mesh{Verts: verts, Indices: indices}, nil
}

// LoadOBJ parses an OBJ file from disk.
func LoadOBJ(path string) (*mesh.Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	m, err := ParseOBJ(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteOBJ writes the vertices and index triples of m as OBJ text. A
// trailing partial triple is dropped since OBJ faces need three references.
func WriteOBJ(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	for _, v := range m.Verts {
		fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(v.X), formatFloat(v.Y), formatFloat(v.Z))
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		fmt.Fprintf(bw, "f %d %d %d\n", m.Indices[i]+1, m.Indices[i+1]+1, m.Indices[i+2]+1)
	}
	return bw.Flush()
}

func parseVertex(fields []string) (math.Vec3, error) {
	if len(fields) < 4 {
		return math.Vec3{}, fmt.Errorf("%w: vertex needs 3 coordinates, got %d", ErrParse, len(fields)-1)
	}
	var c [3]float64
	for i := range c {
		f, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("%w: vertex coordinate %q", ErrParse, fields[i+1])
		}
		c[i] = f
	}
	v := math.Vec3{X: c[0], Y: c[1], Z: c[2]}
	if !v.IsFinite() {
		return math.Vec3{}, fmt.Errorf("%w: non-finite vertex %v", ErrParse, v)
	}
	return v, nil
}

func parseFace(fields []string) ([3]int, error) {
	var face [3]int
	if len(fields) < 4 {
		return face, fmt.Errorf("%w: face needs 3 vertices, got %d", ErrParse, len(fields)-1)
	}
	for i := range face {
		ref, _, _ := strings.Cut(fields[i+1], "/")
		n, err := strconv.Atoi(ref)
		if err != nil {
			return face, fmt.Errorf("%w: face reference %q", ErrParse, fields[i+1])
		}
		if n < 1 {
			return face, fmt.Errorf("%w: face reference %d is not a positive 1-based index", ErrParse, n)
		}
		face[i] = n - 1
	}
	return face, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
