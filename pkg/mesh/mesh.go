// Package mesh defines the terrain mesh data model and its binary channel
// and JSON wire representations.
package mesh

import (
	"errors"

	"github.com/Faultbox/anvil/pkg/math"
)

// MaxVerts is the fixed vertex capacity of every per-axis channel.
const MaxVerts = 1024

// Mesh errors.
var (
	ErrCapacity = errors.New("channel capacity exceeded")
	ErrShape    = errors.New("malformed channel shape")
)

// Mesh is a positioned triangle mesh. Indices are kept flat, three per
// triangle, exactly as they were read.
type Mesh struct {
	WorldPos math.Vec3
	Verts    []math.Vec3
	Indices  []int
}

// New creates a mesh that owns copies of verts and indices.
func New(worldPos math.Vec3, verts []math.Vec3, indices []int) *Mesh {
	m := &Mesh{WorldPos: worldPos}
	m.Verts = append(make([]math.Vec3, 0, len(verts)), verts...)
	m.Indices = append(make([]int, 0, len(indices)), indices...)
	return m
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	return New(m.WorldPos, m.Verts, m.Indices)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Verts)
}

// TriangleCount returns the number of complete index triples.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Verts) == 0
}

// Bounds returns the axis-aligned bounds of the vertices in local space.
// An empty mesh has zero bounds.
func (m *Mesh) Bounds() (min, max math.Vec3) {
	if len(m.Verts) == 0 {
		return math.Vec3{}, math.Vec3{}
	}
	min, max = m.Verts[0], m.Verts[0]
	for _, v := range m.Verts[1:] {
		min.X, max.X = minmax(min.X, max.X, v.X)
		min.Y, max.Y = minmax(min.Y, max.Y, v.Y)
		min.Z, max.Z = minmax(min.Z, max.Z, v.Z)
	}
	return min, max
}

func minmax(lo, hi, v float64) (float64, float64) {
	if v < lo {
		lo = v
	}
	if v > hi {
		hi = v
	}
	return lo, hi
}

var cubeVerts = []math.Vec3{
	{X: 1, Y: 1, Z: -1},
	{X: 1, Y: -1, Z: -1},
	{X: 1, Y: 1, Z: 1},
	{X: 1, Y: -1, Z: 1},
	{X: -1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: -1},
	{X: -1, Y: 1, Z: 1},
	{X: -1, Y: -1, Z: 1},
}

var cubeIndices = []int{
	4, 2, 0,
	2, 7, 3,
	6, 5, 7,
	1, 7, 5,
	0, 3, 1,
	4, 1, 5,
	4, 6, 2,
	2, 6, 7,
	6, 4, 5,
	1, 3, 7,
	0, 2, 3,
	4, 0, 1,
}

// Cube returns the unit placeholder cube (half-extent 1) at worldPos.
func Cube(worldPos math.Vec3) *Mesh {
	return New(worldPos, cubeVerts, cubeIndices)
}
