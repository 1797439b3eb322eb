package geom

import (
	"fmt"

	"github.com/fogleman/fauxgl"
)

// Descriptor is the static geometry of one base mesh: vertex positions,
// polygon faces (index lists, triangles or larger n-gons), and the mesh's
// existing world transform. It is shared and read-only; the placement core
// never mutates it.
type Descriptor struct {
	Vertices      []fauxgl.Vector
	Faces         [][]int
	BaseTransform fauxgl.Matrix
}

// FromMesh builds a Descriptor from a triangle mesh, with an identity base
// transform. Each mesh triangle becomes one 3-index face; vertices are not
// deduplicated since the placement core only transforms them.
func FromMesh(m *fauxgl.Mesh) *Descriptor {
	d := &Descriptor{
		Vertices:      make([]fauxgl.Vector, 0, len(m.Triangles)*3),
		Faces:         make([][]int, 0, len(m.Triangles)),
		BaseTransform: fauxgl.Identity(),
	}
	for _, t := range m.Triangles {
		i := len(d.Vertices)
		d.Vertices = append(d.Vertices, t.V1.Position, t.V2.Position, t.V3.Position)
		d.Faces = append(d.Faces, []int{i, i + 1, i + 2})
	}
	return d
}

// Validate checks the descriptor for structural problems: empty geometry,
// faces with fewer than three vertices, and face indices outside the vertex
// range. A descriptor that fails validation cannot be placed.
func (d *Descriptor) Validate() error {
	if len(d.Vertices) == 0 {
		return fmt.Errorf("descriptor has no vertices")
	}
	if len(d.Faces) == 0 {
		return fmt.Errorf("descriptor has no faces")
	}
	for fi, face := range d.Faces {
		if len(face) < 3 {
			return fmt.Errorf("face %d has %d vertices, need at least 3", fi, len(face))
		}
		for _, vi := range face {
			if vi < 0 || vi >= len(d.Vertices) {
				return fmt.Errorf("face %d references vertex %d, mesh has %d", fi, vi, len(d.Vertices))
			}
		}
	}
	return nil
}

// TriangleCount returns the number of triangles after fan triangulation of
// all faces.
func (d *Descriptor) TriangleCount() int {
	n := 0
	for _, face := range d.Faces {
		if len(face) >= 3 {
			n += len(face) - 2
		}
	}
	return n
}
