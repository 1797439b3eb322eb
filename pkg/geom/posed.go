package geom

import "github.com/fogleman/fauxgl"

// PosedGeometry is a descriptor with a pose applied: world-space vertex
// positions plus the (shared) face index lists. It is ephemeral, recomputed
// for every placement attempt.
type PosedGeometry struct {
	WorldVertices []fauxgl.Vector
	Faces         [][]int
}

// Posed applies the pose to the descriptor, producing world-space geometry.
// The transform chain is baseTransform · Translation(location) ·
// Rotation(rotation) applied to every base vertex, matching the convention
// of the scene the base mesh came from.
func (d *Descriptor) Posed(p Pose) *PosedGeometry {
	world := d.BaseTransform.Mul(p.Matrix())
	verts := make([]fauxgl.Vector, len(d.Vertices))
	for i, v := range d.Vertices {
		verts[i] = world.MulPosition(v)
	}
	return &PosedGeometry{WorldVertices: verts, Faces: d.Faces}
}

// Triangles fan-triangulates the faces into world-space triangles. Faces
// with fewer than three vertices are skipped.
func (pg *PosedGeometry) Triangles() []*fauxgl.Triangle {
	tris := make([]*fauxgl.Triangle, 0, len(pg.Faces))
	for _, face := range pg.Faces {
		if len(face) < 3 {
			continue
		}
		v0 := pg.WorldVertices[face[0]]
		for i := 1; i+1 < len(face); i++ {
			tris = append(tris, fauxgl.NewTriangleForPoints(
				v0, pg.WorldVertices[face[i]], pg.WorldVertices[face[i+1]]))
		}
	}
	return tris
}

// Mesh returns the posed geometry as a fauxgl mesh, for materialization and
// export by scene consumers.
func (pg *PosedGeometry) Mesh() *fauxgl.Mesh {
	return fauxgl.NewTriangleMesh(pg.Triangles())
}
