package scene

import (
	"github.com/chazu/scatter/pkg/geom"
	"github.com/chazu/scatter/pkg/place"
	"github.com/fogleman/fauxgl"
)

// Materialize bakes every accepted instance of a run into one triangle
// mesh in world coordinates.
func Materialize(desc *geom.Descriptor, res *place.Result) *fauxgl.Mesh {
	var triangles []*fauxgl.Triangle
	for _, inst := range res.Instances {
		triangles = append(triangles, desc.Posed(inst.Pose).Triangles()...)
	}
	return fauxgl.NewTriangleMesh(triangles)
}

// ExportSTL materializes a run and writes it as a binary STL file.
func ExportSTL(path string, desc *geom.Descriptor, res *place.Result) error {
	return fauxgl.SaveSTL(path, Materialize(desc, res))
}
