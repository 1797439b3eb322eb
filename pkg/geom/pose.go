package geom

import "github.com/fogleman/fauxgl"

var (
	axisX = fauxgl.V(1, 0, 0)
	axisY = fauxgl.V(0, 1, 0)
	axisZ = fauxgl.V(0, 0, 1)
)

// Pose is one placement candidate: a location and an XYZ Euler rotation in
// radians. Poses are created per attempt and immutable once an instance is
// accepted with them.
type Pose struct {
	Location fauxgl.Vector
	Rotation fauxgl.Vector
}

// RotationMatrix returns the combined Euler rotation Rz·Ry·Rx: X applied
// first, then Y, then Z.
func (p Pose) RotationMatrix() fauxgl.Matrix {
	rx := fauxgl.Rotate(axisX, p.Rotation.X)
	ry := fauxgl.Rotate(axisY, p.Rotation.Y)
	rz := fauxgl.Rotate(axisZ, p.Rotation.Z)
	return rz.Mul(ry).Mul(rx)
}

// Matrix returns T(location)·R(rotation). Composed under a base transform as
// base·T·R, a vertex is rotated about the object's local origin first, then
// translated, then carried by the base placement. This order must match the
// base mesh's native placement convention; see Descriptor.Posed.
func (p Pose) Matrix() fauxgl.Matrix {
	return fauxgl.Translate(p.Location).Mul(p.RotationMatrix())
}
