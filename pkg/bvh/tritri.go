package bvh

import (
	"math"

	"github.com/fogleman/fauxgl"
)

// parallelEps is the relative tolerance below which a segment is treated as
// parallel to a triangle's plane.
const parallelEps = 1e-12

// trianglesIntersect reports whether two world-space triangles intersect.
// Two triangles penetrate exactly when an edge of one pierces the face of
// the other, so the test runs the six segment/triangle queries. Coplanar
// contact has zero intersection volume and is classified as non-overlapping;
// exactly-touching boundaries fall on numeric tolerance either way.
func trianglesIntersect(a, b *fauxgl.Triangle) bool {
	if !boxesOverlap(a.BoundingBox(), b.BoundingBox()) {
		return false
	}

	a1, a2, a3 := a.V1.Position, a.V2.Position, a.V3.Position
	b1, b2, b3 := b.V1.Position, b.V2.Position, b.V3.Position

	return segmentIntersectsTriangle(a1, a2, b1, b2, b3) ||
		segmentIntersectsTriangle(a2, a3, b1, b2, b3) ||
		segmentIntersectsTriangle(a3, a1, b1, b2, b3) ||
		segmentIntersectsTriangle(b1, b2, a1, a2, a3) ||
		segmentIntersectsTriangle(b2, b3, a1, a2, a3) ||
		segmentIntersectsTriangle(b3, b1, a1, a2, a3)
}

// segmentIntersectsTriangle reports whether segment pq crosses the interior
// of triangle abc. The crossing point is found parametrically on the
// triangle's plane, then classified with barycentric coordinates.
func segmentIntersectsTriangle(p, q, a, b, c fauxgl.Vector) bool {
	ab := b.Sub(a)
	ac := c.Sub(a)
	n := ab.Cross(ac)

	dir := q.Sub(p)
	denom := dir.Dot(n)
	if math.Abs(denom) <= parallelEps*dir.Length()*n.Length() {
		return false // parallel or coplanar
	}

	t := a.Sub(p).Dot(n) / denom
	if t < 0 || t > 1 {
		return false
	}
	x := p.Add(dir.MulScalar(t))

	// Barycentric classification of x.
	v2 := x.Sub(a)
	d00 := ab.Dot(ab)
	d01 := ab.Dot(ac)
	d11 := ac.Dot(ac)
	d20 := v2.Dot(ab)
	d21 := v2.Dot(ac)
	det := d00*d11 - d01*d01
	if det == 0 {
		return false // degenerate triangle
	}
	u := (d11*d20 - d01*d21) / det
	v := (d00*d21 - d01*d20) / det
	return u >= 0 && v >= 0 && u+v <= 1
}
