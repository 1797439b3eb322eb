// Package bvh builds axis-aligned bounding volume hierarchies over
// world-space triangles and answers pairwise mesh overlap queries. Trees are
// built purely from geometry data; no scene linkage is involved.
package bvh

import (
	"sort"

	"github.com/fogleman/fauxgl"
)

// maxLeafSize is the triangle count threshold below which a node becomes a
// leaf instead of splitting.
const maxLeafSize = 4

// Tree is an immutable AABB hierarchy over one posed mesh's triangles.
type Tree struct {
	root *node
}

type node struct {
	box       fauxgl.Box
	left      *node
	right     *node
	triangles []*fauxgl.Triangle // leaf nodes only
}

// NewTree builds a hierarchy from world-space triangles. The input slice is
// reordered in place during construction. A tree over zero triangles is
// valid and overlaps nothing.
func NewTree(triangles []*fauxgl.Triangle) *Tree {
	if len(triangles) == 0 {
		return &Tree{}
	}
	return &Tree{root: buildNode(triangles)}
}

// Bounds returns the bounding box of the whole tree.
func (t *Tree) Bounds() fauxgl.Box {
	if t.root == nil {
		return fauxgl.Box{}
	}
	return t.root.box
}

// TriangleCount returns the number of triangles stored in the tree.
func (t *Tree) TriangleCount() int {
	return countTriangles(t.root)
}

func countTriangles(n *node) int {
	if n == nil {
		return 0
	}
	if n.triangles != nil {
		return len(n.triangles)
	}
	return countTriangles(n.left) + countTriangles(n.right)
}

func buildNode(triangles []*fauxgl.Triangle) *node {
	n := &node{box: trianglesBox(triangles)}

	if len(triangles) <= maxLeafSize {
		n.triangles = triangles
		return n
	}

	// Split at the median along the longest axis of the node box.
	size := n.box.Max.Sub(n.box.Min)
	axis := 0
	if size.Y > size.X && size.Y > size.Z {
		axis = 1
	} else if size.Z > size.X && size.Z > size.Y {
		axis = 2
	}

	sort.Slice(triangles, func(i, j int) bool {
		return centroidAxis(triangles[i], axis) < centroidAxis(triangles[j], axis)
	})

	mid := len(triangles) / 2
	n.left = buildNode(triangles[:mid])
	n.right = buildNode(triangles[mid:])
	return n
}

func centroidAxis(t *fauxgl.Triangle, axis int) float64 {
	c := t.V1.Position.Add(t.V2.Position).Add(t.V3.Position)
	switch axis {
	case 0:
		return c.X
	case 1:
		return c.Y
	default:
		return c.Z
	}
}

func trianglesBox(triangles []*fauxgl.Triangle) fauxgl.Box {
	box := triangles[0].BoundingBox()
	for _, t := range triangles[1:] {
		b := t.BoundingBox()
		box.Min = box.Min.Min(b.Min)
		box.Max = box.Max.Max(b.Max)
	}
	return box
}

func boxesOverlap(a, b fauxgl.Box) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}
