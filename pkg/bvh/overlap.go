package bvh

// Overlaps reports whether any triangle of t intersects any triangle of o.
// The query is symmetric. Both trees are already in world space, so the
// traversal needs no per-node transforms: it descends pairs of nodes whose
// boxes overlap and runs exact triangle tests only at leaf/leaf pairs.
func (t *Tree) Overlaps(o *Tree) bool {
	return nodesOverlap(t.root, o.root)
}

func nodesOverlap(a, b *node) bool {
	if a == nil || b == nil {
		return false
	}
	if !boxesOverlap(a.box, b.box) {
		return false
	}

	if a.triangles != nil && b.triangles != nil {
		for _, ta := range a.triangles {
			for _, tb := range b.triangles {
				if trianglesIntersect(ta, tb) {
					return true
				}
			}
		}
		return false
	}

	// Descend the internal node; against a leaf this tries both children.
	if a.triangles != nil {
		return nodesOverlap(a, b.left) || nodesOverlap(a, b.right)
	}
	if b.triangles != nil {
		return nodesOverlap(a.left, b) || nodesOverlap(a.right, b)
	}
	return nodesOverlap(a.left, b.left) ||
		nodesOverlap(a.left, b.right) ||
		nodesOverlap(a.right, b.left) ||
		nodesOverlap(a.right, b.right)
}
