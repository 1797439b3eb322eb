// Package geom defines the static geometry descriptor and pose types used
// by the placement core, and the posed-geometry transform that turns them
// into world-space triangles.
package geom
