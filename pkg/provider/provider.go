// Package provider resolves named base meshes into geometry descriptors.
// The placement core only ever sees a descriptor; where the mesh came from
// (an in-memory registry, a mesh file on disk, a CAD kernel solid) is the
// provider's business.
package provider

import (
	"fmt"

	"github.com/chazu/scatter/pkg/geom"
)

// Provider resolves a mesh name to its geometry descriptor.
type Provider interface {
	Get(name string) (*geom.Descriptor, error)
}

// NotFoundError reports a name the provider does not know.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("mesh '%s' not found", e.Name)
}
