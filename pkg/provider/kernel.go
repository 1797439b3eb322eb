package provider

import (
	"fmt"
	"sync"

	"github.com/chazu/scatter/pkg/geom"
	"github.com/chazu/scatter/pkg/kernel"
	"github.com/fogleman/fauxgl"
)

// KernelProvider resolves names to solids modeled in a geometry kernel,
// tessellating on first use. Safe for concurrent use.
type KernelProvider struct {
	k      kernel.Kernel
	mu     sync.Mutex
	solids map[string]kernel.Solid
	cache  map[string]*geom.Descriptor
}

// NewKernelProvider creates a provider backed by k.
func NewKernelProvider(k kernel.Kernel) *KernelProvider {
	return &KernelProvider{
		k:      k,
		solids: make(map[string]kernel.Solid),
		cache:  make(map[string]*geom.Descriptor),
	}
}

// Define registers a solid under a name. Redefining a name drops the
// cached tessellation.
func (p *KernelProvider) Define(name string, s kernel.Solid) error {
	if s == nil {
		return fmt.Errorf("solid '%s': nil solid", name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.solids[name] = s
	delete(p.cache, name)
	return nil
}

// Get tessellates the named solid into a descriptor.
func (p *KernelProvider) Get(name string) (*geom.Descriptor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if desc, ok := p.cache[name]; ok {
		return desc, nil
	}
	s, exists := p.solids[name]
	if !exists {
		return nil, &NotFoundError{Name: name}
	}

	mesh, err := p.k.ToMesh(s)
	if err != nil {
		return nil, fmt.Errorf("solid '%s': %w", name, err)
	}
	if mesh.IsEmpty() {
		return nil, fmt.Errorf("solid '%s': tessellation produced no geometry", name)
	}

	desc := FromKernelMesh(mesh)
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("solid '%s': %w", name, err)
	}
	p.cache[name] = desc
	return desc, nil
}

// FromKernelMesh converts a tessellated kernel mesh to a descriptor.
func FromKernelMesh(m *kernel.Mesh) *geom.Descriptor {
	desc := &geom.Descriptor{
		Vertices:      make([]fauxgl.Vector, m.VertexCount()),
		Faces:         make([][]int, 0, m.TriangleCount()),
		BaseTransform: fauxgl.Identity(),
	}
	for i := range desc.Vertices {
		x, y, z := m.Position(i)
		desc.Vertices[i] = fauxgl.V(x, y, z)
	}
	for i := 0; i < len(m.Indices); i += 3 {
		desc.Faces = append(desc.Faces, []int{
			int(m.Indices[i]), int(m.Indices[i+1]), int(m.Indices[i+2]),
		})
	}
	return desc
}
