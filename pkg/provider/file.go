package provider

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/scatter/pkg/geom"
	"github.com/fogleman/fauxgl"
)

// FileProvider resolves names to mesh files under a root directory. The
// name is a relative path including extension; anything fauxgl can load
// (STL, OBJ, PLY, 3DS) works. Loaded descriptors are cached.
type FileProvider struct {
	root  string
	cache map[string]*geom.Descriptor
}

// NewFileProvider creates a provider rooted at dir.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{root: dir, cache: make(map[string]*geom.Descriptor)}
}

// Get loads the mesh file for name, converting it to a descriptor.
func (p *FileProvider) Get(name string) (*geom.Descriptor, error) {
	if desc, ok := p.cache[name]; ok {
		return desc, nil
	}

	path := filepath.Join(p.root, name)
	if _, err := os.Stat(path); err != nil {
		return nil, &NotFoundError{Name: name}
	}

	mesh, err := fauxgl.LoadMesh(path)
	if err != nil {
		return nil, fmt.Errorf("mesh '%s': %w", name, err)
	}

	desc := geom.FromMesh(mesh)
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("mesh '%s': %w", name, err)
	}
	p.cache[name] = desc
	return desc, nil
}
