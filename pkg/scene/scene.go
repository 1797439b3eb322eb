// Package scene mirrors placement results into a host-scene model: named
// collections of posed objects, with an optional physics attachment hook.
// Placement itself never touches this package; results are linked in after
// the fact.
package scene

import (
	"fmt"
	"sort"

	"github.com/chazu/scatter/pkg/geom"
	"github.com/chazu/scatter/pkg/place"
)

// Object is one posed copy linked into a collection.
type Object struct {
	Name string
	Pose geom.Pose
}

// Collection is a named group of objects.
type Collection struct {
	Name    string
	Objects []*Object
}

// PhysicsAttacher gives linked objects a physics body. Implementations
// belong to the host environment; placement runs fine without one.
type PhysicsAttacher interface {
	Attach(obj *Object) error
}

// Scene holds named collections.
type Scene struct {
	collections map[string]*Collection
	attacher    PhysicsAttacher
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{collections: make(map[string]*Collection)}
}

// SetPhysicsAttacher registers an attacher applied to every object linked
// from then on.
func (s *Scene) SetPhysicsAttacher(a PhysicsAttacher) {
	s.attacher = a
}

// EnsureCollection returns a fresh empty collection under name. An existing
// collection of the same name is dropped first, objects and all, so reruns
// never accumulate stale copies.
func (s *Scene) EnsureCollection(name string) *Collection {
	c := &Collection{Name: name}
	s.collections[name] = c
	return c
}

// Collection returns the named collection if it exists.
func (s *Scene) Collection(name string) (*Collection, bool) {
	c, ok := s.collections[name]
	return c, ok
}

// CollectionNames returns all collection names, sorted.
func (s *Scene) CollectionNames() []string {
	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Populate links every accepted instance of a run into the named
// collection, recreating it first. Objects keep the run's instance names
// and order.
func (s *Scene) Populate(name string, res *place.Result) (*Collection, error) {
	c := s.EnsureCollection(name)
	for _, inst := range res.Instances {
		obj := &Object{Name: inst.Name, Pose: inst.Pose}
		if s.attacher != nil {
			if err := s.attacher.Attach(obj); err != nil {
				return nil, fmt.Errorf("attach physics to '%s': %w", obj.Name, err)
			}
		}
		c.Objects = append(c.Objects, obj)
	}
	return c, nil
}
