package scene

import (
	"fmt"
	"slices"
)

// Generator builds a world from size parameters.
type Generator func(Params) *World

type Registry struct {
	generators map[string]Generator
	about      map[string]string
}

func NewRegistry() *Registry {
	r := &Registry{
		generators: make(map[string]Generator),
		about:      make(map[string]string),
	}

	r.Register("spheres", "random spheres in a bounded cube", Spheres)
	r.Register("boxes", "random rotated boxes in a bounded cube", Boxes)
	r.Register("lattice", "separated rotated boxes on a cubic lattice", Lattice)
	r.Register("stack", "box column resting on a ground slab", Stack)
	r.Register("pile", "every convex kind above a ground slab", Pile)
	r.Register("compound", "multi-shape bodies", Compound)
	r.Register("fluid", "fluid particle block over fixed spheres", FluidBlock)

	return r
}

func (r *Registry) Register(name, about string, g Generator) {
	r.generators[name] = g
	r.about[name] = about
}

func (r *Registry) Get(name string, p Params) (*World, error) {
	fn, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", name)
	}
	return fn(p), nil
}

func (r *Registry) Describe(name string) string { return r.about[name] }

// List returns the scene names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
