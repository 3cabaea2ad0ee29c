package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/mcollide/internal/collision"
	"github.com/san-kum/mcollide/internal/geom"
	"github.com/san-kum/mcollide/internal/shape"
)

// Particles is a fluid particle list.
type Particles []mgl64.Vec3

func (p Particles) Len() int            { return len(p) }
func (p Particles) At(i int) mgl64.Vec3 { return p[i] }

// World is an ordered body list plus one collision model per body. It
// satisfies collision.BodyList.
type World struct {
	Name   string
	Bodies []*Body
	Models []*shape.Model
	Fluid  Particles
	// FluidVelocity is applied to every particle in Advance.
	FluidVelocity mgl64.Vec3

	// Bounds, when not empty, reflects moving bodies back inside.
	Bounds geom.AABB
	Time   float64
}

func NewWorld(name string) *World {
	return &World{Name: name, Bounds: geom.Empty()}
}

func (w *World) Len() int                { return len(w.Bodies) }
func (w *World) At(i int) collision.Body { return w.Bodies[i] }

// AddBody appends an active, collidable body at pos and returns its model,
// ready for shapes.
func (w *World) AddBody(pos mgl64.Vec3, rot mgl64.Quat) (*Body, *shape.Model) {
	if rot.Len() == 0 {
		rot = mgl64.QuatIdent()
	}
	b := &Body{id: len(w.Bodies), Position: pos, Rotation: rot, Active: true, Collidable: true}
	m := shape.NewModel(b)
	w.Bodies = append(w.Bodies, b)
	w.Models = append(w.Models, m)
	return b, m
}

func (w *World) NumShapes() int {
	n := 0
	for _, m := range w.Models {
		n += m.NumShapes()
	}
	return n
}

// Register adds every model to sys.
func (w *World) Register(sys *collision.System) error {
	for _, m := range w.Models {
		if err := sys.Add(m); err != nil {
			return fmt.Errorf("scene %s: %w", w.Name, err)
		}
	}
	return nil
}

// Sync mirrors the world into sys.
func (w *World) Sync(sys *collision.System) {
	sys.Synchronize(w)
	sys.SynchronizeFluid(w.Fluid)
}

// Advance moves every body and particle by dt.
func (w *World) Advance(dt float64) {
	for _, b := range w.Bodies {
		b.step(dt)
		if !w.Bounds.IsEmpty() {
			w.reflect(b)
		}
	}
	if w.FluidVelocity.LenSqr() > 0 {
		d := w.FluidVelocity.Mul(dt)
		for i := range w.Fluid {
			w.Fluid[i] = w.Fluid[i].Add(d)
		}
	}
	w.Time += dt
}

func (w *World) reflect(b *Body) {
	for i := 0; i < 3; i++ {
		switch {
		case b.Position[i] < w.Bounds.Min[i] && b.Velocity[i] < 0:
			b.Velocity[i] = -b.Velocity[i]
		case b.Position[i] > w.Bounds.Max[i] && b.Velocity[i] > 0:
			b.Velocity[i] = -b.Velocity[i]
		}
	}
}
