package scene

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/mcollide/internal/geom"
	"github.com/san-kum/mcollide/internal/shape"
)

// Params size a generated scene. Zero fields take the generator default.
type Params struct {
	Count  int     `yaml:"count"`
	Extent float64 `yaml:"extent"`
	Size   float64 `yaml:"size"`
	Speed  float64 `yaml:"speed"`
	Fluid  int     `yaml:"fluid"`
	Seed   uint64  `yaml:"seed"`
}

func (p Params) withDefaults(count int, extent, size float64) Params {
	if p.Count <= 0 {
		p.Count = count
	}
	if p.Extent <= 0 {
		p.Extent = extent
	}
	if p.Size <= 0 {
		p.Size = size
	}
	return p
}

func (p Params) rng() *rand.Rand {
	return rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15))
}

func randIn(r *rand.Rand, extent float64) mgl64.Vec3 {
	return mgl64.Vec3{
		(r.Float64()*2 - 1) * extent,
		(r.Float64()*2 - 1) * extent,
		(r.Float64()*2 - 1) * extent,
	}
}

func randRot(r *rand.Rand) mgl64.Quat {
	axis := mgl64.Vec3{r.NormFloat64(), r.NormFloat64(), r.NormFloat64()}
	if axis.Len() < 1e-9 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(r.Float64()*2*math.Pi, axis.Normalize())
}

func (w *World) drift(r *rand.Rand, speed float64) {
	if speed <= 0 {
		return
	}
	for _, b := range w.Bodies {
		if b.Fixed {
			continue
		}
		b.Velocity = randIn(r, speed)
		b.Spin = randIn(r, speed)
	}
}

func bounded(w *World, extent float64) {
	w.Bounds = geom.AABB{
		Min: mgl64.Vec3{-extent, -extent, -extent},
		Max: mgl64.Vec3{extent, extent, extent},
	}
}

// Spheres scatters Count spheres of radius Size in a cube of half side
// Extent.
func Spheres(p Params) *World {
	p = p.withDefaults(200, 10, 0.5)
	r := p.rng()
	w := NewWorld("spheres")
	for i := 0; i < p.Count; i++ {
		_, m := w.AddBody(randIn(r, p.Extent), mgl64.QuatIdent())
		m.AddShape(shape.NewSphere(p.Size*(0.5+r.Float64()), mgl64.Vec3{}))
	}
	bounded(w, p.Extent)
	w.drift(r, p.Speed)
	return w
}

// Boxes scatters randomly rotated boxes of half extent up to Size.
func Boxes(p Params) *World {
	p = p.withDefaults(200, 10, 0.5)
	r := p.rng()
	w := NewWorld("boxes")
	for i := 0; i < p.Count; i++ {
		_, m := w.AddBody(randIn(r, p.Extent), randRot(r))
		half := mgl64.Vec3{p.Size * (0.5 + r.Float64()/2), p.Size * (0.5 + r.Float64()/2), p.Size * (0.5 + r.Float64()/2)}
		m.AddShape(shape.NewBox(half, mgl64.Vec3{}, mgl64.QuatIdent()))
	}
	bounded(w, p.Extent)
	w.drift(r, p.Speed)
	return w
}

// Lattice places Count boxes on a cubic lattice with spacing 4*Size, each
// randomly rotated and far enough from its neighbours never to touch.
func Lattice(p Params) *World {
	p = p.withDefaults(1000, 1, 0.5)
	r := p.rng()
	w := NewWorld("lattice")
	side := int(math.Ceil(math.Cbrt(float64(p.Count))))
	spacing := 4 * p.Size
	for i := 0; i < p.Count; i++ {
		x, y, z := i%side, (i/side)%side, i/(side*side)
		pos := mgl64.Vec3{float64(x) * spacing, float64(y) * spacing, float64(z) * spacing}
		_, m := w.AddBody(pos, randRot(r))
		m.AddShape(shape.NewBox(mgl64.Vec3{p.Size, p.Size, p.Size}, mgl64.Vec3{}, mgl64.QuatIdent()))
	}
	return w
}

// Stack builds a column of Count unit-ish boxes resting on each other over
// a fixed ground slab, with faces touching.
func Stack(p Params) *World {
	p = p.withDefaults(10, 10, 0.5)
	w := NewWorld("stack")
	ground, gm := w.AddBody(mgl64.Vec3{0, -p.Size, 0}, mgl64.QuatIdent())
	ground.Fixed = true
	ground.Active = false
	gm.AddShape(shape.NewBox(mgl64.Vec3{p.Extent, p.Size, p.Extent}, mgl64.Vec3{}, mgl64.QuatIdent()))

	// 1% overlap so each interface yields a face manifold
	step := 2 * p.Size * 0.99
	for i := 0; i < p.Count; i++ {
		_, m := w.AddBody(mgl64.Vec3{0, p.Size*0.99 + float64(i)*step, 0}, mgl64.QuatIdent())
		m.AddShape(shape.NewBox(mgl64.Vec3{p.Size, p.Size, p.Size}, mgl64.Vec3{}, mgl64.QuatIdent()))
	}
	return w
}

// Pile drops a mix of every convex kind into a bounded box above a ground
// slab.
func Pile(p Params) *World {
	p = p.withDefaults(300, 6, 0.4)
	r := p.rng()
	w := NewWorld("pile")
	ground, gm := w.AddBody(mgl64.Vec3{0, -p.Extent - p.Size, 0}, mgl64.QuatIdent())
	ground.Fixed = true
	gm.AddShape(shape.NewBox(mgl64.Vec3{2 * p.Extent, p.Size, 2 * p.Extent}, mgl64.Vec3{}, mgl64.QuatIdent()))

	s := p.Size
	id := mgl64.QuatIdent()
	makers := []func() shape.Shape{
		func() shape.Shape { return shape.NewSphere(s, mgl64.Vec3{}) },
		func() shape.Shape { return shape.NewBox(mgl64.Vec3{s, s, s}, mgl64.Vec3{}, id) },
		func() shape.Shape { return shape.NewEllipsoid(mgl64.Vec3{s, s / 2, s}, mgl64.Vec3{}, id) },
		func() shape.Shape { return shape.NewCylinder(s, s, mgl64.Vec3{}, id) },
		func() shape.Shape { return shape.NewCone(s, s, mgl64.Vec3{}, id) },
		func() shape.Shape { return shape.NewCapsule(s/2, s, mgl64.Vec3{}, id) },
		func() shape.Shape { return shape.NewRoundedBox(mgl64.Vec3{s, s, s}.Mul(0.8), s*0.2, mgl64.Vec3{}, id) },
		func() shape.Shape {
			return shape.NewConvex([]mgl64.Vec3{{s, 0, 0}, {-s, 0, 0}, {0, s, 0}, {0, 0, s}, {0, -s, -s}}, mgl64.Vec3{}, id)
		},
	}
	for i := 0; i < p.Count; i++ {
		_, m := w.AddBody(randIn(r, p.Extent), randRot(r))
		m.AddShape(makers[i%len(makers)]())
	}
	bounded(w, p.Extent)
	w.drift(r, p.Speed)
	return w
}

// Compound builds bodies of two spheres joined by a capsule, exercising
// multi-shape models.
func Compound(p Params) *World {
	p = p.withDefaults(100, 8, 0.4)
	r := p.rng()
	w := NewWorld("compound")
	s := p.Size
	for i := 0; i < p.Count; i++ {
		_, m := w.AddBody(randIn(r, p.Extent), randRot(r))
		m.AddShape(shape.NewSphere(s, mgl64.Vec3{0, 2 * s, 0})).
			AddShape(shape.NewCapsule(s/2, s, mgl64.Vec3{}, mgl64.QuatIdent())).
			AddShape(shape.NewSphere(s, mgl64.Vec3{0, -2 * s, 0}))
	}
	bounded(w, p.Extent)
	w.drift(r, p.Speed)
	return w
}

// FluidBlock puts a block of Fluid particles with spacing Size above a
// bowl of fixed spheres.
func FluidBlock(p Params) *World {
	p = p.withDefaults(16, 4, 0.2)
	if p.Fluid <= 0 {
		p.Fluid = 1000
	}
	w := NewWorld("fluid")
	side := int(math.Ceil(math.Sqrt(float64(p.Count))))
	for i := 0; i < p.Count; i++ {
		x := float64(i%side)/float64(side)*2*p.Extent - p.Extent
		z := float64(i/side)/float64(side)*2*p.Extent - p.Extent
		b, m := w.AddBody(mgl64.Vec3{x, 0, z}, mgl64.QuatIdent())
		b.Fixed = true
		m.AddShape(shape.NewSphere(p.Extent/float64(side), mgl64.Vec3{}))
	}

	n := int(math.Ceil(math.Cbrt(float64(p.Fluid))))
	origin := mgl64.Vec3{-float64(n) * p.Size / 2, p.Size, -float64(n) * p.Size / 2}
	w.Fluid = make(Particles, 0, p.Fluid)
	for i := 0; i < p.Fluid; i++ {
		x, y, z := i%n, (i/n)%n, i/(n*n)
		w.Fluid = append(w.Fluid, origin.Add(mgl64.Vec3{float64(x), float64(y), float64(z)}.Mul(p.Size)))
	}
	w.FluidVelocity = mgl64.Vec3{0, -p.Speed, 0}
	return w
}
