package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/mcollide/internal/shape"
)

type testBody struct {
	id      int
	pos     mgl64.Vec3
	rot     mgl64.Quat
	active  bool
	collide bool
}

func newBody(id int, pos mgl64.Vec3) *testBody {
	return &testBody{id: id, pos: pos, rot: mgl64.QuatIdent(), active: true, collide: true}
}

func (b *testBody) ID() int         { return b.id }
func (b *testBody) Pos() mgl64.Vec3 { return b.pos }
func (b *testBody) Rot() mgl64.Quat { return b.rot }
func (b *testBody) IsActive() bool  { return b.active }
func (b *testBody) Collide() bool   { return b.collide }

type testBodies []*testBody

func (l testBodies) Len() int      { return len(l) }
func (l testBodies) At(i int) Body { return l[i] }

type testFluid []mgl64.Vec3

func (f testFluid) Len() int            { return len(f) }
func (f testFluid) At(i int) mgl64.Vec3 { return f[i] }

func sphereModel(b *testBody, r float64) *shape.Model {
	return shape.NewModel(b).AddShape(shape.NewSphere(r, mgl64.Vec3{}))
}

func boxModel(b *testBody, half mgl64.Vec3) *shape.Model {
	return shape.NewModel(b).AddShape(shape.NewBox(half, mgl64.Vec3{}, mgl64.QuatIdent()))
}

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func approxVec(a, b mgl64.Vec3, tol float64) bool {
	return approx(a[0], b[0], tol) && approx(a[1], b[1], tol) && approx(a[2], b[2], tol)
}

// shapeOfKind builds a valid shape of kind k with a size drawn from scale.
func shapeOfKind(k shape.Kind, scale float64) shape.Shape {
	id := mgl64.QuatIdent()
	off := mgl64.Vec3{scale * 0.1, 0, 0}
	switch k {
	case shape.Sphere:
		return shape.NewSphere(scale, off)
	case shape.Capsule:
		return shape.NewCapsule(scale*0.5, scale, off, id)
	case shape.Convex:
		n := 3 + int(scale*10)%4
		pts := make([]mgl64.Vec3, n)
		for i := range pts {
			a := 2 * math.Pi * float64(i) / float64(n)
			pts[i] = mgl64.Vec3{scale * math.Cos(a), float64(i%2) * scale, scale * math.Sin(a)}
		}
		return shape.NewConvex(pts, off, id)
	case shape.Triangle:
		return shape.NewTriangle(mgl64.Vec3{}, mgl64.Vec3{scale, 0, 0}, mgl64.Vec3{0, 0, scale})
	case shape.RoundedBox, shape.RoundedCyl, shape.RoundedCone:
		return shape.Shape{Kind: k, Dims: mgl64.Vec3{scale, scale, scale}, Radius: scale * 0.1, Offset: off, Rotation: id}
	}
	return shape.Shape{Kind: k, Dims: mgl64.Vec3{scale, scale * 2, scale}, Offset: off, Rotation: id}
}
