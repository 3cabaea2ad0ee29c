package collision

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/mcollide/internal/geom"
	"github.com/san-kum/mcollide/internal/shape"
)

// convexShape is a world-posed view of one shape record, enough to run any
// narrowphase routine on it.
type convexShape struct {
	kind shape.Kind
	pose geom.Pose

	dims mgl64.Vec3
	// radius is the sphere or capsule radius, or the rounding radius.
	radius float64
	half   float64
	points []mgl64.Vec3

	// margin inflates the support function uniformly.
	margin float64
}

func (d *Data) convexView(i int) (convexShape, bool) {
	pose, ok := d.shapePose(i)
	if !ok {
		return convexShape{}, false
	}
	sd := &d.Shapes
	start := sd.Start[i]
	v := convexShape{kind: sd.Kind[i], pose: pose}
	switch k := v.kind; {
	case k == shape.Sphere:
		v.radius = sd.Spheres[start]
	case k == shape.Capsule:
		v.radius, v.half = sd.Capsules[start][0], sd.Capsules[start][1]
	case k == shape.Convex:
		v.points = sd.Convex[start : start+sd.Length[i]]
	case k == shape.Triangle:
		v.points = sd.Triangles[start : start+3]
	case k.BoxLike():
		v.dims = sd.BoxLike[start]
	case k.Rounded():
		r := sd.RBoxLike[start]
		v.dims, v.radius = r.Vec3(), r[3]
	default:
		return convexShape{}, false
	}
	return v, true
}

func sphereView(center mgl64.Vec3, radius float64) convexShape {
	return convexShape{kind: shape.Sphere, pose: geom.Pose{Pos: center, Rot: mgl64.QuatIdent()}, radius: radius}
}

// support returns the world-space point of the shape furthest along d.
func (c *convexShape) support(d mgl64.Vec3) mgl64.Vec3 {
	local := c.pose.RotateInv(d)
	var p mgl64.Vec3
	switch k := c.kind; {
	case k == shape.Sphere:
		p = shape.SupportSphere(c.radius, local)
	case k == shape.Capsule:
		p = shape.SupportCapsule(c.radius, c.half, local)
	case k == shape.Convex, k == shape.Triangle:
		p = shape.SupportPoints(c.points, local)
	case k.Rounded():
		p = shape.SupportCore(k, c.dims, local).Add(shape.SupportSphere(c.radius, local))
	default:
		p = shape.SupportCore(k, c.dims, local)
	}
	w := c.pose.Apply(p)
	if c.margin > 0 {
		w = w.Add(shape.SupportSphere(c.margin, d))
	}
	return w
}

// triangle returns the world-space vertices of a triangle view.
func (c *convexShape) triangle() [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{c.pose.Apply(c.points[0]), c.pose.Apply(c.points[1]), c.pose.Apply(c.points[2])}
}

// segment returns the world-space end points of a capsule core.
func (c *convexShape) segment() (mgl64.Vec3, mgl64.Vec3) {
	u := c.pose.Axes()[1].Mul(c.half)
	return c.pose.Pos.Sub(u), c.pose.Pos.Add(u)
}
