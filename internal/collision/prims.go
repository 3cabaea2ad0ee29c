package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/mcollide/internal/shape"
)

// manifoldPoint is one contact candidate before it is written to HostData.
type manifoldPoint struct {
	pointA, pointB mgl64.Vec3
	normal         mgl64.Vec3
	depth          float64
}

func (m manifoldPoint) flip() manifoldPoint {
	return manifoldPoint{pointA: m.pointB, pointB: m.pointA, normal: m.normal.Mul(-1), depth: m.depth}
}

func flipAll(out []manifoldPoint, n int) int {
	for i := 0; i < n; i++ {
		out[i] = out[i].flip()
	}
	return n
}

func boxFace(k shape.Kind) bool { return k == shape.Box || k == shape.RoundedBox }

// collidePrims runs the analytic routine for the kind pair. The second
// result is false when no routine exists.
func collidePrims(a, b *convexShape, envelope float64, out []manifoldPoint) (int, bool) {
	ka, kb := a.kind, b.kind
	switch {
	case ka == shape.Sphere && kb == shape.Sphere:
		return sphereSphere(a.pose.Pos, a.radius, b.pose.Pos, b.radius, envelope, out), true

	case ka == shape.Sphere && boxFace(kb):
		return sphereBox(a, b, envelope, out), true
	case boxFace(ka) && kb == shape.Sphere:
		return flipAll(out, sphereBox(b, a, envelope, out)), true

	case ka == shape.Sphere && kb == shape.Capsule:
		return sphereCapsule(a, b, envelope, out), true
	case ka == shape.Capsule && kb == shape.Sphere:
		return flipAll(out, sphereCapsule(b, a, envelope, out)), true

	case ka == shape.Capsule && kb == shape.Capsule:
		pa0, pa1 := a.segment()
		pb0, pb1 := b.segment()
		qa, qb := closestSegmentSegment(pa0, pa1, pb0, pb1)
		return sphereSphere(qa, a.radius, qb, b.radius, envelope, out), true

	case ka == shape.Box && kb == shape.Box:
		return boxBox(a, b, envelope, out), true

	case ka == shape.Sphere && kb == shape.Triangle:
		return sphereTriangle(a, b, envelope, out), true
	case ka == shape.Triangle && kb == shape.Sphere:
		return flipAll(out, sphereTriangle(b, a, envelope, out)), true
	}
	return 0, false
}

func sphereSphere(ca mgl64.Vec3, ra float64, cb mgl64.Vec3, rb float64, envelope float64, out []manifoldPoint) int {
	delta := cb.Sub(ca)
	dist := delta.Len()
	depth := ra + rb - dist
	if depth < -envelope {
		return 0
	}
	n := mgl64.Vec3{1, 0, 0}
	if dist > 1e-12 {
		n = delta.Mul(1 / dist)
	}
	out[0] = manifoldPoint{
		pointA: ca.Add(n.Mul(ra)),
		pointB: cb.Sub(n.Mul(rb)),
		normal: n,
		depth:  depth,
	}
	return 1
}

// sphereBox handles boxes and rounded boxes; box.radius is the rounding.
func sphereBox(s, box *convexShape, envelope float64, out []manifoldPoint) int {
	c := box.pose.ApplyInv(s.pose.Pos)
	h := box.dims
	q := mgl64.Vec3{
		math.Max(-h[0], math.Min(h[0], c[0])),
		math.Max(-h[1], math.Min(h[1], c[1])),
		math.Max(-h[2], math.Min(h[2], c[2])),
	}

	var nLocal mgl64.Vec3
	var dist float64
	if d2 := q.Sub(c).LenSqr(); d2 > 1e-24 {
		dist = math.Sqrt(d2)
		nLocal = q.Sub(c).Mul(1 / dist)
	} else {
		// center inside the core: push out through the nearest face
		axis, pen := 0, math.Inf(1)
		for i := 0; i < 3; i++ {
			if p := h[i] - math.Abs(c[i]); p < pen {
				axis, pen = i, p
			}
		}
		q[axis] = signum(c[axis]) * h[axis]
		nLocal[axis] = -signum(c[axis])
		dist = -pen
	}

	depth := s.radius + box.radius - dist
	if depth < -envelope {
		return 0
	}
	n := box.pose.Rot.Rotate(nLocal)
	out[0] = manifoldPoint{
		pointA: s.pose.Pos.Add(n.Mul(s.radius)),
		pointB: box.pose.Apply(q).Sub(n.Mul(box.radius)),
		normal: n,
		depth:  depth,
	}
	return 1
}

func sphereCapsule(s, c *convexShape, envelope float64, out []manifoldPoint) int {
	p0, p1 := c.segment()
	q := closestOnSegment(p0, p1, s.pose.Pos)
	return sphereSphere(s.pose.Pos, s.radius, q, c.radius, envelope, out)
}

func sphereTriangle(s, t *convexShape, envelope float64, out []manifoldPoint) int {
	v := t.triangle()
	c := s.pose.Pos
	q := closestOnTriangle(c, v[0], v[1], v[2])
	delta := q.Sub(c)
	dist := delta.Len()
	depth := s.radius - dist
	if depth < -envelope {
		return 0
	}
	var n mgl64.Vec3
	if dist > 1e-12 {
		n = delta.Mul(1 / dist)
	} else {
		n = v[1].Sub(v[0]).Cross(v[2].Sub(v[0]))
		if n.LenSqr() < 1e-24 {
			n = mgl64.Vec3{0, 1, 0}
		}
		n = n.Normalize()
	}
	out[0] = manifoldPoint{pointA: c.Add(n.Mul(s.radius)), pointB: q, normal: n, depth: depth}
	return 1
}
