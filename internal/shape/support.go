package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Support functions return the point of a shape-local convex set furthest
// along direction d. d need not be normalized; a zero d returns some point
// of the set.

func SupportSphere(r float64, d mgl64.Vec3) mgl64.Vec3 {
	return unit(d).Mul(r)
}

func SupportBox(half, d mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{sign(d[0]) * half[0], sign(d[1]) * half[1], sign(d[2]) * half[2]}
}

func SupportEllipsoid(semi, d mgl64.Vec3) mgl64.Vec3 {
	s := mgl64.Vec3{semi[0] * d[0], semi[1] * d[1], semi[2] * d[2]}
	l := s.Len()
	if l < 1e-15 {
		return mgl64.Vec3{semi[0], 0, 0}
	}
	return mgl64.Vec3{semi[0] * s[0] / l, semi[1] * s[1] / l, semi[2] * s[2] / l}
}

// SupportCylinder uses dims = (radius, half height, radius) about +Y.
func SupportCylinder(dims, d mgl64.Vec3) mgl64.Vec3 {
	p := radial(dims[0], d)
	p[1] = sign(d[1]) * dims[1]
	return p
}

// SupportCone has its apex at +Y and base disc at -Y.
func SupportCone(dims, d mgl64.Vec3) mgl64.Vec3 {
	apex := mgl64.Vec3{0, dims[1], 0}
	rim := radial(dims[0], d)
	rim[1] = -dims[1]
	if apex.Dot(d) >= rim.Dot(d) {
		return apex
	}
	return rim
}

// SupportCapsule uses a core segment of half length hl along Y.
func SupportCapsule(r, hl float64, d mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{0, sign(d[1]) * hl, 0}.Add(unit(d).Mul(r))
}

func SupportPoints(pts []mgl64.Vec3, d mgl64.Vec3) mgl64.Vec3 {
	if len(pts) == 0 {
		return mgl64.Vec3{}
	}
	best, bestDot := pts[0], pts[0].Dot(d)
	for _, p := range pts[1:] {
		if v := p.Dot(d); v > bestDot {
			best, bestDot = p, v
		}
	}
	return best
}

// SupportCore is the support of the un-rounded core of k. Rounded kinds map
// to their box, cylinder or cone core; callers add the rounding radius.
func SupportCore(k Kind, dims mgl64.Vec3, d mgl64.Vec3) mgl64.Vec3 {
	switch k {
	case Box, RoundedBox:
		return SupportBox(dims, d)
	case Ellipsoid:
		return SupportEllipsoid(dims, d)
	case Cylinder, CylShell, RoundedCyl:
		return SupportCylinder(dims, d)
	case Cone, RoundedCone:
		return SupportCone(dims, d)
	}
	return mgl64.Vec3{}
}

// Support evaluates the shape-local support of s, rounding included.
func Support(s Shape, d mgl64.Vec3) mgl64.Vec3 {
	switch {
	case s.Kind == Sphere:
		return SupportSphere(s.Radius, d)
	case s.Kind == Capsule:
		return SupportCapsule(s.Radius, s.HalfLength, d)
	case s.Kind == Convex:
		return SupportPoints(s.Points, d)
	case s.Kind == Triangle:
		return SupportPoints(s.Vertices[:], d)
	case s.Kind.Rounded():
		return SupportCore(s.Kind, s.Dims, d).Add(unit(d).Mul(s.Radius))
	}
	return SupportCore(s.Kind, s.Dims, d)
}

func radial(r float64, d mgl64.Vec3) mgl64.Vec3 {
	l := math.Hypot(d[0], d[2])
	if l < 1e-15 {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{r * d[0] / l, 0, r * d[2] / l}
}

func unit(d mgl64.Vec3) mgl64.Vec3 {
	l := d.Len()
	if l < 1e-15 {
		return mgl64.Vec3{1, 0, 0}
	}
	return d.Mul(1 / l)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
