package shape

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalid = errors.New("shape: invalid parameters")

// Shape is one collision primitive expressed in its owning body's frame.
//
// Parameter use by kind:
//
//	Sphere                          Radius
//	Ellipsoid                       Dims = semi-axes
//	Box                             Dims = half extents
//	Cylinder, CylShell, Cone        Dims = (radius, half height, radius), axis +Y
//	Capsule                         Radius, HalfLength (core segment along Y)
//	RoundedBox/RoundedCyl/Cone      Dims as above, Radius = rounding radius
//	Convex                          Points (hull vertices)
//	Triangle                        Vertices
type Shape struct {
	Kind       Kind
	Offset     mgl64.Vec3
	Rotation   mgl64.Quat
	Radius     float64
	HalfLength float64
	Dims       mgl64.Vec3
	Points     []mgl64.Vec3
	Vertices   [3]mgl64.Vec3
}

func NewSphere(radius float64, offset mgl64.Vec3) Shape {
	return Shape{Kind: Sphere, Radius: radius, Offset: offset, Rotation: mgl64.QuatIdent()}
}

func NewBox(half mgl64.Vec3, offset mgl64.Vec3, rot mgl64.Quat) Shape {
	return Shape{Kind: Box, Dims: half, Offset: offset, Rotation: rot}
}

func NewEllipsoid(semi mgl64.Vec3, offset mgl64.Vec3, rot mgl64.Quat) Shape {
	return Shape{Kind: Ellipsoid, Dims: semi, Offset: offset, Rotation: rot}
}

func NewCylinder(radius, halfHeight float64, offset mgl64.Vec3, rot mgl64.Quat) Shape {
	return Shape{Kind: Cylinder, Dims: mgl64.Vec3{radius, halfHeight, radius}, Offset: offset, Rotation: rot}
}

func NewCone(radius, halfHeight float64, offset mgl64.Vec3, rot mgl64.Quat) Shape {
	return Shape{Kind: Cone, Dims: mgl64.Vec3{radius, halfHeight, radius}, Offset: offset, Rotation: rot}
}

func NewCapsule(radius, halfLength float64, offset mgl64.Vec3, rot mgl64.Quat) Shape {
	return Shape{Kind: Capsule, Radius: radius, HalfLength: halfLength, Offset: offset, Rotation: rot}
}

func NewRoundedBox(half mgl64.Vec3, rounding float64, offset mgl64.Vec3, rot mgl64.Quat) Shape {
	return Shape{Kind: RoundedBox, Dims: half, Radius: rounding, Offset: offset, Rotation: rot}
}

func NewConvex(points []mgl64.Vec3, offset mgl64.Vec3, rot mgl64.Quat) Shape {
	pts := make([]mgl64.Vec3, len(points))
	copy(pts, points)
	return Shape{Kind: Convex, Points: pts, Offset: offset, Rotation: rot}
}

func NewTriangle(a, b, c mgl64.Vec3) Shape {
	return Shape{Kind: Triangle, Vertices: [3]mgl64.Vec3{a, b, c}, Rotation: mgl64.QuatIdent()}
}

// Validate checks kind membership and parameter ranges.
func (s Shape) Validate() error {
	if !s.Kind.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalid, s.Kind)
	}
	if !finiteVec(s.Offset) || !finite(s.Rotation.W) || !finiteVec(s.Rotation.V) {
		return fmt.Errorf("%w: %s frame is not finite", ErrInvalid, s.Kind)
	}
	if s.Rotation.Len() < 1e-9 {
		return fmt.Errorf("%w: %s rotation is not a unit quaternion", ErrInvalid, s.Kind)
	}
	switch {
	case s.Kind == Sphere:
		if !(s.Radius >= 0) {
			return fmt.Errorf("%w: sphere radius %g", ErrInvalid, s.Radius)
		}
	case s.Kind == Capsule:
		if !(s.Radius >= 0) || !(s.HalfLength >= 0) {
			return fmt.Errorf("%w: capsule radius %g half length %g", ErrInvalid, s.Radius, s.HalfLength)
		}
	case s.Kind.BoxLike():
		if !nonNegative(s.Dims) {
			return fmt.Errorf("%w: %s dims %v", ErrInvalid, s.Kind, s.Dims)
		}
	case s.Kind.Rounded():
		if !nonNegative(s.Dims) || !(s.Radius >= 0) {
			return fmt.Errorf("%w: %s dims %v rounding %g", ErrInvalid, s.Kind, s.Dims, s.Radius)
		}
	case s.Kind == Convex:
		if len(s.Points) == 0 {
			return fmt.Errorf("%w: convex hull has no points", ErrInvalid)
		}
		for _, p := range s.Points {
			if !finiteVec(p) {
				return fmt.Errorf("%w: convex point %v", ErrInvalid, p)
			}
		}
	case s.Kind == Triangle:
		for _, p := range s.Vertices {
			if !finiteVec(p) {
				return fmt.Errorf("%w: triangle vertex %v", ErrInvalid, p)
			}
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func finiteVec(v mgl64.Vec3) bool { return finite(v[0]) && finite(v[1]) && finite(v[2]) }

func nonNegative(v mgl64.Vec3) bool { return v[0] >= 0 && v[1] >= 0 && v[2] >= 0 }
