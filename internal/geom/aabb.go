package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Empty returns an inverted box that overlaps nothing and acts as the
// identity for Union.
func Empty() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// FromPoints returns the tightest box around pts.
func FromPoints(pts ...mgl64.Vec3) AABB {
	b := Empty()
	for _, p := range pts {
		b = b.Include(p)
	}
	return b
}

// FromCenter creates an AABB from a center point and half extents.
func FromCenter(center, half mgl64.Vec3) AABB {
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

func (a AABB) IsEmpty() bool {
	return a.Min[0] > a.Max[0] || a.Min[1] > a.Max[1] || a.Min[2] > a.Max[2]
}

// Overlaps checks if two AABBs overlap. Touching boxes overlap.
func (a AABB) Overlaps(b AABB) bool {
	return a.Max[0] >= b.Min[0] && a.Min[0] <= b.Max[0] &&
		a.Max[1] >= b.Min[1] && a.Min[1] <= b.Max[1] &&
		a.Max[2] >= b.Min[2] && a.Min[2] <= b.Max[2]
}

func (a AABB) ContainsPoint(p mgl64.Vec3) bool {
	return p[0] >= a.Min[0] && p[0] <= a.Max[0] &&
		p[1] >= a.Min[1] && p[1] <= a.Max[1] &&
		p[2] >= a.Min[2] && p[2] <= a.Max[2]
}

func (a AABB) Include(p mgl64.Vec3) AABB {
	for i := 0; i < 3; i++ {
		a.Min[i] = math.Min(a.Min[i], p[i])
		a.Max[i] = math.Max(a.Max[i], p[i])
	}
	return a
}

func (a AABB) Union(b AABB) AABB {
	for i := 0; i < 3; i++ {
		a.Min[i] = math.Min(a.Min[i], b.Min[i])
		a.Max[i] = math.Max(a.Max[i], b.Max[i])
	}
	return a
}

// Inflate grows the box by margin on every axis. Empty boxes stay empty.
func (a AABB) Inflate(margin float64) AABB {
	if a.IsEmpty() {
		return a
	}
	m := mgl64.Vec3{margin, margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

func (a AABB) Translate(d mgl64.Vec3) AABB {
	return AABB{Min: a.Min.Add(d), Max: a.Max.Add(d)}
}

func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Extent returns the full size along each axis, zero for empty boxes.
func (a AABB) Extent() mgl64.Vec3 {
	if a.IsEmpty() {
		return mgl64.Vec3{}
	}
	return a.Max.Sub(a.Min)
}
