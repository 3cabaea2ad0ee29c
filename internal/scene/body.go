// Package scene builds body worlds for driving the collision system:
// bodies implementing the collision body contract, their collision
// models, optional fluid particles and simple kinematic drift.
package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Body is a kinematic rigid body. Its id is its index in the owning World.
type Body struct {
	id int

	Position mgl64.Vec3
	Rotation mgl64.Quat
	Velocity mgl64.Vec3
	// Spin is the angular velocity in world coordinates.
	Spin mgl64.Vec3

	Active     bool
	Collidable bool
	// Fixed bodies never move in Advance.
	Fixed bool
}

func (b *Body) ID() int         { return b.id }
func (b *Body) Pos() mgl64.Vec3 { return b.Position }
func (b *Body) Rot() mgl64.Quat { return b.Rotation }
func (b *Body) IsActive() bool  { return b.Active }
func (b *Body) Collide() bool   { return b.Collidable }

// step advances the pose by explicit Euler over dt.
func (b *Body) step(dt float64) {
	if b.Fixed {
		return
	}
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	if b.Spin.LenSqr() == 0 {
		return
	}
	w := mgl64.Quat{V: b.Spin.Mul(0.5 * dt)}
	q := b.Rotation.Add(w.Mul(b.Rotation))
	if q.Len() > 0 {
		b.Rotation = q.Normalize()
	}
}
