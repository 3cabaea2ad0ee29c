package geom

import "github.com/go-gl/mathgl/mgl64"

// Pose is a rigid transform: rotate by Rot, then translate by Pos.
type Pose struct {
	Pos mgl64.Vec3
	Rot mgl64.Quat
}

func Identity() Pose {
	return Pose{Rot: mgl64.QuatIdent()}
}

// Compose returns the pose of a child frame given in p's local coordinates,
// i.e. p * local.
func (p Pose) Compose(local Pose) Pose {
	return Pose{
		Pos: p.Pos.Add(p.Rot.Rotate(local.Pos)),
		Rot: p.Rot.Mul(local.Rot).Normalize(),
	}
}

// Apply maps a local point to world coordinates.
func (p Pose) Apply(v mgl64.Vec3) mgl64.Vec3 {
	return p.Pos.Add(p.Rot.Rotate(v))
}

// ApplyInv maps a world point to local coordinates.
func (p Pose) ApplyInv(v mgl64.Vec3) mgl64.Vec3 {
	return p.Rot.Conjugate().Rotate(v.Sub(p.Pos))
}

// RotateInv maps a world direction to local coordinates.
func (p Pose) RotateInv(d mgl64.Vec3) mgl64.Vec3 {
	return p.Rot.Conjugate().Rotate(d)
}

// Axes returns the rotated local X, Y and Z axes.
func (p Pose) Axes() [3]mgl64.Vec3 {
	m := p.Rot.Mat4().Mat3()
	return [3]mgl64.Vec3{m.Col(0), m.Col(1), m.Col(2)}
}
