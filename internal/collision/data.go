package collision

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/mcollide/internal/geom"
	"github.com/san-kum/mcollide/internal/shape"
)

// ShapeData is the shape database. Every per-shape slice has one entry per
// shape record, index-aligned with Kind.
type ShapeData struct {
	ObA    []mgl64.Vec3
	ObR    []mgl64.Quat
	Start  []int
	Length []int
	Fam    []shape.Family
	Kind   []shape.Kind
	BodyID []int
	Local  []int

	Spheres   []float64
	BoxLike   []mgl64.Vec3
	Capsules  []mgl64.Vec2
	RBoxLike  []mgl64.Vec4
	Convex    []mgl64.Vec3
	Triangles []mgl64.Vec3
}

func (sd *ShapeData) Len() int { return len(sd.Kind) }

// StateData mirrors the external body list as of the last Synchronize.
type StateData struct {
	Pos     []mgl64.Vec3
	Rot     []mgl64.Quat
	Active  []bool
	Collide []bool

	NumRigidBodies int
	NumFluidBodies int
	FluidPos       []mgl64.Vec3
}

// HostData holds everything derived during a Run.
type HostData struct {
	AABBMin []mgl64.Vec3
	AABBMax []mgl64.Vec3

	PairShapeIDs []uint64
	PairBin      []int

	BodyIDs          [][2]int
	ContactShapeIDs  []uint64
	Normals          []mgl64.Vec3
	PointsA          []mgl64.Vec3
	PointsB          []mgl64.Vec3
	Depths           []float64
	BinContactCounts []int

	FluidShapeIDs    []int
	FluidIDs         []int
	FluidNormals     []mgl64.Vec3
	FluidPoints      []mgl64.Vec3
	FluidDepths      []float64
	RigidFluidCounts []int
}

type Measures struct {
	MinBoundingPoint mgl64.Vec3
	MaxBoundingPoint mgl64.Vec3
	BinSize          mgl64.Vec3
	InvBinSize       mgl64.Vec3
	BinsPerAxis      [3]int
}

func (m Measures) NumBins() int {
	return m.BinsPerAxis[0] * m.BinsPerAxis[1] * m.BinsPerAxis[2]
}

// Data is the collision state owned by a System and shared by reference
// with its pipeline stages.
type Data struct {
	Shapes   ShapeData
	State    StateData
	Host     HostData
	Measures Measures

	NumRigidShapes        int
	NumRigidContacts      int
	NumRigidFluidContacts int
}

// Contact is one rigid-rigid contact. Normal points from A toward B and
// Depth is positive for penetration.
type Contact struct {
	BodyA, BodyB   int
	ShapeA, ShapeB int
	PointA, PointB mgl64.Vec3
	Normal         mgl64.Vec3
	Depth          float64
}

// FluidContact is one rigid-fluid contact. Normal points from the shape
// toward the particle.
type FluidContact struct {
	Shape  int
	Body   int
	Fluid  int
	Point  mgl64.Vec3
	Normal mgl64.Vec3
	Depth  float64
}

// bodyPose returns the pose of body id, false when id is outside the
// synchronized body list.
func (d *Data) bodyPose(id int) (geom.Pose, bool) {
	if id < 0 || id >= len(d.State.Pos) {
		return geom.Pose{}, false
	}
	return geom.Pose{Pos: d.State.Pos[id], Rot: d.State.Rot[id]}, true
}

// shapePose composes the owning body's pose with the shape's local frame.
func (d *Data) shapePose(i int) (geom.Pose, bool) {
	body, ok := d.bodyPose(d.Shapes.BodyID[i])
	if !ok {
		return geom.Pose{}, false
	}
	return body.Compose(geom.Pose{Pos: d.Shapes.ObA[i], Rot: d.Shapes.ObR[i]}), true
}

// collidable reports whether shape i belongs to a synchronized body with
// collision enabled.
func (d *Data) collidable(i int) bool {
	id := d.Shapes.BodyID[i]
	return id >= 0 && id < len(d.State.Collide) && d.State.Collide[id]
}

func (d *Data) aabb(i int) geom.AABB {
	return geom.AABB{Min: d.Host.AABBMin[i], Max: d.Host.AABBMax[i]}
}

func resize[T any](s []T, n int) []T {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]T, n)
}
