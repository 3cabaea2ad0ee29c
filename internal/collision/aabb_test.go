package collision

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/mcollide/internal/geom"
	"github.com/san-kum/mcollide/internal/shape"
)

func TestGenerateAABB(t *testing.T) {
	rotZ45 := mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1})
	rotX90 := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0})
	s2 := math.Sqrt2

	tests := []struct {
		name     string
		shape    shape.Shape
		bodyPos  mgl64.Vec3
		bodyRot  mgl64.Quat
		envelope float64
		want     geom.AABB
	}{
		{
			name:    "sphere",
			shape:   shape.NewSphere(2, mgl64.Vec3{1, 0, 0}),
			bodyPos: mgl64.Vec3{0, 1, 0},
			bodyRot: mgl64.QuatIdent(),
			want:    geom.AABB{Min: mgl64.Vec3{-1, -1, -2}, Max: mgl64.Vec3{3, 3, 2}},
		},
		{
			name:     "sphere with envelope",
			shape:    shape.NewSphere(1, mgl64.Vec3{}),
			bodyRot:  mgl64.QuatIdent(),
			envelope: 0.5,
			want:     geom.AABB{Min: mgl64.Vec3{-1.5, -1.5, -1.5}, Max: mgl64.Vec3{1.5, 1.5, 1.5}},
		},
		{
			name:    "rotated box",
			shape:   shape.NewBox(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{}, mgl64.QuatIdent()),
			bodyRot: rotZ45,
			want:    geom.AABB{Min: mgl64.Vec3{-s2, -s2, -1}, Max: mgl64.Vec3{s2, s2, 1}},
		},
		{
			name:    "capsule lying along z",
			shape:   shape.NewCapsule(0.5, 2, mgl64.Vec3{}, rotX90),
			bodyRot: mgl64.QuatIdent(),
			want:    geom.AABB{Min: mgl64.Vec3{-0.5, -0.5, -2.5}, Max: mgl64.Vec3{0.5, 0.5, 2.5}},
		},
		{
			name:    "cylinder",
			shape:   shape.NewCylinder(1, 3, mgl64.Vec3{}, mgl64.QuatIdent()),
			bodyRot: mgl64.QuatIdent(),
			want:    geom.AABB{Min: mgl64.Vec3{-1, -3, -1}, Max: mgl64.Vec3{1, 3, 1}},
		},
		{
			name:    "rounded box",
			shape:   shape.NewRoundedBox(mgl64.Vec3{1, 2, 3}, 0.25, mgl64.Vec3{}, mgl64.QuatIdent()),
			bodyRot: mgl64.QuatIdent(),
			want:    geom.AABB{Min: mgl64.Vec3{-1.25, -2.25, -3.25}, Max: mgl64.Vec3{1.25, 2.25, 3.25}},
		},
		{
			name:    "ellipsoid",
			shape:   shape.NewEllipsoid(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{}, mgl64.QuatIdent()),
			bodyPos: mgl64.Vec3{5, 5, 5},
			bodyRot: mgl64.QuatIdent(),
			want:    geom.AABB{Min: mgl64.Vec3{4, 3, 2}, Max: mgl64.Vec3{6, 7, 8}},
		},
		{
			name:    "convex",
			shape:   shape.NewConvex([]mgl64.Vec3{{0, 0, 0}, {1, 2, 0}, {-1, 0, 3}}, mgl64.Vec3{1, 0, 0}, mgl64.QuatIdent()),
			bodyRot: mgl64.QuatIdent(),
			want:    geom.AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{2, 2, 3}},
		},
		{
			name:    "triangle",
			shape:   shape.NewTriangle(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}),
			bodyPos: mgl64.Vec3{0, 0, 2},
			bodyRot: mgl64.QuatIdent(),
			want:    geom.AABB{Min: mgl64.Vec3{0, 0, 2}, Max: mgl64.Vec3{1, 1, 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Data
			b := newBody(0, tt.bodyPos)
			b.rot = tt.bodyRot
			if err := d.Add(shape.NewModel(b).AddShape(tt.shape)); err != nil {
				t.Fatal(err)
			}
			testSync(&d, testBodies{b})
			NewAABBGenerator(&d).GenerateAABB(tt.envelope)
			got := d.aabb(0)
			if !approxVec(got.Min, tt.want.Min, 1e-9) || !approxVec(got.Max, tt.want.Max, 1e-9) {
				t.Errorf("AABB = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateAABBUnsyncedBodyIsEmpty(t *testing.T) {
	var d Data
	if err := d.Add(sphereModel(newBody(3, mgl64.Vec3{}), 1)); err != nil {
		t.Fatal(err)
	}
	testSync(&d, testBodies{newBody(0, mgl64.Vec3{})})
	NewAABBGenerator(&d).GenerateAABB(0.1)
	if !d.aabb(0).IsEmpty() {
		t.Errorf("AABB of unsynchronized body = %v, want empty", d.aabb(0))
	}
}

// testSync copies body state into d the way System.Synchronize does.
func testSync(d *Data, bodies testBodies) {
	st := &d.State
	st.Pos, st.Rot = nil, nil
	st.Active, st.Collide = nil, nil
	for _, b := range bodies {
		st.Pos = append(st.Pos, b.pos)
		st.Rot = append(st.Rot, b.rot)
		st.Active = append(st.Active, b.active)
		st.Collide = append(st.Collide, b.collide)
	}
	st.NumRigidBodies = len(bodies)
}
