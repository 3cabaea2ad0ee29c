package collision

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/mcollide/internal/geom"
	"github.com/san-kum/mcollide/internal/shape"
)

func view(k shape.Kind, pos mgl64.Vec3, rot mgl64.Quat) convexShape {
	return convexShape{kind: k, pose: geom.Pose{Pos: pos, Rot: rot}}
}

func sphereAt(pos mgl64.Vec3, r float64) convexShape {
	return sphereView(pos, r)
}

func boxAt(pos mgl64.Vec3, rot mgl64.Quat, half mgl64.Vec3) convexShape {
	v := view(shape.Box, pos, rot)
	v.dims = half
	return v
}

func TestPrimitiveContacts(t *testing.T) {
	id := mgl64.QuatIdent()
	capsule := func(pos mgl64.Vec3, r, hl float64) convexShape {
		v := view(shape.Capsule, pos, id)
		v.radius, v.half = r, hl
		return v
	}
	tri := view(shape.Triangle, mgl64.Vec3{}, id)
	tri.points = []mgl64.Vec3{{0, 0, 0}, {2, 0, 0}, {0, 0, 2}}
	rbox := boxAt(mgl64.Vec3{}, id, mgl64.Vec3{0.5, 0.5, 0.5})
	rbox.kind, rbox.radius = shape.RoundedBox, 0.1

	tests := []struct {
		name       string
		a, b       convexShape
		envelope   float64
		wantN      int
		wantDepth  float64
		wantNormal mgl64.Vec3
		wantA      mgl64.Vec3
		wantB      mgl64.Vec3
	}{
		{
			name: "sphere sphere", a: sphereAt(mgl64.Vec3{}, 1), b: sphereAt(mgl64.Vec3{1.5, 0, 0}, 1),
			wantN: 1, wantDepth: 0.5, wantNormal: mgl64.Vec3{1, 0, 0},
			wantA: mgl64.Vec3{1, 0, 0}, wantB: mgl64.Vec3{0.5, 0, 0},
		},
		{
			name: "sphere sphere gap in envelope", a: sphereAt(mgl64.Vec3{}, 1), b: sphereAt(mgl64.Vec3{0, 2.05, 0}, 1),
			envelope: 0.1, wantN: 1, wantDepth: -0.05, wantNormal: mgl64.Vec3{0, 1, 0},
			wantA: mgl64.Vec3{0, 1, 0}, wantB: mgl64.Vec3{0, 1.05, 0},
		},
		{
			name: "sphere sphere beyond envelope", a: sphereAt(mgl64.Vec3{}, 1), b: sphereAt(mgl64.Vec3{0, 2.2, 0}, 1),
			envelope: 0.1, wantN: 0,
		},
		{
			name: "sphere box", a: sphereAt(mgl64.Vec3{0, 0.9, 0}, 0.5), b: boxAt(mgl64.Vec3{}, id, mgl64.Vec3{0.5, 0.5, 0.5}),
			wantN: 1, wantDepth: 0.1, wantNormal: mgl64.Vec3{0, -1, 0},
			wantA: mgl64.Vec3{0, 0.4, 0}, wantB: mgl64.Vec3{0, 0.5, 0},
		},
		{
			name: "box sphere", a: boxAt(mgl64.Vec3{}, id, mgl64.Vec3{0.5, 0.5, 0.5}), b: sphereAt(mgl64.Vec3{0, 0.9, 0}, 0.5),
			wantN: 1, wantDepth: 0.1, wantNormal: mgl64.Vec3{0, 1, 0},
			wantA: mgl64.Vec3{0, 0.5, 0}, wantB: mgl64.Vec3{0, 0.4, 0},
		},
		{
			name: "sphere center inside box", a: sphereAt(mgl64.Vec3{0, 0.3, 0}, 0.1), b: boxAt(mgl64.Vec3{}, id, mgl64.Vec3{0.5, 0.5, 0.5}),
			wantN: 1, wantDepth: 0.3, wantNormal: mgl64.Vec3{0, -1, 0},
			wantA: mgl64.Vec3{0, 0.2, 0}, wantB: mgl64.Vec3{0, 0.5, 0},
		},
		{
			name: "sphere rounded box", a: sphereAt(mgl64.Vec3{1, 0, 0}, 0.5), b: rbox,
			wantN: 1, wantDepth: 0.1, wantNormal: mgl64.Vec3{-1, 0, 0},
			wantA: mgl64.Vec3{0.5, 0, 0}, wantB: mgl64.Vec3{0.6, 0, 0},
		},
		{
			name: "sphere capsule", a: sphereAt(mgl64.Vec3{1, 0.5, 0}, 0.5), b: capsule(mgl64.Vec3{}, 0.6, 1),
			wantN: 1, wantDepth: 0.1, wantNormal: mgl64.Vec3{-1, 0, 0},
			wantA: mgl64.Vec3{0.5, 0.5, 0}, wantB: mgl64.Vec3{0.6, 0.5, 0},
		},
		{
			name: "capsule capsule", a: capsule(mgl64.Vec3{}, 0.5, 1), b: capsule(mgl64.Vec3{0.8, 0, 0}, 0.5, 1),
			wantN: 1, wantDepth: 0.2, wantNormal: mgl64.Vec3{1, 0, 0},
			wantA: mgl64.Vec3{0.5, -1, 0}, wantB: mgl64.Vec3{0.3, -1, 0},
		},
		{
			name: "sphere triangle", a: sphereAt(mgl64.Vec3{0.5, 0.3, 0.5}, 0.5), b: tri,
			wantN: 1, wantDepth: 0.2, wantNormal: mgl64.Vec3{0, -1, 0},
			wantA: mgl64.Vec3{0.5, -0.2, 0.5}, wantB: mgl64.Vec3{0.5, 0, 0.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := make([]manifoldPoint, 4)
			n, ok := collidePrims(&tt.a, &tt.b, tt.envelope, out)
			if !ok {
				t.Fatal("no analytic routine")
			}
			if n != tt.wantN {
				t.Fatalf("contacts = %d, want %d", n, tt.wantN)
			}
			if n == 0 {
				return
			}
			c := out[0]
			if !approx(c.depth, tt.wantDepth, 1e-9) {
				t.Errorf("depth = %g, want %g", c.depth, tt.wantDepth)
			}
			if !approxVec(c.normal, tt.wantNormal, 1e-9) {
				t.Errorf("normal = %v, want %v", c.normal, tt.wantNormal)
			}
			if !approxVec(c.pointA, tt.wantA, 1e-9) || !approxVec(c.pointB, tt.wantB, 1e-9) {
				t.Errorf("points = %v %v, want %v %v", c.pointA, c.pointB, tt.wantA, tt.wantB)
			}
		})
	}
}

func TestBoxBoxFaceManifold(t *testing.T) {
	id := mgl64.QuatIdent()
	half := mgl64.Vec3{0.5, 0.5, 0.5}
	a := boxAt(mgl64.Vec3{}, id, half)
	b := boxAt(mgl64.Vec3{0.2, 0.9, 0.1}, id, half)
	out := make([]manifoldPoint, 4)
	n := boxBox(&a, &b, 0, out)
	if n != 4 {
		t.Fatalf("contacts = %d, want 4", n)
	}
	for _, c := range out[:n] {
		if !approx(c.depth, 0.1, 1e-9) {
			t.Errorf("depth = %g, want 0.1", c.depth)
		}
		if !approxVec(c.normal, mgl64.Vec3{0, 1, 0}, 1e-9) {
			t.Errorf("normal = %v", c.normal)
		}
		if !approx(c.pointA[1], 0.5, 1e-9) || !approx(c.pointB[1], 0.4, 1e-9) {
			t.Errorf("points %v %v not on the touching faces", c.pointA, c.pointB)
		}
		if math.Abs(c.pointA[0]) > 0.5+1e-9 || math.Abs(c.pointA[2]) > 0.5+1e-9 {
			t.Errorf("point %v outside reference face", c.pointA)
		}
	}

	one := make([]manifoldPoint, 1)
	if n := boxBox(&a, &b, 0, one); n != 1 {
		t.Errorf("with one slot: contacts = %d, want 1", n)
	}

	// B as reference: swap order and the normal flips
	n = boxBox(&b, &a, 0, out)
	if n != 4 || !approxVec(out[0].normal, mgl64.Vec3{0, -1, 0}, 1e-9) {
		t.Errorf("swapped: %d contacts, normal %v", n, out[0].normal)
	}

	far := boxAt(mgl64.Vec3{0, 1.2, 0}, id, half)
	if n := boxBox(&a, &far, 0.1, out); n != 0 {
		t.Errorf("separated boxes gave %d contacts", n)
	}
}

func TestBoxBoxEdgeEdge(t *testing.T) {
	half := mgl64.Vec3{0.5, 0.5, 0.5}
	a := boxAt(mgl64.Vec3{}, mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{1, 0, 0}), half)
	b := boxAt(mgl64.Vec3{0, 1.3, 0}, mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1}), half)
	out := make([]manifoldPoint, 4)
	n := boxBox(&a, &b, 0, out)
	if n != 1 {
		t.Fatalf("contacts = %d, want 1", n)
	}
	c := out[0]
	wantDepth := math.Sqrt2 - 1.3
	if !approx(c.depth, wantDepth, 1e-9) {
		t.Errorf("depth = %g, want %g", c.depth, wantDepth)
	}
	if !approxVec(c.normal, mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("normal = %v", c.normal)
	}
	if !approxVec(c.pointA, mgl64.Vec3{0, math.Sqrt2 / 2, 0}, 1e-9) ||
		!approxVec(c.pointB, mgl64.Vec3{0, 1.3 - math.Sqrt2/2, 0}, 1e-9) {
		t.Errorf("points = %v %v", c.pointA, c.pointB)
	}
}

func TestGJKMatchesAnalytic(t *testing.T) {
	id := mgl64.QuatIdent()
	half := mgl64.Vec3{0.5, 0.5, 0.5}

	a := boxAt(mgl64.Vec3{}, id, half)
	b := boxAt(mgl64.Vec3{0.9, 0.2, 0.1}, id, half)
	out := make([]manifoldPoint, 1)
	if n := gjkContact(a, b, 0, out); n != 1 {
		t.Fatalf("box box: contacts = %d", n)
	}
	if !approx(out[0].depth, 0.1, 1e-4) || !approxVec(out[0].normal, mgl64.Vec3{1, 0, 0}, 1e-4) {
		t.Errorf("box box: depth %g normal %v", out[0].depth, out[0].normal)
	}
	if !approx(out[0].pointA[0], 0.5, 1e-4) || !approx(out[0].pointB[0], 0.4, 1e-4) {
		t.Errorf("box box: points %v %v", out[0].pointA, out[0].pointB)
	}

	s1, s2 := sphereAt(mgl64.Vec3{}, 1), sphereAt(mgl64.Vec3{1.5, 0, 0}, 1)
	if n := gjkContact(s1, s2, 0, out); n != 1 {
		t.Fatalf("sphere sphere: contacts = %d", n)
	}
	if !approx(out[0].depth, 0.5, 0.02) || out[0].normal[0] < 0.99 {
		t.Errorf("sphere sphere: depth %g normal %v", out[0].depth, out[0].normal)
	}

	far := sphereAt(mgl64.Vec3{3, 0, 0}, 1)
	if n := gjkContact(s1, far, 0.5, out); n != 0 {
		t.Errorf("distant spheres gave %d contacts", n)
	}
}

func TestGJKEnvelope(t *testing.T) {
	id := mgl64.QuatIdent()
	half := mgl64.Vec3{0.5, 0.5, 0.5}
	a := boxAt(mgl64.Vec3{}, id, half)
	b := boxAt(mgl64.Vec3{1.05, 0, 0}, id, half)
	out := make([]manifoldPoint, 1)

	if n := gjkContact(a, b, 0, out); n != 0 {
		t.Fatalf("gap without envelope gave %d contacts", n)
	}
	if n := gjkContact(a, b, 0.2, out); n != 1 {
		t.Fatal("gap inside envelope gave no contact")
	}
	if !approx(out[0].depth, -0.05, 1e-3) || out[0].normal[0] < 0.999 {
		t.Errorf("depth %g normal %v, want -0.05 along +x", out[0].depth, out[0].normal)
	}
}

func TestAlgorithmSelection(t *testing.T) {
	cyl := func(pos mgl64.Vec3) convexShape {
		v := view(shape.Cylinder, pos, mgl64.QuatIdent())
		v.dims = mgl64.Vec3{0.5, 0.5, 0.5}
		return v
	}
	a, b := cyl(mgl64.Vec3{}), cyl(mgl64.Vec3{0.9, 0, 0})
	tri := view(shape.Triangle, mgl64.Vec3{}, mgl64.QuatIdent())
	tri.points = []mgl64.Vec3{{-1, 0, -1}, {1, 0, -1}, {0, 0, 1}}
	tri2 := tri
	tri2.pose.Pos = mgl64.Vec3{0, 0, 0.1}

	tests := []struct {
		name  string
		algo  Algorithm
		a, b  convexShape
		wantN int
	}{
		{"prims has no cylinder routine", AlgorithmPrims, a, b, 0},
		{"hybrid falls back to gjk", AlgorithmHybrid, a, b, 1},
		{"gjk", AlgorithmGJK, a, b, 1},
		{"triangle pairs never collide", AlgorithmHybrid, tri, tri2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			np := &Narrowphase{Algorithm: tt.algo, MaxContactsPerPair: 4}
			out := make([]manifoldPoint, 4)
			n := np.collide(tt.a, tt.b, out)
			if n != tt.wantN {
				t.Fatalf("contacts = %d, want %d", n, tt.wantN)
			}
			if n > 0 && (out[0].depth < 0.05 || out[0].depth > 0.15 || out[0].normal[0] < 0.95) {
				t.Errorf("cylinder contact depth %g normal %v", out[0].depth, out[0].normal)
			}
		})
	}
}

func TestClosestSegmentSegment(t *testing.T) {
	tests := []struct {
		name           string
		p1, q1, p2, q2 mgl64.Vec3
		wantA, wantB   mgl64.Vec3
	}{
		{"crossing", mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, -1}, mgl64.Vec3{0, 1, 1}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}},
		{"end points", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2, 1, 0}, mgl64.Vec3{3, 1, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2, 1, 0}},
		{"degenerate", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{-1, 2, 0}, mgl64.Vec3{1, 2, 0}, mgl64.Vec3{}, mgl64.Vec3{0, 2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := closestSegmentSegment(tt.p1, tt.q1, tt.p2, tt.q2)
			if !approxVec(a, tt.wantA, 1e-12) || !approxVec(b, tt.wantB, 1e-12) {
				t.Errorf("got %v %v, want %v %v", a, b, tt.wantA, tt.wantB)
			}
		})
	}
}
