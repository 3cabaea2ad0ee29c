package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	epaMaxIterations = 64
	epaTolerance     = 1e-9
)

type epaFace struct {
	v      [3]int
	normal mgl64.Vec3
	dist   float64
}

// epa expands the GJK tetrahedron to the face of A - B closest to the
// origin. The face normal points from A toward B and its distance is the
// penetration depth.
func epa(a, b *convexShape, s simplex) (manifoldPoint, bool) {
	verts := make([]supportVertex, 0, 32)
	verts = append(verts, s.v[:4]...)
	inner := verts[0].p.Add(verts[1].p).Add(verts[2].p).Add(verts[3].p).Mul(0.25)

	faces := make([]epaFace, 0, 32)
	for _, f := range [4][3]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}} {
		faces = append(faces, makeFace(verts, f, inner))
	}

	var best epaFace
	for iter := 0; iter < epaMaxIterations; iter++ {
		bi := closestFace(faces)
		if bi < 0 {
			return manifoldPoint{}, false
		}
		best = faces[bi]
		w := minkowski(a, b, best.normal)
		if w.p.Dot(best.normal)-best.dist < epaTolerance*(1+math.Abs(best.dist)) {
			return faceContact(verts, best), true
		}

		verts = append(verts, w)
		wi := len(verts) - 1
		var horizon [][2]int
		next := make([]epaFace, 0, len(faces)+4)
		for _, f := range faces {
			if f.normal.Dot(w.p.Sub(verts[f.v[0]].p)) > 1e-12 {
				for e := 0; e < 3; e++ {
					horizon = toggleEdge(horizon, [2]int{f.v[e], f.v[(e+1)%3]})
				}
				continue
			}
			next = append(next, f)
		}
		if len(next) == len(faces) {
			break
		}
		for _, e := range horizon {
			next = append(next, makeFace(verts, [3]int{e[0], e[1], wi}, inner))
		}
		faces = next
	}
	return faceContact(verts, best), true
}

func makeFace(verts []supportVertex, idx [3]int, inner mgl64.Vec3) epaFace {
	a, b, c := verts[idx[0]].p, verts[idx[1]].p, verts[idx[2]].p
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l < 1e-14 {
		return epaFace{v: idx, dist: math.Inf(1)}
	}
	n = n.Mul(1 / l)
	if n.Dot(a.Sub(inner)) < 0 {
		n = n.Mul(-1)
	}
	return epaFace{v: idx, normal: n, dist: n.Dot(a)}
}

func closestFace(faces []epaFace) int {
	best, bestDist := -1, math.Inf(1)
	for i, f := range faces {
		if f.dist < bestDist {
			best, bestDist = i, f.dist
		}
	}
	return best
}

// toggleEdge adds e to the horizon or cancels it against an edge shared
// with another removed face.
func toggleEdge(edges [][2]int, e [2]int) [][2]int {
	for i, h := range edges {
		if (h[0] == e[0] && h[1] == e[1]) || (h[0] == e[1] && h[1] == e[0]) {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return append(edges, e)
}

// faceContact interpolates the support points of A and B at the projection
// of the origin onto f.
func faceContact(verts []supportVertex, f epaFace) manifoldPoint {
	va, vb, vc := verts[f.v[0]], verts[f.v[1]], verts[f.v[2]]
	p := f.normal.Mul(f.dist)
	u, v, w := barycentric(p, va.p, vb.p, vc.p)
	return manifoldPoint{
		pointA: va.a.Mul(u).Add(vb.a.Mul(v)).Add(vc.a.Mul(w)),
		pointB: va.b.Mul(u).Add(vb.b.Mul(v)).Add(vc.b.Mul(w)),
		normal: f.normal,
		depth:  f.dist,
	}
}

// gjkContact runs GJK and EPA on supports inflated by half the envelope
// each, so pairs closer than the envelope still produce a contact.
func gjkContact(a, b convexShape, envelope float64, out []manifoldPoint) int {
	m := envelope / 2
	a.margin, b.margin = m, m
	s, hit := gjk(&a, &b)
	if !hit {
		return 0
	}
	if s.n < 4 && !s.complete(&a, &b) {
		return 0
	}
	c, ok := epa(&a, &b, s)
	if !ok || math.IsInf(c.depth, 0) {
		return 0
	}
	c.pointA = c.pointA.Sub(c.normal.Mul(m))
	c.pointB = c.pointB.Add(c.normal.Mul(m))
	c.depth -= envelope
	if c.depth < -envelope {
		return 0
	}
	out[0] = c
	return 1
}
