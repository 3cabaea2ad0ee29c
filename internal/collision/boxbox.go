package collision

import (
	"cmp"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// boxBox is a 15-axis separating axis test. A face axis of minimum overlap
// yields a clipped manifold of up to len(out) points; an edge axis yields
// the closest points of the two edges.
func boxBox(a, b *convexShape, envelope float64, out []manifoldPoint) int {
	ua, ub := a.pose.Axes(), b.pose.Axes()
	ha, hb := a.dims, b.dims
	t := b.pose.Pos.Sub(a.pose.Pos)

	best := -1
	bestOverlap := math.Inf(1)
	var bestAxis mgl64.Vec3

	test := func(axis mgl64.Vec3, idx int) bool {
		l := axis.Len()
		if l < 1e-9 {
			// parallel edges, covered by the face axes
			return true
		}
		axis = axis.Mul(1 / l)
		ra := ha[0]*math.Abs(ua[0].Dot(axis)) + ha[1]*math.Abs(ua[1].Dot(axis)) + ha[2]*math.Abs(ua[2].Dot(axis))
		rb := hb[0]*math.Abs(ub[0].Dot(axis)) + hb[1]*math.Abs(ub[1].Dot(axis)) + hb[2]*math.Abs(ub[2].Dot(axis))
		dist := t.Dot(axis)
		overlap := ra + rb - math.Abs(dist)
		if overlap < -envelope {
			return false
		}
		better := overlap < bestOverlap
		if idx >= 6 {
			// edge axes must win clearly over face axes
			better = overlap < bestOverlap-(1e-5+0.05*math.Abs(bestOverlap))
		}
		if better {
			best, bestOverlap = idx, overlap
			bestAxis = axis
			if dist < 0 {
				bestAxis = axis.Mul(-1)
			}
		}
		return true
	}

	for i := 0; i < 3; i++ {
		if !test(ua[i], i) {
			return 0
		}
	}
	for i := 0; i < 3; i++ {
		if !test(ub[i], 3+i) {
			return 0
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !test(ua[i].Cross(ub[j]), 6+3*i+j) {
				return 0
			}
		}
	}
	if best < 0 {
		return 0
	}

	n := bestAxis
	switch {
	case best < 3:
		if c := clipBoxes(a, b, best, n, envelope, out); c > 0 {
			return c
		}
	case best < 6:
		if c := clipBoxes(b, a, best-3, n.Mul(-1), envelope, out); c > 0 {
			return flipAll(out, c)
		}
	default:
		i, j := (best-6)/3, (best-6)%3
		pa := a.pose.Pos
		for k := 0; k < 3; k++ {
			if k != i {
				pa = pa.Add(ua[k].Mul(signum(ua[k].Dot(n)) * ha[k]))
			}
		}
		pb := b.pose.Pos
		for k := 0; k < 3; k++ {
			if k != j {
				pb = pb.Add(ub[k].Mul(-signum(ub[k].Dot(n)) * hb[k]))
			}
		}
		ea, eb := ua[i].Mul(ha[i]), ub[j].Mul(hb[j])
		qa, qb := closestSegmentSegment(pa.Sub(ea), pa.Add(ea), pb.Sub(eb), pb.Add(eb))
		out[0] = manifoldPoint{pointA: qa, pointB: qb, normal: n, depth: bestOverlap}
		return 1
	}

	// clipping found nothing within the envelope: use B's deepest vertex
	pb := b.support(n.Mul(-1))
	out[0] = manifoldPoint{pointA: pb.Add(n.Mul(bestOverlap)), pointB: pb, normal: n, depth: bestOverlap}
	return 1
}

// clipBoxes clips the incident face of inc against the reference face
// axis r of ref. nRef is the reference face normal pointing toward inc.
// Points are written with ref as A.
func clipBoxes(ref, inc *convexShape, r int, nRef mgl64.Vec3, envelope float64, out []manifoldPoint) int {
	ur, ui := ref.pose.Axes(), inc.pose.Axes()
	hr, hi := ref.dims, inc.dims

	j, bestDot := 0, -1.0
	for k := 0; k < 3; k++ {
		if d := math.Abs(ui[k].Dot(nRef)); d > bestDot {
			j, bestDot = k, d
		}
	}
	fc := inc.pose.Pos.Add(ui[j].Mul(-signum(ui[j].Dot(nRef)) * hi[j]))
	e1 := ui[(j+1)%3].Mul(hi[(j+1)%3])
	e2 := ui[(j+2)%3].Mul(hi[(j+2)%3])
	poly := []mgl64.Vec3{
		fc.Add(e1).Add(e2),
		fc.Sub(e1).Add(e2),
		fc.Sub(e1).Sub(e2),
		fc.Add(e1).Sub(e2),
	}

	for _, k := range [2]int{(r + 1) % 3, (r + 2) % 3} {
		for _, s := range [2]float64{1, -1} {
			side := ur[k].Mul(s)
			poly = clipPolygon(poly, side, side.Dot(ref.pose.Pos)+hr[k])
			if len(poly) == 0 {
				return 0
			}
		}
	}

	face := ref.pose.Pos.Add(nRef.Mul(hr[r]))
	cand := make([]manifoldPoint, 0, len(poly))
	for _, p := range poly {
		sep := p.Sub(face).Dot(nRef)
		if sep > envelope {
			continue
		}
		cand = append(cand, manifoldPoint{pointA: p.Sub(nRef.Mul(sep)), pointB: p, normal: nRef, depth: -sep})
	}
	slices.SortStableFunc(cand, func(x, y manifoldPoint) int { return cmp.Compare(y.depth, x.depth) })
	return copy(out, cand)
}

// clipPolygon keeps the part of poly with n·p <= offset.
func clipPolygon(poly []mgl64.Vec3, n mgl64.Vec3, offset float64) []mgl64.Vec3 {
	const tol = 1e-9
	out := make([]mgl64.Vec3, 0, len(poly)+4)
	for i := range poly {
		p, q := poly[i], poly[(i+1)%len(poly)]
		dp, dq := n.Dot(p)-offset-tol, n.Dot(q)-offset-tol
		if dp <= 0 {
			out = append(out, p)
		}
		if (dp < 0 && dq > 0) || (dp > 0 && dq < 0) {
			out = append(out, p.Add(q.Sub(p).Mul(dp/(dp-dq))))
		}
	}
	return out
}
