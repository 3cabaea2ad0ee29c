package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const gjkMaxIterations = 64

// supportVertex is a point of the Minkowski difference A - B together with
// the support points of A and B that produced it.
type supportVertex struct {
	p, a, b mgl64.Vec3
}

func minkowski(a, b *convexShape, d mgl64.Vec3) supportVertex {
	sa := a.support(d)
	sb := b.support(d.Mul(-1))
	return supportVertex{p: sa.Sub(sb), a: sa, b: sb}
}

// simplex keeps its newest vertex last.
type simplex struct {
	v [4]supportVertex
	n int
}

// gjk reports whether a and b intersect. On a hit the returned simplex
// contains the origin, possibly on its boundary with fewer than 4 vertices.
func gjk(a, b *convexShape) (simplex, bool) {
	var s simplex
	dir := b.pose.Pos.Sub(a.pose.Pos)
	if dir.LenSqr() < 1e-12 {
		dir = mgl64.Vec3{1, 0, 0}
	}
	s.v[0] = minkowski(a, b, dir)
	s.n = 1
	dir = s.v[0].p.Mul(-1)
	if dir.LenSqr() < 1e-16 {
		return s, true
	}

	for i := 0; i < gjkMaxIterations; i++ {
		w := minkowski(a, b, dir)
		if w.p.Dot(dir) <= 0 {
			return s, false
		}
		s.v[s.n] = w
		s.n++
		if s.containsOrigin(&dir) {
			return s, true
		}
	}
	return s, false
}

func (s *simplex) containsOrigin(dir *mgl64.Vec3) bool {
	switch s.n {
	case 2:
		return s.line(dir)
	case 3:
		return s.triangle(dir)
	case 4:
		return s.tetrahedron(dir)
	}
	return false
}

func (s *simplex) line(dir *mgl64.Vec3) bool {
	a, b := s.v[1], s.v[0]
	ab := b.p.Sub(a.p)
	ao := a.p.Mul(-1)

	if ab.LenSqr() < 1e-12 || ab.Dot(ao) <= 0 {
		s.v[0], s.n = a, 1
		*dir = ao
		return ao.LenSqr() < 1e-16
	}
	perp := ab.Cross(ao).Cross(ab)
	if perp.LenSqr() < 1e-16 {
		// origin on the segment
		return true
	}
	*dir = perp
	return false
}

func (s *simplex) triangle(dir *mgl64.Vec3) bool {
	a, b, c := s.v[2], s.v[1], s.v[0]
	ab, ac := b.p.Sub(a.p), c.p.Sub(a.p)
	ao := a.p.Mul(-1)
	abc := ab.Cross(ac)

	if abc.LenSqr() < 1e-14 {
		s.v[0], s.v[1], s.n = b, a, 2
		return s.line(dir)
	}
	if ab.Cross(abc).Dot(ao) > 0 {
		s.v[0], s.v[1], s.n = b, a, 2
		return s.line(dir)
	}
	if abc.Cross(ac).Dot(ao) > 0 {
		s.v[0], s.v[1], s.n = c, a, 2
		return s.line(dir)
	}

	side := abc.Dot(ao)
	switch {
	case math.Abs(side) < 1e-14:
		// origin in the triangle's plane, inside it
		return true
	case side > 0:
		*dir = abc
	default:
		s.v[0], s.v[1] = b, c
		*dir = abc.Mul(-1)
	}
	return false
}

func (s *simplex) tetrahedron(dir *mgl64.Vec3) bool {
	a, b, c, d := s.v[3], s.v[2], s.v[1], s.v[0]
	ab, ac, ad := b.p.Sub(a.p), c.p.Sub(a.p), d.p.Sub(a.p)
	ao := a.p.Mul(-1)

	abc := ab.Cross(ac)
	if abc.Dot(ad) > 0 {
		abc = abc.Mul(-1)
	}
	acd := ac.Cross(ad)
	if acd.Dot(ab) > 0 {
		acd = acd.Mul(-1)
	}
	adb := ad.Cross(ab)
	if adb.Dot(ac) > 0 {
		adb = adb.Mul(-1)
	}

	if abc.LenSqr() < 1e-14 || acd.LenSqr() < 1e-14 || adb.LenSqr() < 1e-14 {
		s.v[0], s.v[1], s.v[2], s.n = c, b, a, 3
		return s.triangle(dir)
	}
	switch {
	case abc.Dot(ao) > 0:
		s.v[0], s.v[1], s.v[2], s.n = c, b, a, 3
		return s.triangle(dir)
	case acd.Dot(ao) > 0:
		s.v[0], s.v[1], s.v[2], s.n = d, c, a, 3
		return s.triangle(dir)
	case adb.Dot(ao) > 0:
		s.v[0], s.v[1], s.v[2], s.n = b, d, a, 3
		return s.triangle(dir)
	}
	return true
}

// complete grows a touching simplex into a non-degenerate tetrahedron.
func (s *simplex) complete(a, b *convexShape) bool {
	axes := [...]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for s.n < 4 {
		var dirs []mgl64.Vec3
		switch s.n {
		case 1:
			for _, ax := range axes {
				dirs = append(dirs, ax, ax.Mul(-1))
			}
		case 2:
			e := s.v[1].p.Sub(s.v[0].p)
			for _, ax := range axes {
				if c := e.Cross(ax); c.LenSqr() > 1e-12 {
					dirs = append(dirs, c, c.Mul(-1))
				}
			}
		case 3:
			n := s.v[1].p.Sub(s.v[0].p).Cross(s.v[2].p.Sub(s.v[0].p))
			dirs = append(dirs, n, n.Mul(-1))
		}
		added := false
		for _, d := range dirs {
			w := minkowski(a, b, d)
			if s.extends(w) {
				s.v[s.n] = w
				s.n++
				added = true
				break
			}
		}
		if !added {
			return false
		}
	}
	return true
}

// extends reports whether w raises the affine dimension of the simplex.
func (s *simplex) extends(w supportVertex) bool {
	const eps = 1e-12
	o := s.v[0].p
	switch s.n {
	case 1:
		return w.p.Sub(o).LenSqr() > eps
	case 2:
		return s.v[1].p.Sub(o).Cross(w.p.Sub(o)).LenSqr() > eps
	case 3:
		n := s.v[1].p.Sub(o).Cross(s.v[2].p.Sub(o))
		return math.Abs(n.Dot(w.p.Sub(o))) > eps
	}
	return false
}
