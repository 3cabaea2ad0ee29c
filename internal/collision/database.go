package collision

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/mcollide/internal/shape"
)

type pool int

const (
	poolSpheres pool = iota
	poolBoxLike
	poolCapsules
	poolRBoxLike
	poolConvex
	poolTriangles
	numPools
)

func poolOf(k shape.Kind) (pool, bool) {
	switch {
	case k == shape.Sphere:
		return poolSpheres, true
	case k == shape.Capsule:
		return poolCapsules, true
	case k == shape.Convex:
		return poolConvex, true
	case k == shape.Triangle:
		return poolTriangles, true
	case k.BoxLike():
		return poolBoxLike, true
	case k.Rounded():
		return poolRBoxLike, true
	}
	return 0, false
}

func (sd *ShapeData) poolLen(p pool) int {
	switch p {
	case poolSpheres:
		return len(sd.Spheres)
	case poolBoxLike:
		return len(sd.BoxLike)
	case poolCapsules:
		return len(sd.Capsules)
	case poolRBoxLike:
		return len(sd.RBoxLike)
	case poolConvex:
		return len(sd.Convex)
	case poolTriangles:
		return len(sd.Triangles)
	}
	return 0
}

// Add appends one record per shape of m. Models whose body has collision
// disabled are skipped. Every shape is validated before anything is
// appended, so a failed Add leaves the database untouched.
func (d *Data) Add(m *shape.Model) error {
	if m == nil || m.Body == nil {
		return ErrNilModel
	}
	if !m.Body.Collide() {
		return nil
	}
	id := m.Body.ID()
	if id < 0 {
		return fmt.Errorf("collision: add body %d: %w: negative body id", id, ErrInvalidShape)
	}
	for i, s := range m.Shapes {
		if !s.Kind.Valid() {
			return fmt.Errorf("collision: add body %d shape %d: %w: %s", id, i, ErrUnknownShapeKind, s.Kind)
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("collision: add body %d shape %d: %w: %w", id, i, ErrInvalidShape, err)
		}
	}

	sd := &d.Shapes
	for i, s := range m.Shapes {
		var start, length int
		switch {
		case s.Kind == shape.Sphere:
			start, length = len(sd.Spheres), 1
			sd.Spheres = append(sd.Spheres, s.Radius)
		case s.Kind == shape.Capsule:
			start, length = len(sd.Capsules), 1
			sd.Capsules = append(sd.Capsules, mgl64.Vec2{s.Radius, s.HalfLength})
		case s.Kind == shape.Convex:
			start, length = len(sd.Convex), len(s.Points)
			sd.Convex = append(sd.Convex, s.Points...)
		case s.Kind == shape.Triangle:
			start, length = len(sd.Triangles), 3
			sd.Triangles = append(sd.Triangles, s.Vertices[:]...)
		case s.Kind.BoxLike():
			start, length = len(sd.BoxLike), 1
			sd.BoxLike = append(sd.BoxLike, s.Dims)
		case s.Kind.Rounded():
			start, length = len(sd.RBoxLike), 1
			sd.RBoxLike = append(sd.RBoxLike, s.Dims.Vec4(s.Radius))
		}

		sd.ObA = append(sd.ObA, s.Offset)
		sd.ObR = append(sd.ObR, s.Rotation.Normalize())
		sd.Start = append(sd.Start, start)
		sd.Length = append(sd.Length, length)
		sd.Fam = append(sd.Fam, m.Family)
		sd.Kind = append(sd.Kind, s.Kind)
		sd.BodyID = append(sd.BodyID, id)
		sd.Local = append(sd.Local, i)
		d.NumRigidShapes++
	}
	return nil
}

// Remove deletes every record owned by m's body, erases their parameter
// blocks and shifts the Start of the surviving records of each pool. It
// returns the number of records removed. Local indices are unchanged.
func (d *Data) Remove(m *shape.Model) int {
	if m == nil || m.Body == nil {
		return 0
	}
	return d.RemoveBody(m.Body.ID())
}

func (d *Data) RemoveBody(id int) int {
	sd := &d.Shapes
	drop := make([]bool, sd.Len())
	var erased [numPools][]bool
	removed := 0
	for i, body := range sd.BodyID {
		if body != id {
			continue
		}
		drop[i] = true
		removed++
		p, ok := poolOf(sd.Kind[i])
		if !ok {
			continue
		}
		if erased[p] == nil {
			erased[p] = make([]bool, sd.poolLen(p))
		}
		for j := sd.Start[i]; j < sd.Start[i]+sd.Length[i]; j++ {
			erased[p][j] = true
		}
	}
	if removed == 0 {
		return 0
	}

	for p, mask := range erased {
		if mask == nil {
			continue
		}
		before := make([]int, len(mask)+1)
		for j, e := range mask {
			before[j+1] = before[j]
			if e {
				before[j+1]++
			}
		}
		for i := range sd.Start {
			if drop[i] {
				continue
			}
			if q, ok := poolOf(sd.Kind[i]); ok && q == pool(p) {
				sd.Start[i] -= before[sd.Start[i]]
			}
		}
	}

	sd.Spheres = compact(sd.Spheres, erased[poolSpheres])
	sd.BoxLike = compact(sd.BoxLike, erased[poolBoxLike])
	sd.Capsules = compact(sd.Capsules, erased[poolCapsules])
	sd.RBoxLike = compact(sd.RBoxLike, erased[poolRBoxLike])
	sd.Convex = compact(sd.Convex, erased[poolConvex])
	sd.Triangles = compact(sd.Triangles, erased[poolTriangles])

	sd.ObA = compact(sd.ObA, drop)
	sd.ObR = compact(sd.ObR, drop)
	sd.Start = compact(sd.Start, drop)
	sd.Length = compact(sd.Length, drop)
	sd.Fam = compact(sd.Fam, drop)
	sd.Kind = compact(sd.Kind, drop)
	sd.BodyID = compact(sd.BodyID, drop)
	sd.Local = compact(sd.Local, drop)

	d.NumRigidShapes -= removed
	return removed
}

// compact filters s in place, dropping entries whose mask bit is set.
func compact[T any](s []T, mask []bool) []T {
	if mask == nil {
		return s
	}
	out := s[:0]
	for i, v := range s {
		if !mask[i] {
			out = append(out, v)
		}
	}
	clear(s[len(out):])
	return out
}

// Validate checks index alignment and that every record addresses a block
// inside its pool.
func (sd *ShapeData) Validate() error {
	n := len(sd.Kind)
	lens := []struct {
		name string
		n    int
	}{
		{"ObA", len(sd.ObA)}, {"ObR", len(sd.ObR)}, {"Start", len(sd.Start)},
		{"Length", len(sd.Length)}, {"Fam", len(sd.Fam)}, {"BodyID", len(sd.BodyID)},
		{"Local", len(sd.Local)},
	}
	for _, l := range lens {
		if l.n != n {
			return contractf(-1, "%s has %d entries, Kind has %d", l.name, l.n, n)
		}
	}
	for i, k := range sd.Kind {
		p, ok := poolOf(k)
		if !ok {
			continue
		}
		start, length := sd.Start[i], sd.Length[i]
		switch {
		case k == shape.Triangle && length != 3:
			return contractf(i, "triangle length %d", length)
		case k == shape.Convex && length < 1:
			return contractf(i, "convex length %d", length)
		case k != shape.Triangle && k != shape.Convex && length != 1:
			return contractf(i, "%s length %d", k, length)
		}
		if start < 0 || start+length > sd.poolLen(p) {
			return contractf(i, "%s block [%d,%d) outside pool of %d", k, start, start+length, sd.poolLen(p))
		}
	}
	return nil
}

func (d *Data) Validate() error {
	if err := d.Shapes.Validate(); err != nil {
		return err
	}
	if d.NumRigidShapes != d.Shapes.Len() {
		return contractf(-1, "shape counter %d, %d records", d.NumRigidShapes, d.Shapes.Len())
	}
	return nil
}
