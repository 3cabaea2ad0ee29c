package collision

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/mcollide/internal/geom"
	"github.com/san-kum/mcollide/internal/parallel"
)

// DispatchFluid tests every fluid particle, a sphere of FluidRadius,
// against the rigid shapes sharing its grid bins. It must run after
// Broadphase.DispatchRigid of the same step. Each particle keeps at most
// MaxFluidNeighbors contacts.
func (np *Narrowphase) DispatchFluid() {
	d := np.data
	g := np.grid
	nf := len(d.State.FluidPos)
	maxN := max(1, np.MaxFluidNeighbors)
	r := np.FluidRadius
	off := d.Measures.MinBoundingPoint

	counts := make([]int, nf)
	slots := make([]FluidContact, nf*maxN)
	parallel.For(nf, 64, func(start, end int) {
		buf := make([]manifoldPoint, max(1, np.MaxContactsPerPair))
		for f := start; f < end; f++ {
			p := d.State.FluidPos[f]
			box := geom.FromCenter(p.Sub(off), mgl64.Vec3{r, r, r}).Inflate(np.Envelope)
			lo, hi := g.cell(box.Min), g.cell(box.Max)
			particle := sphereView(p, r)
			c := 0
			for z := lo[2]; z <= hi[2]; z++ {
				for y := lo[1]; y <= hi[1]; y++ {
					for x := lo[0]; x <= hi[0]; x++ {
						cell := [3]int{x, y, z}
						run := g.runOf[g.linear(cell)]
						if run < 0 {
							continue
						}
						for e := g.runs[run].start; e < g.runs[run].end && c < maxN; e++ {
							sh := g.entries[e].shape
							if !ownsCell(lo, g.lo[sh], cell) || !d.aabb(sh).Overlaps(box) {
								continue
							}
							v, ok := d.convexView(sh)
							if !ok || np.collide(v, particle, buf) == 0 {
								continue
							}
							slots[f*maxN+c] = FluidContact{
								Shape:  sh,
								Body:   d.Shapes.BodyID[sh],
								Fluid:  f,
								Point:  buf[0].pointA,
								Normal: buf[0].normal,
								Depth:  buf[0].depth,
							}
							c++
						}
					}
				}
			}
			counts[f] = c
		}
	})

	offsets := slices.Clone(counts)
	total := parallel.ExclusiveScan(offsets)
	h := &d.Host
	h.FluidShapeIDs = resize(h.FluidShapeIDs, total)
	h.FluidIDs = resize(h.FluidIDs, total)
	h.FluidNormals = resize(h.FluidNormals, total)
	h.FluidPoints = resize(h.FluidPoints, total)
	h.FluidDepths = resize(h.FluidDepths, total)
	parallel.For(nf, 256, func(start, end int) {
		for f := start; f < end; f++ {
			for k := 0; k < counts[f]; k++ {
				c := slots[f*maxN+k]
				i := offsets[f] + k
				h.FluidShapeIDs[i] = c.Shape
				h.FluidIDs[i] = c.Fluid
				h.FluidNormals[i] = c.Normal
				h.FluidPoints[i] = c.Point
				h.FluidDepths[i] = c.Depth
			}
		}
	})
	h.RigidFluidCounts = counts
	d.NumRigidFluidContacts = total
}

// ownsCell reports whether cell is the lowest cell shared by two bin ranges
// starting at a and b.
func ownsCell(a, b, cell [3]int) bool {
	for i := 0; i < 3; i++ {
		if max(a[i], b[i]) != cell[i] {
			return false
		}
	}
	return true
}

func (np *Narrowphase) clearFluid() {
	h := &np.data.Host
	h.FluidShapeIDs = h.FluidShapeIDs[:0]
	h.FluidIDs = h.FluidIDs[:0]
	h.FluidNormals = h.FluidNormals[:0]
	h.FluidPoints = h.FluidPoints[:0]
	h.FluidDepths = h.FluidDepths[:0]
	h.RigidFluidCounts = h.RigidFluidCounts[:0]
	np.data.NumRigidFluidContacts = 0
}
