package collision

import (
	"slices"

	"github.com/san-kum/mcollide/internal/parallel"
	"github.com/san-kum/mcollide/internal/shape"
)

// Narrowphase turns candidate pairs into contacts.
type Narrowphase struct {
	data *Data
	grid *Broadphase

	Algorithm          Algorithm
	Envelope           float64
	MaxContactsPerPair int
	FluidRadius        float64
	MaxFluidNeighbors  int
}

func NewNarrowphase(data *Data, grid *Broadphase) *Narrowphase {
	cfg := DefaultConfig()
	return &Narrowphase{
		data:               data,
		grid:               grid,
		Algorithm:          cfg.Algorithm,
		Envelope:           cfg.Envelope,
		MaxContactsPerPair: cfg.MaxContactsPerPair,
		FluidRadius:        cfg.FluidRadius,
		MaxFluidNeighbors:  cfg.MaxFluidNeighbors,
	}
}

func (np *Narrowphase) collide(a, b convexShape, out []manifoldPoint) int {
	if a.kind == shape.Triangle && b.kind == shape.Triangle {
		return 0
	}
	switch np.Algorithm {
	case AlgorithmPrims:
		n, _ := collidePrims(&a, &b, np.Envelope, out)
		return n
	case AlgorithmGJK:
		return gjkContact(a, b, np.Envelope, out)
	}
	if n, ok := collidePrims(&a, &b, np.Envelope, out); ok {
		return n
	}
	return gjkContact(a, b, np.Envelope, out)
}

// ProcessRigids tests every candidate pair and writes the compacted contact
// arrays plus the per-bin contact counts for a grid of binsPerAxis.
func (np *Narrowphase) ProcessRigids(binsPerAxis [3]int) {
	d := np.data
	pairs := d.Host.PairShapeIDs
	maxC := max(1, np.MaxContactsPerPair)

	counts := make([]int, len(pairs))
	slots := make([]manifoldPoint, len(pairs)*maxC)
	parallel.For(len(pairs), 32, func(start, end int) {
		for p := start; p < end; p++ {
			a, b := DecodePair(pairs[p])
			va, okA := d.convexView(a)
			vb, okB := d.convexView(b)
			if !okA || !okB {
				counts[p] = 0
				continue
			}
			counts[p] = np.collide(va, vb, slots[p*maxC:(p+1)*maxC])
		}
	})

	offsets := slices.Clone(counts)
	total := parallel.ExclusiveScan(offsets)

	h := &d.Host
	h.BodyIDs = resize(h.BodyIDs, total)
	h.ContactShapeIDs = resize(h.ContactShapeIDs, total)
	h.Normals = resize(h.Normals, total)
	h.PointsA = resize(h.PointsA, total)
	h.PointsB = resize(h.PointsB, total)
	h.Depths = resize(h.Depths, total)

	parallel.For(len(pairs), 64, func(start, end int) {
		for p := start; p < end; p++ {
			a, b := DecodePair(pairs[p])
			ids := [2]int{d.Shapes.BodyID[a], d.Shapes.BodyID[b]}
			for k := 0; k < counts[p]; k++ {
				c := slots[p*maxC+k]
				i := offsets[p] + k
				h.BodyIDs[i] = ids
				h.ContactShapeIDs[i] = pairs[p]
				h.Normals[i] = c.normal
				h.PointsA[i] = c.pointA
				h.PointsB[i] = c.pointB
				h.Depths[i] = c.depth
			}
		}
	})

	h.BinContactCounts = resize(h.BinContactCounts, binsPerAxis[0]*binsPerAxis[1]*binsPerAxis[2])
	clear(h.BinContactCounts)
	for p, c := range counts {
		if c > 0 && p < len(h.PairBin) && h.PairBin[p] < len(h.BinContactCounts) {
			h.BinContactCounts[h.PairBin[p]] += c
		}
	}
	d.NumRigidContacts = total
}

// clearRigid drops all rigid contact state, used when there are no shapes.
func (np *Narrowphase) clearRigid() {
	h := &np.data.Host
	h.BodyIDs = h.BodyIDs[:0]
	h.ContactShapeIDs = h.ContactShapeIDs[:0]
	h.Normals = h.Normals[:0]
	h.PointsA = h.PointsA[:0]
	h.PointsB = h.PointsB[:0]
	h.Depths = h.Depths[:0]
	clear(h.BinContactCounts)
	np.data.NumRigidContacts = 0
}
