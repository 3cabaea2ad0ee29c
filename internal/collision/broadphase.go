package collision

import (
	"cmp"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/mcollide/internal/geom"
	"github.com/san-kum/mcollide/internal/parallel"
	"github.com/san-kum/mcollide/internal/shape"
)

type binEntry struct {
	bin   int
	shape int
}

// binRun is the slice [start, end) of sorted entries falling in one bin.
type binRun struct {
	bin        int
	start, end int
}

type pairEntry struct {
	key uint64
	bin int
}

// Broadphase bins shape AABBs into a uniform grid over the scene box and
// emits candidate pairs, each exactly once.
type Broadphase struct {
	data *Data

	FixedBins   bool
	BinsPerAxis [3]int
	Density     float64
	MaxBins     int

	lo, hi  [][3]int
	entries []binEntry
	runs    []binRun
	// runOf maps a linear bin index to its run, -1 for empty bins.
	runOf []int
}

func NewBroadphase(data *Data) *Broadphase {
	cfg := DefaultConfig()
	return &Broadphase{
		data:        data,
		BinsPerAxis: cfg.BinsPerAxis,
		Density:     cfg.GridDensity,
		MaxBins:     cfg.MaxBins,
	}
}

// DetermineBoundingBox reduces all shape AABBs to the scene box. A scene
// without any non-empty AABB gets a degenerate box at the origin.
func (b *Broadphase) DetermineBoundingBox() {
	d := b.data
	n := d.Shapes.Len()
	box := parallel.Reduce(n, 1024, geom.Empty(), func(start, end int) geom.AABB {
		acc := geom.Empty()
		for i := start; i < end; i++ {
			acc = acc.Union(d.aabb(i))
		}
		return acc
	}, geom.AABB.Union)
	if box.IsEmpty() {
		box = geom.AABB{}
	}
	d.Measures.MinBoundingPoint = box.Min
	d.Measures.MaxBoundingPoint = box.Max
}

// OffsetAABB moves every AABB so the scene minimum sits at the origin.
func (b *Broadphase) OffsetAABB() {
	d := b.data
	off := d.Measures.MinBoundingPoint
	parallel.For(d.Shapes.Len(), 1024, func(start, end int) {
		for i := start; i < end; i++ {
			if d.aabb(i).IsEmpty() {
				continue
			}
			d.Host.AABBMin[i] = d.Host.AABBMin[i].Sub(off)
			d.Host.AABBMax[i] = d.Host.AABBMax[i].Sub(off)
		}
	})
}

// ComputeTopLevelResolution picks the bins per axis and the bin size.
// Density-derived resolution targets Density shapes per bin.
func (b *Broadphase) ComputeTopLevelResolution() {
	m := &b.data.Measures
	ext := m.MaxBoundingPoint.Sub(m.MinBoundingPoint)

	// flat axes still get a positive extent
	floor := math.Max(1e-3*math.Max(ext[0], math.Max(ext[1], ext[2])), 1e-6)
	for i := range ext {
		ext[i] = math.Max(ext[i], floor)
	}

	var bins [3]int
	if b.FixedBins {
		for i := range bins {
			bins[i] = max(1, b.BinsPerAxis[i])
		}
	} else {
		n := float64(max(1, b.data.Shapes.Len()))
		density := b.Density
		if density <= 0 {
			density = DefaultConfig().GridDensity
		}
		f := math.Cbrt(n / (density * ext[0] * ext[1] * ext[2]))
		for i := range bins {
			bins[i] = max(1, int(ext[i]*f))
		}
	}
	limit := b.MaxBins
	if limit <= 0 {
		limit = DefaultConfig().MaxBins
	}
	for bins[0]*bins[1]*bins[2] > limit {
		a := 0
		for i := 1; i < 3; i++ {
			if bins[i] > bins[a] {
				a = i
			}
		}
		bins[a] = max(1, bins[a]/2)
	}

	m.BinsPerAxis = bins
	for i := range bins {
		m.BinSize[i] = ext[i] / float64(bins[i])
		m.InvBinSize[i] = 1 / m.BinSize[i]
	}
}

// cell maps an offset point to clamped bin coordinates.
func (b *Broadphase) cell(p mgl64.Vec3) [3]int {
	m := &b.data.Measures
	var c [3]int
	for i := range c {
		v := math.Floor(p[i] * m.InvBinSize[i])
		c[i] = int(math.Max(0, math.Min(v, float64(m.BinsPerAxis[i]-1))))
	}
	return c
}

func (b *Broadphase) linear(c [3]int) int {
	n := b.data.Measures.BinsPerAxis
	return c[0] + n[0]*(c[1]+n[1]*c[2])
}

func (b *Broadphase) coords(bin int) [3]int {
	n := b.data.Measures.BinsPerAxis
	return [3]int{bin % n[0], (bin / n[0]) % n[1], bin / (n[0] * n[1])}
}

func span(lo, hi [3]int) int {
	return (hi[0] - lo[0] + 1) * (hi[1] - lo[1] + 1) * (hi[2] - lo[2] + 1)
}

// DispatchRigid bins every collidable shape and fills Host.PairShapeIDs and
// Host.PairBin, sorted by pair key.
func (b *Broadphase) DispatchRigid() {
	d := b.data
	n := d.Shapes.Len()
	b.lo = resize(b.lo, n)
	b.hi = resize(b.hi, n)
	counts := make([]int, n)

	parallel.For(n, 256, func(start, end int) {
		for i := start; i < end; i++ {
			box := d.aabb(i)
			if box.IsEmpty() || !d.collidable(i) {
				counts[i] = 0
				continue
			}
			b.lo[i], b.hi[i] = b.cell(box.Min), b.cell(box.Max)
			counts[i] = span(b.lo[i], b.hi[i])
		}
	})

	offsets := slices.Clone(counts)
	total := parallel.ExclusiveScan(offsets)
	b.entries = resize(b.entries, total)

	parallel.For(n, 256, func(start, end int) {
		for i := start; i < end; i++ {
			if counts[i] == 0 {
				continue
			}
			k := offsets[i]
			lo, hi := b.lo[i], b.hi[i]
			for z := lo[2]; z <= hi[2]; z++ {
				for y := lo[1]; y <= hi[1]; y++ {
					for x := lo[0]; x <= hi[0]; x++ {
						b.entries[k] = binEntry{bin: b.linear([3]int{x, y, z}), shape: i}
						k++
					}
				}
			}
		}
	})

	slices.SortFunc(b.entries, func(p, q binEntry) int {
		if c := cmp.Compare(p.bin, q.bin); c != 0 {
			return c
		}
		return cmp.Compare(p.shape, q.shape)
	})

	b.runs = b.runs[:0]
	for s := 0; s < len(b.entries); {
		e := s + 1
		for e < len(b.entries) && b.entries[e].bin == b.entries[s].bin {
			e++
		}
		b.runs = append(b.runs, binRun{bin: b.entries[s].bin, start: s, end: e})
		s = e
	}
	b.runOf = resize(b.runOf, d.Measures.NumBins())
	for i := range b.runOf {
		b.runOf[i] = -1
	}
	for r, run := range b.runs {
		b.runOf[run.bin] = r
	}

	pairCounts := make([]int, len(b.runs))
	parallel.For(len(b.runs), 16, func(start, end int) {
		for r := start; r < end; r++ {
			pairCounts[r] = b.emit(b.runs[r], nil)
		}
	})
	pairOffsets := slices.Clone(pairCounts)
	numPairs := parallel.ExclusiveScan(pairOffsets)

	pairs := make([]pairEntry, numPairs)
	parallel.For(len(b.runs), 16, func(start, end int) {
		for r := start; r < end; r++ {
			off := pairOffsets[r]
			b.emit(b.runs[r], pairs[off:off+pairCounts[r]])
		}
	})
	slices.SortFunc(pairs, func(p, q pairEntry) int { return cmp.Compare(p.key, q.key) })

	d.Host.PairShapeIDs = resize(d.Host.PairShapeIDs, numPairs)
	d.Host.PairBin = resize(d.Host.PairBin, numPairs)
	for i, p := range pairs {
		d.Host.PairShapeIDs[i] = p.key
		d.Host.PairBin[i] = p.bin
	}
}

// emit visits the accepted pairs of one bin. With out == nil it only counts.
func (b *Broadphase) emit(run binRun, out []pairEntry) int {
	c := b.coords(run.bin)
	n := 0
	for i := run.start; i < run.end; i++ {
		for j := i + 1; j < run.end; j++ {
			sa, sb := b.entries[i].shape, b.entries[j].shape
			if !b.accept(sa, sb, c) {
				continue
			}
			if out != nil {
				out[n] = pairEntry{key: EncodePair(sa, sb), bin: run.bin}
			}
			n++
		}
	}
	return n
}

// accept is the pair filter. Both shapes are already known collidable.
func (b *Broadphase) accept(sa, sb int, bin [3]int) bool {
	d := b.data
	ba, bb := d.Shapes.BodyID[sa], d.Shapes.BodyID[sb]
	if ba == bb {
		return false
	}
	if !d.State.Active[ba] && !d.State.Active[bb] {
		return false
	}
	if !shape.Collides(d.Shapes.Fam[sa], d.Shapes.Fam[sb]) {
		return false
	}
	if !d.aabb(sa).Overlaps(d.aabb(sb)) {
		return false
	}
	// the pair belongs to the lowest bin both boxes share
	return ownsCell(b.lo[sa], b.lo[sb], bin)
}

// NumBins is the number of grid cells of the last resolution.
func (b *Broadphase) NumBins() int { return b.data.Measures.NumBins() }

// NumActiveBins is the number of non-empty bins of the last dispatch.
func (b *Broadphase) NumActiveBins() int { return len(b.runs) }
