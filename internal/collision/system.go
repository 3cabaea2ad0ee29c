package collision

import (
	"fmt"
	"io"
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/mcollide/internal/geom"
	"github.com/san-kum/mcollide/internal/parallel"
	"github.com/san-kum/mcollide/internal/shape"
)

// State is the pipeline position of a System.
type State int

const (
	StateIdle State = iota
	StateSynchronized
	StateBroadphased
	StateNarrowphased
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSynchronized:
		return "synchronized"
	case StateBroadphased:
		return "broadphased"
	case StateNarrowphased:
		return "narrowphased"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// System owns the shape database and runs the collision pipeline on it.
// It is not safe for concurrent use.
type System struct {
	cfg    Config
	data   Data
	gen    *AABBGenerator
	broad  *Broadphase
	narrow *Narrowphase

	activeBox    geom.AABB
	useActiveBox bool

	state       State
	timerBroad  Timer
	timerNarrow Timer
	logger      *log.Logger
}

func New(cfg Config) *System {
	cfg = cfg.withDefaults()
	s := &System{cfg: cfg, logger: cfg.Logger}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	if cfg.NumThreads > 0 {
		parallel.SetNumThreads(cfg.NumThreads)
	}
	s.gen = NewAABBGenerator(&s.data)
	s.broad = NewBroadphase(&s.data)
	s.narrow = NewNarrowphase(&s.data, s.broad)
	s.applyConfig()
	return s
}

func (s *System) applyConfig() {
	s.broad.FixedBins = s.cfg.FixedBins
	s.broad.BinsPerAxis = s.cfg.BinsPerAxis
	s.broad.Density = s.cfg.GridDensity
	s.broad.MaxBins = s.cfg.MaxBins

	s.narrow.Algorithm = s.cfg.Algorithm
	s.narrow.Envelope = s.cfg.Envelope
	s.narrow.MaxContactsPerPair = s.cfg.MaxContactsPerPair
	s.narrow.FluidRadius = s.cfg.FluidRadius
	s.narrow.MaxFluidNeighbors = s.cfg.MaxFluidNeighbors
}

func (s *System) Config() Config { return s.cfg }
func (s *System) State() State   { return s.state }

// Data exposes the underlying collision data for inspection.
func (s *System) Data() *Data { return &s.data }

func (s *System) Add(m *shape.Model) error {
	if err := s.data.Add(m); err != nil {
		return err
	}
	if m.Body.Collide() {
		s.logger.Printf("collision: added body %d with %d shapes", m.Body.ID(), len(m.Shapes))
	}
	return nil
}

// Remove deletes all shapes of m's body. Unknown bodies are a no-op.
func (s *System) Remove(m *shape.Model) {
	if n := s.data.Remove(m); n > 0 {
		s.logger.Printf("collision: removed body %d (%d shapes)", m.Body.ID(), n)
	}
}

// Synchronize mirrors the body list into the state arrays, resizing them
// to bodies.Len().
func (s *System) Synchronize(bodies BodyList) {
	n := 0
	if bodies != nil {
		n = bodies.Len()
	}
	st := &s.data.State
	st.Pos = resize(st.Pos, n)
	st.Rot = resize(st.Rot, n)
	st.Active = resize(st.Active, n)
	st.Collide = resize(st.Collide, n)

	parallel.For(n, 256, func(start, end int) {
		for i := start; i < end; i++ {
			b := bodies.At(i)
			st.Pos[i] = b.Pos()
			q := b.Rot()
			if q.Len() < 1e-12 {
				q = mgl64.QuatIdent()
			}
			st.Rot[i] = q.Normalize()
			st.Active[i] = b.IsActive()
			st.Collide[i] = b.Collide()
		}
	})
	st.NumRigidBodies = n
	s.state = StateSynchronized
}

func (s *System) SynchronizeFluid(fluid FluidList) {
	n := 0
	if fluid != nil {
		n = fluid.Len()
	}
	st := &s.data.State
	st.FluidPos = resize(st.FluidPos, n)
	parallel.For(n, 1024, func(start, end int) {
		for i := start; i < end; i++ {
			st.FluidPos[i] = fluid.At(i)
		}
	})
	st.NumFluidBodies = n
}

// EnableActiveBoundingBox restricts collision to bodies with at least one
// shape overlapping [min, max].
func (s *System) EnableActiveBoundingBox(min, max mgl64.Vec3) {
	s.activeBox = geom.AABB{Min: min, Max: max}
	s.useActiveBox = true
}

func (s *System) DisableActiveBoundingBox() {
	s.useActiveBox = false
}

// GetAABB returns the active region and whether it is enabled.
func (s *System) GetAABB() (mgl64.Vec3, mgl64.Vec3, bool) {
	return s.activeBox.Min, s.activeBox.Max, s.useActiveBox
}

// Run executes AABB generation, broadphase and narrowphase on the state
// of the last Synchronize.
func (s *System) Run() {
	if s.cfg.CheckInvariants {
		if err := s.data.Validate(); err != nil {
			panic(err)
		}
	}

	s.timerBroad.Start()
	if s.useActiveBox {
		s.applyActiveBox()
	}
	s.gen.GenerateAABB(s.cfg.Envelope)
	s.broad.DetermineBoundingBox()
	s.broad.OffsetAABB()
	s.broad.ComputeTopLevelResolution()
	s.broad.DispatchRigid()
	s.timerBroad.Stop()
	s.state = StateBroadphased

	s.timerNarrow.Start()
	if s.data.State.NumFluidBodies > 0 {
		s.narrow.DispatchFluid()
	} else {
		s.narrow.clearFluid()
	}
	if s.data.NumRigidShapes > 0 {
		s.narrow.ProcessRigids(s.data.Measures.BinsPerAxis)
	} else {
		s.narrow.clearRigid()
		s.narrow.clearFluid()
	}
	s.timerNarrow.Stop()
	s.state = StateNarrowphased

	s.logger.Printf("collision: run shapes=%d pairs=%d contacts=%d fluid=%d bins=%v",
		s.data.NumRigidShapes, len(s.data.Host.PairShapeIDs), s.data.NumRigidContacts,
		s.data.NumRigidFluidContacts, s.data.Measures.BinsPerAxis)
}

// applyActiveBox clears the active flag of every body that is inactive,
// not collidable, or outside the active region.
func (s *System) applyActiveBox() {
	st := &s.data.State
	inside := make([]bool, len(st.Active))
	s.GetOverlappingAABB(inside, s.activeBox.Min, s.activeBox.Max)
	for i := range st.Active {
		st.Active[i] = st.Active[i] && st.Collide[i] && inside[i]
	}
}

// GetOverlappingAABB regenerates the shape AABBs and sets active[id] for
// every body owning a shape whose box overlaps [min, max]. Entries are
// never cleared.
func (s *System) GetOverlappingAABB(active []bool, min, max mgl64.Vec3) {
	s.gen.GenerateAABB(s.cfg.Envelope)
	box := geom.AABB{Min: min, Max: max}
	n := s.data.Shapes.Len()
	hit := make([]bool, n)
	parallel.For(n, 256, func(start, end int) {
		for i := start; i < end; i++ {
			hit[i] = s.data.aabb(i).Overlaps(box)
		}
	})
	for i, h := range hit {
		if id := s.data.Shapes.BodyID[i]; h && id >= 0 && id < len(active) {
			active[id] = true
		}
	}
}

// ShapeAABBs regenerates and returns the world-space box of every shape
// for the last synchronized state. Shapes of unknown bodies are empty.
func (s *System) ShapeAABBs() []geom.AABB {
	s.gen.GenerateAABB(s.cfg.Envelope)
	out := make([]geom.AABB, s.data.Shapes.Len())
	for i := range out {
		out[i] = s.data.aabb(i)
	}
	return out
}

// GetOverlappingPairs returns the candidate pairs of the last Run as shape
// index pairs.
func (s *System) GetOverlappingPairs() [][2]int {
	out := make([][2]int, len(s.data.Host.PairShapeIDs))
	for i, k := range s.data.Host.PairShapeIDs {
		a, b := DecodePair(k)
		out[i] = [2]int{a, b}
	}
	return out
}

// GetBoundingBox returns the scene box of the last Run.
func (s *System) GetBoundingBox() (mgl64.Vec3, mgl64.Vec3) {
	return s.data.Measures.MinBoundingPoint, s.data.Measures.MaxBoundingPoint
}

// ReportContacts hands the contacts of the last Run to c. Shape indices
// passed to c are local to their body's model.
func (s *System) ReportContacts(c ContactContainer) {
	n := s.data.NumRigidContacts
	c.BeginAddContact(n)
	local := make([][2]int, n)
	parallel.For(n, 1024, func(start, end int) {
		for i := start; i < end; i++ {
			a, b := DecodePair(s.data.Host.ContactShapeIDs[i])
			local[i] = [2]int{s.data.Shapes.Local[a], s.data.Shapes.Local[b]}
		}
	})
	for i := 0; i < n; i++ {
		ids := s.data.Host.BodyIDs[i]
		c.AddContact(i, ids[0], local[i][0], ids[1], local[i][1])
	}
	c.EndAddContact()
}

func (s *System) Contacts() []Contact {
	h := &s.data.Host
	out := make([]Contact, s.data.NumRigidContacts)
	for i := range out {
		a, b := DecodePair(h.ContactShapeIDs[i])
		out[i] = Contact{
			BodyA:  h.BodyIDs[i][0],
			BodyB:  h.BodyIDs[i][1],
			ShapeA: a,
			ShapeB: b,
			PointA: h.PointsA[i],
			PointB: h.PointsB[i],
			Normal: h.Normals[i],
			Depth:  h.Depths[i],
		}
	}
	return out
}

func (s *System) FluidContacts() []FluidContact {
	h := &s.data.Host
	out := make([]FluidContact, s.data.NumRigidFluidContacts)
	for i := range out {
		sh := h.FluidShapeIDs[i]
		out[i] = FluidContact{
			Shape:  sh,
			Body:   s.data.Shapes.BodyID[sh],
			Fluid:  h.FluidIDs[i],
			Point:  h.FluidPoints[i],
			Normal: h.FluidNormals[i],
			Depth:  h.FluidDepths[i],
		}
	}
	return out
}

func (s *System) NumContacts() int      { return s.data.NumRigidContacts }
func (s *System) NumFluidContacts() int { return s.data.NumRigidFluidContacts }
func (s *System) NumPairs() int         { return len(s.data.Host.PairShapeIDs) }
func (s *System) NumShapes() int        { return s.data.NumRigidShapes }
func (s *System) NumActiveBins() int    { return s.broad.NumActiveBins() }

// TimerBroad returns accumulated broadphase seconds.
func (s *System) TimerBroad() float64  { return s.timerBroad.Seconds() }
func (s *System) TimerNarrow() float64 { return s.timerNarrow.Seconds() }

func (s *System) ResetTimers() {
	s.timerBroad.Reset()
	s.timerNarrow.Reset()
}

// SetBroadphaseNumBins fixes the grid resolution when fixed is true and
// returns to density-derived resolution otherwise.
func (s *System) SetBroadphaseNumBins(bins [3]int, fixed bool) {
	s.cfg.BinsPerAxis = bins
	s.cfg.FixedBins = fixed
	s.cfg = s.cfg.withDefaults()
	s.applyConfig()
}

func (s *System) SetBroadphaseGridDensity(density float64) {
	s.cfg.GridDensity = density
	s.cfg = s.cfg.withDefaults()
	s.applyConfig()
}

func (s *System) SetNarrowphaseAlgorithm(a Algorithm) {
	s.cfg.Algorithm = a
	s.applyConfig()
}

func (s *System) SetNarrowphaseEnvelope(envelope float64) {
	s.cfg.Envelope = envelope
	s.cfg = s.cfg.withDefaults()
	s.applyConfig()
}

// SetNumThreads sets the process-wide worker count.
func (s *System) SetNumThreads(n int) {
	s.cfg.NumThreads = n
	parallel.SetNumThreads(n)
}

func (s *System) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	s.logger = l
	s.cfg.Logger = l
}
