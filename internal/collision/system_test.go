package collision

import (
	"bytes"
	"log"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mcollide/internal/contact"
	"github.com/san-kum/mcollide/internal/parallel"
	"github.com/san-kum/mcollide/internal/shape"
)

var _ = Describe("System", func() {
	var (
		sys    *System
		bodies testBodies
	)

	addAll := func(models ...*shape.Model) {
		for _, m := range models {
			Expect(sys.Add(m)).To(Succeed())
		}
	}

	BeforeEach(func() {
		sys = New(DefaultConfig())
		bodies = nil
	})

	Describe("pipeline state", func() {
		It("moves through synchronize, broadphase and narrowphase", func() {
			Expect(sys.State()).To(Equal(StateIdle))
			bodies = testBodies{newBody(0, mgl64.Vec3{})}
			addAll(sphereModel(bodies[0], 1))
			sys.Synchronize(bodies)
			Expect(sys.State()).To(Equal(StateSynchronized))
			sys.Run()
			Expect(sys.State()).To(Equal(StateNarrowphased))
			Expect(sys.State().String()).To(Equal("narrowphased"))
		})
	})

	Describe("empty database", func() {
		It("runs with no shapes", func() {
			sys.Synchronize(nil)
			Expect(sys.Run).NotTo(Panic())
			Expect(sys.NumContacts()).To(BeZero())
			Expect(sys.NumPairs()).To(BeZero())
		})

		It("runs after every shape has been removed", func() {
			bodies = testBodies{newBody(0, mgl64.Vec3{}), newBody(1, mgl64.Vec3{1, 0, 0})}
			ma, mb := sphereModel(bodies[0], 1), sphereModel(bodies[1], 1)
			addAll(ma, mb)
			sys.Synchronize(bodies)
			sys.Run()
			Expect(sys.NumContacts()).To(Equal(1))

			sys.Remove(ma)
			sys.Remove(mb)
			Expect(sys.NumShapes()).To(BeZero())
			sys.Synchronize(bodies)
			sys.Run()
			Expect(sys.NumContacts()).To(BeZero())
			Expect(sys.Contacts()).To(BeEmpty())
		})

		It("still brackets a report of zero contacts", func() {
			sys.Synchronize(nil)
			sys.Run()
			rec := contact.NewRecorder()
			sys.ReportContacts(rec)
			begins, ends := rec.Brackets()
			Expect(begins).To(Equal(1))
			Expect(ends).To(Equal(1))
			Expect(rec.Len()).To(BeZero())
			Expect(rec.Check()).To(Succeed())
		})
	})

	Describe("two spheres", func() {
		BeforeEach(func() {
			bodies = testBodies{newBody(0, mgl64.Vec3{}), newBody(1, mgl64.Vec3{1.5, 0, 0})}
			addAll(sphereModel(bodies[0], 1), sphereModel(bodies[1], 1))
		})

		It("reports one contact along the center line", func() {
			sys.Synchronize(bodies)
			sys.Run()
			Expect(sys.NumPairs()).To(Equal(1))
			cs := sys.Contacts()
			Expect(cs).To(HaveLen(1))
			c := cs[0]
			Expect(c.BodyA).To(Equal(0))
			Expect(c.BodyB).To(Equal(1))
			Expect(c.Depth).To(BeNumerically("~", 0.5, 1e-9))
			Expect(approxVec(c.Normal, mgl64.Vec3{1, 0, 0}, 1e-9)).To(BeTrue())
			Expect(approxVec(c.PointA, mgl64.Vec3{1, 0, 0}, 1e-9)).To(BeTrue())
			Expect(approxVec(c.PointB, mgl64.Vec3{0.5, 0, 0}, 1e-9)).To(BeTrue())
		})

		It("reports nothing once they separate past the envelope", func() {
			bodies[1].pos = mgl64.Vec3{3, 0, 0}
			sys.Synchronize(bodies)
			sys.Run()
			Expect(sys.NumPairs()).To(BeZero())
			Expect(sys.NumContacts()).To(BeZero())
		})

		It("hands contacts to a container with local shape indices", func() {
			sys.Synchronize(bodies)
			sys.Run()
			rec := contact.NewRecorder()
			sys.ReportContacts(rec)
			Expect(rec.Check()).To(Succeed())
			Expect(rec.Records).To(ConsistOf(contact.Record{Index: 0, BodyA: 0, ShapeA: 0, BodyB: 1, ShapeB: 0}))
			Expect(rec.Touching(1, 0)).To(BeTrue())
		})

		It("accumulates timers until reset", func() {
			sys.Synchronize(bodies)
			sys.Run()
			sys.Run()
			Expect(sys.TimerBroad()).To(BeNumerically(">", 0))
			Expect(sys.TimerNarrow()).To(BeNumerically(">", 0))
			sys.ResetTimers()
			Expect(sys.TimerBroad()).To(BeZero())
			Expect(sys.TimerNarrow()).To(BeZero())
		})

		It("logs each run", func() {
			var buf bytes.Buffer
			sys.SetLogger(log.New(&buf, "", 0))
			sys.Synchronize(bodies)
			sys.Run()
			Expect(buf.String()).To(ContainSubstring("collision: run shapes=2 pairs=1 contacts=1"))
		})
	})

	Describe("multi-shape bodies", func() {
		It("reports the local index of the touching shape", func() {
			bodies = testBodies{newBody(0, mgl64.Vec3{}), newBody(1, mgl64.Vec3{0, 0, 0})}
			m0 := shape.NewModel(bodies[0]).
				AddShape(shape.NewSphere(0.5, mgl64.Vec3{-10, 0, 0})).
				AddShape(shape.NewSphere(0.5, mgl64.Vec3{10, 0, 0}))
			m1 := shape.NewModel(bodies[1]).AddShape(shape.NewSphere(0.5, mgl64.Vec3{10.8, 0, 0}))
			addAll(m0, m1)
			sys.Synchronize(bodies)
			sys.Run()
			rec := contact.NewRecorder()
			sys.ReportContacts(rec)
			Expect(rec.Records).To(HaveLen(1))
			Expect(rec.Records[0].ShapeA).To(Equal(1))
			Expect(rec.Records[0].ShapeB).To(Equal(0))
			Expect(sys.Contacts()[0].ShapeA).To(Equal(1))
			Expect(sys.Contacts()[0].ShapeB).To(Equal(2))
		})
	})

	Describe("envelope", func() {
		It("never loses pairs or contacts as it grows", func() {
			rng := rand.New(rand.NewPCG(7, 11))
			for i := 0; i < 60; i++ {
				b := newBody(i, mgl64.Vec3{rng.Float64() * 6, rng.Float64() * 6, rng.Float64() * 6})
				bodies = append(bodies, b)
			}
			models := make([]*shape.Model, len(bodies))
			for i, b := range bodies {
				if i%2 == 0 {
					models[i] = sphereModel(b, 0.4)
				} else {
					models[i] = boxModel(b, mgl64.Vec3{0.3, 0.3, 0.3})
				}
			}

			prevPairs, prevContacts := -1, -1
			for _, env := range []float64{0, 0.05, 0.1, 0.5} {
				cfg := DefaultConfig()
				cfg.Envelope = env
				s := New(cfg)
				for _, m := range models {
					Expect(s.Add(m)).To(Succeed())
				}
				s.Synchronize(bodies)
				s.Run()
				Expect(s.NumPairs()).To(BeNumerically(">=", prevPairs), "envelope %g", env)
				Expect(s.NumContacts()).To(BeNumerically(">=", prevContacts), "envelope %g", env)
				for _, c := range s.Contacts() {
					Expect(c.Depth).To(BeNumerically(">=", -env-1e-9))
				}
				prevPairs, prevContacts = s.NumPairs(), s.NumContacts()
			}
		})
	})

	Describe("active region", func() {
		It("drops bodies outside the region from collision", func() {
			bodies = testBodies{
				newBody(0, mgl64.Vec3{}), newBody(1, mgl64.Vec3{1, 0, 0}),
				newBody(2, mgl64.Vec3{10, 0, 0}), newBody(3, mgl64.Vec3{11, 0, 0}),
			}
			for _, b := range bodies {
				addAll(sphereModel(b, 0.75))
			}
			sys.EnableActiveBoundingBox(mgl64.Vec3{-2, -2, -2}, mgl64.Vec3{2, 2, 2})
			lo, hi, on := sys.GetAABB()
			Expect(on).To(BeTrue())
			Expect(lo).To(Equal(mgl64.Vec3{-2, -2, -2}))
			Expect(hi).To(Equal(mgl64.Vec3{2, 2, 2}))

			sys.Synchronize(bodies)
			sys.Run()
			rec := contact.NewRecorder()
			sys.ReportContacts(rec)
			Expect(rec.Touching(0, 1)).To(BeTrue())
			Expect(rec.Touching(2, 3)).To(BeFalse())

			sys.DisableActiveBoundingBox()
			sys.Synchronize(bodies)
			sys.Run()
			sys.ReportContacts(rec)
			Expect(rec.Touching(2, 3)).To(BeTrue())
		})

		It("marks bodies with a shape in a queried box", func() {
			bodies = testBodies{newBody(0, mgl64.Vec3{}), newBody(1, mgl64.Vec3{5, 0, 0})}
			addAll(sphereModel(bodies[0], 1), sphereModel(bodies[1], 1))
			sys.Synchronize(bodies)
			active := []bool{false, false}
			sys.GetOverlappingAABB(active, mgl64.Vec3{3, -1, -1}, mgl64.Vec3{4.5, 1, 1})
			Expect(active).To(Equal([]bool{false, true}))
		})
	})

	Describe("many separated boxes", func() {
		It("finds no contacts and few candidate pairs", func() {
			cfg := DefaultConfig()
			cfg.GridDensity = 2
			sys = New(cfg)
			rng := rand.New(rand.NewPCG(1, 2))
			const side = 10
			for i := 0; i < side*side*side; i++ {
				x, y, z := i%side, (i/side)%side, i/(side*side)
				b := newBody(i, mgl64.Vec3{float64(x) * 2, float64(y) * 2, float64(z) * 2})
				b.rot = mgl64.QuatRotate(rng.Float64()*math.Pi, mgl64.Vec3{rng.Float64(), rng.Float64(), rng.Float64() + 0.1}.Normalize())
				bodies = append(bodies, b)
				// half extent 0.4 keeps rotated boxes inside a 0.7 radius
				addAll(boxModel(b, mgl64.Vec3{0.4, 0.4, 0.4}))
			}
			sys.Synchronize(bodies)
			sys.Run()
			Expect(sys.NumShapes()).To(Equal(1000))
			Expect(sys.NumContacts()).To(BeZero())
			Expect(sys.NumPairs()).To(BeNumerically("<", 1000))
			Expect(sys.NumActiveBins()).To(BeNumerically(">", 1))
		})
	})

	Describe("fluid", func() {
		It("reports particle contacts against rigid shapes", func() {
			bodies = testBodies{newBody(0, mgl64.Vec3{})}
			addAll(sphereModel(bodies[0], 1))
			sys.Synchronize(bodies)
			sys.SynchronizeFluid(testFluid{{1.05, 0, 0}, {5, 0, 0}})
			sys.Run()
			Expect(sys.NumFluidContacts()).To(Equal(1))
			Expect(sys.Data().Host.RigidFluidCounts).To(Equal([]int{1, 0}))
			fc := sys.FluidContacts()[0]
			Expect(fc.Body).To(Equal(0))
			Expect(fc.Fluid).To(Equal(0))
			Expect(fc.Depth).To(BeNumerically("~", 0.05, 1e-9))
		})

		It("clears fluid contacts once the particles are gone", func() {
			bodies = testBodies{newBody(0, mgl64.Vec3{})}
			addAll(sphereModel(bodies[0], 1))
			sys.Synchronize(bodies)
			sys.SynchronizeFluid(testFluid{{1.05, 0, 0}})
			sys.Run()
			Expect(sys.NumFluidContacts()).To(Equal(1))
			sys.SynchronizeFluid(nil)
			sys.Run()
			Expect(sys.NumFluidContacts()).To(BeZero())
		})
	})

	Describe("configuration", func() {
		It("panics on a corrupted database when invariants are checked", func() {
			cfg := DefaultConfig()
			cfg.CheckInvariants = true
			sys = New(cfg)
			bodies = testBodies{newBody(0, mgl64.Vec3{})}
			addAll(sphereModel(bodies[0], 1))
			sys.Data().NumRigidShapes = 5
			sys.Synchronize(bodies)
			Expect(sys.Run).To(Panic())
		})

		It("applies setters to later runs", func() {
			sys.SetBroadphaseNumBins([3]int{4, 5, 6}, true)
			sys.SetNarrowphaseAlgorithm(AlgorithmGJK)
			sys.SetNarrowphaseEnvelope(0.2)
			Expect(sys.Config().Algorithm).To(Equal(AlgorithmGJK))
			Expect(sys.Config().Envelope).To(Equal(0.2))

			bodies = testBodies{newBody(0, mgl64.Vec3{}), newBody(1, mgl64.Vec3{2.1, 0, 0})}
			addAll(sphereModel(bodies[0], 1), sphereModel(bodies[1], 1))
			sys.Synchronize(bodies)
			sys.Run()
			Expect(sys.Data().Measures.BinsPerAxis).To(Equal([3]int{4, 5, 6}))
			Expect(sys.NumContacts()).To(Equal(1))
			Expect(sys.Contacts()[0].Depth).To(BeNumerically("~", -0.1, 0.02))
		})

		It("sets the worker count", func() {
			prev := parallel.NumThreads()
			DeferCleanup(parallel.SetNumThreads, prev)
			sys.SetNumThreads(3)
			Expect(parallel.NumThreads()).To(Equal(3))
			Expect(sys.Config().NumThreads).To(Equal(3))
		})
	})
})
