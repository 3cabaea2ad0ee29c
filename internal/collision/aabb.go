package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/mcollide/internal/geom"
	"github.com/san-kum/mcollide/internal/parallel"
	"github.com/san-kum/mcollide/internal/shape"
)

// AABBGenerator computes one world-space box per shape record.
type AABBGenerator struct {
	data *Data
}

func NewAABBGenerator(data *Data) *AABBGenerator {
	return &AABBGenerator{data: data}
}

// GenerateAABB fills Host.AABBMin/AABBMax, inflating every box by envelope.
// Shapes of unknown kind or of bodies outside the synchronized list get an
// empty box.
func (g *AABBGenerator) GenerateAABB(envelope float64) {
	d := g.data
	n := d.Shapes.Len()
	d.Host.AABBMin = resize(d.Host.AABBMin, n)
	d.Host.AABBMax = resize(d.Host.AABBMax, n)

	parallel.For(n, 128, func(start, end int) {
		for i := start; i < end; i++ {
			box := d.shapeAABB(i).Inflate(envelope)
			d.Host.AABBMin[i] = box.Min
			d.Host.AABBMax[i] = box.Max
		}
	})
}

func (d *Data) shapeAABB(i int) geom.AABB {
	pose, ok := d.shapePose(i)
	if !ok {
		return geom.Empty()
	}
	sd := &d.Shapes
	start := sd.Start[i]

	switch k := sd.Kind[i]; {
	case k == shape.Sphere:
		r := sd.Spheres[start]
		return geom.FromCenter(pose.Pos, mgl64.Vec3{r, r, r})
	case k == shape.Capsule:
		c := sd.Capsules[start]
		return geom.FromCenter(pose.Pos, capsuleExtent(pose, c[0], c[1]))
	case k == shape.Convex:
		return transformedExtrema(pose, sd.Convex[start:start+sd.Length[i]])
	case k == shape.Triangle:
		return transformedExtrema(pose, sd.Triangles[start:start+3])
	case k.BoxLike():
		return geom.FromCenter(pose.Pos, coreExtent(k, pose, sd.BoxLike[start]))
	case k.Rounded():
		v := sd.RBoxLike[start]
		ext := coreExtent(k, pose, v.Vec3())
		return geom.FromCenter(pose.Pos, ext.Add(mgl64.Vec3{v[3], v[3], v[3]}))
	}
	return geom.Empty()
}

// coreExtent is the half extent of a box-like or rounded core rotated into
// the world frame.
func coreExtent(k shape.Kind, pose geom.Pose, dims mgl64.Vec3) mgl64.Vec3 {
	ax := pose.Axes()
	var ext mgl64.Vec3
	switch k {
	case shape.Ellipsoid:
		for i := 0; i < 3; i++ {
			a, b, c := ax[0][i]*dims[0], ax[1][i]*dims[1], ax[2][i]*dims[2]
			ext[i] = math.Sqrt(a*a + b*b + c*c)
		}
	case shape.Cylinder, shape.CylShell, shape.Cone, shape.RoundedCyl, shape.RoundedCone:
		u := ax[1]
		for i := 0; i < 3; i++ {
			ext[i] = math.Abs(u[i])*dims[1] + dims[0]*math.Sqrt(math.Max(0, 1-u[i]*u[i]))
		}
	default:
		for i := 0; i < 3; i++ {
			ext[i] = math.Abs(ax[0][i])*dims[0] + math.Abs(ax[1][i])*dims[1] + math.Abs(ax[2][i])*dims[2]
		}
	}
	return ext
}

func capsuleExtent(pose geom.Pose, radius, halfLength float64) mgl64.Vec3 {
	u := pose.Axes()[1]
	return mgl64.Vec3{
		math.Abs(u[0])*halfLength + radius,
		math.Abs(u[1])*halfLength + radius,
		math.Abs(u[2])*halfLength + radius,
	}
}

func transformedExtrema(pose geom.Pose, pts []mgl64.Vec3) geom.AABB {
	box := geom.Empty()
	for _, p := range pts {
		box = box.Include(pose.Apply(p))
	}
	return box
}
