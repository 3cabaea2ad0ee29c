package export

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/mcollide/internal/collision"
	"github.com/san-kum/mcollide/internal/geom"
)

// Plane selects the two world axes an SVG projection keeps.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneZY
)

func ParsePlane(s string) (Plane, error) {
	switch strings.ToLower(s) {
	case "xy", "":
		return PlaneXY, nil
	case "xz":
		return PlaneXZ, nil
	case "zy":
		return PlaneZY, nil
	}
	return 0, fmt.Errorf("unknown plane: %s", s)
}

// Axes returns the world axis indices drawn horizontally and vertically.
func (p Plane) Axes() (int, int) {
	switch p {
	case PlaneXZ:
		return 0, 2
	case PlaneZY:
		return 2, 1
	}
	return 0, 1
}

// Snapshot is everything a scene SVG draws.
type Snapshot struct {
	Boxes    []geom.AABB
	Contacts []collision.Contact
	Fluid    []mgl64.Vec3
	// Grid is the broadphase box split into Bins cells.
	Grid geom.AABB
	Bins [3]int
}

// Capture reads a snapshot from a system after Run.
func Capture(sys *collision.System, fluid []mgl64.Vec3) Snapshot {
	lo, hi := sys.GetBoundingBox()
	return Snapshot{
		Boxes:    sys.ShapeAABBs(),
		Contacts: sys.Contacts(),
		Fluid:    fluid,
		Grid:     geom.AABB{Min: lo, Max: hi},
		Bins:     sys.Data().Measures.BinsPerAxis,
	}
}

type view struct {
	u, v          int
	minU, minV    float64
	scale, height float64
}

func (w view) point(p mgl64.Vec3) (float64, float64) {
	return (p[w.u] - w.minU) * w.scale, w.height - (p[w.v]-w.minV)*w.scale
}

// SceneToSVG projects shape boxes, the broadphase grid, fluid particles
// and contact points with their normals onto plane.
func SceneToSVG(s Snapshot, plane Plane, width, height int) string {
	u, v := plane.Axes()
	bounds := geom.Empty()
	for _, b := range s.Boxes {
		bounds = bounds.Union(b)
	}
	for _, p := range s.Fluid {
		bounds = bounds.Include(p)
	}
	if bounds.IsEmpty() {
		bounds = geom.AABB{Max: mgl64.Vec3{1, 1, 1}}
	}
	bounds = bounds.Inflate(0.05 * maxf(bounds.Extent()[u], bounds.Extent()[v], 1e-3))
	ext := bounds.Extent()
	scale := minf(float64(width)/ext[u], float64(height)/ext[v])
	w := view{u: u, v: v, minU: bounds.Min[u], minV: bounds.Min[v], scale: scale, height: float64(height)}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if !s.Grid.IsEmpty() && s.Bins[u] > 0 && s.Bins[v] > 0 {
		sb.WriteString(`<g stroke="#1f2f1f" stroke-width="0.5">` + "\n")
		x0, y0 := w.point(s.Grid.Min)
		x1, y1 := w.point(s.Grid.Max)
		for i := 0; i <= s.Bins[u]; i++ {
			x := x0 + (x1-x0)*float64(i)/float64(s.Bins[u])
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x, y0, x, y1))
		}
		for j := 0; j <= s.Bins[v]; j++ {
			y := y0 + (y1-y0)*float64(j)/float64(s.Bins[v])
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x0, y, x1, y))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString(`<g fill="none" stroke="#00aa66" stroke-width="1">` + "\n")
	for _, b := range s.Boxes {
		if b.IsEmpty() {
			continue
		}
		x0, y0 := w.point(b.Min)
		x1, y1 := w.point(b.Max)
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n", x0, y1, x1-x0, y0-y1))
	}
	sb.WriteString("</g>\n")

	if len(s.Fluid) > 0 {
		sb.WriteString(`<g fill="#3399ff">` + "\n")
		for _, p := range s.Fluid {
			x, y := w.point(p)
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="1"/>`+"\n", x, y))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString(`<g fill="#ff3344" stroke="#ffcc00" stroke-width="1">` + "\n")
	for _, c := range s.Contacts {
		x, y := w.point(c.PointA)
		tip := c.PointA.Add(c.Normal.Mul(0.05 * maxf(ext[u], ext[v], 1e-3)))
		tx, ty := w.point(tip)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="2"/><line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x, y, x, y, tx, ty))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG draws a per-step series as a polyline.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, y := range values {
		minY = minf(minY, y)
		maxY = maxf(maxY, y)
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	rangeX := float64(len(values) - 1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, val := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (val-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(vals ...float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
