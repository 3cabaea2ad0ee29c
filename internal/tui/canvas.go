package tui

import (
	"strings"

	"github.com/san-kum/mcollide/internal/export"
	"github.com/san-kum/mcollide/internal/geom"
)

type canvas struct {
	width, height int
	cells         [][]rune
}

func newCanvas(width, height int) *canvas {
	cells := make([][]rune, height)
	for i := range cells {
		cells[i] = make([]rune, width)
	}
	c := &canvas{width: width, height: height, cells: cells}
	c.clear()
	return c
}

func (c *canvas) clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = ' '
		}
	}
}

func (c *canvas) set(x, y int, r rune) {
	if x >= 0 && x < c.width && y >= 0 && y < c.height {
		c.cells[y][x] = r
	}
}

func (c *canvas) String() string {
	lines := make([]string, c.height)
	for i, row := range c.cells {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}

// draw projects shape boxes onto plane: box outlines are '.', box centres
// 'o' and contact points '*'.
func (c *canvas) draw(s export.Snapshot, plane export.Plane) {
	c.clear()
	u, v := plane.Axes()
	bounds := geom.Empty()
	for _, b := range s.Boxes {
		bounds = bounds.Union(b)
	}
	if bounds.IsEmpty() {
		return
	}
	ext := bounds.Extent()
	su := float64(c.width-1) / max(ext[u], 1e-9)
	sv := float64(c.height-1) / max(ext[v], 1e-9)
	cell := func(pu, pv float64) (int, int) {
		return int((pu - bounds.Min[u]) * su), c.height - 1 - int((pv-bounds.Min[v])*sv)
	}

	for _, b := range s.Boxes {
		x0, y1 := cell(b.Min[u], b.Min[v])
		x1, y0 := cell(b.Max[u], b.Max[v])
		for x := x0; x <= x1; x++ {
			c.set(x, y0, '.')
			c.set(x, y1, '.')
		}
		for y := y0; y <= y1; y++ {
			c.set(x0, y, '.')
			c.set(x1, y, '.')
		}
	}
	for _, b := range s.Boxes {
		p := b.Center()
		x, y := cell(p[u], p[v])
		c.set(x, y, 'o')
	}
	for _, ct := range s.Contacts {
		x, y := cell(ct.PointA[u], ct.PointA[v])
		c.set(x, y, '*')
	}
}
