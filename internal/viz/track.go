package viz

import (
	"math"

	"github.com/san-kum/tfdrive/internal/track"
)

const trackSamples = 480

// projection maps track coordinates onto canvas pixels with a uniform
// scale, so the loop keeps its shape.
type projection struct {
	minX, minY float64
	scale      float64
	offX, offY float64
}

func newProjection(g track.Geometry, c *Canvas) projection {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range sampleTrack(g) {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	const margin = 4
	pw := float64(c.Width*2 - 2*margin)
	ph := float64(c.Height*4 - 2*margin)
	sx, sy := math.Inf(1), math.Inf(1)
	if maxX > minX {
		sx = pw / (maxX - minX)
	}
	if maxY > minY {
		sy = ph / (maxY - minY)
	}
	scale := math.Min(sx, sy)
	if math.IsInf(scale, 1) {
		scale = 1
	}

	return projection{
		minX:  minX,
		minY:  minY,
		scale: scale,
		offX:  margin + (pw-(maxX-minX)*scale)/2,
		offY:  margin + (ph-(maxY-minY)*scale)/2,
	}
}

func (p projection) pixel(x, y float64) (int, int) {
	return int(math.Round(p.offX + (x-p.minX)*p.scale)),
		int(math.Round(p.offY + (y-p.minY)*p.scale))
}

func sampleTrack(g track.Geometry) []track.Point {
	n := trackSamples
	step := g.Length() / float64(n)
	if g.Closed() {
		pts := make([]track.Point, n)
		for i := range pts {
			pts[i] = g.At(float64(i) * step)
		}
		return pts
	}
	pts := make([]track.Point, n+1)
	for i := range pts {
		pts[i] = g.At(float64(i) * step)
	}
	return pts
}

// drawTrack renders the track outline, a tick across it at the target and
// a block for the car.
func drawTrack(c *Canvas, g track.Geometry, position, target float64) {
	c.Clear()
	proj := newProjection(g, c)

	pts := sampleTrack(g)
	for i := 1; i < len(pts); i++ {
		x0, y0 := proj.pixel(pts[i-1].X, pts[i-1].Y)
		x1, y1 := proj.pixel(pts[i].X, pts[i].Y)
		c.DrawLine(x0, y0, x1, y1)
	}
	if g.Closed() && len(pts) > 1 {
		x0, y0 := proj.pixel(pts[len(pts)-1].X, pts[len(pts)-1].Y)
		x1, y1 := proj.pixel(pts[0].X, pts[0].Y)
		c.DrawLine(x0, y0, x1, y1)
	}

	tp := g.At(target)
	tx, ty := proj.pixel(tp.X, tp.Y)
	nx, ny := -math.Sin(tp.Angle), math.Cos(tp.Angle)
	const tick = 4
	c.DrawLine(
		tx-int(math.Round(nx*tick)), ty-int(math.Round(ny*tick)),
		tx+int(math.Round(nx*tick)), ty+int(math.Round(ny*tick)),
	)

	cp := g.At(position)
	cx, cy := proj.pixel(cp.X, cp.Y)
	c.FillRect(cx, cy, 1)
}
