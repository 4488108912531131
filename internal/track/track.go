// Package track describes the road the vehicle drives on. The simulation
// only needs the wrap and distance contract; At exists so a renderer can
// place and orient the car.
package track

import (
	"fmt"
	"math"
)

// Point is a position on the canvas plane (y grows downward) with the
// heading of travel in radians.
type Point struct {
	X, Y  float64
	Angle float64
}

type Geometry interface {
	Length() float64
	Closed() bool
	// Wrap maps a raw arc-length onto the track. Closed tracks wrap into
	// [0, Length); open tracks return d unchanged.
	Wrap(d float64) float64
	At(d float64) Point
}

// Distance is the shortest distance between two arc-length positions. On a
// closed track both are wrapped first and the result is min(d, L-d).
func Distance(g Geometry, a, b float64) float64 {
	if !g.Closed() {
		return math.Abs(a - b)
	}
	d := math.Abs(g.Wrap(a) - g.Wrap(b))
	return math.Min(d, g.Length()-d)
}

// Loop is a closed rounded rectangle traversed clockwise from the start of
// the top straight.
type Loop struct {
	X, Y          float64
	Width, Height float64
	Radius        float64
}

// DefaultLoop matches a 600x300 canvas with a 50px margin.
func DefaultLoop() Loop {
	return Loop{X: 50, Y: 50, Width: 500, Height: 200, Radius: 50}
}

func (l Loop) Validate() error {
	if l.Radius < 0 || 2*l.Radius > l.Width || 2*l.Radius > l.Height {
		return fmt.Errorf("track: radius %g does not fit %gx%g", l.Radius, l.Width, l.Height)
	}
	if l.Length() <= 0 {
		return fmt.Errorf("track: loop has no length")
	}
	return nil
}

func (l Loop) straightW() float64 { return l.Width - 2*l.Radius }
func (l Loop) straightH() float64 { return l.Height - 2*l.Radius }
func (l Loop) quarter() float64   { return math.Pi * l.Radius / 2 }

func (l Loop) Length() float64 {
	return 2*l.straightW() + 2*l.straightH() + 2*math.Pi*l.Radius
}

func (l Loop) Closed() bool { return true }

// Wrap is ((d mod L) + L) mod L, written so values already in range are
// returned exactly.
func (l Loop) Wrap(d float64) float64 {
	n := l.Length()
	w := math.Mod(d, n)
	if w < 0 {
		w += n
	}
	if w >= n {
		w = 0
	}
	return w
}

func (l Loop) At(d float64) Point {
	d = l.Wrap(d)
	r := l.Radius
	w, h, q := l.straightW(), l.straightH(), l.quarter()
	left, top := l.X, l.Y
	right, bottom := l.X+l.Width, l.Y+l.Height

	// arc converts distance into a corner sweep in [0, π/2].
	arc := func(s float64) float64 {
		if q == 0 {
			return 0
		}
		return s / q * math.Pi / 2
	}

	switch {
	case d < w:
		return Point{X: left + r + d, Y: top, Angle: 0}
	case d < w+q:
		a := arc(d - w)
		return Point{X: right - r + r*math.Sin(a), Y: top + r - r*math.Cos(a), Angle: a}
	case d < w+q+h:
		return Point{X: right, Y: top + r + (d - w - q), Angle: math.Pi / 2}
	case d < w+2*q+h:
		a := arc(d - w - q - h)
		return Point{X: right - r + r*math.Cos(a), Y: bottom - r + r*math.Sin(a), Angle: math.Pi/2 + a}
	case d < 2*w+2*q+h:
		return Point{X: right - r - (d - w - 2*q - h), Y: bottom, Angle: math.Pi}
	case d < 2*w+3*q+h:
		a := arc(d - 2*w - 2*q - h)
		return Point{X: left + r - r*math.Sin(a), Y: bottom - r + r*math.Cos(a), Angle: math.Pi + a}
	case d < 2*w+3*q+2*h:
		return Point{X: left, Y: bottom - r - (d - 2*w - 3*q - h), Angle: 3 * math.Pi / 2}
	default:
		a := arc(d - 2*w - 3*q - 2*h)
		return Point{X: left + r - r*math.Cos(a), Y: top + r - r*math.Sin(a), Angle: 3*math.Pi/2 + a}
	}
}

// Line is an open straight road. Positions outside [0, Length] are legal and
// are never wrapped or clamped; Length only sizes the drawing.
type Line struct {
	X, Y   float64
	Extent float64
}

func DefaultLine() Line {
	return Line{X: 0, Y: 0, Extent: 500}
}

func (l Line) Length() float64        { return l.Extent }
func (l Line) Closed() bool           { return false }
func (l Line) Wrap(d float64) float64 { return d }

func (l Line) At(d float64) Point {
	return Point{X: l.X + d, Y: l.Y, Angle: 0}
}
