package sim

import (
	"github.com/san-kum/tfdrive/internal/dynamo"
	"github.com/san-kum/tfdrive/internal/filter"
	"github.com/san-kum/tfdrive/internal/plant"
	"github.com/san-kum/tfdrive/internal/vehicle"
)

// Physics is the fixed part of the tick: integrator, filter, vehicle model
// and step size.
type Physics struct {
	Integrator dynamo.Integrator
	Filter     filter.Zero
	Vehicle    vehicle.Model
	Dt         float64
}

// Frame is everything one tick reads and writes.
type Frame struct {
	Time     float64
	Plant    dynamo.State
	PrevBase float64
	Vehicle  vehicle.State
	Base     float64
	Accel    float64
}

// Rest is the frame a session starts from.
func (p Physics) Rest(start float64) Frame {
	return Frame{
		Plant:   dynamo.State{0, 0},
		Vehicle: p.Vehicle.Start(start),
	}
}

// Advance computes the next frame. It does not modify f.
func (p Physics) Advance(f Frame, params plant.Params, u float64) Frame {
	x := p.Integrator.Step(params, f.Plant, dynamo.Control{u}, f.Time, p.Dt)
	base := params.Output(x, u)
	accel := p.Filter.Output(base, f.PrevBase, p.Dt)

	return Frame{
		Time:     f.Time + p.Dt,
		Plant:    x,
		PrevBase: base,
		Vehicle:  p.Vehicle.Step(f.Vehicle, accel, p.Dt),
		Base:     base,
		Accel:    accel,
	}
}
