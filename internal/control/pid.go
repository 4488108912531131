package control

import (
	"math"

	"github.com/samber/lo"

	"github.com/san-kum/tfdrive/internal/sim"
)

// PID steers the vehicle onto the target. The error is the signed
// arc-length to the target, the short way round on a closed track. The
// derivative term acts on the measured velocity so wrapping the error at
// the far side of a loop does not kick the output.
type PID struct {
	Kp float64
	Ki float64
	Kd float64
	// Discrete rounds the clamped output to brake/none/accelerate. The
	// plant lag makes a three-way autopilot hunt, so it is off by default.
	Discrete bool

	integral float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd float64) *PID {
	return &PID{
		Kp:    kp,
		Ki:    ki,
		Kd:    kd,
		first: true,
	}
}

// DefaultPID is tuned for the default loop and second-order plant.
func DefaultPID() *PID {
	return NewPID(0.002, 0, 0.1)
}

func (p *PID) Input(s sim.Snapshot) float64 {
	err := SignedError(s)

	if p.first {
		p.first = false
	} else if dt := s.Time - p.prevT; dt > 0 {
		p.integral += err * dt
	}
	p.prevT = s.Time

	u := p.Kp*err + p.Ki*p.integral - p.Kd*s.Vehicle.Velocity
	u = lo.Clamp(u, -1, 1)
	if !p.Discrete {
		return u
	}
	switch {
	case u > 0.5:
		return 1
	case u < -0.5:
		return -1
	default:
		return 0
	}
}

// Reset clears integral state
func (p *PID) Reset() {
	p.integral = 0
	p.prevT = 0
	p.first = true
}

func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp": p.Kp,
		"Ki": p.Ki,
		"Kd": p.Kd,
	}
}

func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	}
}

// SignedError is the arc-length from the vehicle to the target, positive
// when the target is ahead.
func SignedError(s sim.Snapshot) float64 {
	d := s.Target - s.Vehicle.Position
	l := s.TrackLength
	if !s.Closed || l <= 0 {
		return d
	}
	d = math.Mod(d, l)
	if d > l/2 {
		d -= l
	} else if d < -l/2 {
		d += l
	}
	return d
}
