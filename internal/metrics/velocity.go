package metrics

import (
	"math"

	"github.com/san-kum/tfdrive/internal/sim"
)

type PeakVelocity struct {
	peak float64
}

func NewPeakVelocity() *PeakVelocity {
	return &PeakVelocity{}
}

func (p *PeakVelocity) Name() string { return "peak_velocity" }

func (p *PeakVelocity) Observe(s sim.Snapshot) {
	p.peak = math.Max(p.peak, math.Abs(s.Vehicle.Velocity))
}

func (p *PeakVelocity) Value() float64 { return p.peak }
func (p *PeakVelocity) Reset()         { p.peak = 0 }
