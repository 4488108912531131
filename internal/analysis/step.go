package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/tfdrive/internal/dynamo"
	"github.com/san-kum/tfdrive/internal/filter"
	"github.com/san-kum/tfdrive/internal/plant"
)

// SettlingBand is the 2% criterion.
const SettlingBand = 0.02

var ErrNoResponse = errors.New("analysis: response has no final value")

// Trace is a plant response sampled after every step.
type Trace struct {
	Times  []float64
	X1     []float64
	X2     []float64
	Base   []float64
	Output []float64
}

// Simulate applies a constant input u from rest for duration seconds.
func Simulate(p plant.Params, integ dynamo.Integrator, z filter.Zero, u, dt, duration float64) Trace {
	steps := int(math.Round(duration / dt))
	tr := Trace{
		Times:  make([]float64, 0, steps),
		X1:     make([]float64, 0, steps),
		X2:     make([]float64, 0, steps),
		Base:   make([]float64, 0, steps),
		Output: make([]float64, 0, steps),
	}

	x := dynamo.State{0, 0}
	ctrl := dynamo.Control{u}
	prev, t := 0.0, 0.0
	for i := 0; i < steps; i++ {
		x = integ.Step(p, x, ctrl, t, dt)
		t += dt
		base := p.Output(x, u)

		tr.Times = append(tr.Times, t)
		tr.X1 = append(tr.X1, x[0])
		tr.X2 = append(tr.X2, x[1])
		tr.Base = append(tr.Base, base)
		tr.Output = append(tr.Output, z.Output(base, prev, dt))
		prev = base
	}
	return tr
}

// StepResponse holds the classic step-response figures. Percentages are
// relative to the final value; times are in seconds from the step.
type StepResponse struct {
	Final        float64
	Peak         float64
	PeakTime     float64
	Overshoot    float64
	Undershoot   float64
	RiseTime     float64
	SettlingTime float64
}

// Characterize measures a step response sampled every dt, with sample i
// taken at (i+1)*dt. The last sample is taken as the final value, so y
// must run long enough to settle.
func Characterize(y []float64, dt float64) (StepResponse, error) {
	if len(y) == 0 {
		return StepResponse{}, ErrNoResponse
	}
	final := y[len(y)-1]
	if final == 0 || math.IsNaN(final) || math.IsInf(final, 0) {
		return StepResponse{}, ErrNoResponse
	}

	sign := 1.0
	if final < 0 {
		sign = -1
	}
	f := math.Abs(final)

	sr := StepResponse{Final: final}
	peak, low := math.Inf(-1), 0.0
	peakIdx, rise10, rise90, outside := 0, -1, -1, -1
	for i, v := range y {
		v *= sign
		if v > peak {
			peak = v
			peakIdx = i
		}
		low = math.Min(low, v)
		if rise10 < 0 && v >= 0.1*f {
			rise10 = i
		}
		if rise90 < 0 && v >= 0.9*f {
			rise90 = i
		}
		if math.Abs(v-f) > SettlingBand*f {
			outside = i
		}
	}

	sr.Peak = peak * sign
	sr.PeakTime = float64(peakIdx+1) * dt
	sr.Overshoot = math.Max(0, (peak-f)/f*100)
	sr.Undershoot = -low / f * 100
	if rise10 >= 0 && rise90 >= 0 {
		sr.RiseTime = float64(rise90-rise10) * dt
	}
	if outside >= 0 {
		sr.SettlingTime = float64(outside+2) * dt
	}
	return sr, nil
}
