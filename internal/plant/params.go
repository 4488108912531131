package plant

import (
	"fmt"
	"math"

	"github.com/san-kum/tfdrive/internal/dynamo"
)

// Params holds the state-space coefficients for one tick. Tau is the
// dominant time constant and only sizes the transient chart window.
type Params struct {
	A0, A1 float64
	B0, B1 float64
	D      float64
	Tau    float64
}

// Map derives Params from a mode.
func Map(m Mode) (Params, error) {
	if m == nil {
		return Params{}, fmt.Errorf("%w: nil mode", dynamo.ErrUnknownMode)
	}
	p, err := m.params()
	if err != nil {
		return Params{}, fmt.Errorf("mapping %s: %w", m.Kind(), err)
	}
	return p, nil
}

func (m FirstOrder) params() (Params, error) {
	if !positiveFinite(m.Tau) {
		return Params{}, dynamo.NewParameterError("tau", m.Tau)
	}
	inv := 1 / m.Tau
	if !positiveFinite(inv) {
		return Params{}, dynamo.NewParameterError("1/tau", inv)
	}
	return Params{A0: 0, A1: inv, B0: inv, B1: 0, Tau: m.Tau}, nil
}

// DampingRatio converts percent overshoot to ζ.
func DampingRatio(percentOvershoot float64) float64 {
	l := math.Log(percentOvershoot / 100)
	return -l / math.Sqrt(math.Pi*math.Pi+l*l)
}

// NaturalFrequency uses the 2% settling criterion Ts = 4/(ζωn).
func NaturalFrequency(zeta, settlingTime float64) float64 {
	return 4 / (zeta * settlingTime)
}

func (m SecondOrder) params() (Params, error) {
	zeta := DampingRatio(m.PercentOvershoot)
	if !positiveFinite(zeta) {
		return Params{}, dynamo.NewParameterError("zeta", zeta)
	}
	wn := NaturalFrequency(zeta, m.SettlingTime)
	if !positiveFinite(wn) {
		return Params{}, dynamo.NewParameterError("omega_n", wn)
	}
	sigma := zeta * wn
	if !positiveFinite(sigma) {
		return Params{}, dynamo.NewParameterError("zeta*omega_n", sigma)
	}
	return Params{
		A0:  wn * wn,
		A1:  2 * sigma,
		B0:  wn * wn,
		B1:  0,
		Tau: 1 / sigma,
	}, nil
}

// G(s) = (-s + a)/(s + b) = -1 + (a+b)/(s+b). The first-order lag lives in
// x2; x1 still integrates it but does not reach the output.
func (m PoleZero) params() (Params, error) {
	if !positiveFinite(m.Pole) {
		return Params{}, dynamo.NewParameterError("pole", m.Pole)
	}
	if math.IsNaN(m.Zero) || math.IsInf(m.Zero, 0) {
		return Params{}, dynamo.NewParameterError("zero", m.Zero)
	}
	return Params{
		A0:  0,
		A1:  m.Pole,
		B0:  0,
		B1:  m.Zero + m.Pole,
		D:   -1,
		Tau: 1 / m.Pole,
	}, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func (p Params) StateDim() int   { return 2 }
func (p Params) ControlDim() int { return 1 }

// Derive implements dynamo.System for the companion-form template.
func (p Params) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{
		x[1],
		-p.A0*x[0] - p.A1*x[1] + u.Scalar(),
	}
}

// Output is the plant's base output y = b0*x1 + b1*x2 + d*u.
func (p Params) Output(x dynamo.State, u float64) float64 {
	return p.B0*x[0] + p.B1*x[1] + p.D*u
}

// Damping recovers (ζ, ωn) from the coefficients. Both are zero when a0 is
// zero, since such a plant has a pole at the origin.
func (p Params) Damping() (zeta, wn float64) {
	if p.A0 <= 0 {
		return 0, 0
	}
	wn = math.Sqrt(p.A0)
	return p.A1 / (2 * wn), wn
}

// WindowSamples is the number of dt-spaced samples covering n time constants.
func (p Params) WindowSamples(n, dt float64) int {
	if dt <= 0 || !positiveFinite(p.Tau) {
		return 0
	}
	return int(math.Floor(n * p.Tau / dt))
}
