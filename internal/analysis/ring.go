package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// RingFrequency estimates the dominant angular frequency (rad/s) of the
// oscillation of y about its final value. For an underdamped second-order
// plant it approximates the damped frequency ωn·√(1-ζ²).
func RingFrequency(y []float64, dt float64) (float64, error) {
	if len(y) < 4 || dt <= 0 {
		return 0, ErrNoResponse
	}

	n := 1
	for n < 4*len(y) {
		n <<= 1
	}
	final := y[len(y)-1]
	padded := make([]float64, n)
	for i, v := range y {
		padded[i] = v - final
	}

	spectrum := fft.FFTReal(padded)
	best, bin := 0.0, 0
	for k := 1; k < n/2; k++ {
		if mag := cmplx.Abs(spectrum[k]); mag > best {
			best = mag
			bin = k
		}
	}
	if bin == 0 {
		return 0, ErrNoResponse
	}
	return 2 * math.Pi * float64(bin) / (float64(n) * dt), nil
}

// DampedFrequency is ωn·√(1-ζ²), zero unless 0 < ζ < 1.
func DampedFrequency(zeta, wn float64) float64 {
	if zeta <= 0 || zeta >= 1 {
		return 0
	}
	return wn * math.Sqrt(1-zeta*zeta)
}
