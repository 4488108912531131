// Package analysis characterizes plant responses offline.
//
//   - [Simulate]: step the plant and NMP filter under a constant input
//   - [Characterize]: overshoot, undershoot, rise and settling time
//   - [RingFrequency]: dominant oscillation frequency via FFT
//   - [NewPhasePortrait]: (x1, x2) trajectory for plotting
//
// # Usage
//
//	tr := analysis.Simulate(params, integrators.NewEuler(), filter.NewZero(false), 1, dt, 10)
//	sr, err := analysis.Characterize(tr.Output, dt)
//	wd, err := analysis.RingFrequency(tr.Output, dt)
package analysis
