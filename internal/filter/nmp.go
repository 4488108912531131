// Package filter approximates a right-half-plane zero by subtracting a
// scaled first-difference derivative from the plant output, which makes the
// response start in the wrong direction.
package filter

// DefaultZero is the zero location used by the vehicle simulation.
const DefaultZero = 2.0

// Correct returns base - (1/z)*(base-prev)/dt. dt must be the integrator's
// step; the first difference is only meaningful at that spacing.
func Correct(base, prev, dt, z float64) float64 {
	return base - (1/z)*(base-prev)/dt
}

// Zero is the switchable filter. It holds no memory: the caller keeps the
// previous base output and must update it every tick whether or not the
// filter is enabled, so re-enabling does not see a stale difference.
type Zero struct {
	Location float64
	Enabled  bool
}

func NewZero(enabled bool) Zero {
	return Zero{Location: DefaultZero, Enabled: enabled}
}

// Output returns the filtered acceleration for one tick.
func (z Zero) Output(base, prev, dt float64) float64 {
	if !z.Enabled {
		return base
	}
	return Correct(base, prev, dt, z.Location)
}
