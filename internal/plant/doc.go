// Package plant maps user-facing transfer-function settings onto the
// second-order state-space template the session integrates:
//
//	x1' = x2
//	x2' = -a0*x1 - a1*x2 + u
//	y   = b0*x1 + b1*x2 + d*u
//
// A [Mode] selects how the coefficients are derived:
//
//   - [FirstOrder]: time constant τ
//   - [SecondOrder]: percent overshoot and 2% settling time
//   - [PoleZero]: G(s) = (-s + zero)/(s + pole), a first-order plant with a
//     right-half-plane zero and direct feed-through
//
// [Map] validates the derived quantities and reports [dynamo.ErrInvalidParameter]
// instead of letting NaN reach the integrator. It never clamps; use [Clamp]
// for that.
package plant
