// Package dynamo provides core simulation primitives for the vehicle plant.
//
// The package defines the fundamental interfaces and types shared by the
// parameter mapper, the integrators and the session:
//
//   - [State]: plant state vector {x1, x2}
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical integrator interface
//   - [ParameterError]: wraps [ErrInvalidParameter] with the offending quantity
//
// # Thread Safety
//
// Nothing in this package holds mutable state. Callers that share a State
// between goroutines must Clone it first.
package dynamo
