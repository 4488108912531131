package integrators

import "github.com/san-kum/tfdrive/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta method. The control input is
// held constant across the step, matching how the session samples input once
// per frame.
type RK4 struct {
	k      [4]dynamo.State
	probe  dynamo.State
	weight [4]float64
}

func NewRK4() *RK4 {
	return &RK4{weight: [4]float64{1, 2, 2, 1}}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.probe) == n {
		return
	}
	for i := range r.k {
		r.k[i] = make(dynamo.State, n)
	}
	r.probe = make(dynamo.State, n)
}

// offset writes x + h*k into the probe buffer.
func (r *RK4) offset(x, k dynamo.State, h float64) dynamo.State {
	for i := range x {
		r.probe[i] = x[i] + h*k[i]
	}
	return r.probe
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	r.ensureScratch(len(x))
	half := dt / 2

	copy(r.k[0], dyn.Derive(x, u, t))
	copy(r.k[1], dyn.Derive(r.offset(x, r.k[0], half), u, t+half))
	copy(r.k[2], dyn.Derive(r.offset(x, r.k[1], half), u, t+half))
	copy(r.k[3], dyn.Derive(r.offset(x, r.k[2], dt), u, t+dt))

	next := x.Clone()
	for j, k := range r.k {
		w := r.weight[j] * dt / 6
		for i := range next {
			next[i] += w * k[i]
		}
	}
	return next
}
