package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/tfdrive/internal/dynamo"
	"github.com/san-kum/tfdrive/internal/plant"
)

func TestEulerSingleStep(t *testing.T) {
	p := plant.Params{A0: 4, A1: 2, B0: 4}
	x := dynamo.State{0.5, -1}
	dt := 0.1

	got := NewEuler().Step(p, x, dynamo.Control{1}, 0, dt)

	// x1 += x2*dt; x2 += (-a0*x1 - a1*x2 + u)*dt
	want := dynamo.State{0.5 + -1*dt, -1 + (-4*0.5-2*-1+1)*dt}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("x%d = %v, want %v", i+1, got[i], want[i])
		}
	}
	if x[0] != 0.5 || x[1] != -1 {
		t.Error("Step must not mutate its input state")
	}
}

func TestEulerEquilibrium(t *testing.T) {
	modes := []plant.Mode{
		plant.FirstOrder{Tau: 1},
		plant.SecondOrder{PercentOvershoot: 10, SettlingTime: 2},
		plant.PoleZero{Zero: 2, Pole: 1},
	}
	e := NewEuler()
	for _, m := range modes {
		p, err := plant.Map(m)
		if err != nil {
			t.Fatalf("map %v: %v", m, err)
		}
		x := dynamo.State{0, 0}
		for i := 0; i < 1000; i++ {
			x = e.Step(p, x, dynamo.Control{0}, 0, 1.0/60)
		}
		if x[0] != 0 || x[1] != 0 {
			t.Errorf("%s: state drifted from equilibrium: %v", m.Kind(), x)
		}
	}
}

func TestEulerPropagatesNaN(t *testing.T) {
	p := plant.Params{A0: math.NaN(), A1: 1}
	x := NewEuler().Step(p, dynamo.State{1, 0}, dynamo.Control{0}, 0, 0.1)
	if x.IsValid() {
		t.Error("expected NaN to propagate through the step")
	}
}
