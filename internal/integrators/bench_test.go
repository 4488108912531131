package integrators

import (
	"testing"

	"github.com/san-kum/tfdrive/internal/dynamo"
	"github.com/san-kum/tfdrive/internal/plant"
)

func benchPlant(b *testing.B) plant.Params {
	p, err := plant.Map(plant.SecondOrder{PercentOvershoot: 10, SettlingTime: 2})
	if err != nil {
		b.Fatal(err)
	}
	return p
}

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	p := benchPlant(b)
	x := dynamo.State{0, 0}
	u := dynamo.Control{1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(p, x, u, 0, 1.0/60)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	p := benchPlant(b)
	x := dynamo.State{0, 0}
	u := dynamo.Control{1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(p, x, u, 0, 1.0/60)
	}
}
