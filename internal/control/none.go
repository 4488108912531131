package control

import "github.com/san-kum/tfdrive/internal/sim"

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Input(sim.Snapshot) float64 {
	return 0
}
