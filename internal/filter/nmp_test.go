package filter

import (
	"math"
	"testing"
)

func TestZeroUndershoot(t *testing.T) {
	dt := 1.0 / 60
	z := NewZero(true)

	base := []float64{0, 1, 1, 1}
	// First sample has zero difference against the initial prev of 0.
	want := []float64{0, 1 - 0.5*60, 1, 1}

	prev := 0.0
	for i, b := range base {
		got := z.Output(b, prev, dt)
		if math.Abs(got-want[i]) > 1e-9 {
			t.Errorf("tick %d: got %.6f, want %.6f", i, got, want[i])
		}
		prev = b
	}
}

func TestFirstStepIsWrongWay(t *testing.T) {
	dt := 1.0 / 60
	got := Correct(1, 0, dt, DefaultZero)
	if got >= 0 {
		t.Errorf("expected undershoot below zero, got %.4f", got)
	}
	if math.Abs(got-(-29)) > 1e-9 {
		t.Errorf("expected -29, got %.6f", got)
	}
}

func TestDisabledPassesThrough(t *testing.T) {
	z := NewZero(false)
	tests := []struct {
		base, prev float64
	}{
		{0, 0},
		{1, 0},
		{-3.5, 12},
	}
	for _, tt := range tests {
		if got := z.Output(tt.base, tt.prev, 1.0/60); got != tt.base {
			t.Errorf("Output(%v, %v) = %v, want passthrough", tt.base, tt.prev, got)
		}
	}
}

func TestReenableNoSpike(t *testing.T) {
	dt := 1.0 / 60
	z := NewZero(false)
	prev := 0.0

	// Ramp up while disabled, keeping prev current.
	for i := 1; i <= 30; i++ {
		b := 1.0
		_ = z.Output(b, prev, dt)
		prev = b
	}

	z.Enabled = true
	if got := z.Output(1.0, prev, dt); got != 1.0 {
		t.Errorf("expected no derivative spike after re-enable, got %v", got)
	}
}
