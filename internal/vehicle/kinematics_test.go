package vehicle

import (
	"math"
	"testing"

	"github.com/san-kum/tfdrive/internal/track"
)

const dt = 1.0 / 60

func TestStepFrictionWithoutInput(t *testing.T) {
	m := DefaultModel()
	s := State{Velocity: 10, Position: 100}

	next := m.Step(s, 0, dt)

	if math.Abs(next.Velocity-9.9) > 1e-12 {
		t.Errorf("expected velocity 9.9, got %v", next.Velocity)
	}
	if math.Abs(next.Position-109.9) > 1e-12 {
		t.Errorf("expected position 109.9, got %v", next.Position)
	}
}

func TestStepAcceleration(t *testing.T) {
	m := Model{Sensitivity: 50, Friction: 0.98, StepScale: 1, Track: track.DefaultLine()}
	next := m.Step(State{}, 1, dt)

	want := 1 * dt * 50 * 0.98
	if math.Abs(next.Velocity-want) > 1e-12 {
		t.Errorf("velocity = %v, want %v", next.Velocity, want)
	}
	if math.Abs(next.Position-want) > 1e-12 {
		t.Errorf("position = %v, want %v", next.Position, want)
	}
}

func TestStepWrapsOnLoop(t *testing.T) {
	m := DefaultModel()
	n := m.Track.Length()

	tests := []struct {
		name     string
		position float64
		velocity float64
		want     float64
	}{
		{"forward past end", n - 1, 6 / 0.99, 5},
		{"backward past start", 2, -5 / 0.99, n - 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := m.Step(State{Position: tt.position, Velocity: tt.velocity}, 0, dt)
			if math.Abs(next.Position-tt.want) > 1e-9 {
				t.Errorf("position = %v, want %v", next.Position, tt.want)
			}
			if next.Position < 0 || next.Position >= n {
				t.Errorf("position %v outside [0, %v)", next.Position, n)
			}
		})
	}
}

func TestStepOpenTrackDoesNotClamp(t *testing.T) {
	m := Model{Sensitivity: 20, Friction: 0.99, StepScale: 1, Track: track.DefaultLine()}
	next := m.Step(State{Position: -2, Velocity: -10}, 0, dt)
	if next.Position >= -2 {
		t.Errorf("expected position to keep decreasing, got %v", next.Position)
	}
}

func TestVelocityBounded(t *testing.T) {
	m := DefaultModel()
	s := m.Start(0)
	for i := 0; i < 20000; i++ {
		s = m.Step(s, 1, dt)
	}
	want := m.TerminalVelocity(1, dt)
	if math.Abs(s.Velocity-want) > 1e-6 {
		t.Errorf("velocity %v did not converge to %v", s.Velocity, want)
	}
}

func TestAngleFollowsTrack(t *testing.T) {
	m := DefaultModel()
	s := m.Start(m.Track.Length() / 2)
	if math.Abs(s.Angle-math.Pi) > 1e-9 {
		t.Errorf("expected heading pi on the bottom straight, got %v", s.Angle)
	}
}
