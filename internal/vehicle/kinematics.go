// Package vehicle turns the plant's acceleration-like output into velocity
// and position along a track.
package vehicle

import "github.com/san-kum/tfdrive/internal/track"

// State is the physical vehicle state. Angle is derived from the track each
// step and never feeds back into the dynamics.
type State struct {
	Velocity float64
	Position float64
	Angle    float64
}

// Model holds the feel constants. They are display tuning, not physical
// quantities.
type Model struct {
	// Sensitivity scales acceleration into velocity change per tick.
	Sensitivity float64
	// Friction multiplies velocity every tick, input or not. Must be in (0,1).
	Friction float64
	// StepScale converts velocity into position change per tick.
	StepScale float64
	Track     track.Geometry
}

func DefaultModel() Model {
	return Model{
		Sensitivity: 20,
		Friction:    0.99,
		StepScale:   1,
		Track:       track.DefaultLoop(),
	}
}

// Start returns the rest state at arc-length position pos.
func (m Model) Start(pos float64) State {
	s := State{Position: m.Track.Wrap(pos)}
	s.Angle = m.Track.At(s.Position).Angle
	return s
}

// Step advances the vehicle one tick.
func (m Model) Step(s State, accel, dt float64) State {
	v := (s.Velocity + accel*dt*m.Sensitivity) * m.Friction
	pos := m.Track.Wrap(s.Position + v*m.StepScale)
	return State{
		Velocity: v,
		Position: pos,
		Angle:    m.Track.At(pos).Angle,
	}
}

// TerminalVelocity is the steady velocity under constant acceleration a.
func (m Model) TerminalVelocity(accel, dt float64) float64 {
	if m.Friction >= 1 {
		return 0
	}
	return m.Friction * accel * dt * m.Sensitivity / (1 - m.Friction)
}
