// Package control provides the input sources that drive a session.
//
// Every driver implements [sim.Driver] and is polled once per tick with
// the snapshot from before the tick:
//
//   - [None]: no input
//   - [Manual]: a held key, as reported by a terminal
//   - [Script]: timed input segments
//   - [PID]: an autopilot that steers toward the scoring target
//
// Inputs are three-way (brake, none, accelerate) unless a driver is told
// otherwise.
package control
