// Package viz is the terminal front end for a driving session.
//
// It is a thin collaborator: once per frame it polls the held key or the
// autopilot, calls [sim.Session.Tick] and draws the returned snapshot.
//
//   - [App]: preset picker leading into the drive screen
//   - [Model]: the drive screen
//   - [LiveRenderer]: redraws a headless run as it goes
//   - [Canvas]: Braille-based pixel canvas for the track
//
// # Key Bindings
//
//	Left/Right - Brake/Accelerate (held)
//	M          - Cycle plant mode
//	N          - Toggle the NMP zero
//	Tab, Up/Dn - Select and tune a parameter
//	P          - Toggle the autopilot
//	Space      - Pause/Resume
//	R          - Reset
//	T          - Cycle color themes
//	?          - Show help overlay
//	Esc        - Back to the preset picker
package viz
