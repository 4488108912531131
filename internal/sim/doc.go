// Package sim ties the plant, the NMP filter, the vehicle and the stop
// detector into one tick.
//
// A [Session] is the simulation context: it owns every piece of mutable
// state and is advanced one fixed step per frame with [Session.Tick]. The
// physics itself is the pure [Physics.Advance]; the session adds history,
// scoring and the clock around it. Renderers read a [Snapshot] and never
// touch the session's internals.
//
// dt is fixed (1/60 s by default) and is not measured from the frame
// interval, so simulated time runs slow or fast with the real frame rate.
//
// # Thread Safety
//
// A Session is single-threaded and must not be shared between goroutines.
// Independent sessions may run in parallel.
package sim
