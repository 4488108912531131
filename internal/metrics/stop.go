package metrics

import (
	"math"

	"github.com/san-kum/tfdrive/internal/sim"
)

// StopError averages the position error of every stop scored during the
// run. With no stop it is +Inf, so a search never prefers a run that
// never stops.
type StopError struct {
	sum   float64
	count int
}

func NewStopError() *StopError {
	return &StopError{}
}

func (e *StopError) Name() string { return "stop_error" }

func (e *StopError) Observe(s sim.Snapshot) {
	if s.Scored == nil {
		return
	}
	e.sum += s.Scored.PositionError
	e.count++
}

func (e *StopError) Value() float64 {
	if e.count == 0 {
		return math.Inf(1)
	}
	return e.sum / float64(e.count)
}

func (e *StopError) Reset() {
	e.sum = 0
	e.count = 0
}

// StopTime is the elapsed time of the first scored stop, +Inf without one.
type StopTime struct {
	elapsed float64
	seen    bool
}

func NewStopTime() *StopTime {
	return &StopTime{}
}

func (t *StopTime) Name() string { return "stop_time" }

func (t *StopTime) Observe(s sim.Snapshot) {
	if t.seen || s.Scored == nil {
		return
	}
	t.elapsed = s.Scored.Elapsed
	t.seen = true
}

func (t *StopTime) Value() float64 {
	if !t.seen {
		return math.Inf(1)
	}
	return t.elapsed
}

func (t *StopTime) Reset() {
	t.elapsed = 0
	t.seen = false
}

// All returns one of every metric, with stability measured against
// threshold.
func All(threshold float64) []sim.Metric {
	return []sim.Metric{
		NewControlEffort(),
		NewPeakVelocity(),
		NewStability(threshold),
		NewStopError(),
		NewStopTime(),
	}
}
