// Package scoring detects when the vehicle starts moving from rest and when
// it comes to a stop again, and scores the stop against a target.
package scoring

import (
	"math"

	"github.com/san-kum/tfdrive/internal/track"
)

const (
	DefaultThreshold = 0.05
	DefaultGrace     = 1.0
	DefaultLogSize   = 3

	// graceTolerance lets 60 ticks of 1/60 s count as a full second.
	graceTolerance = 1e-9
)

type Phase int

const (
	Idle Phase = iota
	Timing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Timing:
		return "timing"
	default:
		return "unknown"
	}
}

// Record is one scored stop.
type Record struct {
	Elapsed       float64 `json:"elapsed_s" yaml:"elapsed_s"`
	PositionError float64 `json:"position_error" yaml:"position_error"`
}

// Detector is the Idle/Timing state machine. Input flicker around the
// threshold is not debounced.
type Detector struct {
	Threshold float64
	Grace     float64
	Target    float64
	Track     track.Geometry

	phase     Phase
	start     float64
	stopTimer float64
	moved     bool
	last      *Record
}

func NewDetector(target float64, g track.Geometry) *Detector {
	return &Detector{
		Threshold: DefaultThreshold,
		Grace:     DefaultGrace,
		Target:    target,
		Track:     g,
	}
}

// Observe feeds one tick: the input applied, the vehicle state after the
// tick, the clock reading in seconds and the tick length. It returns a
// record when a stop is confirmed.
func (d *Detector) Observe(input, velocity, position, now, dt float64) (Record, bool) {
	still := math.Abs(velocity) < d.Threshold

	switch d.phase {
	case Idle:
		if input != 0 && still {
			d.phase = Timing
			d.start = now
			d.stopTimer = 0
			d.moved = false
			d.last = nil
		}
		return Record{}, false

	case Timing:
		if still {
			d.stopTimer += dt
		} else {
			d.stopTimer = 0
			d.moved = true
		}
		if d.stopTimer < d.Grace-graceTolerance {
			return Record{}, false
		}

		moved := d.moved
		d.phase = Idle
		d.stopTimer = 0
		d.moved = false
		if !moved {
			return Record{}, false
		}
		rec := Record{
			Elapsed:       now - d.start,
			PositionError: track.Distance(d.Track, position, d.Target),
		}
		d.last = &rec
		return rec, true
	}
	return Record{}, false
}

func (d *Detector) Phase() Phase       { return d.phase }
func (d *Detector) StopTimer() float64 { return d.stopTimer }
func (d *Detector) StartTime() float64 { return d.start }

// Last is the most recent record, cleared when a new run starts.
func (d *Detector) Last() (Record, bool) {
	if d.last == nil {
		return Record{}, false
	}
	return *d.last, true
}

func (d *Detector) Reset() {
	d.phase = Idle
	d.start = 0
	d.stopTimer = 0
	d.moved = false
	d.last = nil
}
