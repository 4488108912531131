package sim

import (
	"github.com/san-kum/tfdrive/internal/plant"
	"github.com/san-kum/tfdrive/internal/scoring"
	"github.com/san-kum/tfdrive/internal/track"
	"github.com/san-kum/tfdrive/internal/vehicle"
)

// DefaultDt is the assumed frame interval.
const DefaultDt = 1.0 / 60

// Snapshot is the read-only projection handed to renderers, drivers,
// metrics and observers.
type Snapshot struct {
	Tick         int
	Time         float64
	Input        float64
	Mode         plant.Kind
	Params       plant.Params
	Plant        [2]float64
	BaseOutput   float64
	Acceleration float64
	Vehicle      vehicle.State
	Point        track.Point
	Target       float64
	TrackLength  float64
	Closed       bool
	NMP          bool
	Phase        scoring.Phase
	StopTimer    float64
	// Scored is set only on the tick a stop was confirmed.
	Scored *scoring.Record
}

// Driver supplies the control input for the next tick.
type Driver interface {
	Input(s Snapshot) float64
}

type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(s Snapshot)
}

type Result struct {
	Times      []float64
	Inputs     []float64
	Base       []float64
	Accel      []float64
	Velocity   []float64
	Position   []float64
	Scores     []scoring.Record
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}
