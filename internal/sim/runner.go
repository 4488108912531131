package sim

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/tfdrive/internal/dynamo"
	"github.com/san-kum/tfdrive/internal/scoring"
)

// Runner drives a session headlessly for a fixed duration.
type Runner struct {
	session   *Session
	driver    Driver
	metrics   []Metric
	observers []Observer
	logger    *zap.Logger
}

func NewRunner(s *Session, d Driver) *Runner {
	return &Runner{
		session:   s,
		driver:    d,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    s.logger,
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run ticks the session round(duration/dt) times. The session is not reset
// first. On cancellation the partial result is returned with ctx.Err().
func (r *Runner) Run(ctx context.Context, duration float64) (*Result, error) {
	if err := r.validate(duration); err != nil {
		return nil, err
	}

	dt := r.session.Dt()
	steps := int(math.Round(duration / dt))
	result := &Result{
		Times:    make([]float64, 0, steps),
		Inputs:   make([]float64, 0, steps),
		Base:     make([]float64, 0, steps),
		Accel:    make([]float64, 0, steps),
		Velocity: make([]float64, 0, steps),
		Position: make([]float64, 0, steps),
		Scores:   make([]scoring.Record, 0),
		Metrics:  make(map[string]float64),
		Errors:   make([]error, 0),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	r.logger.Debug("run started",
		zap.Float64("duration", duration),
		zap.Int("steps", steps),
		zap.Stringer("mode", r.session.Mode().Kind()),
	)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			r.collect(result)
			r.logger.Warn("run canceled", zap.Int("step", i))
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		u := r.driver.Input(r.session.Snapshot())
		snap, err := r.session.Tick(u)
		if err != nil {
			r.collect(result)
			return result, err
		}

		if !validSnapshot(snap) {
			result.Errors = append(result.Errors, dynamo.SimError{
				Time:    snap.Time,
				Step:    i,
				Message: "invalid state (NaN/Inf)",
			})
			break
		}

		for _, m := range r.metrics {
			m.Observe(snap)
		}
		for _, obs := range r.observers {
			obs.OnTick(snap)
		}

		result.StepsTaken++
		result.Times = append(result.Times, snap.Time)
		result.Inputs = append(result.Inputs, snap.Input)
		result.Base = append(result.Base, snap.BaseOutput)
		result.Accel = append(result.Accel, snap.Acceleration)
		result.Velocity = append(result.Velocity, snap.Vehicle.Velocity)
		result.Position = append(result.Position, snap.Vehicle.Position)
		if snap.Scored != nil {
			result.Scores = append(result.Scores, *snap.Scored)
		}
	}

	r.collect(result)
	r.logger.Debug("run finished",
		zap.Int("steps", result.StepsTaken),
		zap.Int("scores", len(result.Scores)),
	)
	return result, nil
}

func (r *Runner) collect(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (r *Runner) validate(duration float64) error {
	if r.driver == nil {
		return fmt.Errorf("runner: driver is required")
	}
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return fmt.Errorf("duration must be positive, got %f", duration)
	}
	return nil
}

func validSnapshot(s Snapshot) bool {
	x := dynamo.State{s.Plant[0], s.Plant[1], s.Vehicle.Velocity, s.Vehicle.Position}
	return x.IsValid()
}
