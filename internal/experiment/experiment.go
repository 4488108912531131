package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/tfdrive/internal/config"
	"github.com/san-kum/tfdrive/internal/filter"
	"github.com/san-kum/tfdrive/internal/sim"
	"github.com/san-kum/tfdrive/internal/vehicle"
)

// NewSession builds a session from a validated config.
func NewSession(cfg *config.Config, reg *Registry, opts ...sim.Option) (*sim.Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	geo, err := cfg.Geometry()
	if err != nil {
		return nil, err
	}

	settings := sim.Settings{
		Physics: sim.Physics{
			Integrator: integ,
			Filter:     filter.Zero{Location: cfg.NMP.Zero, Enabled: cfg.NMP.Enabled},
			Vehicle: vehicle.Model{
				Sensitivity: cfg.Vehicle.Sensitivity,
				Friction:    cfg.Vehicle.Friction,
				StepScale:   cfg.Vehicle.StepScale,
				Track:       geo,
			},
			Dt: cfg.Dt,
		},
		Mode:        cfg.PlantMode(),
		Start:       cfg.Vehicle.Start,
		Target:      cfg.Scoring.Target,
		Threshold:   cfg.Scoring.StopThreshold,
		Grace:       cfg.Scoring.Grace,
		LogSize:     cfg.Scoring.LogSize,
		HistorySize: cfg.History.Capacity,
		WindowTaus:  cfg.History.WindowTaus,
	}

	if cfg.Clock == "wall" {
		opts = append([]sim.Option{sim.WithClock(sim.NewWallClock())}, opts...)
	}
	return sim.NewSession(settings, opts...)
}

type Option func(*Experiment)

func WithDriver(d sim.Driver) Option {
	return func(e *Experiment) { e.driver = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

// Experiment is one headless run of a config.
type Experiment struct {
	cfg     *config.Config
	reg     *Registry
	driver  sim.Driver
	logger  *zap.Logger
	session *sim.Session
	runner  *sim.Runner
}

func New(cfg *config.Config, reg *Registry, opts ...Option) *Experiment {
	e := &Experiment{cfg: cfg, reg: reg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Setup builds the session and runner and attaches the default metrics
// plus any extra ones.
func (e *Experiment) Setup(extra ...sim.Metric) error {
	s, err := NewSession(e.cfg, e.reg, sim.WithLogger(e.logger))
	if err != nil {
		return err
	}
	if e.driver == nil {
		if e.driver, err = e.reg.GetDriver(e.cfg); err != nil {
			return err
		}
	}

	e.session = s
	e.runner = sim.NewRunner(s, e.driver)
	for _, m := range e.reg.DefaultMetrics(e.cfg) {
		e.runner.AddMetric(m)
	}
	for _, m := range extra {
		e.runner.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.runner == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.runner.Run(ctx, e.cfg.Duration)
}

// Session returns the underlying session for inspection after a run.
func (e *Experiment) Session() *sim.Session {
	return e.session
}

// Runner returns the runner for adding observers.
func (e *Experiment) Runner() *sim.Runner {
	return e.runner
}
