package sim

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/tfdrive/internal/dynamo"
	"github.com/san-kum/tfdrive/internal/history"
	"github.com/san-kum/tfdrive/internal/plant"
	"github.com/san-kum/tfdrive/internal/scoring"
)

// DefaultWindowTaus is how many time constants the transient window spans.
const DefaultWindowTaus = 5.0

// Settings are the construction-time inputs of a Session.
type Settings struct {
	Physics     Physics
	Mode        plant.Mode
	Start       float64
	Target      float64
	Threshold   float64
	Grace       float64
	LogSize     int
	HistorySize int
	WindowTaus  float64
}

type Option func(*Session)

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(c Clock) Option {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

// Session is the simulation context. Everything that changes between ticks
// lives here.
type Session struct {
	physics    Physics
	mode       plant.Mode
	params     plant.Params
	start      float64
	windowTaus float64

	frame    Frame
	tick     int
	input    float64
	scored   *scoring.Record
	detector *scoring.Detector
	scores   *scoring.Log
	velocity *history.Ring
	clock    Clock
	logger   *zap.Logger
}

func NewSession(cfg Settings, opts ...Option) (*Session, error) {
	if cfg.Physics.Dt <= 0 {
		return nil, fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrInvalidParameter, cfg.Physics.Dt)
	}
	if cfg.Physics.Integrator == nil {
		return nil, fmt.Errorf("session: integrator is required")
	}
	if cfg.Physics.Vehicle.Track == nil {
		return nil, fmt.Errorf("session: track is required")
	}
	if cfg.Mode == nil {
		return nil, fmt.Errorf("%w: no plant mode", dynamo.ErrUnknownMode)
	}
	params, err := plant.Map(cfg.Mode)
	if err != nil {
		return nil, err
	}

	det := scoring.NewDetector(cfg.Target, cfg.Physics.Vehicle.Track)
	if cfg.Threshold > 0 {
		det.Threshold = cfg.Threshold
	}
	if cfg.Grace > 0 {
		det.Grace = cfg.Grace
	}
	windowTaus := cfg.WindowTaus
	if windowTaus <= 0 {
		windowTaus = DefaultWindowTaus
	}

	s := &Session{
		physics:    cfg.Physics,
		mode:       cfg.Mode,
		params:     params,
		start:      cfg.Start,
		windowTaus: windowTaus,
		detector:   det,
		scores:     scoring.NewLog(cfg.LogSize),
		velocity:   history.NewRing(cfg.HistorySize),
		clock:      &TickClock{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.frame = s.physics.Rest(s.start)
	return s, nil
}

// Tick advances the simulation by one step under input u. When the current
// mode cannot be mapped the error is returned and nothing changes.
func (s *Session) Tick(u float64) (Snapshot, error) {
	params, err := plant.Map(s.mode)
	if err != nil {
		return s.Snapshot(), err
	}

	s.params = params
	s.frame = s.physics.Advance(s.frame, params, u)
	s.tick++
	s.input = u
	s.clock.Advance(s.physics.Dt)
	s.velocity.Push(s.frame.Vehicle.Velocity)

	s.scored = nil
	rec, ok := s.detector.Observe(u, s.frame.Vehicle.Velocity, s.frame.Vehicle.Position, s.clock.Now(), s.physics.Dt)
	if ok {
		s.scores.Push(rec)
		s.scored = &rec
		s.logger.Info("stop scored",
			zap.Int("tick", s.tick),
			zap.Float64("elapsed_s", rec.Elapsed),
			zap.Float64("position_error", rec.PositionError),
		)
	}
	return s.Snapshot(), nil
}

// Reset returns every piece of state to rest: plant, vehicle, filter
// memory, detector, score log, history and clock.
func (s *Session) Reset() {
	s.frame = s.physics.Rest(s.start)
	s.tick = 0
	s.input = 0
	s.scored = nil
	s.detector.Reset()
	s.scores.Reset()
	s.velocity.Reset()
	s.clock.Reset()
	s.logger.Debug("session reset", zap.Stringer("mode", s.mode.Kind()))
}

// SetMode switches the plant. The new mode is rejected if it does not map.
// Plant state is kept, so the switch shows up as a transient.
func (s *Session) SetMode(m plant.Mode) error {
	if m == nil {
		return fmt.Errorf("%w: no plant mode", dynamo.ErrUnknownMode)
	}
	params, err := plant.Map(m)
	if err != nil {
		return err
	}
	s.mode = m
	s.params = params
	s.logger.Debug("mode changed", zap.Stringer("mode", m.Kind()))
	return nil
}

func (s *Session) SetNMP(enabled bool) {
	s.physics.Filter.Enabled = enabled
}

func (s *Session) SetSensitivity(v float64) {
	s.physics.Vehicle.Sensitivity = v
}

func (s *Session) Mode() plant.Mode     { return s.mode }
func (s *Session) Params() plant.Params { return s.params }
func (s *Session) NMP() bool            { return s.physics.Filter.Enabled }
func (s *Session) Physics() Physics     { return s.physics }
func (s *Session) Dt() float64          { return s.physics.Dt }
func (s *Session) Target() float64      { return s.detector.Target }

// Scores returns the score log, newest first.
func (s *Session) Scores() []scoring.Record { return s.scores.Records() }

// Last is the most recent record of the current run.
func (s *Session) Last() (scoring.Record, bool) { return s.detector.Last() }

// History is the velocity history, oldest first.
func (s *Session) History() []float64 { return s.velocity.Slice() }

// Window is the tail of the history covering WindowTaus time constants.
func (s *Session) Window() []float64 {
	n := s.params.WindowSamples(s.windowTaus, s.physics.Dt)
	if n <= 0 {
		return nil
	}
	return s.velocity.Last(n)
}

func (s *Session) Snapshot() Snapshot {
	g := s.physics.Vehicle.Track
	snap := Snapshot{
		Tick:         s.tick,
		Time:         s.frame.Time,
		Input:        s.input,
		Mode:         s.mode.Kind(),
		Params:       s.params,
		BaseOutput:   s.frame.Base,
		Acceleration: s.frame.Accel,
		Vehicle:      s.frame.Vehicle,
		Point:        g.At(s.frame.Vehicle.Position),
		Target:       s.detector.Target,
		TrackLength:  g.Length(),
		Closed:       g.Closed(),
		NMP:          s.physics.Filter.Enabled,
		Phase:        s.detector.Phase(),
		StopTimer:    s.detector.StopTimer(),
	}
	if len(s.frame.Plant) == 2 {
		snap.Plant = [2]float64{s.frame.Plant[0], s.frame.Plant[1]}
	}
	if s.scored != nil {
		rec := *s.scored
		snap.Scored = &rec
	}
	return snap
}
