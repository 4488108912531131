package config

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/tfdrive/internal/plant"
	"github.com/san-kum/tfdrive/internal/track"
)

const (
	DefaultDt          = 1.0 / 60
	DefaultDuration    = 30.0
	DefaultTau         = 1.0
	DefaultOvershoot   = 10.0
	DefaultSettling    = 2.0
	DefaultSensitivity = 20.0
	DefaultFriction    = 0.99
	DefaultStart       = 50.0
	DefaultTarget      = 400.0
	DefaultKp          = 0.002
	DefaultKd          = 0.1
)

var (
	Integrators = []string{"euler", "rk4"}
	Drivers     = []string{"none", "manual", "script", "pid"}
	Tracks      = []string{"loop", "line"}
	Clocks      = []string{"tick", "wall"}
)

type Config struct {
	Mode        plant.Kind        `yaml:"mode"`
	Integrator  string            `yaml:"integrator"`
	Driver      string            `yaml:"driver"`
	Dt          float64           `yaml:"dt"`
	Duration    float64           `yaml:"duration"`
	Clock       string            `yaml:"clock"`
	FirstOrder  FirstOrderConfig  `yaml:"first_order"`
	SecondOrder SecondOrderConfig `yaml:"second_order"`
	PoleZero    PoleZeroConfig    `yaml:"pole_zero"`
	NMP         NMPConfig         `yaml:"nmp"`
	Vehicle     VehicleConfig     `yaml:"vehicle"`
	Track       TrackConfig       `yaml:"track"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	History     HistoryConfig     `yaml:"history"`
	Autopilot   AutopilotConfig   `yaml:"autopilot"`
	Log         LogConfig         `yaml:"log"`
}

type FirstOrderConfig struct {
	Tau float64 `yaml:"tau"`
}

type SecondOrderConfig struct {
	Overshoot    float64 `yaml:"overshoot"`
	SettlingTime float64 `yaml:"settling_time"`
}

type PoleZeroConfig struct {
	Zero float64 `yaml:"zero"`
	Pole float64 `yaml:"pole"`
}

type NMPConfig struct {
	Enabled bool    `yaml:"enabled"`
	Zero    float64 `yaml:"zero"`
}

type VehicleConfig struct {
	Sensitivity float64 `yaml:"sensitivity"`
	Friction    float64 `yaml:"friction"`
	StepScale   float64 `yaml:"step_scale"`
	Start       float64 `yaml:"start"`
}

type TrackConfig struct {
	Kind   string  `yaml:"kind"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Radius float64 `yaml:"radius"`
	Extent float64 `yaml:"extent"`
}

type ScoringConfig struct {
	Target        float64 `yaml:"target"`
	StopThreshold float64 `yaml:"stop_threshold"`
	Grace         float64 `yaml:"grace"`
	LogSize       int     `yaml:"log_size"`
}

type HistoryConfig struct {
	Capacity   int     `yaml:"capacity"`
	WindowTaus float64 `yaml:"window_taus"`
}

type AutopilotConfig struct {
	Kp       float64 `yaml:"kp"`
	Ki       float64 `yaml:"ki"`
	Kd       float64 `yaml:"kd"`
	Discrete bool    `yaml:"discrete"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Output string `yaml:"output"`
}

func DefaultConfig() *Config {
	loop := track.DefaultLoop()
	return &Config{
		Mode:        plant.KindSecondOrder,
		Integrator:  "euler",
		Driver:      "manual",
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		Clock:       "tick",
		FirstOrder:  FirstOrderConfig{Tau: DefaultTau},
		SecondOrder: SecondOrderConfig{Overshoot: DefaultOvershoot, SettlingTime: DefaultSettling},
		PoleZero:    PoleZeroConfig{Zero: 2, Pole: 1},
		NMP:         NMPConfig{Zero: 2},
		Vehicle: VehicleConfig{
			Sensitivity: DefaultSensitivity,
			Friction:    DefaultFriction,
			StepScale:   1,
			Start:       DefaultStart,
		},
		Track: TrackConfig{
			Kind:   "loop",
			X:      loop.X,
			Y:      loop.Y,
			Width:  loop.Width,
			Height: loop.Height,
			Radius: loop.Radius,
			Extent: track.DefaultLine().Extent,
		},
		Scoring: ScoringConfig{
			Target:        DefaultTarget,
			StopThreshold: 0.05,
			Grace:         1.0,
			LogSize:       3,
		},
		History:   HistoryConfig{Capacity: 600, WindowTaus: 5},
		Autopilot: AutopilotConfig{Kp: DefaultKp, Kd: DefaultKd},
		Log:       LogConfig{Level: "info", Output: "stderr"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// PlantMode returns the plant mode selected by Mode.
func (c *Config) PlantMode() plant.Mode {
	switch c.Mode {
	case plant.KindFirstOrder:
		return plant.FirstOrder{Tau: c.FirstOrder.Tau}
	case plant.KindPoleZero:
		return plant.PoleZero{Zero: c.PoleZero.Zero, Pole: c.PoleZero.Pole}
	default:
		return plant.SecondOrder{
			PercentOvershoot: c.SecondOrder.Overshoot,
			SettlingTime:     c.SecondOrder.SettlingTime,
		}
	}
}

// SetPlantMode stores m and selects its kind.
func (c *Config) SetPlantMode(m plant.Mode) {
	c.Mode = m.Kind()
	switch v := m.(type) {
	case plant.FirstOrder:
		c.FirstOrder.Tau = v.Tau
	case plant.SecondOrder:
		c.SecondOrder.Overshoot = v.PercentOvershoot
		c.SecondOrder.SettlingTime = v.SettlingTime
	case plant.PoleZero:
		c.PoleZero.Zero = v.Zero
		c.PoleZero.Pole = v.Pole
	}
}

func (c *Config) Geometry() (track.Geometry, error) {
	switch c.Track.Kind {
	case "loop", "":
		l := track.Loop{
			X:      c.Track.X,
			Y:      c.Track.Y,
			Width:  c.Track.Width,
			Height: c.Track.Height,
			Radius: c.Track.Radius,
		}
		if err := l.Validate(); err != nil {
			return nil, err
		}
		return l, nil
	case "line":
		if c.Track.Extent <= 0 {
			return nil, fmt.Errorf("track: line extent must be positive, got %g", c.Track.Extent)
		}
		return track.Line{X: c.Track.X, Y: c.Track.Y, Extent: c.Track.Extent}, nil
	default:
		return nil, fmt.Errorf("unknown track %q (available: %v)", c.Track.Kind, Tracks)
	}
}

// Validate reports every problem with the config at once.
func (c *Config) Validate() error {
	var err error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf(format, args...))
		}
	}

	check(c.Dt > 0, "dt must be positive, got %g", c.Dt)
	check(c.Duration > 0, "duration must be positive, got %g", c.Duration)
	check(lo.Contains(Integrators, c.Integrator), "unknown integrator %q (available: %v)", c.Integrator, Integrators)
	check(lo.Contains(Drivers, c.Driver), "unknown driver %q (available: %v)", c.Driver, Drivers)
	check(lo.Contains(Clocks, c.Clock), "unknown clock %q (available: %v)", c.Clock, Clocks)

	if _, mapErr := plant.Map(c.PlantMode()); mapErr != nil {
		err = multierr.Append(err, mapErr)
	}
	if g, geoErr := c.Geometry(); geoErr != nil {
		err = multierr.Append(err, geoErr)
	} else if g.Closed() {
		check(c.Scoring.Target >= 0 && c.Scoring.Target < g.Length(),
			"target must be in [0, %g) on a closed track, got %g", g.Length(), c.Scoring.Target)
	}

	check(c.NMP.Zero > 0, "nmp zero must be positive, got %g", c.NMP.Zero)
	check(c.Vehicle.Sensitivity > 0, "sensitivity must be positive, got %g", c.Vehicle.Sensitivity)
	check(c.Vehicle.Friction > 0 && c.Vehicle.Friction < 1, "friction must be in (0, 1), got %g", c.Vehicle.Friction)
	check(c.Vehicle.StepScale > 0, "step_scale must be positive, got %g", c.Vehicle.StepScale)
	check(c.Scoring.StopThreshold > 0, "stop_threshold must be positive, got %g", c.Scoring.StopThreshold)
	check(c.Scoring.Grace > 0, "grace must be positive, got %g", c.Scoring.Grace)
	check(c.Scoring.LogSize > 0, "log_size must be positive, got %d", c.Scoring.LogSize)
	check(c.History.Capacity > 0, "history capacity must be positive, got %d", c.History.Capacity)
	check(c.History.WindowTaus > 0, "window_taus must be positive, got %g", c.History.WindowTaus)

	if _, lvlErr := zapcore.ParseLevel(c.Log.Level); lvlErr != nil {
		err = multierr.Append(err, lvlErr)
	}
	return err
}

// Tunables lists the names accepted by SetParam.
var Tunables = []string{
	"tau", "overshoot", "settling_time", "zero", "pole", "nmp_zero",
	"sensitivity", "friction", "step_scale", "start", "target",
	"kp", "ki", "kd",
}

// SetParam sets one tunable value by name.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "tau":
		c.FirstOrder.Tau = v
	case "overshoot":
		c.SecondOrder.Overshoot = v
	case "settling_time":
		c.SecondOrder.SettlingTime = v
	case "zero":
		c.PoleZero.Zero = v
	case "pole":
		c.PoleZero.Pole = v
	case "nmp_zero":
		c.NMP.Zero = v
	case "sensitivity":
		c.Vehicle.Sensitivity = v
	case "friction":
		c.Vehicle.Friction = v
	case "step_scale":
		c.Vehicle.StepScale = v
	case "start":
		c.Vehicle.Start = v
	case "target":
		c.Scoring.Target = v
	case "kp":
		c.Autopilot.Kp = v
	case "ki":
		c.Autopilot.Ki = v
	case "kd":
		c.Autopilot.Kd = v
	default:
		return fmt.Errorf("unknown parameter %q (available: %v)", name, Tunables)
	}
	return nil
}

// Param reads one tunable value by name.
func (c *Config) Param(name string) (float64, error) {
	switch name {
	case "tau":
		return c.FirstOrder.Tau, nil
	case "overshoot":
		return c.SecondOrder.Overshoot, nil
	case "settling_time":
		return c.SecondOrder.SettlingTime, nil
	case "zero":
		return c.PoleZero.Zero, nil
	case "pole":
		return c.PoleZero.Pole, nil
	case "nmp_zero":
		return c.NMP.Zero, nil
	case "sensitivity":
		return c.Vehicle.Sensitivity, nil
	case "friction":
		return c.Vehicle.Friction, nil
	case "step_scale":
		return c.Vehicle.StepScale, nil
	case "start":
		return c.Vehicle.Start, nil
	case "target":
		return c.Scoring.Target, nil
	case "kp":
		return c.Autopilot.Kp, nil
	case "ki":
		return c.Autopilot.Ki, nil
	case "kd":
		return c.Autopilot.Kd, nil
	default:
		return 0, fmt.Errorf("unknown parameter %q (available: %v)", name, Tunables)
	}
}
