package automation

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/tfdrive/internal/config"
	"github.com/san-kum/tfdrive/internal/control"
	"github.com/san-kum/tfdrive/internal/experiment"
	"github.com/san-kum/tfdrive/internal/plant"
	"github.com/san-kum/tfdrive/internal/sim"
)

// settleTime is added after the last scripted segment so the vehicle can
// come to rest and be scored.
const settleTime = 15.0

// Scenario defines a scripted driving sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Preset is "track/name"; the remaining fields
// override it.
type ScenarioStep struct {
	Name       string             `yaml:"name"`
	Preset     string             `yaml:"preset"`
	Mode       string             `yaml:"mode"`
	NMP        *bool              `yaml:"nmp"`
	Integrator string             `yaml:"integrator"`
	Driver     string             `yaml:"driver"`
	Duration   float64            `yaml:"duration"`
	Segments   []control.Segment  `yaml:"segments"`
	Params     map[string]float64 `yaml:"params"`
	Expect     *Expectation       `yaml:"expect"`
}

// Expectation is checked against the finished run.
type Expectation struct {
	MinStops         int     `yaml:"min_stops"`
	MaxPositionError float64 `yaml:"max_position_error"`
}

type StepResult struct {
	Name     string
	Config   *config.Config
	Result   *sim.Result
	Failures []string
}

// Passed reports whether every expectation held.
func (r StepResult) Passed() bool { return len(r.Failures) == 0 }

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Config resolves the step into a full config.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		kind, name, ok := strings.Cut(s.Preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset %q: want track/name", s.Preset)
		}
		if cfg = config.GetPreset(kind, name); cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", s.Preset)
		}
	}

	if s.Mode != "" {
		kind, err := plant.ParseKind(s.Mode)
		if err != nil {
			return nil, err
		}
		cfg.Mode = kind
	}
	if s.NMP != nil {
		cfg.NMP.Enabled = *s.NMP
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Driver != "" {
		cfg.Driver = s.Driver
	}
	if len(s.Segments) > 0 {
		cfg.Driver = "script"
	}
	for name, v := range s.Params {
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	return cfg, nil
}

// RunScenario executes all steps in a scenario. A failed expectation is
// reported in the step result, not as an error.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger *zap.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		logger.Info("running step",
			zap.String("scenario", scenario.Name),
			zap.String("step", name),
			zap.Int("index", i+1),
			zap.Int("total", len(scenario.Steps)),
		)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		var opts []experiment.Option
		opts = append(opts, experiment.WithLogger(logger.With(zap.String("step", name))))
		if len(step.Segments) > 0 {
			script, err := control.NewScript(step.Segments)
			if err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
			opts = append(opts, experiment.WithDriver(script))
			if step.Duration <= 0 {
				cfg.Duration = script.Duration() + settleTime
			}
		}

		exp := experiment.New(cfg, registry, opts...)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: name, Config: cfg, Result: result}
		if step.Expect != nil {
			sr.Failures = step.Expect.check(result)
		}
		for _, f := range sr.Failures {
			logger.Warn("expectation failed", zap.String("step", name), zap.String("reason", f))
		}
		results = append(results, sr)
	}

	return results, nil
}

func (e Expectation) check(r *sim.Result) []string {
	var failures []string
	if len(r.Scores) < e.MinStops {
		failures = append(failures, fmt.Sprintf("scored %d stops, want at least %d", len(r.Scores), e.MinStops))
	}
	if e.MaxPositionError > 0 {
		for i, rec := range r.Scores {
			if rec.PositionError > e.MaxPositionError {
				failures = append(failures, fmt.Sprintf("stop %d missed target by %.2f, limit %.2f", i+1, rec.PositionError, e.MaxPositionError))
			}
		}
	}
	return failures
}
