package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/tfdrive/internal/config"
	"github.com/san-kum/tfdrive/internal/control"
	"github.com/san-kum/tfdrive/internal/dynamo"
	"github.com/san-kum/tfdrive/internal/integrators"
	"github.com/san-kum/tfdrive/internal/metrics"
	"github.com/san-kum/tfdrive/internal/sim"
)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
	drivers     map[string]func(cfg *config.Config) sim.Driver
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
		drivers:     make(map[string]func(*config.Config) sim.Driver),
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }

	r.drivers["none"] = func(*config.Config) sim.Driver { return control.NewNone() }
	r.drivers["manual"] = func(*config.Config) sim.Driver { return control.NewManual() }
	r.drivers["pid"] = func(cfg *config.Config) sim.Driver {
		p := control.NewPID(cfg.Autopilot.Kp, cfg.Autopilot.Ki, cfg.Autopilot.Kd)
		p.Discrete = cfg.Autopilot.Discrete
		return p
	}

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

// GetDriver builds the driver named by cfg.Driver. Scripted drivers come
// from a scenario instead.
func (r *Registry) GetDriver(cfg *config.Config) (sim.Driver, error) {
	if cfg.Driver == "script" {
		return nil, fmt.Errorf("driver %q needs a scenario", cfg.Driver)
	}
	fn, ok := r.drivers[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unknown driver: %s", cfg.Driver)
	}
	return fn(cfg), nil
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func (r *Registry) ListDrivers() []string {
	return sortedKeys(r.drivers)
}

func (r *Registry) DefaultMetrics(cfg *config.Config) []sim.Metric {
	// plant state beyond ten times the DC response counts as unstable
	return metrics.All(10 * cfg.Vehicle.Sensitivity)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
