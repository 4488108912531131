package experiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/tfdrive/internal/config"
	"github.com/san-kum/tfdrive/internal/control"
	"github.com/san-kum/tfdrive/internal/plant"
)

func TestRegistryLists(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"euler", "rk4"}, r.ListIntegrators())
	assert.Equal(t, []string{"manual", "none", "pid"}, r.ListDrivers())

	for _, name := range config.Integrators {
		_, err := r.GetIntegrator(name)
		assert.NoError(t, err, name)
	}
	_, err := r.GetIntegrator("verlet")
	assert.Error(t, err)
}

func TestRegistryDrivers(t *testing.T) {
	r := NewRegistry()
	cfg := config.DefaultConfig()

	cfg.Driver = "pid"
	cfg.Autopilot.Discrete = true
	d, err := r.GetDriver(cfg)
	require.NoError(t, err)
	pid, ok := d.(*control.PID)
	require.True(t, ok)
	assert.True(t, pid.Discrete)
	assert.Equal(t, cfg.Autopilot.Kp, pid.Kp)

	cfg.Driver = "script"
	_, err = r.GetDriver(cfg)
	assert.Error(t, err)

	cfg.Driver = "joystick"
	_, err = r.GetDriver(cfg)
	assert.Error(t, err)
}

func TestNewSessionFromConfig(t *testing.T) {
	cfg := config.GetPreset("line", "pole-zero")
	s, err := NewSession(cfg, NewRegistry())
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, plant.KindPoleZero, snap.Mode)
	assert.False(t, snap.Closed)
	assert.Equal(t, 400.0, snap.Target)
	assert.Equal(t, 50.0, snap.Vehicle.Position)
	assert.Equal(t, 50.0, s.Physics().Vehicle.Sensitivity)
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dt = -1
	_, err := NewSession(cfg, NewRegistry())
	assert.Error(t, err)
}

func TestWallClockConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Clock = "wall"
	s, err := NewSession(cfg, NewRegistry())
	require.NoError(t, err)
	_, err = s.Tick(0)
	assert.NoError(t, err)
}

func TestExperimentRun(t *testing.T) {
	cfg := config.GetPreset("loop", "autopilot")
	cfg.Duration = 40

	exp := New(cfg, NewRegistry())
	_, err := exp.Run(context.Background())
	assert.Error(t, err, "run before setup")

	require.NoError(t, exp.Setup())
	res, err := exp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2400, res.StepsTaken)
	for _, name := range []string{"control_effort", "peak_velocity", "stability", "stop_error", "stop_time"} {
		assert.Contains(t, res.Metrics, name)
	}
	assert.Less(t, res.Metrics["stop_error"], 5.0)
	assert.Equal(t, 1.0, res.Metrics["stability"])
	assert.NotEmpty(t, exp.Session().Scores())
}

func TestExperimentWithDriver(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Duration = 1
	script, err := control.NewScript([]control.Segment{{Input: 1, Duration: 0.5}})
	require.NoError(t, err)

	exp := New(cfg, NewRegistry(), WithDriver(script))
	require.NoError(t, exp.Setup())
	res, err := exp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.Inputs[0])
	assert.Equal(t, 0.0, res.Inputs[59])
	assert.InDelta(t, 0.5, res.Metrics["control_effort"], 1e-9)
}
