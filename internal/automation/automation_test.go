package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/tfdrive/internal/control"
	"github.com/san-kum/tfdrive/internal/experiment"
	"github.com/san-kum/tfdrive/internal/plant"
)

const sample = `
name: lesson
description: accelerate, coast, then let the autopilot park
steps:
  - name: tap
    preset: loop/second-order
    segments:
      - {input: 1, duration: 0.5}
      - {input: 0, duration: 1}
    expect:
      min_stops: 1
  - name: park
    preset: loop/autopilot
    duration: 40
    expect:
      min_stops: 1
      max_position_error: 5
  - name: nmp
    mode: first-order
    nmp: true
    params:
      tau: 0.5
    duration: 2
`

func TestParseScenario(t *testing.T) {
	s, err := ParseScenario([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, "lesson", s.Name)
	require.Len(t, s.Steps, 3)
	assert.Len(t, s.Steps[0].Segments, 2)
	assert.Equal(t, 5.0, s.Steps[1].Expect.MaxPositionError)

	_, err = ParseScenario([]byte("name: empty\n"))
	assert.Error(t, err)
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lesson.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))
	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Len(t, s.Steps, 3)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestStepConfig(t *testing.T) {
	s, err := ParseScenario([]byte(sample))
	require.NoError(t, err)

	cfg, err := s.Steps[0].Config()
	require.NoError(t, err)
	assert.Equal(t, "script", cfg.Driver)

	cfg, err = s.Steps[2].Config()
	require.NoError(t, err)
	assert.Equal(t, plant.FirstOrder{Tau: 0.5}, cfg.PlantMode())
	assert.True(t, cfg.NMP.Enabled)
	assert.Equal(t, 2.0, cfg.Duration)

	bad := []ScenarioStep{
		{Preset: "loop"},
		{Preset: "loop/missing"},
		{Mode: "third"},
		{Params: map[string]float64{"mass": 1}},
	}
	for _, step := range bad {
		_, err := step.Config()
		assert.Error(t, err, "%+v", step)
	}
}

func TestRunScenario(t *testing.T) {
	s, err := ParseScenario([]byte(sample))
	require.NoError(t, err)

	results, err := RunScenario(context.Background(), s, experiment.NewRegistry(), nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	tap := results[0]
	assert.Equal(t, "tap", tap.Name)
	assert.True(t, tap.Passed(), "%v", tap.Failures)
	// 1.5 s of script plus the settle time
	assert.Equal(t, 990, tap.Result.StepsTaken)

	assert.True(t, results[1].Passed(), "%v", results[1].Failures)
	assert.Empty(t, results[2].Result.Scores)
}

func TestExpectationFailures(t *testing.T) {
	s := &Scenario{Name: "strict", Steps: []ScenarioStep{{
		Name:     "idle",
		Driver:   "none",
		Duration: 1,
		Expect:   &Expectation{MinStops: 1},
	}}}

	results, err := RunScenario(context.Background(), s, experiment.NewRegistry(), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed())
	assert.Len(t, results[0].Failures, 1)
}

func TestRunScenarioBadSegment(t *testing.T) {
	s := &Scenario{Steps: []ScenarioStep{{
		Segments: []control.Segment{{Input: 1, Duration: -1}},
	}}}
	_, err := RunScenario(context.Background(), s, experiment.NewRegistry(), nil)
	assert.Error(t, err)
}
