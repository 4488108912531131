package viz

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/tfdrive/internal/config"
	"github.com/san-kum/tfdrive/internal/experiment"
	"github.com/san-kum/tfdrive/internal/plant"
	"github.com/san-kum/tfdrive/internal/track"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(4, 2)
	assert.False(t, c.IsSet(3, 5))

	c.Set(3, 5)
	assert.True(t, c.IsSet(3, 5))

	c.Unset(3, 5)
	assert.False(t, c.IsSet(3, 5))

	// out of range is ignored
	c.Set(-1, 100)
	assert.False(t, c.IsSet(-1, 100))
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 4)
	c.DrawLine(0, 0, 19, 0)
	for x := 0; x < 20; x++ {
		assert.True(t, c.IsSet(x, 0), "x=%d", x)
	}
	c.Clear()
	assert.False(t, c.IsSet(5, 0))
}

func TestDrawTrackMarksCar(t *testing.T) {
	c := NewCanvas(canvasWidth, canvasHeight)
	g := track.DefaultLoop()
	drawTrack(c, g, 0, 400)

	p := g.At(0)
	proj := newProjection(g, c)
	x, y := proj.pixel(p.X, p.Y)
	assert.True(t, c.IsSet(x, y))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░", ProgressBar(0.5, 10))
	assert.Equal(t, "░░░░", ProgressBar(-1, 4))
	assert.Equal(t, "████", ProgressBar(2, 4))
}

func TestNextThemeWraps(t *testing.T) {
	last := Themes[len(Themes)-1]
	assert.Equal(t, Themes[0].Name, nextTheme(last.Name).Name)
	assert.Equal(t, Themes[0].Name, GetTheme("nope").Name)
	assert.Equal(t, []string{"dashboard", "amber", "mono"}, ThemeNames())
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	s, err := experiment.NewSession(cfg, experiment.NewRegistry())
	require.NoError(t, err)
	return NewModel(cfg, s, nil)
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func tickN(m Model, n int) Model {
	for i := 0; i < n; i++ {
		next, _ := m.Update(TickMsg(time.Now()))
		m = next.(Model)
	}
	return m
}

func TestModelAccelerates(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "right")
	m = tickN(m, 10)

	assert.Equal(t, 1.0, m.snap.Input)
	assert.Equal(t, 10, m.snap.Tick)
	assert.Greater(t, m.snap.Vehicle.Velocity, 0.0)
}

func TestModelHoldExpires(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "right")
	m = tickN(m, 60)
	assert.Equal(t, 0.0, m.snap.Input)
}

func TestModelPause(t *testing.T) {
	m := newTestModel(t)
	m = press(m, " ")
	m = tickN(m, 5)
	assert.Equal(t, 0, m.snap.Tick)

	m = press(m, " ")
	m = tickN(m, 5)
	assert.Equal(t, 5, m.snap.Tick)
}

func TestModelReset(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "right")
	m = tickN(m, 20)
	m = press(m, "r")

	assert.Equal(t, 0, m.snap.Tick)
	assert.Equal(t, config.DefaultStart, m.snap.Vehicle.Position)
	assert.Equal(t, 0.0, m.manual.Held())
}

func TestModelCyclesMode(t *testing.T) {
	m := newTestModel(t)
	require.Equal(t, plant.KindSecondOrder, m.snap.Mode)

	m = press(m, "m")
	assert.Equal(t, plant.KindPoleZero, m.snap.Mode)
	m = press(m, "m")
	assert.Equal(t, plant.KindFirstOrder, m.snap.Mode)
	m = press(m, "m")
	assert.Equal(t, plant.KindSecondOrder, m.snap.Mode)
	assert.NoError(t, m.err)
}

func TestModelToggleNMP(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "n")
	assert.True(t, m.session.NMP())
	m = press(m, "n")
	assert.False(t, m.session.NMP())
}

func TestModelAdjustParam(t *testing.T) {
	m := newTestModel(t)
	before := m.session.Params()

	m = press(m, "up")
	assert.InDelta(t, config.DefaultOvershoot*1.05, m.cfg.SecondOrder.Overshoot, 1e-9)
	assert.NotEqual(t, before, m.session.Params())

	m = press(m, "tab")
	m = press(m, "tab")
	m = press(m, "up")
	assert.InDelta(t, config.DefaultSensitivity*1.05, m.session.Physics().Vehicle.Sensitivity, 1e-9)
}

func TestModelAutopilotToggle(t *testing.T) {
	m := newTestModel(t)
	assert.False(t, m.autopilot)
	m = press(m, "p")
	assert.True(t, m.autopilot)
	m = tickN(m, 5)
	assert.Greater(t, m.snap.Input, 0.0)
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	m = tickN(m, 3)
	view := m.View()
	assert.Contains(t, view, "SECOND_ORDER")
	assert.Contains(t, view, "PARAMETERS")
	assert.Contains(t, view, "none yet")
}

func TestAppSelectsPreset(t *testing.T) {
	a := NewApp(experiment.NewRegistry(), nil)
	require.NotEmpty(t, a.items)

	next, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	a = next.(App)
	assert.Equal(t, screenDrive, a.screen)
	assert.NotNil(t, cmd)
	assert.NoError(t, a.err)

	next, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = next.(App)
	assert.Equal(t, screenMenu, a.screen)
}

func TestLiveRendererWritesFrames(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, track.DefaultLoop(), 1000)

	m := newTestModel(t)
	r.Start()
	r.OnTick(m.session.Snapshot())
	r.Stop()

	out := buf.String()
	assert.Contains(t, out, hideCursor)
	assert.Contains(t, out, "second_order")
	assert.Contains(t, out, showCursor)
}
