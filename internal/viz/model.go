package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/san-kum/tfdrive/internal/config"
	"github.com/san-kum/tfdrive/internal/control"
	"github.com/san-kum/tfdrive/internal/plant"
	"github.com/san-kum/tfdrive/internal/scoring"
	"github.com/san-kum/tfdrive/internal/sim"
)

const (
	canvasWidth  = 60
	canvasHeight = 16
	chartWidth   = 60
	chartHeight  = 6
	frameRate    = 60

	minSensitivity = 1.0
	maxSensitivity = 200.0
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

var modeOrder = []plant.Kind{plant.KindFirstOrder, plant.KindSecondOrder, plant.KindPoleZero}

var modeParams = map[plant.Kind][]string{
	plant.KindFirstOrder:  {"tau", "sensitivity"},
	plant.KindSecondOrder: {"overshoot", "settling_time", "sensitivity"},
	plant.KindPoleZero:    {"zero", "pole", "sensitivity"},
}

// Model is the drive screen. It owns the session for the lifetime of the
// program.
type Model struct {
	cfg       *config.Config
	session   *sim.Session
	manual    *control.Manual
	pilot     *control.PID
	autopilot bool
	running   bool
	snap      sim.Snapshot
	err       error
	selected  int
	canvas    *Canvas
	theme     Theme
	st        styles
	showHelp  bool
	logger    *zap.Logger
}

func NewModel(cfg *config.Config, s *sim.Session, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	pilot := control.NewPID(cfg.Autopilot.Kp, cfg.Autopilot.Ki, cfg.Autopilot.Kd)
	pilot.Discrete = cfg.Autopilot.Discrete
	theme := Themes[0]

	return Model{
		cfg:       cfg,
		session:   s,
		manual:    control.NewManual(),
		pilot:     pilot,
		autopilot: cfg.Driver == "pid",
		running:   true,
		snap:      s.Snapshot(),
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		theme:     theme,
		st:        newStyles(theme),
		logger:    logger,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "right", "l", "d":
			m.manual.Press(1)
		case "left", "h", "a":
			m.manual.Press(-1)
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "m":
			m.cycleMode()
		case "n":
			m.session.SetNMP(!m.session.NMP())
			m.snap = m.session.Snapshot()
		case "p":
			m.autopilot = !m.autopilot
			m.pilot.Reset()
			m.manual.Release()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "t":
			m.theme = nextTheme(m.theme.Name)
			m.st = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// step polls the active driver and advances the session one tick.
func (m *Model) step() {
	var u float64
	if m.autopilot {
		u = m.pilot.Input(m.snap)
	} else {
		u = m.manual.Input(m.snap)
	}

	snap, err := m.session.Tick(u)
	m.snap = snap
	m.err = err
	if err != nil {
		m.logger.Warn("tick rejected", zap.Error(err))
	}
}

func (m *Model) reset() {
	m.session.Reset()
	m.manual.Release()
	m.pilot.Reset()
	m.snap = m.session.Snapshot()
	m.err = nil
}

func (m *Model) params() []string {
	return modeParams[m.cfg.Mode]
}

func (m *Model) cycleMode() {
	i := lo.IndexOf(modeOrder, m.cfg.Mode)
	m.cfg.Mode = modeOrder[(i+1)%len(modeOrder)]
	m.selected = 0
	m.applyMode()
}

// applyMode clamps the configured mode into the UI ranges and hands it to
// the session.
func (m *Model) applyMode() {
	mode := plant.Clamp(m.cfg.PlantMode())
	m.cfg.SetPlantMode(mode)
	m.err = m.session.SetMode(mode)
	m.snap = m.session.Snapshot()
}

func (m *Model) cycleParam() {
	keys := m.params()
	if len(keys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(keys)
}

func (m *Model) adjustParam(factor float64) {
	keys := m.params()
	if len(keys) == 0 {
		return
	}
	key := keys[m.selected]
	val, err := m.cfg.Param(key)
	if err != nil {
		m.err = err
		return
	}
	val *= factor

	if key == "sensitivity" {
		val = lo.Clamp(val, minSensitivity, maxSensitivity)
		m.cfg.Vehicle.Sensitivity = val
		m.session.SetSensitivity(val)
		return
	}
	if err := m.cfg.SetParam(key, val); err != nil {
		m.err = err
		return
	}
	m.applyMode()
}

func (m Model) View() string {
	st := m.st
	drawTrack(m.canvas, m.session.Physics().Vehicle.Track, m.snap.Vehicle.Position, m.snap.Target)
	canvasView := st.canvas.Render(st.track.Render(m.canvas.String()))

	var s strings.Builder
	s.WriteString(st.header.Render("TFDRIVE  "+strings.ToUpper(m.snap.Mode.String())) + "\n")
	s.WriteString(m.status() + "\n\n")

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.snap.Time))
	row("Input", inputLabel(m.snap.Input))
	row("Velocity", fmt.Sprintf("%+.3f", m.snap.Vehicle.Velocity))
	row("Position", fmt.Sprintf("%.1f / %.0f", m.snap.Vehicle.Position, m.snap.TrackLength))
	row("Target", fmt.Sprintf("%.1f", m.snap.Target))
	row("Accel", fmt.Sprintf("%+.3f", m.snap.Acceleration))
	row("NMP zero", lo.Ternary(m.snap.NMP, "on", "off"))

	s.WriteString("\n" + st.label.Render("Stop") + m.phaseLabel() + "\n")

	s.WriteString("\nPARAMETERS\n")
	for i, k := range m.params() {
		v, _ := m.cfg.Param(k)
		line := fmt.Sprintf("%-14s %8.3f", k, v)
		if i == m.selected {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.subtle.Render(line) + "\n")
		}
	}
	p := m.snap.Params
	s.WriteString(st.subtle.Render(fmt.Sprintf("  a0=%.3f a1=%.3f b0=%.3f b1=%.3f", p.A0, p.A1, p.B0, p.B1)) + "\n")

	s.WriteString("\nSCORES\n")
	scores := m.session.Scores()
	if len(scores) == 0 {
		s.WriteString(st.subtle.Render("  none yet") + "\n")
	}
	for i, rec := range scores {
		s.WriteString(fmt.Sprintf("  %d. %6.2fs  off by %6.1f\n", i+1, rec.Elapsed, rec.PositionError))
	}

	if m.err != nil {
		s.WriteString("\n" + st.bad.Render(m.err.Error()) + "\n")
	}
	s.WriteString(st.help.Render("←/→ drive  m mode  n nmp  p pilot  ? help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	view := lipgloss.JoinVertical(lipgloss.Left, mainView, m.charts())
	if m.showHelp {
		return helpText + "\n" + view
	}
	return view
}

func (m Model) charts() string {
	var parts []string
	if hist := m.session.History(); len(hist) > 1 {
		parts = append(parts, m.st.graph.Render(asciigraph.Plot(hist,
			asciigraph.Height(chartHeight),
			asciigraph.Width(chartWidth),
			asciigraph.Precision(2),
			asciigraph.Caption("velocity, last 10 s"),
		)))
	}
	if win := m.session.Window(); len(win) > 1 {
		parts = append(parts, m.st.graph.Render(asciigraph.Plot(win,
			asciigraph.Height(chartHeight),
			asciigraph.Width(chartWidth),
			asciigraph.Precision(2),
			asciigraph.Caption(fmt.Sprintf("velocity, last 5τ (τ=%.2fs)", m.snap.Params.Tau)),
		)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) status() string {
	switch {
	case !m.running:
		return m.st.warn.Render("PAUSED")
	case m.autopilot:
		return m.st.good.Render("AUTOPILOT")
	default:
		return m.st.good.Render("DRIVING")
	}
}

func (m Model) phaseLabel() string {
	if m.snap.Phase == scoring.Idle {
		if last, ok := m.session.Last(); ok {
			return m.st.good.Render(fmt.Sprintf("stopped %.2fs, off by %.1f", last.Elapsed, last.PositionError))
		}
		return m.st.subtle.Render("waiting for a start")
	}
	grace := m.cfg.Scoring.Grace
	return m.st.warn.Render("timing ") + ProgressBar(m.snap.StopTimer/grace, 12)
}

func inputLabel(u float64) string {
	switch {
	case u > 0:
		return fmt.Sprintf("accelerate %.2f", u)
	case u < 0:
		return fmt.Sprintf("brake %.2f", -u)
	default:
		return "coast"
	}
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  ←/h/a    - Brake (held)             ║
║  →/l/d    - Accelerate (held)        ║
║  M        - Cycle plant mode         ║
║  N        - Toggle NMP zero          ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  P        - Toggle autopilot         ║
║  Space    - Pause/Resume             ║
║  R        - Reset                    ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
