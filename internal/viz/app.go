package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/san-kum/tfdrive/internal/config"
	"github.com/san-kum/tfdrive/internal/experiment"
	"github.com/san-kum/tfdrive/internal/sim"
)

type screen int

const (
	screenMenu screen = iota
	screenDrive
)

type menuItem struct {
	track string
	name  string
}

func (i menuItem) String() string { return i.track + "/" + i.name }

// App is the top-level program: a preset picker that hands off to the
// drive screen. Esc returns to the picker.
type App struct {
	screen   screen
	items    []menuItem
	cursor   int
	drive    Model
	registry *experiment.Registry
	logger   *zap.Logger
	st       styles
	err      error
}

func NewApp(reg *experiment.Registry, logger *zap.Logger) App {
	if logger == nil {
		logger = zap.NewNop()
	}
	var items []menuItem
	for _, kind := range config.ListTracks() {
		for _, name := range config.ListPresets(kind) {
			items = append(items, menuItem{track: kind, name: name})
		}
	}
	return App{
		items:    items,
		registry: reg,
		logger:   logger,
		st:       newStyles(Themes[0]),
	}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.screen == screenDrive {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			a.screen = screenMenu
			return a, tea.ClearScreen
		}
		next, cmd := a.drive.Update(msg)
		a.drive = next.(Model)
		return a, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.items)-1 {
			a.cursor++
		}
	case "enter", " ":
		if len(a.items) == 0 {
			return a, nil
		}
		item := a.items[a.cursor]
		cfg := config.GetPreset(item.track, item.name)
		m, err := a.start(cfg)
		if err != nil {
			a.err = err
			return a, nil
		}
		a.err = nil
		a.drive = m
		a.screen = screenDrive
		a.logger.Info("preset selected", zap.String("preset", item.String()))
		return a, tea.Batch(tea.ClearScreen, m.Init())
	}
	return a, nil
}

func (a App) start(cfg *config.Config) (Model, error) {
	if cfg == nil {
		return Model{}, fmt.Errorf("preset not found")
	}
	s, err := experiment.NewSession(cfg, a.registry, sim.WithLogger(a.logger))
	if err != nil {
		return Model{}, err
	}
	return NewModel(cfg, s, a.logger), nil
}

func (a App) View() string {
	if a.screen == screenDrive {
		return a.drive.View()
	}

	var b strings.Builder
	b.WriteString(a.st.header.Render("TFDRIVE") + "\n")
	b.WriteString(a.st.subtle.Render("stop the car on the target line") + "\n\n")
	for i, item := range a.items {
		if i == a.cursor {
			b.WriteString(a.st.cursor.Render("▸ ") + a.st.active.Render(item.String()) + "\n")
		} else {
			b.WriteString("  " + a.st.value.Render(item.String()) + "\n")
		}
	}
	if a.err != nil {
		b.WriteString("\n" + a.st.bad.Render(a.err.Error()) + "\n")
	}
	b.WriteString(a.st.help.Render("↑/↓ select  enter drive  esc back  q quit"))
	return b.String()
}

// RunApp starts the preset picker.
func RunApp(reg *experiment.Registry, logger *zap.Logger) error {
	_, err := tea.NewProgram(NewApp(reg, logger), tea.WithAltScreen()).Run()
	return err
}

// RunDrive skips the picker and drives cfg directly.
func RunDrive(cfg *config.Config, reg *experiment.Registry, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	s, err := experiment.NewSession(cfg, reg, sim.WithLogger(logger))
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(NewModel(cfg, s, logger), tea.WithAltScreen()).Run()
	return err
}
