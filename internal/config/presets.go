package config

import (
	"sort"

	"github.com/san-kum/tfdrive/internal/plant"
)

// Presets are keyed by track kind, then preset name.
var Presets = map[string]map[string]*Config{
	"loop": {
		"first-order": preset(func(c *Config) {
			c.Mode = plant.KindFirstOrder
			c.FirstOrder.Tau = 0.5
		}),
		"second-order": preset(func(c *Config) {}),
		"underdamped": preset(func(c *Config) {
			c.SecondOrder = SecondOrderConfig{Overshoot: 50, SettlingTime: 6}
		}),
		"nmp": preset(func(c *Config) {
			c.NMP.Enabled = true
		}),
		"autopilot": preset(func(c *Config) {
			c.Driver = "pid"
		}),
	},
	"line": {
		"pole-zero": preset(func(c *Config) {
			c.Mode = plant.KindPoleZero
			c.Track.Kind = "line"
			c.Vehicle.Sensitivity = 50
			c.Vehicle.Friction = 0.98
		}),
		"second-order": preset(func(c *Config) {
			c.Track.Kind = "line"
			c.Vehicle.Sensitivity = 50
			c.Vehicle.Friction = 0.98
		}),
	},
}

func preset(edit func(*Config)) *Config {
	c := DefaultConfig()
	edit(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(trackKind, name string) *Config {
	trackPresets, ok := Presets[trackKind]
	if !ok {
		return nil
	}
	cfg, ok := trackPresets[name]
	if !ok {
		return nil
	}
	cp := *cfg
	return &cp
}

func ListPresets(trackKind string) []string {
	trackPresets, ok := Presets[trackKind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(trackPresets))
	for name := range trackPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListTracks returns the track kinds that have presets.
func ListTracks() []string {
	kinds := make([]string, 0, len(Presets))
	for k := range Presets {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
