package config

import (
	"sort"

	"github.com/san-kum/dronesearch/internal/coverage"
)

// Preset is a named search area with a suggested fleet size.
type Preset struct {
	Description string
	Area        []coverage.Point
	Agents      int
}

var Presets = map[string]Preset{
	"delhi-ridge": {
		Description: "central ridge forest, Delhi",
		Area: []coverage.Point{
			{X: 77.1500, Y: 28.6100}, {X: 77.1900, Y: 28.6150},
			{X: 77.2050, Y: 28.6450}, {X: 77.1700, Y: 28.6600},
			{X: 77.1450, Y: 28.6400},
		},
		Agents: 5,
	},
	"godavari-delta": {
		Description: "river island cluster near Rajahmundry",
		Area: []coverage.Point{
			{X: 81.7500, Y: 16.9500}, {X: 81.8600, Y: 16.9300},
			{X: 81.9000, Y: 17.0100}, {X: 81.8100, Y: 17.0500},
		},
		Agents: 8,
	},
	"western-ghats": {
		Description: "L-shaped valley, concave boundary",
		Area: []coverage.Point{
			{X: 73.7000, Y: 18.5000}, {X: 73.8000, Y: 18.5000},
			{X: 73.8000, Y: 18.5300}, {X: 73.7300, Y: 18.5300},
			{X: 73.7300, Y: 18.6000}, {X: 73.7000, Y: 18.6000},
		},
		Agents: 6,
	},
	"thar-triangle": {
		Description: "open desert triangle near Jaisalmer",
		Area: []coverage.Point{
			{X: 70.8000, Y: 26.8000}, {X: 71.0000, Y: 26.8000},
			{X: 70.9000, Y: 26.9600},
		},
		Agents: 3,
	},
	"unit-square": {
		Description: "10 x 10 test square in frame-like units",
		Area: []coverage.Point{
			{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0},
		},
		Agents: 1,
	},
}

// GetPreset returns a default run configuration over the named area, or
// nil if the preset does not exist.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Area = append([]coverage.Point(nil), p.Area...)
	cfg.Agents = p.Agents
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
