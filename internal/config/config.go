package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dronesearch/internal/coverage"
)

const (
	DefaultSteps     = 100
	DefaultThreshold = 80.0
	DefaultPreset    = "delhi-ridge"
	MaxAgents        = 10
)

// Config is a single search run as stored in a YAML run file.
type Config struct {
	Name        string           `yaml:"name"`
	Area        []coverage.Point `yaml:"area"`
	Agents      int              `yaml:"agents"`
	Padding     float64          `yaml:"padding"`
	Resolution  int              `yaml:"resolution"`
	FrameSize   float64          `yaml:"frame_size"`
	Steps       int              `yaml:"steps"`
	Checkpoints []int            `yaml:"checkpoints,omitempty"`
	Seed        int64            `yaml:"seed"`
	Threshold   float64          `yaml:"threshold"`
	Unit        string           `yaml:"unit"`
}

var ErrInvalidConfig = errors.New("config: invalid run configuration")

func DefaultConfig() *Config {
	return &Config{
		Name:       "search",
		Area:       append([]coverage.Point(nil), Presets[DefaultPreset].Area...),
		Agents:     coverage.DefaultAgents,
		Padding:    coverage.DefaultPadding,
		Resolution: coverage.DefaultResolution,
		FrameSize:  coverage.DefaultFrameSize,
		Steps:      DefaultSteps,
		Threshold:  DefaultThreshold,
		Unit:       "km2",
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

// Validate checks the fields a run cannot start without. Malformed areas
// are not rejected here; the simulation degrades them to an empty search.
func (c *Config) Validate() error {
	switch {
	case c.Agents < 1 || c.Agents > MaxAgents:
		return fmt.Errorf("%w: agents must be in [1, %d], got %d", ErrInvalidConfig, MaxAgents, c.Agents)
	case c.Resolution <= 0:
		return fmt.Errorf("%w: resolution must be positive, got %d", ErrInvalidConfig, c.Resolution)
	case c.Padding < 0:
		return fmt.Errorf("%w: padding must not be negative, got %f", ErrInvalidConfig, c.Padding)
	case c.Steps < 0:
		return fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalidConfig, c.Steps)
	case c.Threshold <= 0 || c.Threshold > 100:
		return fmt.Errorf("%w: threshold must be in (0, 100], got %f", ErrInvalidConfig, c.Threshold)
	}
	return nil
}

// Options translates the run file into simulation options.
func (c *Config) Options() []coverage.Option {
	return []coverage.Option{
		coverage.WithAgents(c.Agents),
		coverage.WithPadding(c.Padding),
		coverage.WithResolution(c.Resolution),
		coverage.WithFrameSize(c.FrameSize),
		coverage.WithSeed(c.Seed),
	}
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.Area = append([]coverage.Point(nil), c.Area...)
	cp.Checkpoints = append([]int(nil), c.Checkpoints...)
	return &cp
}

// ParseArea reads a polygon written as "lon,lat;lon,lat;...". Blank
// vertices are ignored.
func ParseArea(s string) ([]coverage.Point, error) {
	var area []coverage.Point
	for i, vertex := range strings.Split(s, ";") {
		vertex = strings.TrimSpace(vertex)
		if vertex == "" {
			continue
		}
		parts := strings.Split(vertex, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: vertex %d %q is not lon,lat", ErrInvalidConfig, i+1, vertex)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: vertex %d: %w", ErrInvalidConfig, i+1, err)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: vertex %d: %w", ErrInvalidConfig, i+1, err)
		}
		area = append(area, coverage.Point{X: lon, Y: lat})
	}
	return area, nil
}
