package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/dronesearch/internal/coverage"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Agents != 5 {
		t.Errorf("expected 5 agents, got %d", cfg.Agents)
	}
	if cfg.Steps != DefaultSteps {
		t.Errorf("expected %d steps, got %d", DefaultSteps, cfg.Steps)
	}
	if len(cfg.Area) < 3 {
		t.Error("default area should be a polygon")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestDefaultConfig_DoesNotAliasPreset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Area[0].X = -1

	if Presets[DefaultPreset].Area[0].X == -1 {
		t.Error("DefaultConfig shares its area with the preset table")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("unit-square")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Agents != 1 {
		t.Errorf("expected 1 agent, got %d", cfg.Agents)
	}
	if cfg.Name != "unit-square" {
		t.Errorf("expected name unit-square, got %s", cfg.Name)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"default", func(c *Config) {}, true},
		{"zero agents", func(c *Config) { c.Agents = 0 }, false},
		{"too many agents", func(c *Config) { c.Agents = MaxAgents + 1 }, false},
		{"zero resolution", func(c *Config) { c.Resolution = 0 }, false},
		{"negative padding", func(c *Config) { c.Padding = -2 }, false},
		{"negative steps", func(c *Config) { c.Steps = -1 }, false},
		{"zero steps", func(c *Config) { c.Steps = 0 }, true},
		{"threshold over 100", func(c *Config) { c.Threshold = 101 }, false},
		{"empty area", func(c *Config) { c.Area = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := GetPreset("thar-triangle")
	cfg.Seed = 42
	cfg.Checkpoints = []int{9, 99}

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := "name: quick\nagents: 2\narea:\n  - {x: 0, y: 0}\n  - {x: 0, y: 1}\n  - {x: 1, y: 1}\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Agents != 2 || cfg.Name != "quick" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if len(cfg.Area) != 3 {
		t.Errorf("expected 3 area points, got %d", len(cfg.Area))
	}
	if cfg.Steps != DefaultSteps || cfg.Resolution != 50 {
		t.Errorf("defaults lost: steps=%d resolution=%d", cfg.Steps, cfg.Resolution)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("agents: [not, a, number]"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestClone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Checkpoints = []int{1}
	cp := cfg.Clone()
	cp.Area[0].X = 999
	cp.Checkpoints[0] = 7

	if cfg.Area[0].X == 999 || cfg.Checkpoints[0] == 7 {
		t.Error("Clone shares slices with the original")
	}
}

func TestParseArea(t *testing.T) {
	got, err := ParseArea(" 77.1,28.6; 77.2,28.6 ;77.2, 28.7;")
	if err != nil {
		t.Fatalf("ParseArea: %v", err)
	}
	want := []coverage.Point{{X: 77.1, Y: 28.6}, {X: 77.2, Y: 28.6}, {X: 77.2, Y: 28.7}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseArea mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"77.1", "77.1,28.6,0", "x,28.6", "77.1,y"} {
		if _, err := ParseArea(bad); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("ParseArea(%q) error = %v, want ErrInvalidConfig", bad, err)
		}
	}
}
