package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/san-kum/ctmqc/internal/ensemble"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Replicas != DefaultReplicas {
		t.Errorf("expected %d replicas, got %d", DefaultReplicas, cfg.Replicas)
	}
	if cfg.StepSize <= 0 {
		t.Error("step size should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"no replicas", func(c *Config) { c.Replicas = 0 }, ensemble.ErrEmptyEnsemble},
		{"negative states", func(c *Config) { c.States = -2 }, ensemble.ErrInvalidParams},
		{"zero mass", func(c *Config) { c.Spread.Mass = 0 }, ensemble.ErrNonPositiveMass},
		{"zero floor", func(c *Config) { c.Spread.WidthFloor = 0 }, ensemble.ErrNonPositiveWidth},
		{"zero step", func(c *Config) { c.StepSize = 0 }, ensemble.ErrInvalidParams},
		{"negative const", func(c *Config) { c.WidthConst = -1 }, ensemble.ErrInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Replicas = 64
	cfg.RecomputeWidths = true
	cfg.Spread.Center = -2.5
	cfg.Log.Pretty = true

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Replicas != 64 || !loaded.RecomputeWidths || loaded.Spread.Center != -2.5 || !loaded.Log.Pretty {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WidthConst = 2.5
	cfg.RecomputeWidths = true

	p := cfg.Params()
	if p.WidthConst != 2.5 || !p.RecomputeWidths || p.StepSize != cfg.StepSize || p.Dt != cfg.Dt {
		t.Errorf("Params() = %+v", p)
	}

	s := cfg.GetSpread()
	if s.Mass != cfg.Spread.Mass || s.WidthFloor != cfg.Spread.WidthFloor {
		t.Errorf("GetSpread() = %+v", s)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("adaptive")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if !cfg.RecomputeWidths {
		t.Error("adaptive preset should recompute widths")
	}

	cfg.Replicas = 1
	if Presets["adaptive"].Replicas == 1 {
		t.Error("GetPreset returned shared config")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValid(t *testing.T) {
	names := ListPresets()
	sort.Strings(names)
	if len(names) != len(Presets) {
		t.Fatalf("ListPresets returned %d names, want %d", len(names), len(Presets))
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestLogConfigOverride(t *testing.T) {
	file := LogConfig{Level: "warn", Pretty: true}

	tests := []struct {
		name      string
		base      LogConfig
		level     string
		levelSet  bool
		pretty    bool
		prettySet bool
		want      LogConfig
	}{
		{"file wins over defaults", file, "info", false, false, false, LogConfig{Level: "warn", Pretty: true}},
		{"explicit level", file, "debug", true, false, false, LogConfig{Level: "debug", Pretty: true}},
		{"explicit pretty", file, "info", false, false, true, LogConfig{Level: "warn", Pretty: false}},
		{"empty file level", LogConfig{}, "error", false, false, false, LogConfig{Level: "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.base.Override(tt.level, tt.levelSet, tt.pretty, tt.prettySet)
			if got != tt.want {
				t.Errorf("Override() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoad_LogSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("replicas: 8\nlog:\n  level: debug\n  pretty: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.Pretty {
		t.Errorf("log section = %+v", cfg.Log)
	}
	if cfg.Replicas != 8 || cfg.Dofs != DefaultDofs {
		t.Errorf("replicas=%d dofs=%d", cfg.Replicas, cfg.Dofs)
	}
}
