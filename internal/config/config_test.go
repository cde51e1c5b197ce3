package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/particlesim/internal/particles"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Particles != particles.MaxParticles {
		t.Errorf("expected %d particles, got %d", particles.MaxParticles, cfg.Particles)
	}
	if cfg.Rate != particles.DefaultRate {
		t.Errorf("expected rate %v, got %v", particles.DefaultRate, cfg.Rate)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("drizzle")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Particles != 128 {
		t.Errorf("expected 128 particles, got %d", cfg.Particles)
	}

	cfg.Particles = 1
	if Presets["drizzle"].Particles != 128 {
		t.Error("GetPreset must not hand out the shared preset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	if names[0] != "default" {
		t.Errorf("expected sorted names, got %v", names)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")

	cfg := DefaultConfig()
	cfg.Particles = 42
	cfg.Seed = 7
	cfg.Wind = true
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("particles: 10\ngravity: -3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Particles != 10 || cfg.Gravity != -3 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Width != DefaultWidth || cfg.Rate != particles.DefaultRate {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"no particles", func(c *Config) { c.Particles = 0 }, particles.ErrNoParticles},
		{"zero width", func(c *Config) { c.Width = 0 }, particles.ErrInvalidBounds},
		{"zero rate", func(c *Config) { c.Rate = 0 }, particles.ErrInvalidStep},
		{"negative frame cap", func(c *Config) { c.MaxFrameTime = -1 }, particles.ErrInvalidStep},
		{"zero fps", func(c *Config) { c.FPS = 0 }, nil},
		{"jitter too large", func(c *Config) { c.Jitter = 1 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestWorldLoads(t *testing.T) {
	cfg := DefaultConfig()
	if n := len(cfg.World().Loads); n != 0 {
		t.Errorf("expected gravity only, got %d extra loads", n)
	}
	cfg.Drag, cfg.Wind = true, true
	if n := len(cfg.World().Loads); n != 2 {
		t.Errorf("expected 2 loads, got %d", n)
	}
}

func TestFrames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Duration, cfg.FPS = 2, 60
	if got := cfg.Frames(); got != 120 {
		t.Errorf("expected 120 frames, got %d", got)
	}
}

func TestLoadOver_KeepsBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("seed: 11\n"), 0644); err != nil {
		t.Fatal(err)
	}

	base := GetPreset("storm")
	cfg, err := LoadOver(path, base)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Seed != 11 || !cfg.Wind || cfg.Rate != 240 {
		t.Errorf("expected storm with seed 11, got %+v", cfg)
	}
	if base.Seed != 0 {
		t.Error("base was modified")
	}
}
