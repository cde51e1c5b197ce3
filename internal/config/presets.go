package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"drizzle": {
		Particles: 128, Width: DefaultWidth, Height: DefaultHeight,
		Rate: 120, MaxFrameTime: 0.25, Gravity: -2.5, RotationRate: 0.5,
		Duration: 20, FPS: DefaultFPS,
		MinRadius: 8, MaxRadius: 24, Sprites: 3,
	},
	"storm": {
		Particles: 1024, Width: DefaultWidth, Height: DefaultHeight,
		Rate: 240, MaxFrameTime: 0.25, Gravity: -30, RotationRate: 3,
		Duration: 10, FPS: DefaultFPS, Jitter: 0.2,
		MinRadius: 16, MaxRadius: 64, Sprites: 3,
	},
	"slowmo": {
		Particles: 256, Width: DefaultWidth, Height: DefaultHeight,
		Rate: 30, MaxFrameTime: 0.1, Gravity: -1, RotationRate: 0.25,
		Duration: 30, FPS: 30,
		MinRadius: 32, MaxRadius: 64, Sprites: 3,
	},
}

// GetPreset returns a copy so callers may override fields.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
