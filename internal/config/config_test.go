package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := base()
	def := Default()

	if cfg.Runtime != def.Runtime {
		t.Errorf("embedded runtime = %+v, expected %+v", cfg.Runtime, def.Runtime)
	}
	if cfg.Overlays != def.Overlays {
		t.Errorf("embedded overlays = %+v, expected %+v", cfg.Overlays, def.Overlays)
	}
	if cfg.ScoreVar != "score" {
		t.Errorf("ScoreVar = %q, expected score", cfg.ScoreVar)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("embedded defaults invalid: %v", err)
	}
	if cfg.Pace != def.Pace {
		t.Errorf("embedded pace = %+v, expected %+v", cfg.Pace, def.Pace)
	}

	// Decoded on its own, since base merges the YAML maps into Default's.
	var raw Config
	if err := yaml.Unmarshal(DefaultYAML(), &raw); err != nil {
		t.Fatalf("embedded YAML: %v", err)
	}
	if !reflect.DeepEqual(raw.Palette, def.Palette) {
		t.Errorf("embedded palette = %v, expected %v", raw.Palette, def.Palette)
	}
	if !reflect.DeepEqual(raw.Keys, def.Keys) {
		t.Errorf("embedded keys = %v, expected %v", raw.Keys, def.Keys)
	}
	if err := def.Validate(); err != nil {
		t.Errorf("hard-coded defaults invalid: %v", err)
	}
}

func TestLoadCustomPathLayersOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	data := "runtime:\n  tick_rate: 15\n  seed: 99\nscore_var: points\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Runtime.TickRate != 15 || cfg.Runtime.Seed != 99 {
		t.Errorf("runtime = %+v, expected tick_rate 15 and seed 99", cfg.Runtime)
	}
	if cfg.Runtime.MaxTickRate != 60 {
		t.Errorf("MaxTickRate = %d, expected default 60", cfg.Runtime.MaxTickRate)
	}
	if cfg.ScoreVar != "points" {
		t.Errorf("ScoreVar = %q, expected points", cfg.ScoreVar)
	}
	if cfg.InterpOverlays().BodyCode != 2 {
		t.Errorf("BodyCode = %d, expected default 2", cfg.InterpOverlays().BodyCode)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load(missing) error = nil, expected an error")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("runtime: [unclosed"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Error("Load(bad yaml) error = nil, expected an error")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(invalid, []byte("overlays:\n  body:\n    code: 3\n"), 0o644)
	_, err := Load(invalid)
	if err == nil || !strings.Contains(err.Error(), "both 3") {
		t.Errorf("Load(clashing codes) error = %v, expected an overlay clash", err)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Runtime.TickRate != 10 {
		t.Errorf("TickRate = %d, expected embedded default 10", cfg.Runtime.TickRate)
	}

	userDir := filepath.Join(home, ".myg")
	os.MkdirAll(userDir, 0o755)
	os.WriteFile(filepath.Join(userDir, "config.yaml"), []byte("runtime:\n  tick_rate: 12\n"), 0o644)

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Runtime.TickRate != 12 {
		t.Errorf("TickRate = %d, expected 12 from the user config", cfg.Runtime.TickRate)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero tick rate", func(c *Config) { c.Runtime.TickRate = 0 }, "tick_rate"},
		{"max below rate", func(c *Config) { c.Runtime.MaxTickRate = 5 }, "max_tick_rate"},
		{"zero steps", func(c *Config) { c.Runtime.MaxSteps = 0 }, "max_steps"},
		{"zero overlay", func(c *Config) { c.Overlays.Consumable.Code = 0 }, "nonzero"},
		{"empty length var", func(c *Config) { c.Overlays.Body.LengthVar = "" }, "length_var"},
		{"bad pace", func(c *Config) { c.Pace.Type = "vibes" }, "pace.type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, expected mention of %q", err, tt.want)
			}
		})
	}
}

func TestPacer(t *testing.T) {
	cfg := Default()
	cfg.Runtime.TickRate = 10
	cfg.Pace = PaceConfig{Type: "score", MaxAt: 100, MaxRate: 20}

	p := NewPacer(cfg)
	tests := []struct {
		score    int
		expected int
	}{
		{0, 10},
		{50, 15},
		{100, 20},
		{1000, 20},
		{-10, 10},
	}
	for _, tt := range tests {
		if got := p.Rate(tt.score, 0); got != tt.expected {
			t.Errorf("Rate(%d) = %d, expected %d", tt.score, got, tt.expected)
		}
	}

	cfg.Pace.MaxRate = 500
	if got := NewPacer(cfg).Rate(100, 0); got != cfg.Runtime.MaxTickRate {
		t.Errorf("Rate at full pace = %d, expected clamp to %d", got, cfg.Runtime.MaxTickRate)
	}

	ApplyPacePreset(&cfg, PaceFixed)
	if NewPacer(cfg).IsEnabled() {
		t.Error("fixed preset left the pacer enabled")
	}

	cfg.Pace.Type = "time"
	ApplyPacePreset(&cfg, PaceHard)
	if got := NewPacer(cfg).Level(0, 0); got != 0.7 {
		t.Errorf("Level at start with hard preset = %v, expected 0.7", got)
	}
}
