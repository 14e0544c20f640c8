package config

import (
	_ "embed"

	"github.com/vovakirdan/myg-arcade/internal/interp"
)

//go:embed defaults/myg.yaml
var defaultYAML []byte

// Default returns the hard-coded configuration, used when even the embedded
// YAML cannot be parsed. It mirrors defaults/myg.yaml.
func Default() Config {
	ov := interp.DefaultOverlays()
	return Config{
		Runtime: RuntimeConfig{
			TickRate:    10,
			MaxTickRate: 60,
			Seed:        0, // 0 means use current time at load
			MaxSteps:    interp.DefaultMaxSteps,
		},
		Overlays: OverlaysConfig{
			Body: BodyOverlay{
				Code:      ov.BodyCode,
				LengthVar: ov.LengthVar,
			},
			Consumable: ConsumableOverlay{
				Code: ov.ConsumableCode,
			},
		},
		ScoreVar: "score",
		Pace: PaceConfig{
			Type:    "none",
			MaxAt:   500,
			MaxRate: 20,
		},
		Palette: map[int]CellStyle{
			1: {Glyph: "██", Color: "gray"},
			2: {Glyph: "██", Color: "green"},
			3: {Glyph: "◆ ", Color: "red"},
			4: {Glyph: "██", Color: "yellow"},
			5: {Glyph: "██", Color: "blue"},
			6: {Glyph: "██", Color: "magenta"},
			7: {Glyph: "██", Color: "cyan"},
			8: {Glyph: "██", Color: "white"},
			9: {Glyph: "██", Color: "orange"},
		},
		Keys: map[string][]string{
			"up":    {"Up", "up", "North"},
			"w":     {"Up", "up", "North"},
			"down":  {"Down", "down", "South"},
			"s":     {"Down", "down", "South"},
			"left":  {"Left", "left", "West"},
			"a":     {"Left", "left", "West"},
			"right": {"Right", "right", "East"},
			"d":     {"Right", "right", "East"},
			" ":     {"Fire", "Jump", "Action", "Tap", "Go"},
			"enter": {"Start", "OK", "Go"},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
