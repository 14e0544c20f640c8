// Package config provides YAML-based configuration loading for the MYG
// runtime and its terminal hosts.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/myg-arcade/internal/interp"
)

// Config contains all host and runtime configuration.
type Config struct {
	Runtime  RuntimeConfig       `yaml:"runtime"`
	Overlays OverlaysConfig      `yaml:"overlays"`
	ScoreVar string              `yaml:"score_var"` // saved to the scoreboard when a game halts
	Palette  map[int]CellStyle   `yaml:"palette"`   // cell code -> how the TUI draws it
	Keys     map[string][]string `yaml:"keys"`      // terminal key -> candidate button labels
	Pace     PaceConfig          `yaml:"pace"`
}

// RuntimeConfig defines scheduler and interpreter limits.
type RuntimeConfig struct {
	TickRate    int   `yaml:"tick_rate"`     // ticks per second when a game starts
	MaxTickRate int   `yaml:"max_tick_rate"` // faster requests are clamped
	Seed        int64 `yaml:"seed"`          // 0 = time based
	MaxSteps    int   `yaml:"max_steps"`     // statements per tick or press
}

// OverlaysConfig names the cell codes tracked as entities.
type OverlaysConfig struct {
	Body       BodyOverlay       `yaml:"body"`
	Consumable ConsumableOverlay `yaml:"consumable"`
}

// BodyOverlay defines the body queue.
type BodyOverlay struct {
	Code      int    `yaml:"code"`
	LengthVar string `yaml:"length_var"`
}

// ConsumableOverlay defines the single consumable point.
type ConsumableOverlay struct {
	Code int `yaml:"code"`
}

// CellStyle is how a cell code is drawn.
type CellStyle struct {
	Glyph string `yaml:"glyph"` // two terminal columns per grid cell
	Color string `yaml:"color"`
}

// PaceConfig defines how the tick rate ramps up while a game runs.
type PaceConfig struct {
	Type         string  `yaml:"type"`          // "score", "time", or "none"
	MaxAt        int     `yaml:"max_at"`        // score or ticks at which MaxRate is reached
	MaxRate      int     `yaml:"max_rate"`      // tick rate at full pace
	InitialLevel float64 `yaml:"initial_level"` // 0.0 = start at tick_rate, 1.0 = start at max_rate
}

// InterpOverlays converts the overlay section for the interpreter.
func (c Config) InterpOverlays() interp.Overlays {
	return interp.Overlays{
		BodyCode:       c.Overlays.Body.Code,
		LengthVar:      c.Overlays.Body.LengthVar,
		ConsumableCode: c.Overlays.Consumable.Code,
	}
}

// Validate reports configuration that the runtime cannot honour.
func (c Config) Validate() error {
	var errs []error

	if c.Runtime.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("runtime.tick_rate must be positive, got %d", c.Runtime.TickRate))
	}
	if c.Runtime.MaxTickRate < c.Runtime.TickRate {
		errs = append(errs, fmt.Errorf("runtime.max_tick_rate (%d) is below tick_rate (%d)",
			c.Runtime.MaxTickRate, c.Runtime.TickRate))
	}
	if c.Runtime.MaxSteps <= 0 {
		errs = append(errs, fmt.Errorf("runtime.max_steps must be positive, got %d", c.Runtime.MaxSteps))
	}

	body, food := c.Overlays.Body.Code, c.Overlays.Consumable.Code
	if body == 0 || food == 0 {
		errs = append(errs, errors.New("overlay codes must be nonzero"))
	}
	if body == food {
		errs = append(errs, fmt.Errorf("overlays.body.code and overlays.consumable.code are both %d", body))
	}
	if c.Overlays.Body.LengthVar == "" {
		errs = append(errs, errors.New("overlays.body.length_var is empty"))
	}

	switch c.Pace.Type {
	case "", "none", "score", "time":
	default:
		errs = append(errs, fmt.Errorf("pace.type %q is not one of score, time, none", c.Pace.Type))
	}

	return errors.Join(errs...)
}

// PacePreset represents a named pace level.
type PacePreset string

const (
	PaceEasy   PacePreset = "easy"
	PaceNormal PacePreset = "normal"
	PaceHard   PacePreset = "hard"
	PaceFixed  PacePreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a pace preset.
func InitialLevelForPreset(preset PacePreset) float64 {
	switch preset {
	case PaceEasy:
		return 0.0
	case PaceNormal:
		return 0.3
	case PaceHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPacePreset adjusts cfg for a preset. The fixed preset disables the ramp.
func ApplyPacePreset(cfg *Config, preset PacePreset) {
	if preset == "" {
		return
	}
	if preset == PaceFixed {
		cfg.Pace.Type = "none"
		return
	}
	cfg.Pace.InitialLevel = InitialLevelForPreset(preset)
}
