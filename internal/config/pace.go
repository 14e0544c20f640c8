package config

import (
	"math"

	"github.com/vovakirdan/myg-arcade/internal/core"
)

// Pacer calculates the tick rate a running game should use from its score
// or elapsed ticks.
type Pacer struct {
	cfg          PaceConfig
	baseRate     int
	ceiling      int
	initialLevel float64
}

// NewPacer creates a pacer for the runtime and pace sections of cfg.
func NewPacer(cfg Config) *Pacer {
	maxRate := cfg.Pace.MaxRate
	if maxRate < cfg.Runtime.TickRate {
		maxRate = cfg.Runtime.TickRate
	}
	if cfg.Runtime.MaxTickRate > 0 && maxRate > cfg.Runtime.MaxTickRate {
		maxRate = cfg.Runtime.MaxTickRate
	}
	return &Pacer{
		cfg:          cfg.Pace,
		baseRate:     cfg.Runtime.TickRate,
		ceiling:      maxRate,
		initialLevel: core.ClampF(cfg.Pace.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial pace level (0.0 to 1.0).
func (p *Pacer) SetInitialLevel(level float64) {
	p.initialLevel = core.ClampF(level, 0.0, 1.0)
}

// IsEnabled returns whether the pace ramps at all.
func (p *Pacer) IsEnabled() bool {
	return p.cfg.Type == "score" || p.cfg.Type == "time"
}

// Level returns the current pace level (0.0 to 1.0) based on score/ticks.
func (p *Pacer) Level(score int, ticks uint64) float64 {
	if !p.IsEnabled() {
		return p.initialLevel
	}

	maxAt := float64(p.cfg.MaxAt)
	if maxAt <= 0 {
		maxAt = 1
	}

	var progress float64
	switch p.cfg.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	}
	progress = core.ClampF(progress, 0.0, 1.0)

	return p.initialLevel + progress*(1.0-p.initialLevel)
}

// Rate returns the tick rate for the given progress, between tick_rate and
// the pace ceiling.
func (p *Pacer) Rate(score int, ticks uint64) int {
	level := p.initialLevel
	if p.IsEnabled() {
		level = p.Level(score, ticks)
	}
	span := float64(p.ceiling - p.baseRate)
	return p.baseRate + int(math.Round(level*span))
}
