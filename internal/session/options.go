package session

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/myg-arcade/internal/interp"
)

// DefaultPeriod is the tick period used when Start is given none (10 ticks/s).
const DefaultPeriod = 100 * time.Millisecond

// DefaultMaxTickRate caps how fast a session may tick.
const DefaultMaxTickRate = 60

type options struct {
	seed        int64
	maxSteps    int
	overlays    interp.Overlays
	logger      *log.Logger
	maxTickRate int
}

func defaultOptions() options {
	return options{
		maxSteps:    interp.DefaultMaxSteps,
		overlays:    interp.DefaultOverlays(),
		maxTickRate: DefaultMaxTickRate,
	}
}

// Option configures a Session.
type Option func(*options)

// WithSeed fixes the RNG seed used for every program loaded into the
// session. 0 picks a time-based seed at each load.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithMaxSteps bounds the statements a single tick or press may execute.
func WithMaxSteps(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSteps = n
		}
	}
}

// WithOverlays sets the cell codes tracked as entities.
func WithOverlays(ov interp.Overlays) Option {
	return func(o *options) { o.overlays = ov }
}

// WithLogger routes session and interpreter warnings to l.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMaxTickRate sets the fastest tick rate Start accepts; shorter periods
// are clamped.
func WithMaxTickRate(hz int) Option {
	return func(o *options) {
		if hz > 0 {
			o.maxTickRate = hz
		}
	}
}

// PeriodForRate converts a ticks-per-second rate into a tick period.
func PeriodForRate(hz int) time.Duration {
	if hz <= 0 {
		return DefaultPeriod
	}
	return time.Second / time.Duration(hz)
}
