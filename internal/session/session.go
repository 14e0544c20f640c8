// Package session drives a loaded MYG program in real time. A Session owns
// the program's Machine, a fixed-period ticker goroutine, and the lock that
// keeps ticks and button presses from ever overlapping.
package session

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/myg-arcade/internal/core"
	"github.com/vovakirdan/myg-arcade/internal/interp"
	"github.com/vovakirdan/myg-arcade/internal/myg"
)

// Status is the scheduler state of a session.
type Status int

const (
	StatusEmpty Status = iota
	StatusLoaded
	StatusRunning
	StatusHalted
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusLoaded:
		return "loaded"
	case StatusRunning:
		return "running"
	case StatusHalted:
		return "halted"
	default:
		return "unknown"
	}
}

var (
	// ErrNotLoaded is returned when no program is loaded.
	ErrNotLoaded = errors.New("session: no program loaded")
	// ErrRunning is returned by Start and Step while the ticker runs.
	ErrRunning = errors.New("session: already running")
	// ErrHalted is returned once the program executed stop.
	ErrHalted = interp.ErrHalted
	// ErrUnknownButton is returned by PressButton for an undeclared label.
	ErrUnknownButton = interp.ErrUnknownButton
)

// Session runs one program at a time.
type Session struct {
	opts options
	log  *log.Logger

	mu      sync.Mutex
	machine *interp.Machine
	status  Status
	runner  *runner

	// cbMu is held while onTick runs, so callbacks of an old and a new
	// runner never overlap.
	cbMu sync.Mutex
}

// runner is one ticker goroutine.
type runner struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func (r *runner) cancel() {
	r.once.Do(func() { close(r.stop) })
}

// New creates an empty session.
func New(opts ...Option) *Session {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Session{
		opts: o,
		log:  logger,
	}
}

// Load parses source and, if it is valid, replaces the current program.
// On failure the current program keeps running untouched and the
// diagnostics are returned. On success any running ticker is stopped
// before the new program is installed in the Loaded state.
func (s *Session) Load(source string) myg.Diagnostics {
	prog, diags := myg.Parse(source)
	if len(diags) > 0 {
		s.log.Warn("program rejected", "errors", len(diags))
		return diags
	}

	seed := core.ResolveSeed(s.opts.seed)
	m := interp.New(prog, interp.Options{
		Seed:     seed,
		MaxSteps: s.opts.maxSteps,
		Overlays: s.opts.overlays,
		Logger:   s.log,
	})

	s.mu.Lock()
	old := s.detach()
	s.machine = m
	s.status = StatusLoaded
	s.mu.Unlock()

	s.join(old)
	s.log.Info("program loaded", "buttons", len(m.Buttons()), "loop", m.HasLoop(), "seed", seed)
	return nil
}

// Start begins ticking every period and calls onTick with each new
// snapshot, outside the session lock. A period <= 0 selects
// DefaultPeriod; periods faster than the max tick rate are clamped.
// onTick may call StopAsync but not Stop, Load or Close, which wait for it.
func (s *Session) Start(period time.Duration, onTick func(interp.Snapshot)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case StatusEmpty:
		return ErrNotLoaded
	case StatusRunning:
		return ErrRunning
	case StatusHalted:
		return ErrHalted
	}

	period = s.clamp(period)
	r := &runner{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	s.runner = r
	s.status = StatusRunning

	go s.loop(r, s.machine, period, onTick)
	s.log.Debug("ticker started", "period", period)
	return nil
}

// Stop stops the ticker and returns a running session to Loaded. It waits
// for an onTick in progress, so no tick runs after Stop returns. onTick
// itself must use StopAsync instead.
func (s *Session) Stop() {
	s.mu.Lock()
	r := s.detach()
	s.mu.Unlock()
	s.join(r)
}

// StopAsync is Stop without the wait. It is the way to stop the session
// from inside onTick.
func (s *Session) StopAsync() {
	s.mu.Lock()
	s.detach()
	s.mu.Unlock()
}

// Close stops the ticker and releases the program.
func (s *Session) Close() {
	s.mu.Lock()
	r := s.detach()
	s.machine = nil
	s.status = StatusEmpty
	s.mu.Unlock()
	s.join(r)
}

// PressButton runs the named button's body against the current state and
// returns the resulting snapshot. A press that halts the program also
// stops the ticker.
func (s *Session) PressButton(label string) (interp.Snapshot, error) {
	s.mu.Lock()
	if s.machine == nil {
		s.mu.Unlock()
		return interp.Snapshot{}, ErrNotLoaded
	}

	snap, err := s.machine.Press(label)
	var r *runner
	if err == nil && snap.Halted {
		r = s.detach()
		s.status = StatusHalted
	}
	s.mu.Unlock()

	s.join(r)
	return snap, err
}

// Step runs a single tick synchronously. It is meant for hosts that drive
// time themselves, such as recordings; it fails while the ticker runs.
func (s *Session) Step() (interp.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case StatusEmpty:
		return interp.Snapshot{}, ErrNotLoaded
	case StatusRunning:
		return s.machine.Snapshot(), ErrRunning
	}

	snap, err := s.machine.Tick()
	if snap.Halted {
		s.status = StatusHalted
	}
	return snap, err
}

// Snapshot returns the current projected state.
func (s *Session) Snapshot() interp.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.machine == nil {
		return interp.Snapshot{}
	}
	return s.machine.Snapshot()
}

// Status returns the scheduler state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Buttons returns the loaded program's button labels.
func (s *Session) Buttons() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.machine == nil {
		return nil
	}
	return s.machine.Buttons()
}

// loop is the ticker goroutine.
func (s *Session) loop(r *runner, m *interp.Machine, period time.Duration, onTick func(interp.Snapshot)) {
	defer close(r.done)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		select {
		case <-r.stop:
			s.mu.Unlock()
			return
		default:
		}
		snap, err := m.Tick()
		if snap.Halted {
			// r stays attached so Load, Stop and Close still join it.
			s.status = StatusHalted
			r.cancel()
		}
		s.mu.Unlock()

		if err != nil {
			return
		}
		if onTick != nil {
			s.cbMu.Lock()
			onTick(snap)
			s.cbMu.Unlock()
		}
		if snap.Halted {
			s.log.Debug("program halted", "tick", snap.Tick)
			return
		}
	}
}

// detach cancels the current runner and returns it for joining.
// Must be called with s.mu held.
func (s *Session) detach() *runner {
	r := s.runner
	if r == nil {
		return nil
	}
	s.runner = nil
	r.cancel()
	if s.status == StatusRunning {
		s.status = StatusLoaded
	}
	return r
}

// join waits for r's goroutine to exit.
func (s *Session) join(r *runner) {
	if r == nil {
		return
	}
	<-r.done
}

func (s *Session) clamp(period time.Duration) time.Duration {
	if period <= 0 {
		period = DefaultPeriod
	}
	if floor := PeriodForRate(s.opts.maxTickRate); period < floor {
		s.log.Debug("tick period clamped", "requested", period, "min", floor)
		period = floor
	}
	return period
}
