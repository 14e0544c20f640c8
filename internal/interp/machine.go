package interp

import (
	"errors"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/myg-arcade/internal/myg"
)

var (
	// ErrHalted is returned for ticks and presses after stop has executed.
	ErrHalted = errors.New("interp: program halted")
	// ErrUnknownButton is returned by Press for a label the program never declared.
	ErrUnknownButton = errors.New("interp: unknown button")
)

// DefaultMaxSteps bounds the statements one tick or press may execute.
const DefaultMaxSteps = 10000

// Button is a declared button handler.
type Button struct {
	Label string
	Line  int
	Body  []myg.Stmt
}

// Loop is the program's main loop body.
type Loop struct {
	Line int
	Body []myg.Stmt
}

// Options configures a Machine.
type Options struct {
	Seed     int64
	MaxSteps int
	Overlays Overlays
	Logger   *log.Logger
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		MaxSteps: DefaultMaxSteps,
		Overlays: DefaultOverlays(),
	}
}

// Machine executes one loaded program. It is not safe for concurrent use;
// callers serialise Tick and Press.
type Machine struct {
	opts  Options
	log   *log.Logger
	rng   *rand.Rand
	state *State

	tick    uint64
	halted  bool
	loading bool
	warned  map[string]bool
}

// New creates a machine for prog and runs its top-level statements once.
func New(prog *myg.Program, opts Options) *Machine {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	if opts.Overlays == (Overlays{}) {
		opts.Overlays = DefaultOverlays()
	}
	if opts.Overlays.LengthVar == "" {
		opts.Overlays.LengthVar = DefaultOverlays().LengthVar
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := &Machine{
		opts:   opts,
		log:    logger,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		state:  newState(),
		warned: make(map[string]bool),
	}
	m.load(prog)
	return m
}

// Load parses source and creates a machine for it. The machine is nil when
// the diagnostics are non-empty.
func Load(source string, opts Options) (*Machine, myg.Diagnostics) {
	prog, diags := myg.Parse(source)
	if len(diags) > 0 {
		return nil, diags
	}
	return New(prog, opts), nil
}

// Tick runs the loop body once and returns the projected state.
func (m *Machine) Tick() (Snapshot, error) {
	if m.halted {
		return m.Snapshot(), ErrHalted
	}
	m.tick++
	if m.state.Loop != nil {
		m.run("tick", m.state.Loop.Body)
	}
	return m.Snapshot(), nil
}

// Press runs the body of the button labelled label against the current state.
func (m *Machine) Press(label string) (Snapshot, error) {
	if m.halted {
		return m.Snapshot(), ErrHalted
	}
	b, ok := m.state.Buttons[label]
	if !ok {
		return m.Snapshot(), ErrUnknownButton
	}
	m.run("button "+label, b.Body)
	return m.Snapshot(), nil
}

// Halted reports whether stop has executed.
func (m *Machine) Halted() bool {
	return m.halted
}

// Buttons returns the declared button labels in declaration order.
func (m *Machine) Buttons() []string {
	return append([]string(nil), m.state.ButtonOrder...)
}

// HasLoop reports whether the program declared a loop block.
func (m *Machine) HasLoop() bool {
	return m.state.Loop != nil
}

// Lookup implements myg.Env.
func (m *Machine) Lookup(name string) (int, bool) {
	v, ok := m.state.Vars[name]
	return v, ok
}

// Cell implements myg.Env. It returns the projected value, so get() sees
// body segments and the consumable.
func (m *Machine) Cell(x, y int) int {
	return cellAt(m.state, m.opts.Overlays, x, y)
}

// Random implements myg.Env.
func (m *Machine) Random(min, max int) int {
	span := int64(max) - int64(min) + 1
	if span <= 0 {
		return min
	}
	return min + int(m.rng.Int63n(span))
}
