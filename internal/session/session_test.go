package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vovakirdan/myg-arcade/internal/interp"
)

const counterSource = `# Counter
var n = 0
display n
button "Add" {
	n = n + 100
}
button "Halt" {
	stop
}
loop {
	n = n + 1
	if n > 1000000 { stop }
}
`

const shortRun = `var n = 0
loop {
	n = n + 1
	if n >= 3 { stop }
}
`

func loaded(t *testing.T, src string, opts ...Option) *Session {
	t.Helper()
	s := New(append([]Option{WithSeed(1), WithMaxTickRate(1000)}, opts...)...)
	if diags := s.Load(src); len(diags) != 0 {
		t.Fatalf("Load() diagnostics:\n%v", diags)
	}
	t.Cleanup(s.Close)
	return s
}

// collector records snapshots delivered to onTick.
type collector struct {
	mu    sync.Mutex
	snaps []interp.Snapshot
	first chan struct{}
	once  sync.Once
}

func newCollector() *collector {
	return &collector{first: make(chan struct{})}
}

func (c *collector) onTick(s interp.Snapshot) {
	c.mu.Lock()
	c.snaps = append(c.snaps, s)
	c.mu.Unlock()
	c.once.Do(func() { close(c.first) })
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.snaps)
}

func (c *collector) waitFirst(t *testing.T) {
	t.Helper()
	select {
	case <-c.first:
	case <-time.After(2 * time.Second):
		t.Fatal("no tick delivered within 2s")
	}
}

func waitStatus(t *testing.T, s *Session, want Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Status() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Status() = %v, expected %v", s.Status(), want)
}

func TestLifecycle(t *testing.T) {
	s := New()
	if s.Status() != StatusEmpty {
		t.Errorf("Status() = %v, expected empty", s.Status())
	}
	if err := s.Start(0, nil); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Start() on empty session error = %v, expected ErrNotLoaded", err)
	}
	if _, err := s.PressButton("Add"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("PressButton() on empty session error = %v, expected ErrNotLoaded", err)
	}

	if diags := s.Load(counterSource); len(diags) != 0 {
		t.Fatalf("Load() diagnostics: %v", diags)
	}
	if s.Status() != StatusLoaded {
		t.Errorf("Status() = %v, expected loaded", s.Status())
	}

	c := newCollector()
	if err := s.Start(time.Millisecond, c.onTick); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(time.Millisecond, c.onTick); !errors.Is(err, ErrRunning) {
		t.Errorf("second Start() error = %v, expected ErrRunning", err)
	}
	c.waitFirst(t)

	s.Stop()
	if s.Status() != StatusLoaded {
		t.Errorf("Status() after Stop = %v, expected loaded", s.Status())
	}
	n := c.len()
	time.Sleep(50 * time.Millisecond)
	if c.len() != n {
		t.Errorf("ticks delivered after Stop: %d -> %d", n, c.len())
	}

	s.Close()
	if s.Status() != StatusEmpty {
		t.Errorf("Status() after Close = %v, expected empty", s.Status())
	}
}

func TestTicksAreSequential(t *testing.T) {
	s := loaded(t, counterSource)
	c := newCollector()
	if err := s.Start(time.Millisecond, c.onTick); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for c.len() < 5 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	s.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.snaps) < 5 {
		t.Fatalf("got %d ticks, expected at least 5", len(c.snaps))
	}
	for i, snap := range c.snaps {
		if snap.Tick != uint64(i+1) {
			t.Errorf("snapshot %d Tick = %d, expected %d", i, snap.Tick, i+1)
		}
		if snap.Var("n") != i+1 {
			t.Errorf("snapshot %d n = %d, expected %d", i, snap.Var("n"), i+1)
		}
	}
}

func TestHaltDeliversFinalSnapshotAndStops(t *testing.T) {
	s := loaded(t, shortRun)
	c := newCollector()
	if err := s.Start(time.Millisecond, c.onTick); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitStatus(t, s, StatusHalted)
	time.Sleep(20 * time.Millisecond)

	c.mu.Lock()
	snaps := append([]interp.Snapshot(nil), c.snaps...)
	c.mu.Unlock()

	if len(snaps) != 3 {
		t.Fatalf("got %d ticks, expected 3", len(snaps))
	}
	if !snaps[2].Halted {
		t.Error("last snapshot Halted = false, expected true")
	}

	if _, err := s.PressButton("x"); !errors.Is(err, ErrHalted) {
		t.Errorf("PressButton() after halt error = %v, expected ErrHalted", err)
	}
	if err := s.Start(time.Millisecond, c.onTick); !errors.Is(err, ErrHalted) {
		t.Errorf("Start() after halt error = %v, expected ErrHalted", err)
	}
	if s.Snapshot().Var("n") != 3 {
		t.Errorf("n = %d, expected 3", s.Snapshot().Var("n"))
	}
}

func TestPressButton(t *testing.T) {
	s := loaded(t, counterSource)

	snap, err := s.PressButton("Add")
	if err != nil {
		t.Fatalf("PressButton() error = %v", err)
	}
	if snap.Var("n") != 100 {
		t.Errorf("n = %d, expected 100", snap.Var("n"))
	}
	if _, err := s.PressButton("Nope"); !errors.Is(err, ErrUnknownButton) {
		t.Errorf("PressButton(Nope) error = %v, expected ErrUnknownButton", err)
	}

	c := newCollector()
	if err := s.Start(time.Millisecond, c.onTick); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	c.waitFirst(t)

	before := s.Snapshot().Var("n")
	snap, err = s.PressButton("Add")
	if err != nil {
		t.Fatalf("PressButton() while running error = %v", err)
	}
	if snap.Var("n") < before+100 {
		t.Errorf("n = %d, expected at least %d", snap.Var("n"), before+100)
	}

	snap, err = s.PressButton("Halt")
	if err != nil {
		t.Fatalf("PressButton(Halt) error = %v", err)
	}
	if !snap.Halted {
		t.Error("Halted = false after stop button")
	}
	if s.Status() != StatusHalted {
		t.Errorf("Status() = %v, expected halted", s.Status())
	}
	n := c.len()
	time.Sleep(30 * time.Millisecond)
	if c.len() != n {
		t.Error("ticks continued after the program halted")
	}
}

func TestLoadFailureKeepsOldProgramRunning(t *testing.T) {
	s := loaded(t, counterSource)
	c := newCollector()
	if err := s.Start(time.Millisecond, c.onTick); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	c.waitFirst(t)

	diags := s.Load("loop {\nloop {\n}")
	if len(diags) == 0 {
		t.Fatal("Load(invalid) returned no diagnostics")
	}
	if s.Status() != StatusRunning {
		t.Errorf("Status() = %v, expected the old program still running", s.Status())
	}
	n := c.len()
	deadline := time.Now().Add(2 * time.Second)
	for c.len() == n && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.len() == n {
		t.Error("old program stopped ticking after a failed load")
	}
}

func TestLoadSuccessStopsOldTicker(t *testing.T) {
	s := loaded(t, counterSource)
	c := newCollector()
	if err := s.Start(time.Millisecond, c.onTick); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	c.waitFirst(t)

	if diags := s.Load(shortRun); len(diags) != 0 {
		t.Fatalf("Load() diagnostics: %v", diags)
	}
	if s.Status() != StatusLoaded {
		t.Errorf("Status() = %v, expected loaded", s.Status())
	}
	n := c.len()
	time.Sleep(30 * time.Millisecond)
	if c.len() != n {
		t.Error("old ticker delivered after a successful load")
	}
	if s.Snapshot().Var("n") != 0 {
		t.Errorf("n = %d, expected fresh state", s.Snapshot().Var("n"))
	}
}

func TestStopFromCallback(t *testing.T) {
	s := loaded(t, counterSource)
	var calls int
	var mu sync.Mutex
	done := make(chan struct{})

	err := s.Start(time.Millisecond, func(interp.Snapshot) {
		mu.Lock()
		calls++
		mu.Unlock()
		s.StopAsync()
		close(done)
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never ran")
	}
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("callback ran %d times, expected 1", calls)
	}
	if s.Status() != StatusLoaded {
		t.Errorf("Status() = %v, expected loaded", s.Status())
	}
}

func TestStopWaitsForCallback(t *testing.T) {
	s := loaded(t, counterSource)
	var inFlight, calls atomic.Int32
	var overlapped atomic.Bool
	onTick := func(interp.Snapshot) {
		if inFlight.Add(1) > 1 {
			overlapped.Store(true)
		}
		calls.Add(1)
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
	}

	if err := s.Start(time.Millisecond, onTick); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	s.Stop()
	if n := inFlight.Load(); n != 0 {
		t.Errorf("%d callbacks still running after Stop", n)
	}
	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	if calls.Load() != after {
		t.Error("callback ran after Stop returned")
	}

	// StopAsync returns at once; a restarted runner must still wait its turn.
	if err := s.Start(time.Millisecond, onTick); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	s.StopAsync()
	if err := s.Start(time.Millisecond, onTick); err != nil {
		t.Fatalf("restart error = %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	if overlapped.Load() {
		t.Error("callbacks of two runners overlapped")
	}
}

func TestStep(t *testing.T) {
	s := loaded(t, shortRun)
	for i := 1; i <= 3; i++ {
		snap, err := s.Step()
		if err != nil {
			t.Fatalf("Step() %d error = %v", i, err)
		}
		if snap.Var("n") != i {
			t.Errorf("n = %d, expected %d", snap.Var("n"), i)
		}
	}
	if s.Status() != StatusHalted {
		t.Errorf("Status() = %v, expected halted", s.Status())
	}
	if _, err := s.Step(); !errors.Is(err, ErrHalted) {
		t.Errorf("Step() after halt error = %v, expected ErrHalted", err)
	}
}

func TestPeriodClamp(t *testing.T) {
	s := New(WithMaxTickRate(10))
	tests := []struct {
		in, expected time.Duration
	}{
		{0, DefaultPeriod},
		{-time.Second, DefaultPeriod},
		{time.Millisecond, 100 * time.Millisecond},
		{250 * time.Millisecond, 250 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := s.clamp(tt.in); got != tt.expected {
			t.Errorf("clamp(%v) = %v, expected %v", tt.in, got, tt.expected)
		}
	}
}

func TestFeedDropsOldest(t *testing.T) {
	f := NewFeed(2)
	for i := 1; i <= 3; i++ {
		f.Push(interp.Snapshot{Tick: uint64(i)})
	}
	if got := (<-f.C()).Tick; got != 2 {
		t.Errorf("first snapshot Tick = %d, expected 2", got)
	}
	if got := (<-f.C()).Tick; got != 3 {
		t.Errorf("second snapshot Tick = %d, expected 3", got)
	}

	f.Push(interp.Snapshot{Tick: 9})
	f.Drain()
	select {
	case s := <-f.C():
		t.Errorf("received %d after Drain", s.Tick)
	default:
	}

	f.Close()
	f.Close()
	f.Push(interp.Snapshot{Tick: 4})
	select {
	case s := <-f.C():
		t.Errorf("received %d after Close", s.Tick)
	default:
	}
}

func TestRegistryCloseAll(t *testing.T) {
	r := NewRegistry()
	a := loaded(t, counterSource)
	b := loaded(t, counterSource)
	r.Register("a", a)
	r.Register("b", b)
	if r.Count() != 2 {
		t.Errorf("Count() = %d, expected 2", r.Count())
	}
	if got, ok := r.Get("a"); !ok || got != a {
		t.Error("Get(a) did not return the registered session")
	}

	r.Unregister("a")
	if a.Status() != StatusEmpty {
		t.Errorf("unregistered session status = %v, expected empty", a.Status())
	}

	r.CloseAll()
	if r.Count() != 0 || b.Status() != StatusEmpty {
		t.Error("CloseAll() left sessions open")
	}
}
