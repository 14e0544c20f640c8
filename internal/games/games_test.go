package games

import (
	"testing"

	"github.com/vovakirdan/myg-arcade/internal/interp"
	"github.com/vovakirdan/myg-arcade/internal/registry"
)

func TestBundledGamesRegistered(t *testing.T) {
	tests := []struct {
		id      string
		title   string
		buttons []string
	}{
		{"bounce", "Bounce", []string{"Left", "Right"}},
		{"snake", "Snake", []string{"Up", "Down", "Left", "Right"}},
		{"tap", "Tap Race", []string{"Tap"}},
	}

	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			g, err := registry.Get(tc.id)
			if err != nil {
				t.Fatalf("registry.Get(%q) error = %v", tc.id, err)
			}
			if g.Title != tc.title {
				t.Errorf("Title = %q, expected %q", g.Title, tc.title)
			}

			m, diags := interp.Load(g.Source, interp.DefaultOptions())
			if len(diags) > 0 {
				t.Fatalf("Load() diagnostics: %v", diags)
			}
			got := m.Buttons()
			if len(got) != len(tc.buttons) {
				t.Fatalf("Buttons() = %v, expected %v", got, tc.buttons)
			}
			for i := range got {
				if got[i] != tc.buttons[i] {
					t.Errorf("Buttons()[%d] = %q, expected %q", i, got[i], tc.buttons[i])
				}
			}
			if !m.HasLoop() {
				t.Error("bundled game has no loop")
			}
		})
	}
}

func TestSnakeHitsWall(t *testing.T) {
	src, ok := Source("snake")
	if !ok {
		t.Fatal("Source(snake) not found")
	}
	opts := interp.DefaultOptions()
	opts.Seed = 7
	m, _ := interp.Load(src, opts)

	// Heading right from x=15 the head leaves the board on tick 17.
	var (
		snap interp.Snapshot
		err  error
	)
	for i := 0; i < 40 && err == nil; i++ {
		snap, err = m.Tick()
	}
	if err != interp.ErrHalted {
		t.Fatalf("Tick() error = %v, expected ErrHalted", err)
	}
	if snap.Tick != 17 || !snap.Halted {
		t.Errorf("halted at tick %d (halted=%v), expected 17", snap.Tick, snap.Halted)
	}
	if snap.Var("score") < 10 {
		t.Errorf("score = %d, expected at least 10 after passing the food at (22, 15)", snap.Var("score"))
	}
}

func TestTapRaceCountsTaps(t *testing.T) {
	src, _ := Source("tap")
	m, _ := interp.Load(src, interp.DefaultOptions())

	for i := 0; i < 5; i++ {
		if _, err := m.Press("Tap"); err != nil {
			t.Fatalf("Press(Tap) error = %v", err)
		}
	}
	snap := m.Snapshot()
	if snap.Var("score") != 5 {
		t.Errorf("score = %d, expected 5", snap.Var("score"))
	}
	if snap.Grid.At(2, 20) != 4 {
		t.Errorf("bar cell (2, 20) = %d, expected 4", snap.Grid.At(2, 20))
	}
}
