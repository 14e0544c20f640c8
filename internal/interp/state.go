// Package interp runs parsed MYG programs. A Machine owns the mutable game
// state of one loaded program: it executes the top-level statements once at
// load, then replays the loop body per tick and button bodies per press, and
// projects the result into immutable Snapshots.
package interp

// GridSize is the width and height of the game grid.
const GridSize = 32

// Point is a grid coordinate.
type Point struct {
	X, Y int
}

// InBounds reports whether p lies on the grid.
func (p Point) InBounds() bool {
	return p.X >= 0 && p.X < GridSize && p.Y >= 0 && p.Y < GridSize
}

// Grid holds one cell code per coordinate, indexed [y][x]. 0 is empty.
type Grid [GridSize][GridSize]int

// At returns the cell at (x, y), or 0 out of range.
func (g *Grid) At(x, y int) int {
	if !(Point{x, y}).InBounds() {
		return 0
	}
	return g[y][x]
}

// Put writes the cell at (x, y). Out-of-range writes are ignored.
func (g *Grid) Put(x, y, v int) {
	if !(Point{x, y}).InBounds() {
		return
	}
	g[y][x] = v
}

// Overlays names the cell codes that are tracked as entities instead of
// being written into the base grid.
type Overlays struct {
	BodyCode       int    // each set with this code is a body segment
	LengthVar      string // variable holding the body's target length
	ConsumableCode int    // the single consumable point
}

// DefaultOverlays returns the codes used by the bundled games.
func DefaultOverlays() Overlays {
	return Overlays{
		BodyCode:       2,
		LengthVar:      "length",
		ConsumableCode: 3,
	}
}

// State is the mutable runtime state of a loaded program.
type State struct {
	Vars        map[string]int
	Grid        Grid
	Buttons     map[string]*Button
	ButtonOrder []string
	Display     []string
	Loop        *Loop

	// Entity overlays, reconciled onto Grid by the projector.
	Body       []Point // head first
	Consumable *Point
}

func newState() *State {
	return &State{
		Vars:    make(map[string]int),
		Buttons: make(map[string]*Button),
	}
}

// pushHead adds a new body head and trims the tail down to length.
// length < 1 is treated as 1; a negative length disables trimming.
func (s *State) pushHead(p Point, length int) {
	s.Body = append(s.Body, Point{})
	copy(s.Body[1:], s.Body)
	s.Body[0] = p

	if length < 0 {
		return
	}
	if length < 1 {
		length = 1
	}
	if len(s.Body) > length {
		s.Body = s.Body[:length]
	}
}

// clearOverlays removes the consumable and every body segment at p. The
// length variable is left alone, so a cut body grows back as it moves.
func (s *State) clearOverlays(p Point) {
	if s.Consumable != nil && *s.Consumable == p {
		s.Consumable = nil
	}
	kept := s.Body[:0]
	for _, b := range s.Body {
		if b != p {
			kept = append(kept, b)
		}
	}
	s.Body = kept
}
