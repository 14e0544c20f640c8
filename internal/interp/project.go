package interp

// project copies the base grid and paints the overlays onto it: body
// segments first, then the consumable on top.
func project(s *State, ov Overlays) Grid {
	g := s.Grid
	for _, p := range s.Body {
		g.Put(p.X, p.Y, ov.BodyCode)
	}
	if s.Consumable != nil {
		g.Put(s.Consumable.X, s.Consumable.Y, ov.ConsumableCode)
	}
	return g
}

// cellAt is project(s, ov).At(x, y) without copying the grid.
func cellAt(s *State, ov Overlays, x, y int) int {
	p := Point{x, y}
	if !p.InBounds() {
		return 0
	}
	if s.Consumable != nil && *s.Consumable == p {
		return ov.ConsumableCode
	}
	for _, b := range s.Body {
		if b == p {
			return ov.BodyCode
		}
	}
	return s.Grid[y][x]
}

// Snapshot projects the current state.
func (m *Machine) Snapshot() Snapshot {
	s := m.state

	vars := make(map[string]int, len(s.Vars))
	for k, v := range s.Vars {
		vars[k] = v
	}

	return Snapshot{
		Tick:    m.tick,
		Halted:  m.halted,
		Vars:    vars,
		Grid:    project(s, m.opts.Overlays),
		Display: append([]string(nil), s.Display...),
		Buttons: append([]string(nil), s.ButtonOrder...),
	}
}
