package interp

import (
	"errors"
	"sort"

	"github.com/vovakirdan/myg-arcade/internal/myg"
)

// control tells the caller of execBlock how the block ended.
type control int

const (
	ctlNext   control = iota // fell off the end
	ctlHalt                  // stop executed
	ctlBudget                // step budget exhausted
)

// budget counts statements for one entry point.
type budget struct {
	steps int
	max   int
}

// load runs the top-level statements once, in order.
func (m *Machine) load(prog *myg.Program) {
	m.loading = true
	defer func() { m.loading = false }()

	b := &budget{max: m.opts.MaxSteps * 10}
	exhausted := false
	for _, s := range prog.Stmts {
		switch st := s.(type) {
		case *myg.Display:
			m.state.Display = append(m.state.Display, st.Names...)

		case *myg.ButtonDef:
			if prev, ok := m.state.Buttons[st.Label]; ok {
				m.log.Warn("duplicate button ignored", "label", st.Label, "line", st.Line, "first", prev.Line)
				continue
			}
			m.state.Buttons[st.Label] = &Button{Label: st.Label, Line: st.Line, Body: st.Body}
			m.state.ButtonOrder = append(m.state.ButtonOrder, st.Label)

		case *myg.Loop:
			m.state.Loop = &Loop{Line: st.Line, Body: st.Body}

		default:
			// Once the budget is gone, statements are skipped but blocks
			// are still registered.
			if exhausted {
				continue
			}
			if m.execBlock([]myg.Stmt{s}, b) == ctlBudget {
				m.log.Warn("step budget exceeded during load, skipping remaining top-level statements", "line", s.Pos())
				exhausted = true
			}
		}
	}

	lv := m.opts.Overlays.LengthVar
	if _, ok := m.state.Vars[lv]; !ok && len(m.state.Body) > 0 {
		m.state.Vars[lv] = len(m.state.Body)
	}
}

// run executes one entry point (a tick or a press) under a fresh step budget.
func (m *Machine) run(entry string, body []myg.Stmt) {
	switch m.execBlock(body, &budget{max: m.opts.MaxSteps}) {
	case ctlHalt:
		m.log.Debug("program halted", "entry", entry, "tick", m.tick)
	case ctlBudget:
		m.log.Warn("step budget exceeded, entry point aborted", "entry", entry, "max_steps", m.opts.MaxSteps)
	}
}

// execBlock executes stmts in order until one halts or the budget runs out.
func (m *Machine) execBlock(stmts []myg.Stmt, b *budget) control {
	for _, s := range stmts {
		b.steps++
		if b.steps > b.max {
			return ctlBudget
		}

		switch st := s.(type) {
		case *myg.VarDecl:
			m.state.Vars[st.Name] = m.eval(st.Value, st.Line)

		case *myg.Assign:
			m.state.Vars[st.Name] = m.eval(st.Value, st.Line)

		case *myg.Set:
			x := m.eval(st.X, st.Line)
			y := m.eval(st.Y, st.Line)
			v := m.eval(st.Value, st.Line)
			m.set(x, y, v)

		case *myg.If:
			if ctl := m.execIf(st, b); ctl != ctlNext {
				return ctl
			}

		case *myg.Stop:
			m.halted = true
			return ctlHalt

		case *myg.UpdateMarker, *myg.DrawMarker:
			// commit and render happen after every entry point
		}
	}
	return ctlNext
}

// execIf runs the first branch whose condition is nonzero, else the else body.
func (m *Machine) execIf(st *myg.If, b *budget) control {
	for _, br := range st.Branches {
		if m.eval(br.Cond, br.Line) != 0 {
			return m.execBlock(br.Body, b)
		}
	}
	if st.HasElse {
		return m.execBlock(st.Else, b)
	}
	return ctlNext
}

// set writes a cell, routing overlay codes to their entity. During load a
// body code appends a tail segment in file order; at run time it pushes a
// new head and trims the body to the length variable. Any other code
// removes the consumable and body segments on that cell.
func (m *Machine) set(x, y, v int) {
	p := Point{x, y}
	if !p.InBounds() {
		return
	}

	ov := m.opts.Overlays
	switch v {
	case ov.BodyCode:
		if m.loading {
			m.state.Body = append(m.state.Body, p)
			return
		}
		length := -1
		if n, ok := m.state.Vars[ov.LengthVar]; ok {
			length = n
			if length < 0 {
				length = 0
			}
		}
		m.state.pushHead(p, length)

	case ov.ConsumableCode:
		m.state.Consumable = &p

	default:
		// Any other code replaces whatever entity held the cell.
		m.state.clearOverlays(p)
		m.state.Grid[y][x] = v
	}
}

// eval evaluates e and logs each unknown identifier once per machine.
func (m *Machine) eval(e myg.Expr, line int) int {
	v, err := myg.Eval(e, m)
	if err == nil {
		return v
	}

	var warnings myg.Warnings
	if !errors.As(err, &warnings) {
		m.log.Warn("evaluation error", "line", line, "err", err)
		return v
	}
	for _, w := range warnings {
		if m.warned[w.Name] {
			continue
		}
		m.warned[w.Name] = true
		kv := []any{"name", w.Name, "line", line}
		if hint := myg.Suggest(w.Name, m.varNames()); hint != "" {
			kv = append(kv, "did_you_mean", hint)
		}
		m.log.Warn("unknown identifier, using 0", kv...)
	}
	return v
}

func (m *Machine) varNames() []string {
	names := make([]string, 0, len(m.state.Vars))
	for k := range m.state.Vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
