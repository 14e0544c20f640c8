package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/myg-arcade/internal/config"
	"github.com/vovakirdan/myg-arcade/internal/core"
	"github.com/vovakirdan/myg-arcade/internal/interp"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorBlack:         lipgloss.NewStyle().Foreground(lipgloss.Color("0")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// Board layout: every grid cell is two terminal columns wide, framed by a box.
const (
	cellWidth   = 2
	boardWidth  = interp.GridSize*cellWidth + 2
	boardHeight = interp.GridSize + 2
	hudLines    = 3
)

// glyph is a resolved palette entry.
type glyph struct {
	runes [cellWidth]rune
	color core.Color
}

// Palette maps cell codes to glyphs. Codes without an entry are drawn as a
// shaded block.
type Palette map[int]glyph

var unknownGlyph = glyph{runes: [cellWidth]rune{'▒', '▒'}, color: core.ColorMagenta}

// NewPalette resolves the palette section of the config. Glyphs shorter than
// a cell are padded with spaces; unknown color names fall back to default.
func NewPalette(styles map[int]config.CellStyle) Palette {
	p := make(Palette, len(styles))
	for code, st := range styles {
		var g glyph
		runes := []rune(st.Glyph)
		for i := range g.runes {
			g.runes[i] = ' '
			if i < len(runes) {
				g.runes[i] = runes[i]
			}
		}
		g.color, _ = core.ParseColor(st.Color)
		p[code] = g
	}
	return p
}

func (p Palette) lookup(code int) glyph {
	if g, ok := p[code]; ok {
		return g
	}
	return unknownGlyph
}

// DrawBoard draws the snapshot's grid inside a frame with its top-left
// corner at (x, y).
func DrawBoard(dst *core.Screen, snap interp.Snapshot, p Palette, x, y int) {
	dst.DrawBox(core.NewRect(x, y, boardWidth, boardHeight), core.ColorGray)

	for gy := 0; gy < interp.GridSize; gy++ {
		for gx := 0; gx < interp.GridSize; gx++ {
			code := snap.Grid[gy][gx]
			if code == 0 {
				continue
			}
			g := p.lookup(code)
			for i, r := range g.runes {
				dst.SetCell(x+1+gx*cellWidth+i, y+1+gy, core.Cell{Rune: r, Color: g.color})
			}
		}
	}
}

// DrawHUD writes the display variables and status under the board.
func DrawHUD(dst *core.Screen, snap interp.Snapshot, status string, x, y int) {
	vals := snap.DisplayValues()
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%s: %d", v.Name, v.Value)
	}
	dst.DrawTextColor(x, y, strings.Join(parts, "   "), core.ColorBrightWhite)

	statusColor := core.ColorGray
	if snap.Halted {
		statusColor = core.ColorBrightRed
	}
	dst.DrawTextColor(x, y+1, status, statusColor)
}

// DrawLegend writes the button legend, one "label [keys]" per entry.
func DrawLegend(dst *core.Screen, km *KeyMapper, buttons []string, x, y int) {
	entries := make([]string, 0, len(buttons))
	for _, b := range buttons {
		keys := km.KeysFor(b, buttons)
		entries = append(entries, fmt.Sprintf("%s [%s]", b, strings.Join(keys, "/")))
	}
	dst.DrawTextColor(x, y, strings.Join(entries, "  "), core.ColorCyan)
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if lipgloss.Width(text) >= width {
		return text
	}
	padding := (width - lipgloss.Width(text)) / 2
	return strings.Repeat(" ", padding) + text
}
