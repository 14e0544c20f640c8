package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/myg-arcade/internal/core"
)

func testMenu() MenuModel {
	m := NewMenuModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})
	m.items = []MenuItem{
		{GameID: "bounce", Title: "Bounce"},
		{GameID: "snake", Title: "Snake", Best: 120},
	}
	return m
}

func menuKey(m MenuModel, msg tea.KeyMsg) MenuModel {
	next, _ := m.Update(msg)
	return next.(MenuModel)
}

func TestMenuNavigationAndSelect(t *testing.T) {
	m := testMenu()

	m = menuKey(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor = %d after Up at top, expected 0", m.cursor)
	}
	m = menuKey(m, runeKey('j'))
	m = menuKey(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Errorf("cursor = %d, expected to stop at the last item", m.cursor)
	}

	m = menuKey(m, tea.KeyMsg{Type: tea.KeyEnter})
	if sel := m.Selected(); sel == nil || sel.GameID != "snake" {
		t.Errorf("Selected() = %+v, expected snake", sel)
	}
}

func TestMenuScoreboardAndQuit(t *testing.T) {
	if m := menuKey(testMenu(), tea.KeyMsg{Type: tea.KeyTab}); !m.WantsScoreboard() {
		t.Error("Tab did not request the scoreboard")
	}
	if m := menuKey(testMenu(), runeKey('q')); !m.IsQuitting() || m.View() != "" {
		t.Error("q did not quit the menu")
	}
}

func TestMenuViewAndResize(t *testing.T) {
	m := menuKey(testMenu(), runeKey('j'))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(MenuModel)

	if cfg := m.Config(); cfg.ScreenW != 100 || cfg.ScreenH != 30 {
		t.Errorf("Config() = %+v, expected the new size", cfg)
	}
	view := m.View()
	if !strings.Contains(view, "> Snake") || !strings.Contains(view, "120") {
		t.Errorf("View() does not mark the cursor on Snake:\n%s", view)
	}
}
