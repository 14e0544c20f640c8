package tui

import (
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/myg-arcade/internal/config"
	"github.com/vovakirdan/myg-arcade/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestKeyMapperButton(t *testing.T) {
	km := NewKeyMapper(config.Default().Keys)
	buttons := []string{"Left", "Right", "Fire", "Jump"}

	tests := []struct {
		key      string
		expected string
		ok       bool
	}{
		{"left", "Left", true},
		{"right", "Right", true},
		{" ", "Fire", true},
		{"1", "Left", true},
		{"4", "Jump", true},
		{"5", "", false},
		{"up", "", false},
		{"jump", "Jump", true}, // label match, no binding
		{"x", "", false},
	}

	for _, tc := range tests {
		label, ok := km.Button(tc.key, buttons)
		if label != tc.expected || ok != tc.ok {
			t.Errorf("Button(%q) = (%q, %v), expected (%q, %v)", tc.key, label, ok, tc.expected, tc.ok)
		}
	}
}

func TestKeyMapperPrefersFirstCandidate(t *testing.T) {
	km := NewKeyMapper(map[string][]string{" ": {"Fire", "Go"}})

	if label, _ := km.Button(" ", []string{"Go", "Fire"}); label != "Fire" {
		t.Errorf("Button(space) = %q, expected Fire", label)
	}
	if label, _ := km.Button(" ", []string{"Go"}); label != "Go" {
		t.Errorf("Button(space) = %q, expected Go", label)
	}
}

func TestKeyMapperKeysFor(t *testing.T) {
	km := NewKeyMapper(map[string][]string{
		"up": {"Up"},
		"w":  {"Up"},
		" ":  {"Tap"},
	})

	if got := km.KeysFor("Up", []string{"Up", "Tap"}); !reflect.DeepEqual(got, []string{"1", "w", "up"}) {
		t.Errorf("KeysFor(Up) = %v, expected [1 w up]", got)
	}
	if got := km.KeysFor("Tap", []string{"Up", "Tap"}); !reflect.DeepEqual(got, []string{"2", "space"}) {
		t.Errorf("KeysFor(Tap) = %v, expected [2 space]", got)
	}
}

func TestKeyMapperActions(t *testing.T) {
	km := NewKeyMapper(nil)

	tests := []struct {
		msg  tea.KeyMsg
		game core.Action
		menu core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, core.ActionQuit},
		{runeKey('q'), core.ActionQuit, core.ActionQuit},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, core.ActionBack},
		{runeKey('p'), core.ActionPause, core.ActionNone},
		{runeKey('r'), core.ActionRestart, core.ActionNone},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionNone, core.ActionConfirm},
		{tea.KeyMsg{Type: tea.KeyTab}, core.ActionNone, core.ActionScores},
		{runeKey('k'), core.ActionNone, core.ActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionNone, core.ActionDown},
	}

	for _, tc := range tests {
		if got := km.MapKey(tc.msg); got != tc.game {
			t.Errorf("MapKey(%q) = %v, expected %v", tc.msg.String(), got, tc.game)
		}
		if got := km.MapKeyToMenuAction(tc.msg); got != tc.menu {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tc.msg.String(), got, tc.menu)
		}
	}
}
