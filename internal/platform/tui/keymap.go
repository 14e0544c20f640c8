package tui

import (
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/myg-arcade/internal/core"
)

// KeyMapper translates Bubble Tea key messages to host actions and button
// presses. Button bindings come from the keys section of the config: each
// key lists candidate labels and the first one the program declares wins.
type KeyMapper struct {
	bindings map[string][]string
}

// NewKeyMapper creates a key mapper with the given key -> labels bindings.
func NewKeyMapper(bindings map[string][]string) *KeyMapper {
	return &KeyMapper{bindings: bindings}
}

// MapKey translates a key message to a host action while a game runs.
// Keys that return ActionNone may still press a button, see Button.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit
	case "esc":
		return core.ActionBack
	case "p":
		return core.ActionPause
	case "r":
		return core.ActionRestart
	}
	return core.ActionNone
}

// Button returns the button label key presses in a program declaring
// buttons. Digits 1-9 press the nth button; other keys use the configured
// candidates, then a case-insensitive match on the label itself.
func (km *KeyMapper) Button(key string, buttons []string) (string, bool) {
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		n, _ := strconv.Atoi(key)
		if n <= len(buttons) {
			return buttons[n-1], true
		}
		return "", false
	}

	for _, candidate := range km.bindings[key] {
		for _, label := range buttons {
			if label == candidate {
				return label, true
			}
		}
	}

	for _, label := range buttons {
		if strings.EqualFold(label, key) {
			return label, true
		}
	}
	return "", false
}

// KeysFor lists the keys that press label, for the on-screen legend.
func (km *KeyMapper) KeysFor(label string, buttons []string) []string {
	var keys []string
	for i, b := range buttons {
		if b == label && i < 9 {
			keys = append(keys, strconv.Itoa(i+1))
		}
	}
	for key := range km.bindings {
		if got, ok := km.Button(key, buttons); ok && got == label {
			keys = append(keys, keyName(key))
		}
	}
	sortKeys(keys)
	return keys
}

func keyName(key string) string {
	if key == " " {
		return "space"
	}
	return key
}

// sortKeys orders digits first, then named keys alphabetically.
func sortKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if (len(a) == 1) != (len(b) == 1) {
			return len(a) == 1
		}
		return a < b
	})
}

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) core.Action {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit
	case "w", "up", "k": // vim-style k for up
		return core.ActionUp
	case "s", "down", "j": // vim-style j for down
		return core.ActionDown
	case "enter", " ":
		return core.ActionConfirm
	case "b", "esc":
		return core.ActionBack
	case "tab":
		return core.ActionScores
	}
	return core.ActionNone
}
