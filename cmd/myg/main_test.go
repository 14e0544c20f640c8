package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/myg-arcade/internal/config"
	"github.com/vovakirdan/myg-arcade/internal/interp"
	"github.com/vovakirdan/myg-arcade/internal/myg"
	"github.com/vovakirdan/myg-arcade/internal/replay"
)

func TestParseScript(t *testing.T) {
	tests := []struct {
		in       string
		expected replay.Script
		wantErr  bool
	}{
		{"", replay.Script{}, false},
		{"3:Up", replay.Script{3: {"Up"}}, false},
		{"3:Up, 3:Left,10:Fire", replay.Script{3: {"Up", "Left"}, 10: {"Fire"}}, false},
		{"Up", nil, true},
		{"0:Up", nil, true},
		{"x:Up", nil, true},
		{"4:", nil, true},
	}

	for _, tt := range tests {
		got, err := parseScript(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseScript(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("parseScript(%q) = %v, expected %v", tt.in, got, tt.expected)
		}
	}
}

func TestResolveGame(t *testing.T) {
	game, err := resolveGame("snake")
	if err != nil {
		t.Fatalf("resolveGame(snake) error = %v", err)
	}
	if game.Origin != "builtin" {
		t.Errorf("Origin = %q, expected builtin", game.Origin)
	}

	path := filepath.Join(t.TempDir(), "blink.mygt")
	if err := os.WriteFile(path, []byte("# Blink\nvar on = 0\nloop {\n    on = 1 - on\n}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	game, err = resolveGame(path)
	if err != nil {
		t.Fatalf("resolveGame(%s) error = %v", path, err)
	}
	if game.ID != "blink" || game.Title != "Blink" || game.Origin != path {
		t.Errorf("resolveGame(file) = %+v", game)
	}

	if _, err := resolveGame("snak"); err == nil || !strings.Contains(err.Error(), `"snake"`) {
		t.Errorf("resolveGame(snak) error = %v, expected a suggestion", err)
	}
}

func TestGridText(t *testing.T) {
	var g interp.Grid
	g[0][0] = 1
	g[0][1] = 11
	g[1][2] = 99

	lines := strings.Split(gridText(g), "\n")
	if len(lines) != interp.GridSize+1 {
		t.Fatalf("gridText has %d lines, expected %d", len(lines), interp.GridSize+1)
	}
	if !strings.HasPrefix(lines[0], "1b.") {
		t.Errorf("row 0 = %q, expected prefix 1b.", lines[0])
	}
	if !strings.HasPrefix(lines[1], "..?") {
		t.Errorf("row 1 = %q, expected prefix ..?", lines[1])
	}
}

func TestSummarize(t *testing.T) {
	s := interp.Snapshot{
		Tick:    12,
		Halted:  true,
		Vars:    map[string]int{"score": 40, "lives": 2},
		Display: []string{"score", "lives"},
	}
	expected := "tick 12 halted  score=40 lives=2"
	if got := summarize(s); got != expected {
		t.Errorf("summarize() = %q, expected %q", got, expected)
	}
}

func TestPortOf(t *testing.T) {
	for in, expected := range map[string]string{
		":23234":         "23234",
		"0.0.0.0:2222":   "2222",
		"[::1]:22":       "22",
		"no-port-at-all": "no-port-at-all",
	} {
		if got := portOf(in); got != expected {
			t.Errorf("portOf(%q) = %q, expected %q", in, got, expected)
		}
	}
}

func TestMachineOptionsFollowConfig(t *testing.T) {
	oldCfg, oldLogger := appConfig, logger
	t.Cleanup(func() { appConfig, logger = oldCfg, oldLogger })

	var buf bytes.Buffer
	logger = log.New(&buf)
	appConfig = config.Default()
	appConfig.Overlays.Body.Code = 4
	appConfig.Overlays.Body.LengthVar = "size"

	prog, diags := myg.Parse("set 3, 3, 4\nset 4, 3, 4\nvar x = nope\n")
	if len(diags) > 0 {
		t.Fatalf("Parse() diagnostics = %v", diags)
	}
	snap := interp.New(prog, machineOptions(1)).Snapshot()

	if snap.Var("size") != 2 {
		t.Errorf("size = %d, expected 2 body segments from code 4", snap.Var("size"))
	}
	if !strings.Contains(buf.String(), "unknown identifier") {
		t.Errorf("log = %q, expected the unknown identifier warning", buf.String())
	}
}
