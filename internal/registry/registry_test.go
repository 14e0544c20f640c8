package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const counterSource = `# Tap Counter
var taps = 0
display taps
button "Tap" {
    taps = taps + 1
}
`

// reset clears the registry between tests.
func reset(t *testing.T) {
	t.Helper()
	mu.Lock()
	saved := games
	games = make(map[string]Game)
	mu.Unlock()

	t.Cleanup(func() {
		mu.Lock()
		games = saved
		mu.Unlock()
	})
}

func TestRegisterAndGet(t *testing.T) {
	reset(t)
	Register("counter", counterSource)

	g, err := Get("counter")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if g.Title != "Tap Counter" {
		t.Errorf("Title = %q, expected Tap Counter", g.Title)
	}
	if g.Origin != "builtin" {
		t.Errorf("Origin = %q, expected builtin", g.Origin)
	}
	if !Exists("counter") || Exists("snake") {
		t.Error("Exists reports the wrong set of games")
	}
}

func TestRegisterPanics(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		source string
	}{
		{"duplicate", "counter", counterSource},
		{"invalid source", "broken", "loop {\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reset(t)
			Register("counter", counterSource)

			defer func() {
				if recover() == nil {
					t.Errorf("Register(%q) did not panic", tc.id)
				}
			}()
			Register(tc.id, tc.source)
		})
	}
}

func TestGetUnknownSuggests(t *testing.T) {
	reset(t)
	Register("counter", counterSource)

	_, err := Get("count")
	if err == nil {
		t.Fatal("Get(count) error = nil, expected an error")
	}
	if !strings.Contains(err.Error(), `did you mean "counter"`) {
		t.Errorf("Get(count) error = %v, expected a suggestion", err)
	}
}

func TestListSorted(t *testing.T) {
	reset(t)
	Register("zeta", counterSource)
	Register("alpha", "var a = 1\n")

	list := List()
	if len(list) != 2 || list[0].ID != "alpha" || list[1].ID != "zeta" {
		t.Errorf("List() = %+v, expected alpha then zeta", list)
	}
	if list[0].Title != "alpha" {
		t.Errorf("Title without comment = %q, expected the ID", list[0].Title)
	}
}

func TestLoadDir(t *testing.T) {
	reset(t)
	Register("counter", counterSource)

	dir := t.TempDir()
	files := map[string]string{
		"walker.mygt":  "# Walker\nvar x = 0\nloop {\n    x = x + 1\n}\n",
		"broken.mygt":  "loop {\n",
		"counter.mygt": counterSource,
		"notes.txt":    "not a game",
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	added, err := LoadDir(dir)
	if added != 1 {
		t.Errorf("LoadDir() added %d, expected 1", added)
	}
	if err == nil {
		t.Fatal("LoadDir() error = nil, expected errors for the broken and duplicate files")
	}
	for _, want := range []string{"broken.mygt", `"counter" already registered`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("LoadDir() error = %v, expected mention of %s", err, want)
		}
	}

	g, err := Get("walker")
	if err != nil {
		t.Fatalf("Get(walker) error = %v", err)
	}
	if g.Title != "Walker" || g.Origin != filepath.Join(dir, "walker.mygt") {
		t.Errorf("walker = %+v", g)
	}
}

func TestTitleOf(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{"# Snake\nvar x = 1", "Snake"},
		{"\n\n  ## Big Title ##  \n", "Big Title ##"},
		{"#\n# Second\nvar x = 1", "Second"},
		{"var x = 1\n# Late comment", "fallback"},
		{"", "fallback"},
	}

	for _, tc := range tests {
		if got := TitleOf(tc.source, "fallback"); got != tc.expected {
			t.Errorf("TitleOf(%q) = %q, expected %q", tc.source, got, tc.expected)
		}
	}
}
