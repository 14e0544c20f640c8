// Package registry is the catalogue of playable MYG programs.
// Bundled games register themselves in init() functions; hosts may add a
// directory of .mygt files at startup.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/vovakirdan/myg-arcade/internal/myg"
)

// Ext is the file extension of MYG program files.
const Ext = ".mygt"

// Game is one registered program.
type Game struct {
	ID     string // used for CLI commands and score storage
	Title  string // first comment line of the source, or the ID
	Source string
	Origin string // "builtin" or the file it was loaded from
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
}

var (
	games = make(map[string]Game)
	mu    sync.RWMutex
)

// Register adds a bundled program to the registry.
// Typically called from an init() function.
// Panics if the ID is taken or the source does not parse.
func Register(id, source string) {
	if _, diags := myg.Parse(source); len(diags) > 0 {
		panic(fmt.Sprintf("registry: game %q does not parse: %v", id, diags))
	}
	if err := add(Game{ID: id, Title: TitleOf(source, id), Source: source, Origin: "builtin"}); err != nil {
		panic(err.Error())
	}
}

func add(g Game) error {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := games[g.ID]; exists {
		return fmt.Errorf("registry: game %q already registered", g.ID)
	}
	games[g.ID] = g
	return nil
}

// LoadDir registers every *.mygt file in dir, using the file name without
// extension as the ID. Files that fail to read or parse, or whose ID is
// taken, are skipped and reported in the returned error; the rest are still
// registered. It returns the number of games added.
func LoadDir(dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+Ext))
	if err != nil {
		return 0, fmt.Errorf("registry: cannot list %s: %w", dir, err)
	}
	sort.Strings(paths)

	var (
		added int
		errs  []error
	)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("registry: %w", err))
			continue
		}
		source := string(data)
		if _, diags := myg.Parse(source); len(diags) > 0 {
			errs = append(errs, fmt.Errorf("registry: %s: %w", path, diags))
			continue
		}

		id := strings.TrimSuffix(filepath.Base(path), Ext)
		if err := add(Game{ID: id, Title: TitleOf(source, id), Source: source, Origin: path}); err != nil {
			errs = append(errs, err)
			continue
		}
		added++
	}

	return added, errors.Join(errs...)
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(games))
	for id, g := range games {
		result = append(result, GameInfo{ID: id, Title: g.Title})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Get returns a game by its ID. The error for an unknown ID suggests the
// closest registered one.
func Get(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	g, ok := games[id]
	if !ok {
		ids := make([]string, 0, len(games))
		for known := range games {
			ids = append(ids, known)
		}
		if s := myg.Suggest(id, ids); s != "" {
			return Game{}, fmt.Errorf("registry: unknown game %q (did you mean %q?)", id, s)
		}
		return Game{}, fmt.Errorf("registry: unknown game %q", id)
	}

	return g, nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := games[id]
	return ok
}

// TitleOf returns the text of the first comment line of source, or
// fallback when the program does not start with a comment.
func TitleOf(source, fallback string) string {
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			break
		}
		if title := strings.TrimSpace(strings.TrimLeft(line, "#")); title != "" {
			return title
		}
	}
	return fallback
}
