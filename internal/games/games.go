// Package games bundles the MYG programs shipped with the arcade.
// Importing it for side effects registers them:
//
//	import _ "github.com/vovakirdan/myg-arcade/internal/games"
package games

import (
	"embed"
	"io/fs"
	"path"
	"strings"

	"github.com/vovakirdan/myg-arcade/internal/registry"
)

//go:embed programs/*.mygt
var programs embed.FS

func init() {
	entries, err := fs.ReadDir(programs, "programs")
	if err != nil {
		panic(err)
	}
	for _, e := range entries {
		data, err := programs.ReadFile(path.Join("programs", e.Name()))
		if err != nil {
			panic(err)
		}
		registry.Register(strings.TrimSuffix(e.Name(), registry.Ext), string(data))
	}
}

// Source returns the embedded source of a bundled program.
func Source(id string) (string, bool) {
	data, err := programs.ReadFile(path.Join("programs", id+registry.Ext))
	if err != nil {
		return "", false
	}
	return string(data), true
}
