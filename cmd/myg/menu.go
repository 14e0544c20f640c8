package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/myg-arcade/internal/config"
	"github.com/vovakirdan/myg-arcade/internal/platform/tui"
	"github.com/vovakirdan/myg-arcade/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the arcade with a game picker menu",
	Long: `Start the arcade in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game.
After a game ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select game
  Tab          - High scores
  Q            - Quit

Examples:
  myg menu
  myg menu --tps 15
  myg menu --games-dir ./games`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagPace, "pace", "", "Pace preset: easy, normal, hard, fixed")
	menuCmd.Flags().StringVar(&flagPlayer, "player", os.Getenv("USER"), "Name saved with your scores")
}

func runMenu(_ *cobra.Command, _ []string) {
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	rt := runtimeConfig(width, height)

	cfg := appConfig
	config.ApplyPacePreset(&cfg, config.PacePreset(flagPace))

	for {
		menuResult, err := tui.RunMenu(store, rt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}

		// Keep any size changes
		rt = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, rt.ScreenW, rt.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return
		}

		if menuResult.GameID == "" {
			return
		}

		game, err := registry.Get(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		opts := tui.PlayerOptions{
			Player: flagPlayer,
			Logger: playLogger(),
		}
		if err := tui.Run(game, store, cfg, rt, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}
}
