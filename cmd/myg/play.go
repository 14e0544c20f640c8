package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/myg-arcade/internal/config"
	"github.com/vovakirdan/myg-arcade/internal/platform/tui"
	"github.com/vovakirdan/myg-arcade/internal/replay"
)

var (
	flagPace   string
	flagRecord string
	flagPlayer string
)

var playCmd = &cobra.Command{
	Use:   "play <file|game>",
	Short: "Play a game",
	Long: `Start playing the specified game. The argument is either a registered
game ID or a path to a .mygt file.

Controls:
  1-9        - Press the game's buttons in order
  Arrows/WASD, Space, Enter - Mapped to buttons by the config's key table
  P          - Pause
  R          - Restart (after the game stops)
  Ctrl+S     - Save a text screenshot to ~/.myg/screenshots
  Esc/Q      - Quit

Pace options (when the config's pace type is score or time):
  easy   - Start at the base tick rate, speed up to max
  normal - Start at 30% pace
  hard   - Start at 70% pace
  fixed  - No speed-up, stays at the base tick rate

Examples:
  myg play snake
  myg play snake --pace hard --tps 8
  myg play ./my-game.mygt --record run.mygr`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPace, "pace", "", "Pace preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Record every snapshot to this file")
	playCmd.Flags().StringVar(&flagPlayer, "player", os.Getenv("USER"), "Name saved with your scores")
}

func runPlay(_ *cobra.Command, args []string) {
	game, err := resolveGame(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'myg list' to see available games.")
		os.Exit(1)
	}

	cfg := appConfig
	config.ApplyPacePreset(&cfg, config.PacePreset(flagPace))

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	rt := runtimeConfig(width, height)

	opts := tui.PlayerOptions{
		Player: flagPlayer,
		Logger: playLogger(),
	}

	if flagRecord != "" {
		f, err := os.Create(flagRecord)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		rec, err := replay.NewRecorder(f)
		if err != nil {
			f.Close()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := rec.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: recording incomplete: %v\n", err)
			}
			f.Close()
			fmt.Printf("Recorded %d snapshots to %s\n", rec.Count(), flagRecord)
		}()
		opts.Recorder = rec
	}

	// Open score storage; the game still works without it.
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(game, store, cfg, rt, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
	}
}
