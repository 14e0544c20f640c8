// myg runs MYG grid games in the terminal.
//
// Usage:
//
//	myg list                   - List available games
//	myg check <file|game>...   - Check programs for errors
//	myg play <file|game>       - Play a game
//	myg menu                   - Start menu to pick games interactively
//	myg replay <subcommand>    - Record, show and verify snapshot streams
//	myg serve                  - Start SSH server for remote play
//	myg scores [game]          - Show high scores
//
// Global flags:
//
//	--tps <rate>         - Set tick rate (default: from config, 10)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.myg/scores.db)
//	--config <path>      - Use a custom config YAML
//	--games-dir <dir>    - Register every .mygt file in dir
//	--log-level <level>  - debug, info, warn or error
//	--log-file <path>    - Write logs to a file (needed to see logs while playing)
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/myg-arcade/internal/config"
	"github.com/vovakirdan/myg-arcade/internal/core"
	_ "github.com/vovakirdan/myg-arcade/internal/games" // bundled programs
	"github.com/vovakirdan/myg-arcade/internal/interp"
	"github.com/vovakirdan/myg-arcade/internal/registry"
	"github.com/vovakirdan/myg-arcade/internal/session"
	"github.com/vovakirdan/myg-arcade/internal/storage"
)

var (
	// Global flags
	flagTPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagGamesDir string
	flagLogLevel string
	flagLogFile  string

	// Set up by the root command before any subcommand runs.
	appConfig config.Config
	logger    *log.Logger
	logFile   *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "myg",
	Short: "MYG - grid games written in a tiny language",
	Long: `MYG runs small grid games written in the MYG language. Each game is a
plain-text program with variables, buttons and a main loop that draws on
a 32x32 grid.

Available commands:
  list     - Show all available games
  check    - Check programs for errors
  play     - Play a game or a .mygt file directly
  menu     - Interactive game picker menu
  replay   - Record, show and verify snapshot streams
  serve    - Start SSH server for remote play
  scores   - View high scores

Examples:
  myg list
  myg play snake
  myg play ./my-game.mygt --pace normal
  myg check ./my-game.mygt --ticks 100
  myg serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagTPS, "tps", 0, "Tick rate in ticks per second (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = from config, random if unset there)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.myg/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagGamesDir, "games-dir", "", "Directory of .mygt programs to register")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// setup builds the logger, loads the config and registers --games-dir.
func setup(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	var out io.Writer = os.Stderr
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		logFile = f
		out = f
	}
	logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "myg",
		Level:           level,
	})

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagTPS > 0 {
		cfg.Runtime.TickRate = flagTPS
	}
	if flagSeed != 0 {
		cfg.Runtime.Seed = flagSeed
	}
	appConfig = cfg

	if flagGamesDir != "" {
		n, err := registry.LoadDir(flagGamesDir)
		if err != nil {
			logger.Warn("some games were skipped", "dir", flagGamesDir, "error", err)
		}
		logger.Info("registered games", "dir", flagGamesDir, "count", n)
	}
	return nil
}

// playLogger is the logger handed to full-screen players. Logs on stderr
// would draw over the game, so they are only kept when going to a file.
func playLogger() *log.Logger {
	if logFile == nil {
		return nil
	}
	return logger
}

// runtimeConfig returns the host settings for a terminal of the given size.
func runtimeConfig(width, height int) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: appConfig.Runtime.TickRate,
		Seed:     appConfig.Runtime.Seed,
	}
}

// sessionOptions configures a session from the loaded config.
func sessionOptions(seed int64) []session.Option {
	return []session.Option{
		session.WithSeed(seed),
		session.WithMaxSteps(appConfig.Runtime.MaxSteps),
		session.WithOverlays(appConfig.InterpOverlays()),
		session.WithMaxTickRate(appConfig.Runtime.MaxTickRate),
		session.WithLogger(logger),
	}
}

// machineOptions builds the interpreter options for a headless machine from
// the loaded config.
func machineOptions(seed int64) interp.Options {
	return interp.Options{
		Seed:     seed,
		MaxSteps: appConfig.Runtime.MaxSteps,
		Overlays: appConfig.InterpOverlays(),
		Logger:   logger,
	}
}

// resolveGame finds a game by registry ID, or reads it from disk when arg
// names a file.
func resolveGame(arg string) (registry.Game, error) {
	if strings.HasSuffix(arg, registry.Ext) || strings.ContainsRune(arg, os.PathSeparator) {
		data, err := os.ReadFile(arg)
		if err != nil {
			return registry.Game{}, err
		}
		source := string(data)
		id := strings.TrimSuffix(filepath.Base(arg), registry.Ext)
		return registry.Game{
			ID:     id,
			Title:  registry.TitleOf(source, id),
			Source: source,
			Origin: arg,
		}, nil
	}
	return registry.Get(arg)
}

// openStore opens the scores database, warning and continuing without it
// on failure.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}
