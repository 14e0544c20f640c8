package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/myg-arcade/internal/registry"
	"github.com/vovakirdan/myg-arcade/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresPlayer string
	flagScoresClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores",
	Long: `Display the top high scores for a game, or a summary of every game
that has scores when no game is given.

Examples:
  myg scores
  myg scores snake
  myg scores snake --limit 25
  myg scores --player ann
  myg scores snake --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Show one player's most recent scores")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every score of the game")
}

func runScores(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case len(args) == 1 && flagScoresClear:
		if err := store.ClearScores(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			return
		}
		fmt.Printf("Cleared scores for %s\n", args[0])
	case len(args) == 1:
		showGameScores(store, args[0])
	case flagScoresPlayer != "":
		showPlayerScores(store, flagScoresPlayer)
	default:
		showSummary(store)
	}
}

func showGameScores(store *storage.Store, gameID string) {
	// Scores may belong to a game from another --games-dir, so an
	// unregistered ID only loses its title.
	title := gameID
	if game, err := registry.Get(gameID); err == nil {
		title = game.Title
	}

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'myg play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-10s  %-12s  %-7s  %s\n", "Rank", "Score", "Player", "Ticks", "Date")
	fmt.Printf("  %-4s  %-10s  %-12s  %-7s  %s\n", "----", "-----", "------", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %-12s  %-7d  %s\n",
			i+1, entry.Score, playerName(entry.Player), entry.Ticks, entry.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func showPlayerScores(store *storage.Store, player string) {
	scores, err := store.PlayerScores(player, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}
	if len(scores) == 0 {
		fmt.Printf("No scores recorded for %s.\n", player)
		return
	}

	fmt.Printf("Recent scores - %s\n\n", player)
	fmt.Printf("  %-12s  %-10s  %s\n", "Game", "Score", "Date")
	fmt.Printf("  %-12s  %-10s  %s\n", "----", "-----", "----")
	for _, entry := range scores {
		fmt.Printf("  %-12s  %-10d  %s\n", entry.GameID, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func showSummary(store *storage.Store) {
	stats, err := store.AllGamesStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}
	if len(stats) == 0 {
		fmt.Println("No scores recorded yet.")
		return
	}

	fmt.Printf("  %-12s  %-6s  %-6s  %-8s  %-8s  %s\n", "Game", "Games", "Best", "Average", "Longest", "Last played")
	fmt.Printf("  %-12s  %-6s  %-6s  %-8s  %-8s  %s\n", "----", "-----", "----", "-------", "-------", "-----------")
	for _, st := range stats {
		fmt.Printf("  %-12s  %-6d  %-6d  %-8.1f  %-8d  %s\n",
			st.GameID, st.GamesCount, st.HighScore, st.AvgScore, st.LongestRun, st.LastPlayed.Format("2006-01-02 15:04"))
	}
}

func playerName(p string) string {
	if p == "" {
		return "-"
	}
	return p
}
