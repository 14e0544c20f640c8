// Package tui provides the Bubble Tea hosts for MYG programs: the player,
// the game picker, the scoreboard, and the SSH server that serves them.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/myg-arcade/internal/interp"
	"github.com/vovakirdan/myg-arcade/internal/session"
)

// SnapshotMsg carries a snapshot produced by the session's ticker.
type SnapshotMsg interp.Snapshot

// feedClosedMsg is sent when the feed a model waits on is closed.
type feedClosedMsg struct{}

// waitForSnapshot returns a command that blocks until the next snapshot
// arrives on feed. The model re-issues it after every SnapshotMsg.
func waitForSnapshot(feed *session.Feed) tea.Cmd {
	return func() tea.Msg {
		select {
		case snap := <-feed.C():
			return SnapshotMsg(snap)
		case <-feed.Done():
			return feedClosedMsg{}
		}
	}
}
