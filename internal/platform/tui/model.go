package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/myg-arcade/internal/config"
	"github.com/vovakirdan/myg-arcade/internal/core"
	"github.com/vovakirdan/myg-arcade/internal/interp"
	"github.com/vovakirdan/myg-arcade/internal/myg"
	"github.com/vovakirdan/myg-arcade/internal/registry"
	"github.com/vovakirdan/myg-arcade/internal/replay"
	"github.com/vovakirdan/myg-arcade/internal/session"
	"github.com/vovakirdan/myg-arcade/internal/storage"
)

// PlayerOptions are the optional parts of a Player.
type PlayerOptions struct {
	Player   string           // name saved with scores
	Logger   *log.Logger      // session and interpreter warnings
	Recorder *replay.Recorder // receives every snapshot when set
	Session  *session.Session // reuse a session, e.g. one tracked by a registry
	Embedded bool             // Esc returns to the menu instead of quitting
}

// Player is the Bubble Tea model that runs one MYG program.
type Player struct {
	game    registry.Game
	sess    *session.Session
	feed    *session.Feed
	store   *storage.Store
	cfg     config.Config
	rt      core.RuntimeConfig
	opts    PlayerOptions
	keys    *KeyMapper
	palette Palette
	pacer   *config.Pacer
	screen  *core.Screen

	rate       int
	snap       interp.Snapshot
	state      core.GameState
	diags      myg.Diagnostics
	err        error
	best       int
	scoreSaved bool
	quitting   bool
	backToMenu bool
}

// errMsg reports a failure to start the ticker.
type errMsg struct{ err error }

// NewPlayer loads game into a session. A program that does not parse leaves
// the player showing its diagnostics.
func NewPlayer(game registry.Game, store *storage.Store, cfg config.Config, rt core.RuntimeConfig, opts PlayerOptions) Player {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	logger := opts.Logger

	sess := opts.Session
	if sess == nil {
		sess = session.New(
			session.WithSeed(rt.Seed),
			session.WithMaxSteps(cfg.Runtime.MaxSteps),
			session.WithOverlays(cfg.InterpOverlays()),
			session.WithMaxTickRate(cfg.Runtime.MaxTickRate),
			session.WithLogger(logger.With("game", game.ID)),
		)
	}

	m := Player{
		game:    game,
		sess:    sess,
		feed:    session.NewFeed(8),
		store:   store,
		cfg:     cfg,
		rt:      rt,
		opts:    opts,
		keys:    NewKeyMapper(cfg.Keys),
		palette: NewPalette(cfg.Palette),
		pacer:   config.NewPacer(cfg),
		screen:  core.NewScreen(rt.ScreenW, rt.ScreenH),
		rate:    rt.TickRate,
	}
	if m.rate <= 0 {
		m.rate = cfg.Runtime.TickRate
	}

	m.diags = sess.Load(game.Source)
	m.snap = sess.Snapshot()
	if store != nil {
		m.best, _ = store.HighScore(game.ID)
	}
	m.record(m.snap)
	return m
}

// Init starts the ticker.
func (m Player) Init() tea.Cmd {
	if len(m.diags) > 0 {
		return nil
	}
	if err := m.sess.Start(session.PeriodForRate(m.rate), m.feed.Push); err != nil {
		return func() tea.Msg { return errMsg{err} }
	}
	return waitForSnapshot(m.feed)
}

// Update handles messages and updates the model state.
func (m Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.rt.ScreenW = msg.Width
		m.rt.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case SnapshotMsg:
		m.apply(interp.Snapshot(msg))
		m.adjustPace()
		return m, waitForSnapshot(m.feed)

	case errMsg:
		m.err = msg.err
		return m, nil

	case feedClosedMsg:
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Player) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.MapKey(msg) {
	case core.ActionQuit:
		m.shutdown()
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		m.shutdown()
		if m.opts.Embedded {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case core.ActionPause:
		m.togglePause()
		return m, nil

	case core.ActionRestart:
		if m.state.GameOver {
			return m.restart()
		}
		return m, nil
	}

	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	label, ok := m.keys.Button(msg.String(), m.snap.Buttons)
	if !ok || m.state.GameOver || m.state.Paused {
		return m, nil
	}
	snap, err := m.sess.PressButton(label)
	if err != nil && !errors.Is(err, session.ErrHalted) {
		m.err = err
		return m, nil
	}
	m.apply(snap)
	return m, nil
}

// apply records a new snapshot, saving the score once when the program stops.
func (m *Player) apply(snap interp.Snapshot) {
	if snap.Tick < m.snap.Tick {
		// A frame from before the last restart.
		return
	}
	m.snap = snap
	m.record(snap)
	m.state.Score = snap.Var(m.cfg.ScoreVar)
	m.state.Ticks = snap.Tick
	m.state.GameOver = snap.Halted

	if m.state.Score > m.best {
		m.best = m.state.Score
	}

	if m.state.GameOver && !m.scoreSaved && m.state.Score > 0 {
		if m.store != nil {
			_, err := m.store.SaveScore(storage.ScoreEntry{
				GameID: m.game.ID,
				Player: m.opts.Player,
				Score:  m.state.Score,
				Ticks:  m.state.Ticks,
			})
			if err != nil {
				m.logger().Warn("could not save score", "error", err)
			}
		}
		m.scoreSaved = true
	}
}

func (m *Player) record(snap interp.Snapshot) {
	if m.opts.Recorder == nil {
		return
	}
	if err := m.opts.Recorder.Write(snap); err != nil {
		m.logger().Warn("recording stopped", "error", err)
		m.opts.Recorder = nil
	}
}

// adjustPace restarts the ticker when the pacer asks for a new rate.
func (m *Player) adjustPace() {
	if !m.pacer.IsEnabled() || m.state.GameOver || m.state.Paused {
		return
	}
	rate := m.pacer.Rate(m.state.Score, m.state.Ticks)
	if rate == m.rate {
		return
	}
	m.sess.Stop()
	if err := m.sess.Start(session.PeriodForRate(rate), m.feed.Push); err != nil {
		if !errors.Is(err, session.ErrHalted) {
			m.err = err
		}
		return
	}
	m.logger().Debug("pace changed", "from", m.rate, "to", rate)
	m.rate = rate
}

func (m *Player) togglePause() {
	switch m.sess.Status() {
	case session.StatusRunning:
		m.sess.Stop()
		m.state.Paused = true
	case session.StatusLoaded:
		if err := m.sess.Start(session.PeriodForRate(m.rate), m.feed.Push); err != nil {
			m.err = err
			return
		}
		m.state.Paused = false
	}
}

// restart reloads the program with a fresh state.
func (m Player) restart() (tea.Model, tea.Cmd) {
	m.diags = m.sess.Load(m.game.Source)
	m.feed.Drain()
	m.snap = m.sess.Snapshot()
	m.state = core.GameState{}
	m.scoreSaved = false
	m.err = nil
	m.rate = m.rt.TickRate
	if m.rate <= 0 {
		m.rate = m.cfg.Runtime.TickRate
	}
	if len(m.diags) > 0 {
		return m, nil
	}
	if err := m.sess.Start(session.PeriodForRate(m.rate), m.feed.Push); err != nil {
		m.err = err
	}
	return m, nil
}

// shutdown stops the ticker and the feed.
func (m *Player) shutdown() {
	m.sess.Close()
	m.feed.Close()
}

func (m *Player) logger() *log.Logger {
	return m.opts.Logger
}

// saveScreenshot saves the current frame as plain text.
func (m *Player) saveScreenshot() {
	m.draw()

	dir := filepath.Join(os.Getenv("HOME"), ".myg", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger().Warn("could not save screenshot", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID, timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger().Warn("could not save screenshot", "error", err)
	}
}

// status is the line under the display variables.
func (m Player) status() string {
	switch {
	case m.err != nil:
		return "error: " + m.err.Error()
	case m.state.GameOver:
		return fmt.Sprintf("GAME OVER  tick %d  best %d   r restart  esc back  q quit", m.snap.Tick, m.best)
	case m.state.Paused:
		return fmt.Sprintf("PAUSED  tick %d   p resume  esc back  q quit", m.snap.Tick)
	default:
		return fmt.Sprintf("tick %d  %d tps  best %d   p pause  esc back  q quit", m.snap.Tick, m.rate, m.best)
	}
}

// draw renders the frame into the screen buffer.
func (m *Player) draw() {
	m.screen.Clear()

	if len(m.diags) > 0 {
		m.screen.DrawTextColor(1, 1, fmt.Sprintf("%s does not load:", m.game.ID), core.ColorBrightRed)
		for i, d := range m.diags {
			m.screen.DrawText(3, 3+i, d.Error())
		}
		m.screen.DrawTextColor(1, 4+len(m.diags), "esc back  q quit", core.ColorGray)
		return
	}

	height := 1 + boardHeight + hudLines
	if m.screen.Width() < boardWidth || m.screen.Height() < height {
		m.screen.DrawText(0, 0, fmt.Sprintf("Terminal too small: need %dx%d, have %dx%d",
			boardWidth, height, m.screen.Width(), m.screen.Height()))
		return
	}

	area := m.screen.Bounds().Centered(boardWidth, height)
	m.screen.DrawTextColor(area.X, area.Y, m.game.Title, core.ColorBrightYellow)
	DrawBoard(m.screen, m.snap, m.palette, area.X, area.Y+1)
	hudY := area.Y + 1 + boardHeight
	DrawHUD(m.screen, m.snap, m.status(), area.X, hudY)
	DrawLegend(m.screen, m.keys, m.snap.Buttons, area.X, hudY+2)
}

// View renders the current state to a string for display.
func (m Player) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	m.draw()
	return RenderScreen(m.screen)
}

// State returns the game state shown to the player.
func (m Player) State() core.GameState {
	return m.state
}

// IsQuitting returns true if user requested to quit entirely.
func (m Player) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Player) BackToMenu() bool {
	return m.backToMenu
}

// Run plays game in the terminal until the player quits.
func Run(game registry.Game, store *storage.Store, cfg config.Config, rt core.RuntimeConfig, opts PlayerOptions) error {
	model := NewPlayer(game, store, cfg, rt, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	model.shutdown()
	return err
}
