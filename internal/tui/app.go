// Package tui renders a recording in the caller's terminal. The emulated
// screen fills the window, a status bar takes the bottom two rows, and a
// single Bubble Tea event loop serializes the frame clock and the keyboard,
// so the controller and the terminal never see concurrent access.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ttyrew/ttyrew/internal/charset"
	"github.com/ttyrew/ttyrew/internal/emu"
	"github.com/ttyrew/ttyrew/internal/logging"
	"github.com/ttyrew/ttyrew/internal/player"
	"github.com/ttyrew/ttyrew/internal/source"
	"github.com/ttyrew/ttyrew/internal/timeline"
	"github.com/ttyrew/ttyrew/internal/ttyrec"
	"github.com/ttyrew/ttyrew/internal/tui/styles"
)

// seekGrace is how long the clock holds still after a seek so the user can
// see the landing frame before playback moves on.
const seekGrace = 500 * time.Millisecond

// Options configures a playback session.
type Options struct {
	// Target is a file path or an http(s) URL.
	Target string

	// Timestep and Timecap feed timeline.Build. CapEnabled sets the
	// initial timecap state; the c key toggles it live.
	Timestep   uint64
	Timecap    uint64
	CapEnabled bool

	Speed float64

	// Cols and Rows size the emulated terminal, independent of the
	// window the player runs in.
	Cols, Rows int

	// DisplayCols and DisplayRows crop the rendered view to a fixed
	// geometry. Zero means follow the window.
	DisplayCols, DisplayRows int

	// Encoding forces the payload charset. Empty means autodetect.
	Encoding string

	// ShowUI sets the initial status bar visibility.
	ShowUI        bool
	ProgressWidth int

	Logger *slog.Logger
}

// Model is the Bubble Tea model for a playback session.
type Model struct {
	opts   Options
	logger *slog.Logger

	width  int
	height int

	loading bool
	err     error

	ctrl  *player.Controller
	term  *emu.Terminal
	epoch time.Time

	showHelp bool
	keys     keyMap
	help     help.Model

	// gen invalidates in-flight ticks: every scheduling change bumps it,
	// and a tickMsg carrying a stale gen is dropped.
	gen      int
	lastTick time.Time
	grace    time.Time

	quitting bool
}

// NewModel builds the initial model. The recording is loaded
// asynchronously by Init.
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	h := help.New()
	h.ShowAll = true
	return Model{
		opts:    opts,
		logger:  opts.Logger,
		loading: true,
		keys:    defaultKeyMap(),
		help:    h,
	}
}

type tickMsg struct{ gen int }

type loadedMsg struct {
	ctrl  *player.Controller
	term  *emu.Terminal
	epoch time.Time
}

type loadFailedMsg struct{ err error }

// Init kicks off loading the recording.
func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	opts := m.opts
	logger := m.logger
	return func() tea.Msg {
		rc, err := source.Open(context.Background(), opts.Target)
		if err != nil {
			return loadFailedMsg{err}
		}
		defer rc.Close()

		recs, epoch, err := ttyrec.ReadAll(rc)
		if err != nil {
			var corrupt *ttyrec.CorruptError
			if !errors.As(err, &corrupt) || len(recs) == 0 {
				return loadFailedMsg{err}
			}
			// A truncated or garbled tail still leaves a playable prefix.
			logger.Warn("recording has a corrupt tail, playing the valid prefix",
				"target", opts.Target,
				"frames", len(recs),
				"offset", corrupt.Offset)
		}

		var enc charset.Encoding
		if opts.Encoding != "" {
			enc, err = charset.Parse(opts.Encoding)
			if err != nil {
				return loadFailedMsg{err}
			}
		} else {
			samples := make([][]byte, len(recs))
			for i, r := range recs {
				samples[i] = r.Data
			}
			enc = charset.Detect(samples)
		}

		tl, err := timeline.Build(recs, timeline.Options{
			Timestep:   opts.Timestep,
			Timecap:    opts.Timecap,
			CapEnabled: opts.CapEnabled,
		})
		if err != nil {
			return loadFailedMsg{err}
		}

		term, err := emu.New(opts.Cols, opts.Rows, enc)
		if err != nil {
			return loadFailedMsg{err}
		}

		ctrl := player.NewController(tl, term, player.Config{
			Speed:     opts.Speed,
			UIVisible: opts.ShowUI,
		})
		logger.Info("recording loaded",
			"target", opts.Target,
			"frames", tl.Len(),
			"duration", time.Duration(tl.RawDuration())*time.Microsecond,
			"encoding", enc.String())
		return loadedMsg{ctrl: ctrl, term: term, epoch: epoch}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		// Some environments report no size; assume a classic terminal.
		if msg.Width <= 0 || msg.Height <= 0 {
			msg.Width, msg.Height = 80, 24
		}
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		m.loading = false
		m.ctrl = msg.ctrl
		m.term = msg.term
		m.epoch = msg.epoch
		// Paint everything due at time zero before the clock starts.
		if err := m.ctrl.Tick(0); err != nil {
			return m.fatal(err)
		}
		now := time.Now()
		m.lastTick = now
		return m, m.armTick(now)

	case loadFailedMsg:
		return m.fatal(msg.err)

	case tickMsg:
		if m.ctrl == nil || msg.gen != m.gen {
			return m, nil
		}
		now := time.Now()
		wall := now.Sub(m.lastTick)
		if wall < 0 {
			wall = 0
		}
		m.lastTick = now
		if err := m.ctrl.Tick(wall); err != nil {
			return m.fatal(err)
		}
		return m, m.armTick(now)
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}

	if m.showHelp {
		if msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}
	if m.ctrl == nil {
		return m, nil
	}

	now := time.Now()
	scale := seekScale(m.ctrl.Speed())

	switch {
	case key.Matches(msg, m.keys.PlayPause):
		m.ctrl.TogglePlayPause()
		if !m.ctrl.Playing() {
			m.gen++
			return m, nil
		}
		return m.rearm(now)

	case key.Matches(msg, m.keys.Forward):
		return m.seekBy(now, scale, time.Duration(scale)*time.Second)
	case key.Matches(msg, m.keys.ForwardBig):
		return m.seekBy(now, 10*scale, time.Duration(5*scale)*time.Second)
	case key.Matches(msg, m.keys.ForwardPage):
		return m.seekBy(now, 100*scale, time.Duration(30*scale)*time.Second)
	case key.Matches(msg, m.keys.Back):
		return m.seekBy(now, -scale, -time.Duration(scale)*time.Second)
	case key.Matches(msg, m.keys.BackBig):
		return m.seekBy(now, -10*scale, -time.Duration(5*scale)*time.Second)
	case key.Matches(msg, m.keys.BackPage):
		return m.seekBy(now, -100*scale, -time.Duration(30*scale)*time.Second)

	case key.Matches(msg, m.keys.Home):
		if err := m.ctrl.JumpToStart(); err != nil {
			return m.fatal(err)
		}
		return m.afterSeek(now)
	case key.Matches(msg, m.keys.End):
		if err := m.ctrl.JumpToEnd(); err != nil {
			return m.fatal(err)
		}
		return m.afterSeek(now)

	case key.Matches(msg, m.keys.SpeedUp):
		return m.withClockChange(now, func(c *player.Controller) error {
			c.MultiplySpeed(2)
			return nil
		})
	case key.Matches(msg, m.keys.SpeedDown):
		return m.withClockChange(now, func(c *player.Controller) error {
			c.MultiplySpeed(0.5)
			return nil
		})
	case key.Matches(msg, m.keys.Timecap):
		return m.withClockChange(now, func(c *player.Controller) error {
			c.ToggleTimecap()
			return nil
		})

	case key.Matches(msg, m.keys.SeekMode):
		m.ctrl.ToggleSeekMode()
		return m, nil
	case key.Matches(msg, m.keys.ToggleUI):
		m.ctrl.ToggleUI()
		return m, nil
	}
	return m, nil
}

func (m Model) seekBy(now time.Time, frames int, dur time.Duration) (tea.Model, tea.Cmd) {
	if err := m.ctrl.SeekRelative(frames, dur); err != nil {
		return m.fatal(err)
	}
	return m.afterSeek(now)
}

// afterSeek starts the post-seek hold and reschedules the clock.
func (m Model) afterSeek(now time.Time) (tea.Model, tea.Cmd) {
	m.grace = now.Add(seekGrace)
	return m.rearm(now)
}

// withClockChange settles the clock at the old rate before change runs, so
// wall time already spent inside the current frame is not re-priced.
func (m Model) withClockChange(now time.Time, change func(*player.Controller) error) (tea.Model, tea.Cmd) {
	if m.ctrl.Playing() {
		if wall := now.Sub(m.lastTick); wall > 0 {
			if err := m.ctrl.Tick(wall); err != nil {
				return m.fatal(err)
			}
		}
	}
	if err := change(m.ctrl); err != nil {
		return m.fatal(err)
	}
	return m.rearm(now)
}

// rearm invalidates any pending tick and schedules a fresh one. The clock
// anchor lands at the end of an active grace hold so held time is never
// billed as playback.
func (m Model) rearm(now time.Time) (tea.Model, tea.Cmd) {
	m.gen++
	anchor := now
	if m.grace.After(now) {
		anchor = m.grace
	}
	m.lastTick = anchor
	return m, m.armTick(now)
}

// armTick schedules the next clock tick, or nothing when the controller is
// paused, drained, or empty.
func (m Model) armTick(now time.Time) tea.Cmd {
	if !m.ctrl.Playing() {
		return nil
	}
	wait, ok := m.ctrl.NextWait()
	if !ok {
		return nil
	}
	if wait < time.Millisecond {
		wait = time.Millisecond
	}
	if hold := m.grace.Sub(now); hold > 0 {
		wait += hold
	}
	gen := m.gen
	return tea.Tick(wait, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (m Model) fatal(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.quitting = true
	return m, tea.Quit
}

// View renders the emulated screen plus the status bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.loading || m.width == 0 {
		return "Loading " + m.opts.Target + "..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	cols, rows := m.width, m.height
	if m.opts.DisplayCols > 0 && m.opts.DisplayCols < cols {
		cols = m.opts.DisplayCols
	}
	if m.opts.DisplayRows > 0 && m.opts.DisplayRows < rows {
		rows = m.opts.DisplayRows
	}
	showUI := m.ctrl.UIVisible()
	if showUI && rows > statusBarHeight {
		rows -= statusBarHeight
	}
	lines := m.term.Render(cols, rows)
	screen := strings.Join(lines, "\n")
	if !showUI {
		return screen
	}
	if pad := rows - len(lines); pad > 0 {
		screen += strings.Repeat("\n", pad)
	}
	return lipgloss.JoinVertical(lipgloss.Left, screen, m.renderStatusBar())
}

func (m Model) renderHelp() string {
	title := styles.Title.Render("ttyrew controls")
	body := m.help.View(m.keys)
	hint := styles.Dim.Render("press ? or esc to close")
	content := lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint)
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Padding(1, 2).Render(content))
}

// Run plays the recording until the user quits or playback fails.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		if fm.term != nil {
			fm.term.Close()
		}
		if err == nil {
			err = fm.err
		}
	}
	return err
}
