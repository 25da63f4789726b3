// Package app wires the screens into the root Bubble Tea program.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexicon/internal/grading"
	"github.com/abhisek/lexicon/internal/router"
	"github.com/abhisek/lexicon/internal/score"
	"github.com/abhisek/lexicon/internal/screen"
	"github.com/abhisek/lexicon/internal/screens/menu"
	"github.com/abhisek/lexicon/internal/screens/welcome"
	"github.com/abhisek/lexicon/internal/session"
	"github.com/abhisek/lexicon/internal/store"
	"github.com/abhisek/lexicon/internal/ui/layout"
)

// Options holds the collaborators of a play session.
type Options struct {
	Machine *session.Machine
	Grader  *grading.Grader
	Board   store.LeaderboardRepo
	Events  store.JudgeEventRepo

	// RemoteJudge reports whether free text is graded by an LLM.
	RemoteJudge bool

	// LogPath receives the log while the TUI owns the terminal. Empty
	// leaves logging untouched.
	LogPath string

	// SkipWelcome starts on the menu.
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	keeper *score.Keeper
	feed   *feed
	width  int
	height int
}

// newAppModel creates the root model, starting on the welcome screen unless
// skipped.
func newAppModel(opts Options, f *feed) AppModel {
	deps := menu.Deps{
		Machine:     opts.Machine,
		Grader:      opts.Grader,
		Events:      opts.Events,
		RemoteJudge: opts.RemoteJudge,
	}
	menuFactory := func() screen.Screen { return menu.New(deps) }

	var root screen.Screen
	if opts.SkipWelcome {
		root = menuFactory()
	} else {
		root = welcome.New(menuFactory)
	}

	return AppModel{
		router: router.New(root),
		keeper: opts.Machine.Keeper(),
		feed:   f,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.feed.next())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case menu.LeaderboardMsg:
		m.feed.remember(msg.Entries)
		return m, tea.Batch(m.router.Broadcast(msg), m.feed.next())

	case router.ReplaceScreenMsg:
		// The new screen has never seen the feed.
		cmd := m.router.Update(msg)
		return m, tea.Batch(cmd, m.router.Broadcast(menu.LeaderboardMsg{Entries: m.feed.snapshot()}))

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if b, ok := m.router.Active().(screen.Backer); ok {
				return m, b.Back()
			}
			if m.router.Depth() > 1 {
				return m, router.Pop()
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.keeper.Session(), m.keeper.HighScore(), m.width)

	var footerHints []layout.KeyHint
	switch {
	case active != nil && isHintProvider(active):
		footerHints = active.(screen.KeyHintProvider).KeyHints()
	case m.router.Depth() > 1:
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	default:
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func isHintProvider(s screen.Screen) bool {
	_, ok := s.(screen.KeyHintProvider)
	return ok
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	if opts.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogPath), 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		lf, err := tea.LogToFile(opts.LogPath, "lexicon")
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer lf.Close()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var f *feed
	if opts.Board != nil {
		f = newFeed()
		stop, err := opts.Board.Watch(ctx, menu.LeaderboardSize, f.publish)
		if err != nil {
			log.Printf("app: leaderboard watch: %v", err)
			f = nil
		} else {
			defer stop()
		}
	}

	defer f.close()

	p := tea.NewProgram(newAppModel(opts, f), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
