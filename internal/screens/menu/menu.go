// Package menu is the root screen: game modes, the live leaderboard and the
// player's stats.
package menu

import (
	"log"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lexicon/internal/grading"
	"github.com/abhisek/lexicon/internal/mode"
	"github.com/abhisek/lexicon/internal/router"
	"github.com/abhisek/lexicon/internal/screen"
	"github.com/abhisek/lexicon/internal/screens/judgelog"
	"github.com/abhisek/lexicon/internal/screens/profile"
	"github.com/abhisek/lexicon/internal/screens/rarityselect"
	"github.com/abhisek/lexicon/internal/session"
	"github.com/abhisek/lexicon/internal/store"
	"github.com/abhisek/lexicon/internal/ui/components"
)

// LeaderboardSize is how many entries the menu shows.
const LeaderboardSize = 5

// LeaderboardMsg delivers a fresh ranked leaderboard snapshot.
type LeaderboardMsg struct {
	Entries []store.LeaderboardEntry
}

// Deps are the collaborators the menu hands to the screens it opens.
type Deps struct {
	Machine *session.Machine
	Grader  *grading.Grader

	// Events backs the judge log. Nil hides it.
	Events store.JudgeEventRepo

	// RemoteJudge is false when free-text answers are graded locally only.
	RemoteJudge bool
}

// MenuScreen is the root screen of the application.
type MenuScreen struct {
	deps    Deps
	menu    components.Menu
	labels  []string
	entries []store.LeaderboardEntry
	notice  string
}

var _ screen.Screen = (*MenuScreen)(nil)

// New creates a MenuScreen.
func New(deps Deps) *MenuScreen {
	s := &MenuScreen{deps: deps}

	var items []components.MenuItem
	for _, md := range mode.All() {
		items = append(items, components.MenuItem{
			Label:  strings.ToUpper(md.DisplayName()),
			Hint:   md.Description(),
			Action: func() tea.Cmd { return s.play(md) },
		})
	}
	items = append(items,
		components.MenuItem{Label: "CHANGE NAME", Hint: "Set the name shown on the leaderboard", Action: func() tea.Cmd {
			return router.Push(profile.New(deps.Machine.Keeper()))
		}},
		components.MenuItem{Label: "JUDGE LOG", Hint: "Answers checked by the judge", Disabled: deps.Events == nil, Action: func() tea.Cmd {
			return router.Push(judgelog.New(deps.Events))
		}},
		components.MenuItem{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	)

	s.menu = components.NewMenu(items)
	for _, it := range items {
		s.labels = append(s.labels, it.Label)
	}
	return s
}

func (s *MenuScreen) play(md mode.Mode) tea.Cmd {
	if err := s.deps.Machine.ChooseMode(md); err != nil {
		log.Printf("menu: choose mode %s: %v", md, err)
		return nil
	}
	s.notice = ""
	return router.Push(rarityselect.New(s.deps.Machine, s.deps.Grader))
}

func (s *MenuScreen) Init() tea.Cmd {
	return nil
}

func (s *MenuScreen) Title() string {
	return "Menu"
}

func (s *MenuScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case LeaderboardMsg:
		s.entries = msg.Entries
		return s, nil
	case screen.NoticeMsg:
		s.notice = msg.Text
		return s, nil
	case tea.KeyPressMsg:
		s.notice = ""
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *MenuScreen) View(width, height int) string {
	// height is the content area; add back header and footer
	termHeight := height + 8
	compact := termHeight < 48 || width < 90
	banner := termHeight >= 56 && width >= 90

	cw := components.ContentWidth(width)
	k := s.deps.Machine.Keeper()

	sections := []string{
		renderTitle(width, cw, !banner),
		renderStatsBar(k.Profile().DisplayName, k.HighScore(), cw, compact),
		renderLeaderboard(s.entries, k.UID(), cw),
	}
	if !s.deps.RemoteJudge {
		sections = append(sections, renderJudgeBanner(cw))
	}

	disabled := make(map[int]bool)
	for i, it := range s.menu.Items {
		disabled[i] = it.Disabled
	}
	if compact {
		sections = append(sections, renderArcadeMenuCompact(s.labels, s.menu.Selected, cw, disabled))
	} else {
		sections = append(sections, renderArcadeMenu(s.labels, s.menu.Selected, cw, disabled))
	}
	sections = append(sections, renderHint(s.selectedHint(), cw))

	if s.notice != "" {
		sections = append(sections, renderNotice(s.notice, cw))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (s *MenuScreen) selectedHint() string {
	if s.menu.Selected < 0 || s.menu.Selected >= len(s.menu.Items) {
		return ""
	}
	return s.menu.Items[s.menu.Selected].Hint
}
