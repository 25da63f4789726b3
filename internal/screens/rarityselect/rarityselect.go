// Package rarityselect lets the player pick which rarity tier to draw
// questions from.
package rarityselect

import (
	"errors"
	"fmt"
	"log"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexicon/internal/grading"
	"github.com/abhisek/lexicon/internal/question"
	"github.com/abhisek/lexicon/internal/router"
	"github.com/abhisek/lexicon/internal/screen"
	"github.com/abhisek/lexicon/internal/screens/round"
	"github.com/abhisek/lexicon/internal/session"
	"github.com/abhisek/lexicon/internal/terms"
	"github.com/abhisek/lexicon/internal/ui/components"
	"github.com/abhisek/lexicon/internal/ui/theme"
)

// RarityScreen shows the filter list for the mode chosen on the menu.
type RarityScreen struct {
	machine *session.Machine
	grader  *grading.Grader
	menu    components.Menu
}

var (
	_ screen.Screen = (*RarityScreen)(nil)
	_ screen.Closer = (*RarityScreen)(nil)
)

// New creates a RarityScreen. The machine must be in rarity selection.
func New(m *session.Machine, g *grading.Grader) *RarityScreen {
	s := &RarityScreen{machine: m, grader: g}

	counts := terms.CountByRarity()
	var items []components.MenuItem
	for _, f := range question.Filters() {
		hint := fmt.Sprintf("%d terms", len(terms.All()))
		if t, ok := f.Tier(); ok {
			hint = fmt.Sprintf("+%d XP · %d terms", t.XP(), counts[t])
		}
		items = append(items, components.MenuItem{
			Label:  label(f),
			Hint:   hint,
			Action: func() tea.Cmd { return s.choose(f) },
		})
	}
	s.menu = components.NewMenu(items)
	return s
}

func label(f question.Filter) string {
	if t, ok := f.Tier(); ok {
		return t.Icon() + " " + t.DisplayName()
	}
	return "✦ " + f.DisplayName()
}

func (s *RarityScreen) choose(f question.Filter) tea.Cmd {
	err := s.machine.ChooseFilter(f)
	switch {
	case errors.Is(err, question.ErrEmptyPool):
		s.machine.ReturnToMenu()
		text := fmt.Sprintf("No %s terms to play", strings.ToLower(f.DisplayName()))
		return tea.Sequence(router.Pop(), func() tea.Msg {
			return screen.NoticeMsg{Text: text}
		})
	case err != nil:
		log.Printf("rarity: choose filter %s: %v", f, err)
		return nil
	}
	return router.Push(round.New(s.machine, s.grader))
}

func (s *RarityScreen) Init() tea.Cmd {
	return nil
}

func (s *RarityScreen) Title() string {
	return s.machine.Mode().DisplayName()
}

// Close returns the machine to the menu when the screen leaves the stack.
func (s *RarityScreen) Close() {
	s.machine.ReturnToMenu()
}

func (s *RarityScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *RarityScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	heading := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).
		Render(strings.ToUpper(s.machine.Mode().DisplayName()))
	desc := lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw).Align(lipgloss.Center).
		Render(s.machine.Mode().Description())
	prompt := lipgloss.NewStyle().Foreground(theme.Text).Render("Choose a rarity")

	content := lipgloss.JoinVertical(lipgloss.Center,
		heading, desc, "", prompt, "",
		components.ArcadeCard(strings.TrimRight(s.menu.View(), "\n"), cw),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
