// Package profile lets the player change their display name.
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexicon/internal/router"
	"github.com/abhisek/lexicon/internal/score"
	"github.com/abhisek/lexicon/internal/screen"
	"github.com/abhisek/lexicon/internal/ui/components"
	"github.com/abhisek/lexicon/internal/ui/layout"
	"github.com/abhisek/lexicon/internal/ui/theme"
)

const saveTimeout = 5 * time.Second

type savedMsg struct {
	name string
	err  error
}

// ProfileScreen edits the display name shown on the leaderboard.
type ProfileScreen struct {
	keeper *score.Keeper
	input  components.TextInput
	saving bool
	errMsg string
}

var (
	_ screen.Screen          = (*ProfileScreen)(nil)
	_ screen.KeyHintProvider = (*ProfileScreen)(nil)
)

// New creates a ProfileScreen prefilled with the current name.
func New(k *score.Keeper) *ProfileScreen {
	in := components.NewTextInput(score.DefaultName, score.MaxNameLen)
	in.SetValue(k.Profile().DisplayName)
	return &ProfileScreen{keeper: k, input: in}
}

func (s *ProfileScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *ProfileScreen) Title() string {
	return "Profile"
}

func (s *ProfileScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		s.saving = false
		switch {
		case errors.Is(msg.err, score.ErrEmptyName):
			s.errMsg = "Name cannot be empty"
			return s, nil
		case msg.err != nil:
			s.errMsg = "Saved locally; the store rejected it: " + msg.err.Error()
			return s, nil
		}
		text := fmt.Sprintf("Playing as %s", msg.name)
		return s, tea.Sequence(router.Pop(), func() tea.Msg {
			return screen.NoticeMsg{Text: text}
		})

	case tea.KeyPressMsg:
		if s.saving {
			return s, nil
		}
		if msg.String() == "enter" {
			s.saving = true
			return s, s.save(s.input.Value())
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ProfileScreen) save(name string) tea.Cmd {
	k := s.keeper
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		stored, err := k.SetDisplayName(ctx, name)
		return savedMsg{name: stored, err: err}
	}
}

func (s *ProfileScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	body := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Your name") + "\n\n" +
		s.input.View() + "\n\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("Up to %d characters · shown on the leaderboard", score.MaxNameLen))
	if s.errMsg != "" {
		body += "\n\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.ArcadeCard(body, cw))
}
