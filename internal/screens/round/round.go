// Package round renders a game round: the question, the answer widgets, the
// countdown and the feedback.
package round

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexicon/internal/grading"
	"github.com/abhisek/lexicon/internal/judge"
	"github.com/abhisek/lexicon/internal/router"
	"github.com/abhisek/lexicon/internal/score"
	"github.com/abhisek/lexicon/internal/screen"
	"github.com/abhisek/lexicon/internal/session"
	"github.com/abhisek/lexicon/internal/ui/components"
	"github.com/abhisek/lexicon/internal/ui/layout"
	"github.com/abhisek/lexicon/internal/ui/theme"
)

// persistTimeout bounds a single high-score write.
const persistTimeout = 5 * time.Second

// gradedMsg carries the grade of a submitted answer back to the screen.
type gradedMsg struct {
	pending session.Pending
	result  grading.Result
	err     error
}

// RoundScreen drives a session.Machine through its in-round phases.
type RoundScreen struct {
	machine *session.Machine
	grader  *grading.Grader

	choices components.Choices
	input   components.TextInput
	next    components.Button
	notice  string
}

var (
	_ screen.Screen          = (*RoundScreen)(nil)
	_ screen.KeyHintProvider = (*RoundScreen)(nil)
	_ screen.Backer          = (*RoundScreen)(nil)
)

// New creates a RoundScreen for a machine that has just opened a question.
func New(m *session.Machine, g *grading.Grader) *RoundScreen {
	s := &RoundScreen{machine: m, grader: g}
	s.next = components.NewButton("Next", false, s.advance)
	s.next.Key = "n"
	s.reset()
	return s
}

func (s *RoundScreen) reset() {
	r := s.machine.Round()
	if r == nil {
		return
	}
	s.choices = components.NewChoices(r.Options)
	s.input = components.NewTextInput("type the translation", 40)
	s.next.Active = false
	s.notice = ""
}

func (s *RoundScreen) Init() tea.Cmd {
	return s.start()
}

// start returns the commands a fresh question needs.
func (s *RoundScreen) start() tea.Cmd {
	var cmds []tea.Cmd
	if !s.machine.Mode().IsChoiceBased() {
		cmds = append(cmds, s.input.Init())
	}
	if s.machine.Ticking() {
		cmds = append(cmds, session.TickCmd(s.machine.Generation()))
	}
	return tea.Batch(cmds...)
}

func (s *RoundScreen) Title() string {
	return s.machine.Mode().DisplayName()
}

func (s *RoundScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.machine.Phase() == session.PhaseFeedback:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Menu"},
		}
	case s.machine.Mode().IsChoiceBased():
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "1-4", Description: "Pick"},
			{Key: "Enter", Description: "Answer"},
			{Key: "Esc", Description: "Menu"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Menu"},
		}
	}
}

// Back abandons the round and returns to the menu.
func (s *RoundScreen) Back() tea.Cmd {
	s.machine.ReturnToMenu()
	return router.PopToRoot()
}

func (s *RoundScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case session.TickMsg:
		res := s.machine.Tick(msg.Gen)
		if !res.Applied {
			return s, nil
		}
		if res.Expired != nil {
			return s, s.finish(*res.Expired, -1)
		}
		return s, session.TickCmd(msg.Gen)

	case gradedMsg:
		return s, s.complete(msg)

	case components.ChoiceMsg:
		return s, s.submit(msg.Option)

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}

	if !s.machine.Mode().IsChoiceBased() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *RoundScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	r := s.machine.Round()
	if r == nil {
		return nil
	}

	var cmd tea.Cmd
	switch {
	case s.machine.Phase() == session.PhaseFeedback:
		s.next, cmd = s.next.Update(msg)
	case r.Grading:
	case s.machine.Mode().IsChoiceBased():
		s.choices, cmd = s.choices.Update(msg)
	case msg.String() == "enter":
		cmd = s.submit(s.input.Value())
	default:
		s.input, cmd = s.input.Update(msg)
		s.machine.SetInput(s.input.Value())
	}
	return cmd
}

func (s *RoundScreen) submit(answer string) tea.Cmd {
	p, err := s.machine.Submit(answer)
	switch {
	case errors.Is(err, grading.ErrEmptyAnswer):
		s.notice = "Type an answer first"
		return nil
	case err != nil:
		return nil
	}
	s.notice = ""

	g := s.grader
	return func() tea.Msg {
		res, err := g.Grade(context.Background(), p.Mode, p.Term, p.Answer)
		return gradedMsg{pending: p, result: res, err: err}
	}
}

func (s *RoundScreen) complete(msg gradedMsg) tea.Cmd {
	res := msg.result
	if msg.err != nil {
		log.Printf("round: grading %q failed: %v", msg.pending.Term.Term, msg.err)
		res = grading.Result{
			Correct: judge.Match(msg.pending.Term, msg.pending.Answer),
			Source:  judge.SourceFallback,
		}
	}

	out, ok := s.machine.Complete(msg.pending, res)
	if !ok {
		return nil
	}
	return s.finish(out, s.choices.Index(msg.pending.Answer))
}

// finish locks the answer widgets and persists a new high score.
func (s *RoundScreen) finish(out session.Outcome, chosen int) tea.Cmd {
	r := s.machine.Round()
	if r != nil {
		s.choices.Lock(chosen, r.Term.Translation)
		s.input.Submit(out.Feedback.Correct)
	}
	s.next.Active = true

	if out.HighScore == nil {
		return nil
	}
	return persist(s.machine.Keeper(), out.HighScore)
}

func persist(k *score.Keeper, u *score.Update) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := k.Persist(ctx, u); err != nil {
			log.Printf("round: persist high score %d: %v", u.Score, err)
		}
		return nil
	}
}

func (s *RoundScreen) advance() tea.Cmd {
	if err := s.machine.Advance(); err != nil {
		log.Printf("round: next question: %v", err)
		s.machine.ReturnToMenu()
		text := "Could not pick the next question: " + err.Error()
		return tea.Sequence(router.PopToRoot(), func() tea.Msg {
			return screen.NoticeMsg{Text: text}
		})
	}
	s.reset()
	return s.start()
}

func (s *RoundScreen) View(width, height int) string {
	r := s.machine.Round()
	if r == nil {
		return ""
	}
	cw := components.ContentWidth(width)

	var sections []string

	sub := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s · %s", r.Mode.DisplayName(), r.Filter.DisplayName()))
	sections = append(sections, sub)

	if r.Mode.IsTimed() {
		remaining := time.Duration(r.SecondsRemaining) * time.Second
		sections = append(sections, components.NewCountdownBar(remaining, s.machine.Budget(r.Mode), cw).View())
	}

	card := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(r.Term.Term) + "\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(r.Term.LangDisplayName()) + "\n\n" +
		components.RarityBadge(r.Term.Rarity) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  +%d XP", r.Term.Rarity.XP()))
	sections = append(sections, components.TermCard(card, r.Term.Rarity, cw))

	if r.Mode.IsChoiceBased() {
		sections = append(sections, "Pick the Russian translation:", s.choices.View())
	} else {
		sections = append(sections, "Type the Russian translation:", s.input.View())
	}

	if r.Grading {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("Checking answer…"))
	}
	if fb := r.Feedback; fb != nil {
		sections = append(sections, renderFeedback(*fb, cw), s.next.View())
	}
	if s.notice != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).Render(s.notice))
	}

	content := lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func renderFeedback(fb session.Feedback, cw int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(theme.Error)
	switch {
	case fb.Correct:
		style = style.Foreground(theme.Success)
	case fb.Expired:
		style = style.Foreground(theme.Accent)
	}
	out := style.Render(fb.Message)
	if fb.Explanation != "" {
		out += "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw).Render(fb.Explanation)
	}
	return out
}
