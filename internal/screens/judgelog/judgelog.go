// Package judgelog shows the answer-judging calls recorded in the store.
package judgelog

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexicon/internal/screen"
	"github.com/abhisek/lexicon/internal/store"
	"github.com/abhisek/lexicon/internal/ui/layout"
	"github.com/abhisek/lexicon/internal/ui/theme"
)

// pageSize caps how many events are loaded.
const pageSize = 50

type loadedMsg struct {
	Events []store.JudgeEvent
	Err    error
}

// JudgeLogScreen lists recent judge events, newest first.
type JudgeLogScreen struct {
	events   store.JudgeEventRepo
	list     []store.JudgeEvent
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*JudgeLogScreen)(nil)
var _ screen.KeyHintProvider = (*JudgeLogScreen)(nil)

// New creates a JudgeLogScreen reading from events.
func New(events store.JudgeEventRepo) *JudgeLogScreen {
	return &JudgeLogScreen{
		events:   events,
		expanded: make(map[int]bool),
	}
}

func (s *JudgeLogScreen) Init() tea.Cmd {
	return func() tea.Msg {
		list, err := s.events.List(context.Background(), store.QueryOpts{Limit: pageSize})
		return loadedMsg{Events: list, Err: err}
	}
}

func (s *JudgeLogScreen) Title() string {
	return "Judge Log"
}

func (s *JudgeLogScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *JudgeLogScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.list = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.list)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *JudgeLogScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading judge log...")
	}
	if len(s.list) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No answers judged yet. Try Hard mode!")
	}

	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString("\n")
	for i, e := range s.list {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case i == s.selected:
			style = style.Foreground(theme.Primary).Bold(true)
		case !e.Success:
			style = style.Foreground(theme.Error)
		}

		line := fmt.Sprintf("%s%s  %-18s %-6s %-14s %5dms",
			prefix, e.Timestamp.Local().Format("Jan 02 15:04"), e.Term, Status(e), e.Model, e.LatencyMs)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, d := range details(e) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    "+d)))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// Status is the short outcome label of an event.
func Status(e store.JudgeEvent) string {
	switch {
	case e.Fallback:
		return "local"
	case e.Success:
		return "ok"
	default:
		return "error"
	}
}

func details(e store.JudgeEvent) []string {
	out := []string{fmt.Sprintf("%s / %s  tokens %d→%d", e.Provider, e.Purpose, e.InputTokens, e.OutputTokens)}
	if e.ErrorMessage != "" {
		out = append(out, "error: "+e.ErrorMessage)
	}
	if e.ResponseBody != "" {
		out = append(out, "reply: "+truncate(e.ResponseBody, 60))
	}
	return out
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
