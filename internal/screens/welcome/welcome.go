package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexicon/internal/router"
	"github.com/abhisek/lexicon/internal/screen"
	"github.com/abhisek/lexicon/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	staffEnd     = 500 * time.Millisecond
	notesEnd     = 1500 * time.Millisecond
	totalDur     = 4500 * time.Millisecond
)

const staffArt = `──────────────────────────────
──────────────────────────────
──────────────────────────────
──────────────────────────────
──────────────────────────────`

// notes scroll across the staff one column per tick.
var notes = []string{"♩", "♪", "♫", "♬"}

type tickMsg time.Time

// WelcomeScreen plays a short splash and then hands over to the menu.
type WelcomeScreen struct {
	menuFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with menuFactory().
func New(menuFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		menuFactory: menuFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed += tickInterval
		w.tickCount++
		if w.elapsed >= totalDur {
			w.elapsed = totalDur
			return w, w.transition()
		}
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	menu := w.menuFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: menu}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	staff := strings.Split(staffArt, "\n")
	if w.elapsed >= staffEnd {
		noteStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
		for i := range staff {
			runes := []rune(staff[i])
			col := (w.tickCount*2 + i*7) % len(runes)
			note := notes[(w.tickCount+i)%len(notes)]
			staff[i] = string(runes[:col]) + noteStyle.Render(note) + string(runes[col+1:])
		}
	}
	staffStyle := lipgloss.NewStyle().Foreground(theme.Border)
	sections = append(sections, staffStyle.Render(strings.Join(staff, "\n")))

	if w.elapsed >= notesEnd {
		sections = append(sections, "", RenderBanner(width), "")

		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Learn the words behind the music")
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue")
		sections = append(sections, tagline, "", hint)
	}

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
