package components

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lexicon/internal/rarity"
)

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func TestChoices_Navigation(t *testing.T) {
	c := NewChoices([]string{"Громко", "Тихо", "Медленно"})

	c, _ = c.Update(key("down"))
	c, _ = c.Update(key("down"))
	c, _ = c.Update(key("down"))
	if c.Selected != 2 {
		t.Fatalf("expected selection clamped at 2, got %d", c.Selected)
	}

	c, _ = c.Update(key("up"))
	_, cmd := c.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	msg, ok := cmd().(ChoiceMsg)
	if !ok || msg.Option != "Тихо" {
		t.Fatalf("unexpected message %#v", cmd())
	}
}

func TestChoices_DigitShortcut(t *testing.T) {
	c := NewChoices([]string{"a", "b", "c"})

	c, cmd := c.Update(key("3"))
	if cmd == nil || c.Selected != 2 {
		t.Fatalf("expected option 3 to be chosen, selected=%d", c.Selected)
	}
	if got := cmd().(ChoiceMsg).Option; got != "c" {
		t.Fatalf("expected c, got %q", got)
	}

	if _, cmd := c.Update(key("9")); cmd != nil {
		t.Fatal("out-of-range digit should be ignored")
	}
}

func TestChoices_LockedIgnoresInput(t *testing.T) {
	c := NewChoices([]string{"a", "b"})
	c.Lock(c.Index("b"), "a")

	if _, cmd := c.Update(key("enter")); cmd != nil {
		t.Fatal("locked choices must not emit")
	}
	if c.Chosen != 1 || c.Correct != "a" {
		t.Fatalf("unexpected lock state %+v", c)
	}
	if c.Index("zzz") != -1 {
		t.Fatal("expected -1 for unknown option")
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	fired := ""
	m := NewMenu([]MenuItem{
		{Label: "Off", Disabled: true},
		{Label: "Quiz", Action: func() tea.Cmd { fired = "quiz"; return nil }},
		{Label: "Off", Disabled: true},
		{Label: "Hard", Action: func() tea.Cmd { fired = "hard"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("expected first enabled item, got %d", m.Selected)
	}

	m, _ = m.Update(key("down"))
	if m.Selected != 3 {
		t.Fatalf("expected to skip disabled item, got %d", m.Selected)
	}
	m.Update(key("enter"))
	if fired != "hard" {
		t.Fatalf("expected hard action, got %q", fired)
	}
}

func TestMenu_ViewShowsHint(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "Quiz", Hint: "4 options"}})
	if v := m.View(); !strings.Contains(v, "Quiz") || !strings.Contains(v, "4 options") {
		t.Fatalf("unexpected view %q", v)
	}
}

func TestButton_Shortcut(t *testing.T) {
	pressed := 0
	b := NewButton("Next", true, func() tea.Cmd { pressed++; return nil })
	b.Key = "n"

	b.Update(key("n"))
	b.Update(key("enter"))
	b.Update(key("x"))
	if pressed != 2 {
		t.Fatalf("expected 2 presses, got %d", pressed)
	}

	b.Active = false
	b.Update(key("enter"))
	if pressed != 2 {
		t.Fatal("inactive button must not fire")
	}
}

func TestCountdownBar(t *testing.T) {
	full := NewCountdownBar(10*time.Second, 10*time.Second, 40)
	if full.Percent != 1 {
		t.Fatalf("expected full bar, got %v", full.Percent)
	}
	if !strings.Contains(full.Label, "10s") {
		t.Fatalf("unexpected label %q", full.Label)
	}

	low := NewCountdownBar(2*time.Second, 10*time.Second, 40)
	if low.Fill == full.Fill {
		t.Fatal("expected the bar to change colour when time is low")
	}

	if empty := NewCountdownBar(0, 0, 40); empty.Percent != 0 {
		t.Fatalf("zero budget should render empty, got %v", empty.Percent)
	}
}

func TestRarityBadge(t *testing.T) {
	for _, tier := range rarity.All() {
		if v := RarityBadge(tier); !strings.Contains(v, tier.DisplayName()) {
			t.Errorf("badge for %v missing name: %q", tier, v)
		}
	}
}

func TestContentWidth(t *testing.T) {
	tests := []struct{ in, want int }{{10, 20}, {50, 44}, {200, 60}}
	for _, tt := range tests {
		if got := ContentWidth(tt.in); got != tt.want {
			t.Errorf("ContentWidth(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
