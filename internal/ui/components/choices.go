package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexicon/internal/ui/theme"
)

// Choices is a vertical list of answer options. Once Locked it shows the
// chosen option and the correct one.
type Choices struct {
	Options  []string
	Selected int

	Locked  bool
	Chosen  int
	Correct string
}

// NewChoices creates a choice list with the first option selected.
func NewChoices(options []string) Choices {
	return Choices{Options: options, Chosen: -1}
}

// ChoiceMsg is emitted when the player confirms an option.
type ChoiceMsg struct {
	Option string
}

// Update handles keyboard navigation and selection. Digits 1-9 pick an
// option directly.
func (c Choices) Update(msg tea.Msg) (Choices, tea.Cmd) {
	if c.Locked || len(c.Options) == 0 {
		return c, nil
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "enter", "space":
		return c, c.choose(c.Selected)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(c.Options) {
				c.Selected = i
				return c, c.choose(i)
			}
		}
	}

	return c, nil
}

func (c Choices) choose(i int) tea.Cmd {
	opt := c.Options[i]
	return func() tea.Msg { return ChoiceMsg{Option: opt} }
}

// Lock freezes the list after an answer. chosen may be -1 when time ran out.
func (c *Choices) Lock(chosen int, correct string) {
	c.Locked = true
	c.Chosen = chosen
	c.Correct = correct
}

// Index returns the position of option, or -1.
func (c Choices) Index(option string) int {
	for i, o := range c.Options {
		if o == option {
			return i
		}
	}
	return -1
}

// View renders the option list.
func (c Choices) View() string {
	var s string
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected && !c.Locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case c.Locked && opt == c.Correct:
			style = style.Foreground(theme.Success).Bold(true)
		case c.Locked && i == c.Chosen:
			style = style.Foreground(theme.Error).Bold(true)
		case c.Locked:
			style = style.Foreground(theme.TextDim)
		case i == c.Selected:
			style = style.Foreground(theme.Primary).Bold(true)
		}
		s += style.Render(line) + "\n"
	}
	return s
}
