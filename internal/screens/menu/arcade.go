package menu

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexicon/internal/screens/welcome"
	"github.com/abhisek/lexicon/internal/store"
	"github.com/abhisek/lexicon/internal/ui/components"
	"github.com/abhisek/lexicon/internal/ui/theme"
)

const titleCompact = "L · E · X · I · C · O · N"

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderTitle returns the block banner, or a one-line title when compact.
func renderTitle(width, cw int, compact bool) string {
	title := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(titleCompact)
	if !compact {
		title = welcome.RenderBanner(width)
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(title)
}

// renderStatsBar shows the player name and best score.
func renderStatsBar(name string, best, cw int, compact bool) string {
	nameStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	bestStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s", nameStyle.Render("♪"+name), bestStyle.Render(fmt.Sprintf("★%d", best)))
	} else {
		stats = fmt.Sprintf("%s  %s", nameStyle.Render("♪ "+name), bestStyle.Render(fmt.Sprintf("★ %d BEST", best)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderLeaderboard renders the ranked entries. The row for uid is marked.
func renderLeaderboard(entries []store.LeaderboardEntry, uid string, cw int) string {
	head := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("TOP " + fmt.Sprint(LeaderboardSize))
	if len(entries) == 0 {
		empty := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("No scores yet. Be the first!")
		return components.ArcadeCard(head+"\n\n"+empty, cw)
	}

	rowWidth := min(cw-8, 36)
	var rows []string
	for i, e := range entries {
		left := fmt.Sprintf("%d. %s", i+1, e.DisplayName)
		right := fmt.Sprint(e.Score)
		gap := max(rowWidth-lipgloss.Width(left)-lipgloss.Width(right), 1)
		line := left + strings.Repeat(" ", gap) + right

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if uid != "" && e.UID == uid {
			style = style.Foreground(theme.ArcadeCyan).Bold(true)
		}
		rows = append(rows, style.Render(line))
	}
	return components.ArcadeCard(head+"\n\n"+strings.Join(rows, "\n"), cw)
}

// renderArcadeMenu renders each item as a fixed-width button.
func renderArcadeMenu(items []string, selected int, cw int, disabled map[int]bool) string {
	disabledBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	var buttons []string
	for i, label := range items {
		if disabled[i] {
			buttons = append(buttons, disabledBtn.Render(label))
			continue
		}
		buttons = append(buttons, components.ArcadeButton(label, i == selected, buttonWidth))
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderArcadeMenuCompact renders items as plain lines for small terminals
// where bordered buttons would overflow.
func renderArcadeMenuCompact(items []string, selected int, cw int, disabled map[int]bool) string {
	var lines []string
	for i, label := range items {
		var line string
		switch {
		case disabled[i]:
			line = lipgloss.NewStyle().Foreground(theme.TextDim).Render("   " + label)
		case i == selected:
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ " + label + " ")
		default:
			line = lipgloss.NewStyle().Foreground(theme.Text).Render("   " + label)
		}
		lines = append(lines, line)
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderJudgeBanner warns that free-text answers are graded by exact match.
func renderJudgeBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ No judge configured: Hard mode accepts exact translations only")
}

func renderHint(hint string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Width(cw).
		Align(lipgloss.Center).
		Render(hint)
}

func renderNotice(text string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}
