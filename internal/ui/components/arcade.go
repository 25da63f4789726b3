package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexicon/internal/rarity"
	"github.com/abhisek/lexicon/internal/ui/theme"
)

// ContentWidth returns the inner width shared by every card on a screen so
// that stacked boxes line up.
func ContentWidth(frameWidth int) int {
	// cabinet border (2) + inner padding (4)
	return min(max(frameWidth-6, 20), 60)
}

// CabinetFrame wraps content in a double border centred in width x height.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard wraps content in a rounded card of content width cw.
func ArcadeCard(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// TermCard is an ArcadeCard whose border carries the rarity colour of the
// term being asked.
func TermCard(content string, tier rarity.Tier, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.RarityColor(tier)).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// RarityBadge renders "<icon> <Name>" in the tier colour.
func RarityBadge(tier rarity.Tier) string {
	return lipgloss.NewStyle().
		Foreground(theme.RarityColor(tier)).
		Bold(true).
		Render(tier.Icon() + " " + tier.DisplayName())
}

// ArcadeButton renders a wide selectable button.
func ArcadeButton(label string, selected bool, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if selected {
		return style.
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	}
	return style.
		Foreground(theme.Text).
		BorderForeground(theme.Border).
		Render(label)
}
